package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Pet / Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPet(
	ctx context.Context,
	id uint,
) (*models.Pet, error) {

	var pet models.Pet
	if err := r.db.WithContext(ctx).
		Preload("Client").
		First(&pet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPetNotFound
		}
		return nil, err
	}
	return &pet, nil
}

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	id uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// HasActiveBooking looks for another scheduled/confirmed appointment of the
// service at exactly the same instant. On PostgreSQL the matching rows are
// locked for the rest of the transaction.
func (r *AppointmentGormRepository) HasActiveBooking(
	ctx context.Context,
	serviceID uint,
	at time.Time,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("id").
		Where(
			"service_id = ? AND scheduled_at = ? AND status IN ?",
			serviceID, at.UTC(), domain.ActiveStatuses(),
		)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var ids []uint
	if err := q.Limit(1).Find(&ids).Error; err != nil {
		return false, err
	}

	return len(ids) > 0, nil
}

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.withRelations(ctx).First(&ap, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}

	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	ap.ScheduledAt = ap.ScheduledAt.UTC()
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAppointmentNotFound
	}
	return nil
}

var appointmentOrderings = map[string]string{
	"scheduled_at":  "scheduled_at ASC",
	"-scheduled_at": "scheduled_at DESC",
	"created_at":    "created_at ASC",
	"-created_at":   "created_at DESC",
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	filter domain.ListFilter,
) ([]models.Appointment, error) {

	q := r.withRelations(ctx)

	if filter.PetID != 0 {
		q = q.Where("pet_id = ?", filter.PetID)
	}
	if filter.ServiceID != 0 {
		q = q.Where("service_id = ?", filter.ServiceID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}

	order, ok := appointmentOrderings[filter.Ordering]
	if !ok {
		order = appointmentOrderings["-scheduled_at"]
	}

	var apps []models.Appointment
	if err := q.Order(order).Order("id ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// --------------------------------------------------
// Availability / agenda
// --------------------------------------------------

func (r *AppointmentGormRepository) ListActiveStartsForService(
	ctx context.Context,
	serviceID uint,
	start time.Time,
	end time.Time,
) ([]time.Time, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("scheduled_at").
		Where(
			"service_id = ? AND status IN ? AND scheduled_at >= ? AND scheduled_at < ?",
			serviceID, domain.ActiveStatuses(), start.UTC(), end.UTC(),
		).
		Order("scheduled_at ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	out := make([]time.Time, 0, len(apps))
	for _, ap := range apps {
		out = append(out, ap.ScheduledAt)
	}
	return out, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withRelations(ctx).
		Where("scheduled_at >= ? AND scheduled_at < ?", start.UTC(), end.UTC()).
		Order("scheduled_at ASC").
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) ListUpcoming(
	ctx context.Context,
	from time.Time,
	limit int,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	err := r.withRelations(ctx).
		Where("scheduled_at >= ?", from.UTC()).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *AppointmentGormRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Pet").
		Preload("Pet.Client").
		Preload("Service")
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
