package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
	"github.com/BruksfildServices01/petshop-scheduler/internal/usecase/dashboard"
)

type DashboardGormRepository struct {
	db *gorm.DB
}

func NewDashboardGormRepository(db *gorm.DB) *DashboardGormRepository {
	return &DashboardGormRepository{db: db}
}

func (r *DashboardGormRepository) count(ctx context.Context, model any, query string, args ...any) (int64, error) {
	q := r.db.WithContext(ctx).Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}

	var n int64
	err := q.Count(&n).Error
	return n, err
}

func (r *DashboardGormRepository) CountClients(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Client{}, "")
}

func (r *DashboardGormRepository) CountClientsSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, &models.Client{}, "created_at >= ?", since.UTC())
}

func (r *DashboardGormRepository) CountPets(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Pet{}, "")
}

func (r *DashboardGormRepository) CountActiveServices(ctx context.Context) (int64, error) {
	return r.count(ctx, &models.Service{}, "active = ?", true)
}

func (r *DashboardGormRepository) CountAppointmentsBetween(ctx context.Context, start, end time.Time) (int64, error) {
	return r.count(ctx, &models.Appointment{}, "scheduled_at >= ? AND scheduled_at < ?", start.UTC(), end.UTC())
}

func (r *DashboardGormRepository) CountAppointmentsWithStatus(ctx context.Context, status string) (int64, error) {
	return r.count(ctx, &models.Appointment{}, "status = ?", status)
}

var _ dashboard.Repository = (*DashboardGormRepository)(nil)
