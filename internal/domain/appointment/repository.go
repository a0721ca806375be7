package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

type ListFilter struct {
	PetID     uint
	ServiceID uint
	Status    Status
	// Ordering is one of scheduled_at, -scheduled_at, created_at, -created_at.
	Ordering string
}

type Repository interface {
	// -------- Transaction --------
	// Transaction runs fn against a repository bound to one database
	// transaction; fn's error rolls it back.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Pet / Service --------
	GetPet(
		ctx context.Context,
		id uint,
	) (*models.Pet, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	// -------- Appointment (create / conflict) --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	HasActiveBooking(
		ctx context.Context,
		serviceID uint,
		at time.Time,
		excludeID uint,
	) (bool, error)

	// -------- Appointment (read / state change) --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, error)

	// -------- Availability / agenda --------
	ListActiveStartsForService(
		ctx context.Context,
		serviceID uint,
		start time.Time,
		end time.Time,
	) ([]time.Time, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListUpcoming(
		ctx context.Context,
		from time.Time,
		limit int,
	) ([]models.Appointment, error)
}
