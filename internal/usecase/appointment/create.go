package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	UserID *uint

	PetID       uint
	ServiceID   uint
	ScheduledAt time.Time
	Notes       string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo    domain.Repository
	rules   domain.Rules
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	rules domain.Rules,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
) *CreateAppointment {
	return &CreateAppointment{
		repo:    repo,
		rules:   rules,
		audit:   audit,
		metrics: metrics,
		now:     time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	cand := domain.Candidate{
		PetID:       in.PetID,
		ServiceID:   in.ServiceID,
		ScheduledAt: in.ScheduledAt,
	}

	var createdID uint

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {

		// --------------------------------------------------
		// Pet e serviço precisam existir
		// --------------------------------------------------
		if _, err := tx.GetPet(ctx, in.PetID); err != nil {
			return err
		}
		if _, err := tx.GetService(ctx, in.ServiceID); err != nil {
			return err
		}

		// --------------------------------------------------
		// Regras de agenda (uma única avaliação por escrita)
		// --------------------------------------------------
		if err := validateSchedule(ctx, tx, uc.rules, cand, uc.now()); err != nil {
			return err
		}

		ap := &models.Appointment{
			PetID:       in.PetID,
			ServiceID:   in.ServiceID,
			ScheduledAt: in.ScheduledAt,
			Status:      string(domain.InitialStatus()),
			Notes:       in.Notes,
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			return translateWriteError(err)
		}

		createdID = ap.ID
		return nil
	})

	if err != nil {
		recordRejection(uc.metrics, uc.audit, in.UserID, err, cand)
		return nil, err
	}

	uc.metrics.AppointmentCreated()

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   audit.ActionAppointmentCreated,
		Entity:   audit.EntityAppointment,
		EntityID: &createdID,
	})

	return uc.repo.GetAppointment(ctx, createdID)
}
