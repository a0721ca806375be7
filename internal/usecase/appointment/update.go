package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

// UpdateAppointmentInput carries a partial update; nil fields are left as-is.
type UpdateAppointmentInput struct {
	UserID *uint

	PetID       *uint
	ServiceID   *uint
	ScheduledAt *time.Time
	Status      *domain.Status
	Notes       *string
}

type UpdateAppointment struct {
	repo    domain.Repository
	rules   domain.Rules
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	rules domain.Rules,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:    repo,
		rules:   rules,
		audit:   audit,
		metrics: metrics,
		now:     time.Now,
	}
}

// Execute re-runs the scheduling rules only when the slot itself changes
// (time or service). Reactivating a cancelled/completed appointment only
// re-checks that the slot is still free.
func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	id uint,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	var cand domain.Candidate

	err := uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ap, err := tx.GetAppointment(ctx, id)
		if err != nil {
			return err
		}

		prevStatus := domain.Status(ap.Status)
		slotChanged := false

		if in.PetID != nil && *in.PetID != ap.PetID {
			if _, err := tx.GetPet(ctx, *in.PetID); err != nil {
				return err
			}
			ap.PetID = *in.PetID
		}

		if in.ServiceID != nil && *in.ServiceID != ap.ServiceID {
			if _, err := tx.GetService(ctx, *in.ServiceID); err != nil {
				return err
			}
			ap.ServiceID = *in.ServiceID
			slotChanged = true
		}

		if in.ScheduledAt != nil && !in.ScheduledAt.Equal(ap.ScheduledAt) {
			ap.ScheduledAt = *in.ScheduledAt
			slotChanged = true
		}

		if in.Status != nil {
			if err := domain.Apply(ap, *in.Status); err != nil {
				return err
			}
		}

		if in.Notes != nil {
			ap.Notes = *in.Notes
		}

		cand = domain.Candidate{
			PetID:       ap.PetID,
			ServiceID:   ap.ServiceID,
			ScheduledAt: ap.ScheduledAt,
			ExcludeID:   ap.ID,
		}

		nowActive := domain.Status(ap.Status).IsActive()
		switch {
		case slotChanged:
			if err := uc.rules.Check(cand, uc.now()); err != nil {
				return err
			}
			if nowActive {
				if err := checkSlotFree(ctx, tx, cand); err != nil {
					return err
				}
			}
		case nowActive && !prevStatus.IsActive():
			if err := checkSlotFree(ctx, tx, cand); err != nil {
				return err
			}
		}

		if err := tx.UpdateAppointment(ctx, ap); err != nil {
			return translateWriteError(err)
		}
		return nil
	})

	if err != nil {
		recordRejection(uc.metrics, uc.audit, in.UserID, err, cand)
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   in.UserID,
		Action:   audit.ActionAppointmentUpdated,
		Entity:   audit.EntityAppointment,
		EntityID: &id,
	})

	return uc.repo.GetAppointment(ctx, id)
}
