package appointment

import (
	"context"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

var transitionActions = map[domain.Status]string{
	domain.StatusConfirmed: audit.ActionAppointmentConfirmed,
	domain.StatusCancelled: audit.ActionAppointmentCancelled,
	domain.StatusCompleted: audit.ActionAppointmentCompleted,
}

// ChangeStatus backs the confirm/cancel/complete actions. The new status is
// set unconditionally; the only way it can fail (besides a missing
// appointment) is the storage index rejecting a reactivated slot.
type ChangeStatus struct {
	repo    domain.Repository
	audit   *audit.Dispatcher
	metrics *metrics.Metrics
}

func NewChangeStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
	metrics *metrics.Metrics,
) *ChangeStatus {
	return &ChangeStatus{
		repo:    repo,
		audit:   audit,
		metrics: metrics,
	}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	appointmentID uint,
	target domain.Status,
	userID *uint,
) (*models.Appointment, error) {

	action, ok := transitionActions[target]
	if !ok {
		return nil, domain.ErrInvalidStatus
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.Apply(ap, target); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, translateWriteError(err)
	}

	uc.metrics.StatusTransition(string(target))

	uc.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   action,
		Entity:   audit.EntityAppointment,
		EntityID: &ap.ID,
	})

	return ap, nil
}
