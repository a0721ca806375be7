package appointment

import "github.com/BruksfildServices01/petshop-scheduler/internal/models"

// ===============================
// Domain Actions
// ===============================

// Transitions are plain field sets: no guard stops completing a cancelled
// appointment or cancelling a completed one.

func Confirm(ap *models.Appointment) {
	ap.Status = string(StatusConfirmed)
}

func Cancel(ap *models.Appointment) {
	ap.Status = string(StatusCancelled)
}

func Complete(ap *models.Appointment) {
	ap.Status = string(StatusCompleted)
}

// Apply sets ap to target; target must be a valid status.
func Apply(ap *models.Appointment, target Status) error {
	switch target {
	case StatusConfirmed:
		Confirm(ap)
	case StatusCancelled:
		Cancel(ap)
	case StatusCompleted:
		Complete(ap)
	case StatusScheduled:
		ap.Status = string(StatusScheduled)
	default:
		return ErrInvalidStatus
	}
	return nil
}
