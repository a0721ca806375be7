package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/petshop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
)

// validateSchedule is the single place every appointment write is checked.
// It must run inside the write transaction so the double-booking read and
// the insert/update see the same state.
func validateSchedule(
	ctx context.Context,
	tx domain.Repository,
	rules domain.Rules,
	c domain.Candidate,
	now time.Time,
) error {
	if err := rules.Check(c, now); err != nil {
		return err
	}
	return checkSlotFree(ctx, tx, c)
}

func checkSlotFree(ctx context.Context, tx domain.Repository, c domain.Candidate) error {
	taken, err := tx.HasActiveBooking(ctx, c.ServiceID, c.ScheduledAt, c.ExcludeID)
	if err != nil {
		return err
	}
	if taken {
		return domain.ErrDoubleBooking
	}
	return nil
}

// translateWriteError turns a unique-index rejection into DoubleBooking.
func translateWriteError(err error) error {
	if httperr.IsUniqueViolation(err) {
		return domain.ErrDoubleBooking
	}
	return err
}

func isRuleViolation(err error) bool {
	switch httperr.CodeOf(err) {
	case "double_booking", "out_of_hours", "past_date", "closed_day":
		return true
	}
	return false
}

func recordRejection(
	m *metrics.Metrics,
	d *audit.Dispatcher,
	userID *uint,
	err error,
	c domain.Candidate,
) {
	if !isRuleViolation(err) {
		return
	}

	code := httperr.CodeOf(err)
	m.AppointmentRejected(code)

	if code == "double_booking" {
		d.Dispatch(audit.Event{
			UserID: userID,
			Action: audit.ActionAppointmentConflict,
			Entity: audit.EntityAppointment,
			Metadata: map[string]any{
				"service_id":   c.ServiceID,
				"scheduled_at": c.ScheduledAt.UTC(),
			},
		})
	}
}
