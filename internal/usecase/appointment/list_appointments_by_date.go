package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/dto"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	loc *time.Location,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
		loc:  loc,
		now:  time.Now,
	}
}

// Execute returns every appointment (any status) on date's calendar day in
// the shop timezone, earliest first.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date time.Time,
) ([]dto.AppointmentDTO, error) {

	start, end := timezone.DayBounds(date, uc.loc)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, start, end)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments, uc.loc), nil
}

func (uc *ListAppointmentsByDate) Today(ctx context.Context) ([]dto.AppointmentDTO, error) {
	return uc.Execute(ctx, uc.now())
}
