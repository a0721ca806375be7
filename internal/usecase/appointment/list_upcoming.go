package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/dto"
)

const (
	UpcomingLimit          = 10
	DashboardUpcomingLimit = 5
)

type ListUpcoming struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewListUpcoming(repo domain.Repository, loc *time.Location) *ListUpcoming {
	return &ListUpcoming{repo: repo, loc: loc, now: time.Now}
}

// Execute returns up to limit appointments scheduled from now on, any
// status, soonest first.
func (uc *ListUpcoming) Execute(ctx context.Context, limit int) ([]dto.AppointmentDTO, error) {
	if limit <= 0 {
		limit = UpcomingLimit
	}

	appointments, err := uc.repo.ListUpcoming(ctx, uc.now(), limit)
	if err != nil {
		return nil, err
	}

	return dto.FromAppointments(appointments, uc.loc), nil
}
