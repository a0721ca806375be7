package appointment

import (
	"context"
	"strings"

	domain "github.com/BruksfildServices01/petshop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
)

type GetAvailability struct {
	repo  domain.Repository
	rules domain.Rules
}

func NewGetAvailability(repo domain.Repository, rules domain.Rules) *GetAvailability {
	return &GetAvailability{repo: repo, rules: rules}
}

// Execute lists the free hourly slots of dateStr (YYYY-MM-DD) for a service.
// Only scheduled/confirmed appointments occupy a slot.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	dateStr string,
	serviceID uint,
) (*domain.Availability, error) {

	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil, domain.ErrInvalidDate
	}

	date, err := timezone.ParseDate(dateStr, uc.rules.Location)
	if err != nil {
		return nil, domain.ErrInvalidDate
	}

	service, err := uc.repo.GetService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	start, end := timezone.DayBounds(date, uc.rules.Location)

	booked, err := uc.repo.ListActiveStartsForService(ctx, service.ID, start, end)
	if err != nil {
		return nil, err
	}

	slots := uc.rules.FreeSlots(date, booked)

	return &domain.Availability{
		Date:        dateStr,
		ServiceID:   service.ID,
		ServiceName: service.Name,
		Slots:       slots,
		Total:       len(slots),
	}, nil
}
