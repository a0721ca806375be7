package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/petshop-scheduler/internal/cache"
	"github.com/BruksfildServices01/petshop-scheduler/internal/metrics"
	"github.com/BruksfildServices01/petshop-scheduler/internal/timezone"
)

const statsCacheKey = "dashboard:stats"

type Stats struct {
	TotalClients          int64 `json:"total_clients"`
	TotalPets             int64 `json:"total_pets"`
	TotalServices         int64 `json:"total_services"`
	AppointmentsToday     int64 `json:"appointments_today"`
	ConfirmedAppointments int64 `json:"confirmed_appointments"`
	NewClients30Days      int64 `json:"new_clients_30_days"`
}

type Repository interface {
	CountClients(ctx context.Context) (int64, error)
	CountClientsSince(ctx context.Context, since time.Time) (int64, error)
	CountPets(ctx context.Context) (int64, error)
	CountActiveServices(ctx context.Context) (int64, error)
	CountAppointmentsBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountAppointmentsWithStatus(ctx context.Context, status string) (int64, error)
}

// GetStats computes the dashboard counters. Results are cached for ttl;
// a cache failure only costs a recomputation.
type GetStats struct {
	repo    Repository
	cache   cache.Store
	ttl     time.Duration
	loc     *time.Location
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewGetStats(
	repo Repository,
	store cache.Store,
	ttl time.Duration,
	loc *time.Location,
	m *metrics.Metrics,
) *GetStats {
	return &GetStats{
		repo:    repo,
		cache:   store,
		ttl:     ttl,
		loc:     loc,
		metrics: m,
		now:     time.Now,
	}
}

func (uc *GetStats) Execute(ctx context.Context) (*Stats, error) {
	if uc.cache != nil && uc.ttl > 0 {
		var cached Stats
		ok, err := uc.cache.Get(ctx, statsCacheKey, &cached)
		if err != nil {
			slog.WarnContext(ctx, "stats cache read failed", "error", err)
		}
		if ok {
			uc.metrics.StatsCacheResult("hit")
			return &cached, nil
		}
		uc.metrics.StatsCacheResult("miss")
	}

	stats, err := uc.compute(ctx)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil && uc.ttl > 0 {
		if err := uc.cache.Set(ctx, statsCacheKey, stats, uc.ttl); err != nil {
			slog.WarnContext(ctx, "stats cache write failed", "error", err)
		}
	}

	return stats, nil
}

// Invalidate drops the cached counters so the next read recomputes them.
func (uc *GetStats) Invalidate(ctx context.Context) {
	if uc == nil || uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, statsCacheKey); err != nil {
		slog.WarnContext(ctx, "stats cache invalidate failed", "error", err)
	}
}

func (uc *GetStats) compute(ctx context.Context) (*Stats, error) {
	now := uc.now().In(uc.loc)
	todayStart, todayEnd := timezone.DayBounds(now, uc.loc)

	var (
		s   Stats
		err error
	)

	if s.TotalClients, err = uc.repo.CountClients(ctx); err != nil {
		return nil, err
	}
	if s.TotalPets, err = uc.repo.CountPets(ctx); err != nil {
		return nil, err
	}
	if s.TotalServices, err = uc.repo.CountActiveServices(ctx); err != nil {
		return nil, err
	}
	if s.AppointmentsToday, err = uc.repo.CountAppointmentsBetween(ctx, todayStart, todayEnd); err != nil {
		return nil, err
	}
	if s.ConfirmedAppointments, err = uc.repo.CountAppointmentsWithStatus(ctx, "confirmed"); err != nil {
		return nil, err
	}
	if s.NewClients30Days, err = uc.repo.CountClientsSince(ctx, todayStart.AddDate(0, 0, -30)); err != nil {
		return nil, err
	}

	return &s, nil
}
