package appointment

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

// 2030-03-05 is a Tuesday.
func at(loc *time.Location, day, hour, min, sec int) time.Time {
	return time.Date(2030, 3, day, hour, min, sec, 0, loc)
}

func TestRules_IsWithinWorkingHours(t *testing.T) {
	loc := saoPaulo(t)
	r := NewRules(loc, nil)

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"opening instant", at(loc, 5, 8, 0, 0), true},
		{"one second before opening", at(loc, 5, 7, 59, 59), false},
		{"midday", at(loc, 5, 12, 30, 0), true},
		{"closing instant", at(loc, 5, 18, 0, 0), true},
		{"one second after closing", at(loc, 5, 18, 0, 1), false},
		{"evening", at(loc, 5, 19, 0, 0), false},
		{"utc input judged in shop zone", time.Date(2030, 3, 5, 12, 0, 0, 0, time.UTC), true},
		{"utc late night is shop evening", time.Date(2030, 3, 5, 23, 0, 0, 0, time.UTC), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.IsWithinWorkingHours(tc.at))
		})
	}
}

func TestRules_Check(t *testing.T) {
	loc := saoPaulo(t)
	r := NewRules(loc, []time.Weekday{time.Sunday})
	now := at(loc, 4, 10, 0, 0)

	t.Run("valid", func(t *testing.T) {
		err := r.Check(Candidate{ScheduledAt: at(loc, 5, 9, 0, 0)}, now)
		assert.NoError(t, err)
	})

	t.Run("past date", func(t *testing.T) {
		err := r.Check(Candidate{ScheduledAt: at(loc, 4, 9, 0, 0)}, now)
		assert.ErrorIs(t, err, ErrPastDate)
	})

	t.Run("exactly now is not past", func(t *testing.T) {
		err := r.Check(Candidate{ScheduledAt: now}, now)
		assert.NoError(t, err)
	})

	t.Run("out of hours", func(t *testing.T) {
		err := r.Check(Candidate{ScheduledAt: at(loc, 5, 19, 0, 0)}, now)
		assert.ErrorIs(t, err, ErrOutOfHours)
	})

	t.Run("closed day on create", func(t *testing.T) {
		err := r.Check(Candidate{ScheduledAt: at(loc, 10, 9, 0, 0)}, now)
		assert.ErrorIs(t, err, ErrClosedDay)
	})

	t.Run("closed day ignored on update", func(t *testing.T) {
		err := r.Check(Candidate{ScheduledAt: at(loc, 10, 9, 0, 0), ExcludeID: 7}, now)
		assert.NoError(t, err)
	})

	t.Run("past date wins over out of hours", func(t *testing.T) {
		err := r.Check(Candidate{ScheduledAt: at(loc, 3, 20, 0, 0)}, now)
		assert.ErrorIs(t, err, ErrPastDate)
	})
}

func TestRules_FreeSlots(t *testing.T) {
	loc := saoPaulo(t)
	r := NewRules(loc, nil)
	day := at(loc, 5, 0, 0, 0)

	all := r.FreeSlots(day, nil)
	assert.Equal(t, []string{
		"08:00", "09:00", "10:00", "11:00", "12:00",
		"13:00", "14:00", "15:00", "16:00", "17:00",
	}, all)

	booked := []time.Time{
		at(loc, 5, 9, 0, 0),
		at(loc, 5, 17, 0, 0).UTC(),
		at(loc, 5, 10, 30, 0), // off the hour: does not occupy a slot
		at(loc, 6, 11, 0, 0),  // other day
	}
	free := r.FreeSlots(day, booked)

	assert.Equal(t, []string{
		"08:00", "10:00", "11:00", "12:00",
		"13:00", "14:00", "15:00", "16:00",
	}, free)
}

func TestStatus(t *testing.T) {
	assert.True(t, StatusScheduled.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusCompleted.IsActive())

	assert.False(t, Status("pending").Valid())
	assert.Equal(t, "Cancelado", StatusCancelled.Display())
	assert.Equal(t, StatusScheduled, InitialStatus())
}

func TestApply_HasNoGuards(t *testing.T) {
	ap := &models.Appointment{Status: string(StatusScheduled)}

	require.NoError(t, Apply(ap, StatusConfirmed))
	require.NoError(t, Apply(ap, StatusCancelled))
	assert.Equal(t, string(StatusCancelled), ap.Status)

	require.NoError(t, Apply(ap, StatusCompleted))
	assert.Equal(t, string(StatusCompleted), ap.Status)

	assert.ErrorIs(t, Apply(ap, Status("archived")), ErrInvalidStatus)
	assert.Equal(t, string(StatusCompleted), ap.Status)
}
