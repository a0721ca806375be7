package seed

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petshop-scheduler/internal/auth"
	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
	"github.com/BruksfildServices01/petshop-scheduler/internal/testutil"
)

func TestRun_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	opts := Options{
		Location:      time.UTC,
		Now:           time.Date(2030, 3, 5, 7, 0, 0, 0, time.UTC),
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}

	first, err := Run(ctx, db, opts)
	require.NoError(t, err)
	assert.Equal(t, Result{Services: 5, Clients: 4, Pets: 5, Appointments: 4, Users: 1}, *first)

	second, err := Run(ctx, db, opts)
	require.NoError(t, err)
	assert.Equal(t, Result{}, *second)

	var banho models.Service
	require.NoError(t, db.Where("name = ?", "Banho").First(&banho).Error)
	assert.Equal(t, 35.00, banho.Price)
	assert.Equal(t, 60, banho.DurationMin)
	assert.True(t, banho.Active)

	var rex models.Pet
	require.NoError(t, db.Preload("Client").Where("name = ?", "Rex").First(&rex).Error)
	assert.Equal(t, "Ana Silva", rex.Client.Name)

	var admin models.User
	require.NoError(t, db.Where("username = ?", "admin").First(&admin).Error)
	assert.True(t, auth.CheckPassword(admin.PasswordHash, "admin123"))

	var confirmed int64
	require.NoError(t, db.Model(&models.Appointment{}).Where("status = ?", "confirmed").Count(&confirmed).Error)
	assert.Equal(t, int64(2), confirmed)
}
