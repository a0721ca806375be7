package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petshop-scheduler/internal/models"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)
	user := &models.User{ID: 7, Username: "ana"}

	pair, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	claims, err := issuer.Parse(pair.Access, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ana", claims.Username)
	assert.NotEmpty(t, claims.ID)

	claims, err = issuer.Parse(pair.Refresh, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, claims.Type)
}

func TestTokenIssuer_RejectsWrongType(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour, 24*time.Hour)
	pair, err := issuer.Issue(&models.User{ID: 1, Username: "ana"})
	require.NoError(t, err)

	_, err = issuer.Parse(pair.Refresh, TypeAccess)
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestTokenIssuer_RejectsExpiredAndForeign(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute, time.Hour)
	start := time.Now()
	issuer.now = func() time.Time { return start }

	pair, err := issuer.Issue(&models.User{ID: 1, Username: "ana"})
	require.NoError(t, err)

	issuer.now = func() time.Time { return start.Add(2 * time.Minute) }
	_, err = issuer.Parse(pair.Access, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenIssuer("another-secret", time.Hour, time.Hour)
	_, err = other.Parse(pair.Refresh, TypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Parse("not-a-jwt", TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPasswords(t *testing.T) {
	hash, err := HashPassword("s3nha-forte")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "s3nha-forte"))
	assert.False(t, CheckPassword(hash, "errada"))
}
