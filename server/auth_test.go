package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuth(t *testing.T) (*Auth, *DB) {
	t.Helper()
	prev := bcryptCost
	bcryptCost = bcrypt.MinCost
	t.Cleanup(func() { bcryptCost = prev })
	db := openTestDB(t)
	return NewAuth(db), db
}

func TestRegisterAndLogin(t *testing.T) {
	a, _ := newTestAuth(t)

	id, token, err := a.Register("  ace ", "hunter2")
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.NotEmpty(t, token)

	_, _, err = a.Register("ace", "whatever")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	loginID, _, err := a.Login("ace", "hunter2", "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, id, loginID)

	_, _, err = a.Login("ace", "wrong", "1.2.3.4")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = a.Login("nobody", "hunter2", "1.2.3.4")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestRegisterValidation(t *testing.T) {
	a, _ := newTestAuth(t)

	tests := []struct {
		name, user, pass string
	}{
		{"short username", "a", "hunter2"},
		{"long username", "abcdefghijklmnopq", "hunter2"},
		{"short password", "ace", "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := a.Register(tt.user, tt.pass)
			assert.Error(t, err)
		})
	}
}

func TestValidateToken(t *testing.T) {
	a, _ := newTestAuth(t)
	id, token, err := a.Register("ace", "hunter2")
	require.NoError(t, err)

	gotID, user, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "ace", user)

	_, _, err = a.ValidateToken(token + "x")
	assert.Error(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"pid": id,
		"usr": "ace",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	raw, err := expired.SignedString(a.jwtSecret)
	require.NoError(t, err)
	_, _, err = a.ValidateToken(raw)
	assert.Error(t, err)
}

func TestSecretSurvivesRestart(t *testing.T) {
	a, db := newTestAuth(t)
	_, token, err := a.Register("ace", "hunter2")
	require.NoError(t, err)

	again := NewAuth(db)
	assert.Equal(t, a.jwtSecret, again.jwtSecret)
	_, _, err = again.ValidateToken(token)
	assert.NoError(t, err)
}

func TestLoginRateLimit(t *testing.T) {
	a, _ := newTestAuth(t)
	for i := 0; i < maxLoginAttempts; i++ {
		_, _, err := a.Login("nobody", "x", "9.9.9.9")
		require.ErrorIs(t, err, ErrBadCredentials)
	}
	_, _, err := a.Login("nobody", "x", "9.9.9.9")
	assert.ErrorIs(t, err, ErrRateLimited)

	_, _, err = a.Login("nobody", "x", "8.8.8.8")
	assert.ErrorIs(t, err, ErrBadCredentials, "limit is per address")
}

func TestGuestName(t *testing.T) {
	n := GuestName()
	assert.Regexp(t, `^Pilot_[0-9a-f]{6}$`, n)
	assert.LessOrEqual(t, len(n), maxNameLen)
}
