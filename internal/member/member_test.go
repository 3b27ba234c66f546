package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dwikikusuma/ec-training/internal/apperr"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	s, err := NewService("test-secret", append([]Option{WithCost(bcrypt.MinCost)}, opts...)...)
	require.NoError(t, err)
	return s
}

func TestDemoLogin(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	sess, err := s.Login(ctx, " Test@Example.com ", DemoPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, DemoID, sess.Member.ID)
	assert.Equal(t, RankGeneral, sess.Member.Rank)
	assert.Equal(t, 500, sess.Member.Points)

	m, err := s.Authenticate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Member, m)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	_, err := s.Login(ctx, DemoEmail, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = s.Login(ctx, "nobody@example.com", DemoPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	m, err := s.Register(ctx, RegisterInput{
		Name:            "Hanako",
		Email:           "hanako@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), m.ID)
	assert.Equal(t, RankGeneral, m.Rank)
	assert.Zero(t, m.Points)
	assert.Equal(t, StatusActive, m.Status)

	sess, err := s.Login(ctx, "hanako@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, m.ID, sess.Member.ID)

	_, err = s.Register(ctx, RegisterInput{
		Name:            "Other",
		Email:           "HANAKO@example.com",
		Password:        "secret1",
		PasswordConfirm: "secret1",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterValidation(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   RegisterInput
		want string
	}{
		{"missing name", RegisterInput{Email: "a@b.co", Password: "secret1", PasswordConfirm: "secret1"}, "Name is required"},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "secret1", PasswordConfirm: "secret1"}, "Email must be a valid email address"},
		{"short password", RegisterInput{Name: "A", Email: "a@b.co", Password: "12345", PasswordConfirm: "12345"}, "Password must be at least 6 characters"},
		{"confirmation mismatch", RegisterInput{Name: "A", Email: "a@b.co", Password: "secret1", PasswordConfirm: "secret2"}, "PasswordConfirm must match Password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperr.ErrValidation))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestAuthenticateRejectsExpiredAndForeignTokens(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	s := newTestService(t, WithClock(clock), WithTTL(time.Hour))
	ctx := context.Background()

	sess, err := s.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = s.Authenticate(ctx, sess.Token)
	assert.ErrorIs(t, err, apperr.ErrValidation)

	other, err := NewService("another-secret", WithCost(bcrypt.MinCost))
	require.NoError(t, err)
	foreign, err := other.Login(ctx, DemoEmail, DemoPassword)
	require.NoError(t, err)

	_, err = s.Authenticate(ctx, foreign.Token)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestNewServiceNeedsSecret(t *testing.T) {
	_, err := NewService("")
	assert.Error(t, err)
}
