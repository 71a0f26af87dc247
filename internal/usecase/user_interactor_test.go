package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GoArmGo/SmokeLog/internal/auth"
	"github.com/GoArmGo/SmokeLog/internal/domain"
	"github.com/GoArmGo/SmokeLog/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserFixture() (UserUseCase, *auth.Guard) {
	sessions := auth.NewSessionManager([]byte("usecase-test-secret-123"), time.Hour)
	guard := auth.NewGuard(sessions, auth.NewMemoryTokenRevoker(), logger.Discard())
	return NewUserUseCase(newMemUsers(), sessions, guard, time.Second, logger.Discard()), guard
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc, guard := newUserFixture()

	u, err := uc.Register(ctx, domain.RegisterInput{Username: " pitmaster ", Email: "Pit@Example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "pitmaster", u.Username)
	assert.Equal(t, "pit@example.com", u.Email)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	session, err := uc.Login(ctx, domain.LoginInput{Email: "PIT@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, u.ID, session.User.ID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	p, err := guard.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)

	me, err := uc.CurrentUser(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, "pitmaster", me.Username)

	require.NoError(t, uc.Logout(ctx, p))
	_, err = guard.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserFixture()

	cases := []struct {
		in  domain.RegisterInput
		msg string
	}{
		{domain.RegisterInput{Email: "a@b.co", Password: "secret1"}, domain.MsgMissingFields},
		{domain.RegisterInput{Username: "a", Email: "nope", Password: "secret1"}, domain.MsgInvalidEmail},
		{domain.RegisterInput{Username: "a", Email: "a@b.co", Password: "12345"}, domain.MsgPasswordTooShort},
	}
	for _, tc := range cases {
		_, err := uc.Register(ctx, tc.in)
		var verr *domain.ValidationError
		require.True(t, errors.As(err, &verr), tc.msg)
		assert.Equal(t, tc.msg, verr.Message)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserFixture()

	_, err := uc.Register(ctx, domain.RegisterInput{Username: "a", Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, domain.RegisterInput{Username: "a", Email: "other@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	uc, _ := newUserFixture()

	_, err := uc.Register(ctx, domain.RegisterInput{Username: "a", Email: "a@b.co", Password: "secret1"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, domain.LoginInput{Email: "a@b.co", Password: "wrong-pass"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, domain.LoginInput{Email: "ghost@b.co", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = uc.Login(ctx, domain.LoginInput{Email: "a@b.co"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
