package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/diyabooks/diya-server/internal/errors"
	"github.com/diyabooks/diya-server/internal/ratelimit"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, session, err := env.auth.Register(ctx, RegisterRequest{
		Email:    "Reader@Example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)
	assert.False(t, user.Admin)
	assert.NotEmpty(t, session.Token)

	loggedIn, loginSession, err := env.auth.Login(ctx, LoginRequest{
		Email:    "reader@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEqual(t, session.Token, loginSession.Token)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"not an email", RegisterRequest{Email: "not-an-email", Password: "pw"}},
		{"empty password", RegisterRequest{Email: "a@b.com"}},
		{"email too long", RegisterRequest{
			Email:    strings.Repeat("a", 120) + "@example.com",
			Password: "pw",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := env.auth.Register(ctx, tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "pw1"})
	require.NoError(t, err)

	_, _, err = env.auth.Register(ctx, RegisterRequest{Email: "A@B.com", Password: "pw2"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestLoginUniformFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, _, err := env.auth.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "pw1"})
	require.NoError(t, err)

	_, _, wrongPass := env.auth.Login(ctx, LoginRequest{Email: "a@b.com", Password: "wrong"})
	_, _, unknown := env.auth.Login(ctx, LoginRequest{Email: "ghost@b.com", Password: "wrong"})

	assert.ErrorIs(t, wrongPass, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, unknown, apperrors.ErrUnauthorized)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestLoginRateLimited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A tight limiter: one attempt then empty bucket.
	env.auth.loginLimiter = ratelimit.New(0.01, 1)

	_, _, first := env.auth.Login(ctx, LoginRequest{Email: "a@b.com", Password: "x"})
	assert.ErrorIs(t, first, apperrors.ErrUnauthorized)

	_, _, second := env.auth.Login(ctx, LoginRequest{Email: "a@b.com", Password: "x"})
	assert.ErrorIs(t, second, apperrors.ErrRateLimited)

	// Other emails have their own bucket.
	_, _, other := env.auth.Login(ctx, LoginRequest{Email: "c@d.com", Password: "x"})
	assert.ErrorIs(t, other, apperrors.ErrUnauthorized)
}

func TestAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, session, err := env.auth.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	got, err := env.auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = env.auth.Authenticate(ctx, "ses_bogus")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	require.NoError(t, env.auth.Logout(ctx, session.Token))
	_, err = env.auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestExpiredSessionRejectedByAuthenticate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Rebuild the auth service with an already-elapsed session TTL.
	env.auth = NewAuthService(env.store, nil, ratelimit.New(100, 100), -time.Minute, slog.New(slog.DiscardHandler))

	userID, err := env.store.AddUser(ctx, "a@b.com", "pw")
	require.NoError(t, err)
	session, err := env.store.CreateSession(ctx, userID, -time.Minute)
	require.NoError(t, err)

	_, err = env.auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSetAccessLevel(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, err := env.auth.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.auth.SetAccessLevel(ctx, user.ID, 2))

	got, err := env.auth.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, got.Admin)
	assert.True(t, got.Premium)

	assert.ErrorIs(t, env.auth.SetAccessLevel(ctx, user.ID, 7), apperrors.ErrValidation)
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, session, err := env.auth.Register(ctx, RegisterRequest{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, env.auth.DeleteAccount(ctx, user.ID))

	_, err = env.auth.GetUser(ctx, user.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = env.auth.Authenticate(ctx, session.Token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
