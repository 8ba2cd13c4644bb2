package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelfmarkapp/shelfmark-server/internal/errors"
)

func registerTestUser(t *testing.T, deps *testDeps, email string) *AuthResponse {
	t.Helper()

	resp, err := deps.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	return resp
}

func TestRegister(t *testing.T) {
	deps := newTestDeps(t)

	resp := registerTestUser(t, deps, "reader@example.com")

	assert.Equal(t, "reader@example.com", resp.User.Email)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, "correct-horse-battery", resp.User.PasswordHash)

	// The refresh token is persisted so it can be checked on refresh.
	stored, err := deps.store.GetUser(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.RefreshToken, stored.RefreshToken)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	deps := newTestDeps(t)

	registerTestUser(t, deps, "reader@example.com")

	_, err := deps.auth.Register(context.Background(), RegisterRequest{
		Email:    "reader@example.com",
		Password: "another-password",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
	assert.ErrorContains(t, err, "Email is already in use")
}

func TestRegister_Validation(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	_, err := deps.auth.Register(ctx, RegisterRequest{Email: "not-an-email", Password: "long-enough-password"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = deps.auth.Register(ctx, RegisterRequest{Email: "reader@example.com", Password: "short"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestLogin(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	registered := registerTestUser(t, deps, "reader@example.com")

	resp, err := deps.auth.Login(ctx, LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	registerTestUser(t, deps, "reader@example.com")

	// Unknown email and wrong password produce the same error.
	_, err := deps.auth.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "correct-horse-battery"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
	assert.ErrorContains(t, err, "Invalid credentials")

	_, err = deps.auth.Login(ctx, LoginRequest{Email: "reader@example.com", Password: "wrong-password"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
	assert.ErrorContains(t, err, "Invalid credentials")
}

func TestRefresh(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	resp := registerTestUser(t, deps, "reader@example.com")

	accessToken, err := deps.auth.Refresh(ctx, resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)

	identity, err := deps.auth.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.ID)
	assert.Equal(t, "reader@example.com", identity.Email)
}

func TestRefresh_MissingToken(t *testing.T) {
	deps := newTestDeps(t)

	_, err := deps.auth.Refresh(context.Background(), "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestRefresh_GarbageToken(t *testing.T) {
	deps := newTestDeps(t)

	_, err := deps.auth.Refresh(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestRefresh_SupersededByNewLogin(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	first := registerTestUser(t, deps, "reader@example.com")

	second, err := deps.auth.Login(ctx, LoginRequest{
		Email:    "reader@example.com",
		Password: "correct-horse-battery",
	})
	require.NoError(t, err)

	// The earlier token is still cryptographically valid but no longer
	// the one stored on the user, so it must be rejected.
	_, err = deps.auth.Refresh(ctx, first.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)

	_, err = deps.auth.Refresh(ctx, second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_AfterLogout(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	resp := registerTestUser(t, deps, "reader@example.com")

	require.NoError(t, deps.auth.Logout(ctx, resp.User.ID))

	_, err := deps.auth.Refresh(ctx, resp.RefreshToken)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrBadRequest)
}

func TestLogout_Repeated(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	resp := registerTestUser(t, deps, "reader@example.com")

	require.NoError(t, deps.auth.Logout(ctx, resp.User.ID))
	// A second logout finds no stored credential and is a no-op.
	require.NoError(t, deps.auth.Logout(ctx, resp.User.ID))

	user, err := deps.store.GetUser(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.False(t, user.HasRefreshToken())
}

func TestLogout_UnknownUser(t *testing.T) {
	deps := newTestDeps(t)

	// Logging out a user that no longer exists is not an error.
	assert.NoError(t, deps.auth.Logout(context.Background(), "user-ghost"))
}

func TestVerifyAccessToken(t *testing.T) {
	deps := newTestDeps(t)

	resp := registerTestUser(t, deps, "reader@example.com")

	identity, err := deps.auth.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, identity.ID)
	assert.Equal(t, "reader@example.com", identity.Email)

	_, err = deps.auth.VerifyAccessToken("garbage")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	// A refresh token is not an access token.
	_, err = deps.auth.VerifyAccessToken(resp.RefreshToken)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestGetUser(t *testing.T) {
	deps := newTestDeps(t)
	ctx := context.Background()

	resp := registerTestUser(t, deps, "reader@example.com")

	user, err := deps.auth.GetUser(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", user.Email)

	_, err = deps.auth.GetUser(ctx, "user-ghost")
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}
