package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/auth"
	"github.com/shelfmarkapp/shelfmark-server/internal/cache"
	"github.com/shelfmarkapp/shelfmark-server/internal/config"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/service"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// testServer wraps the API server for handler tests. All requests go
// through the real router, so middleware applies exactly as in
// production.
type testServer struct {
	*Server
	api humatest.TestAPI
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Format: "json", Level: slog.LevelError})

	st, err := store.NewInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := &config.Config{
		App: config.AppConfig{
			Environment: "development",
			ClientURL:   "http://localhost:5173",
		},
		Auth: config.AuthConfig{
			AccessTokenSecret:    "test-access-secret-0123456789abcdef",
			RefreshTokenSecret:   "test-refresh-secret-0123456789abcdef",
			AccessTokenDuration:  5 * time.Minute,
			RefreshTokenDuration: 24 * time.Hour,
		},
	}

	tokens, err := auth.NewTokenService(
		cfg.Auth.AccessTokenSecret,
		cfg.Auth.RefreshTokenSecret,
		cfg.Auth.AccessTokenDuration,
		cfg.Auth.RefreshTokenDuration,
	)
	require.NoError(t, err)

	v := validation.New()
	cs := cache.NewStore(cache.NewMemoryClient(), time.Hour, log)

	authService := service.NewAuthService(st, tokens, v, log)
	bookService := service.NewBookService(st, cs, v, log)

	s := NewServer(cfg, st, authService, bookService, log)
	t.Cleanup(s.Stop)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

// registerUser registers an account and returns its session cookies.
func (ts *testServer) registerUser(t *testing.T, email string) (accessToken, refreshToken string) {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"email":    email,
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, resp.Code, "register failed: %s", resp.Body.String())

	return sessionCookieValues(t, resp)
}

// sessionCookieValues extracts the access and refresh token values from
// a response's Set-Cookie headers.
func sessionCookieValues(t *testing.T, resp *httptest.ResponseRecorder) (accessToken, refreshToken string) {
	t.Helper()

	for _, c := range resp.Result().Cookies() {
		switch c.Name {
		case accessTokenCookie:
			accessToken = c.Value
		case refreshTokenCookie:
			refreshToken = c.Value
		}
	}
	return accessToken, refreshToken
}

func decodeBody[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()

	var body T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
