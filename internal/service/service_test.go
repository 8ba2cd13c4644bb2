package service

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/auth"
	"github.com/shelfmarkapp/shelfmark-server/internal/cache"
	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
	"github.com/shelfmarkapp/shelfmark-server/internal/store"
	"github.com/shelfmarkapp/shelfmark-server/internal/validation"
)

// testDeps bundles the fully wired services a test needs, backed by an
// in-memory store and an in-memory cache.
type testDeps struct {
	store *store.Store
	cache *cache.Store
	auth  *AuthService
	books *BookService
}

func newTestDeps(t *testing.T) *testDeps {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Format: "json", Level: slog.LevelError})

	st, err := store.NewInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	tokens, err := auth.NewTokenService(
		"test-access-secret-0123456789abcdef",
		"test-refresh-secret-0123456789abcdef",
		5*time.Minute,
		24*time.Hour,
	)
	require.NoError(t, err)

	cs := cache.NewStore(cache.NewMemoryClient(), time.Hour, log)
	v := validation.New()

	return &testDeps{
		store: st,
		cache: cs,
		auth:  NewAuthService(st, tokens, v, log),
		books: NewBookService(st, cs, v, log),
	}
}
