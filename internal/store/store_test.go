package store

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shelfmarkapp/shelfmark-server/internal/logger"
)

// newTestStore opens a fresh in-memory store for one test.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	log := logger.New(logger.Config{Writer: io.Discard, Format: "json", Level: slog.LevelError})
	s, err := NewInMemory(log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}
