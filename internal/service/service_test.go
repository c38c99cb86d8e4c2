package service

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/diyabooks/diya-server/internal/ingest"
	"github.com/diyabooks/diya-server/internal/ratelimit"
	"github.com/diyabooks/diya-server/internal/store"
	"github.com/diyabooks/diya-server/internal/validation"
)

// testEnv wires real services over a throwaway sqlite store and
// artifact directory.
type testEnv struct {
	auth   *AuthService
	books  *BookService
	search *SearchService
	store  *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)
	dir := t.TempDir()

	st, err := store.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	storage, err := ingest.NewStorage(filepath.Join(dir, "books"))
	require.NoError(t, err)

	v := validation.New()
	pipeline := ingest.NewPipeline(st, storage, logger)

	return &testEnv{
		auth:   NewAuthService(st, v, ratelimit.New(100, 100), time.Hour, logger),
		books:  NewBookService(st, storage, pipeline, v, logger),
		search: NewSearchService(st, SearchLimits{Default: 10, Max: 50, ListAll: 1000}, logger),
		store:  st,
	}
}
