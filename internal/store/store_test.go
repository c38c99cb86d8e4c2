package store

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/diyabooks/diya-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// addTestBook inserts a book with the given title and catalogues and
// returns its ID.
func addTestBook(t *testing.T, s *Store, title string, catalogues ...string) int64 {
	t.Helper()

	id, err := s.AddBookMetadata(context.Background(), &domain.Book{
		Title:      title,
		Author:     "Test Author",
		ISBN:       "978-0-00-000000-0",
		Catalogues: catalogues,
	})
	if err != nil {
		t.Fatalf("AddBookMetadata(%q) error = %v", title, err)
	}
	return id
}

// catalogueNames returns the names of all live catalogues.
func catalogueNames(t *testing.T, s *Store) []string {
	t.Helper()

	catalogues, err := s.ListCatalogues(context.Background())
	if err != nil {
		t.Fatalf("ListCatalogues() error = %v", err)
	}
	names := make([]string, len(catalogues))
	for i, c := range catalogues {
		names[i] = c.Name
	}
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
