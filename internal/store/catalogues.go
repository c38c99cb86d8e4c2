package store

import (
	"context"
	"database/sql"

	"github.com/diyabooks/diya-server/internal/domain"
)

// linkCatalogues ensures a catalogue row exists for each name and links
// the book to it. Names match exactly (case-sensitive); relinking an
// existing pair is a no-op.
func linkCatalogues(ctx context.Context, tx *sql.Tx, bookID int64, names []string) error {
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO catalogues (name) VALUES (?)`, name); err != nil {
			return translateErr(err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO book_catalogues (book_id, catalogue_id)
			VALUES (?, (SELECT id FROM catalogues WHERE name = ?))`,
			bookID, name); err != nil {
			return translateErr(err)
		}
	}
	return nil
}

// pruneOrphanCatalogues deletes every catalogue no book links to. Runs
// inside the same transaction as the unlink that may have orphaned them.
func pruneOrphanCatalogues(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM catalogues
		WHERE id NOT IN (SELECT catalogue_id FROM book_catalogues)`)
	return translateErr(err)
}

// cataloguesForBook returns the book's catalogue names sorted by name.
func (s *Store) cataloguesForBook(ctx context.Context, bookID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name FROM catalogues c
		JOIN book_catalogues bc ON bc.catalogue_id = c.id
		WHERE bc.book_id = ?
		ORDER BY c.name`, bookID)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListCatalogues returns every live catalogue sorted by name.
func (s *Store) ListCatalogues(ctx context.Context) ([]*domain.Catalogue, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM catalogues ORDER BY name`)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	var catalogues []*domain.Catalogue
	for rows.Next() {
		var c domain.Catalogue
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		catalogues = append(catalogues, &c)
	}
	return catalogues, rows.Err()
}
