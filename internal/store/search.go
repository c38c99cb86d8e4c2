package store

import (
	"context"

	"github.com/diyabooks/diya-server/internal/domain"
)

// SearchParams describes one catalogue search. Zero values mean "no
// constraint" for the text query and the facet filters; Limit and Offset
// are applied as given (callers clamp them to policy).
type SearchParams struct {
	Query     string
	Genre     string
	Language  string
	Catalogue string
	Sort      string
	Limit     int
	Offset    int
}

// sortColumns whitelists the ORDER BY targets. Anything else falls back
// to the title sort rather than reaching the SQL text.
var sortColumns = map[string]string{
	"title":            "b.title COLLATE NOCASE",
	"author":           "b.author COLLATE NOCASE",
	"publication_date": "b.publication_date",
	"page_count":       "b.page_count",
}

// SearchBooks runs a faceted catalogue search. The free-text query
// substring-matches title, author, or description (case-insensitive);
// each facet filter matches its field's full value case-insensitively.
// All conditions compose with AND. Results are deduplicated, sorted by
// the whitelisted sort key, and paginated with limit/offset.
func (s *Store) SearchBooks(ctx context.Context, params SearchParams) ([]*domain.BookSummary, error) {
	query := `
		SELECT DISTINCT b.id, b.title, b.author, b.isbn, b.publisher,
			b.publication_date, b.description, b.page_count, b.language,
			b.genre, b.reading_age, b.file_hash, b.cover_blur_hash
		FROM books b
		LEFT JOIN book_catalogues bc ON bc.book_id = b.id
		LEFT JOIN catalogues c ON c.id = bc.catalogue_id
		WHERE (b.title LIKE ? OR b.author LIKE ? OR b.description LIKE ?)`

	pattern := "%" + params.Query + "%"
	args := []any{pattern, pattern, pattern}

	// Facets are exact-value but case-insensitive, hence LIKE with no
	// wildcards rather than =.
	if params.Genre != "" {
		query += ` AND b.genre LIKE ?`
		args = append(args, params.Genre)
	}
	if params.Language != "" {
		query += ` AND b.language LIKE ?`
		args = append(args, params.Language)
	}
	if params.Catalogue != "" {
		query += ` AND c.name LIKE ?`
		args = append(args, params.Catalogue)
	}

	orderBy, ok := sortColumns[params.Sort]
	if !ok {
		orderBy = sortColumns["title"]
	}
	query += ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, params.Limit, params.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translateErr(err)
	}
	defer rows.Close()

	results := []*domain.BookSummary{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, summarize(book))
	}
	return results, rows.Err()
}

// summarize projects a book onto its search-result shape, deriving the
// cover URL (placeholder when no file has been ingested).
func summarize(b *domain.Book) *domain.BookSummary {
	b.DeriveURLs()
	return &domain.BookSummary{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		ISBN:            b.ISBN,
		Publisher:       b.Publisher,
		PublicationDate: b.PublicationDate,
		Description:     b.Description,
		PageCount:       b.PageCount,
		Language:        b.Language,
		Genre:           b.Genre,
		ReadingAge:      b.ReadingAge,
		CoverBlurHash:   b.CoverBlurHash,
		CoverURL:        b.CoverURL,
	}
}
