package store

import (
	"context"
	"database/sql"

	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

const bookColumns = `id, title, author, isbn, publisher, publication_date, description,
	page_count, language, genre, reading_age, file_hash, cover_blur_hash`

// AddBookMetadata creates a book together with its catalogue links in a
// single transaction. Title, author, and ISBN are required; missing
// catalogues are created on the fly. On any failure nothing is written.
func (s *Store) AddBookMetadata(ctx context.Context, book *domain.Book) (int64, error) {
	if book.Title == "" || book.Author == "" || book.ISBN == "" {
		return 0, apperrors.Validation("title, author, and isbn are required")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, translateErr(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO books (title, author, isbn, publisher, publication_date,
			description, page_count, language, genre, reading_age)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.Title, book.Author, book.ISBN,
		nullString(book.Publisher), nullString(book.PublicationDate),
		nullString(book.Description), nullInt64(int64(book.PageCount)),
		nullString(book.Language), nullString(book.Genre),
		nullInt64(int64(book.ReadingAge)),
	)
	if err != nil {
		return 0, translateErr(err)
	}

	bookID, err := res.LastInsertId()
	if err != nil {
		return 0, translateErr(err)
	}

	if err := linkCatalogues(ctx, tx, bookID, book.Catalogues); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, translateErr(err)
	}
	return bookID, nil
}

// UpdateBookMetadata applies a partial update. Empty (zero-valued) fields
// leave the stored values untouched; the catalogue link set is always
// replaced with exactly patch.Catalogues, and any catalogues left with no
// books afterwards are pruned. Atomic: on failure nothing changes.
func (s *Store) UpdateBookMetadata(ctx context.Context, bookID int64, patch *domain.BookPatch) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return translateErr(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books SET
			title            = COALESCE(?, title),
			author           = COALESCE(?, author),
			isbn             = COALESCE(?, isbn),
			publisher        = COALESCE(?, publisher),
			publication_date = COALESCE(?, publication_date),
			description      = COALESCE(?, description),
			page_count       = COALESCE(?, page_count),
			language         = COALESCE(?, language),
			genre            = COALESCE(?, genre),
			reading_age      = COALESCE(?, reading_age)
		WHERE id = ?`,
		nullString(patch.Title), nullString(patch.Author), nullString(patch.ISBN),
		nullString(patch.Publisher), nullString(patch.PublicationDate),
		nullString(patch.Description), nullInt64(int64(patch.PageCount)),
		nullString(patch.Language), nullString(patch.Genre),
		nullInt64(int64(patch.ReadingAge)),
		bookID,
	)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateErr(err)
	}
	if n == 0 {
		return apperrors.NotFound("book not found")
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM book_catalogues WHERE book_id = ?`, bookID); err != nil {
		return translateErr(err)
	}
	if err := linkCatalogues(ctx, tx, bookID, patch.Catalogues); err != nil {
		return err
	}
	if err := pruneOrphanCatalogues(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return translateErr(err)
	}
	return nil
}

// GetBookMetadata retrieves a book with its catalogue list and derived
// file and cover URLs.
func (s *Store) GetBookMetadata(ctx context.Context, bookID int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, bookID)

	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("book not found")
	}
	if err != nil {
		return nil, translateErr(err)
	}

	if book.Catalogues, err = s.cataloguesForBook(ctx, bookID); err != nil {
		return nil, err
	}
	book.DeriveURLs()
	return book, nil
}

// DeleteBook removes a book, its catalogue links, and any catalogues left
// orphaned. It returns the book's content hash (empty if no file was ever
// attached) so the caller can remove the stored artifacts.
func (s *Store) DeleteBook(ctx context.Context, bookID int64) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", translateErr(err)
	}
	defer tx.Rollback()

	var fileHash sql.NullString
	err = tx.QueryRowContext(ctx,
		`SELECT file_hash FROM books WHERE id = ?`, bookID).Scan(&fileHash)
	if err == sql.ErrNoRows {
		return "", apperrors.NotFound("book not found")
	}
	if err != nil {
		return "", translateErr(err)
	}

	// Links go via ON DELETE CASCADE.
	if _, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, bookID); err != nil {
		return "", translateErr(err)
	}
	if err := pruneOrphanCatalogues(ctx, tx); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", translateErr(err)
	}
	return fileHash.String, nil
}

// SetBookFile records the content hash of an ingested archive, together
// with the blur hash of its extracted cover (empty when no cover was
// found).
func (s *Store) SetBookFile(ctx context.Context, bookID int64, fileHash, coverBlurHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE books SET file_hash = ?, cover_blur_hash = ? WHERE id = ?`,
		fileHash, nullString(coverBlurHash), bookID)
	if err != nil {
		return translateErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return translateErr(err)
	}
	if n == 0 {
		return apperrors.NotFound("book not found")
	}
	return nil
}

// scanBook scans a book row from the bookColumns column set.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		book            domain.Book
		publisher       sql.NullString
		publicationDate sql.NullString
		description     sql.NullString
		pageCount       sql.NullInt64
		language        sql.NullString
		genre           sql.NullString
		readingAge      sql.NullInt64
		fileHash        sql.NullString
		coverBlurHash   sql.NullString
	)
	err := scanner.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&publisher,
		&publicationDate,
		&description,
		&pageCount,
		&language,
		&genre,
		&readingAge,
		&fileHash,
		&coverBlurHash,
	)
	if err != nil {
		return nil, err
	}

	book.Publisher = publisher.String
	book.PublicationDate = publicationDate.String
	book.Description = description.String
	book.PageCount = int(pageCount.Int64)
	book.Language = language.String
	book.Genre = genre.String
	book.ReadingAge = int(readingAge.Int64)
	book.FileHash = fileHash.String
	book.CoverBlurHash = coverBlurHash.String
	return &book, nil
}
