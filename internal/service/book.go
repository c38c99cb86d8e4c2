package service

import (
	"context"
	"log/slog"

	"github.com/diyabooks/diya-server/internal/domain"
	"github.com/diyabooks/diya-server/internal/ingest"
	"github.com/diyabooks/diya-server/internal/store"
	"github.com/diyabooks/diya-server/internal/validation"
)

// BookService handles book metadata and archive ingestion.
type BookService struct {
	store     *store.Store
	storage   *ingest.Storage
	pipeline  *ingest.Pipeline
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(
	store *store.Store,
	storage *ingest.Storage,
	pipeline *ingest.Pipeline,
	validator *validation.Validator,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:     store,
		storage:   storage,
		pipeline:  pipeline,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest contains new book metadata.
type CreateBookRequest struct {
	Title           string   `json:"title" validate:"required"`
	Author          string   `json:"author" validate:"required"`
	ISBN            string   `json:"isbn" validate:"required"`
	Publisher       string   `json:"publisher"`
	PublicationDate string   `json:"publication_date"`
	Description     string   `json:"description"`
	PageCount       int      `json:"page_count" validate:"gte=0"`
	Language        string   `json:"language"`
	Genre           string   `json:"genre"`
	ReadingAge      int      `json:"reading_age" validate:"gte=0"`
	Catalogues      []string `json:"catalogues"`
}

// UpdateBookRequest contains a partial metadata update. Empty fields
// leave stored values unchanged; Catalogues always replaces the full
// link set.
type UpdateBookRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	ISBN            string   `json:"isbn"`
	Publisher       string   `json:"publisher"`
	PublicationDate string   `json:"publication_date"`
	Description     string   `json:"description"`
	PageCount       int      `json:"page_count" validate:"gte=0"`
	Language        string   `json:"language"`
	Genre           string   `json:"genre"`
	ReadingAge      int      `json:"reading_age" validate:"gte=0"`
	Catalogues      []string `json:"catalogues"`
}

// Create registers a book and returns it with catalogues and derived URLs.
func (s *BookService) Create(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := s.store.AddBookMetadata(ctx, &domain.Book{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		PublicationDate: req.PublicationDate,
		Description:     req.Description,
		PageCount:       req.PageCount,
		Language:        req.Language,
		Genre:           req.Genre,
		ReadingAge:      req.ReadingAge,
		Catalogues:      req.Catalogues,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book created", "book_id", bookID, "title", req.Title)
	return s.store.GetBookMetadata(ctx, bookID)
}

// Update applies a partial metadata update and returns the new state.
func (s *BookService) Update(ctx context.Context, bookID int64, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	err := s.store.UpdateBookMetadata(ctx, bookID, &domain.BookPatch{
		Title:           req.Title,
		Author:          req.Author,
		ISBN:            req.ISBN,
		Publisher:       req.Publisher,
		PublicationDate: req.PublicationDate,
		Description:     req.Description,
		PageCount:       req.PageCount,
		Language:        req.Language,
		Genre:           req.Genre,
		ReadingAge:      req.ReadingAge,
		Catalogues:      req.Catalogues,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("book updated", "book_id", bookID)
	return s.store.GetBookMetadata(ctx, bookID)
}

// Get retrieves a book with its catalogues and derived URLs.
func (s *BookService) Get(ctx context.Context, bookID int64) (*domain.Book, error) {
	return s.store.GetBookMetadata(ctx, bookID)
}

// Delete removes a book's metadata, catalogue links, and stored
// artifacts. The metadata row is removed first; artifact removal is
// best-effort and missing files are fine.
func (s *BookService) Delete(ctx context.Context, bookID int64) error {
	fileHash, err := s.store.DeleteBook(ctx, bookID)
	if err != nil {
		return err
	}

	s.storage.Remove(fileHash)
	s.logger.Info("book deleted", "book_id", bookID)
	return nil
}

// AttachFile ingests an uploaded archive for a book.
func (s *BookService) AttachFile(ctx context.Context, bookID int64, archive []byte) (*ingest.Result, error) {
	result, err := s.pipeline.Ingest(ctx, bookID, archive)
	if err != nil {
		return nil, err
	}

	s.logger.Info("archive ingested",
		"book_id", bookID,
		"hash", result.FileHash,
		"has_cover", result.HasCover,
	)
	return result, nil
}

// CoverPath resolves a content hash to the cover file on disk. The
// second return is false when the hash is malformed.
func (s *BookService) CoverPath(hash string) (string, bool) {
	if !ingest.ValidHash(hash) {
		return "", false
	}
	return s.storage.CoverPath(hash), true
}

// ArchivePath resolves a content hash to the archive file on disk.
func (s *BookService) ArchivePath(hash string) (string, bool) {
	if !ingest.ValidHash(hash) {
		return "", false
	}
	return s.storage.ArchivePath(hash), true
}
