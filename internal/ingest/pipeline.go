package ingest

import (
	"context"
	"log/slog"

	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

// BookFiler records an ingested archive against a book's metadata row.
type BookFiler interface {
	SetBookFile(ctx context.Context, bookID int64, fileHash, coverBlurHash string) error
}

// Pipeline ties archive ingestion together: hash the bytes, persist the
// artifacts, extract the cover, and record the hash on the book.
type Pipeline struct {
	books   BookFiler
	storage *Storage
	logger  *slog.Logger
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(books BookFiler, storage *Storage, logger *slog.Logger) *Pipeline {
	return &Pipeline{
		books:   books,
		storage: storage,
		logger:  logger,
	}
}

// Result describes a completed ingestion.
type Result struct {
	FileHash string `json:"file_hash"`
	FileURL  string `json:"file_url"`
	CoverURL string `json:"cover_url"`
	HasCover bool   `json:"has_cover"`
}

// Ingest stores an uploaded archive for a book.
//
// The archive is written under its content hash first, then the cover
// (if one can be extracted) alongside it, and finally the hash is
// recorded on the book row. If the book turns out not to exist, the
// freshly written artifacts are removed again so nothing is left
// orphaned on disk. A missing or undecodable cover downgrades to "no
// cover"; it never fails the ingestion.
func (p *Pipeline) Ingest(ctx context.Context, bookID int64, archive []byte) (*Result, error) {
	if len(archive) == 0 {
		return nil, apperrors.Validation("uploaded file is empty")
	}

	hash := HashContent(archive)

	if err := p.storage.WriteArchive(hash, archive); err != nil {
		return nil, apperrors.Wrap(err, "store archive")
	}

	hasCover := false
	cover, blurHash, err := ExtractCover(archive)
	switch {
	case err == nil:
		if err := p.storage.WriteCover(hash, cover); err != nil {
			return nil, apperrors.Wrap(err, "store cover")
		}
		hasCover = true
	case apperrors.Is(err, ErrNoCover):
		p.logger.Info("no usable cover in archive", "book_id", bookID, "hash", hash)
	default:
		return nil, apperrors.Wrap(err, "extract cover")
	}

	if err := p.books.SetBookFile(ctx, bookID, hash, blurHash); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			p.storage.Remove(hash)
		}
		return nil, err
	}

	result := &Result{
		FileHash: hash,
		FileURL:  domain.FileURL(hash),
		CoverURL: domain.PlaceholderCoverURL,
		HasCover: hasCover,
	}
	if hasCover {
		result.CoverURL = domain.CoverURL(hash)
	}
	return result, nil
}
