package service

import (
	"context"
	"log/slog"

	"github.com/diyabooks/diya-server/internal/domain"
	"github.com/diyabooks/diya-server/internal/store"
)

// SearchLimits is the pagination policy applied to catalogue searches.
type SearchLimits struct {
	// Default is used when a request names no limit.
	Default int
	// Max caps any requested limit.
	Max int
	// ListAll is the page size for the unfiltered landing listing.
	ListAll int
}

// SearchService runs faceted catalogue searches.
type SearchService struct {
	store  *store.Store
	limits SearchLimits
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(store *store.Store, limits SearchLimits, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:  store,
		limits: limits,
		logger: logger,
	}
}

// SearchRequest describes one search. Zero values mean "no constraint"
// for the query and facets; Limit defaults and is capped by policy.
type SearchRequest struct {
	Query     string
	Genre     string
	Language  string
	Catalogue string
	Sort      string
	Limit     int
	Offset    int
}

// Search runs a faceted search with pagination clamped to policy.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) ([]*domain.BookSummary, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = s.limits.Default
	}
	if limit > s.limits.Max {
		limit = s.limits.Max
	}

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	return s.store.SearchBooks(ctx, store.SearchParams{
		Query:     req.Query,
		Genre:     req.Genre,
		Language:  req.Language,
		Catalogue: req.Catalogue,
		Sort:      req.Sort,
		Limit:     limit,
		Offset:    offset,
	})
}

// ListAll returns the landing-page listing: every book, title order,
// up to the list-all cap.
func (s *SearchService) ListAll(ctx context.Context) ([]*domain.BookSummary, error) {
	return s.store.SearchBooks(ctx, store.SearchParams{
		Sort:  "title",
		Limit: s.limits.ListAll,
	})
}

// ListCatalogues returns every live catalogue sorted by name.
func (s *SearchService) ListCatalogues(ctx context.Context) ([]*domain.Catalogue, error) {
	return s.store.ListCatalogues(ctx)
}
