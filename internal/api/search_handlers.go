package api

import (
	"net/http"

	"github.com/diyabooks/diya-server/internal/http/response"
	"github.com/diyabooks/diya-server/internal/service"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	results, err := s.searchService.Search(r.Context(), service.SearchRequest{
		Query:     q.Get("q"),
		Genre:     q.Get("genre"),
		Language:  q.Get("language"),
		Catalogue: q.Get("catalogue"),
		Sort:      q.Get("sort"),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, results, s.logger)
}

func (s *Server) handleListCatalogues(w http.ResponseWriter, r *http.Request) {
	catalogues, err := s.searchService.ListCatalogues(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, catalogues, s.logger)
}
