package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

// decodeJSON parses the request body into v using json/v2.
func decodeJSON(r *http.Request, v any) error {
	if err := json.UnmarshalRead(r.Body, v); err != nil {
		return apperrors.Validation("invalid JSON body")
	}
	return nil
}

// pathID parses the {id} URL parameter as a positive integer.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validationf("invalid id %q", raw)
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning 0 when
// absent or malformed.
func queryInt(r *http.Request, name string) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}
