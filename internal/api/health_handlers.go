package api

import (
	"net/http"

	"github.com/diyabooks/diya-server/internal/http/response"
)

// handleHealthCheck reports that the server is up.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{"status": "ok"}, s.logger)
}
