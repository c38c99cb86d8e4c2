package api

import (
	"net/http"

	"github.com/diyabooks/diya-server/internal/domain"
	"github.com/diyabooks/diya-server/internal/http/response"
)

func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.authService.GetUser(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

func (s *Server) handleDeleteCurrentUser(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.DeleteAccount(r.Context(), getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// setAccessLevelRequest changes a user's access level.
type setAccessLevelRequest struct {
	Level int `json:"level"`
}

func (s *Server) handleSetAccessLevel(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req setAccessLevelRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.authService.SetAccessLevel(r.Context(), userID, domain.AccessLevel(req.Level)); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
