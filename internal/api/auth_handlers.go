package api

import (
	"net/http"
	"time"

	"github.com/diyabooks/diya-server/internal/domain"
	"github.com/diyabooks/diya-server/internal/http/response"
	"github.com/diyabooks/diya-server/internal/service"
)

// sessionResponse is returned by register and login.
type sessionResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, session, err := s.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, sessionResponse{
		User:      user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, s.logger)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, session, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, sessionResponse{
		User:      user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	}, s.logger)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.Logout(r.Context(), getToken(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
