package api

import (
	"io"
	"net/http"

	apperrors "github.com/diyabooks/diya-server/internal/errors"
	"github.com/diyabooks/diya-server/internal/http/response"
	"github.com/diyabooks/diya-server/internal/service"
)

// maxUploadBytes caps archive uploads at 256 MiB.
const maxUploadBytes = 256 << 20

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.searchService.ListAll(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, book, s.logger)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.Get(r.Context(), bookID)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	var req service.UpdateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.bookService.Update(r.Context(), bookID, req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	if err := s.bookService.Delete(r.Context(), bookID); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleUploadBookFile ingests an EPUB archive sent as the "file" part
// of a multipart form.
func (s *Server) handleUploadBookFile(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		response.HandleError(w, apperrors.Validation("missing file upload"), s.logger)
		return
	}
	defer file.Close()

	archive, err := io.ReadAll(file)
	if err != nil {
		response.HandleError(w, apperrors.Validation("could not read file upload"), s.logger)
		return
	}

	result, err := s.bookService.AttachFile(r.Context(), bookID, archive)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, result, s.logger)
}
