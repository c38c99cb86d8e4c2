package api

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/diyabooks/diya-server/internal/http/response"
)

// handleGetArchive serves a stored EPUB by its content-addressed name
// (<hash>.epub).
func (s *Server) handleGetArchive(w http.ResponseWriter, r *http.Request) {
	hash, ok := artifactHash(r, ".epub")
	if !ok {
		response.NotFound(w, "file not found", s.logger)
		return
	}

	path, ok := s.bookService.ArchivePath(hash)
	if !ok {
		response.NotFound(w, "file not found", s.logger)
		return
	}
	if _, err := os.Stat(path); err != nil {
		response.NotFound(w, "file not found", s.logger)
		return
	}

	w.Header().Set("Content-Type", "application/epub+zip")
	http.ServeFile(w, r, path)
}

// handleGetCover serves a stored cover (<hash>.jpg), falling back to the
// placeholder when the book's archive had no usable cover.
func (s *Server) handleGetCover(w http.ResponseWriter, r *http.Request) {
	hash, ok := artifactHash(r, ".jpg")
	if !ok {
		response.NotFound(w, "cover not found", s.logger)
		return
	}

	path, ok := s.bookService.CoverPath(hash)
	if ok {
		if _, err := os.Stat(path); err == nil {
			w.Header().Set("Content-Type", "image/jpeg")
			http.ServeFile(w, r, path)
			return
		}
	}
	s.handlePlaceholderCover(w, r)
}

// handlePlaceholderCover serves the generic cover image.
func (s *Server) handlePlaceholderCover(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(placeholderCover())
}

// artifactHash extracts and validates the content hash from the
// {artifact} URL parameter, which must carry the given extension.
func artifactHash(r *http.Request, ext string) (string, bool) {
	name := chi.URLParam(r, "artifact")
	if !strings.HasSuffix(name, ext) {
		return "", false
	}
	return strings.TrimSuffix(name, ext), true
}

var (
	placeholderOnce  sync.Once
	placeholderBytes []byte
)

// placeholderCover renders the generic cover once: a plain card in the
// same 400x600 shape as real covers.
func placeholderCover() []byte {
	placeholderOnce.Do(func() {
		img := image.NewRGBA(image.Rect(0, 0, 400, 600))
		bg := color.RGBA{R: 0x3a, G: 0x41, B: 0x52, A: 0xff}
		band := color.RGBA{R: 0x5b, G: 0x67, B: 0x82, A: 0xff}
		for y := 0; y < 600; y++ {
			c := bg
			if y >= 240 && y < 360 {
				c = band
			}
			for x := 0; x < 400; x++ {
				img.Set(x, y, c)
			}
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 80}); err != nil {
			// Unreachable for an in-memory RGBA image.
			panic(err)
		}
		placeholderBytes = buf.Bytes()
	})
	return placeholderBytes
}
