// Package ingest implements the archive ingestion pipeline: content
// hashing, artifact storage, and cover extraction.
package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// hashPattern matches a lowercase hex SHA-256 digest. Anything else is
// rejected before it can reach the filesystem.
var hashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// ValidHash reports whether s is a well-formed content hash.
func ValidHash(s string) bool {
	return hashPattern.MatchString(s)
}

// HashContent returns the lowercase hex SHA-256 digest of data. Equal
// bytes always produce equal hashes, so re-uploading the same archive
// overwrites its own artifacts rather than accumulating copies.
func HashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Storage is a content-addressed artifact store: each ingested archive
// is kept as <hash>.epub and its extracted cover as <hash>.jpg in a
// single flat directory.
type Storage struct {
	dir string
}

// NewStorage creates the artifact directory if needed.
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Storage{dir: dir}, nil
}

// ArchivePath returns the on-disk path for a content hash's archive.
func (s *Storage) ArchivePath(hash string) string {
	return filepath.Join(s.dir, hash+".epub")
}

// CoverPath returns the on-disk path for a content hash's cover image.
func (s *Storage) CoverPath(hash string) string {
	return filepath.Join(s.dir, hash+".jpg")
}

// WriteArchive stores the raw archive bytes under their content hash.
func (s *Storage) WriteArchive(hash string, data []byte) error {
	return os.WriteFile(s.ArchivePath(hash), data, 0o644)
}

// WriteCover stores a transcoded cover JPEG under the archive's hash.
func (s *Storage) WriteCover(hash string, data []byte) error {
	return os.WriteFile(s.CoverPath(hash), data, 0o644)
}

// Remove deletes both artifacts for a hash. Missing files are fine:
// removal must succeed for books that never finished ingestion.
func (s *Storage) Remove(hash string) {
	if hash == "" {
		return
	}
	os.Remove(s.ArchivePath(hash))
	os.Remove(s.CoverPath(hash))
}
