package service

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diyabooks/diya-server/internal/domain"
	apperrors "github.com/diyabooks/diya-server/internal/errors"
)

// epubWithCover builds a minimal zip archive containing a decodable
// cover image.
func epubWithCover(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("OEBPS/cover.png")
	require.NoError(t, err)
	_, err = f.Write(imgBuf.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestCreateAndGetBook(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookRequest{
		Title:      "Dune",
		Author:     "Frank Herbert",
		ISBN:       "978-0441013593",
		Genre:      "Science Fiction",
		Catalogues: []string{"Classics", "SF"},
	})
	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.Equal(t, []string{"Classics", "SF"}, book.Catalogues)
	assert.Equal(t, domain.PlaceholderCoverURL, book.CoverURL)

	got, err := env.books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, got.Title)
}

func TestCreateBookValidation(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.books.Create(context.Background(), CreateBookRequest{Title: "No Author"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAttachFileDerivesURLs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookRequest{
		Title: "Dune", Author: "Frank Herbert", ISBN: "1",
	})
	require.NoError(t, err)

	result, err := env.books.AttachFile(ctx, book.ID, epubWithCover(t))
	require.NoError(t, err)
	assert.True(t, result.HasCover)

	got, err := env.books.Get(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "/books/file/"+result.FileHash+".epub", got.FileURL)
	assert.Equal(t, "/books/cover/"+result.FileHash+".jpg", got.CoverURL)
	assert.NotEmpty(t, got.CoverBlurHash)
}

func TestAttachFileMissingBook(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.books.AttachFile(context.Background(), 42, epubWithCover(t))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteBookRemovesArtifacts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookRequest{
		Title: "Dune", Author: "Frank Herbert", ISBN: "1",
	})
	require.NoError(t, err)

	result, err := env.books.AttachFile(ctx, book.ID, epubWithCover(t))
	require.NoError(t, err)

	archivePath, ok := env.books.ArchivePath(result.FileHash)
	require.True(t, ok)
	coverPath, ok := env.books.CoverPath(result.FileHash)
	require.True(t, ok)
	assert.FileExists(t, archivePath)
	assert.FileExists(t, coverPath)

	require.NoError(t, env.books.Delete(ctx, book.ID))
	assert.NoFileExists(t, archivePath)
	assert.NoFileExists(t, coverPath)

	_, err = env.books.Get(ctx, book.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDeleteBookWithoutFile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	book, err := env.books.Create(ctx, CreateBookRequest{
		Title: "Dune", Author: "Frank Herbert", ISBN: "1",
	})
	require.NoError(t, err)

	// No artifacts were ever written; delete still succeeds.
	require.NoError(t, env.books.Delete(ctx, book.ID))
}

func TestPathHelpersRejectMalformedHash(t *testing.T) {
	env := newTestEnv(t)

	_, ok := env.books.ArchivePath("../../etc/passwd")
	assert.False(t, ok)
	_, ok = env.books.CoverPath("ABCDEF")
	assert.False(t, ok)
}
