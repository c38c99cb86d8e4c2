package ingest

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngBytes renders a small solid-color PNG.
func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 10, 20))
	for y := 0; y < 20; y++ {
		for x := 0; x < 10; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// zipArchive builds an in-memory zip with entries in the given order.
func zipArchive(t *testing.T, entries map[string][]byte, order ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, name := range order {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write(entries[name])
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestExtractCoverPrefersCoverNamedEntry(t *testing.T) {
	red := pngBytes(t, color.RGBA{R: 255, A: 255})
	blue := pngBytes(t, color.RGBA{B: 255, A: 255})

	archive := zipArchive(t, map[string][]byte{
		"OEBPS/images/decoration.png": blue,
		"OEBPS/images/Cover.PNG":      red,
	}, "OEBPS/images/decoration.png", "OEBPS/images/Cover.PNG")

	jpegData, blurHash, err := ExtractCover(archive)
	require.NoError(t, err)
	assert.NotEmpty(t, blurHash)

	img, err := jpeg.Decode(bytes.NewReader(jpegData))
	require.NoError(t, err)
	assert.Equal(t, coverWidth, img.Bounds().Dx())
	assert.Equal(t, coverHeight, img.Bounds().Dy())

	// The cover-named red image wins over the earlier blue decoration.
	r, _, b, _ := img.At(200, 300).RGBA()
	assert.Greater(t, r, b)
}

func TestExtractCoverFallsBackToFirstImage(t *testing.T) {
	blue := pngBytes(t, color.RGBA{B: 255, A: 255})

	archive := zipArchive(t, map[string][]byte{
		"mimetype":   []byte("application/epub+zip"),
		"img/a.jpeg": blue, // not a valid jpeg; name decides selection, decode decides outcome
	}, "mimetype", "img/a.jpeg")

	// The entry is selected by name but is PNG data under a .jpeg name;
	// image.Decode sniffs content, so it still decodes.
	_, _, err := ExtractCover(archive)
	require.NoError(t, err)
}

func TestExtractCoverNoImages(t *testing.T) {
	archive := zipArchive(t, map[string][]byte{
		"mimetype":          []byte("application/epub+zip"),
		"OEBPS/chapter.xml": []byte("<p>text</p>"),
	}, "mimetype", "OEBPS/chapter.xml")

	_, _, err := ExtractCover(archive)
	assert.ErrorIs(t, err, ErrNoCover)
}

func TestExtractCoverUndecodableImage(t *testing.T) {
	archive := zipArchive(t, map[string][]byte{
		"cover.jpg": []byte("this is not an image"),
	}, "cover.jpg")

	_, _, err := ExtractCover(archive)
	assert.ErrorIs(t, err, ErrNoCover)
}

func TestExtractCoverNotAZip(t *testing.T) {
	_, _, err := ExtractCover([]byte("plain text, no zip structure"))
	assert.ErrorIs(t, err, ErrNoCover)
}
