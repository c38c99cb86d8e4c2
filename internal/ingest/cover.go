package ingest

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"regexp"

	"github.com/bbrks/go-blurhash"
	"golang.org/x/image/draw"
)

// Covers are normalized to a fixed portrait size regardless of the
// source aspect ratio.
const (
	coverWidth  = 400
	coverHeight = 600

	coverJPEGQuality = 85
)

// ErrNoCover is returned when an archive contains no usable cover
// image. Callers treat it as "book has no cover", not as a failure.
var ErrNoCover = errors.New("no usable cover image in archive")

var (
	coverNamePattern = regexp.MustCompile(`(?i)^.*cover\.(png|jpg|jpeg)$`)
	imageNamePattern = regexp.MustCompile(`(?i)^.*\.(png|jpg|jpeg)$`)
)

// ExtractCover pulls the cover image out of a zip-structured archive,
// hard-resizes it to 400x600, and returns it as JPEG bytes together
// with its blur hash placeholder.
//
// Entry selection: the first entry (in stored order) whose name ends in
// cover.png/jpg/jpeg wins; otherwise the first image entry of any name.
// An archive with no image entries, or whose chosen entry fails to
// decode, yields ErrNoCover.
func ExtractCover(archive []byte) (jpegBytes []byte, blurHash string, err error) {
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, "", ErrNoCover
	}

	entry := findCoverEntry(reader)
	if entry == nil {
		return nil, "", ErrNoCover
	}

	src, err := decodeEntry(entry)
	if err != nil {
		return nil, "", ErrNoCover
	}

	dst := image.NewRGBA(image.Rect(0, 0, coverWidth, coverHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	blurHash, err = blurhash.Encode(4, 3, dst)
	if err != nil {
		// The placeholder is cosmetic; keep the cover without it.
		blurHash = ""
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: coverJPEGQuality}); err != nil {
		return nil, "", ErrNoCover
	}
	return buf.Bytes(), blurHash, nil
}

// findCoverEntry picks the archive entry to use as the cover.
func findCoverEntry(reader *zip.Reader) *zip.File {
	for _, f := range reader.File {
		if coverNamePattern.MatchString(f.Name) {
			return f
		}
	}
	for _, f := range reader.File {
		if imageNamePattern.MatchString(f.Name) {
			return f
		}
	}
	return nil
}

// decodeEntry opens and decodes a single image entry.
func decodeEntry(entry *zip.File) (image.Image, error) {
	rc, err := entry.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
