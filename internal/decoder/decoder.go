// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package decoder is the boundary to the external RAW decoding tools. A
// Decoder opens a RAW file and hands back a Handle that can extract the
// embedded thumbnail or run a full decode. Backends shell out to exiftool
// and dcraw; the pixel pipeline itself is owned by those tools.
package decoder

import (
	"context"
	"errors"
	"image"
)

var (
	// ErrNoThumbnail means the RAW file carries no embedded preview.
	ErrNoThumbnail = errors.New("no thumbnail present")

	// ErrUnsupportedThumbnail means a preview exists but is stored in a
	// format this package cannot write out.
	ErrUnsupportedThumbnail = errors.New("thumbnail format unsupported")

	// ErrFullDecodeUnavailable means the backend has no tool for full decodes.
	ErrFullDecodeUnavailable = errors.New("full decode not available")
)

// IsThumbnailMiss reports whether err is one of the expected thumbnail
// misses that callers recover from by running a full decode.
func IsThumbnailMiss(err error) bool {
	return errors.Is(err, ErrNoThumbnail) || errors.Is(err, ErrUnsupportedThumbnail)
}

// ThumbFormat tells how thumbnail bytes are encoded.
type ThumbFormat string

const (
	// ThumbJPEG bytes are a complete JPEG file and can be written verbatim.
	ThumbJPEG ThumbFormat = "jpeg"

	// ThumbBitmap bytes are an uncompressed raster (PPM/PGM, TIFF or BMP)
	// that must be re-encoded before writing.
	ThumbBitmap ThumbFormat = "bitmap"
)

// Thumbnail is a preview image embedded in a RAW file.
type Thumbnail struct {
	Format ThumbFormat
	Data   []byte
}

// Image decodes the thumbnail bytes into pixels.
func (t Thumbnail) Image() (image.Image, error) {
	return decodeRaster(t.Data)
}

// Decoder opens RAW files. Implementations are safe for use by one worker
// at a time; Close releases any long-lived tool process.
type Decoder interface {
	// Name identifies the backend (e.g. "dcraw", "exiftool+dcraw").
	Name() string

	// Open prepares path for reading. The returned Handle must be closed
	// on every path, including after errors from its methods.
	Open(ctx context.Context, path string) (Handle, error)

	// Close releases backend resources.
	Close() error
}

// Handle reads one opened RAW file.
type Handle interface {
	// ExtractThumbnail returns the embedded preview, or an error wrapping
	// ErrNoThumbnail or ErrUnsupportedThumbnail when there is none usable.
	ExtractThumbnail(ctx context.Context) (Thumbnail, error)

	// DecodeFull runs the complete decode and returns the rendered image.
	DecodeFull(ctx context.Context) (image.Image, error)

	Close() error
}
