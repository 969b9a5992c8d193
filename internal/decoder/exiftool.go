// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/barasher/go-exiftool"
)

const (
	binExiftool = "exiftool"

	// maxMetadataBytes bounds one exiftool JSON answer. Previews are
	// base64-encoded inside it, so full-size JpgFromRaw tags need room.
	maxMetadataBytes = 256 << 20
)

// previewTags lists the embedded image tags in order of preference,
// largest first.
var previewTags = []string{
	"JpgFromRaw",
	"PreviewImage",
	"OtherImage",
	"ThumbnailImage",
}

// metadataReader is the part of *exiftool.Exiftool this package uses.
type metadataReader interface {
	ExtractMetadata(files ...string) []exiftool.FileMetadata
	Close() error
}

// Exiftool extracts embedded previews through a long-running exiftool
// process. Full decodes are delegated to a dcraw backend when one is set.
type Exiftool struct {
	mu   sync.Mutex
	et   metadataReader
	full *Dcraw
}

// NewExiftool starts exiftool (bin, or "exiftool" on PATH when empty) in
// binary-extraction mode. full may be nil, in which case DecodeFull fails
// with ErrFullDecodeUnavailable.
func NewExiftool(bin string, full *Dcraw) (*Exiftool, error) {
	opts := []func(*exiftool.Exiftool) error{
		exiftool.ExtractAllBinaryMetadata(),
		exiftool.Buffer(make([]byte, 256<<10), maxMetadataBytes),
	}
	if bin != "" {
		opts = append(opts, exiftool.SetExiftoolBinaryPath(bin))
	}
	et, err := exiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("starting exiftool: %w", err)
	}
	return newExiftool(et, full), nil
}

func newExiftool(et metadataReader, full *Dcraw) *Exiftool {
	return &Exiftool{et: et, full: full}
}

func (e *Exiftool) Name() string {
	if e.full != nil {
		return binExiftool + "+" + binDcraw
	}
	return binExiftool
}

func (e *Exiftool) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.et.Close()
}

// Open reads the file's metadata, including binary preview tags, once.
func (e *Exiftool) Open(ctx context.Context, path string) (Handle, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	e.mu.Lock()
	infos := e.et.ExtractMetadata(path)
	e.mu.Unlock()

	if len(infos) == 0 {
		return nil, fmt.Errorf("exiftool returned no metadata for %s", path)
	}
	if infos[0].Err != nil {
		return nil, fmt.Errorf("exiftool metadata for %s: %w", path, infos[0].Err)
	}
	return &exiftoolHandle{e: e, path: path, meta: infos[0]}, nil
}

type exiftoolHandle struct {
	e    *Exiftool
	path string
	meta exiftool.FileMetadata
}

func (h *exiftoolHandle) ExtractThumbnail(ctx context.Context) (Thumbnail, error) {
	unsupported := false
	for _, tag := range previewTags {
		v, err := h.meta.GetString(tag)
		if err != nil {
			if errors.Is(err, exiftool.ErrKeyNotFound) {
				continue
			}
			return Thumbnail{}, fmt.Errorf("reading %s of %s: %w", tag, h.path, err)
		}
		data, err := decodeBinaryTag(v)
		if err != nil {
			return Thumbnail{}, fmt.Errorf("decoding %s of %s: %w", tag, h.path, err)
		}
		if len(data) == 0 {
			continue
		}
		thumb, err := thumbnailFromBytes(data)
		if err != nil {
			unsupported = true
			continue
		}
		return thumb, nil
	}
	if unsupported {
		return Thumbnail{}, fmt.Errorf("%s: %w", h.path, ErrUnsupportedThumbnail)
	}
	return Thumbnail{}, fmt.Errorf("%s: %w", h.path, ErrNoThumbnail)
}

func (h *exiftoolHandle) DecodeFull(ctx context.Context) (image.Image, error) {
	if h.e.full == nil {
		return nil, fmt.Errorf("%s: %w (dcraw not configured)", h.path, ErrFullDecodeUnavailable)
	}
	fh, err := h.e.full.Open(ctx, h.path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return fh.DecodeFull(ctx)
}

func (h *exiftoolHandle) Close() error { return nil }

// decodeBinaryTag decodes exiftool's JSON representation of a binary tag.
// With -b, binary values are emitted as "base64:<data>".
func decodeBinaryTag(v string) ([]byte, error) {
	const prefix = "base64:"
	if !strings.HasPrefix(v, prefix) {
		// exiftool prints a placeholder like "(Binary data 1234 bytes...)"
		// when binary extraction is off; treat it as absent.
		return nil, nil
	}
	return base64.StdEncoding.DecodeString(v[len(prefix):])
}
