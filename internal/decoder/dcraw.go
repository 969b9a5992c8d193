// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"strings"

	"golang.org/x/image/tiff"
)

const binDcraw = "dcraw"

// Dcraw decodes RAW files with the dcraw command-line tool. Thumbnails are
// written by `dcraw -e -c`; full decodes use camera white balance and
// high-quality interpolation and are read back as TIFF.
type Dcraw struct {
	bin  string
	exec executor
}

// NewDcraw returns a dcraw backend. An empty bin means "dcraw" on PATH.
func NewDcraw(bin string) *Dcraw {
	return newDcraw(bin, defaultExec)
}

func newDcraw(bin string, exec executor) *Dcraw {
	if bin == "" {
		bin = binDcraw
	}
	return &Dcraw{bin: bin, exec: exec}
}

func (d *Dcraw) Name() string { return binDcraw }

// Available reports whether the dcraw binary can be found.
func (d *Dcraw) Available() bool {
	_, err := d.exec.LookPath(d.bin)
	return err == nil
}

func (d *Dcraw) Close() error { return nil }

// Open checks that path is a readable regular file.
func (d *Dcraw) Open(ctx context.Context, path string) (Handle, error) {
	if err := checkReadable(path); err != nil {
		return nil, err
	}
	return &dcrawHandle{d: d, path: path}, nil
}

type dcrawHandle struct {
	d    *Dcraw
	path string
}

func (h *dcrawHandle) ExtractThumbnail(ctx context.Context) (Thumbnail, error) {
	stdout, stderr, err := h.d.exec.Output(ctx, h.d.bin, "-e", "-c", h.path)
	if cls := classifyDcrawStderr(stderr); cls != nil {
		return Thumbnail{}, fmt.Errorf("%s: %w", h.path, cls)
	}
	if err != nil {
		return Thumbnail{}, fmt.Errorf("dcraw thumbnail extraction for %s: %w: %s", h.path, err, trimStderr(stderr))
	}
	if len(stdout) == 0 {
		return Thumbnail{}, fmt.Errorf("%s: %w", h.path, ErrNoThumbnail)
	}
	thumb, err := thumbnailFromBytes(stdout)
	if err != nil {
		return Thumbnail{}, fmt.Errorf("%s: %w", h.path, err)
	}
	return thumb, nil
}

func (h *dcrawHandle) DecodeFull(ctx context.Context) (image.Image, error) {
	// -c stdout, -w camera white balance, -q 3 AHD interpolation, -T TIFF output
	stdout, stderr, err := h.d.exec.Output(ctx, h.d.bin, "-c", "-w", "-q", "3", "-T", h.path)
	if err != nil {
		return nil, fmt.Errorf("dcraw decode of %s: %w: %s", h.path, err, trimStderr(stderr))
	}
	if len(stdout) == 0 {
		return nil, fmt.Errorf("dcraw produced empty output for %s: %s", h.path, trimStderr(stderr))
	}
	img, err := tiff.Decode(bytes.NewReader(stdout))
	if err != nil {
		return nil, fmt.Errorf("reading dcraw output for %s: %w", h.path, err)
	}
	return img, nil
}

func (h *dcrawHandle) Close() error { return nil }

// classifyDcrawStderr maps dcraw's diagnostics for missing or unusable
// thumbnails onto the package sentinels. Other messages return nil.
func classifyDcrawStderr(stderr []byte) error {
	msg := strings.ToLower(string(stderr))
	switch {
	case strings.Contains(msg, "has no thumbnail"):
		return ErrNoThumbnail
	case strings.Contains(msg, "thumbnail") &&
		(strings.Contains(msg, "unknown") || strings.Contains(msg, "unsupported")):
		return ErrUnsupportedThumbnail
	default:
		return nil
	}
}

func trimStderr(stderr []byte) string {
	s := strings.TrimSpace(string(stderr))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}

func checkReadable(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s is not a regular file", path)
	}
	return nil
}
