// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rawconvert/internal/decoder"
	"github.com/pdiddy/rawconvert/pkg/types"
)

// fileBehavior configures how fakeDecoder answers for one file.
type fileBehavior struct {
	openErr  error
	thumb    decoder.Thumbnail
	thumbErr error
	full     image.Image
	fullErr  error
}

// fakeDecoder implements decoder.Decoder keyed by base file name. Files
// without a behavior have no thumbnail and decode to a small image.
type fakeDecoder struct {
	mu         sync.Mutex
	behaviors  map[string]fileBehavior
	opens      int
	closes     int
	fullCalls  []string
	thumbCalls []string
	onOpen     func(path string)
}

func (d *fakeDecoder) Name() string { return "fake" }
func (d *fakeDecoder) Close() error { return nil }

func (d *fakeDecoder) Open(ctx context.Context, path string) (decoder.Handle, error) {
	if d.onOpen != nil {
		d.onOpen(path)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	b := d.behaviors[filepath.Base(path)]
	if b.openErr != nil {
		return nil, b.openErr
	}
	d.opens++
	return &fakeHandle{d: d, path: path, b: b}, nil
}

type fakeHandle struct {
	d    *fakeDecoder
	path string
	b    fileBehavior
}

func (h *fakeHandle) ExtractThumbnail(ctx context.Context) (decoder.Thumbnail, error) {
	h.d.mu.Lock()
	h.d.thumbCalls = append(h.d.thumbCalls, filepath.Base(h.path))
	h.d.mu.Unlock()
	if h.b.thumbErr != nil {
		return decoder.Thumbnail{}, h.b.thumbErr
	}
	if h.b.thumb.Data == nil {
		return decoder.Thumbnail{}, decoder.ErrNoThumbnail
	}
	return h.b.thumb, nil
}

func (h *fakeHandle) DecodeFull(ctx context.Context) (image.Image, error) {
	h.d.mu.Lock()
	h.d.fullCalls = append(h.d.fullCalls, filepath.Base(h.path))
	h.d.mu.Unlock()
	if h.b.fullErr != nil {
		return nil, h.b.fullErr
	}
	if h.b.full != nil {
		return h.b.full, nil
	}
	return testImage(8, 6), nil
}

func (h *fakeHandle) Close() error {
	h.d.mu.Lock()
	h.d.closes++
	h.d.mu.Unlock()
	return nil
}

// recorder is an Observer that keeps every event in order.
type recorder struct {
	mu        sync.Mutex
	events    []string
	progress  [][2]int
	errors    []types.ConversionResult
	completed []types.BatchReport
}

func (r *recorder) OnProgress(done, total int, res types.ConversionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "progress")
	r.progress = append(r.progress, [2]int{done, total})
}

func (r *recorder) OnError(res types.ConversionResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "error")
	r.errors = append(r.errors, res)
}

func (r *recorder) OnCompleted(rep types.BatchReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "completed")
	r.completed = append(r.completed, rep)
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 90, A: 255})
		}
	}
	return img
}

func jpegThumb(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(4, 4), &jpeg.Options{Quality: 70}))
	return buf.Bytes()
}

// setupJob writes placeholder RAW files into a fresh directory and
// returns a job targeting <dir>/converted.
func setupJob(t *testing.T, mode types.Mode, names ...string) types.ConversionJob {
	t.Helper()
	dir := t.TempDir()
	files := make([]types.SourceFile, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("raw"), 0o644))
		suffix, _ := types.MatchSuffix(n)
		files = append(files, types.SourceFile{Path: p, Suffix: suffix})
	}
	return NewJob(files, filepath.Join(dir, "converted"), mode)
}

var errCorrupt = errors.New("corrupt raw data")
