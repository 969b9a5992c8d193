// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs RAW-to-JPEG conversion jobs. A Worker walks a job's
// files in order, preferring each file's embedded thumbnail and falling
// back to a full decode, and reports every item to an Observer. A Runner
// puts at most one job at a time on a background goroutine.
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/rawconvert/internal/decoder"
	"github.com/pdiddy/rawconvert/internal/fsx"
	"github.com/pdiddy/rawconvert/pkg/types"
)

// Worker converts the files of a job one after another.
type Worker struct {
	// Decoder opens RAW files. It is used by one job at a time.
	Decoder decoder.Decoder

	// Quality is the JPEG quality for re-encoded images (default 95).
	Quality int

	// FailFast stops the job after the first failed item.
	FailFast bool

	// Log receives one status line per item and a summary. Nil discards.
	Log io.Writer
}

// Run converts every file of job into job.OutputDir and returns the
// finalized report. obs may be nil. Run stops early when ctx is cancelled
// or, with FailFast, after a failure; OnCompleted is delivered either way.
func (w *Worker) Run(ctx context.Context, job types.ConversionJob, obs Observer) types.BatchReport {
	log := w.Log
	if log == nil {
		log = io.Discard
	}
	if obs == nil {
		obs = Funcs{}
	}

	total := len(job.Files)
	rep := types.BatchReport{
		JobID:     job.ID,
		OutputDir: job.OutputDir,
		StartedAt: time.Now(),
		Items:     make([]types.ConversionResult, 0, total),
	}

	var setupErr error
	if total > 0 {
		if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
			setupErr = fmt.Errorf("creating output directory %s: %w", job.OutputDir, err)
		}
	}

	for i, src := range job.Files {
		if err := ctx.Err(); err != nil {
			fmt.Fprintf(log, "aborted: %d of %d files not attempted (%v)\n", total-i, total, err)
			rep.Aborted = true
			break
		}

		var res types.ConversionResult
		if setupErr != nil {
			res = failed(types.ConversionResult{Source: src}, setupErr)
		} else {
			res = w.convertFile(ctx, job, src)
		}
		rep.Items = append(rep.Items, res)
		logResult(log, res)

		if res.Status == types.StatusFailed {
			obs.OnError(res)
		}
		obs.OnProgress(i+1, total, res)

		if res.Status == types.StatusFailed && w.FailFast && i+1 < total {
			fmt.Fprintf(log, "aborted: stopping after first failure, %d files not attempted\n", total-i-1)
			rep.Aborted = true
			break
		}
	}

	rep.FinishedAt = time.Now()
	rep.Finalize(total)

	s := rep.Summary
	fmt.Fprintf(log, "\nBatch summary: %d converted, %d skipped, %d failed", s.Converted, s.Skipped, s.Failed)
	if s.NotAttempted > 0 {
		fmt.Fprintf(log, ", %d not attempted", s.NotAttempted)
	}
	fmt.Fprintf(log, " (total: %d)\n", s.Total())

	obs.OnCompleted(rep)
	return rep
}

// convertFile produces the result for one source file.
func (w *Worker) convertFile(ctx context.Context, job types.ConversionJob, src types.SourceFile) types.ConversionResult {
	h := &lazyHandle{dec: w.Decoder, path: src.Path}
	defer h.close()

	if job.Mode != types.ModeFull {
		if res, done := w.convertThumbnail(ctx, h, job.OutputDir, src); done {
			return res
		}
	}
	return w.convertFull(ctx, h, job.OutputDir, src)
}

// convertThumbnail writes the embedded preview as <name>_thumb.jpg. done
// is false when the file has no usable preview and a full decode should
// be tried instead.
func (w *Worker) convertThumbnail(ctx context.Context, h *lazyHandle, outDir string, src types.SourceFile) (res types.ConversionResult, done bool) {
	res = types.ConversionResult{
		Source:     src,
		OutputPath: DeriveOutputPath(src, outDir, suffixModeFor(types.MethodThumbnail)),
		Method:     types.MethodThumbnail,
	}
	if r, ok := checkExisting(res); ok {
		return r, true
	}

	rh, err := h.get(ctx)
	if err != nil {
		return failed(res, err), true
	}
	thumb, err := rh.ExtractThumbnail(ctx)
	if decoder.IsThumbnailMiss(err) {
		return res, false
	}
	if err != nil {
		return failed(res, err), true
	}

	data := thumb.Data
	if thumb.Format != decoder.ThumbJPEG {
		img, err := thumb.Image()
		if errors.Is(err, decoder.ErrUnsupportedThumbnail) {
			return res, false
		}
		if err != nil {
			return failed(res, fmt.Errorf("decoding thumbnail of %s: %w", src.Path, err)), true
		}
		if data, err = w.encode(img); err != nil {
			return failed(res, err), true
		}
	}
	return write(res, data), true
}

// convertFull decodes the whole image and writes it as <name>.jpg.
func (w *Worker) convertFull(ctx context.Context, h *lazyHandle, outDir string, src types.SourceFile) types.ConversionResult {
	res := types.ConversionResult{
		Source:     src,
		OutputPath: DeriveOutputPath(src, outDir, suffixModeFor(types.MethodFull)),
		Method:     types.MethodFull,
	}
	if r, ok := checkExisting(res); ok {
		return r
	}

	rh, err := h.get(ctx)
	if err != nil {
		return failed(res, err)
	}
	img, err := rh.DecodeFull(ctx)
	if err != nil {
		return failed(res, err)
	}
	data, err := w.encode(img)
	if err != nil {
		return failed(res, err)
	}
	return write(res, data)
}

func (w *Worker) encode(img image.Image) ([]byte, error) {
	q := w.Quality
	if q <= 0 {
		q = types.DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: q}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// checkExisting returns a skipped result when res.OutputPath is present.
func checkExisting(res types.ConversionResult) (types.ConversionResult, bool) {
	exists, err := fsx.Exists(res.OutputPath)
	if err != nil {
		return failed(res, fmt.Errorf("checking %s: %w", res.OutputPath, err)), true
	}
	if exists {
		return skipped(res), true
	}
	return res, false
}

// write stores data at res.OutputPath. A file that appeared since the
// existence check makes the item skipped, not failed.
func write(res types.ConversionResult, data []byte) types.ConversionResult {
	err := fsx.WriteFileAtomicNoOverwrite(filepath.Dir(res.OutputPath), filepath.Base(res.OutputPath), data)
	switch {
	case errors.Is(err, os.ErrExist):
		return skipped(res)
	case err != nil:
		return failed(res, fmt.Errorf("writing %s: %w", res.OutputPath, err))
	}
	res.Status = types.StatusConverted
	return res
}

func skipped(res types.ConversionResult) types.ConversionResult {
	res.Status = types.StatusSkipped
	res.Reason = types.ReasonAlreadyExists
	return res
}

func failed(res types.ConversionResult, err error) types.ConversionResult {
	res.Status = types.StatusFailed
	res.Reason = err.Error()
	res.Err = err
	return res
}

func logResult(w io.Writer, res types.ConversionResult) {
	name := filepath.Base(res.Source.Path)
	switch res.Status {
	case types.StatusConverted:
		fmt.Fprintf(w, "converted: %s -> %s (%s)\n", name, filepath.Base(res.OutputPath), res.Method)
	case types.StatusSkipped:
		fmt.Fprintf(w, "skipped: %s (%s)\n", name, res.Reason)
	case types.StatusFailed:
		fmt.Fprintf(w, "failed:  %s (%v)\n", name, res.Err)
	}
}

// lazyHandle opens the RAW file on first use so that skipped items never
// touch the decoder, and a thumbnail miss reuses the same handle for the
// full decode.
type lazyHandle struct {
	dec  decoder.Decoder
	path string
	h    decoder.Handle
}

func (l *lazyHandle) get(ctx context.Context) (decoder.Handle, error) {
	if l.h != nil {
		return l.h, nil
	}
	h, err := l.dec.Open(ctx, l.path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", l.path, err)
	}
	l.h = h
	return h, nil
}

func (l *lazyHandle) close() {
	if l.h != nil {
		l.h.Close()
	}
}
