// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/rawconvert/pkg/types"
)

// ErrBusy is returned by Runner.Start while another job is running.
var ErrBusy = errors.New("a conversion job is already running")

// NewJob builds a job with a fresh ID.
func NewJob(files []types.SourceFile, outputDir string, mode types.Mode) types.ConversionJob {
	return types.ConversionJob{
		ID:        uuid.NewString(),
		Files:     files,
		OutputDir: outputDir,
		Mode:      mode,
	}
}

// Runner runs at most one job at a time on a background goroutine. A
// second Start while a job is in flight is rejected with ErrBusy.
type Runner struct {
	Worker *Worker

	mu     sync.Mutex
	active *Handle
}

// NewRunner returns a Runner that executes jobs with w.
func NewRunner(w *Worker) *Runner {
	return &Runner{Worker: w}
}

// Handle tracks a started job.
type Handle struct {
	id     string
	done   chan struct{}
	report types.BatchReport
}

// ID returns the job ID.
func (h *Handle) ID() string { return h.id }

// Done is closed once the job has finished and OnCompleted was delivered.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the job finishes and returns its report.
func (h *Handle) Wait() types.BatchReport {
	<-h.done
	return h.report
}

// Busy reports whether a job is in flight.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active != nil
}

// Start launches job and returns immediately. Observer events are
// delivered from the job goroutine. A job without an ID gets one.
func (r *Runner) Start(ctx context.Context, job types.ConversionJob, obs Observer) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return nil, ErrBusy
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}

	h := &Handle{id: job.ID, done: make(chan struct{})}
	r.active = h

	go func() {
		defer close(h.done)
		h.report = r.Worker.Run(ctx, job, obs)

		r.mu.Lock()
		r.active = nil
		r.mu.Unlock()
	}()
	return h, nil
}
