// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "github.com/pdiddy/rawconvert/pkg/types"

// Observer receives job events. All calls come from the worker goroutine,
// in input order. For a failed item OnError precedes its OnProgress;
// OnCompleted is always the last call and happens exactly once per job.
type Observer interface {
	// OnProgress reports that done of total items have been handled.
	OnProgress(done, total int, res types.ConversionResult)

	// OnError reports an item that failed to convert.
	OnError(res types.ConversionResult)

	// OnCompleted delivers the finalized report.
	OnCompleted(rep types.BatchReport)
}

// Funcs adapts plain functions to Observer. Nil fields are ignored.
type Funcs struct {
	Progress  func(done, total int, res types.ConversionResult)
	Error     func(res types.ConversionResult)
	Completed func(rep types.BatchReport)
}

func (f Funcs) OnProgress(done, total int, res types.ConversionResult) {
	if f.Progress != nil {
		f.Progress(done, total, res)
	}
}

func (f Funcs) OnError(res types.ConversionResult) {
	if f.Error != nil {
		f.Error(res)
	}
}

func (f Funcs) OnCompleted(rep types.BatchReport) {
	if f.Completed != nil {
		f.Completed(rep)
	}
}
