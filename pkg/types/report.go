// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ResultStatus is the per-file outcome of a conversion.
type ResultStatus string

const (
	StatusConverted ResultStatus = "converted"
	StatusSkipped   ResultStatus = "skipped"
	StatusFailed    ResultStatus = "failed"
)

// Method records which decoder path produced an output file.
type Method string

const (
	MethodThumbnail Method = "thumbnail"
	MethodFull      Method = "full"
)

// ReasonAlreadyExists is the skip reason when the output file is present.
const ReasonAlreadyExists = "already exists"

// ConversionResult holds the outcome for one source file.
type ConversionResult struct {
	Source     SourceFile   `json:"source" yaml:"source"`
	OutputPath string       `json:"output_path,omitempty" yaml:"output_path,omitempty"`
	Status     ResultStatus `json:"status" yaml:"status"`
	Method     Method       `json:"method,omitempty" yaml:"method,omitempty"`
	Reason     string       `json:"reason,omitempty" yaml:"reason,omitempty"`

	// Err is the failure cause for StatusFailed. It is not serialized;
	// Reason carries its message.
	Err error `json:"-" yaml:"-"`
}

// BatchSummary counts results by status.
type BatchSummary struct {
	Converted    int `json:"converted" yaml:"converted"`
	Skipped      int `json:"skipped" yaml:"skipped"`
	Failed       int `json:"failed" yaml:"failed"`
	NotAttempted int `json:"not_attempted" yaml:"not_attempted"`
}

// Total returns the number of files the job contained.
func (s BatchSummary) Total() int {
	return s.Converted + s.Skipped + s.Failed + s.NotAttempted
}

// BatchReport is the outcome of a whole conversion job.
type BatchReport struct {
	JobID      string    `json:"job_id" yaml:"job_id"`
	OutputDir  string    `json:"output_dir" yaml:"output_dir"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`

	// Aborted is set when the job stopped before its last file, either
	// because of fail-fast or because its context was cancelled.
	Aborted bool `json:"aborted" yaml:"aborted"`

	Summary BatchSummary       `json:"summary" yaml:"summary"`
	Items   []ConversionResult `json:"items" yaml:"items"`
}

// Finalize normalizes timestamps to UTC and recomputes the summary from
// Items. total is the number of files in the job; files without a result
// are counted as not attempted.
func (r *BatchReport) Finalize(total int) {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	var s BatchSummary
	for _, it := range r.Items {
		switch it.Status {
		case StatusConverted:
			s.Converted++
		case StatusSkipped:
			s.Skipped++
		case StatusFailed:
			s.Failed++
		}
	}
	if rest := total - len(r.Items); rest > 0 {
		s.NotAttempted = rest
	}
	r.Summary = s
}

// HasFailures reports whether any file failed or the job was cut short.
func (r BatchReport) HasFailures() bool {
	return r.Summary.Failed > 0 || r.Aborted
}
