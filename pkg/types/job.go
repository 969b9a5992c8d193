// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SourceFile is a RAW file selected for conversion.
type SourceFile struct {
	// Path is the filesystem path to the RAW file.
	Path string `json:"path" yaml:"path"`

	// Suffix is the supported extension the file name matched, as spelled in
	// the name (e.g. ".CR2").
	Suffix string `json:"suffix" yaml:"suffix"`
}

// Mode selects how each file of a job is converted.
type Mode string

const (
	// ModeThumbnail writes the embedded thumbnail and falls back to a full
	// decode when the file has no usable thumbnail.
	ModeThumbnail Mode = "thumbnail"

	// ModeFull always runs the full decode.
	ModeFull Mode = "full"
)

// ConversionJob is one batch of files converted into a single output
// directory. A job is consumed exactly once.
type ConversionJob struct {
	ID        string       `json:"id" yaml:"id"`
	Files     []SourceFile `json:"files" yaml:"files"`
	OutputDir string       `json:"output_dir" yaml:"output_dir"`
	Mode      Mode         `json:"mode" yaml:"mode"`
}
