// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// DecoderBackend identifies the external tool set used to read RAW files.
type DecoderBackend string

const (
	// BackendAuto prefers exiftool for thumbnails with dcraw for full
	// decodes, and falls back to dcraw alone.
	BackendAuto     DecoderBackend = "auto"
	BackendExiftool DecoderBackend = "exiftool"
	BackendDcraw    DecoderBackend = "dcraw"
)

// ReportFormat selects how the batch report is printed.
type ReportFormat string

const (
	ReportText ReportFormat = "text"
	ReportJSON ReportFormat = "json"
	ReportYAML ReportFormat = "yaml"
)

const (
	// DefaultOutputDirName is the subdirectory that receives JPEG files.
	DefaultOutputDirName = "converted"

	// DefaultJPEGQuality is used when encoding decoded pixels as JPEG.
	DefaultJPEGQuality = 95
)

// DecoderConfig holds settings for the RAW decoder backends.
type DecoderConfig struct {
	// Backend selects the decoder tool set: auto, exiftool, or dcraw.
	Backend DecoderBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// ExiftoolPath overrides the exiftool binary looked up on PATH.
	ExiftoolPath string `json:"exiftool_path,omitempty" yaml:"exiftool_path,omitempty" mapstructure:"exiftool_path"`

	// DcrawPath overrides the dcraw binary looked up on PATH.
	DcrawPath string `json:"dcraw_path,omitempty" yaml:"dcraw_path,omitempty" mapstructure:"dcraw_path"`
}

// ConversionConfig holds settings for a conversion run.
type ConversionConfig struct {
	DecoderConfig `yaml:",inline" mapstructure:",squash"`

	// OutputDirName is the name of the output subdirectory (default "converted").
	OutputDirName string `json:"output_dir_name" yaml:"output_dir_name" mapstructure:"output_dir_name"`

	// Mode selects thumbnail-first or full conversion.
	Mode Mode `json:"mode" yaml:"mode" mapstructure:"mode"`

	// JPEGQuality is the encoder quality for decoded images, 1-100. Zero
	// means DefaultJPEGQuality (95); negative values are rejected.
	JPEGQuality int `json:"jpeg_quality" yaml:"jpeg_quality" mapstructure:"jpeg_quality"`

	// FailFast stops the batch at the first failed file instead of
	// recording the failure and continuing.
	FailFast bool `json:"fail_fast" yaml:"fail_fast" mapstructure:"fail_fast"`

	// Report selects the batch report format: text, json, or yaml.
	Report ReportFormat `json:"report" yaml:"report" mapstructure:"report"`
}

// DefaultConversionConfig returns the settings used when nothing is configured.
func DefaultConversionConfig() ConversionConfig {
	return ConversionConfig{
		DecoderConfig: DecoderConfig{Backend: BackendAuto},
		OutputDirName: DefaultOutputDirName,
		Mode:          ModeThumbnail,
		JPEGQuality:   DefaultJPEGQuality,
		Report:        ReportText,
	}
}

// WithDefaults fills zero-valued fields from DefaultConversionConfig.
func (c ConversionConfig) WithDefaults() ConversionConfig {
	d := DefaultConversionConfig()
	if c.Backend == "" {
		c.Backend = d.Backend
	}
	if c.OutputDirName == "" {
		c.OutputDirName = d.OutputDirName
	}
	if c.Mode == "" {
		c.Mode = d.Mode
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.Report == "" {
		c.Report = d.Report
	}
	return c
}

// Validate rejects values the converter cannot act on.
func (c ConversionConfig) Validate() error {
	switch c.Backend {
	case BackendAuto, BackendExiftool, BackendDcraw:
	default:
		return fmt.Errorf("backend must be auto, exiftool, or dcraw, got %q", c.Backend)
	}
	switch c.Mode {
	case ModeThumbnail, ModeFull:
	default:
		return fmt.Errorf("mode must be thumbnail or full, got %q", c.Mode)
	}
	switch c.Report {
	case ReportText, ReportJSON, ReportYAML:
	default:
		return fmt.Errorf("report must be text, json, or yaml, got %q", c.Report)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be between 1 and 100, got %d", c.JPEGQuality)
	}
	if c.OutputDirName == "" || c.OutputDirName == "." || c.OutputDirName == ".." {
		return fmt.Errorf("output_dir_name %q is not a usable directory name", c.OutputDirName)
	}
	return nil
}
