// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"fmt"

	"github.com/pdiddy/rawconvert/pkg/types"
)

// exiftoolStarter starts an exiftool backend; tests replace it.
type exiftoolStarter func(bin string, full *Dcraw) (*Exiftool, error)

// Detect builds the decoder selected by cfg.Backend. With BackendAuto it
// prefers exiftool for thumbnails paired with dcraw for full decodes, and
// falls back to dcraw alone. It returns an error when no usable tool is
// installed.
func Detect(cfg types.DecoderConfig) (Decoder, error) {
	return detect(cfg, defaultExec, NewExiftool)
}

func detect(cfg types.DecoderConfig, exec executor, startExiftool exiftoolStarter) (Decoder, error) {
	dcraw := newDcraw(cfg.DcrawPath, exec)
	exiftoolBin := cfg.ExiftoolPath
	if exiftoolBin == "" {
		exiftoolBin = binExiftool
	}
	_, lookErr := exec.LookPath(exiftoolBin)
	hasExiftool := lookErr == nil

	var full *Dcraw
	if dcraw.Available() {
		full = dcraw
	}

	switch cfg.Backend {
	case types.BackendDcraw:
		if full == nil {
			return nil, fmt.Errorf("dcraw backend requested but %s was not found on PATH", dcraw.bin)
		}
		return dcraw, nil

	case types.BackendExiftool:
		if !hasExiftool {
			return nil, fmt.Errorf("exiftool backend requested but %s was not found on PATH", exiftoolBin)
		}
		et, err := startExiftool(cfg.ExiftoolPath, full)
		if err != nil {
			return nil, err
		}
		return et, nil

	case types.BackendAuto, "":
		if hasExiftool {
			et, err := startExiftool(cfg.ExiftoolPath, full)
			if err == nil {
				return et, nil
			}
			if full == nil {
				return nil, err
			}
		}
		if full != nil {
			return dcraw, nil
		}
		return nil, fmt.Errorf(
			"no RAW decoder available: neither %s nor %s found on PATH",
			binExiftool, binDcraw,
		)

	default:
		return nil, fmt.Errorf("unknown decoder backend %q", cfg.Backend)
	}
}
