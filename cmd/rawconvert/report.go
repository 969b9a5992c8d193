// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rawconvert/pkg/types"
)

// writeReport prints the batch report in the requested format.
func writeReport(w io.Writer, format types.ReportFormat, rep types.BatchReport) error {
	switch format {
	case types.ReportJSON:
		b, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", b)
		return err

	case types.ReportYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		return enc.Close()

	case types.ReportText, "":
		s := rep.Summary
		fmt.Fprintf(w, "Done: converted=%d skipped=%d failed=%d", s.Converted, s.Skipped, s.Failed)
		if s.NotAttempted > 0 {
			fmt.Fprintf(w, " not_attempted=%d", s.NotAttempted)
		}
		fmt.Fprintln(w)
		_, err := fmt.Fprintf(w, "out: %s\n", rep.OutputDir)
		return err

	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}
