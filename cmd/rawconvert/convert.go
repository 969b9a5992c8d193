// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rawconvert/internal/convert"
	"github.com/pdiddy/rawconvert/internal/decoder"
	"github.com/pdiddy/rawconvert/internal/scan"
	"github.com/pdiddy/rawconvert/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [paths...]",
	Short: "Convert RAW files to JPEG",
	Long: `Convert writes a JPEG for every supported RAW file.

With a single folder argument (or no argument, meaning the current folder) the
folder's RAW files are converted into <folder>/converted. With file arguments,
as when files are dropped on the tool, the supported files are converted into
./converted; if any argument is a folder, the first one is converted instead.

Files whose output already exists are skipped. By default a file that fails to
convert is reported and the batch continues; --fail-fast stops at the first
failure. The exit status is non-zero when any file failed.`,
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().String("mode", "thumbnail", "conversion mode: thumbnail (embedded preview, full decode fallback) or full")
	convertCmd.Flags().String("backend", "auto", "decoder backend: auto, exiftool, or dcraw")
	convertCmd.Flags().Int("quality", 95, "JPEG quality for decoded images (1-100, 0 uses the default 95)")
	convertCmd.Flags().String("output-name", "converted", "name of the output subdirectory")
	convertCmd.Flags().Bool("fail-fast", false, "stop the batch at the first failed file")
	convertCmd.Flags().String("report", "text", "batch report format: text, json, or yaml")
	convertCmd.Flags().String("exiftool-path", "", "path to the exiftool binary")
	convertCmd.Flags().String("dcraw-path", "", "path to the dcraw binary")

	for key, flag := range map[string]string{
		"mode":            "mode",
		"backend":         "backend",
		"jpeg_quality":    "quality",
		"output_dir_name": "output-name",
		"fail_fast":       "fail-fast",
		"report":          "report",
		"exiftool_path":   "exiftool-path",
		"dcraw_path":      "dcraw-path",
	} {
		_ = viper.BindPFlag(key, convertCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolving working directory: %w", err)
	}
	files, outDir, err := resolveTargets(args, cwd, cfg.OutputDirName)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No RAW files found (supported: %v)\n", types.SupportedExtensions)
		return nil
	}

	dec, err := decoder.Detect(cfg.DecoderConfig)
	if err != nil {
		return err
	}
	defer dec.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui := newProgressUI(os.Stderr, isTTY(os.Stderr))
	runner := convert.NewRunner(&convert.Worker{
		Decoder:  dec,
		Quality:  cfg.JPEGQuality,
		FailFast: cfg.FailFast,
		Log:      ui,
	})

	job := convert.NewJob(files, outDir, cfg.Mode)
	fmt.Fprintf(os.Stderr, "Converting %d files into %s (decoder: %s)\n", len(files), outDir, dec.Name())

	h, err := runner.Start(ctx, job, ui)
	if err != nil {
		return err
	}
	rep := h.Wait()

	if err := writeReport(cmd.OutOrStdout(), cfg.Report, rep); err != nil {
		return err
	}
	return batchError(rep)
}

// resolveTargets turns command arguments into the files to convert and
// the output directory. No arguments means the working directory. When
// any argument is a directory the first one is converted; otherwise the
// supported files among args are converted into cwd.
func resolveTargets(args []string, cwd, outName string) ([]types.SourceFile, string, error) {
	if len(args) == 0 {
		return enumerateDir(cwd, outName)
	}

	files, dir, isDir := scan.FilterFiles(args)
	if isDir {
		return enumerateDir(dir, outName)
	}
	return files, filepath.Join(cwd, outName), nil
}

func enumerateDir(dir, outName string) ([]types.SourceFile, string, error) {
	files, err := scan.Enumerate(dir)
	if err != nil {
		return nil, "", err
	}
	return files, filepath.Join(dir, outName), nil
}

// errBatchFailed marks a batch that finished with failures; the report
// has already been printed.
var errBatchFailed = errors.New("conversion finished with failures")

func batchError(rep types.BatchReport) error {
	if !rep.HasFailures() {
		return nil
	}
	s := rep.Summary
	if rep.Aborted {
		return fmt.Errorf("%w: %d failed, %d not attempted (aborted)", errBatchFailed, s.Failed, s.NotAttempted)
	}
	return fmt.Errorf("%w: %d of %d files failed", errBatchFailed, s.Failed, s.Total())
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
