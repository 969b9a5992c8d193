// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rawconvert CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rawconvert/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the rawconvert CLI.
var rootCmd = &cobra.Command{
	Use:   "rawconvert",
	Short: "Convert camera RAW files to JPEG",
	Long: `rawconvert turns camera RAW files (CR2, CR3, NEF, ARW, DNG, ...) into JPEG.
For each file it writes the embedded preview as <name>_thumb.jpg, and falls back
to a full decode written as <name>.jpg when no usable preview exists. Decoding
is done by exiftool and dcraw, which must be installed.

Existing output files are never overwritten, so a folder can be converted again
and only new files are processed.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./rawconvert.yaml or ~/.config/rawconvert/rawconvert.yaml)")

	d := types.DefaultConversionConfig()
	viper.SetDefault("backend", string(d.Backend))
	viper.SetDefault("exiftool_path", "")
	viper.SetDefault("dcraw_path", "")
	viper.SetDefault("output_dir_name", d.OutputDirName)
	viper.SetDefault("mode", string(d.Mode))
	viper.SetDefault("jpeg_quality", d.JPEGQuality)
	viper.SetDefault("fail_fast", d.FailFast)
	viper.SetDefault("report", string(d.Report))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rawconvert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rawconvert"))
		}
	}

	viper.SetEnvPrefix("RAWCONVERT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig resolves the effective settings from flags, environment and
// the config file.
func loadConfig(v *viper.Viper) (types.ConversionConfig, error) {
	var cfg types.ConversionConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
