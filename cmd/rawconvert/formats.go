// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/rawconvert/pkg/types"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the RAW file extensions rawconvert accepts",
	Long: `Formats prints the supported RAW extensions, one per line. Matching is
case-insensitive, so IMG_0001.CR2 and img_0001.cr2 are both accepted.`,
	Run: func(cmd *cobra.Command, args []string) {
		for _, ext := range types.SupportedExtensions {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", ext, strings.ToUpper(ext))
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
