// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"path/filepath"
	"strings"

	"github.com/pdiddy/rawconvert/pkg/types"
)

// SuffixMode selects how the RAW suffix is rewritten for the output file.
type SuffixMode int

const (
	// ThumbSuffix turns IMG_1.CR2 into IMG_1_thumb.jpg.
	ThumbSuffix SuffixMode = iota

	// ReplaceExtension turns IMG_1.CR2 into IMG_1.jpg.
	ReplaceExtension
)

const (
	thumbTail = "_thumb.jpg"
	fullTail  = ".jpg"
)

// DeriveOutputPath returns the JPEG path for src inside outputDir. Only
// the trailing supported suffix is replaced, so a.b.CR2 becomes
// a.b_thumb.jpg or a.b.jpg. When src.Suffix is empty the suffix is matched
// from the name, as it is when src.Suffix does not end the name; a name
// without a supported suffix keeps its whole base name.
func DeriveOutputPath(src types.SourceFile, outputDir string, mode SuffixMode) string {
	base := filepath.Base(src.Path)
	suffix := src.Suffix
	if suffix == "" || len(base) <= len(suffix) ||
		!strings.EqualFold(base[len(base)-len(suffix):], suffix) {
		suffix, _ = types.MatchSuffix(base)
	}
	stem := base
	if suffix != "" && len(base) > len(suffix) {
		stem = base[:len(base)-len(suffix)]
	}

	tail := fullTail
	if mode == ThumbSuffix {
		tail = thumbTail
	}
	return filepath.Join(outputDir, stem+tail)
}

// suffixModeFor maps a conversion method to its output naming.
func suffixModeFor(m types.Method) SuffixMode {
	if m == types.MethodThumbnail {
		return ThumbSuffix
	}
	return ReplaceExtension
}
