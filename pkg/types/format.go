// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strings"

// SupportedExtensions lists the RAW file suffixes rawconvert accepts, in
// lowercase. Matching is case-insensitive and by suffix.
var SupportedExtensions = []string{
	".crw", ".cr2", ".cr3", ".arw", ".raf", ".dng", ".rw2", ".nef", ".nrw",
}

// MatchSuffix reports whether name ends with a supported RAW extension. The
// returned suffix is spelled as it appears in name (e.g. ".CR2"), so callers
// can strip exactly what matched.
func MatchSuffix(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, ext := range SupportedExtensions {
		if strings.HasSuffix(lower, ext) && len(name) > len(ext) {
			return name[len(name)-len(ext):], true
		}
	}
	return "", false
}

// IsSupported reports whether name carries a supported RAW extension.
func IsSupported(name string) bool {
	_, ok := MatchSuffix(name)
	return ok
}
