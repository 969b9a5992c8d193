// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package scan selects the RAW files a conversion job works on, either from
// a directory listing or from paths handed over by the user.
package scan

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/rawconvert/pkg/types"
)

// Enumerate lists the immediate entries of dir and returns those whose names
// end with a supported RAW extension, in directory-listing order. Entries
// are not sorted and subdirectories are never returned. An empty result is
// not an error.
func Enumerate(dir string) ([]types.SourceFile, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening directory %s: %w", dir, err)
	}
	defer f.Close()

	// File.ReadDir keeps the order the filesystem returns; os.ReadDir would sort.
	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	files := make([]types.SourceFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		suffix, ok := types.MatchSuffix(e.Name())
		if !ok {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if e.Type()&os.ModeSymlink != 0 {
			fi, err := os.Stat(path)
			if err != nil || fi.IsDir() {
				continue
			}
		}
		files = append(files, types.SourceFile{Path: path, Suffix: suffix})
	}
	return files, nil
}

// FilterFiles applies drop semantics to a list of paths. The first path that
// is a directory wins: it is returned as dir with ok set, and the caller is
// expected to enumerate it instead. Otherwise the supported files are
// returned in the order given and unsupported or missing paths are ignored.
func FilterFiles(paths []string) (files []types.SourceFile, dir string, ok bool) {
	for _, p := range paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue
		}
		if fi.IsDir() {
			return nil, p, true
		}
		suffix, supported := types.MatchSuffix(filepath.Base(p))
		if !supported {
			continue
		}
		files = append(files, types.SourceFile{Path: p, Suffix: suffix})
	}
	return files, "", false
}
