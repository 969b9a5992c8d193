// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fsx writes output files so that a reader never observes a
// partially written JPEG and an existing file is never replaced.
package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
)

// linkFunc and renameFunc are swapped in tests to simulate filesystem
// failures.
var (
	linkFunc   = os.Link
	renameFunc = os.Rename
)

// PathTypeConflictError reports a target path that exists but is not a
// regular file (for example a directory named like the output).
type PathTypeConflictError struct {
	Path string
	Want string
	Got  string
}

func (e *PathTypeConflictError) Error() string {
	return fmt.Sprintf("path type conflict at %s: want %s, got %s", e.Path, e.Want, e.Got)
}

// IsPathTypeConflict reports whether err is or wraps a PathTypeConflictError.
func IsPathTypeConflict(err error) bool {
	var e *PathTypeConflictError
	return errors.As(err, &e)
}

// Exists reports whether path exists. Errors other than "not exist" are
// returned so callers do not mistake a permission problem for absence.
func Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// WriteFileAtomicNoOverwrite writes data to dir/name through a temporary
// file in dir followed by a rename. It returns os.ErrExist when the target
// already exists and a *PathTypeConflictError when the target is not a
// regular file. dir is created if needed.
func WriteFileAtomicNoOverwrite(dir, name string, data []byte) error {
	dst := filepath.Join(filepath.Clean(dir), name)
	if fi, err := os.Lstat(dst); err == nil {
		if fi.IsDir() {
			return &PathTypeConflictError{Path: dst, Want: "file", Got: "dir"}
		}
		if !fi.Mode().IsRegular() {
			return &PathTypeConflictError{Path: dst, Want: "regular file", Got: fi.Mode().Type().String()}
		}
		return os.ErrExist
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return writeFileAtomic(dir, name, data, 0o644)
}

func writeFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	dst := filepath.Join(dir, name)

	// Dot prefix keeps the temp file out of image viewers while it is written.
	tmp, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := writeAll(tmp, data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := publishNoOverwrite(tmpName, dst); err != nil {
		return err
	}

	_ = syncDirBestEffort(dir)
	return nil
}

// publishNoOverwrite moves tmp to dst unless dst exists. A hard link fails
// atomically with EEXIST; the deferred cleanup in writeFileAtomic removes
// tmp afterwards. Filesystems without hard links fall back to a re-check
// followed by rename.
func publishNoOverwrite(tmp, dst string) error {
	err := linkFunc(tmp, dst)
	if err == nil {
		return nil
	}
	if errors.Is(err, os.ErrExist) {
		return os.ErrExist
	}

	if _, err := os.Lstat(dst); err == nil {
		return os.ErrExist
	}
	return renameFunc(tmp, dst)
}

func writeAll(w io.Writer, b []byte) error {
	for len(b) > 0 {
		n, err := w.Write(b)
		if err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

func syncDirBestEffort(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
