//go:build mage

// Package main contains Mage build targets for rawconvert developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/rawconvert/pkg/types"
)

const (
	binDir     = "bin"
	binName    = "rawconvert"
	cmdPkg     = "./cmd/rawconvert"
	configFile = "rawconvert.yaml"
)

// Build compiles the CLI binary into bin/, stamping the version from git.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil || version == "" {
		version = "dev"
	}
	out := filepath.Join(binDir, binName)
	ldflags := "-X main.version=" + version
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s (%s)\n", out, version)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Check vets the code and then runs the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Install builds the binary and copies it into $GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	dst := filepath.Join(gopath, "bin", binName)
	if err := sh.Copy(dst, filepath.Join(binDir, binName)); err != nil {
		return fmt.Errorf("installing %s: %w", dst, err)
	}
	fmt.Printf("Installed %s\n", dst)
	return nil
}

// Init writes a starter rawconvert.yaml with the default settings. An
// existing file is left alone.
func Init() error {
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("%s already exists\n", configFile)
		return nil
	}
	data, err := yaml.Marshal(types.DefaultConversionConfig())
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", configFile, err)
	}
	fmt.Printf("Wrote %s\n", configFile)
	return nil
}

// Tools reports whether the external decoders are installed.
func Tools() {
	for _, bin := range []string{"exiftool", "dcraw"} {
		if p, err := exec.LookPath(bin); err == nil {
			fmt.Printf("  %-9s %s\n", bin, p)
		} else {
			fmt.Printf("  %-9s not found\n", bin)
		}
	}
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints project metrics: Go production/test LOC and documentation word count.
func Stats() error {
	var prod, tests, words int
	err := filepath.WalkDir(".", func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == ".git" || d.Name() == binDir {
				return filepath.SkipDir
			}
			return nil
		}
		switch filepath.Ext(path) {
		case ".go":
			n, err := nonBlankLines(path)
			if err != nil {
				return err
			}
			if strings.HasSuffix(path, "_test.go") {
				tests += n
			} else {
				prod += n
			}
		case ".md":
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			words += len(strings.Fields(string(data)))
		}
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	fmt.Printf("Words (documentation):           %d\n", words)
	return nil
}

func nonBlankLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n, nil
}
