// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"bytes"
	"context"
	"os/exec"
)

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Output(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

var defaultExec executor = &osExecutor{}
