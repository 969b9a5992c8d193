// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool
	outputFunc    func(name string, args []string) (stdout, stderr []byte, err error)
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Output(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	m.calls = append(m.calls, name+" "+strings.Join(args, " "))
	if m.outputFunc != nil {
		return m.outputFunc(name, args)
	}
	return nil, nil, nil
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 128, A: 255})
		}
	}
	return img
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, testImage(4, 3), nil))
	return buf.Bytes()
}

func tiffBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tiff.Encode(&buf, testImage(6, 4), nil))
	return buf.Bytes()
}

// rawFile writes a placeholder RAW file; backends only need it to exist.
func rawFile(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("raw"), 0o644))
	return p
}
