// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDcraw_ExtractThumbnail(t *testing.T) {
	jpg := jpegBytes(t)

	tests := []struct {
		name       string
		stdout     []byte
		stderr     string
		err        error
		wantFormat ThumbFormat
		wantIs     error
		wantErr    bool
	}{
		{
			name:       "jpeg thumbnail passes through",
			stdout:     jpg,
			wantFormat: ThumbJPEG,
		},
		{
			name:       "ppm thumbnail is a bitmap",
			stdout:     []byte("P6\n1 1\n255\n\x01\x02\x03"),
			wantFormat: ThumbBitmap,
		},
		{
			name:   "no thumbnail",
			stderr: "IMG_0001.CR2 has no thumbnail.\n",
			err:    errors.New("exit status 1"),
			wantIs: ErrNoThumbnail,
		},
		{
			name:   "empty output without diagnostics",
			wantIs: ErrNoThumbnail,
		},
		{
			name:   "unknown thumbnail format",
			stderr: "IMG_0001.NEF has an unknown thumbnail format.\n",
			err:    errors.New("exit status 1"),
			wantIs: ErrUnsupportedThumbnail,
		},
		{
			name:   "unrecognized bytes",
			stdout: []byte("not an image"),
			wantIs: ErrUnsupportedThumbnail,
		},
		{
			name:    "decoder failure",
			stderr:  "Cannot decode file IMG_0001.CR2\n",
			err:     errors.New("exit status 1"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{
				outputFunc: func(name string, args []string) ([]byte, []byte, error) {
					return tt.stdout, []byte(tt.stderr), tt.err
				},
			}
			d := newDcraw("", exec)
			path := rawFile(t, "IMG_0001.CR2")

			h, err := d.Open(context.Background(), path)
			require.NoError(t, err)
			defer h.Close()

			thumb, err := h.ExtractThumbnail(context.Background())
			require.Len(t, exec.calls, 1)
			assert.Equal(t, "dcraw -e -c "+path, exec.calls[0])

			switch {
			case tt.wantIs != nil:
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantIs)
				assert.True(t, IsThumbnailMiss(err))
			case tt.wantErr:
				require.Error(t, err)
				assert.False(t, IsThumbnailMiss(err))
				assert.Contains(t, err.Error(), "Cannot decode")
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantFormat, thumb.Format)
				assert.Equal(t, tt.stdout, thumb.Data)
			}
		})
	}
}

func TestDcraw_DecodeFull(t *testing.T) {
	tif := tiffBytes(t)
	exec := &mockExecutor{
		outputFunc: func(name string, args []string) ([]byte, []byte, error) {
			return tif, nil, nil
		},
	}
	d := newDcraw("/opt/dcraw/bin/dcraw", exec)
	path := rawFile(t, "b.dng")

	h, err := d.Open(context.Background(), path)
	require.NoError(t, err)
	img, err := h.DecodeFull(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, img.Bounds().Dx())
	assert.Equal(t, 4, img.Bounds().Dy())
	assert.Equal(t, []string{"/opt/dcraw/bin/dcraw -c -w -q 3 -T " + path}, exec.calls)
}

func TestDcraw_DecodeFullErrors(t *testing.T) {
	tests := []struct {
		name    string
		stdout  []byte
		err     error
		wantMsg string
	}{
		{name: "tool fails", err: errors.New("exit status 1"), wantMsg: "dcraw decode"},
		{name: "empty output", wantMsg: "empty output"},
		{name: "not a tiff", stdout: []byte("P6\n1 1\n255\nabc"), wantMsg: "reading dcraw output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{
				outputFunc: func(string, []string) ([]byte, []byte, error) { return tt.stdout, nil, tt.err },
			}
			h, err := newDcraw("", exec).Open(context.Background(), rawFile(t, "x.nef"))
			require.NoError(t, err)

			_, err = h.DecodeFull(context.Background())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestDcraw_OpenMissingFile(t *testing.T) {
	_, err := newDcraw("", &mockExecutor{}).Open(context.Background(), filepath.Join(t.TempDir(), "gone.cr2"))
	require.Error(t, err)
}

func TestDcraw_Available(t *testing.T) {
	assert.True(t, newDcraw("", &mockExecutor{availableBins: map[string]bool{"dcraw": true}}).Available())
	assert.False(t, newDcraw("", &mockExecutor{}).Available())
}
