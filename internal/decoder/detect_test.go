// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rawconvert/pkg/types"
)

func TestDetect(t *testing.T) {
	okStarter := func(bin string, full *Dcraw) (*Exiftool, error) {
		return newExiftool(&fakeReader{}, full), nil
	}
	failStarter := func(string, *Dcraw) (*Exiftool, error) {
		return nil, errors.New("exiftool crashed")
	}

	tests := []struct {
		name     string
		backend  types.DecoderBackend
		bins     map[string]bool
		starter  exiftoolStarter
		wantName string
		wantErr  bool
	}{
		{name: "auto with both tools", backend: types.BackendAuto, bins: map[string]bool{"exiftool": true, "dcraw": true}, starter: okStarter, wantName: "exiftool+dcraw"},
		{name: "auto with exiftool only", backend: types.BackendAuto, bins: map[string]bool{"exiftool": true}, starter: okStarter, wantName: "exiftool"},
		{name: "auto with dcraw only", backend: types.BackendAuto, bins: map[string]bool{"dcraw": true}, starter: okStarter, wantName: "dcraw"},
		{name: "auto falls back when exiftool fails to start", backend: types.BackendAuto, bins: map[string]bool{"exiftool": true, "dcraw": true}, starter: failStarter, wantName: "dcraw"},
		{name: "auto with nothing", backend: types.BackendAuto, bins: map[string]bool{}, starter: okStarter, wantErr: true},
		{name: "empty backend means auto", backend: "", bins: map[string]bool{"dcraw": true}, starter: okStarter, wantName: "dcraw"},
		{name: "forced dcraw", backend: types.BackendDcraw, bins: map[string]bool{"exiftool": true, "dcraw": true}, starter: okStarter, wantName: "dcraw"},
		{name: "forced dcraw missing", backend: types.BackendDcraw, bins: map[string]bool{"exiftool": true}, starter: okStarter, wantErr: true},
		{name: "forced exiftool", backend: types.BackendExiftool, bins: map[string]bool{"exiftool": true}, starter: okStarter, wantName: "exiftool"},
		{name: "forced exiftool missing", backend: types.BackendExiftool, bins: map[string]bool{"dcraw": true}, starter: okStarter, wantErr: true},
		{name: "forced exiftool start failure", backend: types.BackendExiftool, bins: map[string]bool{"exiftool": true}, starter: failStarter, wantErr: true},
		{name: "unknown backend", backend: "libraw", bins: map[string]bool{"dcraw": true}, starter: okStarter, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &mockExecutor{availableBins: tt.bins}
			d, err := detect(types.DecoderConfig{Backend: tt.backend}, exec, tt.starter)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, d)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, d.Name())
		})
	}
}

func TestDetect_CustomBinaryPaths(t *testing.T) {
	exec := &mockExecutor{availableBins: map[string]bool{"/opt/bin/dcraw": true}}
	d, err := detect(types.DecoderConfig{Backend: types.BackendDcraw, DcrawPath: "/opt/bin/dcraw"}, exec, nil)
	require.NoError(t, err)

	dc, ok := d.(*Dcraw)
	require.True(t, ok)
	assert.Equal(t, "/opt/bin/dcraw", dc.bin)
}
