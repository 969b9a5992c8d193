// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Kind is the container format detected from leading bytes.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNM
	KindTIFF
	KindBMP
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNM:
		return "pnm"
	case KindTIFF:
		return "tiff"
	case KindBMP:
		return "bmp"
	default:
		return "unknown"
	}
}

// Sniff classifies data by its magic bytes.
func Sniff(data []byte) Kind {
	switch {
	case len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return KindJPEG
	case len(data) >= 2 && data[0] == 'P' && (data[1] == '5' || data[1] == '6'):
		return KindPNM
	case bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")):
		return KindTIFF
	case bytes.HasPrefix(data, []byte("BM")):
		return KindBMP
	default:
		return KindUnknown
	}
}

// thumbnailFromBytes wraps preview bytes, rejecting formats that cannot be
// written as JPEG.
func thumbnailFromBytes(data []byte) (Thumbnail, error) {
	switch Sniff(data) {
	case KindJPEG:
		return Thumbnail{Format: ThumbJPEG, Data: data}, nil
	case KindPNM, KindTIFF, KindBMP:
		return Thumbnail{Format: ThumbBitmap, Data: data}, nil
	default:
		return Thumbnail{}, ErrUnsupportedThumbnail
	}
}

func decodeRaster(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	switch k := Sniff(data); k {
	case KindPNM:
		return decodePNM(data)
	case KindTIFF:
		return tiff.Decode(r)
	case KindBMP:
		return bmp.Decode(r)
	case KindJPEG:
		return jpeg.Decode(r)
	default:
		return nil, fmt.Errorf("decoding raster: %w", ErrUnsupportedThumbnail)
	}
}
