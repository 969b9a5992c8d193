// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package decoder

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"strconv"
)

// maxPNMPixels bounds the raster size accepted from a preview header.
const maxPNMPixels = 1 << 28

// decodePNM reads a binary PGM (P5) or PPM (P6) image, the raster format
// dcraw uses for bitmap thumbnails. Both 8-bit and 16-bit samples are
// accepted. The header's dimensions must fit in data.
func decodePNM(data []byte) (image.Image, error) {
	r := bytes.NewReader(data)
	br := bufio.NewReader(r)

	magic, err := pnmToken(br)
	if err != nil {
		return nil, fmt.Errorf("reading pnm magic: %w", err)
	}
	var channels int
	switch magic {
	case "P5":
		channels = 1
	case "P6":
		channels = 3
	default:
		return nil, fmt.Errorf("unsupported pnm magic %q", magic)
	}

	width, err := pnmInt(br)
	if err != nil {
		return nil, fmt.Errorf("reading pnm width: %w", err)
	}
	height, err := pnmInt(br)
	if err != nil {
		return nil, fmt.Errorf("reading pnm height: %w", err)
	}
	maxval, err := pnmInt(br)
	if err != nil {
		return nil, fmt.Errorf("reading pnm maxval: %w", err)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid pnm size %dx%d", width, height)
	}
	if maxval <= 0 || maxval > 65535 {
		return nil, fmt.Errorf("invalid pnm maxval %d", maxval)
	}

	bytesPerSample := 1
	if maxval > 255 {
		bytesPerSample = 2
	}
	if width > maxPNMPixels/height {
		return nil, fmt.Errorf("pnm size %dx%d too large", width, height)
	}
	need := width * height * channels * bytesPerSample
	if have := br.Buffered() + r.Len(); need > have {
		return nil, fmt.Errorf("pnm pixel data truncated: %dx%d needs %d bytes, have %d: %w",
			width, height, need, have, io.ErrUnexpectedEOF)
	}
	buf := make([]byte, need)
	if _, err := io.ReadFull(br, buf); err != nil {
		return nil, fmt.Errorf("reading pnm pixels: %w", err)
	}

	sample := func(i int) uint32 {
		var v uint32
		if bytesPerSample == 2 {
			v = uint32(buf[2*i])<<8 | uint32(buf[2*i+1])
		} else {
			v = uint32(buf[i])
		}
		if v >= uint32(maxval) {
			return 0xFFFF
		}
		// Scale to the full 16-bit range regardless of maxval.
		return v * 0xFFFF / uint32(maxval)
	}

	rect := image.Rect(0, 0, width, height)
	if channels == 1 {
		img := image.NewGray16(rect)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				img.SetGray16(x, y, color.Gray16{Y: uint16(sample(y*width + x))})
			}
		}
		return img, nil
	}

	img := image.NewRGBA64(rect)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := (y*width + x) * 3
			img.SetRGBA64(x, y, color.RGBA64{
				R: uint16(sample(i)),
				G: uint16(sample(i + 1)),
				B: uint16(sample(i + 2)),
				A: 0xFFFF,
			})
		}
	}
	return img, nil
}

// pnmToken returns the next whitespace-delimited header token, skipping
// '#' comments. The single whitespace byte after the token is consumed.
func pnmToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		c, err := br.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(tok) > 0 {
				return string(tok), nil
			}
			return "", err
		}
		switch {
		case c == '#' && len(tok) == 0:
			if _, err := br.ReadString('\n'); err != nil {
				return "", err
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if len(tok) > 0 {
				return string(tok), nil
			}
		default:
			tok = append(tok, c)
		}
	}
}

func pnmInt(br *bufio.Reader) (int, error) {
	tok, err := pnmToken(br)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 || n > 1<<24 {
		return 0, fmt.Errorf("invalid pnm number %q", tok)
	}
	return n, nil
}
