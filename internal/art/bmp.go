package art

import (
	"encoding/binary"
	"fmt"
	"image"

	"github.com/desertthunder/glance/internal/shared"
)

// BMP container layout: 14-byte file header, 40-byte BITMAPINFOHEADER,
// then raw pixel rows.
const (
	fileHeaderSize  = 14
	infoHeaderSize  = 40
	pixelDataOffset = fileHeaderSize + infoHeaderSize
)

// EncodeBMP packs an RGBA pixel grid into a 24-bit uncompressed BMP.
//
// Rows are stored bottom-to-top in BGR byte order and padded to a 4-byte
// boundary, with no color table and no compression. The display client blits
// this layout directly, which is why the encoder is explicit about it rather
// than delegating to an encoder that picks bit depth from the image type.
func EncodeBMP(img *image.RGBA) ([]byte, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", shared.ErrArtEncode, w, h)
	}

	stride := (w*3 + 3) &^ 3
	size := pixelDataOffset + stride*h
	buf := make([]byte, size)

	// file header
	buf[0] = 'B'
	buf[1] = 'M'
	binary.LittleEndian.PutUint32(buf[2:6], uint32(size))
	binary.LittleEndian.PutUint32(buf[10:14], pixelDataOffset)

	// info header; positive height means bottom-up rows, compression stays 0
	binary.LittleEndian.PutUint32(buf[14:18], infoHeaderSize)
	binary.LittleEndian.PutUint32(buf[18:22], uint32(w))
	binary.LittleEndian.PutUint32(buf[22:26], uint32(h))
	binary.LittleEndian.PutUint16(buf[26:28], 1)
	binary.LittleEndian.PutUint16(buf[28:30], 24)
	binary.LittleEndian.PutUint32(buf[34:38], uint32(stride*h))

	for y := 0; y < h; y++ {
		rowStart := pixelDataOffset + (h-1-y)*stride
		for x := 0; x < w; x++ {
			src := img.PixOffset(bounds.Min.X+x, bounds.Min.Y+y)
			dst := rowStart + x*3
			buf[dst] = img.Pix[src+2]
			buf[dst+1] = img.Pix[src+1]
			buf[dst+2] = img.Pix[src]
		}
	}

	return buf, nil
}
