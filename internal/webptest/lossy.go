//go:build cgo

package webptest

import (
	"bytes"
	"image"

	chai "github.com/chai2010/webp"
)

// Lossy encodes img as lossy WebP with libwebp. An image with any pixel that
// is not fully opaque gets a VP8X container with an ALPH chunk; a fully
// opaque one is written as a simple VP8 file.
func Lossy(img *image.NRGBA, quality float32) ([]byte, error) {
	// libwebp reads straight alpha. Handing it the NRGBA bytes typed as
	// *image.RGBA keeps the encoder from premultiplying them first.
	rgba := &image.RGBA{Pix: img.Pix, Stride: img.Stride, Rect: img.Rect}

	var buf bytes.Buffer
	if err := chai.Encode(&buf, rgba, &chai.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
