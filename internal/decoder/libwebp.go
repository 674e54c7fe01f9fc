//go:build cgo

package decoder

import (
	"image"

	chai "github.com/chai2010/webp"
)

type libwebpDecoder struct{}

func (libwebpDecoder) Name() string        { return "libwebp" }
func (libwebpDecoder) Description() string { return "libwebp via cgo (github.com/chai2010/webp)" }

// Decode calls WebPDecodeRGBA. The pixels it returns are straight alpha even
// though they come back typed as *image.RGBA.
func (libwebpDecoder) Decode(data []byte) (image.Image, error) {
	m, err := chai.DecodeRGBA(data)
	if err != nil {
		return nil, err
	}
	return &image.NRGBA{Pix: m.Pix, Stride: m.Stride, Rect: m.Rect}, nil
}

func init() {
	mustRegister(libwebpDecoder{})
}
