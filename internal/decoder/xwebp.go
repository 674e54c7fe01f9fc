package decoder

import (
	"bytes"
	"image"

	"golang.org/x/image/webp"
)

type xDecoder struct{}

func (xDecoder) Name() string        { return "x" }
func (xDecoder) Description() string { return "pure Go (golang.org/x/image/webp)" }

func (xDecoder) Decode(data []byte) (image.Image, error) {
	return webp.Decode(bytes.NewReader(data))
}

func init() {
	mustRegister(xDecoder{})
}
