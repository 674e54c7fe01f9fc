package decoder

import (
	"bytes"
	"image"

	"github.com/HugoSmits86/nativewebp"
)

type nativeDecoder struct{}

func (nativeDecoder) Name() string        { return "native" }
func (nativeDecoder) Description() string { return "pure Go (github.com/HugoSmits86/nativewebp)" }

func (nativeDecoder) Decode(data []byte) (image.Image, error) {
	return nativewebp.Decode(bytes.NewReader(data))
}

func init() {
	mustRegister(nativeDecoder{})
}
