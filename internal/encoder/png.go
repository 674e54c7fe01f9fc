package encoder

import (
	"fmt"
	"image/png"
	"io"

	"github.com/roboco-io/webpconv/internal/raster"
)

var pngLevels = map[string]png.CompressionLevel{
	"":        png.DefaultCompression,
	"default": png.DefaultCompression,
	"none":    png.NoCompression,
	"speed":   png.BestSpeed,
	"best":    png.BestCompression,
}

// PNGCompressionNames lists the accepted compression level names.
var PNGCompressionNames = []string{"default", "none", "speed", "best"}

// PNGEncoder writes 8-bit RGBA PNGs. Fully opaque rasters are written as
// 8-bit RGB, which decodes to the same RGBA pixels.
type PNGEncoder struct {
	enc png.Encoder
}

// NewPNG creates a PNG encoder for the named compression level.
func NewPNG(compression string) (*PNGEncoder, error) {
	level, ok := pngLevels[compression]
	if !ok {
		return nil, fmt.Errorf("unknown PNG compression %q (supported: %v)", compression, PNGCompressionNames)
	}
	return &PNGEncoder{enc: png.Encoder{CompressionLevel: level}}, nil
}

func (e *PNGEncoder) Format() Format { return FormatPNG }

// Encode writes r as PNG without touching its pixels.
func (e *PNGEncoder) Encode(w io.Writer, r *raster.Raster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return e.enc.Encode(w, r.NRGBA())
}
