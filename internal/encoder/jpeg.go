package encoder

import (
	"fmt"
	"image/jpeg"
	"io"

	"github.com/roboco-io/webpconv/internal/raster"
)

// DefaultJPEGQuality matches image/jpeg's and libjpeg's default quality.
const DefaultJPEGQuality = jpeg.DefaultQuality

// JPEGEncoder drops the alpha channel and writes a baseline JPEG.
type JPEGEncoder struct {
	quality int
}

// NewJPEG creates a JPEG encoder. A quality of 0 selects DefaultJPEGQuality.
func NewJPEG(quality int) (*JPEGEncoder, error) {
	if quality == 0 {
		quality = DefaultJPEGQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("JPEG quality must be in 1-100, got %d", quality)
	}
	return &JPEGEncoder{quality: quality}, nil
}

func (e *JPEGEncoder) Format() Format { return FormatJPEG }

// Quality returns the configured quality.
func (e *JPEGEncoder) Quality() int { return e.quality }

// Encode writes r as JPEG. RGB values are taken unchanged from the raster;
// alpha is discarded rather than composited.
func (e *JPEGEncoder) Encode(w io.Writer, r *raster.Raster) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return jpeg.Encode(w, r.Opaque(), &jpeg.Options{Quality: e.quality})
}
