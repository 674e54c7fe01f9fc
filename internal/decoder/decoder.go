// Package decoder turns WebP file contents into an RGBA raster.
//
// Decoding is delegated to a backend chosen by name from a Registry. The
// backends shipped with the module register themselves in init:
//
//	x        pure Go, golang.org/x/image/webp (default)
//	libwebp  libwebp through cgo, github.com/chai2010/webp (cgo builds only)
//	native   pure Go, github.com/HugoSmits86/nativewebp
package decoder

import (
	"errors"
	"fmt"
	"image"

	"github.com/roboco-io/webpconv/internal/raster"
)

// DefaultName is the backend used when none is configured.
const DefaultName = "x"

var (
	// ErrNotWebP is returned for data without a RIFF/WEBP header.
	ErrNotWebP = errors.New("not a WebP file")
	// ErrAnimated is returned for animated WebP files.
	ErrAnimated = errors.New("animated WebP is not supported")
	// ErrEmptyImage is returned when a backend yields no pixels.
	ErrEmptyImage = errors.New("decoded image is empty")
)

// Decoder is the interface that all WebP decoding backends implement.
type Decoder interface {
	// Name returns the backend identifier (e.g., "x", "libwebp").
	Name() string

	// Description is a one-line summary shown by "decoders".
	Description() string

	// Decode decodes a complete WebP file held in memory.
	Decode(data []byte) (image.Image, error)
}

// Decode decodes a whole WebP buffer with d. Either a complete raster is
// returned or an error; there are no partial results.
func Decode(d Decoder, data []byte) (*raster.Raster, error) {
	info, err := Inspect(data)
	if err != nil {
		return nil, err
	}
	if info.Animated {
		return nil, ErrAnimated
	}

	img, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s decoder: %w", d.Name(), err)
	}
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	r, err := raster.FromImage(img)
	if err != nil {
		return nil, err
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}
