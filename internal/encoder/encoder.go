// Package encoder writes an RGBA raster as JPEG or PNG.
package encoder

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/roboco-io/webpconv/internal/raster"
)

// Encoder serializes a raster to w.
type Encoder interface {
	// Format returns the target format.
	Format() Format

	// Encode writes the whole raster to w.
	Encode(w io.Writer, r *raster.Raster) error
}

// Format represents an output image format.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	default:
		return "unknown"
	}
}

// Extension returns the file extension, with the leading dot, used for
// output files of this format.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	default:
		return ""
	}
}

// DetectFormat detects the output format from a file path.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	default:
		return FormatUnknown
	}
}

// Options configures the encoders. Zero values select library defaults.
type Options struct {
	JPEGQuality    int    // 1-100, 0 means the library default
	PNGCompression string // default, none, speed, best
}

// DefaultOptions returns options that reproduce the codec libraries' own
// defaults.
func DefaultOptions() Options {
	return Options{
		JPEGQuality:    DefaultJPEGQuality,
		PNGCompression: "default",
	}
}

// New returns the encoder for f.
func New(f Format, opts Options) (Encoder, error) {
	switch f {
	case FormatJPEG:
		return NewJPEG(opts.JPEGQuality)
	case FormatPNG:
		return NewPNG(opts.PNGCompression)
	default:
		return nil, fmt.Errorf("unsupported output format: %s", f)
	}
}
