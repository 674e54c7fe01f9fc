// Package convert runs the WebP decode and re-encode pipeline over single
// files and over directories.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/roboco-io/webpconv/internal/decoder"
	"github.com/roboco-io/webpconv/internal/encoder"
)

// Stage names a step of the per-file pipeline.
type Stage string

const (
	StageRead   Stage = "read"
	StageDecode Stage = "decode"
	StageResize Stage = "resize"
	StageEncode Stage = "encode"
	StageWrite  Stage = "write"
)

// ErrOutputName is returned when the destination's extension does not name
// the encoder's format.
var ErrOutputName = errors.New("output file name does not match the output format")

// FileError is a failure converting one file. It never aborts a batch.
type FileError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Options configures a Converter.
type Options struct {
	Decoder   decoder.Decoder
	Encoder   encoder.Encoder
	MaxWidth  int // 0 means unbounded
	MaxHeight int // 0 means unbounded
}

// Converter converts WebP files to the encoder's format.
type Converter struct {
	dec       decoder.Decoder
	enc       encoder.Encoder
	maxWidth  int
	maxHeight int
}

// New creates a converter.
func New(opts Options) (*Converter, error) {
	if opts.Decoder == nil {
		return nil, fmt.Errorf("decoder is required")
	}
	if opts.Encoder == nil {
		return nil, fmt.Errorf("encoder is required")
	}
	if opts.MaxWidth < 0 || opts.MaxHeight < 0 {
		return nil, fmt.Errorf("resize bounds must not be negative")
	}
	return &Converter{
		dec:       opts.Decoder,
		enc:       opts.Encoder,
		maxWidth:  opts.MaxWidth,
		maxHeight: opts.MaxHeight,
	}, nil
}

// Format returns the output format.
func (c *Converter) Format() encoder.Format {
	return c.enc.Format()
}

// ConvertFile reads src fully, decodes it and writes the re-encoded image to
// dst. dst only appears once it has been written completely; on failure no
// output file is left behind. An existing dst is replaced.
func (c *Converter) ConvertFile(src, dst string) error {
	if f := encoder.DetectFormat(dst); f != c.Format() {
		return &FileError{Stage: StageWrite, Path: dst, Err: fmt.Errorf("%w: want %s", ErrOutputName, c.Format().Extension())}
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return &FileError{Stage: StageRead, Path: src, Err: err}
	}

	r, err := decoder.Decode(c.dec, data)
	if err != nil {
		return &FileError{Stage: StageDecode, Path: src, Err: err}
	}

	if c.maxWidth > 0 || c.maxHeight > 0 {
		r, err = r.Fit(c.maxWidth, c.maxHeight)
		if err != nil {
			return &FileError{Stage: StageResize, Path: src, Err: err}
		}
	}

	err = writeAtomic(dst, func(w io.Writer) error {
		if err := c.enc.Encode(w, r); err != nil {
			return &FileError{Stage: StageEncode, Path: dst, Err: err}
		}
		return nil
	})
	if err != nil {
		var fe *FileError
		if errors.As(err, &fe) {
			return fe
		}
		return &FileError{Stage: StageWrite, Path: dst, Err: err}
	}
	return nil
}
