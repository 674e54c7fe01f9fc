// Package raster defines the decoded pixel buffer passed from a WebP decoder
// to a JPEG or PNG encoder.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
)

// BytesPerPixel is the size of one straight-alpha RGBA pixel.
const BytesPerPixel = 4

// Raster is a width x height grid of straight (non-premultiplied) RGBA
// pixels in row-major order. len(Pix) == Width*Height*BytesPerPixel.
type Raster struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed raster.
func New(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]byte, width*height*BytesPerPixel),
	}
}

// FromImage converts a decoded image into a raster. *image.NRGBA input is
// copied row by row. Y'CbCr input, as produced by lossy WebP, is converted
// per pixel with alpha copied unchanged. Any other image type is drawn onto
// an NRGBA canvas.
func FromImage(img image.Image) (*Raster, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("empty image bounds %v", b)
	}

	var src *image.NRGBA
	switch m := img.(type) {
	case *image.NRGBA:
		src = m
	case *image.YCbCr:
		return fromYCbCr(m, nil), nil
	case *image.NYCbCrA:
		return fromYCbCr(&m.YCbCr, m), nil
	default:
		src = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(src, src.Bounds(), img, b.Min, draw.Src)
		b = src.Bounds()
	}

	r := New(b.Dx(), b.Dy())
	rowLen := r.Width * BytesPerPixel
	for y := 0; y < r.Height; y++ {
		off := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(r.Pix[y*rowLen:(y+1)*rowLen], src.Pix[off:off+rowLen])
	}
	return r, nil
}

// fromYCbCr converts without going through premultiplied color. alpha may be
// nil for opaque images.
func fromYCbCr(m *image.YCbCr, alpha *image.NYCbCrA) *Raster {
	b := m.Rect
	r := New(b.Dx(), b.Dy())
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			yi, ci := m.YOffset(x, y), m.COffset(x, y)
			r.Pix[i], r.Pix[i+1], r.Pix[i+2] = color.YCbCrToRGB(m.Y[yi], m.Cb[ci], m.Cr[ci])
			r.Pix[i+3] = 0xff
			if alpha != nil {
				r.Pix[i+3] = alpha.A[alpha.AOffset(x, y)]
			}
			i += BytesPerPixel
		}
	}
	return r
}

// Validate checks the pixel buffer against the dimensions.
func (r *Raster) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("invalid raster dimensions %dx%d", r.Width, r.Height)
	}
	if want := r.Width * r.Height * BytesPerPixel; len(r.Pix) != want {
		return fmt.Errorf("raster buffer is %d bytes, want %d", len(r.Pix), want)
	}
	return nil
}

// Row returns the RGBA bytes of scanline y.
func (r *Raster) Row(y int) []byte {
	rowLen := r.Width * BytesPerPixel
	return r.Pix[y*rowLen : (y+1)*rowLen]
}

// NRGBA returns an image view sharing the raster's pixel buffer.
func (r *Raster) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * BytesPerPixel,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// Opaque returns a copy of the raster with the alpha channel dropped: RGB
// values are copied unchanged and every pixel is fully opaque. The
// destination is allocated once and filled top to bottom.
func (r *Raster) Opaque() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	for y := 0; y < r.Height; y++ {
		DropAlpha(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], r.Row(y))
	}
	return dst
}

// DropAlpha copies the RGB channels of an RGBA scanline into dst, which must
// hold the same number of pixels, and forces dst's alpha to 0xff.
func DropAlpha(dst, src []byte) {
	for i := 0; i+3 < len(src); i += BytesPerPixel {
		dst[i+0] = src[i+0]
		dst[i+1] = src[i+1]
		dst[i+2] = src[i+2]
		dst[i+3] = 0xff
	}
}

// Fit downscales the raster so it fits within maxWidth x maxHeight while
// keeping its aspect ratio. A zero bound means unbounded on that axis. The
// receiver is returned unchanged when it already fits.
func (r *Raster) Fit(maxWidth, maxHeight int) (*Raster, error) {
	if maxWidth < 0 || maxHeight < 0 {
		return nil, fmt.Errorf("negative resize bound %dx%d", maxWidth, maxHeight)
	}
	if (maxWidth == 0 || r.Width <= maxWidth) && (maxHeight == 0 || r.Height <= maxHeight) {
		return r, nil
	}
	w, h := maxWidth, maxHeight
	if w == 0 {
		w = r.Width
	}
	if h == 0 {
		h = r.Height
	}
	return FromImage(resize.Thumbnail(uint(w), uint(h), r.NRGBA(), resize.Lanczos3))
}
