// Package webptest builds small WebP files for tests.
//
// Lossless encodes images as a VP8L bitstream with no transforms, no color
// cache and one "simple" prefix code per channel. A simple code holds at
// most two symbols, so every channel of the input may take at most two
// distinct values across the whole image. Native has no such limit and goes
// through a full lossless encoder.
package webptest

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/HugoSmits86/nativewebp"
)

const vp8lSignature = 0x2f

type bitWriter struct {
	buf   []byte
	acc   uint64
	nBits uint
}

func (w *bitWriter) write(v uint32, n uint) {
	w.acc |= uint64(v) << w.nBits
	w.nBits += n
	for w.nBits >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.nBits -= 8
	}
}

func (w *bitWriter) bytes() []byte {
	if w.nBits > 0 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc, w.nBits = 0, 0
	}
	return w.buf
}

// channelCode is a simple prefix code over at most two symbols. The smaller
// symbol always gets code 0.
type channelCode []uint32

func newChannelCode(values map[uint32]bool) (channelCode, error) {
	if len(values) == 0 || len(values) > 2 {
		return nil, fmt.Errorf("channel has %d distinct values, need 1 or 2", len(values))
	}
	c := make(channelCode, 0, 2)
	for v := range values {
		c = append(c, v)
	}
	sort.Slice(c, func(i, j int) bool { return c[i] < c[j] })
	return c, nil
}

func (c channelCode) writeHeader(w *bitWriter) {
	w.write(1, 1) // simple code
	w.write(uint32(len(c)-1), 1)
	w.write(1, 1) // first symbol uses 8 bits
	w.write(c[0], 8)
	if len(c) == 2 {
		w.write(c[1], 8)
	}
}

func (c channelCode) writeSymbol(w *bitWriter, v uint32) {
	if len(c) == 1 {
		return
	}
	if v == c[1] {
		w.write(1, 1)
	} else {
		w.write(0, 1)
	}
}

// Lossless encodes img as a lossless WebP file.
func Lossless(img *image.NRGBA) ([]byte, error) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width < 1 || height < 1 || width > 1<<14 || height > 1<<14 {
		return nil, fmt.Errorf("unsupported dimensions %dx%d", width, height)
	}

	// VP8L decodes channels in the order green, red, blue, alpha.
	order := [4]int{1, 0, 2, 3}
	var seen [4]map[uint32]bool
	for i := range seen {
		seen[i] = make(map[uint32]bool)
	}
	alphaUsed := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			px := [4]uint8{c.R, c.G, c.B, c.A}
			for i, ch := range order {
				seen[i][uint32(px[ch])] = true
			}
			if c.A != 0xff {
				alphaUsed = true
			}
		}
	}

	var codes [4]channelCode
	for i := range codes {
		c, err := newChannelCode(seen[i])
		if err != nil {
			return nil, err
		}
		codes[i] = c
	}

	w := &bitWriter{}
	w.write(uint32(width-1), 14)
	w.write(uint32(height-1), 14)
	if alphaUsed {
		w.write(1, 1)
	} else {
		w.write(0, 1)
	}
	w.write(0, 3) // version
	w.write(0, 1) // no transform
	w.write(0, 1) // no color cache
	w.write(0, 1) // no meta prefix codes

	for _, c := range codes {
		c.writeHeader(w)
	}
	// distance code, never used by literal-only streams
	channelCode{0}.writeHeader(w)

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			px := [4]uint8{c.R, c.G, c.B, c.A}
			for i, ch := range order {
				codes[i].writeSymbol(w, uint32(px[ch]))
			}
		}
	}

	payload := append([]byte{vp8lSignature}, w.bytes()...)
	return wrapRIFF("VP8L", payload), nil
}

func wrapRIFF(fourCC string, payload []byte) []byte {
	padded := len(payload) + len(payload)&1
	out := make([]byte, 0, 20+padded)
	out = append(out, "RIFF"...)
	out = binary.LittleEndian.AppendUint32(out, uint32(4+8+padded))
	out = append(out, "WEBP"...)
	out = append(out, fourCC...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
	out = append(out, payload...)
	if len(payload)&1 == 1 {
		out = append(out, 0)
	}
	return out
}

// Extended returns a RIFF file holding only a VP8X chunk with the given
// feature flags and canvas size. The result carries no image data.
func Extended(flags uint32, width, height int) []byte {
	payload := make([]byte, 10)
	binary.LittleEndian.PutUint32(payload[0:4], flags)
	putUint24(payload[4:7], uint32(width-1))
	putUint24(payload[7:10], uint32(height-1))
	return wrapRIFF("VP8X", payload)
}

func putUint24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}

// Pattern returns a w x h image alternating two colors in a checkerboard.
func Pattern(w, h int, a, b color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, a)
			} else {
				img.SetNRGBA(x, y, b)
			}
		}
	}
	return img
}

// WriteFile encodes img with Lossless and writes it to dir/name.
func WriteFile(t testing.TB, dir, name string, img *image.NRGBA) string {
	t.Helper()
	data, err := Lossless(img)
	if err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Native encodes img as lossless WebP with nativewebp.
func Native(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Gradient returns an opaque w x h image with many distinct colors in every
// channel.
func Gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x*7 + y*13) % 256),
				A: 255,
			})
		}
	}
	return img
}
