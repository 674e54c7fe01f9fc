package decoder

import (
	"encoding/binary"
	"fmt"
)

// Kind is the bitstream flavor of a WebP file.
type Kind int

const (
	KindUnknown  Kind = iota
	KindLossy         // simple VP8
	KindLossless      // simple VP8L
	KindExtended      // VP8X container
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLossy:
		return "lossy"
	case KindLossless:
		return "lossless"
	case KindExtended:
		return "extended"
	default:
		return "unknown"
	}
}

// MarshalText lets Kind serialize by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// VP8X feature flags.
const (
	flagAnimation uint32 = 0x02
	flagXMP       uint32 = 0x04
	flagEXIF      uint32 = 0x08
	flagAlpha     uint32 = 0x10
	flagICCP      uint32 = 0x20
)

const (
	riffHeaderSize  = 12
	chunkHeaderSize = 8
	vp8lSignature   = 0x2f
)

// Info describes a WebP file from its headers alone.
type Info struct {
	Kind     Kind `json:"kind"`
	Width    int  `json:"width"`
	Height   int  `json:"height"`
	HasAlpha bool `json:"has_alpha"`
	Animated bool `json:"animated"`
	HasICCP  bool `json:"has_iccp,omitempty"`
	HasEXIF  bool `json:"has_exif,omitempty"`
	HasXMP   bool `json:"has_xmp,omitempty"`
	FileSize int  `json:"file_size"`
}

// Inspect parses the RIFF header and the first chunk of a WebP file.
func Inspect(data []byte) (*Info, error) {
	if len(data) < riffHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		return nil, ErrNotWebP
	}
	riffSize := binary.LittleEndian.Uint32(data[4:8])
	if riffSize < 4+chunkHeaderSize || uint64(riffSize)+8 > uint64(len(data)) {
		return nil, fmt.Errorf("truncated RIFF container: header says %d bytes, have %d", riffSize+8, len(data))
	}
	if len(data) < riffHeaderSize+chunkHeaderSize {
		return nil, fmt.Errorf("missing first chunk")
	}

	fourCC := string(data[12:16])
	chunkSize := binary.LittleEndian.Uint32(data[16:20])
	payload := data[riffHeaderSize+chunkHeaderSize:]
	if uint64(chunkSize) > uint64(len(payload)) {
		return nil, fmt.Errorf("%s chunk is truncated", fourCC)
	}
	payload = payload[:chunkSize]

	info := &Info{FileSize: len(data)}
	switch fourCC {
	case "VP8 ":
		// frame tag (3 bytes), start code 9d 01 2a, then 14-bit dimensions
		if len(payload) < 10 || payload[3] != 0x9d || payload[4] != 0x01 || payload[5] != 0x2a {
			return nil, fmt.Errorf("invalid VP8 frame header")
		}
		info.Kind = KindLossy
		info.Width = int(binary.LittleEndian.Uint16(payload[6:8]) & 0x3fff)
		info.Height = int(binary.LittleEndian.Uint16(payload[8:10]) & 0x3fff)

	case "VP8L":
		if len(payload) < 5 || payload[0] != vp8lSignature {
			return nil, fmt.Errorf("invalid VP8L header")
		}
		bits := binary.LittleEndian.Uint32(payload[1:5])
		info.Kind = KindLossless
		info.Width = int(bits&0x3fff) + 1
		info.Height = int((bits>>14)&0x3fff) + 1
		info.HasAlpha = (bits>>28)&1 == 1

	case "VP8X":
		if len(payload) < 10 {
			return nil, fmt.Errorf("invalid VP8X header")
		}
		flags := binary.LittleEndian.Uint32(payload[0:4])
		info.Kind = KindExtended
		info.Width = int(uint24(payload[4:7])) + 1
		info.Height = int(uint24(payload[7:10])) + 1
		info.Animated = flags&flagAnimation != 0
		info.HasAlpha = flags&flagAlpha != 0
		info.HasICCP = flags&flagICCP != 0
		info.HasEXIF = flags&flagEXIF != 0
		info.HasXMP = flags&flagXMP != 0

	default:
		return nil, fmt.Errorf("unexpected first chunk %q", fourCC)
	}

	if info.Width == 0 || info.Height == 0 {
		return nil, fmt.Errorf("zero image dimensions %dx%d", info.Width, info.Height)
	}
	return info, nil
}

func uint24(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}
