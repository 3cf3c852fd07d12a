package codec

import (
	"errors"
	"fmt"

	"github.com/joshuapare/romkit/internal/format"
)

var (
	// ErrCorrupt indicates a stream that cannot be decoded.
	ErrCorrupt = errors.New("codec: corrupt stream")

	// ErrTooLarge indicates input or output beyond the format's limits.
	ErrTooLarge = errors.New("codec: data too large")
)

// Mode selects the back-reference bit split.
type Mode uint8

const (
	// Narrow uses 11 distance bits and 5 length bits.
	Narrow Mode = iota
	// Wide uses 12 distance bits and 4 length bits.
	Wide
)

func (m Mode) String() string {
	switch m {
	case Narrow:
		return "narrow"
	case Wide:
		return "wide"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// params holds the per-mode constants.
type params struct {
	distMask uint16 // distance bits, also the lookback window
	shift    uint   // position of the length field
	maxLen   int    // longest copy a reference can encode
	flag     byte   // terminal and addendum mode bits
}

func (m Mode) params() (params, error) {
	switch m {
	case Narrow:
		return params{distMask: 0x07FF, shift: 11, maxLen: 0xF800>>11 + format.CodecMinMatch, flag: format.CodecNarrowFlag}, nil
	case Wide:
		return params{distMask: 0x0FFF, shift: 12, maxLen: 0xF000>>12 + format.CodecMinMatch, flag: format.CodecWideFlag}, nil
	default:
		return params{}, fmt.Errorf("unknown mode %d", uint8(m))
	}
}

// modeOf returns the mode announced by the byte after the main body.
func modeOf(b byte) Mode {
	if b&format.CodecWidthMask != 0 {
		return Narrow
	}
	return Wide
}
