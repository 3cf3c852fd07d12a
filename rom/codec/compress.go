package codec

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/format"
)

// Compress encodes src in Narrow mode.
func Compress(src []byte) ([]byte, error) {
	return CompressMode(src, Narrow)
}

// CompressBest encodes src in both modes and returns the shorter stream,
// preferring Narrow when they are the same length.
func CompressBest(src []byte) ([]byte, Mode, error) {
	narrow, err := CompressMode(src, Narrow)
	if err != nil {
		return nil, Narrow, err
	}
	wide, err := CompressMode(src, Wide)
	if err != nil {
		return nil, Narrow, err
	}
	if len(wide) < len(narrow) {
		return wide, Wide, nil
	}
	return narrow, Narrow, nil
}

// CompressMode encodes src with a greedy longest-match search in the given
// mode. The output is byte-for-byte what the game's own tools produce.
func CompressMode(src []byte, mode Mode) ([]byte, error) {
	p, err := mode.params()
	if err != nil {
		return nil, err
	}
	if len(src) > format.CodecWindowLimit {
		return nil, fmt.Errorf("input 0x%X bytes exceeds 0x%X: %w", len(src), format.CodecWindowLimit, ErrTooLarge)
	}

	e := encoder{src: src, p: p, out: make([]byte, format.CodecLengthSize, len(src)+len(src)/8+8)}
	out := e.encode()
	if len(out) > 0xFFFF {
		return nil, fmt.Errorf("output 0x%X bytes: %w", len(out), ErrTooLarge)
	}
	return out, nil
}

type encoder struct {
	src []byte
	p   params
	out []byte
	pos int // next source byte
}

func (e *encoder) encode() []byte {
	for {
		header := len(e.out)
		e.out = append(e.out, 0)

		for bit := 0; bit < format.CodecItemsPerPacket; bit++ {
			if e.pos == len(e.src) {
				return e.finish(header, bit)
			}

			dist, n := e.longestMatch()
			if n >= format.CodecMinMatch {
				e.out[header] |= 1 << bit
				ref := dist | uint16(n-format.CodecMinMatch)<<e.p.shift
				e.out = append(e.out, byte(ref), byte(ref>>8))
				e.pos += n
				continue
			}
			e.out = append(e.out, e.src[e.pos])
			e.pos++
		}
	}
}

// finish terminates the stream once the source is exhausted at item bit of
// the packet whose header is at header.
func (e *encoder) finish(header, bit int) []byte {
	format.PutU16(e.out, 0, uint16(header-format.CodecLengthSize))

	if bit == 0 {
		// Ended on a packet boundary: the empty header becomes the terminal.
		e.out[header] = e.p.flag
		return e.out
	}

	// Ended mid-packet: the partial packet becomes the addendum. Unused
	// header bits are set, the packet moves three bytes later to make room
	// for the addendum header, and a terminal byte follows it.
	e.out[header] |= byte(0xFF << bit)
	end := len(e.out) + format.CodecAddendumHeaderSize

	e.out = append(e.out, 0, 0, 0)
	copy(e.out[header+format.CodecAddendumHeaderSize:], e.out[header:end-format.CodecAddendumHeaderSize])
	e.out[header] = e.p.flag | byte(bit)
	format.PutU16(e.out, header+1, uint16(end))
	return append(e.out, e.p.flag)
}

// longestMatch returns the distance and length of the longest earlier run
// matching the source at pos. Later starts win ties, except that the scan
// stops at the first run of the maximum length.
func (e *encoder) longestMatch() (uint16, int) {
	src, pos := e.src, e.pos
	lo := max(0, pos-int(e.p.distMask))
	limit := min(e.p.maxLen, len(src)-pos)

	best, bestStart := 0, 0
	for start := lo; start < pos; start++ {
		n := 0
		for n < limit && src[start+n] == src[pos+n] {
			n++
		}
		if n >= best {
			best, bestStart = n, start
			if n == e.p.maxLen {
				break
			}
		}
	}
	return uint16(pos - bestStart), best
}
