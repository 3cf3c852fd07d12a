package codec

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/internal/format"
)

// Decompress decodes the stream beginning at buf[start].
func Decompress(buf []byte, start int) ([]byte, error) {
	d := decoder{buf: buf, start: start}
	return d.decode()
}

type decoder struct {
	buf   []byte
	start int
	src   int
	end   int
	out   []byte
}

func (d *decoder) decode() ([]byte, error) {
	mainLen, err := d.u16(d.start)
	if err != nil {
		return nil, err
	}
	d.src = d.start + format.CodecLengthSize
	d.end = d.src + mainLen

	tail, err := d.byteAt(d.end)
	if err != nil {
		return nil, err
	}
	p, err := modeOf(tail).params()
	if err != nil {
		return nil, err
	}
	d.out = make([]byte, 0, format.CodecWindowLimit)

	for {
		if d.src == d.end {
			more, err := d.addendum()
			if err != nil {
				return nil, err
			}
			if !more {
				return d.out, nil
			}
		}
		if err := d.packet(p); err != nil {
			return nil, err
		}
	}
}

// addendum handles the byte at the current end. It reports whether another
// packet follows and, if so, moves the end past it.
func (d *decoder) addendum() (bool, error) {
	b, err := d.byteAt(d.src)
	if err != nil {
		return false, err
	}
	if b&format.CodecAddendumCountMask == 0 {
		return false, nil
	}

	rel, err := d.u16(d.src + 1)
	if err != nil {
		return false, err
	}
	d.src += format.CodecAddendumHeaderSize
	d.end = d.start + rel
	if d.end <= d.src {
		return false, fmt.Errorf("addendum end 0x%X before 0x%X: %w", d.end, d.src, ErrCorrupt)
	}
	return true, nil
}

func (d *decoder) packet(p params) error {
	header, err := d.byteAt(d.src)
	if err != nil {
		return err
	}
	d.src++

	for bit := 0; bit < format.CodecItemsPerPacket; bit++ {
		if d.src == d.end {
			return nil
		}

		if header&(1<<bit) == 0 {
			b, err := d.byteAt(d.src)
			if err != nil {
				return err
			}
			if err := d.grow(1); err != nil {
				return err
			}
			d.out = append(d.out, b)
			d.src++
			continue
		}

		ref, err := d.u16(d.src)
		if err != nil {
			return err
		}
		d.src += 2
		if d.src > d.end {
			return fmt.Errorf("reference at 0x%X crosses end 0x%X: %w", d.src-2, d.end, ErrCorrupt)
		}
		if err := d.copyBack(ref&int(p.distMask), ref>>p.shift+format.CodecMinMatch); err != nil {
			return err
		}
	}
	return nil
}

// copyBack appends n bytes copied one at a time from dist bytes back, so a
// distance shorter than n repeats the tail. Distance zero reads the zeroed
// scratch buffer, as the hardware decoder does.
func (d *decoder) copyBack(dist, n int) error {
	pos := len(d.out)
	if dist > pos {
		return fmt.Errorf("distance 0x%X at output 0x%X: %w", dist, pos, ErrCorrupt)
	}
	if err := d.grow(n); err != nil {
		return err
	}
	d.out = d.out[:pos+n]
	for j := 0; j < n; j++ {
		if dist == 0 {
			d.out[pos+j] = 0
			continue
		}
		d.out[pos+j] = d.out[pos-dist+j]
	}
	return nil
}

func (d *decoder) grow(n int) error {
	if len(d.out)+n > format.CodecWindowLimit {
		return fmt.Errorf("output exceeds 0x%X bytes: %w", format.CodecWindowLimit, ErrCorrupt)
	}
	return nil
}

func (d *decoder) byteAt(off int) (byte, error) {
	if !buf.Has(d.buf, off, 1) {
		return 0, fmt.Errorf("read at 0x%X past 0x%X: %w", off, len(d.buf), ErrCorrupt)
	}
	return d.buf[off], nil
}

func (d *decoder) u16(off int) (int, error) {
	if !buf.Has(d.buf, off, format.CodecLengthSize) {
		return 0, fmt.Errorf("read at 0x%X past 0x%X: %w", off, len(d.buf), ErrCorrupt)
	}
	return int(format.ReadU16(d.buf, off)), nil
}

// CompressedLength returns the size in bytes of the stream beginning at
// buf[start], including the length field and the terminal byte, without
// decoding it.
func CompressedLength(buf []byte, start int) (int, error) {
	d := decoder{buf: buf, start: start}
	mainLen, err := d.u16(start)
	if err != nil {
		return 0, err
	}

	n := format.CodecLengthSize + mainLen
	for {
		b, err := d.byteAt(start + n)
		if err != nil {
			return 0, err
		}
		if b&format.CodecAddendumCountMask == 0 {
			return n + 1, nil
		}
		next, err := d.u16(start + n + 1)
		if err != nil {
			return 0, err
		}
		if next <= n+format.CodecAddendumHeaderSize {
			return 0, fmt.Errorf("addendum end 0x%X at 0x%X: %w", next, n, ErrCorrupt)
		}
		n = next
	}
}

// Packet returns a copy of the whole stream beginning at buf[start].
func Packet(buf []byte, start int) ([]byte, error) {
	n, err := CompressedLength(buf, start)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, buf[start:start+n])
	return out, nil
}
