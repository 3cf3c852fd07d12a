package addr

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/romkit/internal/buf"
)

// ByteOrder selects how a multi-byte field is assembled into an integer.
type ByteOrder int

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

// maxFieldBytes is the widest field that fits in a uint64.
const maxFieldBytes = 8

// MinimalShift returns the index of the lowest set bit of mask.
func MinimalShift(mask uint64) (int, error) {
	if mask == 0 {
		return 0, fmt.Errorf("mask must be nonzero: %w", ErrBadMask)
	}
	return bits.TrailingZeros64(mask), nil
}

// GetMasked reads data[start:start+length] as an integer in the given byte
// order and returns the bits selected by mask, shifted down to bit 0.
func GetMasked(data []byte, start, length int, mask uint64, order ByteOrder) (uint64, error) {
	field, err := fieldSlice(data, start, length)
	if err != nil {
		return 0, err
	}
	shift, err := checkMask(mask, length)
	if err != nil {
		return 0, err
	}
	return (readField(field, order) & mask) >> shift, nil
}

// SetMasked writes val into the bits of data[start:start+length] selected by
// mask, leaving every other bit untouched. It is the dual of GetMasked.
// Values wider than the mask are rejected, never truncated.
func SetMasked(data []byte, start, length int, mask, val uint64, order ByteOrder) error {
	field, err := fieldSlice(data, start, length)
	if err != nil {
		return err
	}
	shift, err := checkMask(mask, length)
	if err != nil {
		return err
	}
	if maxVal := mask >> shift; val > maxVal {
		return fmt.Errorf("value 0x%X exceeds 0x%X: %w", val, maxVal, ErrValueRange)
	}

	cur := readField(field, order)
	cur = (cur &^ mask) | (val << shift)
	writeField(field, cur, order)
	return nil
}

func fieldSlice(data []byte, start, length int) ([]byte, error) {
	if length <= 0 || length > maxFieldBytes {
		return nil, fmt.Errorf("field length %d: %w", length, ErrBounds)
	}
	field, ok := buf.Slice(data, start, length)
	if !ok {
		return nil, fmt.Errorf("field [0x%X, +%d) of 0x%X bytes: %w", start, length, len(data), ErrBounds)
	}
	return field, nil
}

// checkMask validates mask against a field of length bytes and returns its shift.
func checkMask(mask uint64, length int) (int, error) {
	shift, err := MinimalShift(mask)
	if err != nil {
		return 0, err
	}
	if length < maxFieldBytes && mask>>(8*length) != 0 {
		return 0, fmt.Errorf("mask 0x%X wider than %d bytes: %w", mask, length, ErrBadMask)
	}
	if run := mask >> shift; run&(run+1) != 0 {
		return 0, fmt.Errorf("mask 0x%X is not contiguous: %w", mask, ErrBadMask)
	}
	return shift, nil
}

func readField(field []byte, order ByteOrder) uint64 {
	var v uint64
	if order == BigEndian {
		for _, b := range field {
			v = v<<8 | uint64(b)
		}
		return v
	}
	for i := len(field) - 1; i >= 0; i-- {
		v = v<<8 | uint64(field[i])
	}
	return v
}

func writeField(field []byte, v uint64, order ByteOrder) {
	n := len(field)
	for i := range n {
		b := byte(v >> (8 * i))
		if order == BigEndian {
			field[n-1-i] = b
		} else {
			field[i] = b
		}
	}
}
