package addr

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/internal/format"
)

// ReadPointer reads an n-byte little-endian bus pointer stored at off and
// returns the file offset it refers to.
func ReadPointer(data []byte, off, n int) (uint32, error) {
	ptr, err := readRaw(data, off, n)
	if err != nil {
		return 0, err
	}
	return ToFileOffset(ptr)
}

// WritePointer stores the bus pointer for fileOff as an n-byte little-endian
// value at off. Narrower slots keep the low bytes (bank-relative pointers).
func WritePointer(data []byte, off, n int, fileOff uint32) error {
	ptr, err := ToDevicePointer(fileOff)
	if err != nil {
		return err
	}
	slot, err := pointerSlot(data, off, n)
	if err != nil {
		return err
	}
	if n == format.PointerSize {
		format.PutU24(slot, 0, ptr)
		return nil
	}
	for i := range slot {
		slot[i] = byte(ptr >> (8 * i))
	}
	return nil
}

// UpdatePointers repoints every long (3-byte) pointer stored at the given slots.
// Each pointer keeps its distance from the block start: a pointer to
// oldStart+d becomes a pointer to newStart+d.
func UpdatePointers(data []byte, slots []int, oldStart, newStart int) error {
	for _, slot := range slots {
		target, err := ReadPointer(data, slot, format.PointerSize)
		if err != nil {
			return fmt.Errorf("slot 0x%06X: %w", slot, err)
		}
		moved := newStart + int(target) - oldStart
		if moved < 0 {
			return fmt.Errorf("slot 0x%06X: repointed offset %d: %w", slot, moved, ErrDomain)
		}
		if err := WritePointer(data, slot, format.PointerSize, uint32(moved)); err != nil {
			return fmt.Errorf("slot 0x%06X: %w", slot, err)
		}
	}
	return nil
}

// ChangePointers writes the pointer for start+offsets[i] into slots[i], using
// n bytes per slot.
func ChangePointers(data []byte, slots []int, start int, offsets []int, n int) error {
	if len(slots) != len(offsets) {
		return fmt.Errorf("%d slots but %d offsets: %w", len(slots), len(offsets), ErrBounds)
	}
	for i, slot := range slots {
		target := start + offsets[i]
		if target < 0 {
			return fmt.Errorf("slot 0x%06X: offset %d: %w", slot, target, ErrDomain)
		}
		if err := WritePointer(data, slot, n, uint32(target)); err != nil {
			return fmt.Errorf("slot 0x%06X: %w", slot, err)
		}
	}
	return nil
}

func pointerSlot(data []byte, off, n int) ([]byte, error) {
	if n < 1 || n > 4 {
		return nil, fmt.Errorf("pointer width %d: %w", n, ErrBounds)
	}
	slot, ok := buf.Slice(data, off, n)
	if !ok {
		return nil, fmt.Errorf("pointer [0x%X, +%d): %w", off, n, ErrBounds)
	}
	return slot, nil
}

func readRaw(data []byte, off, n int) (uint32, error) {
	slot, err := pointerSlot(data, off, n)
	if err != nil {
		return 0, err
	}
	if n == format.PointerSize {
		return format.ReadU24(slot, 0), nil
	}
	var v uint32
	for i := len(slot) - 1; i >= 0; i-- {
		v = v<<8 | uint32(slot[i])
	}
	return v, nil
}
