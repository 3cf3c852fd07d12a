package addr

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/format"
)

// ToDevicePointer returns the bus pointer for a file offset.
func ToDevicePointer(fileOff uint32) (uint32, error) {
	switch {
	case fileOff <= format.HiROMFileEnd:
		return fileOff + format.HiROMBias, nil
	case fileOff >= format.ExtendedStart && fileOff <= format.ExtendedEnd:
		return fileOff, nil
	default:
		return 0, fmt.Errorf("file offset 0x%06X: %w", fileOff, ErrDomain)
	}
}

// ToFileOffset returns the file offset a bus pointer refers to. It is the
// exact inverse of ToDevicePointer.
func ToFileOffset(ptr uint32) (uint32, error) {
	switch {
	case ptr >= format.HiROMBusStart && ptr <= format.HiROMBusEnd:
		return ptr - format.HiROMBias, nil
	case ptr >= format.ExtendedStart && ptr <= format.ExtendedEnd:
		return ptr, nil
	default:
		return 0, fmt.Errorf("pointer 0x%06X: %w", ptr, ErrDomain)
	}
}

// BankOf returns the bank containing the file offset off.
func BankOf(off int) int {
	return format.BankOf(off)
}
