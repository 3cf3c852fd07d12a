package addr

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/buf"
)

// Record returns the index-th fixed-size record of a table. The returned
// slice aliases data.
func Record(data []byte, index, size int) ([]byte, error) {
	rec, ok := buf.Slice(data, index*size, size)
	if !ok || index < 0 {
		return nil, fmt.Errorf("record %d of size %d: %w", index, size, ErrBounds)
	}
	return rec, nil
}

// SetRecord overwrites the index-th fixed-size record of a table.
func SetRecord(data []byte, rec []byte, index, size int) error {
	if len(rec) != size {
		return fmt.Errorf("record is %d bytes, want %d: %w", len(rec), size, ErrBounds)
	}
	dst, err := Record(data, index, size)
	if err != nil {
		return err
	}
	copy(dst, rec)
	return nil
}
