package patch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/romkit/internal/format"
	"github.com/joshuapare/romkit/rom"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/tx"
)

// ErrMalformed indicates a patch that cannot be parsed or that addresses
// bytes outside what its format can describe.
var ErrMalformed = errors.New("patch: malformed patch")

// Record is one write described by a patch.
type Record struct {
	Offset int
	Data   []byte
	Kind   alloc.Kind
	// Len is the length a text patch declares for the record. Zero means
	// len(Data).
	Len int
}

// End returns the offset one past the written bytes.
func (r Record) End() int { return r.Offset + len(r.Data) }

// Span returns the range the record claims: the declared length when the
// patch carries one, the data length otherwise.
func (r Record) Span() (start, end int) {
	if r.Len > 0 {
		return r.Offset, r.Offset + r.Len
	}
	return r.Offset, r.End()
}

// Apply writes every record to r in one transaction. On error r is left
// unchanged.
func Apply(ctx context.Context, r *rom.ROM, records []Record) error {
	return tx.Do[rom.Snapshot](ctx, r, func() error {
		for i, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.Seek(rec.Offset); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			if _, err := r.Write(rec.Data, rec.Kind); err != nil {
				return fmt.Errorf("record %d at 0x%06X: %w", i, rec.Offset, err)
			}
		}
		return nil
	})
}

// Mark replays only the allocator side of records: the span of each used
// record is marked used and nothing is written. Free records are skipped, since a mark-only
// replay runs against an allocator that already describes the free space.
func Mark(space *alloc.FreeSpace, records []Record) {
	for _, rec := range records {
		if rec.Kind == alloc.MarkUsed {
			start, end := rec.Span()
			space.Mark(start, end, alloc.MarkUsed)
		}
	}
}

// ApplyText parses a text patch from src and applies it to r.
func ApplyText(ctx context.Context, r *rom.ROM, src io.Reader) error {
	records, err := ReadText(src)
	if err != nil {
		return err
	}
	return Apply(ctx, r, records)
}

// ApplyIPS parses an IPS patch from src and applies it to r.
func ApplyIPS(ctx context.Context, r *rom.ROM, src io.Reader) error {
	records, err := ReadIPS(src)
	if err != nil {
		return err
	}
	return Apply(ctx, r, records)
}

// MarkText marks the ranges written by a text patch as used.
func MarkText(space *alloc.FreeSpace, src io.Reader) error {
	records, err := ReadText(src)
	if err != nil {
		return err
	}
	Mark(space, records)
	return nil
}

// MarkIPS marks the ranges written by an IPS patch as used, skipping
// zero-fill padding.
func MarkIPS(space *alloc.FreeSpace, src io.Reader) error {
	records, err := ReadIPS(src)
	if err != nil {
		return err
	}
	Mark(space, records)
	return nil
}

// ReadFile parses the patch at path, choosing the format from its
// contents: IPS when it starts with "PATCH", text otherwise.
func ReadFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []Record
	if IsIPS(data) {
		records, err = ReadIPS(bytes.NewReader(data))
	} else {
		records, err = ReadText(bytes.NewReader(data))
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// IsIPS reports whether data starts with the IPS magic.
func IsIPS(data []byte) bool {
	return bytes.HasPrefix(data, []byte(format.IPSMagic))
}
