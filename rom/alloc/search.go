package alloc

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/samber/lo"

	"github.com/joshuapare/romkit/internal/format"
	"github.com/joshuapare/romkit/rom/tx"
)

// FindFree returns the lowest offset at or after hint where size free bytes
// lie inside one bank. The allocator is not modified; callers mark the range
// once they write to it.
func (fs *FreeSpace) FindFree(size, hint int) (int, error) {
	if size <= 0 || size > format.BankSize {
		return 0, fmt.Errorf("size 0x%X: %w", size, ErrBadRange)
	}
	if hint < 0 {
		return 0, fmt.Errorf("hint %d: %w", hint, ErrBadRange)
	}

	for i := fs.index(hint); i < len(fs.markers)-1; i++ {
		if !fs.freeAt(i) {
			continue
		}
		start := max(fs.markers[i], hint)
		stop := fs.markers[i+1]

		// Walk the interval one bank at a time; a placement may begin
		// anywhere in the first bank but only at a bank start after that.
		for start < stop {
			bankEnd := min(stop, format.NextBankStart(start))
			if bankEnd-start >= size {
				return start, nil
			}
			start = bankEnd
		}
	}

	return 0, fmt.Errorf("size 0x%X, hint %s: %w", size, hex(hint), ErrNoSpace)
}

// FindSameBankFree finds a free range for each of sizes such that every
// range lies in the same bank, searching from hint. Offsets are returned in
// the order of sizes.
//
// The largest size is placed first (the later one among equal sizes); the
// remaining sizes are placed greedily in its bank. When one does not fit
// there, the search restarts at the next bank. Candidates are marked used while searching so they cannot overlap,
// and the allocator is always restored before returning, error or not.
func (fs *FreeSpace) FindSameBankFree(sizes []int, hint int) ([]int, error) {
	if len(sizes) == 0 {
		return nil, nil
	}
	for _, size := range sizes {
		if size <= 0 || size > format.BankSize {
			return nil, fmt.Errorf("size 0x%X: %w", size, ErrBadRange)
		}
	}

	order := lo.Range(len(sizes))
	// Largest first; equal sizes go later index first.
	slices.SortFunc(order, func(a, b int) int {
		return cmp.Or(cmp.Compare(sizes[b], sizes[a]), cmp.Compare(b, a))
	})
	sorted := lo.Map(order, func(idx int, _ int) int { return sizes[idx] })

	if total := lo.Sum(sorted); total > format.BankSize {
		return nil, fmt.Errorf("sizes total 0x%X exceed one bank: %w", total, ErrNoSpace)
	}

	var placed []int
	err := tx.Speculate[Snapshot](fs, func() error {
		start := hint
		for start < fs.Size() {
			offs, next, err := fs.placeInOneBank(sorted, start)
			if err != nil {
				return err
			}
			if offs != nil {
				placed = offs
				return nil
			}
			start = next
		}
		return fmt.Errorf("same-bank sizes %v from %s: %w", sizes, hex(hint), ErrNoSpace)
	})
	if err != nil {
		return nil, err
	}

	out := make([]int, len(sizes))
	for k, idx := range order {
		out[idx] = placed[k]
	}
	return out, nil
}

// placeInOneBank tries one bank: the first (largest) size is placed at or
// after start and fixes the bank. It returns the offsets on success, or the
// offset to retry from when a later size landed outside that bank.
// Placements are left marked used; the caller restores the allocator.
func (fs *FreeSpace) placeInOneBank(sorted []int, start int) ([]int, int, error) {
	first, err := fs.FindFree(sorted[0], start)
	if err != nil {
		return nil, 0, err
	}
	fs.mark(first, first+sorted[0], false)

	bank := format.BankStart(first)
	offs := make([]int, 1, len(sorted))
	offs[0] = first

	for _, size := range sorted[1:] {
		off, err := fs.FindFree(size, bank)
		if err != nil {
			if errors.Is(err, ErrNoSpace) {
				return nil, 0, fmt.Errorf("same-bank search from %s: %w", hex(start), err)
			}
			return nil, 0, err
		}
		if format.BankStart(off) != bank {
			return nil, max(format.NextBankStart(first), format.BankStart(off)), nil
		}
		fs.mark(off, off+size, false)
		offs = append(offs, off)
	}
	return offs, 0, nil
}
