package dirty

import (
	"cmp"
	"slices"

	"github.com/samber/lo"
)

// defaultRangeCapacity is the pre-allocated capacity for raw ranges.
const defaultRangeCapacity = 64

// Range is a written byte range in file offsets.
type Range struct {
	Off int // Absolute offset in the buffer
	Len int // Length in bytes
}

// End returns the offset one past the range.
func (r Range) End() int { return r.Off + r.Len }

// Tracker accumulates written ranges.
type Tracker struct {
	ranges []Range
}

// Snapshot is a saved copy of tracker state.
type Snapshot struct {
	ranges []Range
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ranges: make([]Range, 0, defaultRangeCapacity)}
}

// Add records a written range. Empty and negative lengths are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 || off < 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Empty reports whether nothing has been recorded.
func (t *Tracker) Empty() bool {
	return len(t.ranges) == 0
}

// Reset clears all tracked ranges.
func (t *Tracker) Reset() {
	t.ranges = t.ranges[:0]
}

// Raw returns a copy of the uncoalesced ranges in insertion order.
func (t *Tracker) Raw() []Range {
	return slices.Clone(t.ranges)
}

// Ranges returns the recorded ranges sorted by offset, with overlapping and
// adjacent ranges merged.
func (t *Tracker) Ranges() []Range {
	return coalesce(t.ranges)
}

// Bytes returns the number of distinct bytes written.
func (t *Tracker) Bytes() int {
	return lo.SumBy(t.Ranges(), func(r Range) int { return r.Len })
}

// Snapshot captures the tracker state for a later Restore.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{ranges: slices.Clone(t.ranges)}
}

// Restore returns the tracker to the state captured by s.
func (t *Tracker) Restore(s Snapshot) {
	t.ranges = append(t.ranges[:0], s.ranges...)
}

func coalesce(ranges []Range) []Range {
	if len(ranges) == 0 {
		return nil
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int {
		return cmp.Compare(a.Off, b.Off)
	})

	merged := make([]Range, 0, len(sorted))
	current := sorted[0]
	for _, next := range sorted[1:] {
		if next.Off <= current.End() {
			current.Len = max(current.End(), next.End()) - current.Off
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}
