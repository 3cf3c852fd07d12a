package alloc

import (
	"encoding/binary"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash"

	"github.com/joshuapare/romkit/internal/logger"
)

// FreeSpace is an interval allocator over the byte range [0, N).
//
// markers holds the canonical boundary list; interval i is
// [markers[i], markers[i+1]) and is free when (i%2 == 0) == firstFree.
type FreeSpace struct {
	markers   []int
	firstFree bool
}

// New creates an allocator over size bytes, entirely free or entirely used.
func New(size int, free bool) (*FreeSpace, error) {
	if size <= 0 {
		return nil, fmt.Errorf("size %d: %w", size, ErrBadRange)
	}
	return &FreeSpace{
		markers:   []int{0, size},
		firstFree: free,
	}, nil
}

// Size returns N, the end of the tracked address space.
func (fs *FreeSpace) Size() int {
	return fs.markers[len(fs.markers)-1]
}

// Markers returns a copy of the canonical marker list.
func (fs *FreeSpace) Markers() []int {
	return slices.Clone(fs.markers)
}

// FirstFree reports whether the interval starting at offset 0 is free.
func (fs *FreeSpace) FirstFree() bool {
	return fs.firstFree
}

// Mark classifies exactly [lo, hi) as free or used.
//
// The range is clipped to [0, N) with a logged warning, and an empty or
// negative range is a logged no-op. NoMark does nothing. Marking a range
// that already has the requested classification changes nothing.
func (fs *FreeSpace) Mark(lo, hi int, kind Kind) {
	if kind == NoMark {
		return
	}
	if hi <= lo {
		logger.Warn("alloc: ignoring mark of nonpositive size",
			"lo", hex(lo), "hi", hex(hi), "kind", kind)
		return
	}
	if end := fs.Size(); hi > end {
		logger.Warn("alloc: mark exceeds end, truncating",
			"lo", hex(lo), "hi", hex(hi), "end", hex(end))
		hi = end
	}
	if lo < 0 {
		logger.Warn("alloc: mark precedes 0, truncating", "lo", hex(lo), "hi", hex(hi))
		lo = 0
	}
	if hi <= lo {
		return
	}
	fs.mark(lo, hi, kind == MarkFree)
}

// MarkStrict is Mark without the legacy leniency: ranges that are empty or
// extend outside [0, N) are rejected with ErrBadRange instead of clipped.
func (fs *FreeSpace) MarkStrict(lo, hi int, kind Kind) error {
	if lo < 0 || hi > fs.Size() || hi <= lo {
		return fmt.Errorf("mark [%s, %s) in [0, %s): %w", hex(lo), hex(hi), hex(fs.Size()), ErrBadRange)
	}
	if kind != NoMark {
		fs.mark(lo, hi, kind == MarkFree)
	}
	return nil
}

// mark rebuilds the marker list with [lo, hi) set to free. The bounds must
// already be valid.
func (fs *FreeSpace) mark(lo, hi int, free bool) {
	type edge struct {
		at   int
		free bool
	}

	end := fs.Size()
	starts := fs.markers[:len(fs.markers)-1]
	edges := make([]edge, 0, len(fs.markers)+2)

	for i, m := range starts {
		if m >= lo {
			break
		}
		edges = append(edges, edge{m, fs.freeAt(i)})
	}
	edges = append(edges, edge{lo, free})
	if hi < end {
		edges = append(edges, edge{hi, fs.freeAt(fs.index(hi))})
		for i, m := range starts {
			if m > hi {
				edges = append(edges, edge{m, fs.freeAt(i)})
			}
		}
	}

	markers := make([]int, 0, len(edges)+1)
	prev := false
	for i, e := range edges {
		if i > 0 && e.free == prev {
			continue
		}
		markers = append(markers, e.at)
		prev = e.free
	}
	fs.markers = append(markers, end)
	fs.firstFree = edges[0].free
}

// IsFree reports whether all of [lo, hi) lies inside a single free interval.
// A range that straddles a free/used boundary is not free, nor is an empty or
// out-of-bounds range.
func (fs *FreeSpace) IsFree(lo, hi int) bool {
	if lo < 0 || hi > fs.Size() || hi <= lo {
		return false
	}
	i := fs.index(lo)
	return fs.freeAt(i) && hi <= fs.markers[i+1]
}

// ExtendEnd grows the tracked space to newEnd, classifying the added tail.
func (fs *FreeSpace) ExtendEnd(newEnd int, kind Kind) error {
	end := fs.Size()
	if newEnd <= end {
		return fmt.Errorf("extend to %s from %s: %w", hex(newEnd), hex(end), ErrBadRange)
	}
	if kind == NoMark {
		return fmt.Errorf("extend to %s without a classification: %w", hex(newEnd), ErrBadRange)
	}

	last := len(fs.markers) - 2
	if fs.freeAt(last) == (kind == MarkFree) {
		fs.markers[last+1] = newEnd
	} else {
		fs.markers = append(fs.markers, newEnd)
	}
	return nil
}

// Blocks lists the intervals with the given classification in address order.
func (fs *FreeSpace) Blocks(kind Kind) []Block {
	if kind == NoMark {
		return nil
	}
	want := kind == MarkFree
	var out []Block
	for i := 0; i < len(fs.markers)-1; i++ {
		if fs.freeAt(i) == want {
			out = append(out, Block{Start: fs.markers[i], End: fs.markers[i+1]})
		}
	}
	return out
}

// FreeBytes returns the total number of free bytes.
func (fs *FreeSpace) FreeBytes() int {
	total := 0
	for _, b := range fs.Blocks(MarkFree) {
		total += b.Len()
	}
	return total
}

// Validate checks that the marker list is canonical.
func (fs *FreeSpace) Validate() error {
	return validateMarkers(fs.markers)
}

func validateMarkers(markers []int) error {
	if len(markers) < 2 {
		return fmt.Errorf("%d markers: %w", len(markers), ErrCorrupt)
	}
	if markers[0] != 0 {
		return fmt.Errorf("first marker %s: %w", hex(markers[0]), ErrCorrupt)
	}
	for i := 1; i < len(markers); i++ {
		if markers[i] <= markers[i-1] {
			return fmt.Errorf("marker %d (%s) not after %s: %w",
				i, hex(markers[i]), hex(markers[i-1]), ErrCorrupt)
		}
	}
	return nil
}

// Clone returns an independent copy of the allocator.
func (fs *FreeSpace) Clone() *FreeSpace {
	return &FreeSpace{
		markers:   slices.Clone(fs.markers),
		firstFree: fs.firstFree,
	}
}

// Snapshot captures the allocator state for a later Restore.
func (fs *FreeSpace) Snapshot() Snapshot {
	return Snapshot{markers: slices.Clone(fs.markers), firstFree: fs.firstFree}
}

// Restore returns the allocator to the state captured by s.
func (fs *FreeSpace) Restore(s Snapshot) {
	fs.markers = slices.Clone(s.markers)
	fs.firstFree = s.firstFree
}

// Digest returns a hash of the canonical state. Two allocators describing
// the same partition have the same digest.
func (fs *FreeSpace) Digest() uint64 {
	b := make([]byte, 1, 1+8*len(fs.markers))
	if fs.firstFree {
		b[0] = 1
	}
	for _, m := range fs.markers {
		b = binary.LittleEndian.AppendUint64(b, uint64(m))
	}
	return xxhash.Sum64(b)
}

// String lists free and used blocks, one per line.
func (fs *FreeSpace) String() string {
	var sb strings.Builder
	sb.WriteString("Free blocks:\n")
	for _, b := range fs.Blocks(MarkFree) {
		fmt.Fprintf(&sb, "  %s\n", b)
	}
	sb.WriteString("Used blocks:\n")
	for _, b := range fs.Blocks(MarkUsed) {
		fmt.Fprintf(&sb, "  %s\n", b)
	}
	return sb.String()
}

// freeAt reports the classification of interval i.
func (fs *FreeSpace) freeAt(i int) bool {
	return (i%2 == 0) == fs.firstFree
}

// index returns the interval containing off, clamped to the first and last
// intervals for offsets outside [0, N).
func (fs *FreeSpace) index(off int) int {
	i := sort.SearchInts(fs.markers, off+1) - 1
	return max(0, min(i, len(fs.markers)-2))
}

func hex(v int) string {
	return fmt.Sprintf("0x%06X", v)
}
