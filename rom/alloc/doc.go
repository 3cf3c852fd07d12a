// Package alloc tracks which byte ranges of a ROM image are free and which
// are used, and answers placement queries against that model.
//
// # Overview
//
// The address space [0, N) is partitioned into alternating free and used
// intervals described by an ordered marker list:
//
//	markers:   0      0x100    0x8000        0x20000
//	           |------|--------|-------------|
//	           used    free     used
//
// Consecutive markers bound one interval; the classification of the first
// interval is stored and every following interval flips it. The list is kept
// canonical: strictly increasing, starting at 0, ending at N, and with no two
// adjacent intervals sharing a classification. Every exported mutation
// preserves this.
//
// # Allocation
//
// FindFree is first-fit from a hint and never returns a range that crosses a
// 64 KiB bank edge: when a free interval spans an edge, either the part
// before the edge or the part starting exactly at the next bank is used.
//
//	fs, _ := alloc.New(0x400000, false)
//	fs.Mark(0x3F8000, 0x400000, alloc.MarkFree)
//	off, err := fs.FindFree(0x120, 0)
//	if errors.Is(err, alloc.ErrNoSpace) {
//	    // try a smaller payload or give up on this patch
//	}
//
// FindSameBankFree places several ranges in one bank. It works by marking
// candidates used and always rolls the allocator back with tx.Speculate, so
// it never changes allocator state, even when it fails.
//
// # Thread Safety
//
// FreeSpace is not thread-safe. Callers must synchronize access externally.
//
// # Related Packages
//
//   - github.com/joshuapare/romkit/rom: owns a FreeSpace next to the image it describes
//   - github.com/joshuapare/romkit/rom/tx: snapshot/restore transactions
package alloc
