package alloc

import "fmt"

// Kind is the bookkeeping applied to a range when it is written or marked.
type Kind uint8

const (
	// MarkUsed records the range as holding meaningful data.
	MarkUsed Kind = iota
	// MarkFree records the range as available for allocation.
	MarkFree
	// NoMark leaves the bookkeeping unchanged.
	NoMark
)

func (k Kind) String() string {
	switch k {
	case MarkUsed:
		return "used"
	case MarkFree:
		return "free"
	case NoMark:
		return "no-mark"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Block is a half-open interval [Start, End) of file offsets.
type Block struct {
	Start int
	End   int
}

// Len returns the number of bytes in the block.
func (b Block) Len() int { return b.End - b.Start }

func (b Block) String() string {
	return fmt.Sprintf("[%06X, %06X) %X bytes", b.Start, b.End, b.Len())
}

// Snapshot is a saved copy of allocator state; see FreeSpace.Snapshot.
type Snapshot struct {
	markers   []int
	firstFree bool
}
