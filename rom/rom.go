package rom

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash"

	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/internal/mmfile"
	"github.com/joshuapare/romkit/internal/writer"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/dirty"
)

// ROM owns an image buffer, the allocator describing it, a cursor and the
// set of ranges written so far.
type ROM struct {
	buf   []byte
	space *alloc.FreeSpace
	pos   int
	dirty *dirty.Tracker
}

// Snapshot is a saved copy of ROM state; see ROM.Snapshot.
type Snapshot struct {
	buf   []byte
	space alloc.Snapshot
	pos   int
	dirty dirty.Snapshot
}

// New creates a ROM over a private copy of data.
func New(data []byte, opts Options) (*ROM, error) {
	if opts.StripHeader && HasCopierHeader(data) {
		logger.Info("rom: copier header detected, stripping")
		data = StripCopierHeader(data)
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if !opts.IgnoreChecksum && !ValidateBytes(data) {
		return nil, fmt.Errorf("md5 %s: %w", Checksum(data), ErrBadChecksum)
	}

	space, err := alloc.New(len(data), opts.InitiallyFree)
	if err != nil {
		return nil, err
	}
	return &ROM{
		buf:   slices.Clone(data),
		space: space,
		dirty: dirty.NewTracker(),
	}, nil
}

// Open reads the image at path and creates a ROM from it.
func Open(path string, opts Options) (*ROM, error) {
	data, err := mmfile.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := New(data, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return r, nil
}

// Len returns the current buffer length.
func (r *ROM) Len() int { return len(r.buf) }

// Bytes returns the underlying buffer. Callers must not modify it; use Write.
func (r *ROM) Bytes() []byte { return r.buf }

// Space returns the allocator. Marking through it directly is allowed, for
// mark-only patch replays; bytes must still be written through ROM.
func (r *ROM) Space() *alloc.FreeSpace { return r.space }

// Seek moves the cursor to off. Seeking past the end is allowed; a later
// write grows the buffer.
func (r *ROM) Seek(off int) error {
	if off < 0 {
		return fmt.Errorf("seek to %d: %w", off, alloc.ErrBadRange)
	}
	r.pos = off
	return nil
}

// Tell returns the cursor position.
func (r *ROM) Tell() int { return r.pos }

// Read returns a copy of up to n bytes at the cursor and advances past them.
// It returns fewer bytes at the end of the buffer.
func (r *ROM) Read(n int) []byte {
	if n <= 0 || r.pos >= len(r.buf) {
		return nil
	}
	end := min(len(r.buf), r.pos+n)
	out := slices.Clone(r.buf[r.pos:end])
	r.pos = end
	return out
}

// ReadAt returns a copy of exactly n bytes at off without moving the cursor.
func (r *ROM) ReadAt(off, n int) ([]byte, error) {
	end, err := buf.CheckRange(len(r.buf), off, n)
	if err != nil {
		return nil, fmt.Errorf("read at 0x%06X: %v: %w", off, err, alloc.ErrBadRange)
	}
	return slices.Clone(r.buf[off:end]), nil
}

// Write copies payload to the cursor, records the range with kind and
// advances the cursor.
//
// A write that ends past the buffer grows it, zero filling any gap, and
// extends the allocator with kind. Growing with alloc.NoMark is
// ErrNoMarkExtend.
func (r *ROM) Write(payload []byte, kind alloc.Kind) (int, error) {
	start := r.pos
	end := start + len(payload)
	if len(payload) == 0 {
		return 0, nil
	}

	if end > len(r.buf) {
		if kind == alloc.NoMark {
			return 0, fmt.Errorf("write [0x%06X, 0x%06X) past 0x%06X: %w",
				start, end, len(r.buf), ErrNoMarkExtend)
		}
		if err := r.space.ExtendEnd(end, kind); err != nil {
			return 0, err
		}
		r.buf = append(r.buf, make([]byte, end-len(r.buf))...)
	}

	r.space.Mark(start, end, kind)
	copy(r.buf[start:end], payload)
	r.dirty.Add(start, len(payload))
	r.pos = end
	return len(payload), nil
}

// Mark classifies [cursor, cursor+n) as kind without writing.
func (r *ROM) Mark(n int, kind alloc.Kind) {
	r.space.Mark(r.pos, r.pos+n, kind)
}

// FindFree returns a single-bank free range of size bytes at or after hint.
func (r *ROM) FindFree(size, hint int) (int, error) {
	return r.space.FindFree(size, hint)
}

// FindSameBankFree returns free ranges for sizes, all in one bank.
func (r *ROM) FindSameBankFree(sizes []int, hint int) ([]int, error) {
	return r.space.FindSameBankFree(sizes, hint)
}

// WriteToFreeSpace writes payload into a free range at or after hint, marks
// it used and returns its offset. When nothing fits after a nonzero hint the
// search is retried from the start of the image.
func (r *ROM) WriteToFreeSpace(payload []byte, hint int) (int, error) {
	off, err := r.space.FindFree(len(payload), hint)
	if err != nil && hint != 0 {
		logger.Warn("rom: insufficient free space after hint, ignoring hint",
			"size", len(payload), "hint", fmt.Sprintf("0x%06X", hint))
		off, err = r.space.FindFree(len(payload), 0)
	}
	if err != nil {
		return 0, fmt.Errorf("write 0x%X bytes to free space: %w", len(payload), err)
	}

	r.pos = off
	if _, err := r.Write(payload, alloc.MarkUsed); err != nil {
		return 0, err
	}
	return off, nil
}

// Changes returns the written ranges, sorted and merged.
func (r *ROM) Changes() []dirty.Range {
	return r.dirty.Ranges()
}

// ChangedBytes returns how many distinct bytes have been written.
func (r *ROM) ChangedBytes() int {
	return r.dirty.Bytes()
}

// Digest returns a hash of the buffer and the allocator state.
func (r *ROM) Digest() uint64 {
	d := xxhash.New()
	_, _ = d.Write(r.buf)
	var space [8]byte
	v := r.space.Digest()
	for i := range space {
		space[i] = byte(v >> (8 * i))
	}
	_, _ = d.Write(space[:])
	return d.Sum64()
}

// Save hands the buffer to w.
func (r *ROM) Save(w writer.Writer) error {
	return w.WriteROM(r.buf)
}

// Snapshot captures buffer, allocator, cursor and change set.
func (r *ROM) Snapshot() Snapshot {
	return Snapshot{
		buf:   slices.Clone(r.buf),
		space: r.space.Snapshot(),
		pos:   r.pos,
		dirty: r.dirty.Snapshot(),
	}
}

// Restore returns the ROM to the state captured by s.
func (r *ROM) Restore(s Snapshot) {
	r.buf = slices.Clone(s.buf)
	r.space.Restore(s.space)
	r.pos = s.pos
	r.dirty.Restore(s.dirty)
}
