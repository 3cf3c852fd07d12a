package rom

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/internal/format"
	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/internal/writer"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/dirty"
	"github.com/joshuapare/romkit/rom/tx"
)

const testSize = 0x40000

func testOptions(free bool) Options {
	opts := DefaultOptions()
	opts.IgnoreChecksum = true
	opts.InitiallyFree = free
	return opts
}

func newTestROM(t testing.TB, free bool) *ROM {
	t.Helper()
	r, err := New(make([]byte, testSize), testOptions(free))
	require.NoError(t, err)
	return r
}

func TestNew_CopiesInput(t *testing.T) {
	data := make([]byte, 0x100)
	r, err := New(data, testOptions(false))
	require.NoError(t, err)

	data[0] = 0xFF
	require.Zero(t, r.Bytes()[0])
	require.Equal(t, 0x100, r.Len())
	require.Equal(t, []alloc.Block{{Start: 0, End: 0x100}}, r.Space().Blocks(alloc.MarkUsed))
}

func TestNew_Errors(t *testing.T) {
	_, err := New(nil, testOptions(false))
	require.ErrorIs(t, err, ErrEmpty)

	_, err = New(make([]byte, 0x100), DefaultOptions())
	require.ErrorIs(t, err, ErrBadChecksum)
}

func TestNew_StripsCopierHeader(t *testing.T) {
	data := make([]byte, format.VanillaSize+format.CopierHeaderSize)
	data[format.CopierHeaderSize] = 0xAB

	r, err := New(data, testOptions(false))
	require.NoError(t, err)
	require.Equal(t, format.VanillaSize, r.Len())
	require.Equal(t, byte(0xAB), r.Bytes()[0])

	opts := testOptions(false)
	opts.StripHeader = false
	r, err = New(data, opts)
	require.NoError(t, err)
	require.Equal(t, len(data), r.Len())
}

func TestChecksumIgnoresHeader(t *testing.T) {
	body := make([]byte, format.VanillaSize)
	body[0x1234] = 7
	headered := append(make([]byte, format.CopierHeaderSize), body...)

	require.Equal(t, Checksum(body), Checksum(headered))
	require.False(t, ValidateBytes(body))
	require.True(t, HasCopierHeader(headered))
	require.False(t, HasCopierHeader(body))
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.sfc")
	require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte{0x5A}, 0x1000), 0o644))

	r, err := Open(path, testOptions(true))
	require.NoError(t, err)
	require.Equal(t, 0x1000, r.Len())
	require.Equal(t, byte(0x5A), r.Bytes()[0xFFF])

	_, err = Open(filepath.Join(t.TempDir(), "missing.sfc"), testOptions(true))
	require.Error(t, err)
}

func TestSeekTellRead(t *testing.T) {
	r := newTestROM(t, false)
	copy(r.buf[0x10:], []byte{1, 2, 3, 4})

	require.NoError(t, r.Seek(0x10))
	require.Equal(t, 0x10, r.Tell())
	require.Equal(t, []byte{1, 2}, r.Read(2))
	require.Equal(t, 0x12, r.Tell())

	got, err := r.ReadAt(0x12, 2)
	require.NoError(t, err)
	require.Equal(t, []byte{3, 4}, got)
	require.Equal(t, 0x12, r.Tell())

	_, err = r.ReadAt(testSize-1, 2)
	require.ErrorIs(t, err, alloc.ErrBadRange)
	_, err = r.ReadAt(-1, 1)
	require.ErrorIs(t, err, alloc.ErrBadRange)
	require.ErrorIs(t, r.Seek(-1), alloc.ErrBadRange)

	require.NoError(t, r.Seek(testSize-1))
	require.Len(t, r.Read(10), 1)
	require.Nil(t, r.Read(10))
}

func TestWrite_MarksAndAdvances(t *testing.T) {
	r := newTestROM(t, true)
	require.NoError(t, r.Seek(0x100))

	n, err := r.Write([]byte{0xAA, 0xBB}, alloc.MarkUsed)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, 0x102, r.Tell())
	require.Equal(t, []byte{0xAA, 0xBB}, r.Bytes()[0x100:0x102])
	require.False(t, r.Space().IsFree(0x100, 0x102))
	require.Equal(t, []dirty.Range{{Off: 0x100, Len: 2}}, r.Changes())

	// NoMark writes leave the allocator alone.
	before := r.Space().Markers()
	_, err = r.Write([]byte{1}, alloc.NoMark)
	require.NoError(t, err)
	require.Equal(t, before, r.Space().Markers())

	// Overlapping writes count each byte once.
	require.NoError(t, r.Seek(0x101))
	_, err = r.Write([]byte{1, 2, 3}, alloc.MarkUsed)
	require.NoError(t, err)
	require.Equal(t, 4, r.ChangedBytes())
}

func TestWrite_ExtendsBuffer(t *testing.T) {
	r := newTestROM(t, false)
	require.NoError(t, r.Seek(testSize+0x10))

	_, err := r.Write([]byte{1, 2, 3}, alloc.NoMark)
	require.ErrorIs(t, err, ErrNoMarkExtend)
	require.Equal(t, testSize, r.Len())

	_, err = r.Write([]byte{1, 2, 3}, alloc.MarkFree)
	require.NoError(t, err)
	require.Equal(t, testSize+0x13, r.Len())
	require.Equal(t, testSize+0x13, r.Space().Size())
	require.True(t, r.Space().IsFree(testSize, testSize+0x13))
	require.Equal(t, []byte{0, 1, 2, 3}, r.Bytes()[testSize+0xF:])
}

func TestMark(t *testing.T) {
	r := newTestROM(t, false)
	require.NoError(t, r.Seek(0x200))
	r.Mark(0x100, alloc.MarkFree)

	require.Equal(t, []alloc.Block{{Start: 0x200, End: 0x300}}, r.Space().Blocks(alloc.MarkFree))
	require.Equal(t, 0x200, r.Tell())
	require.Empty(t, r.Changes())
}

func TestWriteToFreeSpace(t *testing.T) {
	r := newTestROM(t, false)
	require.NoError(t, r.Seek(0x10000))
	r.Mark(0x100, alloc.MarkFree)

	off, err := r.WriteToFreeSpace([]byte{9, 9, 9, 9}, 0)
	require.NoError(t, err)
	require.Equal(t, 0x10000, off)
	require.Equal(t, 0x10004, r.Tell())
	require.False(t, r.Space().IsFree(0x10000, 0x10004))
	require.True(t, r.Space().IsFree(0x10004, 0x10100))
}

func TestWriteToFreeSpace_HintFallback(t *testing.T) {
	var logs bytes.Buffer
	_, err := logger.Init(logger.Options{Enabled: true, Output: &logs})
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = logger.Init(logger.Options{}) })

	r := newTestROM(t, false)
	require.NoError(t, r.Seek(0x100))
	r.Mark(0x10, alloc.MarkFree)

	off, err := r.WriteToFreeSpace([]byte{1, 2, 3}, 0x20000)
	require.NoError(t, err)
	require.Equal(t, 0x100, off)
	require.Contains(t, logs.String(), "ignoring hint")

	_, err = r.WriteToFreeSpace(make([]byte, 0x20), 0x20000)
	require.ErrorIs(t, err, alloc.ErrNoSpace)
}

func TestFindSameBankFree_PassThrough(t *testing.T) {
	r := newTestROM(t, true)
	offs, err := r.FindSameBankFree([]int{0x10, 0x20}, 0)
	require.NoError(t, err)
	require.Equal(t, []int{0x20, 0}, offs)

	off, err := r.FindFree(0x10, 0x30)
	require.NoError(t, err)
	require.Equal(t, 0x30, off)
}

func TestTransactionRollback(t *testing.T) {
	r := newTestROM(t, true)
	_, err := r.WriteToFreeSpace([]byte{1}, 0)
	require.NoError(t, err)
	digest := r.Digest()

	boom := errors.New("boom")
	err = tx.Do[Snapshot](context.Background(), r, func() error {
		if _, err := r.WriteToFreeSpace([]byte{2, 3, 4}, 0); err != nil {
			return err
		}
		require.NoError(t, r.Seek(testSize))
		if _, err := r.Write([]byte{5}, alloc.MarkUsed); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, digest, r.Digest())
	require.Equal(t, testSize, r.Len())
	require.Equal(t, 1, r.Tell())
	require.Equal(t, []dirty.Range{{Off: 0, Len: 1}}, r.Changes())
}

func TestTransactionCommit(t *testing.T) {
	r := newTestROM(t, true)
	digest := r.Digest()

	err := tx.Do[Snapshot](context.Background(), r, func() error {
		_, err := r.WriteToFreeSpace([]byte{1, 2}, 0)
		return err
	})
	require.NoError(t, err)
	require.NotEqual(t, digest, r.Digest())
}

func TestSave(t *testing.T) {
	r := newTestROM(t, true)
	_, err := r.WriteToFreeSpace([]byte{0xDE, 0xAD}, 0)
	require.NoError(t, err)

	var mem writer.MemWriter
	require.NoError(t, r.Save(&mem))
	require.Equal(t, r.Bytes(), mem.Buf)

	path := filepath.Join(t.TempDir(), "out.sfc")
	require.NoError(t, r.Save(&writer.FileWriter{Path: path}))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, r.Bytes(), got)
}
