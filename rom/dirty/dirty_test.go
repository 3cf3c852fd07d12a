package dirty

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_Empty(t *testing.T) {
	tracker := NewTracker()
	require.True(t, tracker.Empty())
	require.Nil(t, tracker.Ranges())
	require.Zero(t, tracker.Bytes())

	tracker.Add(0x10, 0)
	tracker.Add(0x10, -4)
	tracker.Add(-1, 4)
	require.True(t, tracker.Empty())
}

func TestTracker_CoalesceAdjacent(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(0x1000, 0x10)
	tracker.Add(0x1010, 0x10)

	require.Equal(t, []Range{{Off: 0x1000, Len: 0x20}}, tracker.Ranges())
	require.Len(t, tracker.Raw(), 2)
}

func TestTracker_CoalesceOverlappingUnsorted(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(0x500, 0x100)
	tracker.Add(0x100, 0x10)
	tracker.Add(0x480, 0x90)
	tracker.Add(0x520, 0x10) // contained
	tracker.Add(0x112, 0x2)

	require.Equal(t, []Range{
		{Off: 0x100, Len: 0x10},
		{Off: 0x112, Len: 0x2},
		{Off: 0x480, Len: 0x180},
	}, tracker.Ranges())
	require.Equal(t, 0x10+0x2+0x180, tracker.Bytes())
}

func TestTracker_SnapshotRestore(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(0, 4)
	snap := tracker.Snapshot()

	tracker.Add(0x100, 4)
	tracker.Add(0x200, 4)
	require.Len(t, tracker.Ranges(), 3)

	tracker.Restore(snap)
	require.Equal(t, []Range{{Off: 0, Len: 4}}, tracker.Ranges())

	// The snapshot is not aliased by later additions.
	tracker.Add(0x300, 4)
	tracker.Restore(snap)
	require.Equal(t, []Range{{Off: 0, Len: 4}}, tracker.Ranges())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	tracker.Add(0, 4)
	tracker.Reset()
	require.True(t, tracker.Empty())
}

func TestRange_End(t *testing.T) {
	require.Equal(t, 0x110, Range{Off: 0x100, Len: 0x10}.End())
}
