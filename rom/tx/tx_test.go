package tx

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// sliceState is a minimal Snapshotter used to observe restores.
type sliceState struct {
	vals     []int
	restores int
}

func (s *sliceState) Snapshot() []int { return slices.Clone(s.vals) }

func (s *sliceState) Restore(v []int) {
	s.vals = slices.Clone(v)
	s.restores++
}

var errBoom = errors.New("boom")

func TestManagerCommitKeepsChanges(t *testing.T) {
	ctx := context.Background()
	s := &sliceState{vals: []int{1}}
	m := NewManager[[]int](s)

	require.NoError(t, m.Begin(ctx))
	require.True(t, m.InTransaction())
	s.vals = append(s.vals, 2)
	require.NoError(t, m.Commit(ctx))

	require.False(t, m.InTransaction())
	require.Equal(t, []int{1, 2}, s.vals)
	require.Zero(t, s.restores)
}

func TestManagerRollbackRestores(t *testing.T) {
	ctx := context.Background()
	s := &sliceState{vals: []int{1}}
	m := NewManager[[]int](s)

	require.NoError(t, m.Begin(ctx))
	s.vals[0] = 42
	require.NoError(t, m.Rollback())

	require.Equal(t, []int{1}, s.vals)
	require.ErrorIs(t, m.Rollback(), ErrNoTransaction)
	require.ErrorIs(t, m.Commit(ctx), ErrNoTransaction)
}

func TestManagerBeginIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := &sliceState{vals: []int{1}}
	m := NewManager[[]int](s)

	require.NoError(t, m.Begin(ctx))
	s.vals[0] = 2
	require.NoError(t, m.Begin(ctx))
	require.NoError(t, m.Rollback())
	require.Equal(t, []int{1}, s.vals, "second Begin must not replace the snapshot")
}

func TestManagerCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &sliceState{vals: []int{1}}
	m := NewManager[[]int](s)

	require.NoError(t, m.Begin(ctx))
	s.vals[0] = 7
	cancel()

	require.ErrorIs(t, m.Commit(ctx), context.Canceled)
	require.Equal(t, []int{1}, s.vals)
	require.ErrorIs(t, m.Begin(ctx), context.Canceled)
}

func TestDo(t *testing.T) {
	ctx := context.Background()
	s := &sliceState{vals: []int{1}}

	require.NoError(t, Do[[]int](ctx, s, func() error {
		s.vals = append(s.vals, 2)
		return nil
	}))
	require.Equal(t, []int{1, 2}, s.vals)

	err := Do[[]int](ctx, s, func() error {
		s.vals = nil
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)
	require.Equal(t, []int{1, 2}, s.vals)
}

func TestDoRollsBackOnPanic(t *testing.T) {
	s := &sliceState{vals: []int{1}}

	require.PanicsWithValue(t, "bad", func() {
		_ = Do[[]int](context.Background(), s, func() error {
			s.vals[0] = 99
			panic("bad")
		})
	})
	require.Equal(t, []int{1}, s.vals)
}

func TestSpeculateAlwaysRestores(t *testing.T) {
	s := &sliceState{vals: []int{1, 2, 3}}

	require.NoError(t, Speculate[[]int](s, func() error {
		s.vals = s.vals[:1]
		return nil
	}))
	require.Equal(t, []int{1, 2, 3}, s.vals)

	require.ErrorIs(t, Speculate[[]int](s, func() error {
		s.vals = nil
		return errBoom
	}), errBoom)
	require.Equal(t, []int{1, 2, 3}, s.vals)
	require.Equal(t, 2, s.restores)
}
