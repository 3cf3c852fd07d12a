package tx

import (
	"context"
	"errors"
)

// ErrNoTransaction indicates Commit or Rollback without a matching Begin.
var ErrNoTransaction = errors.New("tx: no active transaction")

// Snapshotter is implemented by state that can be captured and restored.
// Restore must leave the target exactly as it was when Snapshot was taken.
type Snapshotter[S any] interface {
	Snapshot() S
	Restore(S)
}

// Manager runs one transaction at a time over a target.
//
// The manager is NOT thread-safe. Only one goroutine should use it at a time.
type Manager[S any] struct {
	target Snapshotter[S]
	saved  S
	inTx   bool
}

// NewManager creates a transaction manager for the given target.
func NewManager[S any](target Snapshotter[S]) *Manager[S] {
	return &Manager[S]{target: target}
}

// Begin starts a new transaction by snapshotting the target.
//
// If Begin() is called while already in a transaction, it's a no-op and the
// original snapshot is kept. The context can be used to cancel the operation
// before it starts.
func (m *Manager[S]) Begin(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.inTx {
		return nil
	}
	m.saved = m.target.Snapshot()
	m.inTx = true
	return nil
}

// Commit keeps every modification made since Begin.
//
// A cancelled context rolls the transaction back instead and returns the
// context's error.
func (m *Manager[S]) Commit(ctx context.Context) error {
	if !m.inTx {
		return ErrNoTransaction
	}
	if err := ctx.Err(); err != nil {
		m.rollback()
		return err
	}
	var zero S
	m.saved = zero
	m.inTx = false
	return nil
}

// Rollback restores the target to its state at Begin.
func (m *Manager[S]) Rollback() error {
	if !m.inTx {
		return ErrNoTransaction
	}
	m.rollback()
	return nil
}

// InTransaction returns whether a transaction is currently active.
func (m *Manager[S]) InTransaction() bool {
	return m.inTx
}

func (m *Manager[S]) rollback() {
	m.target.Restore(m.saved)
	var zero S
	m.saved = zero
	m.inTx = false
}

// Do runs fn inside a transaction. The transaction commits when fn returns
// nil and rolls back when fn returns an error or panics; a panic is
// re-raised after the rollback.
func Do[S any](ctx context.Context, target Snapshotter[S], fn func() error) (err error) {
	m := NewManager(target)
	if err := m.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if m.InTransaction() {
			m.rollback()
		}
	}()

	if err := fn(); err != nil {
		return err
	}
	return m.Commit(ctx)
}

// Speculate runs fn and then restores target to its state before the call,
// whatever fn returned and even if it panicked. Use it to probe state by
// mutating it tentatively.
func Speculate[S any](target Snapshotter[S], fn func() error) error {
	snap := target.Snapshot()
	defer target.Restore(snap)
	return fn()
}
