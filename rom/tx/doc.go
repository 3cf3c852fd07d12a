// Package tx provides scoped, all-or-nothing transactions over in-memory
// patching state.
//
// # Overview
//
// Several operations must either complete fully or leave no trace: replaying
// a legacy patch file, or probing the allocator for a same-bank placement.
// Instead of hand-written undo logic, the state taking part in such an
// operation implements Snapshotter. A transaction takes a snapshot when it
// begins and restores it unless it is committed.
//
// Transaction lifecycle:
//  1. Begin(): capture a snapshot of the target
//  2. Apply modifications directly to the target
//  3. Commit(): discard the snapshot, keeping the modifications
//  4. Rollback(): restore the snapshot
//
// Two helpers wrap the lifecycle:
//
//	// Do commits when fn succeeds and rolls back on error or panic.
//	err := tx.Do(ctx, rom, func() error {
//	    return applyRecords(rom, records)
//	})
//
//	// Speculate always rolls back; it is for probing, not mutating.
//	err := tx.Speculate(space, func() error {
//	    off, err = space.FindFree(n, hint)
//	    ...
//	})
//
// # Thread Safety
//
// A Manager is not thread-safe. Only one goroutine should use it at a time,
// and the target must not be modified concurrently.
package tx
