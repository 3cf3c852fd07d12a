// Package dirty tracks which byte ranges of a ROM buffer a session has
// written.
//
// The tracker appends raw ranges as writes happen and coalesces them on
// demand into a sorted, non-overlapping list. The coalesced list drives
// IPS patch output and change summaries:
//
//	t := dirty.NewTracker()
//	t.Add(0x1000, 16)
//	t.Add(0x1008, 16)
//	t.Ranges() // [{0x1000 24}]
//
// Tracker is NOT thread-safe.
package dirty
