// Package rom provides ROM, a byte buffer paired with a free-space
// allocator and a cursor. Every write to the image goes through ROM so the
// allocator always reflects which ranges hold data.
//
// # Opening an image
//
//	r, err := rom.Open("ct.sfc", rom.DefaultOptions())
//	if err != nil {
//		return err
//	}
//
// Open validates the image against the known vanilla checksum unless
// Options.IgnoreChecksum is set, and strips a 0x200-byte copier header when
// one is present.
//
// # Writing
//
// Write places bytes at the cursor and records them in the allocator.
// WriteToFreeSpace finds room first:
//
//	off, err := r.WriteToFreeSpace(blob, 0x5F0000)
//
// A ROM is a tx.Snapshotter, so a group of writes can be made all-or-nothing
// with tx.Do.
//
// ROM is NOT thread-safe.
package rom
