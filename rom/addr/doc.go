// Package addr converts between file offsets and bus (device) pointers for
// HiROM images and reads or writes packed bit-fields inside byte ranges.
//
// # Address Domains
//
// Two domains are recognised:
//
//	file [0x000000, 0x3FFFFF]  <->  bus [0xC00000, 0xFFFFFF]   (HiROM, +0xC00000)
//	file [0x400000, 0x5FFFFF]  <->  bus [0x400000, 0x5FFFFF]   (extended, identity)
//
// Values outside both domains are rejected with ErrDomain; they are never
// passed through unchanged.
//
// # Masked Fields
//
// GetMasked and SetMasked treat data[start:start+length] as one integer in
// the given byte order and address the contiguous run of bits selected by
// mask. For example the destination of a location exit is the 0x01FF bits of
// the little-endian word at record offset 3:
//
//	dest, err := addr.GetMasked(rec, 3, 2, 0x01FF, addr.LittleEndian)
//
// # Repointing
//
// UpdatePointers and ChangePointers rewrite 3-byte pointers stored in ROM
// after a block of data moves.
package addr
