package format

import "encoding/binary"

// Binary encoding utilities for the little-endian pointers embedded in ROM
// and the big-endian fields of the IPS container.
//
// Callers are expected to bounds-check first (see internal/buf); these
// helpers panic on short buffers like encoding/binary does.

// PutU16 writes a uint16 value to the buffer at the specified offset in little-endian format.
func PutU16(b []byte, off int, v uint16) {
	binary.LittleEndian.PutUint16(b[off:off+2], v)
}

// ReadU16 reads a little-endian uint16 at off.
func ReadU16(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off : off+2])
}

// PutU24 writes the low 24 bits of v at off in little-endian format.
func PutU24(b []byte, off int, v uint32) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
}

// ReadU24 reads a little-endian 24-bit value at off.
func ReadU24(b []byte, off int) uint32 {
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16
}

// PutU24BE writes the low 24 bits of v at off in big-endian format.
func PutU24BE(b []byte, off int, v uint32) {
	b[off] = byte(v >> 16)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v)
}

// PutU16BE writes v at off in big-endian format.
func PutU16BE(b []byte, off int, v uint16) {
	binary.BigEndian.PutUint16(b[off:off+2], v)
}
