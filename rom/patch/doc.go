// Package patch reads and applies the two patch formats used to build up a
// modified image: line-oriented text patches and IPS.
//
// # Text patches
//
// One record per line, all fields hexadecimal:
//
//	001000:000A:00 01 02 03 04 05 06 07 08 09
//
// Blank lines and lines starting with '#' are skipped. Files are decoded as
// Windows-1252 since many were authored on Windows.
//
// # IPS
//
// "PATCH", then records of a 3-byte big-endian offset and 2-byte size
// followed by the payload, or a zero size followed by a 2-byte count and a
// fill byte (RLE). "EOF" ends the stream.
//
// A zero-filled RLE record of at least 0x10 bytes is treated as padding and
// marks its range free; every other record marks its range used.
//
// # Applying
//
// Patches are parsed completely before anything is written, then applied in
// one transaction: if any record fails, the image, the allocator and the
// cursor are left exactly as they were.
package patch
