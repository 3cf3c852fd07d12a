// Package codec implements the LZ-style compression format used for event
// scripts and other variable-length blobs in the ROM.
//
// # Stream layout
//
//	[main length LE16][packets ...][addendum byte][addendum ...]
//
// A packet is one header byte followed by up to eight items. Header bit i
// (least significant first) selects item i: clear is one literal byte, set
// is a two-byte little-endian back-reference. The low bits of a reference
// hold the distance back into the output and the high bits hold the copy
// length minus three:
//
//	mode    distance mask  length shift  max length
//	Narrow  0x07FF         11            34
//	Wide    0x0FFF         12            18
//
// The byte after the main body both selects the mode (any of the top two
// bits set means Narrow) and, through its low six bits, announces an
// addendum: one more packet whose end is given by the two bytes that
// follow. A stream always ends with a byte whose low six bits are zero.
//
// Output is limited to 0x10000 bytes, the size of the game's decompression
// buffer.
package codec
