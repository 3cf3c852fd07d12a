// Package format houses the fixed constants of the HiROM cartridge layout,
// the legacy patch containers and the event/text compression stream. Keeping
// them here lets the higher-level packages share one definition of every
// magic number instead of re-deriving it locally.
package format

const (
	// BankSize is the size of one ROM bank. Pointers embedded in the game
	// are 16-bit bank-relative, so data that is addressed through a single
	// bank byte must never cross a bank edge.
	BankSize = 0x10000

	// BankMask selects the bank-relative part of a file offset.
	BankMask = BankSize - 1

	// CopierHeaderSize is the size of the optional header prepended by
	// old copier devices. A headered image is exactly this much longer
	// than a multiple of BankSize.
	CopierHeaderSize = 0x200

	// VanillaSize is the size of an unmodified, unheadered image.
	VanillaSize = 0x400000

	// VanillaMD5 is the digest of the unmodified, unheadered image.
	VanillaMD5 = "a2bc447961e52fd2227baed164f729dc"
)

// Address domains. The HiROM domain maps file offsets [0x000000, 0x3FFFFF]
// onto bus addresses [0xC00000, 0xFFFFFF]. The extended domain used by
// expanded images maps [0x400000, 0x5FFFFF] onto itself.
const (
	HiROMFileStart = 0x000000
	HiROMFileEnd   = 0x3FFFFF
	HiROMBusStart  = 0xC00000
	HiROMBusEnd    = 0xFFFFFF
	HiROMBias      = HiROMBusStart - HiROMFileStart

	ExtendedStart = 0x400000
	ExtendedEnd   = 0x5FFFFF
)

// PointerSize is the width of a long (bank:offset) pointer in ROM.
const PointerSize = 3

// IPS container layout.
const (
	// IPSMagic opens every IPS file.
	IPSMagic = "PATCH"

	// IPSEOF terminates the record stream. It doubles as the 3-byte offset
	// 0x454F46, which therefore cannot start a record.
	IPSEOF = "EOF"

	// IPSEOFOffset is IPSEOF read as a 3-byte big-endian offset.
	IPSEOFOffset = 0x454F46

	// IPSRecordHeaderSize is the 3-byte offset plus the 2-byte size.
	IPSRecordHeaderSize = 5

	// IPSRLEHeaderSize is the 2-byte repeat count plus the fill byte.
	IPSRLEHeaderSize = 3

	// IPSMaxOffset is the largest offset a 3-byte field can address.
	IPSMaxOffset = 0xFFFFFF

	// IPSMaxRecord is the largest payload a single record can carry.
	IPSMaxRecord = 0xFFFF

	// IPSFreeRunThreshold is the shortest zero-fill RLE run treated as
	// padding rather than data when replaying a patch.
	IPSFreeRunThreshold = 0x10
)

// Compression stream layout.
const (
	// CodecLengthSize is the size of the leading main-body length field and
	// of the addendum's end-offset field.
	CodecLengthSize = 2

	// CodecItemsPerPacket is the number of items selected by one header byte.
	CodecItemsPerPacket = 8

	// CodecMinMatch is the shortest run encoded as a back-reference. The
	// stored length is biased by this amount.
	CodecMinMatch = 3

	// CodecWindowLimit is the size of the decoder's scratch output buffer and
	// therefore the largest payload that can be round-tripped.
	CodecWindowLimit = 0x10000

	// CodecAddendumCountMask selects the item count in an addendum header.
	CodecAddendumCountMask = 0x3F

	// CodecWidthMask selects the width-mode flag bits in an addendum header.
	CodecWidthMask = 0xC0

	// CodecNarrowFlag marks the narrow (11-bit offset) width mode.
	CodecNarrowFlag = 0xC0

	// CodecWideFlag marks the wide (12-bit offset) width mode.
	CodecWideFlag = 0x00

	// CodecAddendumHeaderSize is the addendum header byte plus its end offset.
	CodecAddendumHeaderSize = 3
)
