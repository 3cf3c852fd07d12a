package rom

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/joshuapare/romkit/internal/format"
)

// HasCopierHeader reports whether data is the size of a vanilla image with a
// 0x200-byte copier header in front.
func HasCopierHeader(data []byte) bool {
	return len(data) == format.VanillaSize+format.CopierHeaderSize
}

// StripCopierHeader returns data without its copier header, or data itself
// when it has none.
func StripCopierHeader(data []byte) []byte {
	if HasCopierHeader(data) {
		return data[format.CopierHeaderSize:]
	}
	return data
}

// Checksum returns the hex MD5 of data with any copier header removed.
func Checksum(data []byte) string {
	sum := md5.Sum(StripCopierHeader(data))
	return hex.EncodeToString(sum[:])
}

// ValidateBytes reports whether data is the vanilla image, with or without a
// copier header.
func ValidateBytes(data []byte) bool {
	return Checksum(data) == format.VanillaMD5
}
