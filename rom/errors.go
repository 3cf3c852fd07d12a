package rom

import "errors"

var (
	// ErrNoMarkExtend indicates a write past the end of the buffer with
	// alloc.NoMark, which would leave the new bytes unclassified.
	ErrNoMarkExtend = errors.New("rom: write extends buffer without a mark")

	// ErrBadChecksum indicates an image that is not the expected vanilla ROM.
	ErrBadChecksum = errors.New("rom: checksum mismatch")

	// ErrEmpty indicates an empty image.
	ErrEmpty = errors.New("rom: empty image")
)
