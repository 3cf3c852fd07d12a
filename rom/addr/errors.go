package addr

import "errors"

var (
	// ErrDomain indicates an offset or pointer outside every known address domain.
	ErrDomain = errors.New("addr: value outside known address domains")

	// ErrBadMask indicates a zero, non-contiguous or too-wide bit mask.
	ErrBadMask = errors.New("addr: bad mask")

	// ErrValueRange indicates a value that does not fit in the bits of its mask.
	ErrValueRange = errors.New("addr: value does not fit mask")

	// ErrBounds indicates a field or record that extends past the buffer.
	ErrBounds = errors.New("addr: range out of bounds")
)
