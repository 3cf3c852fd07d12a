package alloc

import "errors"

var (
	// ErrNoSpace indicates that no free range large enough was found.
	ErrNoSpace = errors.New("alloc: not enough free space")

	// ErrBadRange indicates an empty, negative or out-of-bounds range or size.
	ErrBadRange = errors.New("alloc: bad range")

	// ErrCorrupt indicates a marker list that is not in canonical form.
	ErrCorrupt = errors.New("alloc: marker list not canonical")
)
