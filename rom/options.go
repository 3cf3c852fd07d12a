package rom

// Options controls how an image is loaded.
type Options struct {
	// InitiallyFree marks the whole image free instead of used. Images are
	// normally loaded used and then opened up by free-space patches.
	InitiallyFree bool

	// IgnoreChecksum skips vanilla validation, for loading images that were
	// already patched.
	IgnoreChecksum bool

	// StripHeader removes a 0x200-byte copier header from images whose size
	// indicates one.
	StripHeader bool
}

// DefaultOptions returns the options used by Open when none are given:
// validate the checksum, strip a copier header and start fully used.
func DefaultOptions() Options {
	return Options{
		InitiallyFree:  false,
		IgnoreChecksum: false,
		StripHeader:    true,
	}
}
