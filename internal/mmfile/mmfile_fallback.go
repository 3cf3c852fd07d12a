//go:build !unix

package mmfile

import "os"

// Map reads the entire file when mmap is not available.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return data, func() error { return nil }, nil
}

// ReadFile returns a private, writable copy of the file at path.
func ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}
