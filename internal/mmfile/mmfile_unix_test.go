//go:build unix

package mmfile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestMapReadOnlyUnix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.sfc")
	want := bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 0x400)
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, cleanup, err := Map(path)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	defer func() {
		if cleanupErr := cleanup(); cleanupErr != nil {
			t.Fatalf("cleanup: %v", cleanupErr)
		}
	}()
	if !bytes.Equal(data, want) {
		t.Fatalf("mapped contents differ from file contents")
	}
}

func TestMapReadOnlyUnixZeroLength(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sfc")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, cleanup, err := Map(path)
	if err != nil {
		t.Fatalf("Map: %v", err)
	}
	if len(data) != 0 {
		t.Fatalf("expected zero-length mapping, got %d", len(data))
	}
	if cleanupErr := cleanup(); cleanupErr != nil {
		t.Fatalf("cleanup: %v", cleanupErr)
	}
}

func TestReadFileIsPrivateCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rom.sfc")
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := os.WriteFile(path, want, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	data, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	data[0] = 0xFF

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile (os): %v", err)
	}
	if onDisk[0] != 1 {
		t.Fatalf("writing the copy modified the file: got 0x%X", onDisk[0])
	}
}

func TestMapMissingFile(t *testing.T) {
	if _, _, err := Map(filepath.Join(t.TempDir(), "nope.sfc")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
