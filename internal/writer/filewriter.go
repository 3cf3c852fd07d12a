// Package writer exposes sinks for patched ROM images.
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Writer receives a finished image.
type Writer interface {
	WriteROM(buf []byte) error
}

// FileWriter writes ROM bytes to a filesystem path atomically, so a failed
// session never leaves a partially written image behind.
type FileWriter struct {
	Path string
}

// WriteROM writes buf to the configured path atomically via temp file + rename.
func (w *FileWriter) WriteROM(buf []byte) error {
	s, err := w.Stage(buf)
	if err != nil {
		return err
	}
	return s.Commit()
}

// Stage writes buf to a synced temp file next to the target without
// touching the target. The caller must Commit or Discard the result.
func (w *FileWriter) Stage(buf []byte) (*Staged, error) {
	// Same directory, so the final rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(filepath.Dir(w.Path), ".romkit-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	fail := func(err error) (*Staged, error) {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
		return nil, err
	}
	if _, err := tmpFile.Write(buf); err != nil {
		return fail(fmt.Errorf("write temp file: %w", err))
	}
	if err := tmpFile.Sync(); err != nil {
		return fail(fmt.Errorf("sync temp file: %w", err))
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return &Staged{tmp: tmpPath, path: w.Path}, nil
}

// Staged is a complete temp file waiting to replace its target.
type Staged struct {
	tmp  string
	path string
	done bool
}

// Commit renames the temp file over the target.
func (s *Staged) Commit() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := os.Rename(s.tmp, s.path); err != nil {
		_ = os.Remove(s.tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Discard removes the temp file. It is a no-op after Commit.
func (s *Staged) Discard() {
	if s.done {
		return
	}
	s.done = true
	_ = os.Remove(s.tmp)
}

// Batch writes several files so that either all of them appear or none do.
// Every file is staged first; targets are only replaced once all staging
// succeeded.
type Batch struct {
	writers []*batchWriter
}

// Add returns a Writer that stages its bytes for path. Nothing reaches path
// until Commit.
func (b *Batch) Add(path string) Writer {
	bw := &batchWriter{fw: FileWriter{Path: path}}
	b.writers = append(b.writers, bw)
	return bw
}

// Commit renames every staged file into place in the order they were added.
// If a writer was never written, or staging failed, nothing is renamed. If a
// rename fails, targets already renamed by this call are removed again.
func (b *Batch) Commit() error {
	var errs []error
	for _, bw := range b.writers {
		switch {
		case bw.err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", bw.fw.Path, bw.err))
		case bw.staged == nil:
			errs = append(errs, fmt.Errorf("%s: nothing written", bw.fw.Path))
		}
	}
	if len(errs) > 0 {
		b.Discard()
		return errors.Join(errs...)
	}

	for i, bw := range b.writers {
		if err := bw.staged.Commit(); err != nil {
			for _, prev := range b.writers[:i] {
				_ = os.Remove(prev.fw.Path)
			}
			b.Discard()
			return fmt.Errorf("%s: %w", bw.fw.Path, err)
		}
	}
	return nil
}

// Discard drops every staged file.
func (b *Batch) Discard() {
	for _, bw := range b.writers {
		if bw.staged != nil {
			bw.staged.Discard()
		}
	}
}

type batchWriter struct {
	fw     FileWriter
	staged *Staged
	err    error
}

func (w *batchWriter) WriteROM(buf []byte) error {
	if w.staged != nil {
		w.staged.Discard()
		w.staged = nil
	}
	w.staged, w.err = w.fw.Stage(buf)
	return w.err
}
