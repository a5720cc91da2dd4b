// Package atomicfile writes files by writing to a temporary file in the same
// directory first and renaming it into place on success. Readers never see a
// partially written file, and a failed write leaves any previous file intact.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"
)

// File is a temporary file, which will replace the target file on Close.
type File struct {
	*os.File
	target  string
	perm    os.FileMode
	aborted bool
}

// New creates a temporary file next to filename. Call Close to move it into
// place or Abort to discard it.
func New(filename string) (*File, error) {
	return NewPerm(filename, 0644)
}

// NewPerm is like New, but the final file will have the given permissions.
func NewPerm(filename string, perm os.FileMode) (*File, error) {
	dir, name := filepath.Split(filename)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+name+".tmp-*")
	if err != nil {
		return nil, err
	}
	return &File{File: f, target: filename, perm: perm}, nil
}

// Close syncs and closes the temporary file, then renames it to the target.
// Any error results in the temporary file being removed.
func (f *File) Close() error {
	if f.aborted {
		return nil
	}
	err := f.File.Sync()
	if closeErr := f.File.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(f.Name(), f.perm)
	}
	if err == nil {
		err = os.Rename(f.Name(), f.target)
	}
	if err != nil {
		os.Remove(f.Name())
		return fmt.Errorf("atomicfile: %s: %w", f.target, err)
	}
	return nil
}

// Abort closes and removes the temporary file, leaving the target untouched.
func (f *File) Abort() error {
	if f.aborted {
		return nil
	}
	f.aborted = true
	f.File.Close()
	return os.Remove(f.Name())
}

// WriteFile writes data to filename atomically.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	f, err := NewPerm(filename, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}

// WriteJSON writes v as indented JSON to filename atomically. HTML characters
// are not escaped.
func WriteJSON(filename string, v any) error {
	f, err := New(filename)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		f.Abort()
		return err
	}
	return f.Close()
}
