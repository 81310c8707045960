// Copyright 2023 The flatgeobuf (Go) Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package spill provides a temporary-file backed scratch buffer used by
// the two-pass FlatGeobuf writer to hold feature data between the first
// pass (buffering features, computing the spatial extent) and the
// second pass (writing the final header, index, and data sections).
package spill

import (
	"io"
	"os"
)

// A File is a readable and writable temporary file which is
// best-effort unlinked from the filesystem namespace as soon as it is
// created, so that it cannot outlive an abnormal process exit.
type File struct {
	f    *os.File
	path string
}

// New creates a new spill File in dir, or the default temporary
// directory if dir is empty.
func New(dir string) (*File, error) {
	f, err := os.CreateTemp(dir, "flatgeobuf-spill-*")
	if err != nil {
		return nil, err
	}
	sf := &File{f: f, path: f.Name()}
	unlinkEager(sf)
	return sf, nil
}

// Write appends p to the spill file's current write position.
func (sf *File) Write(p []byte) (int, error) {
	return sf.f.Write(p)
}

// Read reads sequentially from the spill file's shared file
// descriptor offset, the same one advanced by Write and Seek.
func (sf *File) Read(p []byte) (int, error) {
	return sf.f.Read(p)
}

// ReadAt reads from an arbitrary offset in the spill file, leaving the
// write position undisturbed.
func (sf *File) ReadAt(p []byte, off int64) (int, error) {
	return sf.f.ReadAt(p, off)
}

// Seek repositions the spill file's cursor, for sequential re-reads of
// previously written data.
func (sf *File) Seek(offset int64, whence int) (int64, error) {
	return sf.f.Seek(offset, whence)
}

// Size returns the number of bytes written to the spill file so far.
func (sf *File) Size() (int64, error) {
	off, err := sf.f.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	return off, nil
}

// Close releases the underlying file descriptor and, if the file was
// not already unlinked eagerly, removes it from disk.
func (sf *File) Close() error {
	err := sf.f.Close()
	if sf.path != "" {
		if rmErr := os.Remove(sf.path); rmErr != nil && err == nil && !os.IsNotExist(rmErr) {
			err = rmErr
		}
	}
	return err
}
