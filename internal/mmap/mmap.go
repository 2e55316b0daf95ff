// Package mmap opens input files as read-only byte slices.
//
// On Unix the file is memory-mapped, so opening a large CSV costs no reads
// up front and the OS pages data in as the parser advances. Elsewhere the
// file is read into memory.
package mmap

import (
	"bytes"
	"errors"
)

// ErrClosed is returned by operations on a closed File.
var ErrClosed = errors.New("mmap: file closed")

// File is an opened input. Its data must not be used after Close.
type File struct {
	data   []byte
	unmap  func() error
	closed bool
}

// Bytes returns the file contents.
func (f *File) Bytes() []byte {
	return f.data
}

// Size returns the file length in bytes.
func (f *File) Size() int64 {
	return int64(len(f.data))
}

// Reader returns a new seekable reader over the contents.
func (f *File) Reader() *bytes.Reader {
	return bytes.NewReader(f.data)
}

// Close releases the mapping. Calling it twice returns ErrClosed.
func (f *File) Close() error {
	if f.closed {
		return ErrClosed
	}
	f.closed = true
	f.data = nil
	if f.unmap == nil {
		return nil
	}
	return f.unmap()
}
