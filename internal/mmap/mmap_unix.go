//go:build unix

package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Open maps path into memory for reading.
//
//	f, err := mmap.Open("large.csv")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
func Open(path string) (*File, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fd.Close()

	stat, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	size := stat.Size()
	if size == 0 {
		return &File{data: []byte{}}, nil
	}
	if size != int64(int(size)) {
		return nil, fmt.Errorf("mmap %s: file too large (%d bytes)", path, size)
	}

	// The mapping stays valid after the descriptor is closed.
	data, err := unix.Mmap(int(fd.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	return &File{
		data:  data,
		unmap: func() error { return unix.Munmap(data) },
	}, nil
}
