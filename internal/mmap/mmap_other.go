//go:build !unix

package mmap

import (
	"fmt"
	"os"
)

// Open reads path into memory on platforms without mmap support.
func Open(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &File{data: data}, nil
}
