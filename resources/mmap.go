// Package resources provides memory-mapped access to the large text files
// the chunked driver streams through, so a multi-gigabyte corpus never
// needs a full in-process copy.
//
//go:build !wasip1 && !js

package resources

import (
	"os"

	"github.com/edsrzf/mmap-go"
)

// ReadMmap maps file read-only and returns a pointer to the mapping so
// Unmap can release it later.
func ReadMmap(file *os.File) (*[]byte, error) {
	fileMmap, mmapErr := mmap.Map(file, mmap.RDONLY, 0)
	mmapBytes := (*[]byte)(&fileMmap)
	return mmapBytes, mmapErr
}

// Unmap releases a mapping obtained from ReadMmap.
func Unmap(data *[]byte) error {
	m := mmap.MMap(*data)
	return m.Unmap()
}
