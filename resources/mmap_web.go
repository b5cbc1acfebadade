//go:build js || wasip1

package resources

import (
	"io"
	"os"
)

// ReadMmap falls back to a full read on platforms without a real mmap
// syscall (wasip1, js/wasm).
func ReadMmap(file *os.File) (*[]byte, error) {
	contents, err := io.ReadAll(file)
	return &contents, err
}

// Unmap is a no-op on platforms where ReadMmap already copied the file.
func Unmap(data *[]byte) error {
	return nil
}
