package search

import (
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// FileMapper turns an open file into its contents as one readable
// byte sequence. It is the engine's only view of file contents, kept
// behind an interface so scans can be driven without real mappings
// in tests.
type FileMapper interface {
	// Map returns the file's bytes and a release function. Each scan
	// task exclusively owns its mapping for the task's lifetime.
	Map(f *os.File) (data []byte, release func() error, err error)
}

// MmapFiles maps files with mmap(2). Zero-length files cannot be
// mapped and surface as file IO errors, the same as an unreadable
// file.
type MmapFiles struct{}

// Map implements FileMapper.
func (MmapFiles) Map(f *os.File) ([]byte, func() error, error) {
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, nil, err
	}
	return m, m.Unmap, nil
}
