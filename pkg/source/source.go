// Package source abstracts where file content comes from, so builds
// can read from the filesystem and tests from memory.
package source

import (
	"fmt"
	"os"
)

// ContentSource provides file content for a path.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// MemorySource serves content from an in-memory map keyed by path.
type MemorySource struct {
	files map[string][]byte
}

// NewMemory creates a source backed by the given map.
func NewMemory(files map[string][]byte) *MemorySource {
	return &MemorySource{files: files}
}

// Read implements ContentSource.
func (m *MemorySource) Read(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("no content for %s", path)
	}
	return content, nil
}
