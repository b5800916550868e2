// Package source abstracts where file content comes from, so analyzers can
// read from the filesystem in production and from fixtures in tests.
package source

import "os"

// ContentSource provides file content from a specific source.
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

// MapSource serves content from an in-memory map keyed by path.
type MapSource struct {
	files map[string][]byte
}

// NewMap creates a source backed by the given path -> content map.
func NewMap(files map[string][]byte) *MapSource {
	return &MapSource{files: files}
}

// Read implements ContentSource.
func (m *MapSource) Read(path string) ([]byte, error) {
	content, ok := m.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return content, nil
}

// Paths returns all paths known to the source in arbitrary order.
func (m *MapSource) Paths() []string {
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	return paths
}
