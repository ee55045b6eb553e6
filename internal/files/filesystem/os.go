package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSFileSystem implements Provider for a directory on disk.
type OSFileSystem struct {
	root string
}

// NewOSFileSystem creates a provider rooted at dir.
func NewOSFileSystem(dir string) *OSFileSystem {
	return &OSFileSystem{root: dir}
}

func (p *OSFileSystem) path(name string) string {
	return filepath.Join(p.root, filepath.FromSlash(name))
}

func (p *OSFileSystem) ReadFile(name string) ([]byte, error) {
	data, err := os.ReadFile(p.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return data, nil
}

func (p *OSFileSystem) ReadDir(name string) ([]FileInfo, error) {
	entries, err := os.ReadDir(p.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	result := make([]FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to get file info for %s: %w", entry.Name(), err)
		}
		result = append(result, info)
	}

	return result, nil
}

func (p *OSFileSystem) Stat(name string) (FileInfo, error) {
	return os.Stat(p.path(name))
}

func (p *OSFileSystem) Describe() string {
	return p.root
}
