package filesystem

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
)

// EmbedFileSystem implements Provider over an fs.FS, typically an embed.FS.
type EmbedFileSystem struct {
	fsys fs.FS
	root string // always uses forward slashes
}

// NewEmbedFileSystem wraps fsys, treating root as the top directory.
func NewEmbedFileSystem(fsys fs.FS, root string) *EmbedFileSystem {
	return &EmbedFileSystem{fsys: fsys, root: path.Clean(root)}
}

func (efs *EmbedFileSystem) path(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" || name == "." {
		return efs.root
	}
	return path.Clean(path.Join(efs.root, name))
}

func (efs *EmbedFileSystem) ReadFile(name string) ([]byte, error) {
	content, err := fs.ReadFile(efs.fsys, efs.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", name, err)
	}
	return content, nil
}

func (efs *EmbedFileSystem) ReadDir(name string) ([]FileInfo, error) {
	entries, err := fs.ReadDir(efs.fsys, efs.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", name, err)
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

func (efs *EmbedFileSystem) Stat(name string) (FileInfo, error) {
	info, err := fs.Stat(efs.fsys, efs.path(name))
	if err != nil {
		return nil, fmt.Errorf("failed to stat path %s: %w", name, err)
	}
	return info, nil
}

func (efs *EmbedFileSystem) Describe() string {
	return "embedded:" + efs.root
}
