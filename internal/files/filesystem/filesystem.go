package filesystem

import (
	"io/fs"
)

// FileInfo is an alias for fs.FileInfo from the standard library.
type FileInfo = fs.FileInfo

// Provider reads files relative to its root. Paths always use forward slashes.
// A missing file yields an error matching fs.ErrNotExist.
type Provider interface {
	// ReadFile returns the content of the named file.
	ReadFile(name string) ([]byte, error)

	// ReadDir returns the entries of the named directory sorted by name.
	ReadDir(name string) ([]FileInfo, error)

	// Stat returns file information for the named path.
	Stat(name string) (FileInfo, error)

	// Describe names the provider's root for log and error messages.
	Describe() string
}
