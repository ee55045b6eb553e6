// Package filesystem provides read-only file access over the OS filesystem
// and embedded file sets, so SQL scripts can ship inside the binary and still
// be overridden from a directory on disk.
//
// Implementations:
//   - OSFileSystem: files under a directory on disk
//   - EmbedFileSystem: files under a root inside an embed.FS
//   - Overlay: the first layer that has a file wins
package filesystem
