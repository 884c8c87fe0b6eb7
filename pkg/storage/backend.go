package storage

import (
	"context"
	"io"
	"os"
	"time"
)

// FileInfo represents metadata about a file
type FileInfo struct {
	Path        string
	Size        int64
	ModTime     time.Time
	IsDir       bool
	Regular     bool
	Permissions uint32

	// Raw is the underlying os.FileInfo, used for platform-specific fields such as birth time
	Raw os.FileInfo
}

// ProgressFunc receives the number of bytes processed so far out of total
type ProgressFunc func(path string, current, total int64)

// Backend defines the filesystem operations the deletion workflow relies on.
// All paths are absolute or relative to the process working directory.
type Backend interface {
	// Stat returns file metadata
	Stat(ctx context.Context, path string) (*FileInfo, error)

	// Exists checks if anything exists at path
	Exists(ctx context.Context, path string) (bool, error)

	// Read opens a file for reading
	Read(ctx context.Context, path string) (io.ReadCloser, error)

	// Copy copies src to a new file at dst, which must not exist.
	// If metadata is provided, timestamps and permissions are preserved.
	// On failure dst is removed and src is untouched.
	Copy(ctx context.Context, src, dst string, metadata *FileInfo) (int64, error)

	// Move relocates src to dst, which must not exist. On success src no longer
	// exists; on failure src is untouched.
	Move(ctx context.Context, src, dst string) error

	// Delete removes a single file
	Delete(ctx context.Context, path string) error

	// MkdirAll creates a directory and all necessary parents
	MkdirAll(ctx context.Context, path string) error

	// Close releases any resources held by the backend
	Close() error
}
