package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/ratelimit"
)

// DefaultBufferSize is the copy and read chunk size
const DefaultBufferSize = 128 * 1024

// Local is a filesystem-based storage backend
type Local struct {
	bufferSize     int
	bufferPool     *sync.Pool
	limiter        *ratelimit.Limiter
	progressReport ProgressFunc

	// rename is os.Rename; replaced in tests to simulate cross-device moves
	rename func(oldpath, newpath string) error
}

// NewLocal creates a new local filesystem backend.
// limiter may be nil for unthrottled copies.
func NewLocal(bufferSize int, limiter *ratelimit.Limiter) *Local {
	if bufferSize < 4096 {
		bufferSize = 4096
	}
	return &Local{
		bufferSize: bufferSize,
		limiter:    limiter,
		rename:     os.Rename,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, bufferSize)
				return &buf
			},
		},
	}
}

// BufferSize returns the chunk size used for reads and copies
func (l *Local) BufferSize() int {
	return l.bufferSize
}

// SetProgressCallback sets a callback for progress reporting during copies
func (l *Local) SetProgressCallback(callback ProgressFunc) {
	l.progressReport = callback
}

// Stat returns file metadata
func (l *Local) Stat(ctx context.Context, path string) (*FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", models.ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	return &FileInfo{
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		IsDir:       info.IsDir(),
		Regular:     info.Mode().IsRegular(),
		Permissions: uint32(info.Mode().Perm()),
		Raw:         info,
	}, nil
}

// Exists checks if a file or directory exists
func (l *Local) Exists(ctx context.Context, path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check existence: %w", err)
}

// Read opens a file for reading
func (l *Local) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	return ratelimit.NewReadCloser(ctx, file, l.limiter), nil
}

// Copy copies src into a newly created dst
func (l *Local) Copy(ctx context.Context, src, dst string, metadata *FileInfo) (written int64, err error) {
	srcInfo, err := l.Stat(ctx, src)
	if err != nil {
		return 0, err
	}
	if !srcInfo.Regular {
		return 0, fmt.Errorf("%w: %s", models.ErrNotRegular, src)
	}

	reader, err := l.Read(ctx, src)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	// O_EXCL: never overwrite whatever appeared at dst since the name was chosen
	file, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return 0, fmt.Errorf("%w: %s", models.ErrDestinationExists, dst)
		}
		return 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(dst)
		}
	}()

	written, err = l.copyData(ctx, file, reader, src, srcInfo.Size)
	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close file: %w", closeErr)
	}
	if err != nil {
		return written, err
	}

	if written != srcInfo.Size {
		err = fmt.Errorf("incomplete write: expected %d bytes, wrote %d", srcInfo.Size, written)
		return written, err
	}

	// Preserve metadata if provided
	if metadata != nil {
		// A zero mode is applied as well: a 000 source yields a 000 copy
		if err = os.Chmod(dst, os.FileMode(metadata.Permissions)); err != nil {
			err = fmt.Errorf("failed to set permissions: %w", err)
			return written, err
		}

		if !metadata.ModTime.IsZero() {
			if err = os.Chtimes(dst, metadata.ModTime, metadata.ModTime); err != nil {
				err = fmt.Errorf("failed to set modification time: %w", err)
				return written, err
			}
		}
	}

	return written, nil
}

func (l *Local) copyData(ctx context.Context, file *os.File, reader io.Reader, path string, total int64) (int64, error) {
	bufPtr := l.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer l.bufferPool.Put(bufPtr)

	var written int64
	for {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		n, readErr := reader.Read(buffer)
		if n > 0 {
			if _, err := file.Write(buffer[:n]); err != nil {
				return written, fmt.Errorf("failed to write file: %w", err)
			}
			written += int64(n)
			if l.progressReport != nil {
				l.progressReport(path, written, total)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return written, fmt.Errorf("failed to read file: %w", readErr)
		}
	}

	if err := file.Sync(); err != nil {
		return written, fmt.Errorf("failed to sync file: %w", err)
	}
	return written, nil
}

// Move renames src to dst, falling back to copy, verify and delete across filesystems
func (l *Local) Move(ctx context.Context, src, dst string) error {
	srcInfo, err := l.Stat(ctx, src)
	if err != nil {
		return err
	}

	exists, err := l.Exists(ctx, dst)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", models.ErrDestinationExists, dst)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	err = l.rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDeviceError(err) {
		return fmt.Errorf("failed to rename: %w", err)
	}

	if _, err := l.Copy(ctx, src, dst, srcInfo); err != nil {
		return fmt.Errorf("failed to copy across devices: %w", err)
	}

	same, err := SameContent(ctx, l, src, dst)
	if err == nil && !same {
		err = models.ErrContentMismatch
	}
	if err != nil {
		os.Remove(dst)
		return fmt.Errorf("failed to verify copy: %w", err)
	}

	if err := os.Remove(src); err != nil {
		// Keep a single copy: the untouched source
		os.Remove(dst)
		return fmt.Errorf("failed to remove source after copy: %w", err)
	}

	return nil
}

// Delete removes a single file
func (l *Local) Delete(ctx context.Context, path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}

	return nil
}

// MkdirAll creates a directory and all necessary parents
func (l *Local) MkdirAll(ctx context.Context, path string) error {
	err := os.MkdirAll(path, 0755)
	if err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	return nil
}

// Close releases resources (no-op for local filesystem)
func (l *Local) Close() error {
	return nil
}

func isCrossDeviceError(err error) bool {
	if errors.Is(err, syscall.EXDEV) {
		return true
	}

	// Windows reports ERROR_NOT_SAME_DEVICE rather than EXDEV
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "cross-device") || strings.Contains(msg, "different disk drive")
}
