package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
	"time"

	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/ratelimit"
)

func writeFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

// TestNewLocal tests the Local backend constructor
func TestNewLocal(t *testing.T) {
	t.Run("MinimumBufferSize", func(t *testing.T) {
		local := NewLocal(16, nil)
		if local.BufferSize() != 4096 {
			t.Errorf("BufferSize() = %d, want 4096", local.BufferSize())
		}
	})

	t.Run("CustomBufferSize", func(t *testing.T) {
		local := NewLocal(DefaultBufferSize, nil)
		if local.BufferSize() != DefaultBufferSize {
			t.Errorf("BufferSize() = %d, want %d", local.BufferSize(), DefaultBufferSize)
		}
	})
}

// TestLocalStat tests the Stat method
func TestLocalStat(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal(DefaultBufferSize, nil)
	ctx := context.Background()

	filePath := filepath.Join(tempDir, "test.txt")
	writeFile(t, filePath, []byte("hello"))

	t.Run("RegularFile", func(t *testing.T) {
		info, err := local.Stat(ctx, filePath)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Size != 5 {
			t.Errorf("Size = %d, want 5", info.Size)
		}
		if !info.Regular || info.IsDir {
			t.Errorf("Regular = %v, IsDir = %v, want regular file", info.Regular, info.IsDir)
		}
		if info.Raw == nil {
			t.Error("Raw should carry the os.FileInfo")
		}
	})

	t.Run("Directory", func(t *testing.T) {
		info, err := local.Stat(ctx, tempDir)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Regular || !info.IsDir {
			t.Error("directory should not be reported as a regular file")
		}
	})

	t.Run("Missing", func(t *testing.T) {
		_, err := local.Stat(ctx, filepath.Join(tempDir, "missing"))
		if !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Stat() error = %v, want ErrNotFound", err)
		}
	})
}

// TestLocalExists tests the Exists method
func TestLocalExists(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal(DefaultBufferSize, nil)
	ctx := context.Background()

	filePath := filepath.Join(tempDir, "exists.txt")
	writeFile(t, filePath, []byte("x"))

	exists, err := local.Exists(ctx, filePath)
	if err != nil || !exists {
		t.Errorf("Exists() = %v, %v, want true", exists, err)
	}

	exists, err = local.Exists(ctx, filepath.Join(tempDir, "nope"))
	if err != nil || exists {
		t.Errorf("Exists() = %v, %v, want false", exists, err)
	}
}

// TestLocalRead tests the Read method
func TestLocalRead(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal(DefaultBufferSize, ratelimit.NewLimiter(10*1024*1024))
	ctx := context.Background()

	content := []byte("test content for reading")
	filePath := filepath.Join(tempDir, "test.txt")
	writeFile(t, filePath, content)

	reader, err := local.Read(ctx, filePath)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(data, content) {
		t.Errorf("Read() content = %s, want %s", string(data), string(content))
	}

	if _, err := local.Read(ctx, filepath.Join(tempDir, "nonexistent.txt")); err == nil {
		t.Error("Read() should fail for non-existent file")
	}
}

// TestLocalCopy tests the Copy method
func TestLocalCopy(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal(4096, nil)
	ctx := context.Background()

	content := bytes.Repeat([]byte("0123456789"), 2000)
	src := filepath.Join(tempDir, "src.bin")
	writeFile(t, src, content)

	t.Run("CopyNewFile", func(t *testing.T) {
		dst := filepath.Join(tempDir, "copy.bin")
		written, err := local.Copy(ctx, src, dst, nil)
		if err != nil {
			t.Fatalf("Copy() error = %v", err)
		}
		if written != int64(len(content)) {
			t.Errorf("written = %d, want %d", written, len(content))
		}

		data, err := os.ReadFile(dst)
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !bytes.Equal(data, content) {
			t.Error("copied content differs from source")
		}
	})

	t.Run("CopyWithMetadata", func(t *testing.T) {
		modTime := time.Now().Add(-24 * time.Hour).Truncate(time.Second)
		metadata := &FileInfo{ModTime: modTime, Permissions: 0600}

		dst := filepath.Join(tempDir, "meta.bin")
		if _, err := local.Copy(ctx, src, dst, metadata); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}

		info, err := os.Stat(dst)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if !info.ModTime().Truncate(time.Second).Equal(modTime) {
			t.Errorf("ModTime = %v, want %v", info.ModTime().Truncate(time.Second), modTime)
		}
		if info.Mode().Perm() != os.FileMode(0600) {
			t.Errorf("Permissions = %v, want %v", info.Mode().Perm(), os.FileMode(0600))
		}
	})

	t.Run("CopyWithZeroPermissions", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("POSIX permission bits are not preserved on Windows")
		}

		dst := filepath.Join(tempDir, "locked.bin")
		if _, err := local.Copy(ctx, src, dst, &FileInfo{Permissions: 0}); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}

		info, err := os.Stat(dst)
		if err != nil {
			t.Fatalf("Stat() error = %v", err)
		}
		if info.Mode().Perm() != 0 {
			t.Errorf("Permissions = %v, want %v", info.Mode().Perm(), os.FileMode(0))
		}
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		dst := filepath.Join(tempDir, "occupied.bin")
		writeFile(t, dst, []byte("keep me"))

		_, err := local.Copy(ctx, src, dst, nil)
		if !errors.Is(err, models.ErrDestinationExists) {
			t.Fatalf("Copy() error = %v, want ErrDestinationExists", err)
		}

		data, _ := os.ReadFile(dst)
		if string(data) != "keep me" {
			t.Error("Copy() clobbered an existing file")
		}
	})

	t.Run("MissingSource", func(t *testing.T) {
		dst := filepath.Join(tempDir, "never.bin")
		if _, err := local.Copy(ctx, filepath.Join(tempDir, "missing"), dst, nil); err == nil {
			t.Error("Copy() should fail for a missing source")
		}
		if _, err := os.Stat(dst); !os.IsNotExist(err) {
			t.Error("failed Copy() left a destination file behind")
		}
	})

	t.Run("CancelledContextCleansUp", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		dst := filepath.Join(tempDir, "cancelled.bin")
		if _, err := local.Copy(cctx, src, dst, nil); err == nil {
			t.Fatal("Copy() should fail on a cancelled context")
		}
		if _, err := os.Stat(dst); !os.IsNotExist(err) {
			t.Error("failed Copy() left a partial destination file")
		}
		if _, err := os.Stat(src); err != nil {
			t.Error("failed Copy() touched the source")
		}
	})

	t.Run("ProgressCallback", func(t *testing.T) {
		var last, total int64
		local.SetProgressCallback(func(path string, current, size int64) {
			last, total = current, size
		})
		defer local.SetProgressCallback(nil)

		if _, err := local.Copy(ctx, src, filepath.Join(tempDir, "progress.bin"), nil); err != nil {
			t.Fatalf("Copy() error = %v", err)
		}
		if last != int64(len(content)) || total != int64(len(content)) {
			t.Errorf("final progress = %d/%d, want %d/%d", last, total, len(content), len(content))
		}
	})
}

// TestLocalMove tests the Move method
func TestLocalMove(t *testing.T) {
	ctx := context.Background()

	t.Run("SameFilesystem", func(t *testing.T) {
		tempDir := t.TempDir()
		local := NewLocal(DefaultBufferSize, nil)
		src := filepath.Join(tempDir, "a.txt")
		dst := filepath.Join(tempDir, "trash", "nested", "a.txt")
		writeFile(t, src, []byte("move me"))

		if err := local.Move(ctx, src, dst); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Error("source still exists after Move()")
		}
		data, err := os.ReadFile(dst)
		if err != nil || string(data) != "move me" {
			t.Errorf("destination content = %q, %v", data, err)
		}
	})

	t.Run("RefusesOverwrite", func(t *testing.T) {
		tempDir := t.TempDir()
		local := NewLocal(DefaultBufferSize, nil)
		src := filepath.Join(tempDir, "a.txt")
		dst := filepath.Join(tempDir, "b.txt")
		writeFile(t, src, []byte("source"))
		writeFile(t, dst, []byte("existing"))

		if err := local.Move(ctx, src, dst); !errors.Is(err, models.ErrDestinationExists) {
			t.Fatalf("Move() error = %v, want ErrDestinationExists", err)
		}
		data, _ := os.ReadFile(dst)
		if string(data) != "existing" {
			t.Error("Move() clobbered the destination")
		}
		if _, err := os.Stat(src); err != nil {
			t.Error("failed Move() removed the source")
		}
	})

	t.Run("CrossDeviceFallback", func(t *testing.T) {
		tempDir := t.TempDir()
		local := NewLocal(DefaultBufferSize, nil)
		local.rename = func(oldpath, newpath string) error {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
		}

		content := bytes.Repeat([]byte{0xAB, 0x00, 0x17}, 50000)
		src := filepath.Join(tempDir, "big.bin")
		dst := filepath.Join(tempDir, "other", "big.bin")
		writeFile(t, src, content)

		if err := local.Move(ctx, src, dst); err != nil {
			t.Fatalf("Move() error = %v", err)
		}
		if _, err := os.Stat(src); !os.IsNotExist(err) {
			t.Error("source still exists after cross-device Move()")
		}
		data, err := os.ReadFile(dst)
		if err != nil || !bytes.Equal(data, content) {
			t.Error("cross-device Move() produced an incomplete copy")
		}
	})

	t.Run("RenameFailureKeepsSource", func(t *testing.T) {
		tempDir := t.TempDir()
		local := NewLocal(DefaultBufferSize, nil)
		local.rename = func(oldpath, newpath string) error {
			return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EACCES}
		}

		src := filepath.Join(tempDir, "a.txt")
		dst := filepath.Join(tempDir, "trash", "a.txt")
		writeFile(t, src, []byte("stay"))

		if err := local.Move(ctx, src, dst); err == nil {
			t.Fatal("Move() should fail when rename fails")
		}
		if _, err := os.Stat(src); err != nil {
			t.Error("source was touched by a failed Move()")
		}
		if _, err := os.Stat(dst); !os.IsNotExist(err) {
			t.Error("failed Move() left a destination file")
		}
	})
}

// TestLocalDeleteAndMkdir tests Delete and MkdirAll
func TestLocalDeleteAndMkdir(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal(DefaultBufferSize, nil)
	ctx := context.Background()

	dir := filepath.Join(tempDir, "a", "b", "c")
	if err := local.MkdirAll(ctx, dir); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := local.MkdirAll(ctx, dir); err != nil {
		t.Fatalf("MkdirAll() on existing dir error = %v", err)
	}

	file := filepath.Join(dir, "f.txt")
	writeFile(t, file, []byte("x"))
	if err := local.Delete(ctx, file); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(file); !os.IsNotExist(err) {
		t.Error("file still exists after Delete()")
	}
	if err := local.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestSameContent(t *testing.T) {
	tempDir := t.TempDir()
	local := NewLocal(DefaultBufferSize, nil)
	ctx := context.Background()

	content := bytes.Repeat([]byte("abc"), 70000)
	a := filepath.Join(tempDir, "a")
	b := filepath.Join(tempDir, "b")
	c := filepath.Join(tempDir, "c")
	empty1 := filepath.Join(tempDir, "e1")
	empty2 := filepath.Join(tempDir, "e2")
	writeFile(t, a, content)
	writeFile(t, b, content)

	modified := append([]byte(nil), content...)
	modified[len(modified)-1] = 'z'
	writeFile(t, c, modified)
	writeFile(t, empty1, nil)
	writeFile(t, empty2, nil)

	tests := []struct {
		name string
		x, y string
		want bool
	}{
		{"Identical", a, b, true},
		{"LastByteDiffers", a, c, false},
		{"SizeDiffers", a, empty1, false},
		{"BothEmpty", empty1, empty2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SameContent(ctx, local, tt.x, tt.y)
			if err != nil {
				t.Fatalf("SameContent() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SameContent() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, err := SameContent(ctx, local, a, filepath.Join(tempDir, "missing")); err == nil {
		t.Error("SameContent() should fail for a missing file")
	}
}
