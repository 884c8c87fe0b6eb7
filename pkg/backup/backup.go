package backup

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/naming"
	"github.com/sdejongh/safedel/pkg/storage"
)

// Suffix is appended to every backup file name
const Suffix = ".bak"

// Manager creates timestamped copies of a file next to the original
type Manager struct {
	backend storage.Backend
	names   *naming.Generator
}

// NewManager creates a backup manager. now defaults to time.Now when nil.
func NewManager(backend storage.Backend, now func() time.Time) *Manager {
	return &Manager{
		backend: backend,
		names:   naming.NewGenerator(now, backend.Exists),
	}
}

// Backup copies path to <stem>_<timestamp>[_<n>]<ext>.bak in the same directory
// and returns the new path. The source is never modified. On failure no backup file remains,
// unless removing an unverified copy fails; the error then names that copy.
func (m *Manager) Backup(ctx context.Context, path string) (string, error) {
	info, err := m.backend.Stat(ctx, path)
	if err != nil {
		return "", err
	}
	if !info.Regular {
		return "", fmt.Errorf("%w: %s", models.ErrNotRegular, path)
	}

	dest, err := m.names.Unique(ctx, filepath.Dir(path), filepath.Base(path), Suffix)
	if err != nil {
		return "", fmt.Errorf("failed to choose backup name: %w", err)
	}

	if _, err := m.backend.Copy(ctx, path, dest, info); err != nil {
		return "", fmt.Errorf("failed to copy to %s: %w", dest, err)
	}

	same, err := storage.SameContent(ctx, m.backend, path, dest)
	if err == nil && !same {
		err = models.ErrContentMismatch
	}
	if err != nil {
		if delErr := m.backend.Delete(ctx, dest); delErr != nil {
			return "", fmt.Errorf("failed to verify backup: %w (unverified copy left at %s: %w)", err, dest, delErr)
		}
		return "", fmt.Errorf("failed to verify backup: %w", err)
	}

	return dest, nil
}
