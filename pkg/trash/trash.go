package trash

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/naming"
	"github.com/sdejongh/safedel/pkg/storage"
)

// Mover relocates files into a trash root instead of deleting them
type Mover struct {
	backend storage.Backend
	root    string
	names   *naming.Generator
}

// NewMover creates a mover for the given trash root. now defaults to time.Now when nil.
func NewMover(backend storage.Backend, root string, now func() time.Time) *Mover {
	return &Mover{
		backend: backend,
		root:    root,
		names:   naming.NewGenerator(now, backend.Exists),
	}
}

// Root returns the trash directory
func (m *Mover) Root() string {
	return m.root
}

// EnsureRoot creates the trash root and its parents if missing. It is idempotent.
func (m *Mover) EnsureRoot(ctx context.Context) error {
	return m.backend.MkdirAll(ctx, m.root)
}

// MoveToTrash moves path to <root>/<stem>_<timestamp>[_<n>]<ext> and returns the absolute
// destination. On success path no longer exists; on failure it is untouched.
func (m *Mover) MoveToTrash(ctx context.Context, path string) (string, error) {
	if err := m.EnsureRoot(ctx); err != nil {
		return "", fmt.Errorf("failed to prepare trash directory: %w", err)
	}

	info, err := m.backend.Stat(ctx, path)
	if err != nil {
		return "", fmt.Errorf("cannot move: %w", err)
	}
	if !info.Regular {
		return "", fmt.Errorf("cannot move: %w: %s", models.ErrNotRegular, path)
	}

	dest, err := m.names.Unique(ctx, m.root, filepath.Base(path), "")
	if err != nil {
		return "", fmt.Errorf("failed to choose trash name: %w", err)
	}

	if err := m.backend.Move(ctx, path, dest); err != nil {
		return "", fmt.Errorf("failed to move file to trash: %w", err)
	}

	if abs, err := filepath.Abs(dest); err == nil {
		dest = abs
	}
	return dest, nil
}
