// Package inspect reads file metadata and a text preview without modifying the file.
package inspect

import (
	"context"
	"os"
	"time"

	"github.com/sdejongh/safedel/internal/platform"
	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/storage"
)

// StatProvider is the platform capability the inspector depends on.
//
// BirthTime returns false when the platform or filesystem does not record creation
// times; the inspector then reports the modification time labelled as a fallback.
type StatProvider interface {
	Stat(ctx context.Context, path string) (*storage.FileInfo, error)
	BirthTime(path string, info *storage.FileInfo) (time.Time, bool)
}

// SystemStat implements StatProvider on the local filesystem
type SystemStat struct {
	Backend storage.Backend
}

// Stat returns file metadata
func (s SystemStat) Stat(ctx context.Context, path string) (*storage.FileInfo, error) {
	return s.Backend.Stat(ctx, path)
}

// BirthTime asks the platform for the file's creation time
func (s SystemStat) BirthTime(path string, info *storage.FileInfo) (time.Time, bool) {
	var raw os.FileInfo
	if info != nil {
		raw = info.Raw
	}
	return platform.BirthTime(path, raw)
}

// Inspector answers metadata questions about a path.
// None of its methods fail: problems surface as false or unknown values.
type Inspector struct {
	stat StatProvider
}

// NewInspector creates an inspector
func NewInspector(stat StatProvider) *Inspector {
	return &Inspector{stat: stat}
}

// Exists reports whether path resolves to a regular file.
// Malformed paths and stat failures of any kind yield false.
func (i *Inspector) Exists(ctx context.Context, path string) bool {
	if platform.ValidatePath(path) != nil {
		return false
	}
	info, err := i.stat.Stat(ctx, path)
	if err != nil {
		return false
	}
	return info.Regular
}

// Size returns the file size, unknown if the file is missing or cannot be read
func (i *Inspector) Size(ctx context.Context, path string) models.Size {
	info, ok := i.regular(ctx, path)
	if !ok {
		return models.Size{}
	}
	return models.KnownSize(info.Size)
}

// ModifiedAt returns the last modification time
func (i *Inspector) ModifiedAt(ctx context.Context, path string) models.Timestamp {
	info, ok := i.regular(ctx, path)
	if !ok {
		return models.Timestamp{Source: models.SourceUnknown}
	}
	return models.Timestamp{Time: info.ModTime, Source: models.SourceModTime}
}

// CreatedAt returns the birth time where available, otherwise the modification time
// with Source set to models.SourceModTime.
func (i *Inspector) CreatedAt(ctx context.Context, path string) models.Timestamp {
	info, ok := i.regular(ctx, path)
	if !ok {
		return models.Timestamp{Source: models.SourceUnknown}
	}
	if born, ok := i.stat.BirthTime(path, info); ok {
		return models.Timestamp{Time: born, Source: models.SourceBirthTime}
	}
	return models.Timestamp{Time: info.ModTime, Source: models.SourceModTime}
}

// Inspect gathers all metadata in one call
func (i *Inspector) Inspect(ctx context.Context, path string) models.TargetFile {
	target := models.TargetFile{
		Path:       path,
		CreatedAt:  models.Timestamp{Source: models.SourceUnknown},
		ModifiedAt: models.Timestamp{Source: models.SourceUnknown},
	}
	if !i.Exists(ctx, path) {
		return target
	}

	target.Exists = true
	target.Size = i.Size(ctx, path)
	target.CreatedAt = i.CreatedAt(ctx, path)
	target.ModifiedAt = i.ModifiedAt(ctx, path)
	return target
}

func (i *Inspector) regular(ctx context.Context, path string) (*storage.FileInfo, bool) {
	if platform.ValidatePath(path) != nil {
		return nil, false
	}
	info, err := i.stat.Stat(ctx, path)
	if err != nil || !info.Regular {
		return nil, false
	}
	return info, true
}
