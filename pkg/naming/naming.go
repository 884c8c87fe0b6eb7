// Package naming generates collision-free file names for backups and trash entries.
//
// Names take the form <stem>_<timestamp>[_<n>]<ext><suffix>. The counter is added only when
// the plain name is taken and increments from 1 until a free name is found. The check is not
// atomic: a concurrent writer may take the name after it was chosen, so callers must still
// create or rename without clobbering.
package naming

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// TimestampLayout is the timestamp embedded in generated names
const TimestampLayout = "20060102_150405"

// ExistsFunc reports whether a path is occupied
type ExistsFunc func(ctx context.Context, path string) (bool, error)

// Generator builds unique destination paths
type Generator struct {
	now    func() time.Time
	exists ExistsFunc
}

// NewGenerator creates a generator. now defaults to time.Now when nil.
func NewGenerator(now func() time.Time, exists ExistsFunc) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now, exists: exists}
}

// Unique returns a path in dir derived from base that nothing currently occupies.
// suffix is appended after the original extension (".bak" for backups, "" for trash).
func (g *Generator) Unique(ctx context.Context, dir, base, suffix string) (string, error) {
	stem, ext := SplitExt(base)
	stamp := g.now().Format(TimestampLayout)

	candidate := filepath.Join(dir, fmt.Sprintf("%s_%s%s%s", stem, stamp, ext, suffix))
	for counter := 1; ; counter++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		taken, err := g.exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}

		candidate = filepath.Join(dir, fmt.Sprintf("%s_%s_%d%s%s", stem, stamp, counter, ext, suffix))
	}
}

// SplitExt splits a file name into stem and extension.
// Leading dots belong to the stem, so ".bashrc" has no extension
// and "archive.tar.gz" splits into "archive.tar" and ".gz".
func SplitExt(base string) (stem, ext string) {
	trimmed := strings.TrimLeft(base, ".")
	idx := strings.LastIndex(trimmed, ".")
	if idx <= 0 {
		return base, ""
	}
	cut := len(base) - len(trimmed) + idx
	return base[:cut], base[cut:]
}
