package analyze

import (
	"context"
	"sync"

	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/storage"
)

// DefaultChunkSize is the read size used when streaming file content
const DefaultChunkSize = 128 * 1024

// Analyzer computes content statistics of a single file.
// Each analysis is independent: one failing does not prevent the others.
type Analyzer struct {
	backend        storage.Backend
	bufferPool     *sync.Pool
	progressReport storage.ProgressFunc
}

// NewAnalyzer creates an analyzer reading through backend in chunks of chunkSize bytes.
// Chunks smaller than 4 KiB are raised to 4 KiB.
func NewAnalyzer(backend storage.Backend, chunkSize int) *Analyzer {
	if chunkSize < 4096 {
		chunkSize = 4096
	}
	return &Analyzer{
		backend: backend,
		bufferPool: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, chunkSize)
				return &buf
			},
		},
	}
}

// SetProgressCallback sets a callback for progress reporting during hashing
func (a *Analyzer) SetProgressCallback(callback storage.ProgressFunc) {
	a.progressReport = callback
}

// Analyze runs every analysis on path. size comes from inspection and may be unknown.
func (a *Analyzer) Analyze(ctx context.Context, path string, size models.Size) models.Analysis {
	var analysis models.Analysis

	if digest, err := a.Hash(ctx, path); err != nil {
		analysis.Hash = models.Fail[string](err)
	} else {
		analysis.Hash = models.Ok(digest)
	}

	if entropy, err := a.Entropy(ctx, path); err != nil {
		analysis.Entropy = models.Fail[models.Entropy](err)
	} else {
		analysis.Entropy = models.Ok(entropy)
	}

	analysis.Size = SizeStats(size)
	analysis.Effort = RecreationEffort(size)
	return analysis
}
