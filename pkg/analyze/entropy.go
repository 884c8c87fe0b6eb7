package analyze

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/sdejongh/safedel/pkg/models"
)

// Entropy computes the Shannon entropy of the bytes in path, in bits per byte.
// An empty file yields exactly zero with Empty set.
func (a *Analyzer) Entropy(ctx context.Context, path string) (models.Entropy, error) {
	reader, err := a.backend.Read(ctx, path)
	if err != nil {
		return models.Entropy{}, err
	}
	defer reader.Close()

	bufPtr := a.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer a.bufferPool.Put(bufPtr)

	var counts [256]uint64
	var total uint64
	for {
		select {
		case <-ctx.Done():
			return models.Entropy{}, ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		for _, b := range buffer[:n] {
			counts[b]++
		}
		total += uint64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Entropy{}, fmt.Errorf("failed to read file: %w", err)
		}
	}

	if total == 0 {
		return models.Entropy{Bits: 0, Empty: true}, nil
	}
	return models.Entropy{Bits: ShannonEntropy(&counts, total)}, nil
}

// ShannonEntropy returns -Σ p·log2(p) over the nonzero bins of a byte histogram,
// clamped to [0, 8]. total must be the sum of counts and non-zero.
func ShannonEntropy(counts *[256]uint64, total uint64) float64 {
	if total == 0 {
		return 0
	}

	entropy := 0.0
	n := float64(total)
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / n
		entropy -= p * math.Log2(p)
	}

	// Rounding can push a uniform histogram a hair past 8 or a single bin to -0
	return math.Max(0, math.Min(models.MaxEntropy, entropy))
}
