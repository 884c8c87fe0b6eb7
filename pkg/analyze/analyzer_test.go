package analyze

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/storage"
)

const emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

func newAnalyzer() *Analyzer {
	return NewAnalyzer(storage.NewLocal(storage.DefaultBufferSize, nil), DefaultChunkSize)
}

func writeTemp(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func TestHashKnownAnswers(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    string
	}{
		{"Empty", nil, emptySHA256},
		{"ABC", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newAnalyzer().Hash(context.Background(), writeTemp(t, "f", tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	// Sizes straddle the chunk boundary
	for _, size := range []int{1, 4095, 4096, 4097, DefaultChunkSize - 1, DefaultChunkSize, 3*DefaultChunkSize + 17} {
		content := make([]byte, size)
		rng.Read(content)
		sum := sha256.Sum256(content)

		a := NewAnalyzer(storage.NewLocal(storage.DefaultBufferSize, nil), 4096)
		got, err := a.Hash(context.Background(), writeTemp(t, "r", content))
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(sum[:]), got, "size %d", size)
		assert.Len(t, got, 64, "digest must never be truncated")
	}
}

func TestHashProgress(t *testing.T) {
	content := bytes.Repeat([]byte{1}, 3*1024*1024)
	a := newAnalyzer()

	var last, total int64
	a.SetProgressCallback(func(_ string, current, size int64) {
		last, total = current, size
	})

	_, err := a.Hash(context.Background(), writeTemp(t, "big", content))
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), last)
	assert.Equal(t, int64(len(content)), total)
}

func TestHashMissingFile(t *testing.T) {
	_, err := newAnalyzer().Hash(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestHashCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newAnalyzer().Hash(ctx, writeTemp(t, "f", []byte("x")))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntropy(t *testing.T) {
	uniform := make([]byte, 256*64)
	for i := range uniform {
		uniform[i] = byte(i)
	}
	twoValues := bytes.Repeat([]byte{'a', 'b'}, 500)

	tests := []struct {
		name    string
		content []byte
		want    float64
		empty   bool
	}{
		{"Empty", nil, 0, true},
		{"AllZero", make([]byte, 10000), 0, false},
		{"SingleByte", []byte{0x7F}, 0, false},
		{"TwoValues", twoValues, 1, false},
		{"Uniform", uniform, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newAnalyzer().Entropy(context.Background(), writeTemp(t, "e", tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.empty, got.Empty)
			assert.InDelta(t, tt.want, got.Bits, 1e-9)
			assert.GreaterOrEqual(t, got.Bits, 0.0)
			assert.LessOrEqual(t, got.Bits, models.MaxEntropy)
		})
	}
}

func TestEntropyRandomApproachesEight(t *testing.T) {
	content := make([]byte, 1<<20)
	rand.New(rand.NewSource(7)).Read(content)

	got, err := newAnalyzer().Entropy(context.Background(), writeTemp(t, "rnd", content))
	require.NoError(t, err)
	assert.Greater(t, got.Bits, 7.99)
	assert.LessOrEqual(t, got.Bits, 8.0)
}

func TestShannonEntropyBounds(t *testing.T) {
	var counts [256]uint64
	assert.Equal(t, 0.0, ShannonEntropy(&counts, 0))

	counts[3] = 5
	got := ShannonEntropy(&counts, 5)
	assert.False(t, math.Signbit(got), "single bin must be +0, not -0")
	assert.False(t, math.IsNaN(got))
}

func TestSizeStats(t *testing.T) {
	unknown := SizeStats(models.Size{})
	assert.False(t, unknown.Size.Known)
	assert.False(t, unknown.Empty)

	empty := SizeStats(models.KnownSize(0))
	assert.True(t, empty.Empty)
	assert.Zero(t, empty.Log2)
	assert.False(t, math.IsInf(empty.Log2, -1))

	stats := SizeStats(models.KnownSize(1024))
	assert.False(t, stats.Empty)
	assert.InDelta(t, 10.0, stats.Log2, 1e-12)
	assert.InDelta(t, 32.0, stats.Sqrt, 1e-12)
}

func TestRecreationEffort(t *testing.T) {
	assert.False(t, RecreationEffort(models.Size{}).Known)
	assert.False(t, RecreationEffort(models.KnownSize(0)).Known)

	effort := RecreationEffort(models.KnownSize(10000))
	assert.True(t, effort.Known)
	assert.InDelta(t, 10.0, effort.Units, 1e-12)
}

func TestAnalyzeBestEffort(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	analysis := newAnalyzer().Analyze(context.Background(), missing, models.Size{})

	assert.False(t, analysis.Hash.Succeeded())
	assert.False(t, analysis.Entropy.Succeeded())
	assert.False(t, analysis.Effort.Known)
}

func TestAnalyzeEmptyFile(t *testing.T) {
	path := writeTemp(t, "empty", nil)
	analysis := newAnalyzer().Analyze(context.Background(), path, models.KnownSize(0))

	require.True(t, analysis.Hash.Succeeded())
	assert.Equal(t, emptySHA256, analysis.Hash.Value)
	require.True(t, analysis.Entropy.Succeeded())
	assert.True(t, analysis.Entropy.Value.Empty)
	assert.Equal(t, 0.0, analysis.Entropy.Value.Bits)
	assert.True(t, analysis.Size.Empty)
	assert.False(t, analysis.Effort.Known)
}
