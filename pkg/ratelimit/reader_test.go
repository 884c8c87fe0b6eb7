package ratelimit

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

// TestNewLimiter tests the Limiter constructor
func TestNewLimiter(t *testing.T) {
	t.Run("ValidBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1024 * 1024)
		if limiter == nil {
			t.Fatal("NewLimiter() returned nil for valid input")
		}
		if limiter.BytesPerSecond() != 1024*1024 {
			t.Errorf("BytesPerSecond() = %d, want %d", limiter.BytesPerSecond(), 1024*1024)
		}
		if limiter.Burst() != 1024*1024 {
			t.Errorf("Burst() = %d, want one second of data", limiter.Burst())
		}
	})

	t.Run("ZeroBytesPerSecond", func(t *testing.T) {
		if NewLimiter(0) != nil {
			t.Error("NewLimiter(0) should return nil (no limiting)")
		}
	})

	t.Run("NegativeBytesPerSecond", func(t *testing.T) {
		if NewLimiter(-100) != nil {
			t.Error("NewLimiter(-100) should return nil (no limiting)")
		}
	})

	t.Run("SmallBytesPerSecond", func(t *testing.T) {
		limiter := NewLimiter(1000)
		if limiter.Burst() < minBurst {
			t.Errorf("Burst() = %d, want at least %d", limiter.Burst(), minBurst)
		}
	})

	t.Run("NilLimiterAccessors", func(t *testing.T) {
		var limiter *Limiter
		if limiter.BytesPerSecond() != 0 || limiter.Burst() != 0 {
			t.Error("nil limiter should report zero values")
		}
	})
}

func TestNewReaderNilLimiter(t *testing.T) {
	src := strings.NewReader("hello")
	if r := NewReader(context.Background(), src, nil); r != io.Reader(src) {
		t.Error("NewReader() with nil limiter should return the original reader")
	}
}

func TestReaderPreservesContent(t *testing.T) {
	data := bytes.Repeat([]byte("safedel"), 20000)
	limiter := NewLimiter(100 * 1024 * 1024)

	r := NewReader(context.Background(), bytes.NewReader(data), limiter)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Error("rate-limited reader altered the content")
	}
}

func TestReaderThrottles(t *testing.T) {
	const bps = 128 * 1024
	data := make([]byte, bps*2)
	limiter := NewLimiter(bps)

	start := time.Now()
	r := NewReader(context.Background(), bytes.NewReader(data), limiter)
	if _, err := io.Copy(io.Discard, r); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	// First second is served from the burst, the rest must wait
	if elapsed := time.Since(start); elapsed < 700*time.Millisecond {
		t.Errorf("reading %d bytes at %d B/s took %v, expected throttling", len(data), bps, elapsed)
	}
}

func TestReaderContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(ctx, strings.NewReader("data"), NewLimiter(1024))
	if _, err := r.Read(make([]byte, 4)); err == nil {
		t.Error("Read() should fail on a cancelled context")
	}
}

type closeRecorder struct {
	io.Reader
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestReadCloserClose(t *testing.T) {
	rec := &closeRecorder{Reader: strings.NewReader("x")}
	rc := NewReadCloser(context.Background(), rec, NewLimiter(1024))
	if err := rc.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !rec.closed {
		t.Error("Close() was not forwarded")
	}
}
