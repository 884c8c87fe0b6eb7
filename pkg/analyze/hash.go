package analyze

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

// Hash streams path through SHA-256 and returns the full hex digest
func (a *Analyzer) Hash(ctx context.Context, path string) (string, error) {
	info, err := a.backend.Stat(ctx, path)
	if err != nil {
		return "", err
	}
	fileSize := info.Size

	reader, err := a.backend.Read(ctx, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	hasher := sha256.New()

	bufPtr := a.bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer a.bufferPool.Put(bufPtr)

	// Progress throttling
	const (
		progressReportInterval = 50 * time.Millisecond
		progressReportBytes    = 1024 * 1024
	)
	var totalRead int64
	var lastReported int64
	lastReportTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		n, err := reader.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			totalRead += int64(n)

			if a.progressReport != nil &&
				(totalRead-lastReported >= progressReportBytes || time.Since(lastReportTime) >= progressReportInterval) {
				a.progressReport(path, totalRead, fileSize)
				lastReported = totalRead
				lastReportTime = time.Now()
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
	}

	// Ensure final progress report shows 100% completion
	if a.progressReport != nil && totalRead > lastReported {
		a.progressReport(path, totalRead, fileSize)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
