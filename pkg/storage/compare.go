package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
)

// SameContent compares two files byte-by-byte.
// It is used to check that backups and cross-device moves produced an exact copy.
func SameContent(ctx context.Context, backend Backend, pathA, pathB string) (bool, error) {
	infoA, err := backend.Stat(ctx, pathA)
	if err != nil {
		return false, err
	}
	infoB, err := backend.Stat(ctx, pathB)
	if err != nil {
		return false, err
	}

	// Quick check: if sizes differ, files are different
	if infoA.Size != infoB.Size {
		return false, nil
	}

	readerA, err := backend.Read(ctx, pathA)
	if err != nil {
		return false, err
	}
	defer readerA.Close()

	readerB, err := backend.Read(ctx, pathB)
	if err != nil {
		return false, err
	}
	defer readerB.Close()

	const chunk = 64 * 1024
	bufA := make([]byte, chunk)
	bufB := make([]byte, chunk)

	for {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		nA, errA := io.ReadFull(readerA, bufA)
		nB, errB := io.ReadFull(readerB, bufB)

		if nA != nB || !bytes.Equal(bufA[:nA], bufB[:nB]) {
			return false, nil
		}

		doneA := errors.Is(errA, io.EOF) || errors.Is(errA, io.ErrUnexpectedEOF)
		doneB := errors.Is(errB, io.EOF) || errors.Is(errB, io.ErrUnexpectedEOF)
		if errA != nil && !doneA {
			return false, fmt.Errorf("failed to read %s: %w", pathA, errA)
		}
		if errB != nil && !doneB {
			return false, fmt.Errorf("failed to read %s: %w", pathB, errB)
		}
		if doneA || doneB {
			return doneA && doneB, nil
		}
	}
}
