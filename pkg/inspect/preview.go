package inspect

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/storage"
)

// Placeholders shown instead of preview lines
const (
	PlaceholderEmpty  = "<File appears empty or contains only null bytes>"
	PlaceholderBinary = "<Binary file – text preview not available>"
)

const (
	// sniffSize bytes are checked for NUL bytes to detect binary content
	sniffSize = 8192
	// maxLineBytes bounds a single preview line so minified files cannot exhaust memory
	maxLineBytes = 64 * 1024
)

// Previewer renders the beginning of a file as text
type Previewer struct {
	backend storage.Backend
}

// NewPreviewer creates a previewer
func NewPreviewer(backend storage.Backend) *Previewer {
	return &Previewer{backend: backend}
}

// Preview returns at most maxLines lines of path decoded as UTF-8.
// Invalid byte sequences become U+FFFD. Binary or empty content yields a single placeholder.
func (p *Previewer) Preview(ctx context.Context, path string, maxLines int) (models.Preview, error) {
	reader, err := p.backend.Read(ctx, path)
	if err != nil {
		return models.Preview{}, err
	}
	defer reader.Close()

	// One extra byte tells whether content continues past the sniff window
	buffered := bufio.NewReaderSize(reader, sniffSize+1)
	head, err := buffered.Peek(sniffSize + 1)
	if err != nil && err != io.EOF {
		return models.Preview{}, err
	}
	truncated := len(head) > sniffSize
	if truncated {
		head = head[:sniffSize]
	}

	if len(bytes.Trim(head, "\x00")) == 0 {
		if truncated {
			return models.Preview{Placeholder: PlaceholderBinary}, nil
		}
		return models.Preview{Placeholder: PlaceholderEmpty}, nil
	}
	if !hasUTF16BOM(head) && bytes.IndexByte(head, 0) >= 0 {
		return models.Preview{Placeholder: PlaceholderBinary}, nil
	}

	// BOMOverride honours UTF-16 byte order marks; everything else is decoded as UTF-8
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(buffered, decoder))
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	scanner.Split(scanLinesTruncated)

	var lines []string
	for len(lines) < maxLines && scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil && len(lines) == 0 {
		return models.Preview{}, err
	}

	if len(lines) == 0 {
		return models.Preview{Placeholder: PlaceholderEmpty}, nil
	}
	return models.Preview{Lines: lines}, nil
}

func hasUTF16BOM(head []byte) bool {
	return bytes.HasPrefix(head, []byte{0xFE, 0xFF}) || bytes.HasPrefix(head, []byte{0xFF, 0xFE})
}

// scanLinesTruncated behaves like bufio.ScanLines but emits an over-long line
// as a truncated token instead of failing with bufio.ErrTooLong.
func scanLinesTruncated(data []byte, atEOF bool) (int, []byte, error) {
	advance, token, err := bufio.ScanLines(data, atEOF)
	if advance == 0 && token == nil && err == nil && len(data) >= maxLineBytes {
		return len(data), data[:maxLineBytes], nil
	}
	return advance, token, err
}
