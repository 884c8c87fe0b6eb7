package models

import (
	"time"
)

// TimeSource records where a reported creation time came from
type TimeSource string

const (
	// SourceBirthTime is a true file-birth time reported by the platform
	SourceBirthTime TimeSource = "birth"
	// SourceModTime is the modification time used because birth time is unavailable
	SourceModTime TimeSource = "mtime-fallback"
	// SourceUnknown means no timestamp could be read
	SourceUnknown TimeSource = "unknown"
)

// Timestamp is a best-effort time value
type Timestamp struct {
	Time   time.Time
	Source TimeSource
}

// Known reports whether the timestamp holds a value
func (t Timestamp) Known() bool {
	return t.Source != SourceUnknown && !t.Time.IsZero()
}

// Size is a byte count that may be unknown
type Size struct {
	Bytes int64
	Known bool
}

// KnownSize returns a known size
func KnownSize(n int64) Size {
	return Size{Bytes: n, Known: true}
}

// TargetFile describes the file a workflow operates on.
// All attributes are derived at inspection time and never persisted.
type TargetFile struct {
	// Path is the normalized path the user supplied
	Path string

	// Exists is true when Path resolves to a regular file
	Exists bool

	// Size in bytes
	Size Size

	// CreatedAt is the birth time, or the modification time as a labelled fallback
	CreatedAt Timestamp

	// ModifiedAt is the last modification time
	ModifiedAt Timestamp
}

// Preview holds the first lines of a file rendered as text
type Preview struct {
	Lines []string

	// Placeholder replaces Lines when no text could be shown
	Placeholder string
}

// Empty reports whether the preview only carries a placeholder
func (p Preview) Empty() bool {
	return len(p.Lines) == 0
}
