package models

import (
	"errors"
)

// Action is the label written to the audit log for a terminal outcome
type Action string

const (
	// ActionNotFound records a target that did not resolve to a regular file
	ActionNotFound Action = "NOT_FOUND"
	// ActionBackup records a backup attempt
	ActionBackup Action = "BACKUP_CREATED"
	// ActionTrash records a move to the trash root
	ActionTrash Action = "MOVED_TO_TRASH"
	// ActionCancelled records a declined confirmation
	ActionCancelled Action = "CANCELLED"
)

var (
	// ErrNotFound is returned when a path does not exist
	ErrNotFound = errors.New("file not found")
	// ErrNotRegular is returned when a path exists but is not a regular file
	ErrNotRegular = errors.New("not a regular file")
	// ErrDestinationExists is returned instead of overwriting an existing file
	ErrDestinationExists = errors.New("destination already exists")
	// ErrContentMismatch is returned when a copy does not match its source
	ErrContentMismatch = errors.New("copy does not match source content")
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
