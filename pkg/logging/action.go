package logging

import (
	"fmt"
	"os"
	"time"

	"github.com/sdejongh/safedel/pkg/models"
)

// DefaultActionLogPath is the audit log written to the working directory
const DefaultActionLogPath = "deletion_log.txt"

// ActionTimeLayout is the timestamp format of audit lines
const ActionTimeLayout = "2006-01-02 15:04:05"

// ActionLogger appends one audit line per terminal outcome:
//
//	2026-01-02 15:04:05 | SUCCESS | MOVED_TO_TRASH  | /home/me/old.txt
//
// The file is opened in append mode for every entry and never rotated or locked.
type ActionLogger struct {
	path string
	now  func() time.Time
}

// NewActionLogger creates an audit logger writing to path. now defaults to time.Now when nil.
func NewActionLogger(path string, now func() time.Time) *ActionLogger {
	if now == nil {
		now = time.Now
	}
	return &ActionLogger{path: path, now: now}
}

// Path returns the audit log location
func (l *ActionLogger) Path() string {
	return l.path
}

// Log appends an entry. The returned error is informational: callers report it and carry on.
func (l *ActionLogger) Log(target string, action models.Action, success bool) error {
	line := FormatAction(l.now(), target, action, success)

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("could not write to log: %w", err)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return fmt.Errorf("could not write to log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write to log: %w", err)
	}
	return nil
}

// FormatAction renders a single audit line, including the trailing newline
func FormatAction(ts time.Time, target string, action models.Action, success bool) string {
	status := "SUCCESS"
	if !success {
		status = "FAILURE"
	}
	return fmt.Sprintf("%s | %-7s | %-15s | %s\n", ts.Format(ActionTimeLayout), status, action, target)
}
