package output

import (
	"io"

	"github.com/sdejongh/safedel/pkg/models"
)

// Phase names the long-running step a progress update belongs to
type Phase string

const (
	PhaseHash   Phase = "hash"
	PhaseBackup Phase = "backup"
	PhaseTrash  Phase = "trash"
)

// ProgressUpdate represents a progress notification during a workflow step
type ProgressUpdate struct {
	Phase   Phase
	Path    string
	Current int64
	Total   int64
}

// Formatter defines the interface for rendering a workflow run.
// The engine calls the methods in workflow order; every method is best-effort
// and a returned error is only logged.
type Formatter interface {
	// Start prints the run header for the target path
	Start(writer io.Writer, target string) error

	// NotFound reports that the target is missing or not a regular file
	NotFound(path string) error

	// Metadata prints the inspected attributes
	Metadata(file *models.TargetFile) error

	// Preview prints the first lines of the file
	Preview(maxLines int, preview models.Result[models.Preview]) error

	// Progress reports progress during hashing and copying
	Progress(update ProgressUpdate) error

	// Analysis prints hash, entropy, size and effort figures
	Analysis(analysis *models.Analysis) error

	// BackupStarted announces the backup step
	BackupStarted() error

	// Backup reports the backup outcome
	Backup(result models.Result[string]) error

	// Warning prints the notice shown before confirmation
	Warning(trashRoot string) error

	// Trash reports the trash-move outcome
	Trash(result models.Result[string]) error

	// Cancelled reports that the user declined
	Cancelled() error

	// Complete finalizes output once the run reached a terminal state
	Complete(report *models.Report) error

	// Error reports a non-fatal problem
	Error(err error) error

	// Name returns the formatter name
	Name() string
}
