package output

import (
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"

	"github.com/sdejongh/safedel/pkg/models"
)

// DefaultMinProgressBytes is the smallest file that gets a progress bar
const DefaultMinProgressBytes = 4 * 1024 * 1024

// getUpdateInterval returns the bar refresh interval based on OS
// Windows terminals have higher latency with ANSI sequences, so we use a longer interval
func getUpdateInterval() time.Duration {
	if runtime.GOOS == "windows" {
		return 300 * time.Millisecond
	}
	return 100 * time.Millisecond
}

var phaseLabels = map[Phase]string{
	PhaseHash:   "Hashing    ",
	PhaseBackup: "Backing up ",
	PhaseTrash:  "Moving     ",
}

// ProgressFormatter adds byte progress bars to the human-readable output
// for files large enough to make hashing or copying noticeable.
type ProgressFormatter struct {
	*HumanFormatter

	mu       sync.Mutex
	bar      *pb.ProgressBar
	phase    Phase
	minBytes int64
	width    int
}

// NewProgressFormatter creates a new progress bar formatter
func NewProgressFormatter(useColor bool) *ProgressFormatter {
	return &ProgressFormatter{
		HumanFormatter: NewHumanFormatter(useColor),
		minBytes:       DefaultMinProgressBytes,
	}
}

// SetMinBytes changes the size threshold for showing a bar
func (f *ProgressFormatter) SetMinBytes(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.minBytes = n
}

// Start initializes the formatter
func (f *ProgressFormatter) Start(writer io.Writer, target string) error {
	if writer == nil {
		writer = os.Stdout
	}

	// Detect terminal width to prevent line wrapping issues
	if file, ok := writer.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			f.width = width
		}
	}
	// Default to 100 if we couldn't detect (pipe, redirect, etc.)
	if f.width == 0 {
		f.width = 100
	}

	return f.HumanFormatter.Start(writer, target)
}

// Progress drives one bar per phase; the bar finishes when the phase completes
func (f *ProgressFormatter) Progress(update ProgressUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if update.Total < f.minBytes || update.Total <= 0 {
		return nil
	}

	if f.bar != nil && f.phase != update.Phase {
		f.finishLocked()
	}

	if f.bar == nil {
		label, ok := phaseLabels[update.Phase]
		if !ok {
			label = string(update.Phase) + " "
		}
		f.bar = pb.Full.New(0).
			SetTotal(update.Total).
			SetWriter(f.writer).
			SetWidth(f.width).
			SetRefreshRate(getUpdateInterval()).
			Set(pb.Bytes, true).
			Set("prefix", label).
			Start()
		f.phase = update.Phase
	}

	f.bar.SetCurrent(update.Current)
	if update.Current >= update.Total {
		f.finishLocked()
	}
	return nil
}

func (f *ProgressFormatter) finishLocked() {
	if f.bar == nil {
		return
	}
	f.bar.Finish()
	f.bar = nil
	f.phase = ""
}

// Analysis closes any open bar before printing the analysis lines
func (f *ProgressFormatter) Analysis(analysis *models.Analysis) error {
	f.finish()
	return f.HumanFormatter.Analysis(analysis)
}

// Backup closes any open bar before printing the backup outcome
func (f *ProgressFormatter) Backup(result models.Result[string]) error {
	f.finish()
	return f.HumanFormatter.Backup(result)
}

// Trash closes any open bar before printing the trash outcome
func (f *ProgressFormatter) Trash(result models.Result[string]) error {
	f.finish()
	return f.HumanFormatter.Trash(result)
}

// Complete closes any open bar and prints the summary
func (f *ProgressFormatter) Complete(report *models.Report) error {
	f.finish()
	return f.HumanFormatter.Complete(report)
}

// Name returns the formatter name
func (f *ProgressFormatter) Name() string {
	return "progress"
}

func (f *ProgressFormatter) finish() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.finishLocked()
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// New picks the formatter for the writer: progress bars only on a terminal.
// The formatter writes to w even before Start is called.
func New(w io.Writer, useColor, showProgress bool) Formatter {
	tty := IsTerminal(w)
	if showProgress && tty {
		f := NewProgressFormatter(useColor && tty)
		f.SetWriter(w)
		return f
	}
	f := NewHumanFormatter(useColor && tty)
	f.SetWriter(w)
	return f
}
