// Package workflow sequences inspection, backup, confirmation and the trash move
// for a single file.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/sdejongh/safedel/pkg/analyze"
	"github.com/sdejongh/safedel/pkg/backup"
	"github.com/sdejongh/safedel/pkg/inspect"
	"github.com/sdejongh/safedel/pkg/logging"
	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/output"
	"github.com/sdejongh/safedel/pkg/prompt"
	"github.com/sdejongh/safedel/pkg/storage"
	"github.com/sdejongh/safedel/pkg/trash"
)

// ConfirmQuestion is asked before the file is moved to the trash
const ConfirmQuestion = "\nDo you wish to proceed with moving this file to trash? (yes/no): "

// ErrBackupRequired cancels a run whose backup failed while backups are mandatory
var ErrBackupRequired = errors.New("backup is required before moving to trash")

// Auditor records terminal outcomes. *logging.ActionLogger implements it.
type Auditor interface {
	Log(target string, action models.Action, success bool) error
}

// Options tunes a run
type Options struct {
	// TrashRoot is where files are moved; "~" must already be expanded
	TrashRoot string

	// TrashLabel is shown in the warning; TrashRoot is used when empty
	TrashLabel string

	PreviewLines   int
	ChunkSize      int
	BackupEnabled  bool
	BackupRequired bool
}

// DefaultOptions returns the options matching the default configuration
func DefaultOptions(trashRoot string) Options {
	return Options{
		TrashRoot:     trashRoot,
		PreviewLines:  5,
		ChunkSize:     analyze.DefaultChunkSize,
		BackupEnabled: true,
	}
}

// Engine runs the deletion workflow:
//
//	START → CHECK_EXISTS → NOT_FOUND
//	                     → INSPECT → BACKUP → CONFIRM → TRASH | CANCELLED
//
// Inspection and backup failures are recorded in the report and never stop the run,
// unless Options.BackupRequired is set.
type Engine struct {
	inspector *inspect.Inspector
	previewer *inspect.Previewer
	analyzer  *analyze.Analyzer
	backups   *backup.Manager
	trash     *trash.Mover

	audit     Auditor
	confirmer prompt.Confirmer
	formatter output.Formatter
	logger    logging.Logger
	out       io.Writer
	options   Options

	now   func() time.Time
	newID func() string
	phase output.Phase
}

// NewEngine creates an engine over backend.
// When backend reports copy progress it is forwarded to the formatter.
func NewEngine(
	backend storage.Backend,
	audit Auditor,
	confirmer prompt.Confirmer,
	formatter output.Formatter,
	logger logging.Logger,
	out io.Writer,
	options Options,
) *Engine {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	if out == nil {
		out = io.Discard
	}

	e := &Engine{
		inspector: inspect.NewInspector(inspect.SystemStat{Backend: backend}),
		previewer: inspect.NewPreviewer(backend),
		analyzer:  analyze.NewAnalyzer(backend, options.ChunkSize),
		audit:     audit,
		confirmer: confirmer,
		formatter: formatter,
		logger:    logger,
		out:       out,
		options:   options,
		now:       time.Now,
		newID:     func() string { return uuid.New().String() },
	}
	e.backups = backup.NewManager(backend, e.clock)
	e.trash = trash.NewMover(backend, options.TrashRoot, e.clock)

	e.analyzer.SetProgressCallback(e.progress)
	if p, ok := backend.(interface{ SetProgressCallback(storage.ProgressFunc) }); ok {
		p.SetProgressCallback(e.progress)
	}
	return e
}

// SetClock replaces the time source used for names, audit lines and report timing
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// SetStatProvider replaces the metadata source used during inspection
func (e *Engine) SetStatProvider(stat inspect.StatProvider) {
	e.inspector = inspect.NewInspector(stat)
}

func (e *Engine) clock() time.Time {
	return e.now()
}

func (e *Engine) progress(path string, current, total int64) {
	if e.phase == "" {
		return
	}
	e.formatter.Progress(output.ProgressUpdate{
		Phase:   e.phase,
		Path:    path,
		Current: current,
		Total:   total,
	})
}

// Run takes path through the workflow and returns the report of the run.
// It always reaches a terminal state; step failures are recorded, not returned.
func (e *Engine) Run(ctx context.Context, path string) *models.Report {
	report := &models.Report{
		RunID:     e.newID(),
		StartTime: e.now(),
		Target: models.TargetFile{
			Path:       path,
			CreatedAt:  models.Timestamp{Source: models.SourceUnknown},
			ModifiedAt: models.Timestamp{Source: models.SourceUnknown},
		},
	}
	logger := e.logger.WithFields(logging.Fields{"run_id": report.RunID, "path": path})

	defer func() {
		e.phase = ""
		report.EndTime = e.now()
		if err := e.formatter.Complete(report); err != nil {
			logger.Warn(ctx, "failed to render summary", logging.Fields{"error": err.Error()})
		}
		logger.Info(ctx, "workflow finished", logging.Fields{
			"state":     string(report.Final()),
			"exit_code": report.ExitCode(),
			"duration":  report.EndTime.Sub(report.StartTime).String(),
		})
	}()

	report.Enter(models.StateStart)
	e.formatter.Start(e.out, path)
	logger.Info(ctx, "workflow started", nil)

	report.Enter(models.StateCheckExists)
	if !e.inspector.Exists(ctx, path) {
		report.Enter(models.StateNotFound)
		e.formatter.NotFound(path)
		logger.Warn(ctx, "target not found", nil)
		e.record(ctx, logger, report, models.ActionNotFound, false)
		return report
	}

	report.Enter(models.StateInspect)
	e.inspect(ctx, logger, report)

	report.Enter(models.StateBackup)
	if !e.backup(ctx, logger, report) {
		report.Enter(models.StateCancelled)
		e.formatter.Error(fmt.Errorf("%w: %s was left in place", ErrBackupRequired, path))
		logger.Warn(ctx, "trash step skipped because backup failed", nil)
		e.record(ctx, logger, report, models.ActionCancelled, false)
		return report
	}

	report.Enter(models.StateConfirm)
	label := e.options.TrashLabel
	if label == "" {
		label = e.options.TrashRoot
	}
	e.formatter.Warning(label)

	confirmed, err := e.confirmer.Confirm(ConfirmQuestion)
	if err != nil {
		if !errors.Is(err, prompt.ErrNoAnswer) {
			e.formatter.Error(fmt.Errorf("failed to read confirmation: %w", err))
		}
		logger.Warn(ctx, "confirmation not obtained", logging.Fields{"error": err.Error()})
		confirmed = false
	}
	if !confirmed {
		report.Enter(models.StateCancelled)
		e.formatter.Cancelled()
		logger.Info(ctx, "cancelled by user", nil)
		e.record(ctx, logger, report, models.ActionCancelled, true)
		return report
	}

	report.Enter(models.StateTrash)
	e.moveToTrash(ctx, logger, report)
	return report
}

// inspect runs the best-effort metadata, preview and content analyses
func (e *Engine) inspect(ctx context.Context, logger logging.Logger, report *models.Report) {
	path := report.Target.Path

	report.Target = e.inspector.Inspect(ctx, path)
	e.formatter.Metadata(&report.Target)
	logger.Debug(ctx, "inspected", logging.Fields{
		"size_known":     report.Target.Size.Known,
		"size":           report.Target.Size.Bytes,
		"created_source": string(report.Target.CreatedAt.Source),
	})

	lines := e.options.PreviewLines
	if lines < 1 {
		lines = 5
	}
	if preview, err := e.previewer.Preview(ctx, path, lines); err != nil {
		report.Preview = models.Fail[models.Preview](err)
		logger.Warn(ctx, "preview failed", logging.Fields{"error": err.Error()})
	} else {
		report.Preview = models.Ok(preview)
	}
	e.formatter.Preview(lines, report.Preview)

	e.phase = output.PhaseHash
	report.Analysis = e.analyzer.Analyze(ctx, path, report.Target.Size)
	e.phase = ""
	if err := report.Analysis.Hash.Err; err != nil {
		logger.Warn(ctx, "hash failed", logging.Fields{"error": err.Error()})
	}
	if err := report.Analysis.Entropy.Err; err != nil {
		logger.Warn(ctx, "entropy failed", logging.Fields{"error": err.Error()})
	}
	e.formatter.Analysis(&report.Analysis)
}

// backup copies the target aside. It returns false only when the backup failed
// and backups are required.
func (e *Engine) backup(ctx context.Context, logger logging.Logger, report *models.Report) bool {
	if !e.options.BackupEnabled {
		report.BackupSkipped = true
		logger.Info(ctx, "backup disabled", nil)
		return true
	}

	e.formatter.BackupStarted()
	e.phase = output.PhaseBackup
	dst, err := e.backups.Backup(ctx, report.Target.Path)
	e.phase = ""

	if err != nil {
		report.Backup = models.Fail[string](err)
		logger.Error(ctx, "backup failed", err, nil)
	} else {
		report.Backup = models.Ok(dst)
		logger.Info(ctx, "backup created", logging.Fields{"backup": dst})
	}
	e.formatter.Backup(report.Backup)
	e.record(ctx, logger, report, models.ActionBackup, err == nil)

	return err == nil || !e.options.BackupRequired
}

func (e *Engine) moveToTrash(ctx context.Context, logger logging.Logger, report *models.Report) {
	report.TrashAttempted = true

	e.phase = output.PhaseTrash
	dst, err := e.trash.MoveToTrash(ctx, report.Target.Path)
	e.phase = ""

	if err != nil {
		report.Trash = models.Fail[string](err)
		logger.Error(ctx, "move to trash failed", err, nil)
	} else {
		report.Trash = models.Ok(dst)
		logger.Info(ctx, "moved to trash", logging.Fields{"destination": dst})
	}
	e.formatter.Trash(report.Trash)
	e.record(ctx, logger, report, models.ActionTrash, err == nil)
}

// record writes an audit line; a write failure becomes a report warning
func (e *Engine) record(ctx context.Context, logger logging.Logger, report *models.Report, action models.Action, success bool) {
	if e.audit == nil {
		return
	}
	if err := e.audit.Log(report.Target.Path, action, success); err != nil {
		report.Warnings = append(report.Warnings, err.Error())
		logger.Warn(ctx, "audit log write failed", logging.Fields{
			"action": string(action),
			"error":  err.Error(),
		})
	}
}
