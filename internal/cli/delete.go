package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdejongh/safedel/internal/platform"
	"github.com/sdejongh/safedel/pkg/logging"
	"github.com/sdejongh/safedel/pkg/output"
	"github.com/sdejongh/safedel/pkg/prompt"
	"github.com/sdejongh/safedel/pkg/ratelimit"
	"github.com/sdejongh/safedel/pkg/storage"
	"github.com/sdejongh/safedel/pkg/workflow"
)

// PathQuestion is asked when no path argument is given
const PathQuestion = "\nEnter the full path to the file: "

// ExitUsage is returned when no usable path was supplied
const ExitUsage = 2

// ErrNoPath is reported for empty path input
var ErrNoPath = errors.New("no file path provided")

// DeleteFlags holds the flags of the root command
type DeleteFlags struct {
	TrashDir      string
	AuditLog      string
	Bandwidth     string
	Report        string
	PreviewLines  int
	NoBackup      bool
	RequireBackup bool
	NoProgress    bool
}

var deleteFlags DeleteFlags

// AddDeleteFlags adds the workflow flags to the root command
func AddDeleteFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&deleteFlags.TrashDir, "trash-dir", "", "trash directory (default ~/.trash)")
	cmd.Flags().StringVar(&deleteFlags.AuditLog, "audit-log", "", "audit log path (default ./deletion_log.txt)")
	cmd.Flags().StringVarP(&deleteFlags.Bandwidth, "bandwidth", "b", "", "bandwidth limit for copies (e.g., \"10M\", \"1G\")")
	cmd.Flags().StringVar(&deleteFlags.Report, "report", "", "write a JSON report of the run to file")
	cmd.Flags().IntVar(&deleteFlags.PreviewLines, "preview-lines", 0, "number of preview lines (default: 5)")
	cmd.Flags().BoolVar(&deleteFlags.NoBackup, "no-backup", false, "skip the safety backup")
	cmd.Flags().BoolVar(&deleteFlags.RequireBackup, "require-backup", false, "cancel when the safety backup fails")
	cmd.Flags().BoolVar(&deleteFlags.NoProgress, "no-progress", false, "disable progress bars")
}

// RunDelete runs the deletion workflow and exits with the outcome's code
func RunDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	code, err := runDelete(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), args)
	if err != nil {
		return err
	}

	// Exit with appropriate code
	os.Exit(code)
	return nil
}

func runDelete(ctx context.Context, in io.Reader, out io.Writer, args []string) (int, error) {
	// Load configuration
	cfg, err := loadConfig()
	if err != nil {
		return 0, fmt.Errorf("failed to load config: %w", err)
	}

	// Override config with command-line flags
	if err := applyFlagsToConfig(cfg); err != nil {
		return 0, err
	}
	if err := cfg.Validate(); err != nil {
		return 0, fmt.Errorf("invalid configuration: %w", err)
	}

	formatter := output.New(out, cfg.Output.Color, cfg.Output.Progress)
	console := prompt.NewConsole(in, out)

	if banner, ok := formatter.(interface{ Banner(io.Writer, string) }); ok {
		banner.Banner(out, cfg.Trash.Root)
	}

	var raw string
	if len(args) > 0 {
		raw = args[0]
	} else {
		raw, err = console.Ask(PathQuestion)
		if err != nil && !errors.Is(err, prompt.ErrNoAnswer) {
			return 0, fmt.Errorf("failed to read path: %w", err)
		}
	}

	path := platform.CleanInput(raw)
	if path == "" {
		formatter.Error(ErrNoPath)
		return ExitUsage, nil
	}

	// Create logger
	logger, err := createLogger(cfg.Logging.File, cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return 0, fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Close()

	limiter := ratelimit.NewLimiter(cfg.Performance.BandwidthLimit)
	backend := storage.NewLocal(cfg.Performance.BufferSize, limiter)
	defer backend.Close()

	logger.Debug(ctx, "configuration loaded", logging.Fields{
		"trash_root":      cfg.TrashRoot(),
		"audit_log":       cfg.Audit.LogPath,
		"backup_enabled":  cfg.Backup.Enabled,
		"backup_required": cfg.Backup.Required,
		"buffer_size":     backend.BufferSize(),
		"bandwidth_limit": limiter.BytesPerSecond(),
		"formatter":       formatter.Name(),
	})

	engine := workflow.NewEngine(
		backend,
		logging.NewActionLogger(cfg.Audit.LogPath, nil),
		console,
		formatter,
		logger,
		out,
		workflow.Options{
			TrashRoot:      cfg.TrashRoot(),
			TrashLabel:     cfg.Trash.Root,
			PreviewLines:   cfg.Preview.Lines,
			ChunkSize:      cfg.Performance.BufferSize,
			BackupEnabled:  cfg.Backup.Enabled,
			BackupRequired: cfg.Backup.Required,
		},
	)

	report := engine.Run(ctx, path)

	// Write JSON report if requested
	if cfg.Output.Report != "" {
		if err := output.NewJSONReport(report).WriteFile(cfg.Output.Report); err != nil {
			formatter.Error(fmt.Errorf("failed to write report: %w", err))
		}
	}

	return report.ExitCode(), nil
}

// createLogger creates a logger based on configuration
func createLogger(logFile, logFormat, logLevel string) (logging.Logger, error) {
	// If no log file specified, return null logger
	if logFile == "" {
		return logging.NewNullLogger(), nil
	}

	// Parse log format
	var format logging.Format
	switch logFormat {
	case "json":
		format = logging.FormatJSON
	default:
		format = logging.FormatText
	}

	// Create file logger
	config := logging.FileLoggerConfig{
		Path:       logFile,
		Format:     format,
		Level:      logging.ParseLevel(logLevel),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	}

	return logging.NewFileLogger(config)
}
