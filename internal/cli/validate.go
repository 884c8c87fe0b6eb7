package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/sdejongh/safedel/pkg/config"
)

// loadConfig loads configuration from file or returns default
func loadConfig() (*config.Config, error) {
	if globalFlags.ConfigFile != "" {
		return config.LoadFromFile(globalFlags.ConfigFile)
	}
	return config.LoadDefault()
}

// applyFlagsToConfig overrides config values with command-line flags
func applyFlagsToConfig(cfg *config.Config) error {
	if deleteFlags.TrashDir != "" {
		cfg.Trash.Root = deleteFlags.TrashDir
	}

	if deleteFlags.AuditLog != "" {
		cfg.Audit.LogPath = deleteFlags.AuditLog
	}

	// Bandwidth limit accepts human sizes such as "10M" or "1.5GiB"
	if deleteFlags.Bandwidth != "" {
		limit, err := parseBandwidth(deleteFlags.Bandwidth)
		if err != nil {
			return err
		}
		cfg.Performance.BandwidthLimit = limit
	}

	if deleteFlags.PreviewLines > 0 {
		cfg.Preview.Lines = deleteFlags.PreviewLines
	}

	if deleteFlags.NoBackup {
		cfg.Backup.Enabled = false
		cfg.Backup.Required = false
	}
	if deleteFlags.RequireBackup {
		cfg.Backup.Enabled = true
		cfg.Backup.Required = true
	}

	if deleteFlags.Report != "" {
		cfg.Output.Report = deleteFlags.Report
	}

	if deleteFlags.NoProgress {
		cfg.Output.Progress = false
	}

	if globalFlags.NoColor {
		cfg.Output.Color = false
	}

	// Logging
	if globalFlags.LogFile != "" {
		cfg.Logging.File = globalFlags.LogFile
	}
	if globalFlags.LogFormat != "" {
		cfg.Logging.Format = globalFlags.LogFormat
	}
	if globalFlags.LogLevel != "" {
		cfg.Logging.Level = globalFlags.LogLevel
	}

	// Enable progress and debug logs in verbose mode
	if globalFlags.Verbose {
		cfg.Output.Progress = !deleteFlags.NoProgress
		if globalFlags.LogLevel == "" {
			cfg.Logging.Level = "debug"
		}
	}

	return nil
}

// parseBandwidth converts a human size per second into bytes per second
func parseBandwidth(s string) (int64, error) {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid bandwidth %q: %w", s, err)
	}
	if n > 1<<62 {
		return 0, fmt.Errorf("invalid bandwidth %q: too large", s)
	}
	return int64(n), nil
}
