package config

import (
	"github.com/sdejongh/safedel/internal/platform"
	"github.com/sdejongh/safedel/pkg/logging"
	"github.com/sdejongh/safedel/pkg/models"
	"github.com/sdejongh/safedel/pkg/storage"
)

// MinBufferSize is the smallest accepted read chunk
const MinBufferSize = 4096

// Config represents the application configuration.
// Every field has a default, so no configuration file is ever required.
type Config struct {
	Trash       TrashConfig       `yaml:"trash"`
	Audit       AuditConfig       `yaml:"audit"`
	Backup      BackupConfig      `yaml:"backup"`
	Preview     PreviewConfig     `yaml:"preview"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// TrashConfig holds trash-related settings
type TrashConfig struct {
	Root string `yaml:"root"` // "~" is expanded to the home directory
}

// AuditConfig holds the audit log settings
type AuditConfig struct {
	LogPath string `yaml:"log_path"` // Relative paths resolve against the working directory
}

// BackupConfig holds backup-related settings
type BackupConfig struct {
	Enabled  bool `yaml:"enabled"`
	Required bool `yaml:"required"` // A failed backup cancels the trash step
}

// PreviewConfig holds preview-related settings
type PreviewConfig struct {
	Lines int `yaml:"lines"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	BufferSize     int   `yaml:"buffer_size"`
	BandwidthLimit int64 `yaml:"bandwidth_limit"` // Bytes per second, 0 = unlimited
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Color    bool   `yaml:"color"`    // Colored status tags on a terminal
	Progress bool   `yaml:"progress"` // Show progress bars
	Report   string `yaml:"report"`   // Write a JSON run report to this path
}

// LoggingConfig holds diagnostic logging settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = disabled)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Trash: TrashConfig{
			Root: "~/.trash",
		},
		Audit: AuditConfig{
			LogPath: logging.DefaultActionLogPath,
		},
		Backup: BackupConfig{
			Enabled:  true,
			Required: false,
		},
		Preview: PreviewConfig{
			Lines: 5,
		},
		Performance: PerformanceConfig{
			BufferSize:     storage.DefaultBufferSize,
			BandwidthLimit: 0,
		},
		Output: OutputConfig{
			Color:    true,
			Progress: true,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
	}
}

// TrashRoot returns the trash directory with the home directory expanded
func (c *Config) TrashRoot() string {
	return platform.ExpandHome(c.Trash.Root)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Trash.Root == "" {
		return &models.ValidationError{
			Field:   "trash.root",
			Message: "must not be empty",
		}
	}
	if err := platform.ValidatePath(c.Trash.Root); err != nil {
		return &models.ValidationError{
			Field:   "trash.root",
			Message: err.Error(),
		}
	}

	if c.Audit.LogPath == "" {
		return &models.ValidationError{
			Field:   "audit.log_path",
			Message: "must not be empty",
		}
	}

	if c.Backup.Required && !c.Backup.Enabled {
		return &models.ValidationError{
			Field:   "backup.required",
			Message: "cannot be set when backup.enabled is false",
		}
	}

	if c.Preview.Lines < 1 {
		return &models.ValidationError{
			Field:   "preview.lines",
			Message: "must be at least 1",
		}
	}

	if c.Performance.BufferSize < MinBufferSize {
		return &models.ValidationError{
			Field:   "performance.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	if c.Performance.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
