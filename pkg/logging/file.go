package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// Format represents the log output format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// FileLoggerConfig holds configuration for file logging
type FileLoggerConfig struct {
	// Path is the log file path
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of rotated files to keep
	MaxBackups int
}

// sink is the open file shared by a logger and every logger derived with WithFields
type sink struct {
	mu          sync.Mutex
	file        *os.File
	currentSize int64
}

// FileLogger implements Logger interface with file output
type FileLogger struct {
	config FileLoggerConfig
	sink   *sink
	fields Fields
	now    func() time.Time
}

// NewFileLogger creates a new file logger
func NewFileLogger(config FileLoggerConfig) (*FileLogger, error) {
	dir := filepath.Dir(config.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(config.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &FileLogger{
		config: config,
		sink:   &sink{file: file, currentSize: info.Size()},
		now:    time.Now,
	}, nil
}

// Debug logs a debug message
func (l *FileLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

// Info logs an info message
func (l *FileLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

// Warn logs a warning message
func (l *FileLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

// Error logs an error message
func (l *FileLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

// WithFields returns a logger writing to the same file with additional fields
func (l *FileLogger) WithFields(fields Fields) Logger {
	return &FileLogger{
		config: l.config,
		sink:   l.sink,
		fields: mergeFields(l.fields, fields),
		now:    l.now,
	}
}

// Close flushes and closes the logger
func (l *FileLogger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}

func (l *FileLogger) log(level Level, msg string, err error, fields Fields) {
	if level < l.config.Level {
		return
	}

	allFields := mergeFields(l.fields, fields)

	var line []byte
	var formatErr error
	if l.config.Format == FormatJSON {
		line, formatErr = l.formatJSON(level, msg, err, allFields)
	} else {
		line = l.formatText(level, msg, err, allFields)
	}
	if formatErr != nil {
		return
	}

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file == nil {
		return
	}

	if l.config.MaxSize > 0 && l.sink.currentSize >= l.config.MaxSize {
		l.rotate()
		if l.sink.file == nil {
			return
		}
	}

	n, _ := l.sink.file.Write(line)
	l.sink.currentSize += int64(n)
}

func (l *FileLogger) formatJSON(level Level, msg string, err error, fields Fields) ([]byte, error) {
	entry := make(map[string]interface{}, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["timestamp"] = l.now().UTC().Format(time.RFC3339)
	entry["level"] = levelString(level)
	entry["message"] = msg
	if err != nil {
		entry["error"] = err.Error()
	}

	data, jsonErr := json.Marshal(entry)
	if jsonErr != nil {
		return nil, jsonErr
	}
	return append(data, '\n'), nil
}

// formatText writes fields in key order so lines are stable and diffable
func (l *FileLogger) formatText(level Level, msg string, err error, fields Fields) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", l.now().UTC().Format("2006-01-02T15:04:05.000Z"), levelString(level), msg)

	if err != nil {
		fmt.Fprintf(&b, " error=%q", err.Error())
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

// rotate shifts path.N to path.N+1, drops the oldest and reopens path (sink lock held)
func (l *FileLogger) rotate() {
	l.sink.file.Close()
	l.sink.file = nil

	path := l.config.Path
	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		os.Rename(fmt.Sprintf("%s.%d", path, i), fmt.Sprintf("%s.%d", path, i+1))
	}
	os.Rename(path, path+".1")

	if l.config.MaxBackups > 0 {
		os.Remove(fmt.Sprintf("%s.%d", path, l.config.MaxBackups+1))
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return
	}
	l.sink.file = file
	l.sink.currentSize = 0
}

func mergeFields(base, extra Fields) Fields {
	merged := make(Fields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// levelString returns the string representation of a log level
func levelString(level Level) string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a log level string
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// LevelString returns level as string (exported version)
func LevelString(level Level) string {
	return levelString(level)
}
