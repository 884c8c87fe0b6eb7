package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sdejongh/safedel/pkg/models"
)

// JSONReport is the machine-readable summary of one run, written with --report
type JSONReport struct {
	RunID      string         `json:"run_id"`
	Status     string         `json:"status"`
	ExitCode   int            `json:"exit_code"`
	Trace      []string       `json:"trace"`
	StartTime  time.Time      `json:"start_time"`
	EndTime    time.Time      `json:"end_time"`
	DurationMs int64          `json:"duration_ms"`
	Target     JSONTargetData `json:"target"`
	Preview    *JSONStepData  `json:"preview,omitempty"`
	Analysis   *JSONAnalysis  `json:"analysis,omitempty"`
	Backup     *JSONStepData  `json:"backup,omitempty"`
	Trash      *JSONStepData  `json:"trash,omitempty"`
	Warnings   []string       `json:"warnings,omitempty"`
}

// JSONTargetData represents the inspected file
type JSONTargetData struct {
	Path          string `json:"path"`
	Exists        bool   `json:"exists"`
	Size          *int64 `json:"size,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	CreatedSource string `json:"created_source,omitempty"`
	ModifiedAt    string `json:"modified_at,omitempty"`
}

// JSONStepData represents the outcome of a best-effort step
type JSONStepData struct {
	Success bool     `json:"success"`
	Skipped bool     `json:"skipped,omitempty"`
	Path    string   `json:"path,omitempty"`
	Lines   []string `json:"lines,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// JSONAnalysis represents the content analysis figures
type JSONAnalysis struct {
	SHA256      string   `json:"sha256,omitempty"`
	HashError   string   `json:"hash_error,omitempty"`
	Entropy     *float64 `json:"entropy,omitempty"`
	EntropyErr  string   `json:"entropy_error,omitempty"`
	Log2Size    *float64 `json:"log2_size,omitempty"`
	SqrtSize    *float64 `json:"sqrt_size,omitempty"`
	EffortUnits *float64 `json:"effort_units,omitempty"`
}

// NewJSONReport converts a run report
func NewJSONReport(report *models.Report) *JSONReport {
	out := &JSONReport{
		RunID:      report.RunID,
		Status:     string(report.Final()),
		ExitCode:   report.ExitCode(),
		StartTime:  report.StartTime,
		EndTime:    report.EndTime,
		DurationMs: report.EndTime.Sub(report.StartTime).Milliseconds(),
		Warnings:   report.Warnings,
	}
	for _, s := range report.Trace {
		out.Trace = append(out.Trace, string(s))
	}

	t := report.Target
	out.Target = JSONTargetData{Path: t.Path, Exists: t.Exists}
	if t.Size.Known {
		size := t.Size.Bytes
		out.Target.Size = &size
	}
	if t.CreatedAt.Known() {
		out.Target.CreatedAt = t.CreatedAt.Time.Format(time.RFC3339)
		out.Target.CreatedSource = string(t.CreatedAt.Source)
	}
	if t.ModifiedAt.Known() {
		out.Target.ModifiedAt = t.ModifiedAt.Time.Format(time.RFC3339)
	}

	if !t.Exists {
		return out
	}

	out.Preview = &JSONStepData{Success: report.Preview.Succeeded()}
	if report.Preview.Succeeded() {
		out.Preview.Lines = report.Preview.Value.Lines
		if report.Preview.Value.Empty() {
			out.Preview.Lines = []string{report.Preview.Value.Placeholder}
		}
	} else {
		out.Preview.Error = report.Preview.Err.Error()
	}

	out.Analysis = newJSONAnalysis(&report.Analysis)

	if report.BackupSkipped {
		out.Backup = &JSONStepData{Skipped: true}
	} else {
		out.Backup = newJSONStep(report.Backup)
	}
	if report.TrashAttempted {
		out.Trash = newJSONStep(report.Trash)
	}
	return out
}

func newJSONStep(r models.Result[string]) *JSONStepData {
	if r.Succeeded() {
		return &JSONStepData{Success: true, Path: r.Value}
	}
	step := &JSONStepData{}
	if r.Err != nil {
		step.Error = r.Err.Error()
	}
	return step
}

func newJSONAnalysis(a *models.Analysis) *JSONAnalysis {
	out := &JSONAnalysis{}
	if a.Hash.Succeeded() {
		out.SHA256 = a.Hash.Value
	} else if a.Hash.Err != nil {
		out.HashError = a.Hash.Err.Error()
	}
	if a.Entropy.Succeeded() {
		bits := a.Entropy.Value.Bits
		out.Entropy = &bits
	} else if a.Entropy.Err != nil {
		out.EntropyErr = a.Entropy.Err.Error()
	}
	if a.Size.Size.Known && !a.Size.Empty {
		log2, sqrt := a.Size.Log2, a.Size.Sqrt
		out.Log2Size = &log2
		out.SqrtSize = &sqrt
	}
	if a.Effort.Known {
		units := a.Effort.Units
		out.EffortUnits = &units
	}
	return out
}

// Write encodes the report as indented JSON
func (r *JSONReport) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// WriteFile writes the report to path, creating parent directories
func (r *JSONReport) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}

	if err := r.Write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}
	return nil
}
