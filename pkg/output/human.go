package output

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/sdejongh/safedel/pkg/models"
)

// DisplayTimeLayout is used for every timestamp shown on the console
const DisplayTimeLayout = "2006-01-02 15:04:05"

const (
	metadataRule = 60
	warningRule  = 70
)

// HumanFormatter formats output as tagged, human-readable lines
type HumanFormatter struct {
	writer io.Writer
	colors map[string]*color.Color
}

// NewHumanFormatter creates a new human-readable formatter.
// Colors are applied only when useColor is set and color.NoColor is false.
func NewHumanFormatter(useColor bool) *HumanFormatter {
	colors := map[string]*color.Color{
		"system":  color.New(color.FgWhite, color.Bold),
		"error":   color.New(color.FgRed, color.Bold),
		"success": color.New(color.FgGreen, color.Bold),
		"info":    color.New(color.FgCyan),
		"warning": color.New(color.FgYellow, color.Bold),
		"section": color.New(color.FgBlue),
	}
	if !useColor {
		for _, c := range colors {
			c.DisableColor()
		}
	}
	return &HumanFormatter{
		writer: io.Discard,
		colors: colors,
	}
}

// SetWriter directs output to writer until Start replaces it
func (f *HumanFormatter) SetWriter(writer io.Writer) {
	if writer != nil {
		f.writer = writer
	}
}

// Banner prints the program banner shown before the path prompt
func (f *HumanFormatter) Banner(writer io.Writer, trashRoot string) {
	rule := strings.Repeat("═", warningRule)
	fmt.Fprintln(writer, rule)
	fmt.Fprintln(writer, f.colors["system"].Sprint("   SECURE FILE DELETION UTILITY – SAFE MODE"))
	fmt.Fprintf(writer, "   Files are moved to %s • Never permanently deleted\n", trashRoot)
	fmt.Fprintln(writer, rule)
}

// Start prints the run header
func (f *HumanFormatter) Start(writer io.Writer, target string) error {
	if writer != nil {
		f.writer = writer
	}
	fmt.Fprintf(f.writer, "\n%s Secure File Deletion Assistant Initialized\n", f.tag("system", "[System]"))
	return nil
}

// NotFound reports a missing target
func (f *HumanFormatter) NotFound(path string) error {
	fmt.Fprintf(f.writer, "%s File not found or inaccessible: %s\n", f.tag("error", "[Error]"), path)
	return nil
}

// Metadata prints the file metadata block
func (f *HumanFormatter) Metadata(file *models.TargetFile) error {
	rule := strings.Repeat("═", metadataRule)
	fmt.Fprintf(f.writer, "\n%s\n", rule)
	fmt.Fprintln(f.writer, " FILE METADATA")
	fmt.Fprintln(f.writer, rule)
	fmt.Fprintf(f.writer, "Path           : %s\n", file.Path)
	fmt.Fprintf(f.writer, "Size           : %s\n", formatSize(file.Size))
	fmt.Fprintf(f.writer, "Created        : %s\n", formatCreated(file.CreatedAt))
	fmt.Fprintf(f.writer, "Last Modified  : %s\n", formatTimestamp(file.ModifiedAt))
	fmt.Fprintln(f.writer, rule)
	return nil
}

// Preview prints numbered preview lines or the placeholder
func (f *HumanFormatter) Preview(maxLines int, preview models.Result[models.Preview]) error {
	fmt.Fprintf(f.writer, "\n%s First %d lines (text preview only):\n", f.tag("section", "[Preview]"), maxLines)

	if !preview.Succeeded() {
		fmt.Fprintln(f.writer, "  <Unable to preview file>")
		return nil
	}
	if preview.Value.Empty() {
		fmt.Fprintf(f.writer, "  %s\n", preview.Value.Placeholder)
		return nil
	}
	for i, line := range preview.Value.Lines {
		fmt.Fprintf(f.writer, "  %02d: %s\n", i+1, line)
	}
	return nil
}

// Progress is a no-op for plain output
func (f *HumanFormatter) Progress(update ProgressUpdate) error {
	return nil
}

// Analysis prints the hash, entropy, size and effort lines
func (f *HumanFormatter) Analysis(analysis *models.Analysis) error {
	if analysis.Hash.Succeeded() {
		fmt.Fprintf(f.writer, "%s SHA-256: %s\n", f.tag("section", "[Hash]"), analysis.Hash.Value)
	} else {
		fmt.Fprintf(f.writer, "%s Hash computation failed: %v\n", f.tag("error", "[Error]"), analysis.Hash.Err)
	}

	section := f.tag("section", "[Analysis]")
	for _, line := range AnalysisLines(analysis) {
		fmt.Fprintf(f.writer, "%s %s\n", section, line)
	}
	if !analysis.Entropy.Succeeded() {
		fmt.Fprintf(f.writer, "%s Entropy calculation failed: %v\n", f.tag("error", "[Error]"), analysis.Entropy.Err)
	}
	return nil
}

// BackupStarted announces the backup step
func (f *HumanFormatter) BackupStarted() error {
	fmt.Fprintf(f.writer, "\n%s Creating automatic safety backup...\n", f.tag("section", "[Backup]"))
	return nil
}

// Backup reports the backup outcome
func (f *HumanFormatter) Backup(result models.Result[string]) error {
	if result.Succeeded() {
		fmt.Fprintf(f.writer, "%s Backup created: %s\n", f.tag("info", "[Info]"), result.Value)
	} else {
		fmt.Fprintf(f.writer, "%s Backup failed: %v\n", f.tag("error", "[Error]"), result.Err)
	}
	return nil
}

// Warning prints the notice shown before confirmation
func (f *HumanFormatter) Warning(trashRoot string) error {
	rule := strings.Repeat("!", warningRule)
	warn := f.colors["warning"]
	fmt.Fprintf(f.writer, "\n%s\n", warn.Sprint(rule))
	fmt.Fprintln(f.writer, warn.Sprintf("!!! WARNING: This will move the file to %s (recoverable)", trashRoot))
	fmt.Fprintln(f.writer, warn.Sprint(rule))
	return nil
}

// Trash reports the trash-move outcome
func (f *HumanFormatter) Trash(result models.Result[string]) error {
	if result.Succeeded() {
		success := f.tag("success", "[Success]")
		fmt.Fprintf(f.writer, "%s File moved to trash: %s\n", success, result.Value)
		fmt.Fprintf(f.writer, "\n%s File has been safely moved to trash.\n", success)
		return nil
	}
	fmt.Fprintf(f.writer, "%s Failed to move file to trash: %v\n", f.tag("error", "[Error]"), result.Err)
	fmt.Fprintf(f.writer, "\n%s Failed to move file.\n", f.tag("error", "[Failure]"))
	return nil
}

// Cancelled reports that the user declined
func (f *HumanFormatter) Cancelled() error {
	fmt.Fprintf(f.writer, "\n%s Operation cancelled by user.\n", f.tag("info", "[Info]"))
	return nil
}

// Complete prints the warnings collected during the run
func (f *HumanFormatter) Complete(report *models.Report) error {
	for _, w := range report.Warnings {
		fmt.Fprintf(f.writer, "%s %s\n", f.tag("warning", "[Warning]"), w)
	}
	return nil
}

// Error reports a non-fatal problem
func (f *HumanFormatter) Error(err error) error {
	fmt.Fprintf(f.writer, "%s %v\n", f.tag("error", "[Error]"), err)
	return nil
}

// Name returns the formatter name
func (f *HumanFormatter) Name() string {
	return "human"
}

func (f *HumanFormatter) tag(kind, text string) string {
	return f.colors[kind].Sprint(text)
}

// AnalysisLines renders the entropy, size and effort figures without tags.
// A failed entropy computation yields no entropy line.
func AnalysisLines(analysis *models.Analysis) []string {
	var lines []string

	if analysis.Entropy.Succeeded() {
		e := analysis.Entropy.Value
		if e.Empty {
			lines = append(lines, "Entropy: 0.0000 bits/byte (empty file)")
		} else {
			lines = append(lines, fmt.Sprintf("Entropy: %.4f bits/byte (max possible: %.4f)", e.Bits, models.MaxEntropy))
		}
	}

	s := analysis.Size
	switch {
	case !s.Size.Known:
		lines = append(lines, "Size: Unknown")
	case s.Empty:
		lines = append(lines, "Size: 0 bytes (empty file)")
	default:
		lines = append(lines, fmt.Sprintf("Size: %s bytes | log₂(size): %.2f | √(size): %.2f",
			humanize.Comma(s.Size.Bytes), s.Log2, s.Sqrt))
	}

	if analysis.Effort.Known {
		lines = append(lines, fmt.Sprintf("Estimated recreation effort: %s arbitrary units", formatDecimal(analysis.Effort.Units, 1)))
	} else {
		lines = append(lines, "Estimated recreation effort: Unknown or zero")
	}

	return lines
}

func formatSize(size models.Size) string {
	if !size.Known {
		return "Unknown"
	}
	if size.Bytes < 1024 {
		return fmt.Sprintf("%s bytes", humanize.Comma(size.Bytes))
	}
	return fmt.Sprintf("%s bytes (%s)", humanize.Comma(size.Bytes), humanize.IBytes(uint64(size.Bytes)))
}

func formatTimestamp(ts models.Timestamp) string {
	if !ts.Known() {
		return "Unknown"
	}
	return ts.Time.Format(DisplayTimeLayout)
}

// formatCreated labels a creation time that is really a modification time
func formatCreated(ts models.Timestamp) string {
	s := formatTimestamp(ts)
	if ts.Known() && ts.Source == models.SourceModTime {
		s += " (birth time unavailable, showing last modification)"
	}
	return s
}

// formatDecimal formats v with a fixed number of decimals and thousands separators
func formatDecimal(v float64, digits int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', digits, 64)
	}
	s := strconv.FormatFloat(v, 'f', digits, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}
	out := humanize.Comma(n)
	if n == 0 && strings.HasPrefix(intPart, "-") {
		out = "-" + out
	}
	if hasFrac {
		out += "." + frac
	}
	return out
}
