package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/ludo-technologies/pystyle/domain"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	color         bool
	showSummary   bool
	summaryWriter io.Writer
	codeColor     *color.Color
}

// NewOutputFormatter creates a new output formatter with color disabled
func NewOutputFormatter() *OutputFormatterImpl {
	c := color.New(color.FgRed, color.Bold)
	c.EnableColor()
	return &OutputFormatterImpl{codeColor: c}
}

// SetColor enables colored codes in text output
func (f *OutputFormatterImpl) SetColor(enabled bool) {
	f.color = enabled
}

// SetShowSummary appends per-code totals to text output
func (f *OutputFormatterImpl) SetShowSummary(show bool) {
	f.showSummary = show
}

// SetSummaryWriter redirects the text summary; by default it follows the
// diagnostics
func (f *OutputFormatterImpl) SetSummaryWriter(w io.Writer) {
	f.summaryWriter = w
}

// ShouldColor resolves a color mode against the destination writer
func ShouldColor(mode domain.ColorMode, w io.Writer) bool {
	switch mode {
	case domain.ColorAlways:
		return true
	case domain.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteYAML writes data as YAML to the writer
func WriteYAML(writer io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return err
	}
	return encoder.Close()
}

// StyleResponseJSON is the document written by the json and yaml formats
type StyleResponseJSON struct {
	Version     string              `json:"version" yaml:"version"`
	GeneratedAt string              `json:"generated_at" yaml:"generated_at"`
	Diagnostics []domain.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	Errors      []string            `json:"errors" yaml:"errors"`
	Summary     domain.StyleSummary `json:"summary" yaml:"summary"`
}

// NewStyleResponseJSON flattens a response into its serialized form
func NewStyleResponseJSON(response *domain.StyleResponse) StyleResponseJSON {
	doc := StyleResponseJSON{
		Version:     response.Version,
		GeneratedAt: response.GeneratedAt,
		Diagnostics: response.Diagnostics(),
		Errors:      response.Errors,
		Summary:     response.Summary,
	}
	if doc.Diagnostics == nil {
		doc.Diagnostics = []domain.Diagnostic{}
	}
	if doc.Errors == nil {
		doc.Errors = []string{}
	}
	return doc
}

// Format renders the response to a string
func (f *OutputFormatterImpl) Format(response *domain.StyleResponse, format domain.OutputFormat) (string, error) {
	var buf bytes.Buffer
	if err := f.Write(response, format, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Write writes the response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.StyleResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatText, "":
		return f.writeText(response, writer)
	case domain.OutputFormatJSON:
		return WriteJSON(writer, NewStyleResponseJSON(response))
	case domain.OutputFormatYAML:
		return WriteYAML(writer, NewStyleResponseJSON(response))
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeText writes one formatted line per diagnostic, in file order
func (f *OutputFormatterImpl) writeText(response *domain.StyleResponse, writer io.Writer) error {
	for _, d := range response.Diagnostics() {
		if _, err := fmt.Fprintln(writer, f.textLine(d)); err != nil {
			return err
		}
	}

	if !f.showSummary {
		return nil
	}
	summaryWriter := f.summaryWriter
	if summaryWriter == nil {
		summaryWriter = writer
	}
	return writeSummary(response.Summary, summaryWriter)
}

func (f *OutputFormatterImpl) textLine(d domain.Diagnostic) string {
	if !f.color {
		return domain.FormatDiagnostic(d)
	}
	return fmt.Sprintf("%s: Line %d: %s %s", d.FilePath, d.Line, f.codeColor.Sprint(d.Kind.Code()), d.Text())
}

// writeSummary writes the totals block used by the text format
func writeSummary(summary domain.StyleSummary, writer io.Writer) error {
	fmt.Fprintf(writer, "\nSummary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", summary.FilesAnalyzed)
	fmt.Fprintf(writer, "  Files with issues: %d\n", summary.FilesWithIssues)
	if summary.FilesFailed > 0 {
		fmt.Fprintf(writer, "  Files failed: %d\n", summary.FilesFailed)
	}
	fmt.Fprintf(writer, "  Total diagnostics: %d\n", summary.TotalDiagnostics)

	if len(summary.ByCode) == 0 {
		return nil
	}
	for _, kind := range domain.AllKinds() {
		if n := summary.ByCode[kind.Code()]; n > 0 {
			if _, err := fmt.Fprintf(writer, "  %-8s %-21s %d\n", kind.Code(), kind.Name(), n); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeCSV writes a file,line,code,message row per diagnostic
func (f *OutputFormatterImpl) writeCSV(response *domain.StyleResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write([]string{"file", "line", "code", "message"}); err != nil {
		return err
	}
	for _, d := range response.Diagnostics() {
		if err := w.Write([]string{d.FilePath, strconv.Itoa(d.Line), d.Kind.Code(), d.Text()}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
