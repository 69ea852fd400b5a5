package service

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ludo-technologies/pystyle/domain"
	"gopkg.in/yaml.v3"
)

func sampleResponse() *domain.StyleResponse {
	return &domain.StyleResponse{
		Files: []domain.FileDiagnostics{
			{
				FilePath: "pkg/a.py",
				Diagnostics: []domain.Diagnostic{
					domain.NewDiagnostic("pkg/a.py", 3, domain.KindLength),
					domain.NewDiagnosticWithMessage("pkg/a.py", 5, domain.KindClassCasing, "Class names should be written in CamelCase, e.g. foo"),
				},
			},
			{
				FilePath:    "b.py",
				Diagnostics: []domain.Diagnostic{domain.NewDiagnostic("b.py", 1, domain.KindSemicolon)},
				Error:       "b.py:2:1: invalid syntax",
			},
		},
		Summary: domain.StyleSummary{
			FilesAnalyzed:    2,
			FilesWithIssues:  2,
			FilesFailed:      1,
			TotalDiagnostics: 3,
			ByCode:           map[string]int{"Error1": 1, "Error3": 1, "Error8": 1},
		},
		Errors:      []string{"b.py:2:1: invalid syntax"},
		GeneratedAt: "2026-01-01T00:00:00Z",
		Version:     "test",
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, map[string]interface{}{"name": "test", "value": 42}); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}
	if result["name"] != "test" {
		t.Errorf("Expected name to be 'test', got %v", result["name"])
	}
}

func TestOutputFormatterText(t *testing.T) {
	formatter := NewOutputFormatter()

	out, err := formatter.Format(sampleResponse(), domain.OutputFormatText)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	want := "pkg/a.py: Line 3: Error1 Line too long\n" +
		"pkg/a.py: Line 5: Error8 Class names should be written in CamelCase, e.g. foo\n" +
		"b.py: Line 1: Error3 Redundant semicolon after a statement \n"
	if out != want {
		t.Errorf("Unexpected text output:\n%q\nwant:\n%q", out, want)
	}
}

func TestOutputFormatterTextEmpty(t *testing.T) {
	out, err := NewOutputFormatter().Format(&domain.StyleResponse{}, domain.OutputFormatText)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if out != "" {
		t.Errorf("Expected no output, got %q", out)
	}
}

func TestOutputFormatterTextColor(t *testing.T) {
	formatter := NewOutputFormatter()
	formatter.SetColor(true)

	out, err := formatter.Format(sampleResponse(), domain.OutputFormatText)
	if err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	first := strings.SplitN(out, "\n", 2)[0]
	if !strings.HasPrefix(first, "pkg/a.py: Line 3: \x1b[") {
		t.Errorf("Expected colored code, got %q", first)
	}
	if !strings.HasSuffix(first, " Line too long") {
		t.Errorf("Expected plain message, got %q", first)
	}
}

func TestOutputFormatterSummary(t *testing.T) {
	formatter := NewOutputFormatter()
	formatter.SetShowSummary(true)

	var out, summary bytes.Buffer
	formatter.SetSummaryWriter(&summary)
	if err := formatter.Write(sampleResponse(), domain.OutputFormatText, &out); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	if strings.Contains(out.String(), "Summary") {
		t.Error("Summary should go to the summary writer")
	}
	for _, want := range []string{"Files analyzed: 2", "Files failed: 1", "Total diagnostics: 3", "Error1", "class-casing"} {
		if !strings.Contains(summary.String(), want) {
			t.Errorf("Summary missing %q:\n%s", want, summary.String())
		}
	}

	lines := strings.Split(strings.TrimSpace(summary.String()), "\n")
	last := lines[len(lines)-1]
	if !strings.Contains(last, "Error8") {
		t.Errorf("Expected codes in numeric order, last line %q", last)
	}
}

func TestOutputFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleResponse(), domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var doc StyleResponseJSON
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse output as JSON: %v", err)
	}

	if doc.Version != "test" {
		t.Errorf("Expected version 'test', got %q", doc.Version)
	}
	if len(doc.Diagnostics) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d", len(doc.Diagnostics))
	}
	if doc.Diagnostics[1].Kind != domain.KindClassCasing || doc.Diagnostics[1].Line != 5 {
		t.Errorf("Unexpected diagnostic %+v", doc.Diagnostics[1])
	}
	if len(doc.Errors) != 1 {
		t.Errorf("Expected 1 error, got %v", doc.Errors)
	}
	if !strings.Contains(buf.String(), `"code": "Error1"`) {
		t.Errorf("Expected codes to be serialized as strings:\n%s", buf.String())
	}
}

func TestOutputFormatterJSONEmptyLists(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(&domain.StyleResponse{}, domain.OutputFormatJSON, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	for _, want := range []string{`"diagnostics": []`, `"errors": []`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("Expected %s in:\n%s", want, buf.String())
		}
	}
}

func TestOutputFormatterYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleResponse(), domain.OutputFormatYAML, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var doc struct {
		Version     string `yaml:"version"`
		Diagnostics []struct {
			File string `yaml:"file"`
			Line int    `yaml:"line"`
			Code string `yaml:"code"`
		} `yaml:"diagnostics"`
		Summary struct {
			TotalDiagnostics int `yaml:"total_diagnostics"`
		} `yaml:"summary"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to parse output as YAML: %v", err)
	}

	if len(doc.Diagnostics) != 3 {
		t.Fatalf("Expected 3 diagnostics, got %d", len(doc.Diagnostics))
	}
	if doc.Diagnostics[2].File != "b.py" || doc.Diagnostics[2].Code != "Error3" {
		t.Errorf("Unexpected diagnostic %+v", doc.Diagnostics[2])
	}
	if doc.Summary.TotalDiagnostics != 3 {
		t.Errorf("Expected 3 total diagnostics, got %d", doc.Summary.TotalDiagnostics)
	}
}

func TestOutputFormatterCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := NewOutputFormatter().Write(sampleResponse(), domain.OutputFormatCSV, &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Failed to parse output as CSV: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d", len(records))
	}
	if strings.Join(records[0], ",") != "file,line,code,message" {
		t.Errorf("Unexpected header %v", records[0])
	}
	if records[2][3] != "Class names should be written in CamelCase, e.g. foo" {
		t.Errorf("Expected message with comma to survive quoting, got %q", records[2][3])
	}
}

func TestOutputFormatterUnsupported(t *testing.T) {
	var buf bytes.Buffer
	err := NewOutputFormatter().Write(sampleResponse(), "xml", &buf)
	if err == nil {
		t.Fatal("Expected error for unsupported format")
	}
	de, ok := err.(domain.DomainError)
	if !ok || de.Code != domain.ErrCodeUnsupportedFormat {
		t.Errorf("Expected unsupported format error, got %v", err)
	}
}

func TestShouldColor(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		mode     domain.ColorMode
		expected bool
	}{
		{domain.ColorAlways, true},
		{domain.ColorNever, false},
		{domain.ColorAuto, false},
	}

	for _, tt := range tests {
		if got := ShouldColor(tt.mode, &buf); got != tt.expected {
			t.Errorf("ShouldColor(%s) = %v, expected %v", tt.mode, got, tt.expected)
		}
	}
}
