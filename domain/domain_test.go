package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  DomainError
		want string
	}{
		{"without cause", DomainError{Code: ErrCodeConfigError, Message: "bad config"}, "[CONFIG_ERROR] bad config"},
		{"with cause", DomainError{Code: ErrCodeConfigError, Message: "bad config", Cause: errors.New("line 3")}, "[CONFIG_ERROR] bad config: line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewFileNotFoundError("a.py", cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
	if (DomainError{Code: ErrCodeAnalysisError}).Unwrap() != nil {
		t.Error("Unwrap should return nil when no cause")
	}
}

func TestErrorConstructors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name     string
		err      error
		code     string
		message  string
		hasCause bool
	}{
		{"domain", NewDomainError("CODE", "message", cause), "CODE", "message", true},
		{"invalid input", NewInvalidInputError("no paths", nil), ErrCodeInvalidInput, "no paths", false},
		{"file not found", NewFileNotFoundError("pkg/a.py", cause), ErrCodeFileNotFound, "file not found: pkg/a.py", true},
		{"parse", NewParseError("a.py", cause), ErrCodeParseError, "failed to parse a.py", true},
		{"analysis", NewAnalysisError("style check failed", nil), ErrCodeAnalysisError, "style check failed", false},
		{"config", NewConfigError("invalid config", nil), ErrCodeConfigError, "invalid config", false},
		{"output", NewOutputError("write failed", cause), ErrCodeOutputError, "write failed", true},
		{"unsupported format", NewUnsupportedFormatError("xml"), ErrCodeUnsupportedFormat, "unsupported format: xml", false},
		{"validation", NewValidationError("unknown rule"), ErrCodeInvalidInput, "unknown rule", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de, ok := tt.err.(DomainError)
			if !ok {
				t.Fatalf("expected DomainError, got %T", tt.err)
			}
			if de.Code != tt.code {
				t.Errorf("Code = %q, want %q", de.Code, tt.code)
			}
			if de.Message != tt.message {
				t.Errorf("Message = %q, want %q", de.Message, tt.message)
			}
			if (de.Cause != nil) != tt.hasCause {
				t.Errorf("Cause = %v, want cause %v", de.Cause, tt.hasCause)
			}
		})
	}
}

// Output format tests

func TestOutputFormat_Constants(t *testing.T) {
	formats := map[OutputFormat]string{
		OutputFormatText: "text",
		OutputFormatJSON: "json",
		OutputFormatYAML: "yaml",
		OutputFormatCSV:  "csv",
	}

	for format, expected := range formats {
		if string(format) != expected {
			t.Errorf("OutputFormat %s should equal '%s'", format, expected)
		}
	}
}

func TestIsParseError(t *testing.T) {
	parseErr := NewParseError("bad.py", errors.New("syntax error at 1:4"))
	if !IsParseError(parseErr) {
		t.Error("IsParseError should detect a parse error")
	}

	wrapped := fmt.Errorf("checking file: %w", parseErr)
	if !IsParseError(wrapped) {
		t.Error("IsParseError should detect a wrapped parse error")
	}

	nested := NewAnalysisError("analysis failed", parseErr)
	if IsParseError(nested) {
		t.Error("the outermost domain error decides the classification")
	}

	if IsParseError(NewConfigError("bad config", nil)) {
		t.Error("config error is not a parse error")
	}
	if IsParseError(nil) {
		t.Error("nil is not a parse error")
	}
}

// Check result tests

func TestNewCheckResult_Clean(t *testing.T) {
	resp := &StyleResponse{
		Files:   []FileDiagnostics{{FilePath: "a.py"}},
		Summary: StyleSummary{FilesAnalyzed: 1},
	}

	result := NewCheckResult(resp)
	if !result.Passed {
		t.Error("Expected check to pass")
	}
	if result.ExitCode != ExitCodeClean {
		t.Errorf("Expected exit code %d, got %d", ExitCodeClean, result.ExitCode)
	}
	if result.Diagnostics == nil {
		t.Error("Diagnostics should be an empty slice, not nil")
	}
}

func TestNewCheckResult_Violations(t *testing.T) {
	resp := &StyleResponse{
		Files: []FileDiagnostics{
			{FilePath: "a.py", Diagnostics: []Diagnostic{NewDiagnostic("a.py", 3, KindTodo)}},
			{FilePath: "b.py", Diagnostics: []Diagnostic{NewDiagnostic("b.py", 1, KindLength)}},
		},
		Summary: StyleSummary{FilesAnalyzed: 2, TotalDiagnostics: 2},
	}

	result := NewCheckResult(resp)
	if result.Passed {
		t.Error("Expected check to fail")
	}
	if result.ExitCode != ExitCodeViolations {
		t.Errorf("Expected exit code %d, got %d", ExitCodeViolations, result.ExitCode)
	}
	if len(result.Diagnostics) != 2 {
		t.Fatalf("Expected 2 diagnostics, got %d", len(result.Diagnostics))
	}
	if result.Diagnostics[0].FilePath != "a.py" || result.Diagnostics[1].FilePath != "b.py" {
		t.Error("Diagnostics should keep file order")
	}
}

func TestNewCheckResult_AnalysisErrorWins(t *testing.T) {
	resp := &StyleResponse{
		Files: []FileDiagnostics{
			{FilePath: "a.py", Diagnostics: []Diagnostic{NewDiagnostic("a.py", 3, KindTodo)}, Error: "parse failed"},
		},
		Summary: StyleSummary{FilesAnalyzed: 1, FilesFailed: 1, TotalDiagnostics: 1},
		Errors:  []string{"a.py: parse failed"},
	}

	result := NewCheckResult(resp)
	if result.ExitCode != ExitCodeAnalysisErr {
		t.Errorf("Expected exit code %d, got %d", ExitCodeAnalysisErr, result.ExitCode)
	}
}
