package domain

import (
	"context"
	"io"
	"time"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// ColorMode controls colored text output
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// StyleRequest represents a request for style checking
type StyleRequest struct {
	// Input files or directories to check
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	Color        ColorMode
	ShowSummary  bool

	// Rule filtering: codes ("Error3") or names ("semicolon"); empty Select means all
	Select []string
	Ignore []string

	// Configuration
	ConfigPath string

	// File discovery
	Recursive        bool
	RespectGitignore bool
	IncludePatterns  []string
	ExcludePatterns  []string

	// Execution
	MaxGoroutines int
	Timeout       time.Duration
	ShowProgress  bool
}

// FileDiagnostics holds the result of checking a single file
type FileDiagnostics struct {
	FilePath    string       `json:"file" yaml:"file"`
	Diagnostics []Diagnostic `json:"diagnostics" yaml:"diagnostics"`
	// Error is set when the file could not be read or parsed; line-level
	// diagnostics collected before a parse failure are still kept.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// StyleSummary represents aggregate statistics
type StyleSummary struct {
	FilesAnalyzed    int            `json:"files_analyzed" yaml:"files_analyzed"`
	FilesWithIssues  int            `json:"files_with_issues" yaml:"files_with_issues"`
	FilesFailed      int            `json:"files_failed" yaml:"files_failed"`
	TotalDiagnostics int            `json:"total_diagnostics" yaml:"total_diagnostics"`
	ByCode           map[string]int `json:"by_code,omitempty" yaml:"by_code,omitempty"`
}

// StyleResponse represents the complete result of a style check run
type StyleResponse struct {
	Files   []FileDiagnostics `json:"files" yaml:"files"`
	Summary StyleSummary      `json:"summary" yaml:"summary"`
	Errors  []string          `json:"errors,omitempty" yaml:"errors,omitempty"`

	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
	Version     string `json:"version" yaml:"version"`
}

// Diagnostics flattens the per-file results, preserving file order
func (r *StyleResponse) Diagnostics() []Diagnostic {
	var all []Diagnostic
	for _, f := range r.Files {
		all = append(all, f.Diagnostics...)
	}
	return all
}

// HasErrors reports whether any file failed to be read or parsed
func (r *StyleResponse) HasErrors() bool {
	return len(r.Errors) > 0
}

// StyleService defines the core business logic for style checking
type StyleService interface {
	// Analyze checks every file in req.Paths
	Analyze(ctx context.Context, req StyleRequest) (*StyleResponse, error)

	// AnalyzeFile checks a single Python file
	AnalyzeFile(ctx context.Context, filePath string, req StyleRequest) (*FileDiagnostics, error)
}

// PythonFileReader defines Python-specific file operations
type PythonFileReader interface {
	// CollectPythonFiles finds Python files, sorted by base name
	CollectPythonFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the full content of a file
	ReadFile(path string) ([]byte, error)

	// ReadLines reads a file as physical lines with terminators preserved
	ReadLines(path string) ([]string, error)

	// IsValidPythonFile checks if a file is a Python source file
	IsValidPythonFile(path string) bool

	// FileExists checks if a file exists
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting check results
type OutputFormatter interface {
	// Format formats the response according to the specified format
	Format(response *StyleResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *StyleResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*StyleRequest, error)

	// LoadDefaultConfig loads the discovered or built-in configuration
	LoadDefaultConfig() *StyleRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *StyleRequest, override *StyleRequest) *StyleRequest
}
