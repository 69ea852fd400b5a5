package domain

// CheckResult represents the result of a CI style check
type CheckResult struct {
	Passed      bool         `json:"passed"`
	ExitCode    int          `json:"exit_code"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Errors      []string     `json:"errors,omitempty"`
	Summary     CheckSummary `json:"summary"`
	Duration    int64        `json:"duration_ms"`
	GeneratedAt string       `json:"generated_at"`
	Version     string       `json:"version"`
}

// CheckSummary provides aggregate statistics
type CheckSummary struct {
	FilesAnalyzed    int            `json:"files_analyzed"`
	FilesFailed      int            `json:"files_failed"`
	TotalDiagnostics int            `json:"total_diagnostics"`
	ByCode           map[string]int `json:"by_code,omitempty"`
}

// Exit codes used by the check command
const (
	ExitCodeClean       = 0
	ExitCodeViolations  = 1
	ExitCodeAnalysisErr = 2
)

// NewCheckResult derives a check result from a style response
func NewCheckResult(resp *StyleResponse) *CheckResult {
	result := &CheckResult{
		Passed:      true,
		ExitCode:    ExitCodeClean,
		Diagnostics: resp.Diagnostics(),
		Errors:      resp.Errors,
		Summary: CheckSummary{
			FilesAnalyzed:    resp.Summary.FilesAnalyzed,
			FilesFailed:      resp.Summary.FilesFailed,
			TotalDiagnostics: resp.Summary.TotalDiagnostics,
			ByCode:           resp.Summary.ByCode,
		},
		GeneratedAt: resp.GeneratedAt,
		Version:     resp.Version,
	}
	if result.Diagnostics == nil {
		result.Diagnostics = []Diagnostic{}
	}

	switch {
	case resp.HasErrors():
		result.Passed = false
		result.ExitCode = ExitCodeAnalysisErr
	case result.Summary.TotalDiagnostics > 0:
		result.Passed = false
		result.ExitCode = ExitCodeViolations
	}
	return result
}
