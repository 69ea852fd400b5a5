package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/spf13/cobra"
)

// checkOptions holds the flags of the check command
type checkOptions struct {
	styleOptions
	jsonOutput bool
}

func checkCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Style check for CI/CD pipelines",
		Long: `Check Python files and report the outcome through the exit code.

Exit codes:
  0 - No diagnostics
  1 - Diagnostics found
  2 - Analysis error (no files, unreadable file, parse error, etc.)

Examples:
  # Basic check
  pystyle check src/

  # Only naming rules
  pystyle check --select class-casing,function-casing,argument-casing src/

  # JSON output for machine parsing
  pystyle check --json src/`,
		RunE:          opts.runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	opts.addFlags(cmd)
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false,
		"Output results as JSON")

	return cmd
}

func (o *checkOptions) runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: domain.ExitCodeAnalysisErr, Message: "no paths specified"}
	}

	startTime := time.Now()

	req, err := o.buildRequest(cmd, args)
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeAnalysisErr, Message: err.Error()}
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	// --json replaces the formatted diagnostics with the check result
	if o.jsonOutput {
		req.ShowProgress = false
	} else {
		req.OutputWriter = out
	}

	uc, closeProgress, err := o.newStyleUseCase(req, out, errOut)
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeAnalysisErr, Message: err.Error()}
	}
	defer closeProgress()

	resp, err := uc.Execute(context.Background(), *req)
	if err != nil {
		return &CheckExitError{Code: domain.ExitCodeAnalysisErr, Message: err.Error()}
	}

	result := domain.NewCheckResult(resp)
	result.Duration = time.Since(startTime).Milliseconds()

	if o.jsonOutput {
		return outputCheckJSON(out, result)
	}
	return o.outputCheckText(errOut, result)
}

func (o *checkOptions) outputCheckText(errOut io.Writer, result *domain.CheckResult) error {
	for _, msg := range result.Errors {
		fmt.Fprintln(errOut, msg)
	}

	if result.Passed {
		fmt.Fprintln(errOut, "PASS: No style issues found")
	} else {
		fmt.Fprintln(errOut, "FAIL: Style check failed")
		fmt.Fprintf(errOut, "  Diagnostics: %d\n", result.Summary.TotalDiagnostics)
		if result.Summary.FilesFailed > 0 {
			fmt.Fprintf(errOut, "  Files failed: %d\n", result.Summary.FilesFailed)
		}
	}

	if o.verbose {
		fmt.Fprintf(errOut, "  Files analyzed: %d\n", result.Summary.FilesAnalyzed)
		fmt.Fprintf(errOut, "  Duration: %dms\n", result.Duration)
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}

func outputCheckJSON(out io.Writer, result *domain.CheckResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: domain.ExitCodeAnalysisErr, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: result.ExitCode}
	}
	return nil
}
