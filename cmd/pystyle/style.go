package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/ludo-technologies/pystyle/app"
	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/service"
	"github.com/spf13/cobra"
)

// CheckExitError is a custom error type for command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

// styleOptions holds the flags shared by the root and check commands
type styleOptions struct {
	configPath  string
	format      string
	color       string
	selectRules []string
	ignoreRules []string
	summary     bool
	noRecursive bool
	noGitignore bool
	jobs        int
	progress    bool
	verbose     bool
}

func (o *styleOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "",
		"Path to config file (default: discovered from the first path upward)")
	cmd.Flags().StringVarP(&o.format, "format", "f", "text",
		"Output format: text, json, yaml, csv")
	cmd.Flags().StringVar(&o.color, "color", "auto",
		"Color the code token in text output: auto, always, never")
	cmd.Flags().StringSliceVarP(&o.selectRules, "select", "s", nil,
		"Only report these rules (codes like Error3 or names like semicolon)")
	cmd.Flags().StringSliceVar(&o.ignoreRules, "ignore", nil,
		"Never report these rules")
	cmd.Flags().BoolVar(&o.summary, "summary", false,
		"Print per-rule totals to stderr after the diagnostics")
	cmd.Flags().BoolVar(&o.noRecursive, "no-recursive", false,
		"Do not descend into subdirectories")
	cmd.Flags().BoolVar(&o.noGitignore, "no-gitignore", false,
		"Check files matched by .gitignore too")
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", 0,
		"Files analyzed in parallel (default: from config)")
	cmd.Flags().BoolVar(&o.progress, "progress", false,
		"Show a progress bar on interactive terminals")
	cmd.Flags().BoolVarP(&o.verbose, "verbose", "v", false,
		"Log per-file failures and timings to stderr")
}

// buildRequest loads the configuration for the first path and applies the
// flags the user set explicitly
func (o *styleOptions) buildRequest(cmd *cobra.Command, args []string) (*domain.StyleRequest, error) {
	loader := service.NewConfigurationLoader()

	base, err := loader.LoadConfigForTarget(o.configPath, args[0])
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := &domain.StyleRequest{Paths: args}
	if flags.Changed("format") {
		override.OutputFormat = domain.OutputFormat(o.format)
	}
	if flags.Changed("color") {
		override.Color = domain.ColorMode(o.color)
	}
	if flags.Changed("select") {
		override.Select = o.selectRules
	}
	if flags.Changed("ignore") {
		override.Ignore = o.ignoreRules
	}
	if flags.Changed("jobs") {
		override.MaxGoroutines = o.jobs
	}
	override.ShowSummary = o.summary

	req := loader.MergeConfig(base, override)
	if o.noRecursive {
		req.Recursive = false
	}
	if o.noGitignore {
		req.RespectGitignore = false
	}
	if flags.Changed("progress") {
		req.ShowProgress = o.progress
	}
	if flags.Changed("jobs") && o.jobs < 1 {
		return nil, fmt.Errorf("--jobs must be >= 1, got %d", o.jobs)
	}

	if err := loader.ValidateConfig(req); err != nil {
		return nil, err
	}
	return req, nil
}

// newStyleUseCase wires the service, progress bar and formatter for req
func (o *styleOptions) newStyleUseCase(req *domain.StyleRequest, out, errOut io.Writer) (*app.StyleUseCase, func(), error) {
	pm := service.NewProgressManager(req.ShowProgress)

	svc := service.NewStyleServiceWithProgress(pm)
	if o.verbose {
		logger := log.New(errOut, "pystyle: ", log.LstdFlags)
		if req.ConfigPath != "" {
			logger.Printf("using config %s", req.ConfigPath)
		}
		svc.SetLogger(logger)
	}

	formatter := service.NewOutputFormatter()
	formatter.SetColor(service.ShouldColor(req.Color, out))
	formatter.SetShowSummary(req.ShowSummary)
	formatter.SetSummaryWriter(errOut)

	uc, err := app.NewStyleUseCaseBuilder().
		WithService(svc).
		WithFormatter(formatter).
		Build()
	if err != nil {
		pm.Close()
		return nil, nil, err
	}
	return uc, pm.Close, nil
}

// runRoot prints every diagnostic and exits 1 when any file failed to parse
func (o *styleOptions) runRoot(cmd *cobra.Command, args []string) error {
	req, err := o.buildRequest(cmd, args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	req.OutputWriter = out

	uc, closeProgress, err := o.newStyleUseCase(req, out, errOut)
	if err != nil {
		return err
	}
	defer closeProgress()

	resp, err := uc.Execute(context.Background(), *req)
	if err != nil {
		return err
	}

	for _, msg := range resp.Errors {
		fmt.Fprintln(errOut, msg)
	}
	if resp.HasErrors() {
		return &CheckExitError{Code: 1}
	}
	return nil
}
