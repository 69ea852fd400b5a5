package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/pystyle/internal/config"
	"github.com/ludo-technologies/pystyle/internal/constants"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

// initOptions holds the flags of the init command
type initOptions struct {
	configPath  string
	force       bool
	minimal     bool
	interactive bool
}

func initCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a pystyle configuration file",
		Long: `Generate a documented .pystyle.yaml with the default settings.

Use --interactive to pick a project layout and a strictness level; the
choice decides the include/exclude patterns and the ignored rules.

Examples:
  pystyle init
  pystyle init --config tools/pystyle.yaml
  pystyle init --force --minimal
  pystyle init -i`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", constants.ConfigFileName,
		"Output path for the config file")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().BoolVar(&opts.minimal, "minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func (o *initOptions) run(out io.Writer) error {
	projectType := config.ProjectTypeGeneric
	strictness := config.StrictnessStandard

	if o.interactive {
		answers, err := askSetup(o.configPath)
		if err != nil {
			return err
		}
		projectType, strictness, o.configPath = answers.projectType, answers.strictness, answers.path
	}

	if err := o.checkTarget(); err != nil {
		return err
	}

	content := config.GetFullConfigTemplate(projectType, strictness)
	if o.minimal {
		content = config.GetMinimalConfigTemplate()
	}
	if err := os.WriteFile(o.configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := o.configPath
	if absPath, err := filepath.Abs(o.configPath); err == nil {
		displayPath = absPath
	}
	fmt.Fprintf(out, "Created %s\n", displayPath)
	fmt.Fprintln(out, "\nRun 'pystyle .' to check your project.")
	return nil
}

// checkTarget refuses to overwrite without --force and to create directories
func (o *initOptions) checkTarget() error {
	if !o.force {
		if _, err := os.Stat(o.configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", o.configPath)
		}
	}

	dir := filepath.Dir(o.configPath)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("directory does not exist: %s", dir)
	}
	return nil
}

// choice is one entry of a select prompt
type choice[T any] struct {
	Label       string
	Description string
	Value       T
}

var selectTemplates = &promptui.SelectTemplates{
	Label:    "{{ . }}",
	Active:   "> {{ .Label | cyan }}{{ if .Description }} - {{ .Description | faint }}{{ end }}",
	Inactive: "  {{ .Label }}{{ if .Description }} - {{ .Description | faint }}{{ end }}",
	Selected: "{{ .Label | green }}",
}

// pick shows a select prompt and returns the chosen value
func pick[T any](label string, choices []choice[T]) (T, error) {
	prompt := promptui.Select{
		Label:     label,
		Items:     choices,
		Templates: selectTemplates,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		var zero T
		return zero, err
	}
	return choices[idx].Value, nil
}

type setupAnswers struct {
	projectType config.ProjectType
	strictness  config.Strictness
	path        string
}

func askSetup(defaultPath string) (setupAnswers, error) {
	var answers setupAnswers
	var err error

	fmt.Println("pystyle configuration setup")
	fmt.Println()

	answers.projectType, err = pick("Project layout", []choice[config.ProjectType]{
		{Label: "Generic Python project", Value: config.ProjectTypeGeneric},
		{Label: "Django application", Description: "skips migrations, static and media", Value: config.ProjectTypeDjango},
		{Label: "Library", Description: "checks src/ and tests/", Value: config.ProjectTypeLibrary},
		{Label: "Loose scripts", Description: "top-level files only", Value: config.ProjectTypeScripts},
	})
	if err != nil {
		return answers, fmt.Errorf("project selection cancelled: %w", err)
	}

	answers.strictness, err = pick("Strictness", []choice[config.Strictness]{
		{Label: "Standard", Description: "every rule except TODO markers", Value: config.StrictnessStandard},
		{Label: "Relaxed", Description: "skip line length, TODO and variable naming", Value: config.StrictnessRelaxed},
		{Label: "Strict", Description: "every rule, for CI enforcement", Value: config.StrictnessStrict},
	})
	if err != nil {
		return answers, fmt.Errorf("strictness selection cancelled: %w", err)
	}

	pathPrompt := promptui.Prompt{
		Label:   "Output file path",
		Default: defaultPath,
	}
	answers.path, err = pathPrompt.Run()
	if err != nil {
		return answers, fmt.Errorf("output path input cancelled: %w", err)
	}
	if answers.path == "" {
		answers.path = defaultPath
	}

	return answers, nil
}
