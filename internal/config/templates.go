package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// ProjectType represents the layout of the Python project being configured
type ProjectType string

const (
	ProjectTypeGeneric ProjectType = "generic"
	ProjectTypeDjango  ProjectType = "django"
	ProjectTypeLibrary ProjectType = "library"
	ProjectTypeScripts ProjectType = "scripts"
)

// Strictness represents how many rules are reported
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file discovery presets for a project type
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds the rules ignored at a strictness level
type StrictnessPreset struct {
	Ignore []string
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	common := []string{".venv", "venv", "__pycache__", ".tox", ".git"}
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: append([]string{"build", "dist"}, common...),
		},
		ProjectTypeDjango: {
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: append([]string{"migrations", "static", "media"}, common...),
		},
		ProjectTypeLibrary: {
			IncludePatterns: []string{"src/**/*.py", "tests/**/*.py"},
			ExcludePatterns: append([]string{"build", "dist", "*.egg-info", "docs"}, common...),
		},
		ProjectTypeScripts: {
			IncludePatterns: []string{"*.py"},
			ExcludePatterns: common,
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			Ignore: []string{"todo", "variable-casing", "length"},
		},
		StrictnessStandard: {
			Ignore: []string{"todo"},
		},
		StrictnessStrict: {
			Ignore: []string{},
		},
	}
}

// GetFullConfigTemplate returns the documented .pystyle.yaml template
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	preset, ok := GetProjectPresets()[projectType]
	if !ok {
		preset = GetProjectPresets()[ProjectTypeGeneric]
	}
	strict, ok := GetStrictnessPresets()[strictness]
	if !ok {
		strict = GetStrictnessPresets()[StrictnessStandard]
	}

	return `# pystyle configuration
# Values here override defaults; command-line flags override values here.

# ============================================================================
# RULES
# ============================================================================
# Rules are named by code (Error3) or by name (semicolon).
# Run "pystyle rules" for the full list.
rules:
  # Report only these rules (empty = all rules)
  select: []

  # Never report these rules
  ignore:` + formatYAMLList(strict.Ignore, 4) + `

# ============================================================================
# OUTPUT SETTINGS
# ============================================================================
output:
  # Output format: text, json, yaml, csv
  format: text

  # Color for text output: auto, always, never
  color: auto

  # Print per-rule totals after the diagnostics
  show_summary: false

# ============================================================================
# ANALYSIS SCOPE
# ============================================================================
analysis:
  # File patterns to include (glob patterns)
  include_patterns:` + formatYAMLList(preset.IncludePatterns, 4) + `

  # File or directory patterns to exclude
  exclude_patterns:` + formatYAMLList(preset.ExcludePatterns, 4) + `

  # Descend into subdirectories
  recursive: true

  # Skip files matched by .gitignore
  respect_gitignore: true

# ============================================================================
# PERFORMANCE
# ============================================================================
performance:
  # Files analyzed in parallel
  max_goroutines: 8

  # Deadline for the whole run in seconds (0 = no deadline)
  timeout_seconds: 300

  # Show a progress bar on interactive terminals
  show_progress: true
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `# pystyle configuration (minimal)
# Run "pystyle init" without --minimal for every option.

rules:
  ignore: []

analysis:
  exclude_patterns: [".venv", "venv", "__pycache__", ".git"]
`
}

// formatYAMLList renders items as a YAML block sequence indented by indent
// spaces, or as an inline empty list
func formatYAMLList(items []string, indent int) string {
	if len(items) == 0 {
		return " []"
	}

	data, err := yaml.Marshal(items)
	if err != nil {
		return " []"
	}

	pad := strings.Repeat(" ", indent)
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		b.WriteString("\n")
		b.WriteString(pad)
		b.WriteString(line)
	}
	return b.String()
}
