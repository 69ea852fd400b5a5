package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/constants"
	"github.com/spf13/viper"
)

// Default performance settings
const (
	// DefaultMaxGoroutines bounds concurrent file analysis
	DefaultMaxGoroutines = 8

	// DefaultTimeoutSeconds is the deadline for a whole run
	DefaultTimeoutSeconds = 300
)

// Config represents the main configuration structure
type Config struct {
	// Rules selects which diagnostic kinds are reported
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules" toml:"rules"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output" toml:"output"`

	// Analysis holds file discovery configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis" toml:"analysis"`

	// Performance holds concurrency and deadline settings
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance" toml:"performance"`
}

// RulesConfig holds rule selection. Entries are codes ("Error3") or names
// ("semicolon"); an empty Select means every rule.
type RulesConfig struct {
	Select []string `json:"select" mapstructure:"select" yaml:"select" toml:"select"`
	Ignore []string `json:"ignore" mapstructure:"ignore" yaml:"ignore" toml:"ignore"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv
	Format string `json:"format" mapstructure:"format" yaml:"format" toml:"format"`

	// Color is auto, always or never
	Color string `json:"color" mapstructure:"color" yaml:"color" toml:"color"`

	// ShowSummary prints per-code totals after the diagnostics
	ShowSummary bool `json:"show_summary" mapstructure:"show_summary" yaml:"show_summary" toml:"show_summary"`
}

// AnalysisConfig holds file discovery configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`

	// Recursive controls whether to analyze directories recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive" toml:"recursive"`

	// RespectGitignore skips paths matched by the .gitignore at the walk root
	RespectGitignore bool `json:"respect_gitignore" mapstructure:"respect_gitignore" yaml:"respect_gitignore" toml:"respect_gitignore"`
}

// PerformanceConfig holds concurrency settings
type PerformanceConfig struct {
	// MaxGoroutines bounds the number of files analyzed at once
	MaxGoroutines int `json:"max_goroutines" mapstructure:"max_goroutines" yaml:"max_goroutines" toml:"max_goroutines"`

	// TimeoutSeconds is the deadline for the whole run; 0 disables it
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`

	// ShowProgress displays a progress bar on interactive terminals
	ShowProgress bool `json:"show_progress" mapstructure:"show_progress" yaml:"show_progress" toml:"show_progress"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			Select: []string{},
			Ignore: []string{},
		},
		Output: OutputConfig{
			Format:      constants.OutputFormatText,
			Color:       "auto",
			ShowSummary: false,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{
				// Virtual environments
				".venv",
				"venv",
				"env",
				// Caches and build outputs
				"__pycache__",
				".mypy_cache",
				".pytest_cache",
				".tox",
				"build",
				"dist",
				"*.egg-info",
				// Version control
				".git",
			},
			Recursive:        true,
			RespectGitignore: true,
		},
		Performance: PerformanceConfig{
			MaxGoroutines:  DefaultMaxGoroutines,
			TimeoutSeconds: DefaultTimeoutSeconds,
			ShowProgress:   true,
		},
	}
}

// configCandidates are the file names searched for, in priority order
var configCandidates = []string{
	".pystyle.yaml",
	".pystyle.yml",
	"pystyle.yaml",
	"pystyle.yml",
	".pystyle.toml",
	"pystyle.json",
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// LoadConfigWithTarget loads configuration with target path context.
// An empty configPath triggers discovery starting at targetPath.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = findDefaultConfig(targetPath)
	}
	return loadConfigFromFile(configPath)
}

// ResolveConfigPath returns the file LoadConfigWithTarget would read, or ""
func ResolveConfigPath(configPath, targetPath string) string {
	if configPath != "" {
		return configPath
	}
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		config := DefaultConfig()
		if err := applyEnv(config); err != nil {
			return nil, err
		}
		return config, nil
	}

	if filepath.Base(configPath) == constants.PyprojectFileName {
		return loadPyproject(configPath)
	}

	// Create a new viper instance to avoid race conditions
	v := newViper()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError(fmt.Sprintf("failed to read config file %s", configPath), err)
	}

	clearSetLists(v, config)
	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, domain.NewConfigError("invalid configuration", err)
	}

	return config, nil
}

// configKeys lists every key that can be overridden from the environment
var configKeys = []string{
	"rules.select",
	"rules.ignore",
	"output.format",
	"output.color",
	"output.show_summary",
	"analysis.include_patterns",
	"analysis.exclude_patterns",
	"analysis.recursive",
	"analysis.respect_gitignore",
	"performance.max_goroutines",
	"performance.timeout_seconds",
	"performance.show_progress",
}

// newViper returns a viper instance bound to PYSTYLE_* environment variables,
// e.g. PYSTYLE_OUTPUT_FORMAT for output.format
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvVarPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// applyEnv overlays the PYSTYLE_* variables that are set on config
func applyEnv(config *Config) error {
	v := newViper()
	clearSetLists(v, config)
	if err := v.Unmarshal(config); err != nil {
		return domain.NewConfigError("failed to read environment", err)
	}
	if err := config.Validate(); err != nil {
		return domain.NewConfigError("invalid configuration", err)
	}
	return nil
}

// clearSetLists drops the list values that v is about to replace. Decoding
// into a non-empty slice overwrites element-wise and keeps the tail.
func clearSetLists(v *viper.Viper, config *Config) {
	lists := map[string]*[]string{
		"rules.select":              &config.Rules.Select,
		"rules.ignore":              &config.Rules.Ignore,
		"analysis.include_patterns": &config.Analysis.IncludePatterns,
		"analysis.exclude_patterns": &config.Analysis.ExcludePatterns,
	}
	for key, list := range lists {
		if v.IsSet(key) {
			*list = nil
		}
	}
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	if path := filepath.Join(dir, constants.PyprojectFileName); hasPystyleTable(path) {
		return path
	}
	return ""
}

// findDefaultConfig looks for a configuration file from targetPath upward,
// then in the current directory and the user config directory
func findDefaultConfig(targetPath string) string {
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			// If it's a file, start from its directory
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, configCandidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", configCandidates); config != "" {
		return config
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, constants.ToolName), configCandidates); config != "" {
			return config
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", constants.ToolName)
		if config := searchConfigInDirectory(configDir, configCandidates); config != "" {
			return config
		}
	}

	if envConfig := os.Getenv(constants.EnvVarPrefix + "_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	validFormats := map[string]bool{
		constants.OutputFormatText: true,
		constants.OutputFormatJSON: true,
		constants.OutputFormatYAML: true,
		constants.OutputFormatCSV:  true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv", c.Output.Format)
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[c.Output.Color] {
		return fmt.Errorf("invalid output.color '%s', must be one of: auto, always, never", c.Output.Color)
	}

	for _, rule := range c.Rules.Select {
		if _, ok := domain.LookupKind(rule); !ok {
			return fmt.Errorf("unknown rule '%s' in rules.select", rule)
		}
	}
	for _, rule := range c.Rules.Ignore {
		if _, ok := domain.LookupKind(rule); !ok {
			return fmt.Errorf("unknown rule '%s' in rules.ignore", rule)
		}
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Performance.MaxGoroutines < 1 {
		return fmt.Errorf("performance.max_goroutines must be >= 1, got %d", c.Performance.MaxGoroutines)
	}
	if c.Performance.TimeoutSeconds < 0 {
		return fmt.Errorf("performance.timeout_seconds must be >= 0, got %d", c.Performance.TimeoutSeconds)
	}

	return nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("rules", config.Rules)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)
	v.Set("performance", config.Performance)

	return v.WriteConfig()
}
