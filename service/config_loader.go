package service

import (
	"fmt"
	"time"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.StyleRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToStyleRequest(cfg, path), nil
}

// LoadConfigForTarget loads configPath, or the file discovered from
// targetPath upward when configPath is empty
func (c *ConfigurationLoaderImpl) LoadConfigForTarget(configPath, targetPath string) (*domain.StyleRequest, error) {
	resolved := config.ResolveConfigPath(configPath, targetPath)
	cfg, err := config.LoadConfigWithTarget(resolved, targetPath)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToStyleRequest(cfg, resolved), nil
}

// LoadDefaultConfig loads the discovered configuration, falling back to the
// built-in defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.StyleRequest {
	resolved := config.ResolveConfigPath("", "")
	cfg, err := config.LoadConfigWithTarget(resolved, "")
	if err == nil {
		return c.convertToStyleRequest(cfg, resolved)
	}

	return c.convertToStyleRequest(config.DefaultConfig(), "")
}

// MergeConfig merges CLI flags with configuration file. Non-zero override
// fields win; boolean switches that default to true are left to the caller.
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.StyleRequest, override *domain.StyleRequest) *domain.StyleRequest {
	merged := *base

	// Paths always come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.Color != "" {
		merged.Color = override.Color
	}
	if override.ShowSummary {
		merged.ShowSummary = true
	}

	if override.Select != nil {
		merged.Select = override.Select
	}
	if override.Ignore != nil {
		merged.Ignore = override.Ignore
	}

	if override.IncludePatterns != nil {
		merged.IncludePatterns = override.IncludePatterns
	}
	if override.ExcludePatterns != nil {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	if override.MaxGoroutines > 0 {
		merged.MaxGoroutines = override.MaxGoroutines
	}
	if override.Timeout > 0 {
		merged.Timeout = override.Timeout
	}

	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	return &merged
}

// convertToStyleRequest converts a Config to StyleRequest
func (c *ConfigurationLoaderImpl) convertToStyleRequest(cfg *config.Config, path string) *domain.StyleRequest {
	return &domain.StyleRequest{
		// Paths are set by the caller, not from config
		Paths: []string{},

		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		Color:        domain.ColorMode(cfg.Output.Color),
		ShowSummary:  cfg.Output.ShowSummary,

		Select: cfg.Rules.Select,
		Ignore: cfg.Rules.Ignore,

		ConfigPath: path,

		Recursive:        cfg.Analysis.Recursive,
		RespectGitignore: cfg.Analysis.RespectGitignore,
		IncludePatterns:  cfg.Analysis.IncludePatterns,
		ExcludePatterns:  cfg.Analysis.ExcludePatterns,

		MaxGoroutines: cfg.Performance.MaxGoroutines,
		Timeout:       time.Duration(cfg.Performance.TimeoutSeconds) * time.Second,
		ShowProgress:  cfg.Performance.ShowProgress,
	}
}

// ValidateConfig validates a merged request
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.StyleRequest) error {
	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatYAML: true,
		domain.OutputFormatCSV:  true,
	}
	if !validFormats[req.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, csv)", req.OutputFormat)
	}

	switch req.Color {
	case domain.ColorAuto, domain.ColorAlways, domain.ColorNever:
	default:
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", req.Color)
	}

	for _, rule := range req.Select {
		if _, ok := domain.LookupKind(rule); !ok {
			return fmt.Errorf("unknown rule in select: %s", rule)
		}
	}
	for _, rule := range req.Ignore {
		if _, ok := domain.LookupKind(rule); !ok {
			return fmt.Errorf("unknown rule in ignore: %s", rule)
		}
	}

	if req.MaxGoroutines < 1 {
		return fmt.Errorf("max_goroutines must be >= 1, got %d", req.MaxGoroutines)
	}
	if req.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %v", req.Timeout)
	}

	return nil
}
