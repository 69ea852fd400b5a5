package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/pystyle/domain"
)

// StyleUseCase orchestrates the style check workflow
type StyleUseCase struct {
	service    domain.StyleService
	fileHelper *FileHelper
	formatter  domain.OutputFormatter
}

// NewStyleUseCase creates a new style use case
func NewStyleUseCase(service domain.StyleService, formatter domain.OutputFormatter) *StyleUseCase {
	return &StyleUseCase{
		service:    service,
		fileHelper: NewFileHelper(),
		formatter:  formatter,
	}
}

// Execute collects the Python files named by the request, checks them and
// writes the formatted result when the request carries a writer
func (uc *StyleUseCase) Execute(ctx context.Context, req domain.StyleRequest) (*domain.StyleResponse, error) {
	if err := uc.validateRequest(req); err != nil {
		return nil, domain.NewInvalidInputError("invalid request", err)
	}

	uc.fileHelper.SetRespectGitignore(req.RespectGitignore)
	files, err := ResolveFilePaths(
		uc.fileHelper,
		req.Paths,
		req.Recursive,
		req.IncludePatterns,
		req.ExcludePatterns,
	)
	if err != nil {
		return nil, domain.NewFileNotFoundError("failed to collect files", err)
	}

	if len(files) == 0 {
		return nil, domain.NewInvalidInputError("no Python files found in the specified paths", nil)
	}

	req.Paths = files

	response, err := uc.service.Analyze(ctx, req)
	if err != nil {
		return nil, domain.NewAnalysisError("style check failed", err)
	}

	if req.OutputWriter != nil && uc.formatter != nil {
		if err := uc.formatter.Write(response, req.OutputFormat, req.OutputWriter); err != nil {
			return response, domain.NewOutputError("failed to write output", err)
		}
	}

	return response, nil
}

// AnalyzeFile checks a single file
func (uc *StyleUseCase) AnalyzeFile(ctx context.Context, filePath string, req domain.StyleRequest) (*domain.FileDiagnostics, error) {
	if !uc.fileHelper.IsValidPythonFile(filePath) {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("not a Python file: %s", filePath), nil)
	}

	exists, err := uc.fileHelper.FileExists(filePath)
	if err != nil {
		return nil, domain.NewFileNotFoundError(filePath, err)
	}
	if !exists {
		return nil, domain.NewFileNotFoundError(filePath, fmt.Errorf("file does not exist"))
	}

	return uc.service.AnalyzeFile(ctx, filePath, req)
}

// validateRequest validates the style request
func (uc *StyleUseCase) validateRequest(req domain.StyleRequest) error {
	if len(req.Paths) == 0 {
		return fmt.Errorf("no input paths specified")
	}

	switch req.OutputFormat {
	case "", domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV:
	default:
		return fmt.Errorf("unsupported output format: %s", req.OutputFormat)
	}

	if req.MaxGoroutines < 0 {
		return fmt.Errorf("max goroutines cannot be negative")
	}

	for _, rule := range append(append([]string{}, req.Select...), req.Ignore...) {
		if _, ok := domain.LookupKind(rule); !ok {
			return fmt.Errorf("unknown rule: %s", rule)
		}
	}

	return nil
}

// StyleUseCaseBuilder provides a builder pattern for creating StyleUseCase
type StyleUseCaseBuilder struct {
	service    domain.StyleService
	fileHelper *FileHelper
	formatter  domain.OutputFormatter
}

// NewStyleUseCaseBuilder creates a new builder
func NewStyleUseCaseBuilder() *StyleUseCaseBuilder {
	return &StyleUseCaseBuilder{}
}

// WithService sets the style service
func (b *StyleUseCaseBuilder) WithService(service domain.StyleService) *StyleUseCaseBuilder {
	b.service = service
	return b
}

// WithFileHelper sets the file helper
func (b *StyleUseCaseBuilder) WithFileHelper(fileHelper *FileHelper) *StyleUseCaseBuilder {
	b.fileHelper = fileHelper
	return b
}

// WithFormatter sets the output formatter
func (b *StyleUseCaseBuilder) WithFormatter(formatter domain.OutputFormatter) *StyleUseCaseBuilder {
	b.formatter = formatter
	return b
}

// Build creates the StyleUseCase with the configured dependencies
func (b *StyleUseCaseBuilder) Build() (*StyleUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("style service is required")
	}

	uc := &StyleUseCase{
		service:    b.service,
		fileHelper: b.fileHelper,
		formatter:  b.formatter,
	}

	if uc.fileHelper == nil {
		uc.fileHelper = NewFileHelper()
	}

	return uc, nil
}
