package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/analyzer"
	"github.com/ludo-technologies/pystyle/internal/version"
)

// StyleServiceImpl implements the StyleService interface
type StyleServiceImpl struct {
	analyzer *analyzer.FileAnalyzer
	progress domain.ProgressManager
	logger   *log.Logger
}

// NewStyleService creates a new style service implementation
func NewStyleService() *StyleServiceImpl {
	return &StyleServiceImpl{
		analyzer: analyzer.NewFileAnalyzer(),
	}
}

// NewStyleServiceWithProgress creates a new style service with progress reporting
func NewStyleServiceWithProgress(pm domain.ProgressManager) *StyleServiceImpl {
	s := NewStyleService()
	s.progress = pm
	return s
}

// SetLogger sets an optional logger for per-file failures and timings
func (s *StyleServiceImpl) SetLogger(logger *log.Logger) {
	s.logger = logger
	s.analyzer.SetLogger(logger)
}

func (s *StyleServiceImpl) logf(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// Analyze checks every file in req.Paths. Files are analyzed in parallel;
// results keep the order of req.Paths. A file that cannot be read or parsed
// is reported in the response, not as an error.
func (s *StyleServiceImpl) Analyze(ctx context.Context, req domain.StyleRequest) (*domain.StyleResponse, error) {
	start := time.Now()

	filter, err := analyzer.NewKindFilter(req.Select, req.Ignore)
	if err != nil {
		return nil, err
	}

	results := make([]domain.FileDiagnostics, len(req.Paths))
	tasks := make([]domain.ExecutableTask, len(req.Paths))
	for i, path := range req.Paths {
		tasks[i] = &fileTask{
			path:     path,
			analyzer: s.analyzer,
			filter:   filter,
			result:   &results[i],
		}
	}

	executor := NewParallelExecutorForRequest(req, s.progress)
	executor.SetDescription(fmt.Sprintf("Checking %d files", len(tasks)))

	if err := executor.Execute(ctx, tasks); err != nil {
		if interrupted(err) {
			return nil, domain.NewAnalysisError("style check interrupted", err)
		}
		s.logf("%v", err)
	}

	response := &domain.StyleResponse{
		Files:       results,
		Summary:     summarize(results),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.GetVersion(),
	}
	for _, r := range results {
		if r.Error != "" {
			response.Errors = append(response.Errors, r.Error)
		}
	}

	s.logf("checked %d files in %v: %d diagnostics, %d failed",
		len(results), time.Since(start).Round(time.Millisecond),
		response.Summary.TotalDiagnostics, response.Summary.FilesFailed)

	return response, nil
}

// AnalyzeFile checks a single Python file
func (s *StyleServiceImpl) AnalyzeFile(ctx context.Context, filePath string, req domain.StyleRequest) (*domain.FileDiagnostics, error) {
	filter, err := analyzer.NewKindFilter(req.Select, req.Ignore)
	if err != nil {
		return nil, err
	}

	result := &domain.FileDiagnostics{}
	task := &fileTask{path: filePath, analyzer: s.analyzer, filter: filter, result: result}
	if _, err := task.Execute(ctx); err != nil {
		if interrupted(err) {
			return nil, domain.NewAnalysisError("style check interrupted", err)
		}
		return result, err
	}
	return result, nil
}

// fileTask checks one file and stores the outcome in its own slot
type fileTask struct {
	path     string
	analyzer *analyzer.FileAnalyzer
	filter   *analyzer.KindFilter
	result   *domain.FileDiagnostics
}

// Name returns the file path
func (t *fileTask) Name() string {
	return t.path
}

// IsEnabled reports true; every collected file is checked
func (t *fileTask) IsEnabled() bool {
	return true
}

// Execute reads and analyzes the file. Read and parse failures are recorded
// on the slot and also returned.
func (t *fileTask) Execute(ctx context.Context) (interface{}, error) {
	t.result.FilePath = t.path

	source, err := os.ReadFile(t.path)
	if err != nil {
		t.result.Error = err.Error()
		return nil, domain.NewFileNotFoundError(t.path, err)
	}

	fileResult, err := t.analyzer.Analyze(ctx, t.path, source)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	t.result.Diagnostics = t.filter.Apply(fileResult.Diagnostics())
	if err != nil {
		t.result.Error = fmt.Sprintf("%s: %v", t.path, err)
		return nil, domain.NewAnalysisError("failed to analyze "+t.path, err)
	}
	if fileResult.SyntaxError != nil {
		t.result.Error = fileResult.SyntaxError.Error()
		return nil, domain.NewParseError(t.path, fileResult.SyntaxError)
	}
	return t.result, nil
}

// interrupted reports whether err, or any task error it aggregates, stems
// from cancellation or the deadline
func interrupted(err error) bool {
	var agg *AggregatedError
	if errors.As(err, &agg) {
		for _, te := range agg.Errors {
			if interrupted(te.Err) {
				return true
			}
		}
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// summarize builds the totals of a run
func summarize(results []domain.FileDiagnostics) domain.StyleSummary {
	summary := domain.StyleSummary{
		FilesAnalyzed: len(results),
		ByCode:        make(map[string]int),
	}
	for _, r := range results {
		if r.Error != "" {
			summary.FilesFailed++
		}
		if len(r.Diagnostics) > 0 {
			summary.FilesWithIssues++
		}
		summary.TotalDiagnostics += len(r.Diagnostics)
		for _, d := range r.Diagnostics {
			summary.ByCode[d.Kind.Code()]++
		}
	}
	return summary
}
