package analyzer

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/parser"
)

// FileResult holds the diagnostics of one file, split by pass
type FileResult struct {
	FilePath        string
	LineDiagnostics []domain.Diagnostic
	TreeDiagnostics []domain.Diagnostic
	SyntaxError     *parser.SyntaxError
}

// Diagnostics returns line diagnostics followed by tree diagnostics
func (r *FileResult) Diagnostics() []domain.Diagnostic {
	all := make([]domain.Diagnostic, 0, len(r.LineDiagnostics)+len(r.TreeDiagnostics))
	all = append(all, r.LineDiagnostics...)
	return append(all, r.TreeDiagnostics...)
}

// FileAnalyzer runs the line rules and the tree rules over one file.
// It holds no per-file state and may be shared between goroutines.
type FileAnalyzer struct {
	rules  []LineRule
	logger *log.Logger
}

// NewFileAnalyzer creates a file analyzer with every line rule enabled
func NewFileAnalyzer() *FileAnalyzer {
	return &FileAnalyzer{
		rules:  LineRules(),
		logger: nil,
	}
}

// SetLogger sets an optional logger for parse failures
func (fa *FileAnalyzer) SetLogger(logger *log.Logger) {
	fa.logger = logger
}

// SplitLines splits text into physical lines, each keeping its "\n".
// "\r\n" and lone "\r" are read as "\n". The last line has no terminator
// when the text does not end with one.
func SplitLines(text string) []string {
	if strings.ContainsRune(text, '\r') {
		text = strings.ReplaceAll(text, "\r\n", "\n")
		text = strings.ReplaceAll(text, "\r", "\n")
	}
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// AnalyzeLines runs the blank-run tracker and line rules over lines in order
func (fa *FileAnalyzer) AnalyzeLines(path string, lines []string) []domain.Diagnostic {
	var diags []domain.Diagnostic
	tracker := NewBlankRunTracker(path)

	for i, line := range lines {
		lineNum := i + 1

		blank, runDiag, runFound := tracker.Observe(line, lineNum)
		if blank {
			continue
		}

		// Diagnostics of one line come out in code order, so a blank run
		// report sits between the Todo and ConstructionSpacing results.
		for _, rule := range fa.rules {
			if runFound && rule.Kind > domain.KindBlankRunExceeded {
				diags = append(diags, runDiag)
				runFound = false
			}
			if d, ok := rule.Check(path, line, lineNum); ok {
				diags = append(diags, d)
			}
		}
		if runFound {
			diags = append(diags, runDiag)
		}
	}
	return diags
}

// AnalyzeTree parses source and runs the tree rules. A source that does not
// parse yields a *parser.SyntaxError.
func (fa *FileAnalyzer) AnalyzeTree(ctx context.Context, path string, source []byte) ([]domain.Diagnostic, error) {
	root, err := parser.ParsePython(ctx, path, source)
	if err != nil {
		return nil, err
	}
	return NewTreeChecker(path).Check(root), nil
}

// Analyze runs both passes. Line diagnostics are always produced; a syntax
// error only suppresses the tree pass and is recorded on the result.
func (fa *FileAnalyzer) Analyze(ctx context.Context, path string, source []byte) (*FileResult, error) {
	result := &FileResult{
		FilePath:        path,
		LineDiagnostics: fa.AnalyzeLines(path, SplitLines(string(source))),
	}

	treeDiags, err := fa.AnalyzeTree(ctx, path, source)
	if err != nil {
		var syntaxErr *parser.SyntaxError
		if !errors.As(err, &syntaxErr) {
			return result, err
		}
		if fa.logger != nil {
			fa.logger.Printf("syntax error in %s: %v", path, syntaxErr)
		}
		result.SyntaxError = syntaxErr
		return result, nil
	}
	result.TreeDiagnostics = treeDiags
	return result, nil
}

// AnalyzeFile returns the diagnostics of one file: line-level first, then
// tree-level. When the source does not parse, the line diagnostics are
// returned together with a parse error.
func (fa *FileAnalyzer) AnalyzeFile(path string, source []byte) ([]domain.Diagnostic, error) {
	return fa.AnalyzeFileCtx(context.Background(), path, source)
}

// AnalyzeFileCtx is AnalyzeFile with cancellation
func (fa *FileAnalyzer) AnalyzeFileCtx(ctx context.Context, path string, source []byte) ([]domain.Diagnostic, error) {
	result, err := fa.Analyze(ctx, path, source)
	if err != nil {
		return result.Diagnostics(), domain.NewAnalysisError("failed to analyze "+path, err)
	}
	if result.SyntaxError != nil {
		return result.Diagnostics(), domain.NewParseError(path, result.SyntaxError)
	}
	return result.Diagnostics(), nil
}
