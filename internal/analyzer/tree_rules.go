package analyzer

import (
	"strings"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/parser"
)

// ParsedFunction is the part of a function definition the tree rules read
type ParsedFunction struct {
	Line     int
	Params   []string
	Body     []*parser.Node
	Defaults []*parser.Node
}

// NewParsedFunction extracts the rule view of a function definition node
func NewParsedFunction(fn *parser.Node) *ParsedFunction {
	pf := &ParsedFunction{
		Line: fn.Location.StartLine,
		Body: fn.Body,
	}
	if fn.Args != nil {
		for _, arg := range fn.Args.Args {
			pf.Params = append(pf.Params, arg.Name)
		}
		pf.Defaults = fn.Args.Defaults
	}
	return pf
}

// TreeChecker runs the syntax tree rules over every function in a module
type TreeChecker struct {
	path        string
	diagnostics []domain.Diagnostic
}

// NewTreeChecker creates a checker attributing diagnostics to path
func NewTreeChecker(path string) *TreeChecker {
	return &TreeChecker{path: path}
}

// Check walks the tree in source order and returns the diagnostics of every
// function definition, nested ones included
func (tc *TreeChecker) Check(root *parser.Node) []domain.Diagnostic {
	tc.diagnostics = nil
	root.Walk(func(node *parser.Node) bool {
		switch node.Type {
		case parser.NodeFunctionDef:
			tc.checkFunction(NewParsedFunction(node))
		case parser.NodeAsyncFunctionDef:
			// Coroutines are descended into but not checked themselves.
		}
		return true
	})
	return tc.diagnostics
}

func (tc *TreeChecker) checkFunction(fn *ParsedFunction) {
	tc.checkArguments(fn)
	tc.checkLocalVariables(fn)
	tc.checkDefaults(fn)
}

func (tc *TreeChecker) checkArguments(fn *ParsedFunction) {
	for _, name := range fn.Params {
		if !IsSnakeCase(name) {
			tc.report(fn.Line, domain.KindArgumentCasing)
		}
	}
}

// checkLocalVariables looks only at direct body statements. The reported line
// is the def line plus the statement's position in the body, which is not
// the statement's real line when the body has blank lines, comments or
// multi-line statements.
func (tc *TreeChecker) checkLocalVariables(fn *ParsedFunction) {
	for offset, stmt := range fn.Body {
		if stmt.Type != parser.NodeAssign || len(stmt.Targets) == 0 {
			continue
		}
		target := stmt.Targets[0]
		if target.Type != parser.NodeName {
			continue
		}
		if !strings.Contains(target.Name, "_") {
			tc.report(fn.Line+offset+1, domain.KindVariableCasing)
		}
	}
}

func (tc *TreeChecker) checkDefaults(fn *ParsedFunction) {
	for _, def := range fn.Defaults {
		if !def.IsConstant() {
			tc.report(fn.Line, domain.KindMutableDefault)
		}
	}
}

func (tc *TreeChecker) report(line int, kind domain.DiagnosticKind) {
	tc.diagnostics = append(tc.diagnostics, domain.NewDiagnostic(tc.path, line, kind))
}
