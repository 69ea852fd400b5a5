package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// SyntaxError reports source text that could not be parsed
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}

// Parser wraps a tree-sitter parser configured for Python
type Parser struct {
	parser   *sitter.Parser
	language *sitter.Language
}

// NewParser creates a new Python parser. A Parser is not safe for
// concurrent use; create one per goroutine.
func NewParser() *Parser {
	parser := sitter.NewParser()
	lang := python.GetLanguage()
	parser.SetLanguage(lang)

	return &Parser{
		parser:   parser,
		language: lang,
	}
}

// ParseFile parses a Python file
func (p *Parser) ParseFile(filename string, source []byte) (*Node, error) {
	return p.ParseFileCtx(context.Background(), filename, source)
}

// ParseFileCtx parses a Python file, honoring ctx cancellation
func (p *Parser) ParseFileCtx(ctx context.Context, filename string, source []byte) (*Node, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s: %v", filename, err)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("no root node in parse tree for %s", filename)
	}

	if rootNode.HasError() {
		return nil, newSyntaxError(filename, source, rootNode)
	}

	builder := NewASTBuilder(filename, source)
	return builder.Build(rootNode), nil
}

// Parse parses Python source code
func (p *Parser) Parse(source []byte) (*Node, error) {
	return p.ParseFile("<input>", source)
}

// ParseString parses Python source code from a string
func (p *Parser) ParseString(source string) (*Node, error) {
	return p.Parse([]byte(source))
}

// Close closes the parser and frees resources
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// ParsePython parses a file with a short-lived parser
func ParsePython(ctx context.Context, filename string, source []byte) (*Node, error) {
	parser := NewParser()
	defer parser.Close()

	return parser.ParseFileCtx(ctx, filename, source)
}

// newSyntaxError locates the first ERROR or MISSING node in document order
func newSyntaxError(filename string, source []byte, root *sitter.Node) *SyntaxError {
	bad := firstErrorNode(root)
	if bad == nil {
		bad = root
	}

	loc := NewASTBuilder(filename, source).getLocation(bad)
	msg := "invalid syntax"
	if bad.IsMissing() {
		msg = fmt.Sprintf("missing %q", bad.Type())
	} else if bad.Type() == "ERROR" {
		if text := bad.Content(source); text != "" && len(text) <= 40 {
			msg = fmt.Sprintf("invalid syntax near %q", text)
		}
	}

	return &SyntaxError{
		File:    filename,
		Line:    loc.StartLine,
		Column:  loc.StartCol + 1,
		Message: msg,
	}
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if found := firstErrorNode(n.Child(i)); found != nil {
			return found
		}
	}
	return nil
}
