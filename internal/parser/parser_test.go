package parser

import (
	"context"
	"errors"
	"testing"
)

func parseOrFail(t *testing.T, code string) *Node {
	t.Helper()

	parser := NewParser()
	defer parser.Close()

	ast, err := parser.ParseString(code)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if ast == nil {
		t.Fatal("AST is nil")
	}
	return ast
}

func TestParseSimpleFunction(t *testing.T) {
	ast := parseOrFail(t, "def hello():\n    return 42\n")

	if ast.Type != NodeModule {
		t.Errorf("Expected NodeModule, got %s", ast.Type)
	}

	if len(ast.Body) != 1 {
		t.Fatalf("Expected 1 statement in body, got %d", len(ast.Body))
	}

	funcNode := ast.Body[0]
	if funcNode.Type != NodeFunctionDef {
		t.Errorf("Expected NodeFunctionDef, got %s", funcNode.Type)
	}
	if funcNode.Name != "hello" {
		t.Errorf("Expected function name 'hello', got '%s'", funcNode.Name)
	}
	if funcNode.Location.StartLine != 1 {
		t.Errorf("Expected function on line 1, got %d", funcNode.Location.StartLine)
	}
	if len(funcNode.Body) != 1 {
		t.Errorf("Expected 1 body statement, got %d", len(funcNode.Body))
	}
}

func TestParseAsyncFunction(t *testing.T) {
	ast := parseOrFail(t, "async def fetch(url):\n    return url\n")

	funcs := ast.Functions()
	if len(funcs) != 1 {
		t.Fatalf("Expected 1 function, got %d", len(funcs))
	}
	if funcs[0].Type != NodeAsyncFunctionDef {
		t.Errorf("Expected NodeAsyncFunctionDef, got %s", funcs[0].Type)
	}
	if !funcs[0].IsFunction() {
		t.Error("Async function should report IsFunction")
	}
}

func TestParseDecoratedFunction(t *testing.T) {
	code := "@property\n@cache(size=2)\ndef value(self):\n    return 1\n"
	ast := parseOrFail(t, code)

	funcs := ast.Functions()
	if len(funcs) != 1 {
		t.Fatalf("Expected 1 function, got %d", len(funcs))
	}
	fn := funcs[0]
	if fn.Location.StartLine != 3 {
		t.Errorf("Decorated function should start at the def line 3, got %d", fn.Location.StartLine)
	}
	if len(fn.Decorators) != 2 {
		t.Errorf("Expected 2 decorators, got %d", len(fn.Decorators))
	}
}

func TestParseParameters(t *testing.T) {
	code := "def f(a, b: int, /, c=1, d: str = 'x', *rest, e, g=[], **opts):\n    pass\n"
	ast := parseOrFail(t, code)

	fn := ast.Functions()[0]
	args := fn.Args
	if args == nil {
		t.Fatal("Args should not be nil")
	}

	assertNames(t, "PosOnly", argNames(args.PosOnly), []string{"a", "b"})
	assertNames(t, "Args", argNames(args.Args), []string{"c", "d"})
	assertNames(t, "KwOnly", argNames(args.KwOnly), []string{"e", "g"})

	if args.VarArg == nil || args.VarArg.Name != "rest" {
		t.Errorf("Expected vararg 'rest', got %+v", args.VarArg)
	}
	if args.KwArg == nil || args.KwArg.Name != "opts" {
		t.Errorf("Expected kwarg 'opts', got %+v", args.KwArg)
	}
	if len(args.Defaults) != 2 {
		t.Errorf("Expected 2 positional defaults, got %d", len(args.Defaults))
	}
	if len(args.KwDefaults) != 1 {
		t.Fatalf("Expected 1 keyword-only default, got %d", len(args.KwDefaults))
	}
	if args.KwDefaults[0].Type != NodeList {
		t.Errorf("Expected list default, got %s", args.KwDefaults[0].Type)
	}
}

func TestParseBareStarSeparator(t *testing.T) {
	ast := parseOrFail(t, "def f(a, *, b=None):\n    pass\n")

	args := ast.Functions()[0].Args
	if args.VarArg != nil {
		t.Errorf("Bare '*' should not bind a vararg, got %+v", args.VarArg)
	}
	assertNames(t, "Args", argNames(args.Args), []string{"a"})
	assertNames(t, "KwOnly", argNames(args.KwOnly), []string{"b"})
	if len(args.Defaults) != 0 || len(args.KwDefaults) != 1 {
		t.Errorf("Expected defaults 0/1, got %d/%d", len(args.Defaults), len(args.KwDefaults))
	}
}

func TestParseDefaultKinds(t *testing.T) {
	tests := []struct {
		name     string
		def      string
		expected NodeType
		constant bool
	}{
		{"integer", "1", NodeConstant, true},
		{"float", "1.5", NodeConstant, true},
		{"string", "'x'", NodeConstant, true},
		{"bytes", "b'x'", NodeConstant, true},
		{"concatenated", "'a' 'b'", NodeConstant, true},
		{"none", "None", NodeConstant, true},
		{"true", "True", NodeConstant, true},
		{"ellipsis", "...", NodeConstant, true},
		{"parenthesized", "(3)", NodeConstant, true},
		{"f-string", "f'{x}'", NodeJoinedStr, false},
		{"list", "[]", NodeList, false},
		{"dict", "{}", NodeDict, false},
		{"set", "{1}", NodeSet, false},
		{"tuple", "(1, 2)", NodeTuple, false},
		{"call", "dict()", NodeCall, false},
		{"name", "DEFAULT", NodeName, false},
		{"negative", "-1", NodeUnaryOp, false},
		{"lambda", "lambda: 0", NodeLambda, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ast := parseOrFail(t, "def f(x="+tt.def+"):\n    pass\n")

			defaults := ast.Functions()[0].Args.Defaults
			if len(defaults) != 1 {
				t.Fatalf("Expected 1 default, got %d", len(defaults))
			}
			if defaults[0].Type != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, defaults[0].Type)
			}
			if defaults[0].IsConstant() != tt.constant {
				t.Errorf("IsConstant() = %v, want %v", defaults[0].IsConstant(), tt.constant)
			}
		})
	}
}

func TestParseUnaryOperand(t *testing.T) {
	ast := parseOrFail(t, "def f(x=-1):\n    pass\n")

	def := ast.Functions()[0].Args.Defaults[0]
	if def.Operator != "-" {
		t.Errorf("Expected operator '-', got %q", def.Operator)
	}
	if !def.Operand.IsConstant() {
		t.Errorf("Expected constant operand, got %v", def.Operand)
	}
}

func TestParseAssignments(t *testing.T) {
	code := `def f():
    a = 1
    b = c = 2
    d: int = 3
    e += 1
    g.h = 4
    call()
`
	ast := parseOrFail(t, code)
	body := ast.Functions()[0].Body

	expected := []NodeType{NodeAssign, NodeAssign, NodeAnnAssign, NodeAugAssign, NodeAssign, NodeExpr}
	if len(body) != len(expected) {
		t.Fatalf("Expected %d statements, got %d", len(expected), len(body))
	}
	for i, nodeType := range expected {
		if body[i].Type != nodeType {
			t.Errorf("Statement %d: expected %s, got %s", i, nodeType, body[i].Type)
		}
	}

	if len(body[1].Targets) != 2 || body[1].Targets[0].Name != "b" || body[1].Targets[1].Name != "c" {
		t.Errorf("Chained assignment should flatten targets, got %v", body[1].Targets)
	}
	if body[0].Targets[0].Type != NodeName || body[0].Targets[0].Name != "a" {
		t.Errorf("Expected Name target 'a', got %v", body[0].Targets[0])
	}
	if body[4].Targets[0].Type == NodeName {
		t.Error("Attribute target should not be a Name")
	}
	if body[3].Operator != "+=" {
		t.Errorf("Expected '+=', got %q", body[3].Operator)
	}
}

func TestParseCommentsAreSkipped(t *testing.T) {
	code := `def f():
    # leading comment
    a = 1  # trailing
    # another
    b = 2
`
	ast := parseOrFail(t, code)

	body := ast.Functions()[0].Body
	if len(body) != 2 {
		t.Fatalf("Expected 2 statements, got %d", len(body))
	}
}

func TestParseNestedDefinitions(t *testing.T) {
	code := `class Outer:
    def method(self):
        def inner(x):
            return x
        return inner

def top():
    pass
`
	ast := parseOrFail(t, code)

	var got []string
	for _, fn := range ast.Functions() {
		got = append(got, fn.Name)
	}
	assertNames(t, "Functions", got, []string{"method", "inner", "top"})

	if ast.Body[0].Type != NodeClassDef || ast.Body[0].Name != "Outer" {
		t.Errorf("Expected ClassDef Outer, got %v", ast.Body[0])
	}
}

func TestParseWalkSkipsSubtree(t *testing.T) {
	code := `def a():
    def b():
        pass

def c():
    pass
`
	ast := parseOrFail(t, code)

	var visited []string
	ast.Walk(func(n *Node) bool {
		if n.IsFunction() {
			visited = append(visited, n.Name)
			return n.Name != "a"
		}
		return true
	})
	assertNames(t, "Visited", visited, []string{"a", "c"})
}

func TestParseLocations(t *testing.T) {
	ast := parseOrFail(t, "\n\nclass A:\n    def m(self, Value):\n        pass\n")

	fn := ast.Functions()[0]
	if fn.Location.StartLine != 4 {
		t.Errorf("Expected line 4, got %d", fn.Location.StartLine)
	}
	if fn.Location.StartCol != 4 {
		t.Errorf("Expected column 4, got %d", fn.Location.StartCol)
	}
	if fn.Args.Args[1].Location.StartLine != 4 {
		t.Errorf("Expected parameter on line 4, got %d", fn.Args.Args[1].Location.StartLine)
	}
}

func TestParseSyntaxError(t *testing.T) {
	tests := []struct {
		name string
		code string
		line int
	}{
		{"unclosed paren", "x = 1\ny = (2\n", 2},
		{"bad def", "def (:\n    pass\n", 1},
		{"stray token", "a = 1\nb = 2\n)\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewParser()
			defer parser.Close()

			ast, err := parser.ParseFile("bad.py", []byte(tt.code))
			if err == nil {
				t.Fatal("Expected a syntax error")
			}
			if ast != nil {
				t.Error("Expected no tree on syntax error")
			}

			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Expected *SyntaxError, got %T", err)
			}
			if syntaxErr.File != "bad.py" {
				t.Errorf("Expected file bad.py, got %s", syntaxErr.File)
			}
			if syntaxErr.Line < 1 || syntaxErr.Line > tt.line {
				t.Errorf("Expected error at or before line %d, got %d", tt.line, syntaxErr.Line)
			}
		})
	}
}

func TestParsePython(t *testing.T) {
	ast, err := ParsePython(context.Background(), "ok.py", []byte("x = 1\n"))
	if err != nil {
		t.Fatalf("ParsePython failed: %v", err)
	}
	if ast.Location.File != "ok.py" {
		t.Errorf("Expected file ok.py, got %s", ast.Location.File)
	}
}

func TestParseEmptySource(t *testing.T) {
	ast := parseOrFail(t, "")
	if ast.Type != NodeModule {
		t.Errorf("Expected NodeModule, got %s", ast.Type)
	}
	if len(ast.Body) != 0 {
		t.Errorf("Expected empty body, got %d statements", len(ast.Body))
	}
}

func argNames(list []Arg) []string {
	var out []string
	for _, a := range list {
		out = append(out, a.Name)
	}
	return out
}

func assertNames(t *testing.T, label string, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("%s: expected %v, got %v", label, want, got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s: expected %v, got %v", label, want, got)
			return
		}
	}
}
