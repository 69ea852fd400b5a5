package parser

import (
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"
)

// ASTBuilder builds our syntax tree from the tree-sitter CST
type ASTBuilder struct {
	filename string
	source   []byte
}

// NewASTBuilder creates a new AST builder
func NewASTBuilder(filename string, source []byte) *ASTBuilder {
	return &ASTBuilder{
		filename: filename,
		source:   source,
	}
}

// Build builds the tree from a tree-sitter root node
func (b *ASTBuilder) Build(tsNode *sitter.Node) *Node {
	if tsNode == nil {
		return nil
	}
	return b.buildNode(tsNode)
}

// buildNode converts a tree-sitter node to our node
func (b *ASTBuilder) buildNode(tsNode *sitter.Node) *Node {
	if tsNode == nil || b.isTrivia(tsNode) {
		return nil
	}

	switch tsNode.Type() {
	case "module":
		return b.buildModule(tsNode)
	case "decorated_definition":
		return b.buildDecoratedDefinition(tsNode)
	case "function_definition":
		return b.buildFunctionDefinition(tsNode)
	case "class_definition":
		return b.buildClassDefinition(tsNode)
	case "block":
		return b.buildBlock(tsNode)
	case "expression_statement":
		return b.buildExpressionStatement(tsNode)
	case "identifier":
		return b.buildName(tsNode)
	case "integer", "float", "true", "false", "none", "ellipsis":
		return b.buildConstant(tsNode)
	case "string":
		return b.buildString(tsNode)
	case "concatenated_string":
		return b.buildConcatenatedString(tsNode)
	case "parenthesized_expression":
		return b.buildParenthesized(tsNode)
	case "unary_operator":
		return b.buildUnaryOperator(tsNode)
	case "list":
		return b.buildTyped(NodeList, tsNode)
	case "dictionary":
		return b.buildTyped(NodeDict, tsNode)
	case "set":
		return b.buildTyped(NodeSet, tsNode)
	case "tuple":
		return b.buildTyped(NodeTuple, tsNode)
	case "call":
		return b.buildTyped(NodeCall, tsNode)
	case "lambda":
		return b.buildTyped(NodeLambda, tsNode)
	default:
		return b.buildTyped(NodeOther, tsNode)
	}
}

// buildModule builds the module node
func (b *ASTBuilder) buildModule(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeModule, tsNode)
	node.Body = b.buildStatements(node, tsNode)
	return node
}

// buildBlock builds an indented block of statements
func (b *ASTBuilder) buildBlock(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeBlock, tsNode)
	node.Body = b.buildStatements(node, tsNode)
	return node
}

// buildStatements builds the named, non-comment children of a statement container
func (b *ASTBuilder) buildStatements(parent *Node, tsNode *sitter.Node) []*Node {
	var stmts []*Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		stmt := b.buildNode(tsNode.NamedChild(i))
		if stmt == nil {
			continue
		}
		stmt.Parent = parent
		stmts = append(stmts, stmt)
	}
	return stmts
}

// buildDecoratedDefinition returns the wrapped definition with its decorators attached
func (b *ASTBuilder) buildDecoratedDefinition(tsNode *sitter.Node) *Node {
	defNode := b.getChildByFieldName(tsNode, "definition")
	if defNode == nil {
		return b.buildTyped(NodeOther, tsNode)
	}

	node := b.buildNode(defNode)
	if node == nil {
		return nil
	}

	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child == nil || child.Type() != "decorator" {
			continue
		}
		if dec := b.buildNode(child); dec != nil {
			dec.Parent = node
			node.Decorators = append(node.Decorators, dec)
		}
	}
	return node
}

// buildFunctionDefinition builds a (possibly async) function definition
func (b *ASTBuilder) buildFunctionDefinition(tsNode *sitter.Node) *Node {
	nodeType := NodeFunctionDef
	if first := tsNode.Child(0); first != nil && first.Type() == "async" {
		nodeType = NodeAsyncFunctionDef
	}
	node := b.newNode(nodeType, tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	node.Args = &Arguments{}
	if paramsNode := b.getChildByFieldName(tsNode, "parameters"); paramsNode != nil {
		node.Args = b.buildParameters(node, paramsNode)
	}

	if returns := b.getChildByFieldName(tsNode, "return_type"); returns != nil {
		node.AddChild(b.buildNode(returns))
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildStatements(node, bodyNode)
	}

	return node
}

// buildClassDefinition builds a class definition
func (b *ASTBuilder) buildClassDefinition(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeClassDef, tsNode)

	if nameNode := b.getChildByFieldName(tsNode, "name"); nameNode != nil {
		node.Name = nameNode.Content(b.source)
	}

	if bases := b.getChildByFieldName(tsNode, "superclasses"); bases != nil {
		node.AddChild(b.buildNode(bases))
	}

	if bodyNode := b.getChildByFieldName(tsNode, "body"); bodyNode != nil {
		node.Body = b.buildStatements(node, bodyNode)
	}

	return node
}

// paramSection tracks which part of a parameter list is being read
type paramSection int

const (
	sectionPositional paramSection = iota
	sectionKeywordOnly
)

// buildParameters splits a parameter list the way Python's ast.arguments does
func (b *ASTBuilder) buildParameters(fn *Node, tsNode *sitter.Node) *Arguments {
	args := &Arguments{}
	section := sectionPositional

	addParam := func(name string, loc Location, value *sitter.Node) {
		arg := Arg{Name: name, Location: loc}
		var def *Node
		if value != nil {
			def = b.buildNode(value)
			if def != nil {
				def.Parent = fn
			}
		}

		if section == sectionKeywordOnly {
			args.KwOnly = append(args.KwOnly, arg)
			if def != nil {
				args.KwDefaults = append(args.KwDefaults, def)
			}
			return
		}
		args.Args = append(args.Args, arg)
		if def != nil {
			args.Defaults = append(args.Defaults, def)
		}
	}

	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child == nil || b.isTrivia(child) {
			continue
		}

		switch child.Type() {
		case "identifier":
			addParam(child.Content(b.source), b.getLocation(child), nil)

		case "typed_parameter":
			inner := child.NamedChild(0)
			if inner == nil {
				continue
			}
			switch inner.Type() {
			case "list_splat_pattern":
				args.VarArg = b.splatArg(inner)
				section = sectionKeywordOnly
			case "dictionary_splat_pattern":
				args.KwArg = b.splatArg(inner)
			default:
				addParam(inner.Content(b.source), b.getLocation(inner), nil)
			}

		case "default_parameter", "typed_default_parameter":
			nameNode := b.getChildByFieldName(child, "name")
			if nameNode == nil {
				continue
			}
			addParam(nameNode.Content(b.source), b.getLocation(nameNode), b.getChildByFieldName(child, "value"))

		case "list_splat_pattern":
			args.VarArg = b.splatArg(child)
			section = sectionKeywordOnly

		case "dictionary_splat_pattern":
			args.KwArg = b.splatArg(child)

		case "keyword_separator", "*":
			section = sectionKeywordOnly

		case "positional_separator", "/":
			// Everything read so far is positional-only.
			args.PosOnly = append(args.PosOnly, args.Args...)
			args.Args = nil
		}
	}

	return args
}

// splatArg returns the name bound by *args or **kwargs, or nil for a bare '*'
func (b *ASTBuilder) splatArg(tsNode *sitter.Node) *Arg {
	inner := tsNode.NamedChild(0)
	if inner == nil {
		return nil
	}
	return &Arg{Name: inner.Content(b.source), Location: b.getLocation(inner)}
}

// buildExpressionStatement distinguishes assignments from bare expressions
func (b *ASTBuilder) buildExpressionStatement(tsNode *sitter.Node) *Node {
	var exprs []*sitter.Node
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			exprs = append(exprs, child)
		}
	}

	if len(exprs) == 1 {
		switch exprs[0].Type() {
		case "assignment":
			return b.buildAssignment(tsNode, exprs[0])
		case "augmented_assignment":
			return b.buildAugmentedAssignment(tsNode, exprs[0])
		}
	}

	node := b.newNode(NodeExpr, tsNode)
	for _, expr := range exprs {
		node.AddChild(b.buildNode(expr))
	}
	return node
}

// buildAssignment flattens chained assignments (a = b = 1) into one Assign
// with several targets; an annotation turns it into AnnAssign.
func (b *ASTBuilder) buildAssignment(stmt, tsNode *sitter.Node) *Node {
	node := b.newNode(NodeAssign, stmt)

	if annotation := b.getChildByFieldName(tsNode, "type"); annotation != nil {
		node.Type = NodeAnnAssign
		b.addTarget(node, b.getChildByFieldName(tsNode, "left"))
		node.AddChild(b.buildNode(annotation))
		node.Value = b.buildChild(node, b.getChildByFieldName(tsNode, "right"))
		return node
	}

	cur := tsNode
	for {
		b.addTarget(node, b.getChildByFieldName(cur, "left"))
		right := b.getChildByFieldName(cur, "right")
		if right != nil && right.Type() == "assignment" && b.getChildByFieldName(right, "type") == nil {
			cur = right
			continue
		}
		node.Value = b.buildChild(node, right)
		return node
	}
}

// buildAugmentedAssignment builds x += 1 style statements
func (b *ASTBuilder) buildAugmentedAssignment(stmt, tsNode *sitter.Node) *Node {
	node := b.newNode(NodeAugAssign, stmt)
	b.addTarget(node, b.getChildByFieldName(tsNode, "left"))
	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = op.Content(b.source)
	}
	node.Value = b.buildChild(node, b.getChildByFieldName(tsNode, "right"))
	return node
}

func (b *ASTBuilder) addTarget(node *Node, tsNode *sitter.Node) {
	if target := b.buildChild(node, tsNode); target != nil {
		node.Targets = append(node.Targets, target)
	}
}

// buildChild builds tsNode and links it to parent without adding it to Children
func (b *ASTBuilder) buildChild(parent *Node, tsNode *sitter.Node) *Node {
	child := b.buildNode(tsNode)
	if child != nil {
		child.Parent = parent
	}
	return child
}

// buildName builds an identifier reference
func (b *ASTBuilder) buildName(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeName, tsNode)
	node.Name = tsNode.Content(b.source)
	return node
}

// buildConstant builds a number, boolean, None or Ellipsis literal
func (b *ASTBuilder) buildConstant(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeConstant, tsNode)
	node.Raw = tsNode.Content(b.source)
	return node
}

// buildString builds a string or bytes literal; f-strings become JoinedStr
func (b *ASTBuilder) buildString(tsNode *sitter.Node) *Node {
	raw := tsNode.Content(b.source)
	if isFormattedString(raw) {
		node := b.buildTyped(NodeJoinedStr, tsNode)
		node.Raw = raw
		return node
	}
	return b.buildConstant(tsNode)
}

// buildConcatenatedString builds implicit concatenation ("a" "b"), which is a
// single constant unless one of the parts is an f-string
func (b *ASTBuilder) buildConcatenatedString(tsNode *sitter.Node) *Node {
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		part := tsNode.NamedChild(i)
		if part != nil && part.Type() == "string" && isFormattedString(part.Content(b.source)) {
			node := b.buildTyped(NodeJoinedStr, tsNode)
			node.Raw = tsNode.Content(b.source)
			return node
		}
	}
	return b.buildConstant(tsNode)
}

// isFormattedString reports whether the literal's prefix contains f or F
func isFormattedString(raw string) bool {
	quote := strings.IndexAny(raw, `"'`)
	if quote <= 0 {
		return false
	}
	return strings.ContainsAny(raw[:quote], "fF")
}

// buildParenthesized drops grouping parentheses, as Python's parser does
func (b *ASTBuilder) buildParenthesized(tsNode *sitter.Node) *Node {
	var inner *sitter.Node
	count := 0
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		child := tsNode.NamedChild(i)
		if child != nil && !b.isTrivia(child) {
			inner = child
			count++
		}
	}
	if count != 1 {
		return b.buildTyped(NodeOther, tsNode)
	}
	return b.buildNode(inner)
}

// buildUnaryOperator builds -x, +x and ~x
func (b *ASTBuilder) buildUnaryOperator(tsNode *sitter.Node) *Node {
	node := b.newNode(NodeUnaryOp, tsNode)
	if op := b.getChildByFieldName(tsNode, "operator"); op != nil {
		node.Operator = op.Content(b.source)
	}
	node.Operand = b.buildChild(node, b.getChildByFieldName(tsNode, "argument"))
	return node
}

// buildTyped builds a node of the given type and recurses into its named children
func (b *ASTBuilder) buildTyped(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := b.newNode(nodeType, tsNode)
	for i := 0; i < int(tsNode.NamedChildCount()); i++ {
		node.AddChild(b.buildNode(tsNode.NamedChild(i)))
	}
	return node
}

// Helper methods

func (b *ASTBuilder) newNode(nodeType NodeType, tsNode *sitter.Node) *Node {
	node := NewNode(nodeType)
	node.Kind = tsNode.Type()
	node.Location = b.getLocation(tsNode)
	return node
}

// getLocation extracts 1-based lines and 0-based columns from a tree-sitter node
func (b *ASTBuilder) getLocation(tsNode *sitter.Node) Location {
	start, end := tsNode.StartPoint(), tsNode.EndPoint()
	return Location{
		File:      b.filename,
		StartLine: toInt(start.Row) + 1,
		StartCol:  toInt(start.Column),
		EndLine:   toInt(end.Row) + 1,
		EndCol:    toInt(end.Column),
	}
}

func toInt(v uint32) int {
	n, err := safecast.Conv[int](v)
	if err != nil {
		return 0
	}
	return n
}

// getChildByFieldName gets a child node by field name
func (b *ASTBuilder) getChildByFieldName(tsNode *sitter.Node, fieldName string) *sitter.Node {
	for i := 0; i < int(tsNode.ChildCount()); i++ {
		child := tsNode.Child(i)
		if child != nil && tsNode.FieldNameForChild(i) == fieldName {
			return child
		}
	}
	return nil
}

// isTrivia reports nodes that carry no syntax: comments and line continuations
func (b *ASTBuilder) isTrivia(tsNode *sitter.Node) bool {
	switch tsNode.Type() {
	case "comment", "line_continuation", "":
		return true
	}
	return false
}
