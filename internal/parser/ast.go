package parser

import "fmt"

// NodeType represents the type of syntax tree node
type NodeType string

// Python node types. The set is closed: anything the builder does not
// recognize becomes NodeOther and keeps its children.
const (
	NodeModule NodeType = "Module"

	// Definitions
	NodeFunctionDef      NodeType = "FunctionDef"
	NodeAsyncFunctionDef NodeType = "AsyncFunctionDef"
	NodeClassDef         NodeType = "ClassDef"
	NodeLambda           NodeType = "Lambda"

	// Statements
	NodeAssign    NodeType = "Assign"
	NodeAnnAssign NodeType = "AnnAssign"
	NodeAugAssign NodeType = "AugAssign"
	NodeExpr      NodeType = "Expr"
	NodeBlock     NodeType = "Block"

	// Expressions
	NodeName      NodeType = "Name"
	NodeConstant  NodeType = "Constant"
	NodeJoinedStr NodeType = "JoinedStr"
	NodeList      NodeType = "List"
	NodeDict      NodeType = "Dict"
	NodeSet       NodeType = "Set"
	NodeTuple     NodeType = "Tuple"
	NodeCall      NodeType = "Call"
	NodeUnaryOp   NodeType = "UnaryOp"

	// NodeOther covers every construct without dedicated handling
	NodeOther NodeType = "Other"
)

// Location represents the position of a node in the source code
type Location struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String returns a string representation of the location
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.StartLine, l.StartCol)
}

// Arg is a single named parameter
type Arg struct {
	Name     string
	Location Location
}

// Arguments mirrors the parameter list of a Python function definition.
// Defaults aligns with the trailing entries of PosOnly+Args; KwDefaults holds
// one entry per keyword-only parameter that has a default.
type Arguments struct {
	PosOnly    []Arg
	Args       []Arg
	VarArg     *Arg
	KwOnly     []Arg
	KwArg      *Arg
	Defaults   []*Node
	KwDefaults []*Node
}

// Node represents a syntax tree node
type Node struct {
	Type     NodeType
	Kind     string // tree-sitter node type the node was built from
	Name     string // function/class/identifier name
	Raw      string // source text for literals
	Location Location
	Parent   *Node

	// Definitions
	Args       *Arguments
	Body       []*Node // direct statements of a function/class/module/block
	Decorators []*Node

	// Assignments
	Targets []*Node
	Value   *Node

	// Operator is set for UnaryOp
	Operator string
	Operand  *Node

	// Children holds everything not covered by a dedicated field
	Children []*Node
}

// NewNode creates a new syntax tree node
func NewNode(nodeType NodeType) *Node {
	return &Node{Type: nodeType}
}

// AddChild adds a child node
func (n *Node) AddChild(child *Node) {
	if child == nil {
		return
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Walk traverses the tree depth-first in source order and calls the visitor
// for each node. If the visitor returns false, the node's subtree is skipped.
func (n *Node) Walk(visitor func(*Node) bool) {
	if n == nil {
		return
	}
	if !visitor(n) {
		return
	}

	switch n.Type {
	case NodeModule, NodeBlock:
		walkAll(n.Body, visitor)
	case NodeFunctionDef, NodeAsyncFunctionDef:
		walkAll(n.Decorators, visitor)
		if n.Args != nil {
			walkAll(n.Args.Defaults, visitor)
			walkAll(n.Args.KwDefaults, visitor)
		}
		walkAll(n.Children, visitor)
		walkAll(n.Body, visitor)
	case NodeClassDef:
		walkAll(n.Decorators, visitor)
		walkAll(n.Children, visitor)
		walkAll(n.Body, visitor)
	case NodeAssign, NodeAnnAssign, NodeAugAssign:
		walkAll(n.Targets, visitor)
		n.Value.Walk(visitor)
		walkAll(n.Children, visitor)
	case NodeUnaryOp:
		n.Operand.Walk(visitor)
	default:
		walkAll(n.Children, visitor)
	}
}

func walkAll(nodes []*Node, visitor func(*Node) bool) {
	for _, node := range nodes {
		node.Walk(visitor)
	}
}

// String returns a string representation of the node
func (n *Node) String() string {
	if n.Name != "" {
		return fmt.Sprintf("%s(%s) at %s", n.Type, n.Name, n.Location)
	}
	return fmt.Sprintf("%s at %s", n.Type, n.Location)
}

// IsFunction returns true for sync and async function definitions
func (n *Node) IsFunction() bool {
	return n.Type == NodeFunctionDef || n.Type == NodeAsyncFunctionDef
}

// IsConstant returns true for literal constants: numbers, strings, bytes,
// booleans, None and Ellipsis
func (n *Node) IsConstant() bool {
	return n != nil && n.Type == NodeConstant
}

// Functions returns every function definition in the tree, in tree order
func (n *Node) Functions() []*Node {
	var funcs []*Node
	n.Walk(func(node *Node) bool {
		if node.IsFunction() {
			funcs = append(funcs, node)
		}
		return true
	})
	return funcs
}
