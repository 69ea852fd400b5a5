package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DiagnosticKind is the closed set of style violations the checker reports
type DiagnosticKind int

const (
	KindLength DiagnosticKind = iota + 1
	KindIndentation
	KindSemicolon
	KindCommentSpacing
	KindTodo
	KindBlankRunExceeded
	KindConstructionSpacing
	KindClassCasing
	KindFunctionCasing
	KindArgumentCasing
	KindVariableCasing
	KindMutableDefault
)

// codePrefix is prepended to the kind number to build the stable code
const codePrefix = "Error"

type kindInfo struct {
	name            string
	defaultMessage  string
	requiresMessage bool
}

// Default messages are part of the output format; keep them byte-for-byte.
var kindTable = map[DiagnosticKind]kindInfo{
	KindLength:              {name: "length", defaultMessage: "Line too long"},
	KindIndentation:         {name: "indentation", defaultMessage: "Indentation should be a multiple of four"},
	KindSemicolon:           {name: "semicolon", defaultMessage: "Redundant semicolon after a statement "},
	KindCommentSpacing:      {name: "comment-spacing", defaultMessage: "Inline comments should have atleast two spaces before inline comments"},
	KindTodo:                {name: "todo", defaultMessage: "Todo found"},
	KindBlankRunExceeded:    {name: "blank-lines", defaultMessage: "Found more than two consecutive blank lines before a code line"},
	KindConstructionSpacing: {name: "construction-spacing", requiresMessage: true},
	KindClassCasing:         {name: "class-casing", requiresMessage: true},
	KindFunctionCasing:      {name: "function-casing", requiresMessage: true},
	KindArgumentCasing:      {name: "argument-casing", defaultMessage: "Argument names must be written in snake_case"},
	KindVariableCasing:      {name: "variable-casing", defaultMessage: "Variables must be written in snake_case"},
	KindMutableDefault:      {name: "mutable-default", defaultMessage: "A default argument value must not be mutable"},
}

// AllKinds returns every kind in code order
func AllKinds() []DiagnosticKind {
	kinds := make([]DiagnosticKind, 0, len(kindTable))
	for k := KindLength; k <= KindMutableDefault; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// IsValid reports whether k belongs to the closed kind set
func (k DiagnosticKind) IsValid() bool {
	_, ok := kindTable[k]
	return ok
}

// Code returns the stable short code, e.g. "Error3"
func (k DiagnosticKind) Code() string {
	return codePrefix + strconv.Itoa(int(k))
}

// Name returns the kebab-case rule name used in configuration
func (k DiagnosticKind) Name() string {
	return kindTable[k].name
}

// DefaultMessage returns the message used when the diagnostic carries none
func (k DiagnosticKind) DefaultMessage() string {
	return kindTable[k].defaultMessage
}

// RequiresMessage reports whether the caller must supply the message text
func (k DiagnosticKind) RequiresMessage() bool {
	return kindTable[k].requiresMessage
}

func (k DiagnosticKind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("DiagnosticKind(%d)", int(k))
	}
	return k.Code()
}

// MarshalText encodes the kind as its code so JSON/YAML output stays readable
func (k DiagnosticKind) MarshalText() ([]byte, error) {
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid diagnostic kind %d", int(k))
	}
	return []byte(k.Code()), nil
}

// UnmarshalText accepts either a code or a rule name
func (k *DiagnosticKind) UnmarshalText(text []byte) error {
	kind, ok := LookupKind(string(text))
	if !ok {
		return fmt.Errorf("unknown diagnostic kind %q", string(text))
	}
	*k = kind
	return nil
}

// LookupKind resolves a code ("Error3", case-insensitive) or a rule name ("semicolon")
func LookupKind(s string) (DiagnosticKind, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(codePrefix) && strings.EqualFold(s[:len(codePrefix)], codePrefix) {
		n, err := strconv.Atoi(s[len(codePrefix):])
		if err != nil {
			return 0, false
		}
		kind := DiagnosticKind(n)
		return kind, kind.IsValid()
	}
	for kind, info := range kindTable {
		if strings.EqualFold(info.name, s) {
			return kind, true
		}
	}
	return 0, false
}

// Diagnostic is one reported style violation. Values are never mutated after
// construction; an empty Message means the kind's default message applies.
type Diagnostic struct {
	FilePath string         `json:"file" yaml:"file"`
	Line     int            `json:"line" yaml:"line"`
	Kind     DiagnosticKind `json:"code" yaml:"code"`
	Message  string         `json:"message" yaml:"message"`
}

// NewDiagnostic builds a diagnostic that uses the kind's default message
func NewDiagnostic(filePath string, line int, kind DiagnosticKind) Diagnostic {
	return Diagnostic{FilePath: filePath, Line: line, Kind: kind, Message: kind.DefaultMessage()}
}

// NewDiagnosticWithMessage builds a diagnostic whose message replaces the default
func NewDiagnosticWithMessage(filePath string, line int, kind DiagnosticKind, message string) Diagnostic {
	return Diagnostic{FilePath: filePath, Line: line, Kind: kind, Message: message}
}

// Text returns the message that is rendered for this diagnostic
func (d Diagnostic) Text() string {
	if d.Message != "" {
		return d.Message
	}
	return d.Kind.DefaultMessage()
}

// String renders the diagnostic in the stable single-line format
func (d Diagnostic) String() string {
	return FormatDiagnostic(d)
}
