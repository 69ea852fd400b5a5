package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/constants"
)

// LineRule inspects one physical line (terminator included) and reports at
// most one diagnostic
type LineRule struct {
	Kind  domain.DiagnosticKind
	Check func(path, line string, lineNum int) (domain.Diagnostic, bool)
}

// LineRules returns the per-line rules in evaluation order
func LineRules() []LineRule {
	return []LineRule{
		{domain.KindLength, CheckLength},
		{domain.KindIndentation, CheckIndentation},
		{domain.KindSemicolon, CheckSemicolon},
		{domain.KindCommentSpacing, CheckCommentSpacing},
		{domain.KindTodo, CheckTodo},
		{domain.KindConstructionSpacing, CheckConstructionSpacing},
		{domain.KindClassCasing, CheckClassCasing},
		{domain.KindFunctionCasing, CheckFunctionCasing},
	}
}

var constructionPattern = regexp.MustCompile(`^(class|def)\s{2,}`)

// isBlankLine reports a line made of the terminator alone
func isBlankLine(line string) bool {
	return line == "\n" || line == "\r\n"
}

func none() (domain.Diagnostic, bool) {
	return domain.Diagnostic{}, false
}

// CheckLength flags lines longer than 79 characters, terminator included
func CheckLength(path, line string, lineNum int) (domain.Diagnostic, bool) {
	if utf8.RuneCountInString(line) > constants.MaxLineLength {
		return domain.NewDiagnostic(path, lineNum, domain.KindLength), true
	}
	return none()
}

// CheckIndentation flags leading whitespace that is not a multiple of four.
// On a whitespace-only line the terminator is part of the leading run.
func CheckIndentation(path, line string, lineNum int) (domain.Diagnostic, bool) {
	if isBlankLine(line) {
		return none()
	}
	indent := utf8.RuneCountInString(line) - utf8.RuneCountInString(strings.TrimLeftFunc(line, unicode.IsSpace))
	if indent%constants.IndentWidth != 0 {
		return domain.NewDiagnostic(path, lineNum, domain.KindIndentation), true
	}
	return none()
}

// CheckSemicolon flags code that ends with ';'
func CheckSemicolon(path, line string, lineNum int) (domain.Diagnostic, bool) {
	code := strings.TrimRightFunc(SplitLine(line).Code, unicode.IsSpace)
	if strings.HasSuffix(code, ";") {
		return domain.NewDiagnostic(path, lineNum, domain.KindSemicolon), true
	}
	return none()
}

// CheckCommentSpacing flags inline comments preceded by fewer than two spaces
func CheckCommentSpacing(path, line string, lineNum int) (domain.Diagnostic, bool) {
	split := SplitLine(line)
	if !split.HasComment || split.Code == "" {
		return none()
	}
	gap := strings.Repeat(" ", constants.MinInlineCommentGap)
	if !strings.HasSuffix(split.Code, gap) {
		return domain.NewDiagnostic(path, lineNum, domain.KindCommentSpacing), true
	}
	return none()
}

// CheckTodo flags comments mentioning todo in any case
func CheckTodo(path, line string, lineNum int) (domain.Diagnostic, bool) {
	split := SplitLine(line)
	if split.HasComment && strings.Contains(strings.ToLower(split.Comment), "todo") {
		return domain.NewDiagnostic(path, lineNum, domain.KindTodo), true
	}
	return none()
}

// CheckConstructionSpacing flags 'class' or 'def' followed by two or more
// whitespace characters
func CheckConstructionSpacing(path, line string, lineNum int) (domain.Diagnostic, bool) {
	m := constructionPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return none()
	}
	msg := fmt.Sprintf("Too many spaces after '%s'", m[1])
	return domain.NewDiagnosticWithMessage(path, lineNum, domain.KindConstructionSpacing, msg), true
}

// CheckClassCasing flags top-level class names that do not start with an
// uppercase ASCII letter. Only lines starting with "class" in column zero
// are considered. The reported name ends before the first ':'.
func CheckClassCasing(path, line string, lineNum int) (domain.Diagnostic, bool) {
	if !strings.HasPrefix(line, "class") {
		return none()
	}
	token, ok := definedName(line)
	if !ok {
		return none()
	}
	if c := token[0]; c >= 'A' && c <= 'Z' {
		return none()
	}
	name, _, _ := strings.Cut(token, ":")
	if name == "" {
		return none()
	}
	msg := fmt.Sprintf("Class name '%s' should be written in CamelCase", name)
	return domain.NewDiagnosticWithMessage(path, lineNum, domain.KindClassCasing, msg), true
}

// CheckFunctionCasing flags function tokens that are neither all-lowercase
// nor contain an underscore. The token keeps its parameter list, so
// "def foo(X):" is checked and reported as "foo(X):".
func CheckFunctionCasing(path, line string, lineNum int) (domain.Diagnostic, bool) {
	stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(stripped, "def") {
		return none()
	}
	token, ok := definedName(stripped)
	if !ok || IsSnakeCase(token) {
		return none()
	}
	msg := fmt.Sprintf("Function name '%s' should be written in snake_case", token)
	return domain.NewDiagnosticWithMessage(path, lineNum, domain.KindFunctionCasing, msg), true
}

// definedName returns the whitespace-trimmed token between the first and
// second space. An empty token yields false.
func definedName(line string) (string, bool) {
	_, rest, found := strings.Cut(line, " ")
	if !found {
		return "", false
	}
	token, _, _ := strings.Cut(rest, " ")
	token = strings.TrimSpace(token)
	return token, token != ""
}

// IsSnakeCase is the casing heuristic shared by function and argument names:
// the name is all-lowercase or contains an underscore
func IsSnakeCase(name string) bool {
	return isLower(name) || strings.Contains(name, "_")
}

// isLower reports whether s has at least one cased character and no
// uppercase or titlecase ones
func isLower(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r), unicode.IsTitle(r):
			return false
		case unicode.IsLower(r):
			cased = true
		}
	}
	return cased
}
