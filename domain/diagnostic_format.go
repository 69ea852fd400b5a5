package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// FormatDiagnostic renders "<path>: Line <N>: <code> <message>"
func FormatDiagnostic(d Diagnostic) string {
	return fmt.Sprintf("%s: Line %d: %s %s", d.FilePath, d.Line, d.Kind.Code(), d.Text())
}

// The path part is matched lazily so a ": Line" inside a message cannot shift it.
var diagnosticLinePattern = regexp.MustCompile(`^(.*?): Line (\d+): (` + codePrefix + `\d+) (.*)$`)

// ParseDiagnostic recovers a Diagnostic from a line produced by FormatDiagnostic
func ParseDiagnostic(line string) (Diagnostic, error) {
	line = strings.TrimRight(line, "\r\n")
	m := diagnosticLinePattern.FindStringSubmatch(line)
	if m == nil {
		return Diagnostic{}, fmt.Errorf("not a diagnostic line: %q", line)
	}

	lineNum, err := strconv.Atoi(m[2])
	if err != nil {
		return Diagnostic{}, fmt.Errorf("invalid line number %q: %w", m[2], err)
	}

	kind, ok := LookupKind(m[3])
	if !ok {
		return Diagnostic{}, fmt.Errorf("unknown diagnostic code %q", m[3])
	}

	return Diagnostic{
		FilePath: m[1],
		Line:     lineNum,
		Kind:     kind,
		Message:  m[4],
	}, nil
}

// LineNumberOf extracts the line number from a formatted diagnostic line
func LineNumberOf(line string) (int, error) {
	d, err := ParseDiagnostic(line)
	if err != nil {
		return 0, err
	}
	return d.Line, nil
}

// CodeOf extracts the code ("Error5") from a formatted diagnostic line
func CodeOf(line string) (string, error) {
	d, err := ParseDiagnostic(line)
	if err != nil {
		return "", err
	}
	return d.Kind.Code(), nil
}
