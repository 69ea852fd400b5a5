package analyzer

import (
	"github.com/ludo-technologies/pystyle/domain"
	"github.com/ludo-technologies/pystyle/internal/constants"
)

// BlankRunTracker counts consecutive blank lines within one file
type BlankRunTracker struct {
	path  string
	count int
}

// NewBlankRunTracker creates a tracker for the given file
func NewBlankRunTracker(path string) *BlankRunTracker {
	return &BlankRunTracker{path: path}
}

// Observe records one physical line. It reports whether the line is blank,
// in which case no other line rule runs on it, and returns a diagnostic
// when a non-blank line ends a run longer than two blanks.
func (t *BlankRunTracker) Observe(line string, lineNum int) (blank bool, diag domain.Diagnostic, found bool) {
	if isBlankLine(line) {
		t.count++
		return true, domain.Diagnostic{}, false
	}

	exceeded := t.count > constants.MaxBlankRun
	t.count = 0
	if exceeded {
		return false, domain.NewDiagnostic(t.path, lineNum, domain.KindBlankRunExceeded), true
	}
	return false, domain.Diagnostic{}, false
}
