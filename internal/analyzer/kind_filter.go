package analyzer

import (
	"fmt"

	"github.com/ludo-technologies/pystyle/domain"
)

// KindFilter keeps the diagnostics of selected kinds. An empty select list
// selects every kind; ignore wins over select.
type KindFilter struct {
	selected map[domain.DiagnosticKind]bool
	ignored  map[domain.DiagnosticKind]bool
}

// NewKindFilter builds a filter from codes ("Error3") or names ("semicolon")
func NewKindFilter(selectKinds, ignoreKinds []string) (*KindFilter, error) {
	selected, err := lookupKinds(selectKinds)
	if err != nil {
		return nil, err
	}
	ignored, err := lookupKinds(ignoreKinds)
	if err != nil {
		return nil, err
	}
	return &KindFilter{selected: selected, ignored: ignored}, nil
}

func lookupKinds(values []string) (map[domain.DiagnosticKind]bool, error) {
	kinds := make(map[domain.DiagnosticKind]bool, len(values))
	for _, v := range values {
		kind, ok := domain.LookupKind(v)
		if !ok {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("unknown rule %q", v), nil)
		}
		kinds[kind] = true
	}
	return kinds, nil
}

// Allows reports whether diagnostics of kind are kept
func (f *KindFilter) Allows(kind domain.DiagnosticKind) bool {
	if f == nil {
		return true
	}
	if f.ignored[kind] {
		return false
	}
	return len(f.selected) == 0 || f.selected[kind]
}

// Apply returns the kept diagnostics in their original order
func (f *KindFilter) Apply(diags []domain.Diagnostic) []domain.Diagnostic {
	if f == nil || (len(f.selected) == 0 && len(f.ignored) == 0) {
		return diags
	}
	kept := make([]domain.Diagnostic, 0, len(diags))
	for _, d := range diags {
		if f.Allows(d.Kind) {
			kept = append(kept, d)
		}
	}
	return kept
}
