package domain

import (
	"encoding/json"
	"testing"
)

func TestDiagnosticKind_Codes(t *testing.T) {
	expected := map[DiagnosticKind]string{
		KindLength:              "Error1",
		KindIndentation:         "Error2",
		KindSemicolon:           "Error3",
		KindCommentSpacing:      "Error4",
		KindTodo:                "Error5",
		KindBlankRunExceeded:    "Error6",
		KindConstructionSpacing: "Error7",
		KindClassCasing:         "Error8",
		KindFunctionCasing:      "Error9",
		KindArgumentCasing:      "Error10",
		KindVariableCasing:      "Error11",
		KindMutableDefault:      "Error12",
	}

	for kind, code := range expected {
		if kind.Code() != code {
			t.Errorf("Expected %s, got %s", code, kind.Code())
		}
	}

	if len(AllKinds()) != len(expected) {
		t.Errorf("Expected %d kinds, got %d", len(expected), len(AllKinds()))
	}
}

func TestDiagnosticKind_RequiresMessage(t *testing.T) {
	for _, kind := range AllKinds() {
		want := kind == KindConstructionSpacing || kind == KindClassCasing || kind == KindFunctionCasing
		if kind.RequiresMessage() != want {
			t.Errorf("%s: RequiresMessage() = %v, want %v", kind, kind.RequiresMessage(), want)
		}
		if !want && kind.DefaultMessage() == "" {
			t.Errorf("%s should have a default message", kind)
		}
	}
}

func TestLookupKind(t *testing.T) {
	tests := []struct {
		input string
		kind  DiagnosticKind
		ok    bool
	}{
		{"Error1", KindLength, true},
		{"error12", KindMutableDefault, true},
		{" Error6 ", KindBlankRunExceeded, true},
		{"semicolon", KindSemicolon, true},
		{"Mutable-Default", KindMutableDefault, true},
		{"Error0", 0, false},
		{"Error13", 0, false},
		{"ErrorX", 0, false},
		{"Error", 0, false},
		{"unknown", 0, false},
	}

	for _, tt := range tests {
		kind, ok := LookupKind(tt.input)
		if ok != tt.ok || kind != tt.kind {
			t.Errorf("LookupKind(%q) = (%v, %v), want (%v, %v)", tt.input, kind, ok, tt.kind, tt.ok)
		}
	}
}

func TestFormatDiagnostic(t *testing.T) {
	tests := []struct {
		name     string
		diag     Diagnostic
		expected string
	}{
		{
			name:     "default message",
			diag:     NewDiagnostic("src/app.py", 12, KindLength),
			expected: "src/app.py: Line 12: Error1 Line too long",
		},
		{
			name:     "caller message",
			diag:     NewDiagnosticWithMessage("a.py", 1, KindClassCasing, "Class name 'foo' should be written in CamelCase"),
			expected: "a.py: Line 1: Error8 Class name 'foo' should be written in CamelCase",
		},
		{
			name:     "empty message falls back to default",
			diag:     Diagnostic{FilePath: "a.py", Line: 4, Kind: KindTodo},
			expected: "a.py: Line 4: Error5 Todo found",
		},
		{
			name:     "semicolon keeps trailing space",
			diag:     NewDiagnostic("a.py", 2, KindSemicolon),
			expected: "a.py: Line 2: Error3 Redundant semicolon after a statement ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatDiagnostic(tt.diag)
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
			if tt.diag.String() != got {
				t.Error("String() should match FormatDiagnostic")
			}
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	diags := []Diagnostic{
		NewDiagnostic("x.py", 1, KindLength),
		NewDiagnostic("dir/with space/y.py", 250, KindMutableDefault),
		NewDiagnostic(`C:\proj\z.py`, 7, KindVariableCasing),
		NewDiagnosticWithMessage("w.py", 3, KindConstructionSpacing, "Too many spaces after 'def'"),
		NewDiagnosticWithMessage("v.py", 9, KindFunctionCasing, "Function name 'Line' should be written in snake_case"),
	}

	for _, d := range diags {
		line := FormatDiagnostic(d)

		parsed, err := ParseDiagnostic(line)
		if err != nil {
			t.Fatalf("ParseDiagnostic(%q) failed: %v", line, err)
		}
		if parsed.FilePath != d.FilePath || parsed.Line != d.Line || parsed.Kind != d.Kind || parsed.Text() != d.Text() {
			t.Errorf("Round trip mismatch: %+v != %+v", parsed, d)
		}

		n, err := LineNumberOf(line)
		if err != nil || n != d.Line {
			t.Errorf("LineNumberOf(%q) = %d, %v", line, n, err)
		}
		code, err := CodeOf(line)
		if err != nil || code != d.Kind.Code() {
			t.Errorf("CodeOf(%q) = %s, %v", line, code, err)
		}
	}
}

func TestParseDiagnostic_Invalid(t *testing.T) {
	inputs := []string{
		"",
		"just some text",
		"a.py: Line x: Error1 Line too long",
		"a.py: Line 1: Error99 Nope",
	}

	for _, in := range inputs {
		if _, err := ParseDiagnostic(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestDiagnostic_JSON(t *testing.T) {
	d := NewDiagnostic("a.py", 5, KindIndentation)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if raw["code"] != "Error2" {
		t.Errorf("Expected code Error2, got %v", raw["code"])
	}
	if raw["file"] != "a.py" {
		t.Errorf("Expected file a.py, got %v", raw["file"])
	}

	var back Diagnostic
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal into Diagnostic failed: %v", err)
	}
	if back != d {
		t.Errorf("Expected %+v, got %+v", d, back)
	}
}
