package gamerules

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadError_Error_SingleError(t *testing.T) {
	le := &LoadError{
		RuleErrors: []RuleError{
			{
				Rule:    "doFireTick",
				Code:    ErrCodeInvalidArgument,
				Message: `value "maybe" from file:rules.yaml was rejected`,
			},
		},
	}

	got := le.Error()
	want := "rule overrides failed: 1 error\n  - doFireTick: invalid_argument (value \"maybe\" from file:rules.yaml was rejected)"

	if got != want {
		t.Errorf("LoadError.Error() with single error\ngot:  %q\nwant: %q", got, want)
	}
}

func TestLoadError_Error_MultipleErrors(t *testing.T) {
	le := &LoadError{
		RuleErrors: []RuleError{
			{Rule: "doFireTick", Code: ErrCodeInvalidArgument, Message: "rejected"},
			{Rule: "noSuchRule", Code: ErrCodeUnknownRule, Message: "unknown rule (strict mode)"},
		},
	}

	got := le.Error()
	if !strings.HasPrefix(got, "rule overrides failed: 2 errors\n") {
		t.Errorf("unexpected header in %q", got)
	}
	for _, want := range []string{
		"  - doFireTick: invalid_argument (rejected)",
		"  - noSuchRule: unknown_rule (unknown rule (strict mode))",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("LoadError.Error() missing %q in %q", want, got)
		}
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("LoadError.Error() should not end with a newline")
	}
}

func TestLoadError_Error_NoErrors(t *testing.T) {
	le := &LoadError{}
	if got := le.Error(); got != "rule overrides failed: no errors" {
		t.Errorf("LoadError.Error() = %q", got)
	}
}

func TestArgumentError(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		err      *ArgumentError
		want     string
		sentinel error
	}{
		{
			name:     "bare cell",
			err:      &ArgumentError{Input: "x", Code: ErrCodeInvalidArgument, Message: "not a valid int value", Err: cause},
			want:     "invalid_argument (not a valid int value): boom",
			sentinel: ErrInvalidArgument,
		},
		{
			name:     "named rule",
			err:      &ArgumentError{Rule: "motd", Input: "xxxx", Code: ErrCodeTooLong, Message: "input must be at most 3 long, found 4"},
			want:     "rule motd: too_long (input must be at most 3 long, found 4)",
			sentinel: ErrTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if tt.err.Err != nil && !errors.Is(tt.err, tt.err.Err) {
				t.Error("cause should be reachable through Unwrap")
			}
		})
	}
}

func TestConstructionError(t *testing.T) {
	err := &ConstructionError{Kind: KindString, Code: ErrCodeMaxLength, Message: "max length must be positive"}
	want := "gamerules: invalid string rule: max_length (max length must be positive)"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrConstruction) {
		t.Error("ConstructionError should match ErrConstruction")
	}
}

func TestParseError(t *testing.T) {
	withCause := &ParseError{Type: "int", Value: "x", Err: errNaN}
	if !errors.Is(withCause, errNaN) {
		t.Error("ParseError should unwrap to its cause")
	}
	bare := &ParseError{Type: "enum", Value: "HARD"}
	if got, want := bare.Error(), `cannot parse "HARD" as enum`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorCodes(t *testing.T) {
	codes := map[string]string{
		"ErrCodeInvalidArgument":   ErrCodeInvalidArgument,
		"ErrCodeTooLong":           ErrCodeTooLong,
		"ErrCodeUnknownRule":       ErrCodeUnknownRule,
		"ErrCodeMaxLength":         ErrCodeMaxLength,
		"ErrCodeInitialTooLong":    ErrCodeInitialTooLong,
		"ErrCodeInvalidInitial":    ErrCodeInvalidInitial,
		"ErrCodeNoConstant":        ErrCodeNoConstant,
		"ErrCodeDuplicateConstant": ErrCodeDuplicateConstant,
		"ErrCodeNilValidator":      ErrCodeNilValidator,
		"ErrCodeNilAdapter":        ErrCodeNilAdapter,
		"ErrCodeBounds":            ErrCodeBounds,
		"ErrCodeDirective":         ErrCodeDirective,
	}
	seen := make(map[string]string)
	for name, code := range codes {
		if code == "" {
			t.Errorf("%s is empty", name)
		}
		if other, dup := seen[code]; dup {
			t.Errorf("%s and %s share code %q", name, other, code)
		}
		seen[code] = name
	}
}
