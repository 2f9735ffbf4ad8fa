package gamerules

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for rejected input.
const (
	ErrCodeInvalidArgument = "invalid_argument"
	ErrCodeTooLong         = "too_long"
	ErrCodeUnknownRule     = "unknown_rule"
)

// Error codes for construction-time invariant violations.
const (
	ErrCodeMaxLength         = "max_length"
	ErrCodeInitialTooLong    = "initial_too_long"
	ErrCodeInvalidInitial    = "invalid_initial"
	ErrCodeNoConstant        = "no_accepted_constant"
	ErrCodeDuplicateConstant = "duplicate_constant"
	ErrCodeNilValidator      = "nil_validator"
	ErrCodeNilAdapter        = "nil_adapter"
	ErrCodeBounds            = "bounds"
	ErrCodeDirective         = "invalid_directive"
)

var (
	// ErrInvalidArgument is matched by every rejected command argument.
	ErrInvalidArgument = errors.New("gamerules: invalid argument")

	// ErrTooLong is matched by command arguments breaching a rule's max length.
	ErrTooLong = errors.New("gamerules: input too long")

	// ErrConstruction is matched by every *ConstructionError.
	ErrConstruction = errors.New("gamerules: invalid rule definition")

	// ErrUnknownRule is returned when a rule name is not registered.
	ErrUnknownRule = errors.New("gamerules: unknown rule")

	// ErrDuplicateRule is returned when a rule name is registered twice.
	ErrDuplicateRule = errors.New("gamerules: rule already registered")

	// ErrKindMismatch is returned when two cells of different kinds are mixed.
	ErrKindMismatch = errors.New("gamerules: rule kind mismatch")
)

// ArgumentError reports a command argument the rule refused.
// The rule value is left unchanged.
type ArgumentError struct {
	Rule    string // Rule name, empty when raised by a bare cell
	Input   string
	Code    string // ErrCodeInvalidArgument or ErrCodeTooLong
	Message string
	Err     error // Underlying parse error, if any
}

func (e *ArgumentError) Error() string {
	var b strings.Builder
	if e.Rule != "" {
		fmt.Fprintf(&b, "rule %s: ", e.Rule)
	}
	fmt.Fprintf(&b, "%s (%s)", e.Code, e.Message)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

// Unwrap exposes both the sentinel for the code and the parse cause.
func (e *ArgumentError) Unwrap() []error {
	sentinel := ErrInvalidArgument
	if e.Code == ErrCodeTooLong {
		sentinel = ErrTooLong
	}
	if e.Err == nil {
		return []error{sentinel}
	}
	return []error{sentinel, e.Err}
}

// ConstructionError reports a rule definition that breaks an invariant.
// These are programmer errors and are never recovered from.
type ConstructionError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("gamerules: invalid %s rule: %s (%s)", e.Kind, e.Code, e.Message)
}

func (e *ConstructionError) Unwrap() error {
	return ErrConstruction
}

// ParseError is returned when text cannot be converted to a rule value at all.
type ParseError struct {
	Type  string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q as %s: %v", e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot parse %q as %s", e.Value, e.Type)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadError aggregates rule-level failures found while applying overrides.
type LoadError struct {
	RuleErrors []RuleError
}

// Error formats the failures as a multi-line message.
func (e *LoadError) Error() string {
	if len(e.RuleErrors) == 0 {
		return "rule overrides failed: no errors"
	}

	var b strings.Builder
	if len(e.RuleErrors) == 1 {
		b.WriteString("rule overrides failed: 1 error\n")
	} else {
		fmt.Fprintf(&b, "rule overrides failed: %d errors\n", len(e.RuleErrors))
	}

	for _, re := range e.RuleErrors {
		fmt.Fprintf(&b, "  - %s: %s (%s)\n", re.Rule, re.Code, re.Message)
	}

	return strings.TrimRight(b.String(), "\n")
}

// RuleError is a single failure tied to a rule name.
type RuleError struct {
	Rule    string // Rule name or override key
	Code    string
	Message string
}
