package gamerules

import "fmt"

// entry identifies how a candidate value reached a rule.
type entry int

const (
	entrySet      entry = iota // programmatic Set
	entryCopy                  // SetValue from another cell
	entryArgument              // command argument
	entryLoad                  // world-save Deserialize
	entryProbe                 // UI Validate probe
)

// notifies reports whether a commit through e fires the change callback.
func (e entry) notifies() bool {
	return e == entrySet || e == entryCopy
}

// Rule is a typed configuration cell. Its value only changes through the
// acceptance pipeline: validate, else adapt once and re-validate, else reject.
//
// A Rule is not safe for concurrent use; every mutation belongs on the
// server thread.
type Rule[T any] struct {
	typ       *Type[T]
	value     T
	validator Validator[T]
	adapter   Adapter[T]
}

// Get returns the committed value.
func (r *Rule[T]) Get() T {
	return r.value
}

// Kind returns the rule's value kind.
func (r *Rule[T]) Kind() Kind {
	return r.typ.codec.Kind()
}

// Type returns the descriptor the rule was created from.
func (r *Rule[T]) Type() *Type[T] {
	return r.typ
}

// MaxLength returns the length limit of string and text rules, or 0.
func (r *Rule[T]) MaxLength() int {
	if g, ok := r.typ.codec.(lengthGate[T]); ok {
		return g.MaxLength()
	}
	return 0
}

// Set runs v through the pipeline and fires the change callback on commit.
// Rejected values are ignored.
func (r *Rule[T]) Set(v T, server Server) {
	if !r.offer(v, entrySet, server) {
		logger.Debug("rejected value", "kind", r.Kind(), "value", r.typ.codec.Format(v))
	}
}

// SetValue copies the value of other into r through the pipeline and fires
// the change callback on commit. Over-length strings are truncated first.
func (r *Rule[T]) SetValue(other *Rule[T], server Server) {
	r.setValue(other, server)
}

func (r *Rule[T]) setValue(other *Rule[T], server Server) bool {
	if other == nil {
		return false
	}
	return r.offer(other.value, entryCopy, server)
}

// Validate parses input and commits it on acceptance. It is the probe used
// for live feedback while typing: it mutates on success but never fires the
// change callback, and never truncates.
func (r *Rule[T]) Validate(input string) bool {
	c, err := r.typ.codec.Parse(input)
	if err != nil {
		return false
	}
	return r.offer(c, entryProbe, nil)
}

// SetFromArgument commits a command argument. Rejected input returns an
// *ArgumentError and leaves the value unchanged. The change callback is not
// fired.
func (r *Rule[T]) SetFromArgument(input string) error {
	c, err := r.typ.codec.Parse(input)
	if err != nil {
		return &ArgumentError{
			Input:   input,
			Code:    ErrCodeInvalidArgument,
			Message: fmt.Sprintf("not a valid %s value", r.Kind()),
			Err:     err,
		}
	}
	if g, ok := r.typ.codec.(lengthGate[T]); ok {
		if n := g.length(c); n > g.MaxLength() {
			return &ArgumentError{
				Input:   input,
				Code:    ErrCodeTooLong,
				Message: fmt.Sprintf("input must be at most %d long, found %d", g.MaxLength(), n),
			}
		}
	}
	if !r.offer(c, entryArgument, nil) {
		return &ArgumentError{
			Input:   input,
			Code:    ErrCodeInvalidArgument,
			Message: fmt.Sprintf("value %q is not accepted by this rule", input),
		}
	}
	return nil
}

// Deserialize loads a saved value. Failures keep the previous value and
// are only logged.
func (r *Rule[T]) Deserialize(input string) {
	r.load(input)
}

func (r *Rule[T]) load(input string) bool {
	c, err := r.typ.codec.Parse(input)
	if err != nil {
		logger.Warn("failed to parse saved rule value", "kind", r.Kind(), "input", input, "err", err)
		return false
	}
	if !r.offer(c, entryLoad, nil) {
		logger.Debug("saved rule value rejected", "kind", r.Kind(), "input", input)
		return false
	}
	return true
}

// Serialize returns the committed value in save-file form.
func (r *Rule[T]) Serialize() string {
	return r.typ.codec.Format(r.value)
}

// String implements fmt.Stringer.
func (r *Rule[T]) String() string {
	return r.Serialize()
}

// CommandResult is the integer a command query reports for the rule.
func (r *Rule[T]) CommandResult() int {
	return r.typ.codec.CommandResult(r.value)
}

// Copy returns an independent cell holding the current value. The validator,
// adapter and type are shared.
func (r *Rule[T]) Copy() *Rule[T] {
	return &Rule[T]{
		typ:       r.typ,
		value:     r.value,
		validator: r.validator,
		adapter:   r.adapter,
	}
}

// Parse converts input without touching the rule.
func (r *Rule[T]) Parse(input string) (T, bool) {
	v, err := r.typ.codec.Parse(input)
	return v, err == nil
}

// Validator returns the installed validator.
func (r *Rule[T]) Validator() Validator[T] {
	return r.validator
}

// Adapter returns the installed adapter.
func (r *Rule[T]) Adapter() Adapter[T] {
	return r.adapter
}

// SetValidator replaces the validator. Enum rules refuse a validator that
// accepts none of their constants. The committed value is not re-checked.
func (r *Rule[T]) SetValidator(v Validator[T]) error {
	if err := checkValidator(r.typ.codec, v); err != nil {
		return err
	}
	r.validator = v
	return nil
}

// SetAdapter replaces the adapter.
func (r *Rule[T]) SetAdapter(a Adapter[T]) error {
	if a == nil {
		return &ConstructionError{Kind: r.Kind(), Code: ErrCodeNilAdapter, Message: "adapter must not be nil"}
	}
	r.adapter = a
	return nil
}

// Values returns the constants of an enumerated rule (enum, bool) that the
// current validator accepts. When none are accepted it returns the current
// value alone, so a UI always has something to cycle through. Other kinds
// return nil.
func (r *Rule[T]) Values() []T {
	e, ok := r.typ.codec.(enumerated[T])
	if !ok {
		return nil
	}
	var out []T
	for _, c := range e.Constants() {
		if r.validator(c) {
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return []T{r.value}
	}
	return out
}

// Names returns Values in save-file form.
func (r *Rule[T]) Names() []string {
	values := r.Values()
	if values == nil {
		return nil
	}
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = r.typ.codec.Format(v)
	}
	return names
}

// offer runs the pipeline for candidate c and commits on acceptance.
func (r *Rule[T]) offer(c T, e entry, server Server) bool {
	if g, ok := r.typ.codec.(lengthGate[T]); ok && g.length(c) > g.MaxLength() {
		switch e {
		case entryLoad, entryCopy:
			c = g.truncate(c, g.MaxLength())
		default:
			return false
		}
	}
	v, ok := r.accept(c)
	if !ok {
		return false
	}
	r.value = v
	if e.notifies() {
		r.changed(server)
	}
	return true
}

// accept returns the value to commit for c, if any.
func (r *Rule[T]) accept(c T) (T, bool) {
	if r.admits(c) && r.validator(c) {
		return c, true
	}
	if a, ok := r.adapter(c); ok && r.admits(a) && r.validator(a) {
		return a, true
	}
	var zero T
	return zero, false
}

// admits reports whether v is representable by the rule's kind.
func (r *Rule[T]) admits(v T) bool {
	m, ok := r.typ.codec.(membership[T])
	return !ok || m.has(v)
}

func (r *Rule[T]) changed(server Server) {
	if r.typ.callback != nil {
		r.typ.callback(server, r)
	}
}

// checkValidator enforces the install-time invariants for a validator.
func checkValidator[T any](codec Codec[T], v Validator[T]) error {
	if v == nil {
		return &ConstructionError{Kind: codec.Kind(), Code: ErrCodeNilValidator, Message: "validator must not be nil"}
	}
	if codec.Kind() != KindEnum {
		return nil
	}
	e, ok := codec.(enumerated[T])
	if !ok {
		return nil
	}
	for _, c := range e.Constants() {
		if v(c) {
			return nil
		}
	}
	return &ConstructionError{Kind: KindEnum, Code: ErrCodeNoConstant, Message: "validator needs to accept at least one enum constant"}
}
