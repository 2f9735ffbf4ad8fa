package gamerules

import (
	"fmt"

	"github.com/Azhovan/gamerules/selector"
)

// Type is a reusable rule descriptor: codec, initial value, change callback,
// validator and adapter. A registry instantiates one Rule per world from it.
type Type[T any] struct {
	codec     Codec[T]
	initial   T
	callback  ChangeCallback[T]
	validator Validator[T]
	adapter   Adapter[T]
}

// Option configures a Type at creation.
type Option[T any] func(*typeConfig[T])

type typeConfig[T any] struct {
	callback  ChangeCallback[T]
	validator Validator[T]
	adapter   Adapter[T]
}

// WithCallback sets the change callback fired after Set and SetValue commit.
func WithCallback[T any](cb ChangeCallback[T]) Option[T] {
	return func(cfg *typeConfig[T]) {
		if cb == nil {
			cb = NoopCallback[T]()
		}
		cfg.callback = cb
	}
}

// WithValidator sets the validator. Default: AlwaysTrue.
func WithValidator[T any](v Validator[T]) Option[T] {
	return func(cfg *typeConfig[T]) {
		cfg.validator = v
	}
}

// WithAdapter sets the adapter. Default: Identity.
func WithAdapter[T any](a Adapter[T]) Option[T] {
	return func(cfg *typeConfig[T]) {
		cfg.adapter = a
	}
}

// WithValidatorAdapter installs both halves of va.
func WithValidatorAdapter[T any](va ValidatorAdapter[T]) Option[T] {
	return func(cfg *typeConfig[T]) {
		if va == nil {
			cfg.validator, cfg.adapter = nil, nil
			return
		}
		cfg.validator = va.Validate
		cfg.adapter = va.Adapt
	}
}

// NewType builds a descriptor for any codec. The built-in constructors below
// cover every standard kind.
func NewType[T any](codec Codec[T], initial T, opts ...Option[T]) (*Type[T], error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: nil codec", ErrConstruction)
	}
	cfg := typeConfig[T]{
		callback:  NoopCallback[T](),
		validator: AlwaysTrue[T](),
		adapter:   Identity[T](),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.adapter == nil {
		return nil, &ConstructionError{Kind: codec.Kind(), Code: ErrCodeNilAdapter, Message: "adapter must not be nil"}
	}
	if err := checkValidator(codec, cfg.validator); err != nil {
		return nil, err
	}
	if g, ok := codec.(lengthGate[T]); ok {
		if n := g.length(initial); n > g.MaxLength() {
			return nil, &ConstructionError{
				Kind:    codec.Kind(),
				Code:    ErrCodeInitialTooLong,
				Message: fmt.Sprintf("initial value length %d breaches max length %d", n, g.MaxLength()),
			}
		}
	}

	return &Type[T]{
		codec:     codec,
		initial:   initial,
		callback:  cfg.callback,
		validator: cfg.validator,
		adapter:   cfg.adapter,
	}, nil
}

// Must panics if err is non-nil. Intended for package-level rule definitions.
func Must[T any](t *Type[T], err error) *Type[T] {
	if err != nil {
		panic(err)
	}
	return t
}

// New instantiates a rule holding the initial value. The initial value is
// not run through the pipeline.
func (t *Type[T]) New() *Rule[T] {
	return &Rule[T]{
		typ:       t,
		value:     t.initial,
		validator: t.validator,
		adapter:   t.adapter,
	}
}

// Kind returns the kind of rules built from t.
func (t *Type[T]) Kind() Kind {
	return t.codec.Kind()
}

// Initial returns the initial value.
func (t *Type[T]) Initial() T {
	return t.initial
}

// Codec returns the codec.
func (t *Type[T]) Codec() Codec[T] {
	return t.codec
}

func (t *Type[T]) newCell() Cell {
	return t.New()
}

// NewBoolType describes a boolean rule.
func NewBoolType(initial bool, opts ...Option[bool]) (*Type[bool], error) {
	return NewType[bool](boolCodec{}, initial, opts...)
}

// NewIntType describes a 32-bit integer rule.
func NewIntType(initial int32, opts ...Option[int32]) (*Type[int32], error) {
	return NewType[int32](intCodec{}, initial, opts...)
}

// NewLongType describes a 64-bit integer rule.
func NewLongType(initial int64, opts ...Option[int64]) (*Type[int64], error) {
	return NewType[int64](longCodec{}, initial, opts...)
}

// NewFloatType describes a 32-bit floating point rule.
func NewFloatType(initial float32, opts ...Option[float32]) (*Type[float32], error) {
	return NewType[float32](floatCodec{}, initial, opts...)
}

// NewDoubleType describes a 64-bit floating point rule.
func NewDoubleType(initial float64, opts ...Option[float64]) (*Type[float64], error) {
	return NewType[float64](doubleCodec{}, initial, opts...)
}

// NewStringType describes a string rule of at most maxLength runes, with
// 1 <= maxLength <= MaxStringLength.
func NewStringType(maxLength int, initial string, opts ...Option[string]) (*Type[string], error) {
	if maxLength <= 0 {
		return nil, &ConstructionError{Kind: KindString, Code: ErrCodeMaxLength, Message: "max length must be positive"}
	}
	if maxLength > MaxStringLength {
		return nil, &ConstructionError{
			Kind:    KindString,
			Code:    ErrCodeMaxLength,
			Message: fmt.Sprintf("max length cannot be greater than %d, use a text rule instead", MaxStringLength),
		}
	}
	return NewType[string](stringCodec{kind: KindString, max: maxLength}, initial, opts...)
}

// NewTextType describes a text rule: a string rule without the
// MaxStringLength cap. maxLength must be positive.
func NewTextType(maxLength int, initial string, opts ...Option[string]) (*Type[string], error) {
	if maxLength <= 0 {
		return nil, &ConstructionError{Kind: KindText, Code: ErrCodeMaxLength, Message: "max length must be positive"}
	}
	return NewType[string](stringCodec{kind: KindText, max: maxLength}, initial, opts...)
}

// NewEnumType describes a rule over the given constants. The validator must
// accept at least one constant and initial must be one of them.
func NewEnumType[T Enum](constants []T, initial T, opts ...Option[T]) (*Type[T], error) {
	codec, err := newEnumCodec(constants)
	if err != nil {
		return nil, err
	}
	if !codec.has(initial) {
		return nil, &ConstructionError{
			Kind:    KindEnum,
			Code:    ErrCodeInvalidInitial,
			Message: fmt.Sprintf("initial value %q is not one of the constants", initial.String()),
		}
	}
	return NewType[T](codec, initial, opts...)
}

// NewEntitySelectorType describes an entity-selector rule. The initial text
// must parse.
func NewEntitySelectorType(initial string, opts ...Option[selector.Selector]) (*Type[selector.Selector], error) {
	codec := selectorCodec{}
	sel, err := codec.Parse(initial)
	if err != nil {
		return nil, &ConstructionError{
			Kind:    KindEntitySelector,
			Code:    ErrCodeInvalidInitial,
			Message: err.Error(),
		}
	}
	return NewType[selector.Selector](codec, sel, opts...)
}
