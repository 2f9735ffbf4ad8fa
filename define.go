package gamerules

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/exp/constraints"

	"github.com/Azhovan/gamerules/selector"
)

// Definition declares a rule in data rather than code, the way server
// config files and datapacks add rules.
//
// Constraints is a comma-separated directive list:
//
//	int, long:     min:N, max:N, parity:even|odd, round:none|ceiling|floor|nearest
//	float, double: min:N, max:N
//	string, text:  len:N (required), oneof:a,b,c
//	enum:          oneof:a,b,c (required; the constants in cycle order)
//	entity_selector: players
//
// Bounds clamp out-of-range values; parity moves rejected values by one.
type Definition struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Kind        string `json:"kind" yaml:"kind" mapstructure:"kind"`
	Category    string `json:"category" yaml:"category" mapstructure:"category"`
	Initial     string `json:"initial" yaml:"initial" mapstructure:"initial"`
	Constraints string `json:"constraints" yaml:"constraints" mapstructure:"constraints"`
}

// Symbol is the constant type of enum rules declared by a Definition.
type Symbol string

func (s Symbol) String() string { return string(s) }

// kindDirectives lists the directives each kind accepts.
var kindDirectives = map[Kind][]string{
	KindBool:           nil,
	KindInt:            {"min", "max", "parity", "round"},
	KindLong:           {"min", "max", "parity", "round"},
	KindFloat:          {"min", "max"},
	KindDouble:         {"min", "max"},
	KindString:         {"len", "oneof"},
	KindText:           {"len", "oneof"},
	KindEnum:           {"oneof"},
	KindEntitySelector: {"players"},
}

// Define registers the rule described by def. An empty Category means misc;
// an empty Initial means the kind's zero value (the first constant for enums).
func Define(reg *Registry, def Definition) (Key, error) {
	kind, err := ParseKind(strings.TrimSpace(def.Kind))
	if err != nil {
		return Key{}, fmt.Errorf("%w: rule %s: %v", ErrConstruction, def.Name, err)
	}
	category := CategoryMisc
	if c := strings.TrimSpace(def.Category); c != "" {
		if category, err = ParseCategory(c); err != nil {
			return Key{}, fmt.Errorf("%w: rule %s: %v", ErrConstruction, def.Name, err)
		}
	}

	d, err := parseDirectives(def.Constraints)
	if err != nil {
		return Key{}, directiveError(kind, err.Error())
	}
	for _, name := range d.used() {
		if !slices.Contains(kindDirectives[kind], name) {
			return Key{}, directiveError(kind, fmt.Sprintf("%s is not supported for %s rules", name, kind))
		}
	}
	if d.rounding != "" && d.parity == "" {
		return Key{}, directiveError(kind, "round needs a parity directive")
	}

	switch kind {
	case KindBool:
		initial, err := parseInitial[bool](boolCodec{}, def.Initial)
		if err != nil {
			return Key{}, err
		}
		typ, err := NewBoolType(initial)
		return registerType(reg, def.Name, category, typ, err)
	case KindInt:
		return defineInteger[int32](reg, def, category, d, intCodec{}, math.MinInt32, math.MaxInt32)
	case KindLong:
		return defineInteger[int64](reg, def, category, d, longCodec{}, math.MinInt64, math.MaxInt64)
	case KindFloat:
		return defineFloat[float32](reg, def, category, d, floatCodec{})
	case KindDouble:
		return defineFloat[float64](reg, def, category, d, doubleCodec{})
	case KindString, KindText:
		return defineString(reg, def, category, kind, d)
	case KindEnum:
		return defineEnum(reg, def, category, d)
	default:
		return defineSelector(reg, def, category, d)
	}
}

// DefineAll registers every definition and reports all failures together.
// Definitions that fail are skipped; the others stay registered.
func DefineAll(reg *Registry, defs []Definition) error {
	var errs []error
	for _, def := range defs {
		if _, err := Define(reg, def); err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", def.Name, err))
		}
	}
	return errors.Join(errs...)
}

func defineInteger[T constraints.Integer](reg *Registry, def Definition, category Category, d directives, codec Codec[T], lo, hi T) (Key, error) {
	initial, err := parseInitial(codec, def.Initial)
	if err != nil {
		return Key{}, err
	}
	parts, err := boundsOf(codec, d, lo, hi)
	if err != nil {
		return Key{}, err
	}
	if d.parity != "" {
		r := RoundNone
		if d.rounding != "" {
			if r, err = ParseRounding(d.rounding); err != nil {
				return Key{}, directiveError(codec.Kind(), err.Error())
			}
		}
		if d.parity == "even" {
			parts = append(parts, Even[T](r))
		} else {
			parts = append(parts, Odd[T](r))
		}
	}
	typ, err := NewType(codec, initial, chain(parts)...)
	return registerType(reg, def.Name, category, typ, err)
}

func defineFloat[T constraints.Float](reg *Registry, def Definition, category Category, d directives, codec Codec[T]) (Key, error) {
	initial, err := parseInitial(codec, def.Initial)
	if err != nil {
		return Key{}, err
	}
	parts, err := boundsOf(codec, d, T(math.Inf(-1)), T(math.Inf(1)))
	if err != nil {
		return Key{}, err
	}
	typ, err := NewType(codec, initial, chain(parts)...)
	return registerType(reg, def.Name, category, typ, err)
}

func defineString(reg *Registry, def Definition, category Category, kind Kind, d directives) (Key, error) {
	if d.length == "" {
		return Key{}, &ConstructionError{Kind: kind, Code: ErrCodeMaxLength, Message: "len directive is required"}
	}
	n, err := strconv.Atoi(d.length)
	if err != nil {
		return Key{}, directiveError(kind, fmt.Sprintf("len %q is not a number", d.length))
	}

	var opts []Option[string]
	if len(d.oneof) > 0 {
		allowed := slices.Clone(d.oneof)
		opts = append(opts, WithValidator(Validator[string](func(s string) bool {
			return slices.Contains(allowed, s)
		})))
	}

	var typ *Type[string]
	if kind == KindText {
		typ, err = NewTextType(n, def.Initial, opts...)
	} else {
		typ, err = NewStringType(n, def.Initial, opts...)
	}
	return registerType(reg, def.Name, category, typ, err)
}

func defineEnum(reg *Registry, def Definition, category Category, d directives) (Key, error) {
	if len(d.oneof) == 0 {
		return Key{}, &ConstructionError{Kind: KindEnum, Code: ErrCodeNoConstant, Message: "oneof directive is required"}
	}
	constants := make([]Symbol, len(d.oneof))
	for i, name := range d.oneof {
		constants[i] = Symbol(name)
	}
	initial := constants[0]
	if def.Initial != "" {
		initial = Symbol(def.Initial)
	}
	typ, err := NewEnumType(constants, initial)
	return registerType(reg, def.Name, category, typ, err)
}

func defineSelector(reg *Registry, def Definition, category Category, d directives) (Key, error) {
	var opts []Option[selector.Selector]
	if d.players {
		opts = append(opts, WithValidator(Validator[selector.Selector](selector.Selector.PlayersOnly)))
	}
	typ, err := NewEntitySelectorType(def.Initial, opts...)
	return registerType(reg, def.Name, category, typ, err)
}

// boundsOf turns min and max directives into a clamping part. A missing
// bound defaults to the type's extreme.
func boundsOf[T constraints.Ordered](codec Codec[T], d directives, lo, hi T) ([]ValidatorAdapter[T], error) {
	if !d.hasMin && !d.hasMax {
		return nil, nil
	}
	lower, upper := lo, hi
	if d.hasMin {
		v, err := codec.Parse(d.min)
		if err != nil {
			return nil, directiveError(codec.Kind(), fmt.Sprintf("min %q is not a %s", d.min, codec.Kind()))
		}
		lower = v
	}
	if d.hasMax {
		v, err := codec.Parse(d.max)
		if err != nil {
			return nil, directiveError(codec.Kind(), fmt.Sprintf("max %q is not a %s", d.max, codec.Kind()))
		}
		upper = v
	}
	b, err := Bounded(lower, upper)
	if err != nil {
		return nil, err
	}
	return []ValidatorAdapter[T]{b}, nil
}

// chain merges parts into one pipeline stage: every validator must accept,
// and the adapters run in order.
func chain[T any](parts []ValidatorAdapter[T]) []Option[T] {
	if len(parts) == 0 {
		return nil
	}
	v := Validator[T](parts[0].Validate)
	a := Adapter[T](parts[0].Adapt)
	for _, p := range parts[1:] {
		v = v.And(p.Validate)
		a = a.And(p.Adapt)
	}
	return []Option[T]{WithValidatorAdapter(Combine(v, a))}
}

func parseInitial[T any](codec Codec[T], initial string) (T, error) {
	var zero T
	if initial == "" {
		return zero, nil
	}
	v, err := codec.Parse(initial)
	if err != nil {
		return zero, &ConstructionError{Kind: codec.Kind(), Code: ErrCodeInvalidInitial, Message: err.Error()}
	}
	return v, nil
}

func registerType[T any](reg *Registry, name string, category Category, typ *Type[T], err error) (Key, error) {
	if err != nil {
		return Key{}, err
	}
	return Register(reg, name, category, typ)
}

func directiveError(kind Kind, msg string) error {
	return &ConstructionError{Kind: kind, Code: ErrCodeDirective, Message: msg}
}
