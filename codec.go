package gamerules

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Azhovan/gamerules/selector"
)

// Codec converts between the textual and typed forms of one rule kind.
type Codec[T any] interface {
	Kind() Kind
	// Parse converts text to a value. An error means the text is not a T at all.
	Parse(input string) (T, error)
	Format(value T) string
	// CommandResult is the integer a command query reports for the value.
	CommandResult(value T) int
}

// lengthGate is implemented by codecs whose values have a maximum length.
type lengthGate[T any] interface {
	MaxLength() int
	length(value T) int
	truncate(value T, n int) T
}

// enumerated is implemented by codecs with a finite set of values.
type enumerated[T any] interface {
	Constants() []T
}

// membership is implemented by codecs whose type admits values outside the
// declared constants. Such values never reach the pipeline.
type membership[T any] interface {
	has(value T) bool
}

type boolCodec struct{}

func (boolCodec) Kind() Kind { return KindBool }

// Parse accepts only the literals "true" and "false".
func (boolCodec) Parse(input string) (bool, error) {
	switch input {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, &ParseError{Type: "bool", Value: input}
}

func (boolCodec) Format(v bool) string { return strconv.FormatBool(v) }

func (boolCodec) CommandResult(v bool) int {
	if v {
		return 1
	}
	return 0
}

func (boolCodec) Constants() []bool { return []bool{false, true} }

type intCodec struct{}

func (intCodec) Kind() Kind { return KindInt }

func (intCodec) Parse(input string) (int32, error) {
	i, err := strconv.ParseInt(input, 10, 32)
	if err != nil {
		return 0, &ParseError{Type: "int", Value: input, Err: err}
	}
	return int32(i), nil
}

func (intCodec) Format(v int32) string { return strconv.FormatInt(int64(v), 10) }
func (intCodec) CommandResult(v int32) int { return int(v) }

type longCodec struct{}

func (longCodec) Kind() Kind { return KindLong }

func (longCodec) Parse(input string) (int64, error) {
	i, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, &ParseError{Type: "long", Value: input, Err: err}
	}
	return i, nil
}

func (longCodec) Format(v int64) string { return strconv.FormatInt(v, 10) }

func (longCodec) CommandResult(v int64) int {
	switch {
	case v > math.MaxInt32:
		return math.MaxInt32
	case v < math.MinInt32:
		return math.MinInt32
	}
	return int(v)
}

type floatCodec struct{}

func (floatCodec) Kind() Kind { return KindFloat }

func (floatCodec) Parse(input string) (float32, error) {
	f, err := strconv.ParseFloat(input, 32)
	if err != nil && !overflowed(f, err) {
		return 0, &ParseError{Type: "float", Value: input, Err: err}
	}
	if math.IsNaN(f) {
		return 0, &ParseError{Type: "float", Value: input, Err: errNaN}
	}
	return float32(f), nil
}

func (floatCodec) Format(v float32) string { return strconv.FormatFloat(float64(v), 'g', -1, 32) }

func (floatCodec) CommandResult(v float32) int { return truncateToInt(float64(v)) }

type doubleCodec struct{}

func (doubleCodec) Kind() Kind { return KindDouble }

func (doubleCodec) Parse(input string) (float64, error) {
	f, err := strconv.ParseFloat(input, 64)
	if err != nil && !overflowed(f, err) {
		return 0, &ParseError{Type: "double", Value: input, Err: err}
	}
	if math.IsNaN(f) {
		return 0, &ParseError{Type: "double", Value: input, Err: errNaN}
	}
	return f, nil
}

func (doubleCodec) Format(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func (doubleCodec) CommandResult(v float64) int { return truncateToInt(v) }

var errNaN = errors.New("not a number")

// overflowed reports whether ParseFloat failed only because the input is out
// of range, in which case f is the signed infinity.
func overflowed(f float64, err error) bool {
	return errors.Is(err, strconv.ErrRange) && math.IsInf(f, 0)
}

// truncateToInt truncates toward zero, saturating at the int32 range.
func truncateToInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}

// MaxStringLength is the largest max length a plain string rule accepts.
// Longer values need a text rule.
const MaxStringLength = 128

// stringCodec serves both the string and the text kinds; only the kind and
// the permitted max length differ. Lengths count runes.
type stringCodec struct {
	kind Kind
	max  int
}

func (c stringCodec) Kind() Kind { return c.kind }

func (stringCodec) Parse(input string) (string, error) { return input, nil }
func (stringCodec) Format(v string) string { return v }
func (stringCodec) CommandResult(v string) int { return utf8.RuneCountInString(v) }

func (c stringCodec) MaxLength() int { return c.max }
func (stringCodec) length(v string) int { return utf8.RuneCountInString(v) }

func (stringCodec) truncate(v string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range v {
		if i == n {
			return v[:pos]
		}
		i++
	}
	return v
}

// Enum is satisfied by enum-like constant types. String must return the
// constant's name; names are matched exactly when parsing.
type Enum interface {
	comparable
	fmt.Stringer
}

type enumCodec[T Enum] struct {
	constants []T
	byName    map[string]T
	index     map[T]int
}

func newEnumCodec[T Enum](constants []T) (*enumCodec[T], error) {
	if len(constants) == 0 {
		return nil, &ConstructionError{Kind: KindEnum, Code: ErrCodeNoConstant, Message: "enum has no constants"}
	}
	c := &enumCodec[T]{
		constants: append([]T(nil), constants...),
		byName:    make(map[string]T, len(constants)),
		index:     make(map[T]int, len(constants)),
	}
	for i, v := range constants {
		name := v.String()
		if _, dup := c.byName[name]; dup {
			return nil, &ConstructionError{Kind: KindEnum, Code: ErrCodeDuplicateConstant, Message: fmt.Sprintf("constant name %q is used twice", name)}
		}
		c.byName[name] = v
		c.index[v] = i
	}
	return c, nil
}

func (c *enumCodec[T]) Kind() Kind { return KindEnum }

func (c *enumCodec[T]) Parse(input string) (T, error) {
	v, ok := c.byName[input]
	if !ok {
		var zero T
		return zero, &ParseError{Type: "enum", Value: input}
	}
	return v, nil
}

func (c *enumCodec[T]) Format(v T) string { return v.String() }

// CommandResult is the 1-based ordinal of the constant.
func (c *enumCodec[T]) CommandResult(v T) int {
	if i, ok := c.index[v]; ok {
		return i + 1
	}
	return 0
}

func (c *enumCodec[T]) Constants() []T {
	return append([]T(nil), c.constants...)
}

func (c *enumCodec[T]) has(v T) bool {
	_, ok := c.index[v]
	return ok
}

type selectorCodec struct{}

func (selectorCodec) Kind() Kind { return KindEntitySelector }

// Parse trims surrounding whitespace before parsing.
func (selectorCodec) Parse(input string) (selector.Selector, error) {
	sel, err := selector.Parse(strings.TrimSpace(input))
	if err != nil {
		return selector.Selector{}, &ParseError{Type: "entity selector", Value: input, Err: err}
	}
	return sel, nil
}

func (selectorCodec) Format(v selector.Selector) string { return v.String() }

func (selectorCodec) CommandResult(v selector.Selector) int {
	return utf8.RuneCountInString(v.String())
}
