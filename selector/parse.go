package selector

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const maxPlayerNameLength = 16

// optionSpec describes how an option value is checked.
type optionSpec struct {
	negatable bool
	repeat    repeatRule
	check     func(string) error
}

type repeatRule int

const (
	repeatNever       repeatRule = iota
	repeatNegatedOnly            // any number of negations, or one plain value
	repeatAlways
)

var knownOptions = map[string]optionSpec{
	"x":            {check: checkNumber},
	"y":            {check: checkNumber},
	"z":            {check: checkNumber},
	"dx":           {check: checkNumber},
	"dy":           {check: checkNumber},
	"dz":           {check: checkNumber},
	"distance":     {check: checkRange},
	"level":        {check: checkRange},
	"x_rotation":   {check: checkRange},
	"y_rotation":   {check: checkRange},
	"limit":        {check: checkLimit},
	"sort":         {check: checkOneOf("nearest", "furthest", "random", "arbitrary")},
	"gamemode":     {negatable: true, repeat: repeatNegatedOnly, check: checkOneOf("survival", "creative", "adventure", "spectator")},
	"name":         {negatable: true, repeat: repeatNegatedOnly},
	"type":         {negatable: true, repeat: repeatNegatedOnly},
	"team":         {negatable: true, repeat: repeatNegatedOnly},
	"tag":          {negatable: true, repeat: repeatAlways},
	"predicate":    {negatable: true, repeat: repeatAlways},
	"nbt":          {negatable: true, repeat: repeatAlways},
	"scores":       {check: checkBraced},
	"advancements": {check: checkBraced},
}

// Parse parses selector text. The input must not contain surrounding whitespace.
func Parse(input string) (Selector, error) {
	if input == "" {
		return Selector{}, ErrEmpty
	}
	if input[0] == '@' {
		return parseVariable(input)
	}
	if id, err := uuid.Parse(input); err == nil && len(input) == 36 {
		return Selector{source: input, target: TargetUUID, id: id}, nil
	}
	if err := checkPlayerName(input); err != nil {
		return Selector{}, err
	}
	return Selector{source: input, target: TargetPlayer, name: input}, nil
}

func checkPlayerName(input string) error {
	if len(input) > maxPlayerNameLength {
		return &SyntaxError{Input: input, Offset: maxPlayerNameLength, Reason: "player name longer than 16 characters"}
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		if c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		return &SyntaxError{Input: input, Offset: i, Reason: "invalid character in player name"}
	}
	return nil
}

func parseVariable(input string) (Selector, error) {
	if len(input) < 2 {
		return Selector{}, &SyntaxError{Input: input, Offset: 1, Reason: "missing selector variable"}
	}
	v := input[1]
	switch v {
	case 'p', 'a', 'r', 's', 'e', 'n':
	default:
		return Selector{}, &SyntaxError{Input: input, Offset: 1, Reason: "unknown selector variable " + strconv.QuoteRune(rune(v))}
	}
	sel := Selector{source: input, target: TargetVariable, variable: v}
	if len(input) == 2 {
		return sel, nil
	}
	if input[2] != '[' {
		return Selector{}, &SyntaxError{Input: input, Offset: 2, Reason: "expected '[' or end of selector"}
	}
	opts, end, err := parseOptions(input, 3)
	if err != nil {
		return Selector{}, err
	}
	if end != len(input) {
		return Selector{}, &SyntaxError{Input: input, Offset: end, Reason: "unexpected trailing input"}
	}
	sel.options = opts
	return sel, nil
}

// parseOptions reads key=value pairs starting at pos, just after '['.
// It returns the offset just past the closing ']'.
func parseOptions(input string, pos int) ([]Option, int, error) {
	var opts []Option
	seen := make(map[string]bool)
	positive := make(map[string]bool)

	if pos < len(input) && input[pos] == ']' {
		return opts, pos + 1, nil
	}

	for {
		keyStart := pos
		for pos < len(input) && isKeyChar(input[pos]) {
			pos++
		}
		key := input[keyStart:pos]
		if key == "" {
			return nil, pos, &SyntaxError{Input: input, Offset: pos, Reason: "expected option name"}
		}
		spec, known := knownOptions[key]
		if !known {
			return nil, keyStart, &SyntaxError{Input: input, Offset: keyStart, Reason: "unknown option " + strconv.Quote(key)}
		}
		if pos >= len(input) || input[pos] != '=' {
			return nil, pos, &SyntaxError{Input: input, Offset: pos, Reason: "expected '=' after option " + strconv.Quote(key)}
		}
		pos++

		negated := false
		if pos < len(input) && input[pos] == '!' {
			if !spec.negatable {
				return nil, pos, &SyntaxError{Input: input, Offset: pos, Reason: "option " + strconv.Quote(key) + " cannot be negated"}
			}
			negated = true
			pos++
		}

		valueStart := pos
		value, next, err := readValue(input, pos)
		if err != nil {
			return nil, pos, err
		}
		pos = next

		if seen[key] && !repeatAllowed(spec.repeat, negated, positive[key]) {
			return nil, keyStart, &SyntaxError{Input: input, Offset: keyStart, Reason: "option " + strconv.Quote(key) + " may not be repeated"}
		}
		seen[key] = true
		if !negated {
			positive[key] = true
		}

		if spec.check != nil {
			if err := spec.check(value); err != nil {
				return nil, valueStart, &SyntaxError{Input: input, Offset: valueStart, Reason: key + ": " + err.Error()}
			}
		}
		opts = append(opts, Option{Key: key, Value: value, Negated: negated})

		if pos >= len(input) {
			return nil, pos, &SyntaxError{Input: input, Offset: pos, Reason: "expected ',' or ']'"}
		}
		switch input[pos] {
		case ',':
			pos++
		case ']':
			return opts, pos + 1, nil
		default:
			return nil, pos, &SyntaxError{Input: input, Offset: pos, Reason: "expected ',' or ']'"}
		}
	}
}

func repeatAllowed(rule repeatRule, negated, hadPositive bool) bool {
	switch rule {
	case repeatAlways:
		return true
	case repeatNegatedOnly:
		return negated && !hadPositive
	default:
		return false
	}
}

// readValue reads a quoted, braced or bare option value.
func readValue(input string, pos int) (string, int, error) {
	if pos >= len(input) {
		return "", pos, &SyntaxError{Input: input, Offset: pos, Reason: "expected option value"}
	}
	switch input[pos] {
	case '"', '\'':
		return readQuoted(input, pos)
	case '{':
		end, err := matchBrace(input, pos)
		if err != nil {
			return "", pos, err
		}
		return input[pos:end], end, nil
	}
	start := pos
	for pos < len(input) && input[pos] != ',' && input[pos] != ']' {
		pos++
	}
	return strings.TrimSpace(input[start:pos]), pos, nil
}

func readQuoted(input string, pos int) (string, int, error) {
	quote := input[pos]
	var b strings.Builder
	for i := pos + 1; i < len(input); i++ {
		c := input[i]
		switch {
		case c == '\\' && i+1 < len(input):
			i++
			b.WriteByte(input[i])
		case c == quote:
			return b.String(), i + 1, nil
		default:
			b.WriteByte(c)
		}
	}
	return "", pos, &SyntaxError{Input: input, Offset: pos, Reason: "unterminated quoted value"}
}

// matchBrace returns the offset just past the brace closing the one at pos.
func matchBrace(input string, pos int) (int, error) {
	depth := 0
	var quote byte
	for i := pos; i < len(input); i++ {
		c := input[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, &SyntaxError{Input: input, Offset: pos, Reason: "unbalanced braces"}
}

func isKeyChar(c byte) bool {
	return c == '_' || c == '.' || c == '+' || c == '-' ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func checkNumber(v string) error {
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		return errNotNumber
	}
	return nil
}

// checkRange accepts N, N.., ..M and N..M.
func checkRange(v string) error {
	if v == "" || v == ".." {
		return errBadRange
	}
	lo, hi, isRange := strings.Cut(v, "..")
	if !isRange {
		return checkNumber(v)
	}
	var lf, hf float64
	var err error
	if lo != "" {
		if lf, err = strconv.ParseFloat(lo, 64); err != nil {
			return errBadRange
		}
	}
	if hi != "" {
		if hf, err = strconv.ParseFloat(hi, 64); err != nil {
			return errBadRange
		}
	}
	if lo != "" && hi != "" && lf > hf {
		return errBadRange
	}
	return nil
}

func checkLimit(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return errBadLimit
	}
	return nil
}

func checkBraced(v string) error {
	if !strings.HasPrefix(v, "{") || !strings.HasSuffix(v, "}") {
		return errNotBraced
	}
	return nil
}

func checkOneOf(allowed ...string) func(string) error {
	return func(v string) error {
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		return &valueError{msg: "must be one of " + strings.Join(allowed, ", ")}
	}
}

type valueError struct{ msg string }

func (e *valueError) Error() string { return e.msg }

var (
	errNotNumber = &valueError{msg: "expected a number"}
	errBadRange  = &valueError{msg: "expected a range like 1..5"}
	errBadLimit  = &valueError{msg: "limit must be a positive integer"}
	errNotBraced = &valueError{msg: "expected a {...} block"}
)
