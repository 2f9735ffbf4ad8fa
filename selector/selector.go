package selector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Target identifies what a selector names.
type Target int

const (
	TargetVariable Target = iota // @p, @a, ...
	TargetPlayer                 // a player name
	TargetUUID                   // an entity UUID
)

// String returns the target name.
func (t Target) String() string {
	switch t {
	case TargetVariable:
		return "variable"
	case TargetPlayer:
		return "player"
	case TargetUUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// Option is a single bracketed selector option such as tag=!builder.
type Option struct {
	Key     string
	Value   string
	Negated bool
}

func (o Option) String() string {
	v := o.Value
	if strings.ContainsAny(v, ",] \"'") && !strings.HasPrefix(v, "{") {
		v = strconv.Quote(v)
	}
	if o.Negated {
		return o.Key + "=!" + v
	}
	return o.Key + "=" + v
}

// Selector is a parsed entity selector.
type Selector struct {
	source   string
	target   Target
	variable byte
	name     string
	id       uuid.UUID
	options  []Option
}

// ErrEmpty is returned when parsing an empty selector.
var ErrEmpty = errors.New("selector: empty input")

// SyntaxError describes malformed selector text.
type SyntaxError struct {
	Input  string
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("selector: %s at offset %d in %q", e.Reason, e.Offset, e.Input)
}

// String returns the text the selector was parsed from.
func (s Selector) String() string {
	return s.source
}

// IsZero reports whether s is the zero Selector.
func (s Selector) IsZero() bool {
	return s.source == ""
}

// Target reports whether s names a variable, a player or a UUID.
func (s Selector) Target() Target {
	return s.target
}

// Variable returns the variable letter (p, a, r, s, e, n) or 0.
func (s Selector) Variable() byte {
	return s.variable
}

// Name returns the player name for TargetPlayer selectors.
func (s Selector) Name() string {
	return s.name
}

// UUID returns the entity id for TargetUUID selectors.
func (s Selector) UUID() uuid.UUID {
	return s.id
}

// Options returns a copy of the bracketed options in source order.
func (s Selector) Options() []Option {
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Option returns the first option with the given key.
func (s Selector) Option(key string) (Option, bool) {
	for _, o := range s.options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// Limit returns the explicit limit option, if present.
func (s Selector) Limit() (int, bool) {
	o, ok := s.Option("limit")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(o.Value)
	if err != nil {
		return 0, false
	}
	return n, true
}

// MaxTargets returns how many entities the selector can match, 0 meaning unbounded.
func (s Selector) MaxTargets() int {
	if s.target != TargetVariable {
		return 1
	}
	switch s.variable {
	case 'p', 'r', 's', 'n':
		return 1
	}
	if n, ok := s.Limit(); ok {
		return n
	}
	return 0
}

// PlayersOnly reports whether the selector can only match players.
func (s Selector) PlayersOnly() bool {
	switch s.target {
	case TargetPlayer:
		return true
	case TargetUUID:
		return false
	}
	switch s.variable {
	case 'p', 'a', 'r':
		return true
	case 'e', 'n':
		if o, ok := s.Option("type"); ok && !o.Negated {
			return o.Value == "player" || o.Value == "minecraft:player"
		}
	}
	return false
}

// WithLimit returns a copy of a variable selector with its limit option set to n.
// Non-variable selectors are returned unchanged.
func (s Selector) WithLimit(n int) Selector {
	if s.target != TargetVariable {
		return s
	}
	out := s
	out.options = make([]Option, 0, len(s.options)+1)
	replaced := false
	for _, o := range s.options {
		if o.Key == "limit" {
			if !replaced {
				out.options = append(out.options, Option{Key: "limit", Value: strconv.Itoa(n)})
				replaced = true
			}
			continue
		}
		out.options = append(out.options, o)
	}
	if !replaced {
		out.options = append(out.options, Option{Key: "limit", Value: strconv.Itoa(n)})
	}
	out.source = out.format()
	return out
}

func (s Selector) format() string {
	var b strings.Builder
	b.WriteByte('@')
	b.WriteByte(s.variable)
	if len(s.options) > 0 {
		b.WriteByte('[')
		for i, o := range s.options {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(o.String())
		}
		b.WriteByte(']')
	}
	return b.String()
}

// Player returns a selector naming a single player. The name is not validated.
func Player(name string) Selector {
	return Selector{source: name, target: TargetPlayer, name: name}
}

// Entity returns a selector naming a single entity by id.
func Entity(id uuid.UUID) Selector {
	return Selector{source: id.String(), target: TargetUUID, id: id}
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Selector {
	sel, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return sel
}
