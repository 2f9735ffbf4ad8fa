package gamerules

import (
	"fmt"
	"strings"
)

// directives holds the parsed constraint string of a Definition.
type directives struct {
	min      string   // Lower bound (min:N)
	max      string   // Upper bound (max:N)
	length   string   // Max length of string and text rules (len:N)
	oneof    []string // Accepted strings or enum constants (oneof:a,b,c)
	parity   string   // "even" or "odd" (parity:even)
	rounding string   // Parity rounding (round:ceiling)
	players  bool     // Selector must only match players (players or players:true)

	hasMin bool
	hasMax bool
}

// directiveNames lists every directive a constraint string may use.
var directiveNames = []string{"min", "max", "len", "oneof", "parity", "round", "players"}

// parseDirectives parses a constraint string such as
// "min:0,max:64,parity:even,round:ceiling".
// Boolean directives can omit `:true` (e.g., "players" == "players:true").
func parseDirectives(s string) (directives, error) {
	var d directives
	if strings.TrimSpace(s) == "" {
		return d, nil
	}

	for _, directive := range splitDirectives(s) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		name, value, _ := strings.Cut(directive, ":")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)

		switch name {
		case "min":
			d.min, d.hasMin = value, true
		case "max":
			d.max, d.hasMax = value, true
		case "len":
			d.length = value
		case "oneof":
			if value == "" {
				return d, fmt.Errorf("oneof needs at least one value")
			}
			d.oneof = strings.Split(value, ",")
			for i := range d.oneof {
				d.oneof[i] = strings.TrimSpace(d.oneof[i])
			}
		case "parity":
			if value != "even" && value != "odd" {
				return d, fmt.Errorf("parity must be even or odd, got %q", value)
			}
			d.parity = value
		case "round":
			d.rounding = value
		case "players":
			switch value {
			case "", "true":
				d.players = true
			case "false":
				d.players = false
			default:
				return d, fmt.Errorf("players must be true or false, got %q", value)
			}
		default:
			return d, fmt.Errorf("unknown directive %q", name)
		}
	}

	return d, nil
}

// used returns the names of the directives that were set, in declaration order.
func (d directives) used() []string {
	var names []string
	if d.hasMin {
		names = append(names, "min")
	}
	if d.hasMax {
		names = append(names, "max")
	}
	if d.length != "" {
		names = append(names, "len")
	}
	if len(d.oneof) > 0 {
		names = append(names, "oneof")
	}
	if d.parity != "" {
		names = append(names, "parity")
	}
	if d.rounding != "" {
		names = append(names, "round")
	}
	if d.players {
		names = append(names, "players")
	}
	return names
}

// splitDirectives splits a constraint string into individual directives.
// Commas inside a oneof list belong to the list until the next directive
// name appears.
func splitDirectives(s string) []string {
	var (
		out     []string
		current strings.Builder
		inOneof bool
	)

	for i := 0; i < len(s); i++ {
		if !inOneof && strings.HasPrefix(s[i:], "oneof:") {
			inOneof = true
			current.WriteString("oneof:")
			i += len("oneof:") - 1
			continue
		}

		ch := s[i]
		if ch != ',' {
			current.WriteByte(ch)
			continue
		}
		if inOneof && !startsWithDirective(s[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		inOneof = false
		out = append(out, current.String())
		current.Reset()
	}

	if current.Len() > 0 {
		out = append(out, current.String())
	}
	return out
}

// startsWithDirective reports whether s begins with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	for _, name := range directiveNames {
		if !strings.HasPrefix(s, name) {
			continue
		}
		rest := s[len(name):]
		if rest == "" || rest[0] == ':' || rest[0] == ',' {
			return true
		}
	}
	return false
}
