package gamerules

import (
	"encoding/json"
	"fmt"
)

// Kind tags the value type carried by a rule.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindLong
	KindFloat
	KindDouble
	KindString
	KindText
	KindEnum
	KindEntitySelector
)

var kindNames = [...]string{
	KindBool:           "bool",
	KindInt:            "int",
	KindLong:           "long",
	KindFloat:          "float",
	KindDouble:         "double",
	KindString:         "string",
	KindText:           "text",
	KindEnum:           "enum",
	KindEntitySelector: "entity_selector",
}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= KindBool && k <= KindEntitySelector
}

// ParseKind parses a kind name as produced by String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if name == s {
			return Kind(i), nil
		}
	}
	return 0, &ParseError{Type: "Kind", Value: s}
}

// MarshalJSON encodes the kind by name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("gamerules: cannot marshal invalid kind %d", int(k))
	}
	return json.Marshal(k.String())
}

// Category groups rules the way the host's settings screen does.
type Category int

const (
	CategoryPlayer Category = iota
	CategoryMobs
	CategorySpawning
	CategoryDrops
	CategoryUpdates
	CategoryChat
	CategoryMisc
)

var categoryNames = [...]string{
	CategoryPlayer:   "player",
	CategoryMobs:     "mobs",
	CategorySpawning: "spawning",
	CategoryDrops:    "drops",
	CategoryUpdates:  "updates",
	CategoryChat:     "chat",
	CategoryMisc:     "misc",
}

// String returns the lowercase category name.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= CategoryPlayer && c <= CategoryMisc
}

// ParseCategory parses a category name as produced by String.
func ParseCategory(s string) (Category, error) {
	for i, name := range categoryNames {
		if name == s {
			return Category(i), nil
		}
	}
	return 0, &ParseError{Type: "Category", Value: s}
}

// MarshalJSON encodes the category by name.
func (c Category) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("gamerules: cannot marshal invalid category %d", int(c))
	}
	return json.Marshal(c.String())
}
