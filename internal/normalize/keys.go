// Package normalize folds rule names and override keys into comparable forms.
package normalize

import (
	"strings"
	"unicode"
)

// ToLowerDotPath normalizes an environment variable suffix to a rule key.
// Double underscores (__) become dots; single underscores are kept.
// Examples:
//   - "DOFIRETICK" → "dofiretick"
//   - "TEST__TEST1" → "test.test1"
//   - "SPAWN_RADIUS" → "spawn_radius"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// FoldName returns the case-insensitive form of a rule name, with
// surrounding whitespace removed. Two names that fold equal are the same
// rule as far as override keys are concerned.
//   - "doFireTick" → "dofiretick"
//   - " Test.Test1 " → "test.test1"
func FoldName(name string) string {
	return strings.Map(unicode.ToLower, strings.TrimSpace(name))
}

// ApplyPrefix joins a parent key and a child key with a dot.
// If prefix is empty, returns the key unchanged.
// Examples:
//   - ApplyPrefix("test", "test1") → "test.test1"
//   - ApplyPrefix("", "doFireTick") → "doFireTick"
func ApplyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}
