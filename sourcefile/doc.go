// Package sourcefile loads rule overrides from YAML, JSON, or TOML files.
//
// Format is auto-detected from extension (.yaml, .json, .toml). Nested tables
// flatten to dotted rule names, so "test: {test1: 4}" overrides "test.test1".
// Watch reports changes through fsnotify.
//
// Example:
//
//	source := sourcefile.New("rules.yaml", sourcefile.Options{Root: "gamerules"})
//	loader := gamerules.NewLoader().WithSource(source)
package sourcefile
