// Package sourceenv loads rule overrides from environment variables.
//
// Key normalization: GAMERULE_DOFIRETICK → dofiretick,
// GAMERULE_TEST__TEST1 → test.test1. The loader matches keys to rule names
// case-insensitively.
//
// Example:
//
//	source := sourceenv.New(sourceenv.Options{Prefix: "GAMERULE_"})
//	loader := gamerules.NewLoader().WithSource(source)
package sourceenv
