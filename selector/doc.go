// Package selector parses entity selectors used by entity-selector rules.
//
// Accepted forms:
//
//	@p @a @r @s @e @n          target variables
//	@a[tag=builder,limit=3]    variables with options
//	Steve                      player name (1-16 of A-Z a-z 0-9 _)
//	f81d4fae-7dec-11d0-a765-00a0c91e6bf6  entity UUID
//
// A parsed Selector keeps the exact text it was parsed from; String returns it.
package selector
