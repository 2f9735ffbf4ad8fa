// Package gamerules provides typed, named world rules with a validator/adapter
// acceptance pipeline, override loading and world snapshots.
//
// Quick Start:
//
//	reg := gamerules.NewRegistry()
//	radius := gamerules.MustRegister(reg, "spawnRadius", gamerules.CategorySpawning,
//	    gamerules.Must(gamerules.NewIntType(10)))
//
//	rs := reg.NewRuleSet()
//	err := gamerules.NewLoader().
//	    WithSource(sourcefile.New("gamerules.yaml", sourcefile.Options{})).
//	    WithSource(sourceenv.New(sourceenv.Options{Prefix: "GAMERULE_"})).
//	    LoadInto(context.Background(), rs)
//
//	err = rs.Execute("spawnRadius", "5")
//	rule, _ := gamerules.GetRule[int32](rs, radius)
//
// A candidate value is accepted when the validator passes. Otherwise the
// adapter proposes one replacement, which is accepted only if it passes the
// validator in turn. Rejected values leave the rule unchanged.
//
// Entry points differ in how they report and notify:
//
//   - Set and SetValue fire the change callback on commit.
//   - SetFromArgument returns an *ArgumentError on rejection.
//   - Deserialize truncates over-length text and logs parse failures.
//   - Validate commits silently and is meant for live input feedback.
//
// Rules are not safe for concurrent use. Loader.Watch reads sources on its
// own goroutine but never mutates rules; apply each Overrides on the thread
// that owns the RuleSet.
//
// Rules can also be declared in data with Define; see Definition for the
// constraint directives.
package gamerules
