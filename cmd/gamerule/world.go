package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/Azhovan/gamerules"
	"github.com/Azhovan/gamerules/sourceenv"
	"github.com/Azhovan/gamerules/sourcefile"
)

// world is a loaded rule set and the snapshot file it persists to.
type world struct {
	rules *gamerules.RuleSet
	path  string
}

// registry returns the built-in rules plus the definitions from the config
// file.
func (a *app) registry() (*gamerules.Registry, error) {
	reg := builtinRules()

	var defs []gamerules.Definition
	if err := a.v.UnmarshalKey("definitions", &defs); err != nil {
		return nil, fmt.Errorf("decode rule definitions: %w", err)
	}
	if err := gamerules.DefineAll(reg, defs); err != nil {
		return nil, err
	}
	return reg, nil
}

// loader reads the rules file, if any, then GAMERULE_* variables.
func (a *app) loader() *gamerules.Loader {
	l := gamerules.NewLoader()
	if path := a.v.GetString("rules"); path != "" {
		l.WithSource(sourcefile.New(path, sourcefile.Options{
			Required: true,
			Root:     a.v.GetString("rules_root"),
		}))
	}
	l.WithSource(sourceenv.New(sourceenv.Options{}))
	return l.Strict(!a.v.GetBool("lenient"))
}

// loadWorld restores the world snapshot, when present, and applies
// overrides on top.
func (a *app) loadWorld(ctx context.Context) (*world, error) {
	reg, err := a.registry()
	if err != nil {
		return nil, err
	}
	w := &world{rules: reg.NewRuleSet(), path: a.v.GetString("world")}

	snap, err := gamerules.ReadSnapshot(w.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		a.logger.Debug("no world snapshot, using initial values", "path", w.path)
	case err != nil:
		return nil, err
	default:
		if err := gamerules.RestoreSnapshot(snap, w.rules); err != nil {
			var loadErr *gamerules.LoadError
			if !errors.As(err, &loadErr) {
				return nil, err
			}
			a.logger.Warn("some saved rules were rejected", "err", err)
		}
	}

	if err := a.loader().LoadInto(ctx, w.rules); err != nil {
		return nil, err
	}
	return w, nil
}

// save writes the world snapshot.
func (w *world) save() error {
	snap, err := gamerules.CreateSnapshot(w.rules)
	if err != nil {
		return err
	}
	_, err = gamerules.WriteSnapshot(snap, w.path)
	return err
}

// lookup resolves a rule name case-insensitively.
func (w *world) lookup(name string) (gamerules.Key, gamerules.Cell, error) {
	key, cell, ok := w.rules.LookupFold(name)
	if !ok {
		return gamerules.Key{}, nil, fmt.Errorf("%w: %s", gamerules.ErrUnknownRule, name)
	}
	return key, cell, nil
}
