package gamerules

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Azhovan/gamerules/internal/normalize"
)

// Cell is the kind-erased view of a *Rule[T]. Registries, loaders, snapshots
// and visitors work on cells; typed access goes through GetRule.
type Cell interface {
	Kind() Kind
	Validate(input string) bool
	SetFromArgument(input string) error
	Deserialize(input string)
	Serialize() string
	CommandResult() int
	MaxLength() int
	Names() []string

	load(input string) bool
	copyCell() Cell
	assign(src Cell, server Server) (bool, error)
}

func (r *Rule[T]) copyCell() Cell {
	return r.Copy()
}

// assign runs src's value through r's copy path.
func (r *Rule[T]) assign(src Cell, server Server) (bool, error) {
	other, ok := src.(*Rule[T])
	if !ok {
		return false, fmt.Errorf("%w: cannot copy %s rule into %s rule", ErrKindMismatch, src.Kind(), r.Kind())
	}
	return r.setValue(other, server), nil
}

// descriptor is the kind-erased view of a *Type[T].
type descriptor interface {
	Kind() Kind
	newCell() Cell
}

// Key identifies a registered rule.
type Key struct {
	Name     string
	Category Category
}

func (k Key) String() string {
	return k.Name
}

type registration struct {
	key Key
	typ descriptor
}

// Registry maps rule names to their categories and type descriptors.
// Registration happens once at startup; a populated registry is read-only
// and may be shared by every world.
type Registry struct {
	entries map[string]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registration)}
}

// Register adds a rule type under name. Names must be non-empty and unique.
func Register[T any](reg *Registry, name string, category Category, typ *Type[T]) (Key, error) {
	if strings.TrimSpace(name) == "" {
		return Key{}, fmt.Errorf("%w: empty rule name", ErrConstruction)
	}
	if typ == nil {
		return Key{}, fmt.Errorf("%w: rule %s has no type", ErrConstruction, name)
	}
	if !category.Valid() {
		return Key{}, fmt.Errorf("%w: rule %s has invalid category %d", ErrConstruction, name, int(category))
	}
	if _, dup := reg.entries[name]; dup {
		return Key{}, fmt.Errorf("%w: %s", ErrDuplicateRule, name)
	}
	key := Key{Name: name, Category: category}
	reg.entries[name] = registration{key: key, typ: typ}
	return key, nil
}

// MustRegister is Register that panics on error.
func MustRegister[T any](reg *Registry, name string, category Category, typ *Type[T]) Key {
	key, err := Register(reg, name, category, typ)
	if err != nil {
		panic(err)
	}
	return key
}

// Keys returns every registered key sorted by name.
func (r *Registry) Keys() []Key {
	keys := make([]Key, 0, len(r.entries))
	for _, e := range r.entries {
		keys = append(keys, e.key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}

// Len returns the number of registered rules.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Key returns the key registered under name.
func (r *Registry) Key(name string) (Key, bool) {
	e, ok := r.entries[name]
	return e.key, ok
}

// NewRuleSet instantiates every registered rule with its initial value.
func (r *Registry) NewRuleSet() *RuleSet {
	rs := &RuleSet{
		reg:        r,
		cells:      make(map[string]Cell, len(r.entries)),
		provenance: make(map[string]RuleProvenance),
	}
	for name, e := range r.entries {
		rs.cells[name] = e.typ.newCell()
	}
	return rs
}

// RuleSet holds one world's rule cells.
// Like the cells themselves it is not safe for concurrent use.
type RuleSet struct {
	reg        *Registry
	cells      map[string]Cell
	provenance map[string]RuleProvenance
}

// Registry returns the registry the set was created from.
func (rs *RuleSet) Registry() *Registry {
	return rs.reg
}

// Keys returns the keys of every rule in the set, sorted by name. Rules
// registered after the set was created are not part of it.
func (rs *RuleSet) Keys() []Key {
	keys := make([]Key, 0, len(rs.cells))
	for name := range rs.cells {
		keys = append(keys, rs.reg.entries[name].key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Name < keys[j].Name })
	return keys
}

// Lookup returns the cell registered under the exact name.
func (rs *RuleSet) Lookup(name string) (Cell, bool) {
	c, ok := rs.cells[name]
	return c, ok
}

// LookupFold resolves name case-insensitively. An exact match wins; otherwise
// the fold must identify a single rule.
func (rs *RuleSet) LookupFold(name string) (Key, Cell, bool) {
	if c, ok := rs.cells[name]; ok {
		return rs.reg.entries[name].key, c, true
	}
	want := normalize.FoldName(name)
	var (
		found Key
		hits  int
	)
	for n := range rs.cells {
		if normalize.FoldName(n) == want {
			found = rs.reg.entries[n].key
			hits++
		}
	}
	if hits != 1 {
		return Key{}, nil, false
	}
	return found, rs.cells[found.Name], true
}

// GetRule returns the typed rule for key.
func GetRule[T any](rs *RuleSet, key Key) (*Rule[T], error) {
	c, ok := rs.cells[key.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRule, key.Name)
	}
	r, ok := c.(*Rule[T])
	if !ok {
		return nil, fmt.Errorf("%w: rule %s is a %s rule", ErrKindMismatch, key.Name, c.Kind())
	}
	return r, nil
}

// Execute applies a command argument to the named rule. Errors are either
// ErrUnknownRule or an *ArgumentError carrying the rule name.
func (rs *RuleSet) Execute(name, input string) error {
	c, ok := rs.cells[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRule, name)
	}
	if err := c.SetFromArgument(input); err != nil {
		var argErr *ArgumentError
		if errors.As(err, &argErr) {
			argErr.Rule = name
		}
		return err
	}
	rs.record(name, name, SourceCommand)
	return nil
}

// Copy returns an independent set for a new world. Validators, adapters and
// types are shared with rs.
func (rs *RuleSet) Copy() *RuleSet {
	out := &RuleSet{
		reg:        rs.reg,
		cells:      make(map[string]Cell, len(rs.cells)),
		provenance: make(map[string]RuleProvenance, len(rs.provenance)),
	}
	for name, c := range rs.cells {
		out.cells[name] = c.copyCell()
	}
	for name, p := range rs.provenance {
		out.provenance[name] = p
	}
	return out
}

// SyncFrom copies every rule of other into rs through the copy path, firing
// change callbacks for the values that commit. Rules missing from either set
// are skipped.
func (rs *RuleSet) SyncFrom(other *RuleSet, server Server) error {
	var errs []error
	for _, key := range rs.Keys() {
		src, ok := other.cells[key.Name]
		if !ok {
			continue
		}
		committed, err := rs.cells[key.Name].assign(src, server)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %s: %w", key.Name, err))
			continue
		}
		if committed {
			if p, ok := other.provenance[key.Name]; ok {
				rs.provenance[key.Name] = p
			}
		}
	}
	return errors.Join(errs...)
}
