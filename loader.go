package gamerules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Azhovan/gamerules/internal/normalize"
)

// Loader reads rule overrides from multiple sources and applies them to a
// RuleSet through the world-load path.
// Sources are processed in order (later override earlier).
type Loader struct {
	sources []Source
	strict  bool // Fail on unknown rule names (default: true)
}

// NewLoader creates a Loader with no sources and strict mode enabled.
func NewLoader() *Loader {
	return &Loader{
		sources: make([]Source, 0),
		strict:  true,
	}
}

// WithSource adds a source. Sources are processed in order (later override earlier).
func (l *Loader) WithSource(src Source) *Loader {
	l.sources = append(l.sources, src)
	return l
}

// Strict controls whether override keys naming no registered rule cause
// errors. Default: true.
func (l *Loader) Strict(strict bool) *Loader {
	l.strict = strict
	return l
}

// Overrides is one merged read of every source.
type Overrides struct {
	Values   map[string]Override // Keyed by folded rule name
	Version  int64               // Increments on each reload (0 for a plain Load)
	LoadedAt time.Time
	Source   string // "initial" or the change that triggered the reload
}

// Override is a single raw rule value and where it came from.
type Override struct {
	Key        string // Key as written in the source
	Value      string
	SourceName string // e.g., "file:rules.yaml" or "env:GAMERULE_DOFIRETICK"
}

// Load reads and merges all sources. Values that are not scalars are
// reported in a *LoadError.
func (l *Loader) Load(ctx context.Context) (*Overrides, error) {
	ov := &Overrides{
		Values:   make(map[string]Override),
		LoadedAt: time.Now(),
	}
	var ruleErrors []RuleError

	for _, source := range l.sources {
		var (
			data         map[string]any
			originalKeys map[string]string
			err          error
		)
		if withKeys, ok := source.(SourceWithKeys); ok {
			data, originalKeys, err = withKeys.LoadWithKeys(ctx)
		} else {
			data, err = source.Load(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", source.Name(), err)
		}

		for key, raw := range data {
			value, ok := stringify(raw)
			if !ok {
				ruleErrors = append(ruleErrors, RuleError{
					Rule:    key,
					Code:    ErrCodeInvalidArgument,
					Message: fmt.Sprintf("unsupported value type %T from %s", raw, source.Name()),
				})
				continue
			}

			sourceName := source.Name()
			if orig, ok := originalKeys[key]; ok && strings.HasPrefix(sourceName, "env") {
				sourceName = "env:" + orig
			}
			ov.Values[normalize.FoldName(key)] = Override{
				Key:        key,
				Value:      value,
				SourceName: sourceName,
			}
		}
	}

	if len(ruleErrors) > 0 {
		sortRuleErrors(ruleErrors)
		return nil, &LoadError{RuleErrors: ruleErrors}
	}
	logger.Debug("loaded rule overrides", "count", len(ov.Values), "sources", len(l.sources))
	return ov, nil
}

// Apply deserializes every override into rs. In strict mode an unknown rule
// name fails the whole batch before any rule is touched. Rejected values
// leave their rule unchanged and are reported together in a *LoadError
// after the accepted ones have been committed.
func (l *Loader) Apply(ov *Overrides, rs *RuleSet) error {
	if ov == nil {
		return nil
	}

	type target struct {
		name string
		cell Cell
		ov   Override
	}
	folded := make([]string, 0, len(ov.Values))
	for k := range ov.Values {
		folded = append(folded, k)
	}
	sort.Strings(folded)

	var (
		targets []target
		unknown []RuleError
	)
	for _, k := range folded {
		o := ov.Values[k]
		key, cell, ok := rs.LookupFold(o.Key)
		if !ok {
			if l.strict {
				unknown = append(unknown, RuleError{
					Rule:    o.Key,
					Code:    ErrCodeUnknownRule,
					Message: "unknown rule (strict mode)",
				})
			} else {
				logger.Debug("ignoring override for unknown rule", "key", o.Key, "source", o.SourceName)
			}
			continue
		}
		targets = append(targets, target{name: key.Name, cell: cell, ov: o})
	}
	if len(unknown) > 0 {
		return &LoadError{RuleErrors: unknown}
	}

	var rejected []RuleError
	for _, t := range targets {
		if !t.cell.load(t.ov.Value) {
			rejected = append(rejected, RuleError{
				Rule:    t.name,
				Code:    ErrCodeInvalidArgument,
				Message: fmt.Sprintf("value %q from %s was rejected", t.ov.Value, t.ov.SourceName),
			})
			continue
		}
		rs.record(t.name, t.ov.Key, t.ov.SourceName)
	}
	if len(rejected) > 0 {
		return &LoadError{RuleErrors: rejected}
	}
	return nil
}

// LoadInto loads all sources and applies the result to rs.
func (l *Loader) LoadInto(ctx context.Context, rs *RuleSet) error {
	ov, err := l.Load(ctx)
	if err != nil {
		return err
	}
	return l.Apply(ov, rs)
}

const debounceDelay = 100 * time.Millisecond

// Watch monitors sources for changes and reloads them.
// Returns: overrides channel, errors channel, initial load error.
// The first value sent is the initial load. Changes are debounced (100ms).
// Watch never touches a RuleSet; the receiver applies each Overrides with
// Apply on the thread that owns the rules.
func (l *Loader) Watch(ctx context.Context) (<-chan *Overrides, <-chan error, error) {
	initial, err := l.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("initial load failed: %w", err)
	}

	overridesCh := make(chan *Overrides)
	errorCh := make(chan error)

	go l.watchLoop(ctx, initial, overridesCh, errorCh)

	return overridesCh, errorCh, nil
}

func (l *Loader) watchLoop(ctx context.Context, initial *Overrides, overridesCh chan<- *Overrides, errorCh chan<- error) {
	defer close(overridesCh)
	defer close(errorCh)

	version := int64(1)
	initial.Version = version
	initial.Source = SourceInitial
	if !send(ctx, overridesCh, initial) {
		return
	}

	changes := l.watchSources(ctx, errorCh)
	if changes == nil {
		return
	}

	var (
		timer  *time.Timer
		fire   <-chan time.Time
		cause  string
		closed bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-changes:
			if !ok {
				closed = true
				changes = nil
				if fire == nil {
					return
				}
				continue
			}
			cause = event.Cause
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
			} else {
				timer.Reset(debounceDelay)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			ov, err := l.Load(ctx)
			if err != nil {
				if !send(ctx, errorCh, fmt.Errorf("reload failed: %w", err)) {
					return
				}
			} else {
				version++
				ov.Version = version
				ov.Source = cause
				if !send(ctx, overridesCh, ov) {
					return
				}
			}
			if closed {
				return
			}
		}
	}
}

// watchSources starts every watchable source and fans their events into one
// channel. It returns nil when no source can watch.
func (l *Loader) watchSources(ctx context.Context, errorCh chan<- error) <-chan ChangeEvent {
	var feeds []<-chan ChangeEvent
	for _, source := range l.sources {
		ch, err := source.Watch(ctx)
		if err != nil {
			if errors.Is(err, ErrWatchNotSupported) {
				continue
			}
			if !send(ctx, errorCh, fmt.Errorf("watch source %s: %w", source.Name(), err)) {
				return nil
			}
			continue
		}
		feeds = append(feeds, ch)
	}
	if len(feeds) == 0 {
		return nil
	}

	merged := make(chan ChangeEvent)
	var wg sync.WaitGroup
	for _, feed := range feeds {
		wg.Add(1)
		go func(feed <-chan ChangeEvent) {
			defer wg.Done()
			for event := range feed {
				if !send(ctx, merged, event) {
					return
				}
			}
		}(feed)
	}
	go func() {
		wg.Wait()
		close(merged)
	}()
	return merged
}

func send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}

// stringify renders a decoded scalar in the form the rule codecs parse.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}

func sortRuleErrors(errs []RuleError) {
	sort.Slice(errs, func(i, j int) bool { return errs[i].Rule < errs[j].Rule })
}
