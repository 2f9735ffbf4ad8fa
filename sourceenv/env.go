package sourceenv

import (
	"context"
	"os"
	"strings"

	"github.com/Azhovan/gamerules"
	"github.com/Azhovan/gamerules/internal/normalize"
)

// DefaultPrefix is used when Options.Prefix is empty.
const DefaultPrefix = "GAMERULE_"

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty selects DefaultPrefix.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (GAMERULE_ matches gamerule_, Gamerule_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping; the
	// loader resolves them to rule names case-insensitively.
	CaseSensitive bool
}

type envSource struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) gamerules.Source {
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	return &envSource{opts: opts}
}

// Load scans environment variables, filters by prefix, and normalizes keys.
func (e *envSource) Load(ctx context.Context) (map[string]any, error) {
	result, _, err := e.LoadWithKeys(ctx)
	return result, err
}

// LoadWithKeys is Load that also reports the variable each key came from.
func (e *envSource) LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error) {
	result := make(map[string]any)
	originalKeys := make(map[string]string)

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		var hasPrefix bool
		if e.opts.CaseSensitive {
			hasPrefix = strings.HasPrefix(name, e.opts.Prefix)
		} else {
			hasPrefix = strings.HasPrefix(strings.ToUpper(name), strings.ToUpper(e.opts.Prefix))
		}
		if !hasPrefix {
			continue
		}

		key := name[len(e.opts.Prefix):]
		if key == "" {
			continue
		}

		// Normalize: TEST__TEST1 → test.test1
		normalizedKey := normalize.ToLowerDotPath(key)
		result[normalizedKey] = value
		originalKeys[normalizedKey] = name
	}

	return result, originalKeys, nil
}

// Watch returns ErrWatchNotSupported (env vars don't change at runtime).
func (e *envSource) Watch(ctx context.Context) (<-chan gamerules.ChangeEvent, error) {
	return nil, gamerules.ErrWatchNotSupported
}

// Name returns "env"; the loader records each override as "env:<VAR>".
func (e *envSource) Name() string {
	return "env"
}
