package sourcefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/Azhovan/gamerules"
	"github.com/Azhovan/gamerules/internal/normalize"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty map).
	Required bool

	// Root selects a nested table holding the rules (e.g., "gamerules" in a
	// larger server config). Dotted for deeper tables. Empty means the whole file.
	Root string
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based rule override source.
func New(path string, opts Options) gamerules.Source {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file, returning overrides keyed by rule name.
func (f *fileSource) Load(ctx context.Context) (map[string]any, error) {
	result, _, err := f.LoadWithKeys(ctx)
	return result, err
}

// LoadWithKeys reads and parses the file, returning overrides with the keys
// as written in the file.
func (f *fileSource) LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, nil, fmt.Errorf("required rules file not found: %s: %w", f.path, err)
			}
			return make(map[string]any), make(map[string]string), nil
		}
		return nil, nil, fmt.Errorf("read rules file %s: %w", f.path, err)
	}

	format := f.opts.Format
	if format == "" {
		format = inferFormat(f.path)
	}

	var raw map[string]any
	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse YAML file %s: %w", f.path, err)
		}
	case "json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse JSON file %s: %w", f.path, err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("parse TOML file %s: %w", f.path, err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported file format: %s (supported: yaml, json, toml)", format)
	}

	flattened := make(map[string]any)
	originalKeys := make(map[string]string)
	flattenMapWithKeys("", raw, flattened, originalKeys)

	if f.opts.Root == "" {
		return flattened, originalKeys, nil
	}
	result, keys := selectRoot(f.opts.Root, flattened, originalKeys)
	return result, keys, nil
}

// selectRoot keeps the keys under root and strips the root prefix.
func selectRoot(root string, flattened map[string]any, originalKeys map[string]string) (map[string]any, map[string]string) {
	prefix := root + "."
	result := make(map[string]any)
	keys := make(map[string]string)
	for key, value := range flattened {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		name := strings.TrimPrefix(key, prefix)
		result[name] = value
		keys[name] = originalKeys[key]
	}
	return result, keys
}

// flattenMapWithKeys flattens nested tables to dot-separated rule names.
// Sequences are kept as values and rejected later as non-scalars.
func flattenMapWithKeys(prefix string, value any, result map[string]any, originalKeys map[string]string) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			flattenMapWithKeys(normalize.ApplyPrefix(prefix, key), val, result, originalKeys)
		}
	case map[any]any:
		for key, val := range v {
			keyStr, ok := key.(string)
			if !ok {
				continue
			}
			flattenMapWithKeys(normalize.ApplyPrefix(prefix, keyStr), val, result, originalKeys)
		}
	default:
		if prefix != "" {
			result[prefix] = value
			originalKeys[prefix] = prefix
		}
	}
}

// Watch emits a ChangeEvent whenever the file is written, created, renamed
// or removed. The parent directory is watched so editors that replace the
// file are still seen. The channel closes when ctx is done.
func (f *fileSource) Watch(ctx context.Context) (<-chan gamerules.ChangeEvent, error) {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		return nil, fmt.Errorf("resolve rules file %s: %w", f.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close() //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ch := make(chan gamerules.ChangeEvent)
	go func() {
		defer close(ch)
		defer fsw.Close() //nolint:errcheck // best-effort cleanup

		const relevant = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove
		for {
			select {
			case <-ctx.Done():
				return

			case evt, ok := <-fsw.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != abs || evt.Op&relevant == 0 {
					continue
				}
				event := gamerules.ChangeEvent{
					At:    time.Now(),
					Cause: f.Name() + " " + strings.ToLower(evt.Op.String()),
				}
				select {
				case ch <- event:
				case <-ctx.Done():
					return
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				gamerules.Logger().Warn("rules file watch error", "path", f.path, "err", err)
			}
		}
	}()

	return ch, nil
}

// Name returns a human-readable identifier for this source.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func inferFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return "yaml"
	case ".json":
		return "json"
	case ".toml":
		return "toml"
	default:
		return ""
	}
}
