package sourceenv

import (
	"context"
	"errors"
	"testing"

	"github.com/Azhovan/gamerules"
)

func TestEnvSource_Load(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		envVars  map[string]string
		expected map[string]any
		absent   []string
	}{
		{
			name: "default prefix",
			opts: Options{},
			envVars: map[string]string{
				"GAMERULE_DOFIRETICK":    "false",
				"GAMERULE_KEEPINVENTORY": "true",
			},
			expected: map[string]any{
				"dofiretick":    "false",
				"keepinventory": "true",
			},
		},
		{
			name: "double underscore as level separator",
			opts: Options{},
			envVars: map[string]string{
				"GAMERULE_TEST__TEST1": "4",
				"GAMERULE_TEST__TEST2": "7",
			},
			expected: map[string]any{
				"test.test1": "4",
				"test.test2": "7",
			},
		},
		{
			name: "single underscore preserved",
			opts: Options{},
			envVars: map[string]string{
				"GAMERULE_SPAWN_RADIUS":      "10",
				"GAMERULE_MOD__MAX_ENTITIES": "24",
			},
			expected: map[string]any{
				"spawn_radius":     "10",
				"mod.max_entities": "24",
			},
		},
		{
			name: "custom prefix filtering",
			opts: Options{Prefix: "WORLD_"},
			envVars: map[string]string{
				"WORLD_MOBGRIEFING":   "false",
				"OTHER_MOBGRIEFING":   "true",
				"WORLD_TEST__TEST1":   "8",
				"GAMERULE_DOFIRETICK": "false",
			},
			expected: map[string]any{
				"mobgriefing": "false",
				"test.test1":  "8",
			},
			absent: []string{"dofiretick"},
		},
		{
			name: "prefix case insensitive matching",
			opts: Options{Prefix: "gamerule_"},
			envVars: map[string]string{
				"GAMERULE_DOFIRETICK":  "false",
				"gamerule_DAYLENGTH":   "24000",
				"Gamerule_SPAWNRADIUS": "10",
			},
			expected: map[string]any{
				"dofiretick":  "false",
				"daylength":   "24000",
				"spawnradius": "10",
			},
		},
		{
			name: "case sensitive prefix",
			opts: Options{Prefix: "GAMERULE_", CaseSensitive: true},
			envVars: map[string]string{
				"GAMERULE_DOFIRETICK": "false",
				"gamerule_DAYLENGTH":  "24000",
			},
			expected: map[string]any{
				"dofiretick": "false",
			},
			absent: []string{"daylength"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			source := New(tt.opts)
			ctx := context.Background()

			result, err := source.Load(ctx)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}

			for key, expectedValue := range tt.expected {
				actualValue, ok := result[key]
				if !ok {
					t.Errorf("expected key %q not found in result", key)
					continue
				}
				if actualValue != expectedValue {
					t.Errorf("key %q: got %v, want %v", key, actualValue, expectedValue)
				}
			}
			for _, key := range tt.absent {
				if _, ok := result[key]; ok {
					t.Errorf("key %q should have been filtered out", key)
				}
			}
		})
	}
}

func TestEnvSource_LoadWithKeys(t *testing.T) {
	t.Setenv("GAMERULE_TEST__TEST1", "6")

	source, ok := New(Options{}).(gamerules.SourceWithKeys)
	if !ok {
		t.Fatal("env source should report original keys")
	}

	_, keys, err := source.LoadWithKeys(context.Background())
	if err != nil {
		t.Fatalf("LoadWithKeys() error = %v", err)
	}
	if got := keys["test.test1"]; got != "GAMERULE_TEST__TEST1" {
		t.Errorf("original key = %q, want %q", got, "GAMERULE_TEST__TEST1")
	}
}

func TestEnvSource_Watch(t *testing.T) {
	source := New(Options{})
	ctx := context.Background()

	ch, err := source.Watch(ctx)
	if !errors.Is(err, gamerules.ErrWatchNotSupported) {
		t.Errorf("Watch() error = %v, want %v", err, gamerules.ErrWatchNotSupported)
	}
	if ch != nil {
		t.Errorf("Watch() channel = %v, want nil", ch)
	}
}

func TestEnvSource_EmptyValues(t *testing.T) {
	t.Setenv("GAMERULE_MOTD", "")

	source := New(Options{})
	ctx := context.Background()

	result, err := source.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Empty values should still be included
	if val, ok := result["motd"]; !ok {
		t.Error("expected motd to be present")
	} else if val != "" {
		t.Errorf("motd = %v, want empty string", val)
	}
}

func TestEnvSource_PrefixOnly(t *testing.T) {
	t.Setenv("GAMERULE_", "ignored")

	result, err := New(Options{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, ok := result[""]; ok {
		t.Error("a variable named exactly like the prefix should be skipped")
	}
}

func TestEnvSource_Name(t *testing.T) {
	if got := New(Options{}).Name(); got != "env" {
		t.Errorf("Name() = %q, want %q", got, "env")
	}
}
