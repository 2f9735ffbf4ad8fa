package gamerules

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxSnapshotSize is the maximum allowed snapshot size (100MB).
const MaxSnapshotSize = 100 * 1024 * 1024

// SnapshotVersion is the current snapshot format version.
const SnapshotVersion = "1.0"

// Snapshot errors.
var (
	// ErrSnapshotTooLarge is returned when a snapshot exceeds MaxSnapshotSize.
	ErrSnapshotTooLarge = errors.New("gamerules: snapshot exceeds 100MB size limit")

	// ErrNilRuleSet is returned when a nil rule set or snapshot is passed.
	ErrNilRuleSet = errors.New("gamerules: rule set is nil")

	// ErrUnsupportedVersion is returned when reading a snapshot with unknown version.
	ErrUnsupportedVersion = errors.New("gamerules: unsupported snapshot version")
)

// supportedVersions lists snapshot format versions that can be read.
var supportedVersions = map[string]bool{
	"1.0": true,
}

// WorldSnapshot is a point-in-time capture of a world's rules, in the form
// written to the world save.
type WorldSnapshot struct {
	// Version is the snapshot format version (currently "1.0")
	Version string `json:"version"`

	// Timestamp is when the snapshot was created
	Timestamp time.Time `json:"timestamp"`

	// Rules maps rule names to their serialized values.
	Rules map[string]string `json:"rules"`

	// Provenance tracks the source of each committed rule.
	Provenance []RuleProvenance `json:"provenance,omitempty"`
}

// SnapshotOption configures snapshot creation behavior.
type SnapshotOption func(*snapshotConfig)

type snapshotConfig struct {
	excludeRules []string
}

// WithExcludeRules leaves the named rules out of the snapshot. Matching is
// case-insensitive.
func WithExcludeRules(names ...string) SnapshotOption {
	return func(cfg *snapshotConfig) {
		cfg.excludeRules = append(cfg.excludeRules, names...)
	}
}

// CreateSnapshot captures the serialized value of every rule in rs.
func CreateSnapshot(rs *RuleSet, opts ...SnapshotOption) (*WorldSnapshot, error) {
	if rs == nil {
		return nil, ErrNilRuleSet
	}

	snapCfg := &snapshotConfig{}
	for _, opt := range opts {
		opt(snapCfg)
	}
	exclude := make(map[string]bool, len(snapCfg.excludeRules))
	for _, name := range snapCfg.excludeRules {
		exclude[strings.ToLower(name)] = true
	}

	rules := make(map[string]string, len(rs.cells))
	for name, cell := range rs.cells {
		if exclude[strings.ToLower(name)] {
			continue
		}
		rules[name] = cell.Serialize()
	}

	var prov []RuleProvenance
	for _, p := range rs.Provenance().Rules {
		if _, ok := rules[p.Rule]; ok {
			prov = append(prov, p)
		}
	}

	return &WorldSnapshot{
		Version:    SnapshotVersion,
		Timestamp:  time.Now().UTC(),
		Rules:      rules,
		Provenance: prov,
	}, nil
}

// RestoreSnapshot loads every rule in snap into rs through the world-load
// path, together with the saved provenance. Names unknown to rs are skipped
// with a warning, since worlds can outlive the mods that registered their
// rules. Rejected values keep the rule's current value and are reported in a
// *LoadError.
func RestoreSnapshot(snap *WorldSnapshot, rs *RuleSet) error {
	if snap == nil || rs == nil {
		return ErrNilRuleSet
	}

	names := make([]string, 0, len(snap.Rules))
	for name := range snap.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	saved := make(map[string]RuleProvenance, len(snap.Provenance))
	for _, p := range snap.Provenance {
		saved[p.Rule] = p
	}

	var rejected []RuleError
	for _, name := range names {
		value := snap.Rules[name]
		key, cell, ok := rs.LookupFold(name)
		if !ok {
			logger.Warn("skipping unknown rule in snapshot", "rule", name)
			continue
		}
		if !cell.load(value) {
			rejected = append(rejected, RuleError{
				Rule:    key.Name,
				Code:    ErrCodeInvalidArgument,
				Message: fmt.Sprintf("saved value %q was rejected", value),
			})
			continue
		}
		if p, ok := saved[name]; ok {
			rs.record(key.Name, p.KeyPath, p.SourceName)
		} else {
			rs.record(key.Name, name, SourceSnapshot)
		}
	}
	if len(rejected) > 0 {
		return &LoadError{RuleErrors: rejected}
	}
	return nil
}

// ExpandPath expands template variables using current time.
// For consistency with snapshot metadata, prefer WriteSnapshot which
// uses the snapshot's internal timestamp for expansion.
func ExpandPath(template string) string {
	return ExpandPathWithTime(template, time.Now())
}

// ExpandPathWithTime replaces all {{timestamp}} occurrences with t formatted
// as 20060102-150405 (UTC).
func ExpandPathWithTime(template string, t time.Time) string {
	timestamp := t.UTC().Format("20060102-150405")
	return strings.ReplaceAll(template, "{{timestamp}}", timestamp)
}

// WriteSnapshot persists a snapshot to disk with atomic write semantics and
// returns the path written.
// {{timestamp}} in pathTemplate expands to snapshot.Timestamp, so the file
// name matches the metadata inside it.
func WriteSnapshot(snapshot *WorldSnapshot, pathTemplate string) (string, error) {
	if snapshot == nil {
		return "", ErrNilRuleSet
	}

	targetPath := ExpandPathWithTime(pathTemplate, snapshot.Timestamp)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", err
	}
	if len(data) > MaxSnapshotSize {
		return "", ErrSnapshotTooLarge
	}

	dir := filepath.Dir(targetPath)
	if dir != "" && dir != "." {
		if mkdirErr := os.MkdirAll(dir, 0700); mkdirErr != nil {
			return "", mkdirErr
		}
	}

	// Same directory as the target so the rename stays on one filesystem.
	tempPath := targetPath + ".tmp." + uuid.NewString()

	var tempFileCreated bool
	defer func() {
		if tempFileCreated {
			_ = os.Remove(tempPath)
		}
	}()

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return "", err
	}
	tempFileCreated = true

	if err := os.Rename(tempPath, targetPath); err != nil {
		return "", err
	}
	tempFileCreated = false

	return targetPath, nil
}

// ReadSnapshot reads a snapshot written by WriteSnapshot.
func ReadSnapshot(path string) (*WorldSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxSnapshotSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxSnapshotSize {
		return nil, ErrSnapshotTooLarge
	}

	var snap WorldSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	if !supportedVersions[snap.Version] {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, snap.Version)
	}
	if snap.Rules == nil {
		snap.Rules = make(map[string]string)
	}
	return &snap, nil
}
