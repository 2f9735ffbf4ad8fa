package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azhovan/gamerules"
)

// run executes the root command with args and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestGet_InitialValue(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "get", "spawnRadius")
	require.NoError(t, err)
	assert.Contains(t, out, "Gamerule spawnRadius is currently set to: 10")
	assert.NoFileExists(t, world)
}

func TestGet_CaseInsensitiveName(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "get", "DOFIRETICK")
	require.NoError(t, err)
	assert.Contains(t, out, "Gamerule doFireTick is currently set to: true")
}

func TestGet_UnknownRule(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	_, _, err := run(t, "--world", world, "get", "noSuchRule")
	require.Error(t, err)
	assert.ErrorIs(t, err, gamerules.ErrUnknownRule)
}

func TestSet_PersistsAdaptedValue(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "set", "spawnRadius", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "Gamerule spawnRadius is now set to: 32")
	assert.FileExists(t, world)

	out, _, err = run(t, "--world", world, "get", "spawnRadius")
	require.NoError(t, err)
	assert.Contains(t, out, "Gamerule spawnRadius is currently set to: 32")

	snap, err := gamerules.ReadSnapshot(world)
	require.NoError(t, err)
	assert.Equal(t, "32", snap.Rules["spawnRadius"])

	rs := builtinRules().NewRuleSet()
	require.NoError(t, gamerules.RestoreSnapshot(snap, rs))
	prov, ok := rs.ProvenanceOf("spawnRadius")
	require.True(t, ok)
	assert.Equal(t, gamerules.SourceCommand, prov.SourceName)
}

func TestSet_InvalidValue(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	_, _, err := run(t, "--world", world, "set", "doFireTick", "maybe")
	require.Error(t, err)
	assert.ErrorIs(t, err, gamerules.ErrInvalidArgument)
	assert.NoFileExists(t, world)
}

func TestSet_KeepsOtherRules(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	_, _, err := run(t, "--world", world, "set", "difficulty", "hard")
	require.NoError(t, err)
	_, _, err = run(t, "--world", world, "set", "test.test2", "4")
	require.NoError(t, err)

	out, _, err := run(t, "--world", world, "get", "difficulty")
	require.NoError(t, err)
	assert.Contains(t, out, "currently set to: hard")

	out, _, err = run(t, "--world", world, "get", "test.test2")
	require.NoError(t, err)
	assert.Contains(t, out, "currently set to: 5")
}

func TestCheck_DoesNotPersist(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "check", "test.test1", "63")
	require.NoError(t, err)
	assert.Contains(t, out, `test.test1 accepts "63" as 62`)
	assert.NoFileExists(t, world)

	out, _, err = run(t, "--world", world, "get", "test.test1")
	require.NoError(t, err)
	assert.Contains(t, out, "currently set to: 0")
}

func TestCheck_Rejected(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "check", "doFireTick", "maybe")
	require.NoError(t, err)
	assert.Contains(t, out, `doFireTick rejects "maybe"`)
}

func TestValues(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "values", "difficulty")
	require.NoError(t, err)
	assert.Contains(t, out, "  peaceful\n")
	assert.Contains(t, out, "* normal")
	assert.Contains(t, out, "  hard\n")

	_, _, err = run(t, "--world", world, "values", "spawnRadius")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no fixed values")
}

func TestList(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "PLAYER")
	assert.Contains(t, out, "keepInventory")
	assert.Contains(t, out, "[toggle]")
	assert.Contains(t, out, "[text box, 1024]")
	assert.Contains(t, out, "[peaceful|easy|normal|hard]")

	out, _, err = run(t, "--world", world, "list", "--category", "chat")
	require.NoError(t, err)
	assert.Contains(t, out, "announcer")
	assert.NotContains(t, out, "keepInventory")

	_, _, err = run(t, "--world", world, "list", "--category", "nope")
	require.Error(t, err)
}

func TestDump_JSON(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	_, _, err := run(t, "--world", world, "set", "motd", "welcome")
	require.NoError(t, err)

	out, _, err := run(t, "--world", world, "dump", "--json", "--sources")
	require.NoError(t, err)

	var dumped map[string]struct {
		Kind     string `json:"kind"`
		Category string `json:"category"`
		Value    string `json:"value"`
		Source   string `json:"source"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &dumped))
	assert.Equal(t, "welcome", dumped["motd"].Value)
	assert.Equal(t, "string", dumped["motd"].Kind)
	assert.Equal(t, "chat", dumped["motd"].Category)
	assert.Equal(t, gamerules.SourceCommand, dumped["motd"].Source)
	assert.Equal(t, "10", dumped["spawnRadius"].Value)
}

func TestDump_Categories(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	out, _, err := run(t, "--world", world, "dump", "--category", "updates")
	require.NoError(t, err)
	assert.Equal(t, "doFireTick: true\n", out)
}

func TestRulesFile_AppliedOnLoad(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "gamerules.json")
	rules := writeFile(t, dir, "rules.yaml", "spawnRadius: 40\nkeepinventory: true\n")

	out, _, err := run(t, "--world", world, "--rules", rules, "get", "spawnRadius")
	require.NoError(t, err)
	assert.Contains(t, out, "currently set to: 32")

	out, _, err = run(t, "--world", world, "--rules", rules, "get", "keepInventory")
	require.NoError(t, err)
	assert.Contains(t, out, "currently set to: true")
}

func TestRulesFile_UnknownRule(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "gamerules.json")
	rules := writeFile(t, dir, "rules.yaml", "noSuchRule: 1\nspawnRadius: 3\n")

	_, _, err := run(t, "--world", world, "--rules", rules, "get", "spawnRadius")
	require.Error(t, err)
	var loadErr *gamerules.LoadError
	require.ErrorAs(t, err, &loadErr)
	require.Len(t, loadErr.RuleErrors, 1)
	assert.Equal(t, gamerules.ErrCodeUnknownRule, loadErr.RuleErrors[0].Code)

	out, _, err := run(t, "--world", world, "--rules", rules, "--lenient", "get", "spawnRadius")
	require.NoError(t, err)
	assert.Contains(t, out, "currently set to: 3")
}

func TestRulesFile_Missing(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "gamerules.json")

	_, _, err := run(t, "--world", world, "--rules", filepath.Join(dir, "missing.yaml"), "get", "spawnRadius")
	require.Error(t, err)
}

func TestConfig_Definitions(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "gamerules.json")
	config := writeFile(t, dir, "config.yaml", `definitions:
  - name: maxPlayers
    kind: int
    category: player
    initial: "20"
    constraints: min:1,max:100
  - name: gameMode
    kind: enum
    constraints: oneof:survival,creative,adventure
`)

	out, _, err := run(t, "--config", config, "--world", world, "set", "maxPlayers", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Gamerule maxPlayers is now set to: 100")

	out, _, err = run(t, "--config", config, "--world", world, "values", "gameMode")
	require.NoError(t, err)
	assert.Contains(t, out, "* survival")
	assert.Contains(t, out, "  adventure")
}

func TestConfig_WorldSetting(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "saves", "gamerules.json")
	config := writeFile(t, dir, "config.yaml", "world: "+world+"\n")

	_, _, err := run(t, "--config", config, "set", "keepInventory", "true")
	require.NoError(t, err)
	assert.FileExists(t, world)
}

func TestConfig_BadDefinition(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "gamerules.json")
	config := writeFile(t, dir, "config.yaml", `definitions:
  - name: broken
    kind: quaternion
`)

	_, _, err := run(t, "--config", config, "--world", world, "list")
	require.Error(t, err)
	assert.ErrorIs(t, err, gamerules.ErrConstruction)
	assert.Contains(t, err.Error(), "broken")
}

func TestConfig_Missing(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "--config", filepath.Join(dir, "nope.yaml"), "list")
	require.Error(t, err)
}

func TestWatch_RequiresRulesFile(t *testing.T) {
	world := filepath.Join(t.TempDir(), "gamerules.json")

	_, _, err := run(t, "--world", world, "watch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--rules")
}

func TestWatch_AppliesInitialOverrides(t *testing.T) {
	dir := t.TempDir()
	world := filepath.Join(dir, "gamerules.json")
	rules := writeFile(t, dir, "rules.yaml", "spawnRadius: 7\n")

	ctx, cancel := context.WithCancel(context.Background())
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--world", world, "--rules", rules, "watch"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		snap, err := gamerules.ReadSnapshot(world)
		return err == nil && snap.Rules["spawnRadius"] == "7"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}
}
