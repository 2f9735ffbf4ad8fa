package gamerules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Azhovan/gamerules/selector"
)

func TestDefine_IntegerBoundsAndParity(t *testing.T) {
	reg := NewRegistry()
	key, err := Define(reg, Definition{
		Name:        "test.test1",
		Kind:        "long",
		Category:    "player",
		Constraints: "min:0,max:62,parity:even,round:ceiling",
	})
	require.NoError(t, err)
	assert.Equal(t, CategoryPlayer, key.Category)

	rule, err := GetRule[int64](reg.NewRuleSet(), key)
	require.NoError(t, err)

	tests := []struct {
		input int64
		want  int64
	}{
		{10, 10},
		{64, 62},
		{3, 4},
		{-5, 0},
		{61, 62},
	}
	for _, tt := range tests {
		rule.Set(tt.input, nil)
		assert.Equal(t, tt.want, rule.Get(), "Set(%d)", tt.input)
	}
}

func TestDefine_OddWithoutRounding(t *testing.T) {
	reg := NewRegistry()
	key, err := Define(reg, Definition{Name: "test.test2", Kind: "int", Initial: "1", Constraints: "parity:odd"})
	require.NoError(t, err)
	assert.Equal(t, CategoryMisc, key.Category, "category defaults to misc")

	rule, err := GetRule[int32](reg.NewRuleSet(), key)
	require.NoError(t, err)
	assert.Equal(t, int32(1), rule.Get())

	rule.Set(4, nil)
	assert.Equal(t, int32(1), rule.Get(), "no rounding means no replacement")
}

func TestDefine_FloatMinOnly(t *testing.T) {
	reg := NewRegistry()
	key, err := Define(reg, Definition{Name: "playerSpeed", Kind: "double", Initial: "0.1", Constraints: "min:0"})
	require.NoError(t, err)

	rule, err := GetRule[float64](reg.NewRuleSet(), key)
	require.NoError(t, err)
	assert.Equal(t, 0.1, rule.Get())

	rule.Set(-3, nil)
	assert.Equal(t, 0.0, rule.Get())
	rule.Set(1e300, nil)
	assert.Equal(t, 1e300, rule.Get())
}

func TestDefine_StringOneof(t *testing.T) {
	reg := NewRegistry()
	key, err := Define(reg, Definition{
		Name:        "weatherCycle",
		Kind:        "string",
		Category:    "updates",
		Initial:     "clear",
		Constraints: "len:8,oneof:clear,rain,thunder",
	})
	require.NoError(t, err)

	rs := reg.NewRuleSet()
	rule, err := GetRule[string](rs, key)
	require.NoError(t, err)
	assert.Equal(t, 8, rule.MaxLength())

	require.NoError(t, rs.Execute("weatherCycle", "rain"))
	assert.Equal(t, "rain", rule.Get())
	assert.ErrorIs(t, rs.Execute("weatherCycle", "snow"), ErrInvalidArgument)
	assert.ErrorIs(t, rs.Execute("weatherCycle", "thunderstorm"), ErrTooLong)
}

func TestDefine_Text(t *testing.T) {
	reg := NewRegistry()
	key, err := Define(reg, Definition{Name: "welcome", Kind: "text", Constraints: "len:1024"})
	require.NoError(t, err)

	cell, ok := reg.NewRuleSet().Lookup(key.Name)
	require.True(t, ok)
	assert.Equal(t, KindText, cell.Kind())
	assert.Equal(t, 1024, cell.MaxLength())
}

func TestDefine_Enum(t *testing.T) {
	reg := NewRegistry()
	key, err := Define(reg, Definition{Name: "difficulty", Kind: "enum", Constraints: "oneof:peaceful,easy,normal,hard"})
	require.NoError(t, err)

	rs := reg.NewRuleSet()
	rule, err := GetRule[Symbol](rs, key)
	require.NoError(t, err)
	assert.Equal(t, Symbol("peaceful"), rule.Get(), "initial defaults to the first constant")
	assert.Equal(t, []string{"peaceful", "easy", "normal", "hard"}, rule.Names())

	require.NoError(t, rs.Execute("difficulty", "hard"))
	assert.Equal(t, 4, rule.CommandResult())
}

func TestDefine_SelectorPlayers(t *testing.T) {
	reg := NewRegistry()
	key, err := Define(reg, Definition{Name: "announcer", Kind: "entity_selector", Initial: "@a", Constraints: "players"})
	require.NoError(t, err)

	rs := reg.NewRuleSet()
	rule, err := GetRule[selector.Selector](rs, key)
	require.NoError(t, err)

	assert.ErrorIs(t, rs.Execute("announcer", "@e"), ErrInvalidArgument)
	require.NoError(t, rs.Execute("announcer", "@e[type=player]"))
	assert.Equal(t, "@e[type=player]", rule.Serialize())
}

func TestDefine_Errors(t *testing.T) {
	tests := []struct {
		name     string
		def      Definition
		wantCode string
	}{
		{"parity on float", Definition{Name: "r", Kind: "float", Constraints: "parity:even"}, ErrCodeDirective},
		{"round without parity", Definition{Name: "r", Kind: "int", Constraints: "round:ceiling"}, ErrCodeDirective},
		{"bad rounding", Definition{Name: "r", Kind: "int", Constraints: "parity:odd,round:sideways"}, ErrCodeDirective},
		{"bad min", Definition{Name: "r", Kind: "int", Constraints: "min:x"}, ErrCodeDirective},
		{"unknown directive", Definition{Name: "r", Kind: "int", Constraints: "step:2"}, ErrCodeDirective},
		{"directive on bool", Definition{Name: "r", Kind: "bool", Constraints: "min:0"}, ErrCodeDirective},
		{"string without len", Definition{Name: "r", Kind: "string"}, ErrCodeMaxLength},
		{"bad len", Definition{Name: "r", Kind: "text", Constraints: "len:many"}, ErrCodeDirective},
		{"enum without constants", Definition{Name: "r", Kind: "enum"}, ErrCodeNoConstant},
		{"enum initial not a constant", Definition{Name: "r", Kind: "enum", Initial: "x", Constraints: "oneof:a,b"}, ErrCodeInvalidInitial},
		{"bad initial", Definition{Name: "r", Kind: "int", Initial: "ten"}, ErrCodeInvalidInitial},
		{"bad selector", Definition{Name: "r", Kind: "entity_selector", Initial: "@x"}, ErrCodeInvalidInitial},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Define(NewRegistry(), tt.def)
			var ce *ConstructionError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantCode, ce.Code)
		})
	}
}

func TestDefine_InvalidBounds(t *testing.T) {
	_, err := Define(NewRegistry(), Definition{Name: "r", Kind: "int", Constraints: "min:10,max:1"})
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestDefine_BadKindOrCategory(t *testing.T) {
	_, err := Define(NewRegistry(), Definition{Name: "r", Kind: "integer"})
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = Define(NewRegistry(), Definition{Name: "r", Kind: "int", Category: "weather"})
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestDefineAll(t *testing.T) {
	reg := NewRegistry()
	err := DefineAll(reg, []Definition{
		{Name: "doFireTick", Kind: "bool", Initial: "true"},
		{Name: "broken", Kind: "int", Initial: "x"},
		{Name: "doFireTick", Kind: "bool"},
		{Name: "spawnRadius", Kind: "int", Initial: "10", Constraints: "min:0,max:32"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rule broken")
	assert.ErrorIs(t, err, ErrDuplicateRule)
	assert.Equal(t, 2, reg.Len(), "valid definitions stay registered")
}
