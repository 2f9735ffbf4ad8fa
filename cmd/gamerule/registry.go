package main

import (
	"github.com/Azhovan/gamerules"
)

// difficulty is the vanilla difficulty enum.
type difficulty int

const (
	peaceful difficulty = iota
	easy
	normal
	hard
)

func (d difficulty) String() string {
	return [...]string{"peaceful", "easy", "normal", "hard"}[d]
}

// builtinRules registers the rules every world has. Definitions from the
// config file are added on top.
func builtinRules() *gamerules.Registry {
	reg := gamerules.NewRegistry()

	// Even values in [0, 64). Out-of-range values clamp to the nearest valid
	// even bound and odd values are bumped up by one.
	gamerules.MustRegister(reg, "test.test1", gamerules.CategoryPlayer,
		gamerules.Must(gamerules.NewLongType(0,
			gamerules.WithValidator(gamerules.Validator[int64](func(i int64) bool {
				return i%2 == 0 && i >= 0 && i < 64
			})),
			gamerules.WithAdapter(gamerules.Adapter[int64](func(i int64) (int64, bool) {
				switch {
				case i > 62:
					return 62, true
				case i < 0:
					return 0, true
				}
				return i + 1, true
			})),
		)))
	gamerules.MustRegister(reg, "test.test2", gamerules.CategoryChat,
		gamerules.Must(gamerules.NewIntType(1,
			gamerules.WithValidatorAdapter(gamerules.Odd[int32](gamerules.RoundCeiling)))))

	spawnRadius, err := gamerules.Bounded[int32](0, 32)
	if err != nil {
		panic(err)
	}
	gamerules.MustRegister(reg, "spawnRadius", gamerules.CategorySpawning,
		gamerules.Must(gamerules.NewIntType(10, gamerules.WithValidatorAdapter(spawnRadius))))

	gamerules.MustRegister(reg, "doFireTick", gamerules.CategoryUpdates,
		gamerules.Must(gamerules.NewBoolType(true)))
	gamerules.MustRegister(reg, "keepInventory", gamerules.CategoryPlayer,
		gamerules.Must(gamerules.NewBoolType(false)))
	gamerules.MustRegister(reg, "difficulty", gamerules.CategoryMisc,
		gamerules.Must(gamerules.NewEnumType([]difficulty{peaceful, easy, normal, hard}, normal)))
	gamerules.MustRegister(reg, "motd", gamerules.CategoryChat,
		gamerules.Must(gamerules.NewStringType(gamerules.MaxStringLength, "A Minecraft Server")))
	gamerules.MustRegister(reg, "welcomeMessage", gamerules.CategoryChat,
		gamerules.Must(gamerules.NewTextType(1024, "")))
	gamerules.MustRegister(reg, "announcer", gamerules.CategoryChat,
		gamerules.Must(gamerules.NewEntitySelectorType("@a")))

	return reg
}
