package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Azhovan/gamerules"
)

const defaultWorld = "world/gamerules.json"

// app carries the state shared by every command.
type app struct {
	v      *viper.Viper
	logger *log.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "gamerule",
		Short: "Inspect and change world game rules",
		Long: titleStyle.Render("gamerule") + subtitleStyle.Render(" - inspect and change world game rules") + `

Rules are kept in a world snapshot file. Every command loads the snapshot,
then applies overrides from the rules file and GAMERULE_* environment
variables on top.

` + subtitleStyle.Render("Examples:") + `
  gamerule list                     List every rule
  gamerule get doFireTick           Show one rule
  gamerule set spawnRadius 5        Change a rule and save the world
  gamerule check test.test1 63      Show what a value would become
  gamerule dump --json --sources    Dump all rules as JSON`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file with CLI settings and rule definitions")
	flags.String("world", defaultWorld, "world snapshot file")
	flags.String("rules", "", "rule override file (yaml, json or toml)")
	flags.Bool("lenient", false, "ignore overrides for unknown rules")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	for _, name := range []string{"config", "world", "rules", "lenient", "verbose"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}

	cmd.AddCommand(
		newListCommand(a),
		newGetCommand(a),
		newSetCommand(a),
		newCheckCommand(a),
		newValuesCommand(a),
		newDumpCommand(a),
		newWatchCommand(a),
	)
	return cmd
}

// init reads the config file and environment, then sets up logging.
func (a *app) init(cmd *cobra.Command) error {
	a.v.SetDefault("world", defaultWorld)
	a.v.SetDefault("rules_root", "")
	a.v.SetEnvPrefix("GAMERULES")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.v.AutomaticEnv()

	if path := a.v.GetString("config"); path != "" {
		a.v.SetConfigFile(path)
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	level := log.InfoLevel
	if a.v.GetBool("verbose") {
		level = log.DebugLevel
	}
	a.logger = log.NewWithOptions(cmd.ErrOrStderr(), log.Options{
		Prefix: "gamerule",
		Level:  level,
	})
	gamerules.SetLogger(a.logger.WithPrefix("gamerules"))
	return nil
}
