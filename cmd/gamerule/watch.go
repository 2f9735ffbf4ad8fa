package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Azhovan/gamerules"
)

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Reapply the rules file whenever it changes",
		Long: `Watch loads the world, then reapplies the rules file and GAMERULE_*
variables every time the file changes, saving the world after each reload.
Stop it with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.v.GetString("rules") == "" {
				return errors.New("watch needs a rules file (--rules)")
			}

			ctx := cmd.Context()
			w, err := a.loadWorld(ctx)
			if err != nil {
				return err
			}

			l := a.loader()
			updates, errs, err := l.Watch(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for updates != nil || errs != nil {
				select {
				case ov, ok := <-updates:
					if !ok {
						updates = nil
						continue
					}
					if err := l.Apply(ov, w.rules); err != nil {
						var loadErr *gamerules.LoadError
						if !errors.As(err, &loadErr) {
							return err
						}
						a.logger.Warn("overrides rejected", "version", ov.Version, "err", err)
					}
					if err := w.save(); err != nil {
						return fmt.Errorf("save world: %w", err)
					}
					a.logger.Info("applied overrides", "version", ov.Version, "cause", ov.Source, "count", len(ov.Values))
					fmt.Fprintf(out, "%s reload %d (%s)\n", successStyle.Render("✓"), ov.Version, ov.Source)

				case err, ok := <-errs:
					if !ok {
						errs = nil
						continue
					}
					a.logger.Error("reload failed", "err", err)
				}
			}

			if ctx.Err() != nil {
				a.logger.Info("stopped watching")
			}
			return nil
		},
	}
}
