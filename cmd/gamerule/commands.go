package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Azhovan/gamerules"
	"github.com/Azhovan/gamerules/selector"
)

func newListCommand(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List rules grouped by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.loadWorld(cmd.Context())
			if err != nil {
				return err
			}

			var only *gamerules.Category
			if category != "" {
				c, err := gamerules.ParseCategory(category)
				if err != nil {
					return err
				}
				only = &c
			}

			v := &listVisitor{}
			w.rules.Walk(v)

			out := cmd.OutOrStdout()
			for c := gamerules.CategoryPlayer; c <= gamerules.CategoryMisc; c++ {
				if only != nil && *only != c {
					continue
				}
				rows := v.rows[c]
				if len(rows) == 0 {
					continue
				}
				fmt.Fprintln(out, titleStyle.Render(strings.ToUpper(c.String())))
				for _, r := range rows {
					fmt.Fprintf(out, "  %s %s %s\n",
						nameStyle.Render(r.name), valueStyle.Render(r.value), subtitleStyle.Render(r.widget))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only list rules in this category")
	return cmd
}

type listRow struct {
	name   string
	value  string
	widget string
}

// listVisitor describes each rule the way the settings screen shows it.
type listVisitor struct {
	rows map[gamerules.Category][]listRow
}

func (v *listVisitor) add(key gamerules.Key, value, widget string) {
	if v.rows == nil {
		v.rows = make(map[gamerules.Category][]listRow)
	}
	v.rows[key.Category] = append(v.rows[key.Category], listRow{name: key.Name, value: value, widget: widget})
}

func (v *listVisitor) VisitBool(key gamerules.Key, r *gamerules.Rule[bool]) {
	v.add(key, r.Serialize(), "[toggle]")
}

func (v *listVisitor) VisitInt(key gamerules.Key, r *gamerules.Rule[int32]) {
	v.add(key, r.Serialize(), "[int]")
}

func (v *listVisitor) VisitLong(key gamerules.Key, r *gamerules.Rule[int64]) {
	v.add(key, r.Serialize(), "[long]")
}

func (v *listVisitor) VisitFloat(key gamerules.Key, r *gamerules.Rule[float32]) {
	v.add(key, r.Serialize(), "[float]")
}

func (v *listVisitor) VisitDouble(key gamerules.Key, r *gamerules.Rule[float64]) {
	v.add(key, r.Serialize(), "[double]")
}

func (v *listVisitor) VisitString(key gamerules.Key, r *gamerules.Rule[string]) {
	v.add(key, fmt.Sprintf("%q", r.Get()), fmt.Sprintf("[text field, %d]", r.MaxLength()))
}

func (v *listVisitor) VisitText(key gamerules.Key, r *gamerules.Rule[string]) {
	v.add(key, fmt.Sprintf("%q", r.Get()), fmt.Sprintf("[text box, %d]", r.MaxLength()))
}

func (v *listVisitor) VisitEnum(key gamerules.Key, c gamerules.Cell) {
	v.add(key, c.Serialize(), "["+strings.Join(c.Names(), "|")+"]")
}

func (v *listVisitor) VisitEntitySelector(key gamerules.Key, r *gamerules.Rule[selector.Selector]) {
	widget := "[selector]"
	if r.Get().PlayersOnly() {
		widget = "[selector, players]"
	}
	v.add(key, r.Serialize(), widget)
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <rule>",
		Short: "Show the value of a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.loadWorld(cmd.Context())
			if err != nil {
				return err
			}
			key, cell, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Gamerule %s is currently set to: %s\n",
				key.Name, valueStyle.Render(cell.Serialize()))
			if prov, ok := w.rules.ProvenanceOf(key.Name); ok {
				a.logger.Debug("rule source", "rule", key.Name, "source", prov.SourceName, "result", cell.CommandResult())
			}
			return nil
		},
	}
}

func newSetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <rule> <value>",
		Short: "Change a rule and save the world",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.loadWorld(cmd.Context())
			if err != nil {
				return err
			}
			key, cell, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			if err := w.rules.Execute(key.Name, args[1]); err != nil {
				return err
			}
			if err := w.save(); err != nil {
				return fmt.Errorf("save world: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Gamerule %s is now set to: %s\n",
				key.Name, successStyle.Render(cell.Serialize()))
			a.logger.Debug("saved world", "path", w.path, "result", cell.CommandResult())
			return nil
		},
	}
}

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check <rule> <value>",
		Short: "Show what a value would become without saving",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.loadWorld(cmd.Context())
			if err != nil {
				return err
			}
			key, _, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			// Probe a copy so the loaded world stays untouched.
			probe, _ := w.rules.Copy().Lookup(key.Name)
			out := cmd.OutOrStdout()
			if !probe.Validate(args[1]) {
				fmt.Fprintf(out, "%s %s rejects %q\n", errorStyle.Render("✗"), key.Name, args[1])
				return nil
			}
			fmt.Fprintf(out, "%s %s accepts %q as %s\n",
				successStyle.Render("✓"), key.Name, args[1], valueStyle.Render(probe.Serialize()))
			return nil
		},
	}
}

func newValuesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "values <rule>",
		Short: "List the values an enum or bool rule cycles through",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := a.loadWorld(cmd.Context())
			if err != nil {
				return err
			}
			key, cell, err := w.lookup(args[0])
			if err != nil {
				return err
			}

			names := cell.Names()
			if names == nil {
				return fmt.Errorf("%s is a %s rule and has no fixed values", key.Name, cell.Kind())
			}
			current := cell.Serialize()
			for _, n := range names {
				if n == current {
					fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("* "+n))
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), "  "+n)
			}
			return nil
		},
	}
}

func newDumpCommand(a *app) *cobra.Command {
	var (
		asJSON     bool
		sources    bool
		categories []string
	)

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print every rule in save-file form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := a.loadWorld(cmd.Context())
			if err != nil {
				return err
			}

			var opts []gamerules.DumpOption
			if asJSON {
				opts = append(opts, gamerules.AsJSON())
			}
			if sources {
				opts = append(opts, gamerules.WithSources())
			}
			for _, name := range categories {
				c, err := gamerules.ParseCategory(name)
				if err != nil {
					return err
				}
				opts = append(opts, gamerules.WithCategories(c))
			}
			return gamerules.DumpRules(cmd.OutOrStdout(), w.rules, opts...)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	cmd.Flags().BoolVar(&sources, "sources", false, "include where each value came from")
	cmd.Flags().StringSliceVar(&categories, "category", nil, "only dump rules in these categories")
	return cmd
}
