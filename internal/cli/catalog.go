package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/fencecalc/internal/model"
	"github.com/piwi3910/fencecalc/internal/project"
)

func newCatalogCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or export the fence and gate catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List fence and gate style keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.jsonOutput {
				return app.printJSON(map[string][]string{
					"fences": app.catalog.FenceTypes(),
					"gates":  app.catalog.GateTypes(),
				})
			}
			fmt.Fprintln(app.out, "Fence styles:")
			for _, name := range app.catalog.FenceTypes() {
				f := app.catalog.Fences[name]
				fmt.Fprintf(app.out, "  %-40s posts %s\n", name, f.PostHeight)
			}
			fmt.Fprintln(app.out, "Gate styles:")
			for _, name := range app.catalog.GateTypes() {
				fmt.Fprintf(app.out, "  %s\n", name)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.yaml>",
		Short: "Write the active catalog as YAML, ready to edit and load with --catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := project.SaveCatalog(args[0], app.catalog); err != nil {
				return err
			}
			app.log.WithFields(logrus.Fields{
				"path":   args[0],
				"fences": len(app.catalog.Fences),
				"gates":  len(app.catalog.Gates),
			}).Info("catalog exported")
			return nil
		},
	})

	return cmd
}

func newPresetCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved takeoff presets",
	}

	f := &specFlags{}
	var description, gateType string
	save := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the given fence settings as a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := app.spec(cmd, f)
			if err != nil {
				return err
			}
			if gateType != "" {
				if _, listed := app.catalog.Gates[gateType]; !listed {
					return fmt.Errorf("%s %q", model.ReasonUnknownGateType, gateType)
				}
			}

			store, err := project.LoadPresets(app.presetPath())
			if err != nil {
				return fmt.Errorf("failed to load presets: %w", err)
			}
			preset := model.NewTakeoffPreset(args[0], description, spec, gateType)
			store.Add(preset)
			if err := project.SavePresets(app.presetPath(), store); err != nil {
				return fmt.Errorf("failed to save presets: %w", err)
			}

			app.log.WithFields(logrus.Fields{"preset": preset.Name, "fence_type": spec.FenceType}).Info("preset saved")
			return nil
		},
	}
	f.register(save, false)
	save.Flags().StringVar(&description, "description", "", "preset description")
	save.Flags().StringVar(&gateType, "gate-type", "", "gate style key")

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadPresets(app.presetPath())
			if err != nil {
				return fmt.Errorf("failed to load presets: %w", err)
			}
			if app.jsonOutput {
				return app.printJSON(store)
			}
			if len(store.Presets) == 0 {
				fmt.Fprintln(app.out, "No presets saved.")
				return nil
			}
			tw := newTable(app.out)
			fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSPACING\tHEIGHT\tGATE")
			for _, p := range store.Presets {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%.2f\t%s\n",
					p.ID, p.Name, p.Fence.FenceType, p.Fence.PostSpacing, p.Fence.Height, p.GateType)
			}
			return tw.Flush()
		},
	}

	remove := &cobra.Command{
		Use:     "delete <name|id>",
		Aliases: []string{"rm"},
		Short:   "Delete a saved preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := project.LoadPresets(app.presetPath())
			if err != nil {
				return fmt.Errorf("failed to load presets: %w", err)
			}
			if !store.Remove(args[0]) {
				return fmt.Errorf("preset %q not found", args[0])
			}
			if err := project.SavePresets(app.presetPath(), store); err != nil {
				return fmt.Errorf("failed to save presets: %w", err)
			}
			app.log.WithField("preset", args[0]).Info("preset deleted")
			return nil
		},
	}

	cmd.AddCommand(save, list, remove)
	return cmd
}
