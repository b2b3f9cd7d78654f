package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/fencecalc/internal/engine"
	"github.com/piwi3910/fencecalc/internal/model"
)

// specFlags binds the fence spec inputs shared by several commands.
type specFlags struct {
	length    float64
	spacing   float64
	height    float64
	fenceType string
	gates     int
	gateWidth float64
	unit      string
}

func (f *specFlags) register(cmd *cobra.Command, withRun bool) {
	flags := cmd.Flags()
	if withRun {
		flags.Float64Var(&f.length, "length", 0, "total run length")
		flags.IntVar(&f.gates, "gates", 0, "number of gates in the run")
	}
	flags.Float64Var(&f.spacing, "spacing", 0, "distance between posts (default from config)")
	flags.Float64Var(&f.height, "height", 0, "fence height (default from config)")
	flags.StringVar(&f.fenceType, "type", "", "fence style (default from config)")
	flags.Float64Var(&f.gateWidth, "gate-width", 0, "width of each gate opening (default from config)")
	flags.StringVar(&f.unit, "unit", "", "unit label: meters or feet")
}

// spec builds a FenceSpec from the config defaults, overridden by every flag
// set on the command line. An explicit zero, e.g. --height 0, is kept.
func (a *App) spec(cmd *cobra.Command, f *specFlags) (model.FenceSpec, error) {
	flags := cmd.Flags()
	changed := func(name string) bool {
		fl := flags.Lookup(name)
		return fl != nil && fl.Changed
	}

	spec := model.FenceSpec{Length: f.length, GateCount: f.gates}
	a.config.ApplyToSpec(&spec)

	if changed("spacing") {
		spec.PostSpacing = f.spacing
	}
	if changed("height") {
		spec.Height = f.height
	}
	if changed("type") {
		spec.FenceType = f.fenceType
	}
	if changed("gate-width") {
		spec.GateWidth = f.gateWidth
	}
	if changed("unit") {
		unit, ok := model.ParseUnit(f.unit)
		if !ok {
			return model.FenceSpec{}, fmt.Errorf("unknown unit %q (use meters or feet)", f.unit)
		}
		spec.Unit = unit
	}
	return spec, nil
}

func specFields(spec model.FenceSpec) logrus.Fields {
	return logrus.Fields{
		"length":     spec.Length,
		"spacing":    spec.PostSpacing,
		"height":     spec.Height,
		"fence_type": spec.FenceType,
		"gates":      spec.GateCount,
		"gate_width": spec.GateWidth,
	}
}

type estimateOutput struct {
	Spec   model.FenceSpec      `json:"spec"`
	OK     bool                 `json:"ok"`
	Reason model.Reason         `json:"reason,omitempty"`
	Result *model.FencingResult `json:"result,omitempty"`
}

func newEstimateCommand(app *App) *cobra.Command {
	f := &specFlags{}
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate posts, panels, rails and concrete for a fence run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := app.spec(cmd, f)
			if err != nil {
				return err
			}

			result, ok := model.EstimateFence(spec)
			out := estimateOutput{Spec: spec, OK: ok, Reason: spec.Validate()}
			if ok {
				out.Result = &result
			}

			if app.jsonOutput {
				if err := app.printJSON(out); err != nil {
					return err
				}
			} else if ok {
				fmt.Fprintf(app.out, "%s fence, %.2f %s run, posts every %.2f %s\n",
					spec.FenceType, spec.Length, spec.Unit.Abbrev(), spec.PostSpacing, spec.Unit.Abbrev())
				app.printLines("", result.Lines())
			}

			if !ok {
				return app.declined("estimate", out.Reason, specFields(spec))
			}
			app.log.WithFields(specFields(spec)).Debug("estimate complete")
			return nil
		},
	}
	f.register(cmd, true)
	return cmd
}

func newMaterialsCommand(app *App) *cobra.Command {
	var fenceType string
	var length float64
	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Look up the bill of materials for a fence style and run length",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fenceType == "" {
				fenceType = app.config.DefaultFenceType
			}
			fields := logrus.Fields{"fence_type": fenceType, "length": length}

			m, ok := model.LookupFenceMaterials(app.catalog, fenceType, length)
			if !ok {
				reason := model.LengthReason(length)
				if _, listed := app.catalog.Fences[fenceType]; !listed {
					reason = model.ReasonUnknownFenceType
				}
				return app.declined("fence materials", reason, fields)
			}

			if app.jsonOutput {
				return app.printJSON(m)
			}
			app.printLines(fmt.Sprintf("%s, %.2f m", m.FenceType, m.Length), m.Lines())
			return nil
		},
	}
	cmd.Flags().StringVar(&fenceType, "type", "", "fence style key (see 'catalog list')")
	cmd.Flags().Float64Var(&length, "length", 0, "run length in meters")
	return cmd
}

func newGateCommand(app *App) *cobra.Command {
	var gateType string
	var count int
	cmd := &cobra.Command{
		Use:   "gate",
		Short: "Look up the bill of materials for a number of gates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if gateType == "" {
				gateType = app.config.DefaultGateType
			}
			fields := logrus.Fields{"gate_type": gateType, "count": count}

			m, ok := model.LookupGateMaterials(app.catalog, gateType, count)
			if !ok {
				reason := model.GateCountReason(count)
				if _, listed := app.catalog.Gates[gateType]; !listed {
					reason = model.ReasonUnknownGateType
				}
				return app.declined("gate materials", reason, fields)
			}

			if app.jsonOutput {
				return app.printJSON(m)
			}
			app.printLines(fmt.Sprintf("%d x %s", m.GateCount, m.GateType), m.Lines())
			return nil
		},
	}
	cmd.Flags().StringVar(&gateType, "type", "", "gate style key (see 'catalog list')")
	cmd.Flags().IntVar(&count, "count", 1, "number of gates")
	return cmd
}

func newCompareCommand(app *App) *cobra.Command {
	f := &specFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the estimate against tighter, wider and privacy alternatives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := app.spec(cmd, f)
			if err != nil {
				return err
			}

			results := engine.CompareScenarios(engine.BuildDefaultScenarios(spec))
			if !results[0].OK {
				return app.declined("compare", results[0].Reason, specFields(spec))
			}

			if app.jsonOutput {
				return app.printJSON(results)
			}

			return app.printComparison(results)
		},
	}
	f.register(cmd, true)
	return cmd
}
