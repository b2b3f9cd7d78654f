package cli

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/fencecalc/internal/export"
	"github.com/piwi3910/fencecalc/internal/model"
	"github.com/piwi3910/fencecalc/internal/project"
)

type takeoffOutput struct {
	Takeoff model.Takeoff `json:"takeoff"`
	Notes   []string      `json:"notes,omitempty"`
}

func newTakeoffCommand(app *App) *cobra.Command {
	f := &specFlags{}
	var name, gateType, presetName, pdfPath, xlsxPath, pricesPath string

	cmd := &cobra.Command{
		Use:   "takeoff",
		Short: "Run the estimate and both material lookups, with optional costing and exports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := app.takeoffRequest(cmd, f, name, gateType, presetName)
			if err != nil {
				return err
			}

			takeoff, notes := model.BuildTakeoff(app.catalog, req)
			for _, note := range notes {
				app.log.WithField("takeoff", takeoff.Name).Warn(note)
			}
			if takeoff.Empty() {
				return app.declined("takeoff", req.Fence.Validate(), specFields(req.Fence))
			}

			if pricesPath == "" {
				pricesPath = app.config.PriceListPath
			}
			if pricesPath != "" {
				prices, err := project.LoadPriceList(pricesPath)
				if err != nil {
					return err
				}
				cost := model.PriceMaterials(takeoff.OrderLines(), prices)
				takeoff.Cost = &cost
				if len(cost.Unpriced) > 0 {
					app.log.WithField("items", cost.Unpriced).Warn("some materials have no price")
				}
			}

			if err := app.exportTakeoff(takeoff, pdfPath, xlsxPath); err != nil {
				return err
			}

			if app.jsonOutput {
				return app.printJSON(takeoffOutput{Takeoff: takeoff, Notes: notes})
			}

			fmt.Fprintf(app.out, "Takeoff %s: %s\n", takeoff.ID, takeoff.Name)
			for _, section := range takeoff.Lines() {
				fmt.Fprintln(app.out)
				app.printLines(section.Title, section.Lines)
			}
			if takeoff.Cost != nil {
				fmt.Fprintln(app.out)
				app.printCost(*takeoff.Cost)
			}
			return nil
		},
	}

	f.register(cmd, true)
	flags := cmd.Flags()
	flags.StringVar(&name, "name", "", "job name")
	flags.StringVar(&gateType, "gate-type", "", "gate style key for the gate lookup (default from preset or config)")
	flags.StringVar(&presetName, "preset", "", "start from a saved preset")
	flags.StringVar(&pdfPath, "pdf", "", "write a PDF takeoff sheet")
	flags.StringVar(&xlsxPath, "xlsx", "", "write an Excel workbook")
	flags.StringVar(&pricesPath, "prices", "", "YAML price list for costing (default from config)")
	return cmd
}

// takeoffRequest assembles the request from the config defaults, an optional
// preset and the command line flags, in increasing priority.
func (a *App) takeoffRequest(cmd *cobra.Command, f *specFlags, name, gateType, presetName string) (model.TakeoffRequest, error) {
	if presetName == "" {
		spec, err := a.spec(cmd, f)
		if err != nil {
			return model.TakeoffRequest{}, err
		}
		if gateType == "" && spec.GateCount > 0 {
			gateType = a.config.DefaultGateType
		}
		return model.TakeoffRequest{Name: name, Fence: spec, GateType: gateType}, nil
	}

	store, err := project.LoadPresets(a.presetPath())
	if err != nil {
		return model.TakeoffRequest{}, fmt.Errorf("failed to load presets: %w", err)
	}
	preset := store.FindByName(presetName)
	if preset == nil {
		preset = store.FindByID(presetName)
	}
	if preset == nil {
		return model.TakeoffRequest{}, fmt.Errorf("preset %q not found", presetName)
	}

	req := preset.ToRequest(name, f.length, f.gates)
	// Config defaults only fill blanks; a saved height of zero is kept.
	height := req.Fence.Height
	a.config.ApplyToSpec(&req.Fence)
	req.Fence.Height = height

	overrides, err := a.spec(cmd, f)
	if err != nil {
		return model.TakeoffRequest{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("spacing") {
		req.Fence.PostSpacing = overrides.PostSpacing
	}
	if flags.Changed("height") {
		req.Fence.Height = overrides.Height
	}
	if flags.Changed("type") {
		req.Fence.FenceType = overrides.FenceType
	}
	if flags.Changed("gate-width") {
		req.Fence.GateWidth = overrides.GateWidth
	}
	if flags.Changed("unit") {
		req.Fence.Unit = overrides.Unit
	}
	if gateType != "" {
		req.GateType = gateType
	}

	a.log.WithFields(logrus.Fields{"preset": preset.Name, "id": preset.ID}).Debug("takeoff from preset")
	return req, nil
}

// exportTakeoff writes the requested files and records them as recent.
func (a *App) exportTakeoff(t model.Takeoff, pdfPath, xlsxPath string) error {
	var written []string
	if pdfPath != "" {
		if err := export.ExportPDF(pdfPath, t, a.config.CompanyName); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		written = append(written, pdfPath)
	}
	if xlsxPath != "" {
		if err := export.ExportExcel(xlsxPath, t); err != nil {
			return fmt.Errorf("failed to export Excel: %w", err)
		}
		written = append(written, xlsxPath)
	}
	if len(written) == 0 {
		return nil
	}

	for _, path := range written {
		a.log.WithFields(logrus.Fields{"takeoff": t.ID, "path": path}).Info("takeoff exported")
		a.config.AddRecent(path)
	}
	if err := project.SaveAppConfig(a.configPath, a.config); err != nil {
		a.log.WithError(err).Warn("failed to record recent takeoffs")
	}
	return nil
}
