package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/fencecalc/internal/importer"
	"github.com/piwi3910/fencecalc/internal/model"
)

// importRuns picks the importer by file extension.
func importRuns(path string, scale float64) (importer.ImportResult, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return importer.ImportRunsCSV(path), nil
	case ".xlsx", ".xlsm":
		return importer.ImportRunsExcel(path), nil
	case ".dxf":
		return importer.ImportDXF(path, scale), nil
	default:
		return importer.ImportResult{}, fmt.Errorf("unsupported file type %q (use .csv, .xlsx or .dxf)", filepath.Ext(path))
	}
}

func newRunsCommand(app *App) *cobra.Command {
	f := &specFlags{}
	var scale float64

	cmd := &cobra.Command{
		Use:   "runs <file.csv|file.xlsx|file.dxf>",
		Short: "Estimate every fence run listed in a spreadsheet or drawn in a DXF site plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			base, err := app.spec(cmd, f)
			if err != nil {
				return err
			}

			result, err := importRuns(path, scale)
			if err != nil {
				return err
			}
			entry := app.log.WithField("file", path)
			for _, w := range result.Warnings {
				entry.Warn(w)
			}
			for _, e := range result.Errors {
				entry.Error(e)
			}
			if len(result.Runs) == 0 {
				return fmt.Errorf("no fence runs imported from %s", path)
			}

			// Gate widths missing from the file fall back to the configured default.
			for i := range result.Runs {
				if result.Runs[i].GateCount > 0 && result.Runs[i].GateWidth == 0 {
					result.Runs[i].GateWidth = base.GateWidth
					if result.Runs[i].GateWidth == 0 {
						result.Runs[i].GateWidth = app.config.DefaultGateWidth
					}
				}
			}

			summary := model.EstimateRuns(base, result.Runs)
			for _, d := range summary.Declined {
				entry.WithFields(logrus.Fields{"run": d.Run.Label, "length": d.Run.Length}).
					Warnf("run declined: %s", d.Reason)
			}
			entry.WithFields(logrus.Fields{
				"runs":     len(result.Runs),
				"declined": len(summary.Declined),
			}).Info("runs estimated")

			if app.jsonOutput {
				return app.printJSON(summary)
			}

			unit := base.Unit.Abbrev()
			tw := newTable(app.out)
			fmt.Fprintf(tw, "RUN\tLENGTH (%s)\tGATES\tPOSTS\tPANELS\tRAILS\n", unit)
			for _, r := range summary.Results {
				fmt.Fprintf(tw, "%s\t%.2f\t%d\t%d\t%d\t%d\n",
					r.Run.Label, r.Run.Length, r.Run.GateCount, r.Result.Posts, r.Result.Panels, r.Result.TotalRails)
			}
			fmt.Fprintf(tw, "TOTAL\t%.2f\t%d\t%d\t%d\t%d\n",
				summary.TotalLength, summary.TotalGates, summary.TotalPosts, summary.TotalPanels, summary.TotalRails)
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(app.out, "Concrete: %d bags for %d %d\" posts\n",
				summary.TotalBags, summary.TotalPosts, summary.PostDiameter)

			if len(summary.Results) == 0 {
				return app.declined("runs", summary.Declined[0].Reason, logrus.Fields{"file": path})
			}
			return nil
		},
	}

	f.register(cmd, false)
	cmd.Flags().Float64Var(&scale, "scale", 1, "multiplier from DXF drawing units to run length (e.g. 0.001 for mm drawings)")
	return cmd
}
