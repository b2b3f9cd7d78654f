package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/piwi3910/fencecalc/internal/engine"
	"github.com/piwi3910/fencecalc/internal/model"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printJSON writes v as indented JSON.
func (a *App) printJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// printLines writes a material table.
func (a *App) printLines(title string, lines []model.MaterialLine) {
	if title != "" {
		fmt.Fprintln(a.out, title)
	}
	tw := newTable(a.out)
	fmt.Fprintln(tw, "ITEM\tQTY\tUNIT\tNOTE")
	for _, l := range lines {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", l.Item, l.Quantity, l.Unit, l.Note)
	}
	tw.Flush()
}

func (a *App) printCost(cost model.CostSummary) {
	fmt.Fprintln(a.out, "Costing")
	tw := newTable(a.out)
	fmt.Fprintln(tw, "ITEM\tQTY\tUNIT PRICE\tTOTAL")
	for _, l := range cost.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", l.Item, l.Quantity, l.UnitPrice, l.Total)
	}
	fmt.Fprintf(tw, "\t\tSubtotal\t%.2f\n", cost.Subtotal)
	fmt.Fprintf(tw, "\t\tMarkup %.1f%%\t%.2f\n", cost.MarkupPercent, cost.Markup)
	fmt.Fprintf(tw, "\t\tTotal %s\t%.2f\n", cost.Currency, cost.Total)
	tw.Flush()
}

// printComparison writes one row per scenario. Declined scenarios show the
// reason in the NOTE column.
func (a *App) printComparison(results []engine.ComparisonResult) error {
	tw := newTable(a.out)
	fmt.Fprintln(tw, "SCENARIO\tPOSTS\tPANELS\tBAGS\tPOST\tΔPOSTS\tΔBAGS\tNOTE")
	for _, r := range results {
		if !r.OK {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t%s\n", r.Scenario.Name, r.Reason)
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\"\t%+d\t%+d\t\n",
			r.Scenario.Name, r.Result.Posts, r.Result.Panels, r.Result.ConcreteBags,
			r.Result.PostDiameter, r.PostsDelta, r.BagsDelta)
	}
	return tw.Flush()
}
