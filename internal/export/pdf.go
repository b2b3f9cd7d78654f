// Package export provides functionality for exporting fence takeoffs
// to various file formats.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/fencecalc/internal/model"
)

// Page layout constants (A4 portrait in mm).
const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	rowHeight    = 6.0
	qrSize       = 32.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// Material table columns: Item, Qty, Unit, Note.
var materialColWidths = []float64{70, 25, 20, 65}

// ExportPDF writes a takeoff sheet: job inputs, the estimate, the catalog
// bills of materials and the costing when present. A QR code in the header
// encodes the JSON summary of the takeoff. companyName is printed in the
// header when set.
func ExportPDF(path string, t model.Takeoff, companyName string) error {
	if t.Empty() {
		return fmt.Errorf("no takeoff results to export")
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.AddPage()

	y := renderHeader(pdf, t, companyName)
	if err := drawSummaryQR(pdf, SummarizeTakeoff(t), pageWidth-marginRight-qrSize, marginTop, qrSize); err != nil {
		return err
	}
	if y < marginTop+qrSize+4 {
		y = marginTop + qrSize + 4
	}

	for _, section := range t.Lines() {
		y = renderSection(pdf, section, y)
	}

	if t.Cost != nil {
		renderCost(pdf, *t.Cost, y)
	}

	renderFooter(pdf)
	return pdf.OutputFileAndClose(path)
}

// renderHeader draws the title and the job inputs, returning the next free y.
func renderHeader(pdf *fpdf.Fpdf, t model.Takeoff, companyName string) float64 {
	textWidth := contentWidth - qrSize - 5
	y := marginTop

	if companyName != "" {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(textWidth, 5, companyName, "", 0, "L", false, 0, "")
		y += 6
	}

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(textWidth, headerHeight, "Fence Takeoff: "+t.Name, "", 0, "L", false, 0, "")
	y += headerHeight

	spec := t.Request.Fence
	unit := spec.Unit.Abbrev()
	items := []struct {
		label string
		value string
	}{
		{"Reference", t.ID},
		{"Created", t.CreatedAt},
		{"Fence Style", spec.FenceType},
		{"Run Length", fmt.Sprintf("%.2f %s", spec.Length, unit)},
		{"Post Spacing", fmt.Sprintf("%.2f %s", spec.PostSpacing, unit)},
		{"Height", fmt.Sprintf("%.2f %s", spec.Height, unit)},
	}
	if spec.GateCount > 0 {
		items = append(items, struct {
			label string
			value string
		}{"Gates", fmt.Sprintf("%d x %.2f %s", spec.GateCount, spec.GateWidth, unit)})
	}
	if t.Request.GateType != "" {
		items = append(items, struct {
			label string
			value string
		}{"Gate Type", t.Request.GateType})
	}

	pdf.SetFont("Helvetica", "", 9)
	for _, item := range items {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(30, 5, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(textWidth-30, 5, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		y += 5
	}

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, y+2, pageWidth-marginRight, y+2)
	return y + 6
}

// ensureSpace starts a new page when fewer than need mm remain below y.
func ensureSpace(pdf *fpdf.Fpdf, y, need float64) float64 {
	if y+need <= pageHeight-marginBottom-6 {
		return y
	}
	renderFooter(pdf)
	pdf.AddPage()
	return marginTop
}

// renderTableHeader draws a grey header row for a table.
func renderTableHeader(pdf *fpdf.Fpdf, headers []string, widths []float64, y float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	pdf.SetTextColor(0, 0, 0)
	x := marginLeft
	for i, header := range headers {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[i], rowHeight, header, "1", 0, "C", true, 0, "")
		x += widths[i]
	}
}

// renderRow draws one table row with alternating background.
func renderRow(pdf *fpdf.Fpdf, cells []string, widths []float64, aligns []string, y float64, index int) {
	if index%2 == 0 {
		pdf.SetFillColor(245, 245, 245)
	} else {
		pdf.SetFillColor(255, 255, 255)
	}
	pdf.SetFont("Helvetica", "", 9)
	x := marginLeft
	for j, cell := range cells {
		pdf.SetXY(x, y)
		pdf.CellFormat(widths[j], rowHeight, cell, "1", 0, aligns[j], true, 0, "")
		x += widths[j]
	}
}

// renderSection draws a titled material table and returns the next free y.
func renderSection(pdf *fpdf.Fpdf, section model.TakeoffSection, y float64) float64 {
	y = ensureSpace(pdf, y, 9+2*rowHeight)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, section.Title, "", 0, "L", false, 0, "")
	y += 9

	headers := []string{"Item", "Qty", "Unit", "Note"}
	renderTableHeader(pdf, headers, materialColWidths, y)
	y += rowHeight

	aligns := []string{"L", "R", "C", "L"}
	for i, line := range section.Lines {
		if next := ensureSpace(pdf, y, rowHeight); next != y {
			y = next
			renderTableHeader(pdf, headers, materialColWidths, y)
			y += rowHeight
		}
		cells := []string{line.Item, line.Quantity.String(), line.Unit, line.Note}
		renderRow(pdf, cells, materialColWidths, aligns, y, i)
		y += rowHeight
	}

	return y + 6
}

// renderCost draws the priced lines and totals and returns the next free y.
func renderCost(pdf *fpdf.Fpdf, cost model.CostSummary, y float64) float64 {
	y = ensureSpace(pdf, y, 9+2*rowHeight)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(contentWidth, 7, "Costing", "", 0, "L", false, 0, "")
	y += 9

	widths := []float64{80, 25, 37.5, 37.5}
	headers := []string{"Item", "Qty", "Unit Price", "Total"}
	renderTableHeader(pdf, headers, widths, y)
	y += rowHeight

	aligns := []string{"L", "R", "R", "R"}
	for i, line := range cost.Lines {
		if next := ensureSpace(pdf, y, rowHeight); next != y {
			y = next
			renderTableHeader(pdf, headers, widths, y)
			y += rowHeight
		}
		cells := []string{
			line.Item,
			fmt.Sprintf("%d", line.Quantity),
			formatMoney(cost.Currency, line.UnitPrice),
			formatMoney(cost.Currency, line.Total),
		}
		renderRow(pdf, cells, widths, aligns, y, i)
		y += rowHeight
	}

	y = ensureSpace(pdf, y, 4*rowHeight+10)
	y += 3
	totals := []struct {
		label string
		value float64
	}{
		{"Subtotal", cost.Subtotal},
		{fmt.Sprintf("Markup (%.1f%%)", cost.MarkupPercent), cost.Markup},
		{"Total", cost.Total},
	}
	for _, item := range totals {
		pdf.SetFont("Helvetica", "", 10)
		if item.label == "Total" {
			pdf.SetFont("Helvetica", "B", 10)
		}
		pdf.SetXY(marginLeft+105, y)
		pdf.CellFormat(37.5, rowHeight, item.label+":", "", 0, "R", false, 0, "")
		pdf.CellFormat(37.5, rowHeight, formatMoney(cost.Currency, item.value), "", 0, "R", false, 0, "")
		y += rowHeight
	}

	if len(cost.Unpriced) > 0 {
		y += 4
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(contentWidth, 6, "WARNING: Items without a price", "", 0, "L", false, 0, "")
		y += 7

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, item := range cost.Unpriced {
			y = ensureSpace(pdf, y, 5)
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(contentWidth-5, 5, "- "+item, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	return y + 6
}

// renderFooter prints the footer line on the current page.
func renderFooter(pdf *fpdf.Fpdf) {
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by FenceCalc - Fence Materials Estimator | Page %d", pdf.PageNo())
	pdf.CellFormat(contentWidth, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// formatMoney renders an amount with an optional currency code.
func formatMoney(currency string, v float64) string {
	if currency == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%s %.2f", currency, v)
}
