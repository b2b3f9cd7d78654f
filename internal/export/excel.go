package export

import (
	"bytes"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/fencecalc/internal/model"
)

const (
	materialsSheet = "Takeoff"
	costingSheet   = "Costing"
)

// ExportExcel writes the takeoff workbook produced by GenerateExcel to path.
func ExportExcel(path string, t model.Takeoff) error {
	data, err := GenerateExcel(t)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

// GenerateExcel builds a workbook with one row per material line and, when
// the takeoff is costed, a second sheet with the priced lines.
func GenerateExcel(t model.Takeoff) ([]byte, error) {
	if t.Empty() {
		return nil, fmt.Errorf("no takeoff results to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), materialsSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	styles, err := newSheetStyles(f)
	if err != nil {
		return nil, err
	}

	if err := writeMaterialsSheet(f, styles, t); err != nil {
		return nil, err
	}
	if t.Cost != nil {
		if err := writeCostingSheet(f, styles, *t.Cost); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetStyles holds the style IDs shared by both sheets.
type sheetStyles struct {
	title        int
	subtitle     int
	header       int
	section      int
	item         int
	summaryLabel int
	summaryValue int
}

func newSheetStyles(f *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error

	// Title style: bold, 16pt.
	s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return s, fmt.Errorf("create title style: %w", err)
	}

	s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return s, fmt.Errorf("create subtitle style: %w", err)
	}

	// Column header style: bold, white text, charcoal background, centered.
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create header style: %w", err)
	}

	// Section rows: bold on a light fill.
	s.section, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6E6"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create section style: %w", err)
	}

	s.item, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return s, fmt.Errorf("create item style: %w", err)
	}

	s.summaryLabel, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return s, fmt.Errorf("create summary label style: %w", err)
	}

	s.summaryValue, err = f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 11},
		NumFmt: 2, // 0.00
	})
	if err != nil {
		return s, fmt.Errorf("create summary value style: %w", err)
	}

	return s, nil
}

// writeTitle fills rows 1-3 with the title, reference and date, merged
// across the sheet's columns.
func writeTitle(f *excelize.File, sheet, lastCol string, styles sheetStyles, lines [3]string) error {
	for i, text := range lines {
		if text == "" {
			continue
		}
		row := fmt.Sprintf("%d", i+1)
		if err := f.MergeCell(sheet, "A"+row, lastCol+row); err != nil {
			return fmt.Errorf("merge title row %s: %w", row, err)
		}
		f.SetCellValue(sheet, "A"+row, sanitizeExcelCell(text))
		style := styles.subtitle
		if i == 0 {
			style = styles.title
		}
		f.SetCellStyle(sheet, "A"+row, lastCol+row, style)
	}
	return nil
}

// writeHeaderRow writes column headers and widths on row 5.
func writeHeaderRow(f *excelize.File, sheet string, styles sheetStyles, headers []string, widths []float64) error {
	for i, h := range headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("column name %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
		f.SetCellValue(sheet, col+"5", h)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(sheet, "A5", lastCol+"5", styles.header)
	return nil
}

func writeMaterialsSheet(f *excelize.File, styles sheetStyles, t model.Takeoff) error {
	sheet := materialsSheet
	lastCol := "E"

	spec := t.Request.Fence
	subtitle := fmt.Sprintf("%s, %.2f %s at %.2f %s spacing, height %.2f %s",
		spec.FenceType, spec.Length, spec.Unit.Abbrev(), spec.PostSpacing, spec.Unit.Abbrev(), spec.Height, spec.Unit.Abbrev())
	if err := writeTitle(f, sheet, lastCol, styles, [3]string{
		"Fence Takeoff: " + t.Name,
		"Ref: " + t.ID + "  " + subtitle,
		"Date: " + t.CreatedAt,
	}); err != nil {
		return err
	}

	headers := []string{"Section", "Item", "Qty", "Unit", "Note"}
	if err := writeHeaderRow(f, sheet, styles, headers, []float64{36, 26, 10, 8, 20}); err != nil {
		return err
	}

	row := 6
	for _, section := range t.Lines() {
		rowStr := fmt.Sprintf("%d", row)
		if err := f.MergeCell(sheet, "A"+rowStr, lastCol+rowStr); err != nil {
			return fmt.Errorf("merge section row: %w", err)
		}
		f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(section.Title))
		f.SetCellStyle(sheet, "A"+rowStr, lastCol+rowStr, styles.section)
		row++

		for _, line := range section.Lines {
			rowStr = fmt.Sprintf("%d", row)
			f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(section.Title))
			f.SetCellValue(sheet, "B"+rowStr, sanitizeExcelCell(line.Item))
			if line.Quantity.Applicable {
				f.SetCellValue(sheet, "C"+rowStr, line.Quantity.Count)
			} else {
				f.SetCellValue(sheet, "C"+rowStr, line.Quantity.String())
			}
			f.SetCellValue(sheet, "D"+rowStr, line.Unit)
			f.SetCellValue(sheet, "E"+rowStr, sanitizeExcelCell(line.Note))
			f.SetCellStyle(sheet, "A"+rowStr, lastCol+rowStr, styles.item)
			row++
		}
	}

	return nil
}

func writeCostingSheet(f *excelize.File, styles sheetStyles, cost model.CostSummary) error {
	sheet := costingSheet
	lastCol := "D"

	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create costing sheet: %w", err)
	}

	currency := cost.Currency
	if currency == "" {
		currency = "-"
	}
	if err := writeTitle(f, sheet, lastCol, styles, [3]string{
		"Material Costing",
		"Currency: " + currency,
		"",
	}); err != nil {
		return err
	}

	headers := []string{"Item", "Qty", "Unit Price", "Total"}
	if err := writeHeaderRow(f, sheet, styles, headers, []float64{30, 10, 14, 14}); err != nil {
		return err
	}

	row := 6
	for _, line := range cost.Lines {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rowStr, sanitizeExcelCell(line.Item))
		f.SetCellValue(sheet, "B"+rowStr, line.Quantity)
		f.SetCellValue(sheet, "C"+rowStr, line.UnitPrice)
		f.SetCellValue(sheet, "D"+rowStr, line.Total)
		f.SetCellStyle(sheet, "A"+rowStr, lastCol+rowStr, styles.item)
		row++
	}

	// Skip a blank row.
	row++

	summary := []struct {
		label string
		value float64
	}{
		{"Subtotal:", cost.Subtotal},
		{fmt.Sprintf("Markup (%.1f%%):", cost.MarkupPercent), cost.Markup},
		{"Total:", cost.Total},
	}
	for _, s := range summary {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "C"+rowStr, s.label)
		f.SetCellStyle(sheet, "C"+rowStr, "C"+rowStr, styles.summaryLabel)
		f.SetCellValue(sheet, "D"+rowStr, s.value)
		f.SetCellStyle(sheet, "D"+rowStr, "D"+rowStr, styles.summaryValue)
		row++
	}

	if len(cost.Unpriced) > 0 {
		row++
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheet, "A"+rowStr, "Items without a price:")
		f.SetCellStyle(sheet, "A"+rowStr, "A"+rowStr, styles.summaryValue)
		row++
		for _, item := range cost.Unpriced {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), sanitizeExcelCell(item))
			row++
		}
	}

	return nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{
			Type:  side,
			Color: "#000000",
			Style: 1, // thin
		}
	}
	return borders
}
