// Package importer provides CSV, Excel and DXF import of fence runs.
// It supports automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/fencecalc/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Runs     []model.FenceRun
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label     int
	Length    int
	GateCount int
	GateWidth int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":      {"label", "name", "run", "section", "description", "desc", "side", "boundary"},
	"length":     {"length", "len", "run length", "distance", "meters", "metres", "feet", "m", "ft"},
	"gate_count": {"gates", "gate", "gate count", "gate qty", "num gates", "gate_count"},
	"gate_width": {"gate width", "gate size", "gate_width", "opening", "gate w"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping (label, length, gates, gate width) and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Length: -1, GateCount: -1, GateWidth: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "label":
					if mapping.Label == -1 {
						mapping.Label = i
					}
				case "length":
					if mapping.Length == -1 {
						mapping.Length = i
					}
				case "gate_count":
					if mapping.GateCount == -1 {
						mapping.GateCount = i
					}
				case "gate_width":
					if mapping.GateWidth == -1 {
						mapping.GateWidth = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{Label: 0, Length: 1, GateCount: 2, GateWidth: 3}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// trimUnit lowercases s and drops a trailing unit ("12.5m" -> "12.5").
func trimUnit(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, suffix := range []string{"metres", "meters", "feet", "ft", "m"} {
		if strings.HasSuffix(s, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(s, suffix))
		}
	}
	return s
}

// looksNumeric reports whether s reads as a number, finite or not.
func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(trimUnit(s), 64)
	return err == nil
}

// parseNumber accepts plain numbers and numbers with a trailing unit ("12.5m").
// NaN and infinities are rejected.
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(trimUnit(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

// parseRow extracts a FenceRun from a row using the given column mapping.
// Returns the run, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, runCount int) (model.FenceRun, string, string) {
	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Run %d", runCount+1)
	}

	lengthStr := getCell(row, mapping.Length)
	if lengthStr == "" {
		return model.FenceRun{}, fmt.Sprintf("%s: Missing length value", rowLabel), ""
	}
	length, err := parseNumber(lengthStr)
	if err != nil {
		return model.FenceRun{}, fmt.Sprintf("%s: Invalid length '%s'", rowLabel, lengthStr), ""
	}
	if length <= 0 {
		return model.FenceRun{}, fmt.Sprintf("%s: Length must be positive", rowLabel), ""
	}

	run := model.FenceRun{Label: label, Length: length}

	gatesStr := getCell(row, mapping.GateCount)
	if gatesStr != "" {
		gates, err := strconv.Atoi(gatesStr)
		if err != nil || gates < 0 {
			return model.FenceRun{}, fmt.Sprintf("%s: Invalid gate count '%s'", rowLabel, gatesStr), ""
		}
		run.GateCount = gates
	}

	var warning string
	widthStr := getCell(row, mapping.GateWidth)
	if widthStr != "" {
		width, err := parseNumber(widthStr)
		if err != nil || width < 0 {
			return model.FenceRun{}, fmt.Sprintf("%s: Invalid gate width '%s'", rowLabel, widthStr), ""
		}
		run.GateWidth = width
	}
	if run.GateCount > 0 && run.GateWidth == 0 {
		warning = fmt.Sprintf("%s: %d gate(s) without a gate width, no length deducted", rowLabel, run.GateCount)
	}
	if run.GateCount == 0 && run.GateWidth > 0 {
		warning = fmt.Sprintf("%s: Gate width given without gates, ignoring", rowLabel)
		run.GateWidth = 0
	}

	return run, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportRunsCSV imports fence runs from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportRunsCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportRunsCSVFromReader imports fence runs from a CSV reader with a known delimiter.
func ImportRunsCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportRunsExcel imports fence runs from the first sheet of an Excel workbook.
func ImportRunsExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Length == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Length")
			return result
		}
	} else if len(rows[0]) >= 2 {
		// An unrecognised header still has a non-numeric length column.
		if !looksNumeric(rows[0][1]) {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		run, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Runs))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Runs = append(result.Runs, run)
	}

	return result
}
