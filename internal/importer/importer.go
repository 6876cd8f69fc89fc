// Package importer reads packing backlogs from CSV, Excel, JSON and DXF
// files. Tabular imports detect the delimiter and map columns by
// case-insensitive header aliases.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CrateFill/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []model.Item
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Name      int
	Width     int
	Height    int
	Depth     int
	Weight    int
	Quantity  int
	Rotatable int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"name":      {"name", "label", "item", "description", "desc", "sku"},
	"width":     {"width", "w", "x", "length", "len"},
	"height":    {"height", "h", "z"},
	"depth":     {"depth", "d", "y", "breadth"},
	"weight":    {"weight", "wt", "kg", "mass"},
	"quantity":  {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
	"rotatable": {"rotatable", "rotate", "rotation", "can rotate", "allow rotation"},
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
// mapping (name, width, height, depth, weight, quantity, rotatable) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"name":      &mapping.Name,
		"width":     &mapping.Width,
		"height":    &mapping.Height,
		"depth":     &mapping.Depth,
		"weight":    &mapping.Weight,
		"quantity":  &mapping.Quantity,
		"rotatable": &mapping.Rotatable,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Name:      0,
			Width:     1,
			Height:    2,
			Depth:     3,
			Weight:    4,
			Quantity:  5,
			Rotatable: 6,
		}, false
	}

	return mapping, true
}

// parseRotatable converts a yes/no cell. Empty means rotatable.
func parseRotatable(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "yes", "y", "true", "1", "x":
		return true, true
	case "no", "n", "false", "0", "-", "fixed", "upright":
		return false, true
	default:
		return true, false
	}
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseDimension(row []string, idx int, field, rowLabel string) (float64, string) {
	raw := getCell(row, idx)
	if raw == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, field)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, field, raw)
	}
	if v <= 0 {
		return 0, fmt.Sprintf("%s: %s must be positive", rowLabel, strings.ToUpper(field[:1])+field[1:])
	}
	return v, ""
}

// parseRow extracts an Item from a row using the given column mapping.
// Returns the item, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.Item, string, []string) {
	name := getCell(row, mapping.Name)
	if name == "" {
		name = fmt.Sprintf("Item %d", itemCount+1)
	}

	width, errMsg := parseDimension(row, mapping.Width, "width", rowLabel)
	if errMsg != "" {
		return model.Item{}, errMsg, nil
	}
	height, errMsg := parseDimension(row, mapping.Height, "height", rowLabel)
	if errMsg != "" {
		return model.Item{}, errMsg, nil
	}
	depth, errMsg := parseDimension(row, mapping.Depth, "depth", rowLabel)
	if errMsg != "" {
		return model.Item{}, errMsg, nil
	}

	weight := 0.0
	if raw := getCell(row, mapping.Weight); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return model.Item{}, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, raw), nil
		}
		weight = v
	}

	qty := 1
	if raw := getCell(row, mapping.Quantity); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return model.Item{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, raw), nil
		}
		qty = v
	}

	item := model.NewItem(name, width, height, depth, weight, qty)

	var warnings []string
	raw := getCell(row, mapping.Rotatable)
	rot, ok := parseRotatable(raw)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("%s: Unknown rotatable value '%s', defaulting to yes", rowLabel, raw))
	}
	item.Rotatable = rot

	return item, "", warnings
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

// ImportCSV imports items from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
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

	if len(records) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports items from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
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

// ImportExcel imports items from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
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

		missing := []string{}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Depth == -1 {
			missing = append(missing, "Depth")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// Unrecognised header: skip it but keep positional mapping.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
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
		item, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Items))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Items = append(result.Items, item)
	}

	return result
}
