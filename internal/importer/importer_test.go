package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Name,Width,Height,Depth\nBox,600,300,400\nCrate,400,800,400\n", ','},
		{"semicolon", "Name;Width;Height;Depth\nBox;600;300;400\nCrate;400;800;400\n", ';'},
		{"tab", "Name\tWidth\tHeight\tDepth\nBox\t600\t300\t400\n", '\t'},
		{"pipe", "Name|Width|Height|Depth\nBox|600|300|400\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectCSVDelimiter([]byte(tt.data)); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Name", "Width", "Height", "Depth", "Weight", "Quantity", "Rotatable"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{Name: 0, Width: 1, Height: 2, Depth: 3, Weight: 4, Quantity: 5, Rotatable: 6}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AliasesAndOrder(t *testing.T) {
	row := []string{"QTY", "d", "SKU", "kg", "w", "H"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Quantity != 0 || mapping.Depth != 1 || mapping.Name != 2 ||
		mapping.Weight != 3 || mapping.Width != 4 || mapping.Height != 5 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Rotatable != -1 {
		t.Errorf("expected Rotatable unmapped, got %d", mapping.Rotatable)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Box", "600", "300", "400"})
	if isHeader {
		t.Error("expected no header for numeric row")
	}
	if mapping.Width != 1 || mapping.Depth != 3 || mapping.Rotatable != 6 {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	csv := "Name,Width,Height,Depth,Weight,Qty,Rotatable\n" +
		"Parcel,400,300,200,5.5,2,yes\n" +
		"Glass,1000,1500,20,30,1,no\n"

	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	p := result.Items[0]
	if p.Name != "Parcel" || p.Width != 400 || p.Height != 300 || p.Depth != 200 {
		t.Errorf("unexpected parcel %+v", p)
	}
	if p.Weight != 5.5 || p.Quantity != 2 || !p.Rotatable {
		t.Errorf("unexpected parcel attributes %+v", p)
	}
	if p.ID == "" {
		t.Error("expected generated item ID")
	}

	if result.Items[1].Rotatable {
		t.Error("expected glass to be non-rotatable")
	}
}

func TestImportCSVFromReader_Defaults(t *testing.T) {
	csv := "Name,Width,Height,Depth\nBox,100,100,100\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	it := result.Items[0]
	if it.Quantity != 1 || it.Weight != 0 || !it.Rotatable {
		t.Errorf("expected qty 1, weight 0, rotatable; got %+v", it)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	csv := "Box,600,300,400,12,3,no\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	it := result.Items[0]
	if it.Width != 600 || it.Height != 300 || it.Depth != 400 || it.Weight != 12 || it.Quantity != 3 || it.Rotatable {
		t.Errorf("unexpected positional item %+v", it)
	}
}

func TestImportCSVFromReader_UnrecognisedHeaderSkipped(t *testing.T) {
	csv := "Article,Breite,Hoehe,Tiefe\nBox,600,300,400\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"invalid width", "Box,abc,300,400", "Invalid width"},
		{"missing depth", "Box,100,300,", "Missing depth"},
		{"negative height", "Box,100,-3,400", "Height must be positive"},
		{"zero quantity", "Box,100,300,400,1,0", "Invalid quantity"},
		{"negative weight", "Box,100,300,400,-1,1", "Invalid weight"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csv := "Name,Width,Height,Depth,Weight,Qty\n" + tt.row + "\n"
			result := ImportCSVFromReader(strings.NewReader(csv), ',')
			if len(result.Items) != 0 {
				t.Errorf("expected no items, got %d", len(result.Items))
			}
			if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], tt.want) {
				t.Errorf("expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	csv := "Name,Width,Height,Depth\nA,100,100,100\nB,x,100,100\n\nC,200,200,200\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Items) != 2 {
		t.Errorf("expected 2 valid items, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyName(t *testing.T) {
	csv := "Name,Width,Height,Depth\n,100,100,100\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Items) != 1 || result.Items[0].Name != "Item 1" {
		t.Errorf("expected generated name 'Item 1', got %+v", result.Items)
	}
}

func TestImportCSVFromReader_UnknownRotatableWarns(t *testing.T) {
	csv := "Name,Width,Height,Depth,Rotatable\nBox,100,100,100,maybe\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Items) != 1 || !result.Items[0].Rotatable {
		t.Fatalf("expected one rotatable item, got %+v", result.Items)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Unknown rotatable value 'maybe'") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected rotatable warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_MissingRequiredColumnInHeader(t *testing.T) {
	csv := "Name,Width,Height\nBox,100,100\n"
	result := ImportCSVFromReader(strings.NewReader(csv), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Depth") {
		t.Errorf("expected missing Depth error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

func TestParseRotatable(t *testing.T) {
	tests := []struct {
		in     string
		want   bool
		wantOK bool
	}{
		{"", true, true},
		{"Yes", true, true},
		{"1", true, true},
		{"no", false, true},
		{"FALSE", false, true},
		{"upright", false, true},
		{"sideways", true, false},
	}
	for _, tt := range tests {
		got, ok := parseRotatable(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("parseRotatable(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

// ─── File Import Tests ─────────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backlog.csv")
	data := "Name;Width;Height;Depth;Qty\nBox;600;300;400;2\nCrate;400;800;400;1\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	result := ImportCSV(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "semicolon") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	result := ImportCSV(path)
	if len(result.Errors) != 1 || result.Errors[0] != "File is empty" {
		t.Errorf("expected 'File is empty', got %v", result.Errors)
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backlog.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "Depth", "Weight", "Quantity"},
		{"Parcel", 400, 300, 200, 5, 2},
		{"Drum", 600, 900, 600, 80, 1},
	})

	result := ImportExcel(path)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[1].Name != "Drum" || result.Items[1].Weight != 80 {
		t.Errorf("unexpected drum %+v", result.Items[1])
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Width", "Height", "Depth"},
		{"Bad", "wide", 300, 200},
	})

	result := ImportExcel(path)
	if len(result.Items) != 0 || len(result.Errors) != 1 {
		t.Errorf("expected one error and no items, got %d items, errors %v", len(result.Items), result.Errors)
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	result := ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}
