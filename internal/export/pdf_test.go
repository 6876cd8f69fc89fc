package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CrateFill/internal/engine"
	"github.com/piwi3910/CrateFill/internal/model"
)

// buildTestResult packs eight 50 mm cubes into a 100 mm crate on a 10 mm
// grid (two levels of four) and reports one oversize unit as failed.
func buildTestResult(t *testing.T) model.PackResult {
	t.Helper()
	settings := model.DefaultSettings()
	settings.GridSize = 10

	c := model.NewContainer(100, 100, 100, 1000)
	c.Label = "Test Crate"
	items := []model.Item{
		model.NewItem("Cube", 50, 50, 50, 10, 8),
		model.NewItem("Huge", 200, 200, 200, 1, 1),
	}

	result, err := engine.New(settings).Pack(c, items)
	if err != nil {
		t.Fatalf("Pack returned error: %v", err)
	}
	if result.PlacedCount() != 8 {
		t.Fatalf("expected 8 placements, got %d", result.PlacedCount())
	}
	return result
}

func assertPDF(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
	if len(data) < 500 {
		t.Errorf("PDF file seems too small: %d bytes", len(data))
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := ExportPDF(path, buildTestResult(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertPDF(t, path)
}

func TestExportPDF_EmptyResult(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, model.PackResult{}); err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file for empty result")
	}
}

func TestExportPDF_WithoutLayerFill(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nochart.pdf")

	result := buildTestResult(t)
	result.LayerFill = nil

	if err := ExportPDF(path, result); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertPDF(t, path)
}

func TestBaseLevels(t *testing.T) {
	placements := []model.Placement{
		{Cell: [3]int{0, 0, 5}},
		{Cell: [3]int{0, 0, 0}},
		{Cell: [3]int{5, 0, 5}},
		{Cell: [3]int{0, 0, 2}},
	}
	got := baseLevels(placements)
	want := []int{0, 2, 5}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestColorForWraps(t *testing.T) {
	if colorFor(0) != colorFor(len(itemColors)) {
		t.Errorf("expected palette to wrap")
	}
	if colorFor(0) == colorFor(1) {
		t.Errorf("expected adjacent indices to differ")
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		w, h float64
		want float64
	}{
		{100, 50, 8},
		{100, 30, 7},
		{100, 10, 6},
	}
	for _, tt := range tests {
		if got := labelFontSize(tt.w, tt.h); got != tt.want {
			t.Errorf("labelFontSize(%v, %v) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}
