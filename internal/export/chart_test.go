package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/plot/vg"

	"github.com/piwi3910/CrateFill/internal/model"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestLayerFillChart(t *testing.T) {
	png, err := LayerFillChart(buildTestResult(t), 4*vg.Inch, 3*vg.Inch)
	if err != nil {
		t.Fatalf("LayerFillChart returned error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestLayerFillChart_ManyLayers(t *testing.T) {
	fill := make([]float64, 120)
	for i := range fill {
		fill[i] = float64(i%10) / 10
	}
	result := model.PackResult{LayerFill: fill, Settings: model.DefaultSettings()}

	png, err := LayerFillChart(result, 4*vg.Inch, 3*vg.Inch)
	if err != nil {
		t.Fatalf("LayerFillChart returned error: %v", err)
	}
	if !bytes.HasPrefix(png, pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestLayerFillChart_Empty(t *testing.T) {
	if _, err := LayerFillChart(model.PackResult{}, vg.Inch, vg.Inch); err == nil {
		t.Fatal("expected error for result without layers")
	}
}

func TestSaveLayerFillChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fill.png")
	if err := SaveLayerFillChart(path, buildTestResult(t)); err != nil {
		t.Fatalf("SaveLayerFillChart returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("chart file not written: %v", err)
	}
}
