package export

import (
	"bytes"
	"fmt"
	"image/color"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/piwi3910/CrateFill/internal/model"
)

// maxNominalLabels is the layer count above which the x axis switches from
// per-layer labels to a numeric axis.
const maxNominalLabels = 30

// newLayerPlot builds a bar chart of occupied fraction (percent) per height cell.
func newLayerPlot(result model.PackResult) (*plot.Plot, error) {
	if len(result.LayerFill) == 0 {
		return nil, fmt.Errorf("no layers to chart")
	}

	values := make(plotter.Values, len(result.LayerFill))
	for i, f := range result.LayerFill {
		values[i] = f * 100
	}

	p := plot.New()
	p.Title.Text = "Layer Fill"
	p.X.Label.Text = fmt.Sprintf("Height cell (%d mm)", result.Settings.GridSize)
	p.Y.Label.Text = "Occupied (%)"
	p.Y.Min = 0
	p.Y.Max = 100

	bars, err := plotter.NewBarChart(values, vg.Points(barWidth(len(values))))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 33, G: 150, B: 243, A: 255}
	p.Add(bars)

	if len(values) <= maxNominalLabels {
		names := make([]string, len(values))
		for i := range names {
			names[i] = strconv.Itoa(i)
		}
		p.NominalX(names...)
	}

	stats := ComputeLayerStats(result)
	if stats.Layers > 0 {
		mean := plotter.NewFunction(func(float64) float64 { return stats.Mean * 100 })
		mean.Color = color.RGBA{R: 244, G: 67, B: 54, A: 255}
		mean.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(mean)
		p.Legend.Add("mean of loaded layers", mean)
		p.Legend.Top = true
	}

	return p, nil
}

func barWidth(n int) float64 {
	switch {
	case n <= 10:
		return 20
	case n <= 40:
		return 8
	default:
		return 3
	}
}

// LayerFillChart renders the layer fill bar chart as PNG bytes.
func LayerFillChart(result model.PackResult, width, height vg.Length) ([]byte, error) {
	p, err := newLayerPlot(result)
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to create chart writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveLayerFillChart writes the chart to path; the extension selects the format.
func SaveLayerFillChart(path string, result model.PackResult) error {
	p, err := newLayerPlot(result)
	if err != nil {
		return err
	}
	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
