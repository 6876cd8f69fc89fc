package export

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/piwi3910/CrateFill/internal/model"
)

// LayerStats summarises fill across the loaded height cells, from the floor
// up to the highest occupied layer.
type LayerStats struct {
	Layers int     `json:"layers"`
	Mean   float64 `json:"mean"`    // fraction 0-1
	StdDev float64 `json:"std_dev"` // fraction
	Peak   float64 `json:"peak"`    // fraction
}

// ComputeLayerStats ignores the empty headroom above the load.
func ComputeLayerStats(result model.PackResult) LayerStats {
	loaded := loadedLayers(result.LayerFill)
	if len(loaded) == 0 {
		return LayerStats{}
	}
	mean, std := stat.MeanStdDev(loaded, nil)
	if len(loaded) == 1 {
		std = 0
	}
	return LayerStats{
		Layers: len(loaded),
		Mean:   mean,
		StdDev: std,
		Peak:   floats.Max(loaded),
	}
}

func loadedLayers(fill []float64) []float64 {
	top := 0
	for i, f := range fill {
		if f > 0 {
			top = i + 1
		}
	}
	return fill[:top]
}

// WriteReport writes a plain-text summary of a pack run.
func WriteReport(w io.Writer, result model.PackResult) error {
	c := result.Container
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	label := c.Label
	if label == "" {
		label = "container"
	}
	fmt.Fprintf(tw, "Container:\t%s %.0f x %.0f x %.0f mm\n", label, c.Width, c.Height, c.Depth)
	fmt.Fprintf(tw, "Grid:\t%d mm, support >= %.0f%%, rotation %s\n",
		result.Settings.GridSize, result.Settings.SupportThreshold*100, onOff(result.Settings.AllowRotation))
	fmt.Fprintf(tw, "Placed:\t%d of %d units\n", result.PlacedCount(), result.Attempted)
	fmt.Fprintf(tw, "Utilization:\t%.2f%%\n", result.Utilization)
	fmt.Fprintf(tw, "Weight:\t%.2f / %.2f kg\n", result.TotalWeight, c.MaxWeight)
	fmt.Fprintf(tw, "Load height:\t%d mm\n", result.MaxHeight())

	stats := ComputeLayerStats(result)
	if stats.Layers > 0 {
		fmt.Fprintf(tw, "Layer fill:\tmean %.1f%%, sd %.1f%%, peak %.1f%% over %d layers\n",
			stats.Mean*100, stats.StdDev*100, stats.Peak*100, stats.Layers)
	}
	fmt.Fprintf(tw, "Elapsed:\t%s\n", result.Elapsed)

	if summary := result.Summary(); len(summary) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "NAME\tPLACED\tWEIGHT (kg)")
		for _, s := range summary {
			fmt.Fprintf(tw, "%s\t%d\t%.2f\n", s.Name, s.Count, s.TotalWeight)
		}
	}

	if len(result.Failed) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "NOT LOADED\tCOUNT")
		for _, name := range result.FailedNames() {
			fmt.Fprintf(tw, "%s\t%d\n", name, result.Failed[name])
		}
	}

	if len(result.Placements) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "#\tNAME\tX\tY\tZ\tW\tD\tH\tVOXELS\tCONTACT")
		for i, p := range result.Placements {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\n",
				i+1, p.Name,
				p.Position[0], p.Position[1], p.Position[2],
				p.Size[0], p.Size[1], p.Size[2],
				p.Voxels, p.Contact)
		}
	}

	return tw.Flush()
}

// SaveReport writes the text report to path.
func SaveReport(path string, result model.PackResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := WriteReport(f, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
