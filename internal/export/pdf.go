// Package export renders pack results to PDF load plans, QR-coded labels,
// Excel manifests, text reports and layer fill charts.
package export

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"github.com/go-pdf/fpdf"
	"gonum.org/v1/plot/vg"

	"github.com/piwi3910/CrateFill/internal/model"
)

// itemColor represents an RGB color for a placed unit.
type itemColor struct {
	R, G, B int
}

// itemColors is indexed by Placement.ColorIndex modulo its length.
var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(idx int) itemColor {
	return itemColors[idx%len(itemColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a load plan: one top-view page per level at which units
// rest, followed by a summary page with statistics and the layer fill chart.
func ExportPDF(path string, result model.PackResult) error {
	if len(result.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	levels := baseLevels(result.Placements)
	for i, z := range levels {
		pdf.AddPage()
		renderLevelPage(pdf, result, z, i+1, len(levels))
	}

	pdf.AddPage()
	if err := renderSummaryPage(pdf, result); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// baseLevels returns the distinct height cells on which units rest, ascending.
func baseLevels(placements []model.Placement) []int {
	seen := make(map[int]bool)
	var levels []int
	for _, p := range placements {
		if !seen[p.Cell[2]] {
			seen[p.Cell[2]] = true
			levels = append(levels, p.Cell[2])
		}
	}
	sort.Ints(levels)
	return levels
}

// renderLevelPage draws the container footprint at height cell z. Units
// resting on z are drawn in their color; units passing through z from
// below are drawn grey.
func renderLevelPage(pdf *fpdf.Fpdf, result model.PackResult, z, levelNum, levelCount int) {
	c := result.Container
	g := result.Settings.GridSize

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Level %d of %d: height %d mm", levelNum, levelCount, z*g)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	var resting, through []model.Placement
	for _, p := range result.Placements {
		switch {
		case p.Cell[2] == z:
			resting = append(resting, p)
		case p.Cell[2] < z && p.Top() > z:
			through = append(through, p)
		}
	}

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	fill := 0.0
	if z < len(result.LayerFill) {
		fill = result.LayerFill[z] * 100
	}
	stats := fmt.Sprintf("Loaded here: %d | Passing through: %d | Layer fill: %.1f%%",
		len(resting), len(through), fill)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight

	scale := math.Min(drawWidth/c.Width, drawHeight/c.Depth)
	canvasW := c.Width * scale
	canvasH := c.Depth * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Container floor
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for _, p := range through {
		pdf.SetFillColor(190, 190, 190)
		pdf.SetDrawColor(140, 140, 140)
		pdf.SetLineWidth(0.2)
		px, py, pw, ph := footprint(p, scale, offsetX, offsetY)
		pdf.Rect(px, py, pw, ph, "FD")
	}

	for _, p := range resting {
		col := colorFor(p.ColorIndex)
		px, py, pw, ph := footprint(p, scale, offsetX, offsetY)

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 15 && ph > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(0, 0, 0)

			dims := fmt.Sprintf("%dx%dx%d", p.Size[0], p.Size[1], p.Size[2])
			nameW := pdf.GetStringWidth(p.Name)
			dimsW := pdf.GetStringWidth(dims)

			if nameW < pw-2 {
				pdf.SetXY(px+(pw-nameW)/2, py+ph/2-4)
				pdf.CellFormat(nameW, 4, p.Name, "", 0, "C", false, 0, "")
			}
			if ph > 14 && dimsW < pw-2 {
				pdf.SetXY(px+(pw-dimsW)/2, py+ph/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}

	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, resting, offsetY+canvasH+6)
}

// footprint maps a placement's width/depth box onto the page.
func footprint(p model.Placement, scale, offsetX, offsetY float64) (x, y, w, h float64) {
	return offsetX + float64(p.Position[0])*scale,
		offsetY + float64(p.Position[1])*scale,
		float64(p.Size[0]) * scale,
		float64(p.Size[1]) * scale
}

// drawDimensionAnnotations labels the container width below and depth to the left.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%.0f mm", c.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	depthLabel := fmt.Sprintf("%.0f mm", c.Depth)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	dLabelW := pdf.GetStringWidth(depthLabel)
	pdf.SetXY(offsetX-3-dLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(dLabelW, 4, depthLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend lists the units loaded at this level with their color swatch.
func drawLegend(pdf *fpdf.Fpdf, placements []model.Placement, startY float64) {
	if len(placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Loaded here:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, p := range placements {
		col := colorFor(p.ColorIndex)
		label := fmt.Sprintf("%s @ (%d, %d)", p.Name, p.Position[0], p.Position[1])
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws overall statistics, the per-name breakdown,
// failures and the layer fill chart.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Load Plan Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	c := result.Container
	stats := ComputeLayerStats(result)
	summaryItems := []struct {
		label string
		value string
	}{
		{"Container", fmt.Sprintf("%.0f x %.0f x %.0f mm", c.Width, c.Height, c.Depth)},
		{"Units Placed", fmt.Sprintf("%d of %d", result.PlacedCount(), result.Attempted)},
		{"Units Failed", fmt.Sprintf("%d", result.FailedCount())},
		{"Utilization", fmt.Sprintf("%.2f%%", result.Utilization)},
		{"Total Weight", fmt.Sprintf("%.1f / %.1f kg", result.TotalWeight, c.MaxWeight)},
		{"Load Height", fmt.Sprintf("%d mm", result.MaxHeight())},
		{"Mean Layer Fill", fmt.Sprintf("%.1f%% (sd %.1f)", stats.Mean*100, stats.StdDev*100)},
		{"Grid / Support", fmt.Sprintf("%d mm / %.0f%%", result.Settings.GridSize, result.Settings.SupportThreshold*100)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(40, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(50, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Items", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{50, 20, 30}
	headers := []string{"Name", "Placed", "Weight (kg)"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, s := range result.Summary() {
		if y > pageHeight-marginBottom-10 {
			break
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range []string{s.Name, fmt.Sprintf("%d", s.Count), fmt.Sprintf("%.1f", s.TotalWeight)} {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if len(result.Failed) > 0 && y < pageHeight-marginBottom-15 {
		y += 6
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "WARNING: Units Not Loaded", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, name := range result.FailedNames() {
			if y > pageHeight-marginBottom-5 {
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(100, 5, fmt.Sprintf("- %s x %d", name, result.Failed[name]), "", 0, "L", false, 0, "")
			y += 5
		}
	}

	if len(result.LayerFill) > 0 {
		png, err := LayerFillChart(result, 5*vg.Inch, 3.5*vg.Inch)
		if err != nil {
			return fmt.Errorf("failed to render layer chart: %w", err)
		}
		opts := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("layer_fill", opts, bytes.NewReader(png))
		pdf.ImageOptions("layer_fill", 150, marginTop+18, 130, 0, false, opts, 0, "")
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by CrateFill - 3D Load Planner", "", 0, "C", false, 0, "")
	return nil
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
