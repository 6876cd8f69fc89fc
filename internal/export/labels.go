package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/CrateFill/internal/model"
)

// LabelInfo holds the data encoded into each package label's QR code.
type LabelInfo struct {
	PlacementID string  `json:"id"`
	Name        string  `json:"name"`
	Seq         int     `json:"seq"`
	Size        [3]int  `json:"size_mm"`     // width, depth, height
	Position    [3]int  `json:"position_mm"` // x, y, z
	Level       int     `json:"level"`       // 1-based index of the resting height
	Weight      float64 `json:"weight_kg"`
	Container   string  `json:"container,omitempty"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
// Each label cell is approximately 66.7mm x 25.4mm on US Letter paper.
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos builds one label per placement in load order.
func CollectLabelInfos(result model.PackResult) []LabelInfo {
	levels := baseLevels(result.Placements)
	levelOf := make(map[int]int, len(levels))
	for i, z := range levels {
		levelOf[z] = i + 1
	}

	labels := make([]LabelInfo, 0, len(result.Placements))
	for i, p := range result.Placements {
		labels = append(labels, LabelInfo{
			PlacementID: p.ID,
			Name:        p.Name,
			Seq:         i + 1,
			Size:        p.Size,
			Position:    p.Position,
			Level:       levelOf[p.Cell[2]],
			Weight:      p.Weight,
			Container:   result.Container.Label,
		})
	}
	return labels
}

// ExportLabels generates a PDF of QR-coded labels, one per placed unit, on
// an Avery 5160 sheet layout (3 columns x 10 rows on US Letter). The QR code
// carries the label metadata as JSON.
func ExportLabels(path string, result model.PackResult) error {
	labels := CollectLabelInfos(result)
	if len(labels) == 0 {
		return fmt.Errorf("no placements to generate labels for")
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range labels {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		posOnPage := i % labelsPerPage
		col := posOnPage % labelCols
		row := posOnPage / labelCols

		x := labelMarginLeft + float64(col)*labelWidth
		y := labelMarginTop + float64(row)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for %q: %w", label.Name, err)
		}
	}

	return pdf.OutputFileAndClose(path)
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	// Cutting guide
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	qrData, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_%d_%s", info.Seq, info.PlacementID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))

	qrX := x + labelWidth - qrSize - labelPadding
	qrY := y + (labelHeight-qrSize)/2
	pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX, y+labelPadding)
	pdf.CellFormat(textW, 4.5, truncate(pdf, fmt.Sprintf("#%d %s", info.Seq, info.Name), textW), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+5)
	dims := fmt.Sprintf("%d x %d x %d mm, %.1f kg", info.Size[0], info.Size[1], info.Size[2], info.Weight)
	pdf.CellFormat(textW, 3.5, dims, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+9)
	where := fmt.Sprintf("Level %d @ (%d, %d, %d)", info.Level, info.Position[0], info.Position[1], info.Position[2])
	pdf.CellFormat(textW, 3, where, "", 1, "L", false, 0, "")

	if info.Container != "" {
		pdf.SetXY(textX, y+labelPadding+12.5)
		pdf.CellFormat(textW, 3, truncate(pdf, info.Container, textW), "", 0, "L", false, 0, "")
	}

	pdf.SetTextColor(0, 0, 0)
	return nil
}

// truncate shortens s with an ellipsis until it fits width w in the current font.
func truncate(pdf *fpdf.Fpdf, s string, w float64) string {
	if pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > w {
		s = s[:len(s)-1]
	}
	return s + "..."
}
