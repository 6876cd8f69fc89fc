package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/CrateFill/internal/model"
)

const (
	manifestSheet = "Manifest"
	summarySheet  = "Summary"
)

var manifestHeader = []interface{}{
	"#", "ID", "Name", "X (mm)", "Y (mm)", "Z (mm)", "W (mm)", "D (mm)", "H (mm)",
	"Voxels", "Volume (mm³)", "Weight (kg)", "Orientation", "Contact",
}

// ExportExcel writes the manifest to an xlsx workbook with a placement sheet
// and a per-name summary sheet.
func ExportExcel(path string, result model.PackResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), manifestSheet); err != nil {
		return fmt.Errorf("failed to name manifest sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeManifestSheet(f, result, bold); err != nil {
		return err
	}
	if err := writeSummarySheet(f, result, bold); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeManifestSheet(f *excelize.File, result model.PackResult, headerStyle int) error {
	if err := f.SetSheetRow(manifestSheet, "A1", &manifestHeader); err != nil {
		return fmt.Errorf("failed to write manifest header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(manifestHeader), 1)
	if err := f.SetCellStyle(manifestSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style manifest header: %w", err)
	}

	for i, p := range result.Placements {
		row := []interface{}{
			i + 1, p.ID, p.Name,
			p.Position[0], p.Position[1], p.Position[2],
			p.Size[0], p.Size[1], p.Size[2],
			p.Voxels, p.Volume, p.Weight, p.Orientation, p.Contact,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(manifestSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write placement %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(manifestSheet, "B", "B", 38); err != nil {
		return err
	}
	return f.SetColWidth(manifestSheet, "C", "C", 20)
}

func writeSummarySheet(f *excelize.File, result model.PackResult, headerStyle int) error {
	c := result.Container
	rows := [][]interface{}{
		{"Container", c.Label},
		{"Width (mm)", c.Width},
		{"Height (mm)", c.Height},
		{"Depth (mm)", c.Depth},
		{"Max weight (kg)", c.MaxWeight},
		{"Grid (mm)", result.Settings.GridSize},
		{"Support threshold", result.Settings.SupportThreshold},
		{"Rotation", onOff(result.Settings.AllowRotation)},
		{"Placed", result.PlacedCount()},
		{"Failed", result.FailedCount()},
		{"Utilization (%)", result.Utilization},
		{"Total weight (kg)", result.TotalWeight},
		{},
		{"Name", "Placed", "Not loaded", "Weight (kg)"},
	}
	headerRow := len(rows)

	placed := make(map[string]model.NameSummary)
	var names []string
	for _, s := range result.Summary() {
		placed[s.Name] = s
		names = append(names, s.Name)
	}
	for _, n := range result.FailedNames() {
		if _, ok := placed[n]; !ok {
			names = append(names, n)
		}
	}
	for _, n := range names {
		s := placed[n]
		rows = append(rows, []interface{}{n, s.Count, result.Failed[n], s.TotalWeight})
	}

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary row %d: %w", i+1, err)
		}
	}

	start, _ := excelize.CoordinatesToCellName(1, headerRow)
	end, _ := excelize.CoordinatesToCellName(4, headerRow)
	if err := f.SetCellStyle(summarySheet, start, end, headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}
