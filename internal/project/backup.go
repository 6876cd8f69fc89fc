package project

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/piwi3910/CrateFill/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all user data.
type BackupData struct {
	Version   string              `json:"version"`
	CreatedAt string              `json:"created_at"`
	Catalog   model.Catalog       `json:"catalog"`
	Templates model.TemplateStore `json:"templates"`
}

// ExportAllData writes the catalog and templates to a single JSON file.
func ExportAllData(exportPath string, cat model.Catalog, templates model.TemplateStore) error {
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Catalog:   cat,
		Templates: templates,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller decides whether to merge or replace.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, fmt.Errorf("failed to read backup file: %w", err)
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to parse backup file: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	if backup.Templates.Templates == nil {
		backup.Templates.Templates = []model.LoadTemplate{}
	}
	return backup, nil
}
