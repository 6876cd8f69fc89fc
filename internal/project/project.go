// Package project persists user data as JSON files: projects, the
// container/box catalog, load templates and full backups.
package project

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/CrateFill/internal/model"
)

// SaveProject writes a project, including its last result, to path.
func SaveProject(path string, p model.Project) error {
	if err := writeJSON(path, p); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

// LoadProject reads a project file. Missing settings fall back to defaults.
func LoadProject(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	p := model.NewProject()
	if err := json.Unmarshal(data, &p); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if p.Settings.GridSize == 0 {
		p.Settings = model.DefaultSettings()
	}
	return p, nil
}
