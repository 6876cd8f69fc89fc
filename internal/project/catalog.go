package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/CrateFill/internal/model"
)

// SaveCatalog writes the catalog to the specified JSON file.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, cat model.Catalog) error {
	return writeJSON(path, cat)
}

// LoadCatalog reads the catalog from the specified JSON file.
// If the file does not exist, it returns the default catalog and saves it.
func LoadCatalog(path string) (model.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cat := model.DefaultCatalog()
			if saveErr := SaveCatalog(path, cat); saveErr != nil {
				return cat, saveErr
			}
			return cat, nil
		}
		return model.Catalog{}, err
	}
	var cat model.Catalog
	if err := json.Unmarshal(data, &cat); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return cat, nil
}

// ImportCatalog merges the catalog stored at path into existing. Presets
// whose IDs already exist are skipped. It returns the merged catalog and
// the number of presets added.
func ImportCatalog(path string, existing model.Catalog) (model.Catalog, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, 0, err
	}
	var imported model.Catalog
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, 0, fmt.Errorf("failed to parse catalog: %w", err)
	}
	added := existing.Merge(imported)
	return existing, added, nil
}

// writeJSON marshals v with indentation and writes it to path, creating
// parent directories.
func writeJSON(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
