package project

import (
	"encoding/json"
	"os"

	"github.com/piwi3910/CrateFill/internal/model"
)

// SaveTemplates writes the template store to a JSON file.
func SaveTemplates(path string, store model.TemplateStore) error {
	return writeJSON(path, store)
}

// LoadTemplates reads a template store from a JSON file.
// If the file does not exist, returns an empty store.
func LoadTemplates(path string) (model.TemplateStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NewTemplateStore(), nil
		}
		return model.TemplateStore{}, err
	}
	var store model.TemplateStore
	if err := json.Unmarshal(data, &store); err != nil {
		return model.TemplateStore{}, err
	}
	if store.Templates == nil {
		store.Templates = []model.LoadTemplate{}
	}
	return store, nil
}
