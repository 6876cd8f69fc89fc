package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CrateFill/internal/model"
)

func TestSaveAndLoadTemplates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")

	store := model.NewTemplateStore()
	items := []model.Item{
		model.NewItem("Parcel", 400, 250, 300, 5, 6),
		model.NewShapedItem("Bracket", model.LShape(), 100, 2, 1),
	}
	c := model.NewContainer(1700, 1400, 3000, 1200)
	tmpl := model.NewLoadTemplate("Van run", "Weekly delivery", c, items, model.DefaultSettings())
	store.Add(tmpl)

	if err := SaveTemplates(path, store); err != nil {
		t.Fatalf("SaveTemplates error: %v", err)
	}

	loaded, err := LoadTemplates(path)
	if err != nil {
		t.Fatalf("LoadTemplates error: %v", err)
	}
	if len(loaded.Templates) != 1 {
		t.Fatalf("expected 1 template, got %d", len(loaded.Templates))
	}
	got := loaded.Templates[0]
	if got.Name != "Van run" || got.Container.Depth != 3000 {
		t.Errorf("unexpected template %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[1].Shape == nil || got.Items[1].Shape.Count() != 4 {
		t.Errorf("expected L shape to survive the round trip")
	}
}

func TestLoadTemplates_MissingFile(t *testing.T) {
	store, err := LoadTemplates(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.Templates == nil || len(store.Templates) != 0 {
		t.Errorf("expected empty store, got %+v", store)
	}
}

func TestLoadTemplates_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("[1,2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTemplates(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}
