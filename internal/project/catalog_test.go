package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CrateFill/internal/model"
)

func TestSaveAndLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "catalog.json")

	cat := model.Catalog{
		Containers: []model.ContainerPreset{
			model.NewContainerPreset("Test Van", 1500, 1200, 2500, 900),
		},
		Boxes: []model.BoxPreset{
			model.NewBoxPreset("Test Box", 300, 200, 400, 4),
		},
	}

	if err := SaveCatalog(path, cat); err != nil {
		t.Fatalf("SaveCatalog failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("catalog file was not created")
	}

	loaded, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	if len(loaded.Containers) != 1 || loaded.Containers[0].Name != "Test Van" {
		t.Errorf("unexpected containers %+v", loaded.Containers)
	}
	if len(loaded.Boxes) != 1 {
		t.Fatalf("expected 1 box, got %d", len(loaded.Boxes))
	}
	if loaded.Boxes[0].Depth != 400 || loaded.Boxes[0].Weight != 4 {
		t.Errorf("unexpected box %+v", loaded.Boxes[0])
	}
}

func TestLoadCatalog_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.json")

	cat, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog failed: %v", err)
	}
	def := model.DefaultCatalog()
	if len(cat.Containers) != len(def.Containers) || len(cat.Boxes) != len(def.Boxes) {
		t.Errorf("expected default catalog, got %d containers / %d boxes", len(cat.Containers), len(cat.Boxes))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected default catalog to be saved: %v", err)
	}
}

func TestLoadCatalog_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{oops"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportCatalog(t *testing.T) {
	dir := t.TempDir()
	existing := model.Catalog{
		Boxes: []model.BoxPreset{model.NewBoxPreset("Mine", 100, 100, 100, 1)},
	}

	other := model.Catalog{
		Containers: []model.ContainerPreset{model.NewContainerPreset("Theirs", 1000, 1000, 1000, 500)},
		Boxes:      []model.BoxPreset{existing.Boxes[0], model.NewBoxPreset("New", 50, 50, 50, 1)},
	}
	path := filepath.Join(dir, "import.json")
	if err := SaveCatalog(path, other); err != nil {
		t.Fatal(err)
	}

	merged, added, err := ImportCatalog(path, existing)
	if err != nil {
		t.Fatalf("ImportCatalog failed: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 presets added, got %d", added)
	}
	if len(merged.Boxes) != 2 || len(merged.Containers) != 1 {
		t.Errorf("unexpected merged catalog %+v", merged)
	}
}

func TestImportCatalog_MissingFile(t *testing.T) {
	cat := model.DefaultCatalog()
	got, added, err := ImportCatalog(filepath.Join(t.TempDir(), "nope.json"), cat)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if added != 0 || len(got.Boxes) != len(cat.Boxes) {
		t.Errorf("expected catalog unchanged on error")
	}
}
