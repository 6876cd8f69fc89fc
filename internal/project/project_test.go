package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/CrateFill/internal/engine"
	"github.com/piwi3910/CrateFill/internal/model"
)

func TestSaveAndLoadProject(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.cratefill.json")

	p := model.NewProject()
	p.Name = "Friday van"
	p.Settings.GridSize = 50
	p.Container = model.NewContainer(500, 500, 500, 100)
	p.Items = []model.Item{model.NewItem("Box", 250, 250, 250, 2, 3)}

	result, err := engine.New(p.Settings).Pack(p.Container, p.Items)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	p.Result = &result

	if err := SaveProject(path, p); err != nil {
		t.Fatalf("SaveProject failed: %v", err)
	}

	loaded, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if loaded.Name != "Friday van" || loaded.Settings.GridSize != 50 {
		t.Errorf("unexpected project header %+v", loaded)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].Quantity != 3 {
		t.Errorf("unexpected items %+v", loaded.Items)
	}
	if loaded.Result == nil || loaded.Result.PlacedCount() != 3 {
		t.Errorf("expected result with 3 placements")
	}
}

func TestLoadProject_DefaultsSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bare.json")
	if err := os.WriteFile(path, []byte(`{"name":"bare","settings":{}}`), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := LoadProject(path)
	if err != nil {
		t.Fatalf("LoadProject failed: %v", err)
	}
	if p.Settings != model.DefaultSettings() {
		t.Errorf("expected default settings, got %+v", p.Settings)
	}
}

func TestLoadProject_Errors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadProject(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("nope"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProject(bad); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
