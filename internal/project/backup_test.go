package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/fencecalc/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultHeight = 2.1
	cfg.CompanyName = "Acme Fencing"

	presets := model.NewPresetStore()
	presets.Add(model.NewTakeoffPreset("Standard", "", model.FenceSpec{PostSpacing: 2.4, FenceType: model.FenceLapped18}, ""))

	catalog := model.DefaultCatalog()

	if err := ExportAllData(path, cfg, presets, &catalog); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}

	if backup.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %s", backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.DefaultHeight != 2.1 {
		t.Errorf("expected DefaultHeight=2.1, got %f", backup.Config.DefaultHeight)
	}
	if backup.Config.CompanyName != "Acme Fencing" {
		t.Errorf("expected CompanyName=Acme Fencing, got %s", backup.Config.CompanyName)
	}
	if len(backup.Presets.Presets) != 1 || backup.Presets.Presets[0].Name != "Standard" {
		t.Errorf("unexpected presets %+v", backup.Presets.Presets)
	}
	if backup.Catalog == nil || len(backup.Catalog.Fences) != len(catalog.Fences) {
		t.Error("catalog was not carried through the backup")
	}
}

func TestExportAllDataWithoutCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), model.NewPresetStore(), nil); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}
	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Catalog != nil {
		t.Error("expected no catalog in backup")
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noversion.json")
	data := []byte(`{"config":{"company_name":"Acme"}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for missing version")
	}
}

func TestImportAllDataInvalidCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	data := []byte(`{"version":"1.0.0","catalog":{"fences":{"x":{"posts":-2,"post_height":"1800mm"}}}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := ImportAllData(path); err == nil {
		t.Fatal("expected error for invalid catalog")
	}
}

func TestExportAllDataCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deep", "nested", "backup.json")

	if err := ExportAllData(path, model.DefaultAppConfig(), model.NewPresetStore(), nil); err != nil {
		t.Fatalf("ExportAllData should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("backup file was not created")
	}
}

func TestImportAllDataNilSlices(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "backup.json")
	data := []byte(`{"version":"1.0.0","created_at":"2025-01-01T00:00:00Z","config":{"recent_takeoffs":null}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Config.RecentTakeoffs == nil {
		t.Error("RecentTakeoffs should not be nil after import")
	}
	if backup.Presets.Presets == nil {
		t.Error("Presets should not be nil after import")
	}
}

func TestRestoreAllData(t *testing.T) {
	dir := t.TempDir()

	cfg := model.DefaultAppConfig()
	cfg.CompanyName = "Restored"
	presets := model.NewPresetStore()
	presets.Add(model.NewTakeoffPreset("P", "", model.FenceSpec{PostSpacing: 3}, ""))
	catalog := model.DefaultCatalog()

	backup := BackupData{Version: "1.0.0", Config: cfg, Presets: presets, Catalog: &catalog}
	if err := RestoreAllData(backup, dir); err != nil {
		t.Fatalf("RestoreAllData failed: %v", err)
	}

	loadedCfg, err := LoadAppConfig(filepath.Join(dir, "config.json"))
	if err != nil || loadedCfg.CompanyName != "Restored" {
		t.Errorf("config not restored: %+v, %v", loadedCfg, err)
	}
	loadedPresets, err := LoadPresets(filepath.Join(dir, "presets.json"))
	if err != nil || len(loadedPresets.Presets) != 1 {
		t.Errorf("presets not restored: %+v, %v", loadedPresets, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "catalog.yaml")); err != nil {
		t.Errorf("catalog not restored: %v", err)
	}
}
