package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/piwi3910/fencecalc/internal/model"
)

// backupVersion is written into every backup file.
const backupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string            `json:"version"`
	CreatedAt string            `json:"created_at"`
	Config    model.AppConfig   `json:"config"`
	Presets   model.PresetStore `json:"presets"`
	Catalog   *model.Catalog    `json:"catalog,omitempty"` // nil when only the built-in tables are used
}

// ExportAllData exports the config, presets and catalog override to a single
// JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, presets model.PresetStore, catalog *model.Catalog) error {
	backup := BackupData{
		Version:   backupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		Presets:   presets,
		Catalog:   catalog,
	}
	if err := writeJSON(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup file: %w", err)
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported data.
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
	if backup.Catalog != nil {
		if err := backup.Catalog.Validate(); err != nil {
			return BackupData{}, fmt.Errorf("invalid backup file: %w", err)
		}
	}
	// Ensure slices are never nil
	if backup.Config.RecentTakeoffs == nil {
		backup.Config.RecentTakeoffs = []string{}
	}
	if backup.Presets.Presets == nil {
		backup.Presets.Presets = []model.TakeoffPreset{}
	}
	return backup, nil
}

// RestoreAllData writes the contents of a backup into dir, replacing the
// config, presets and catalog override files there.
func RestoreAllData(backup BackupData, dir string) error {
	if err := SaveAppConfig(filepath.Join(dir, "config.json"), backup.Config); err != nil {
		return fmt.Errorf("failed to restore config: %w", err)
	}
	if err := SavePresets(filepath.Join(dir, "presets.json"), backup.Presets); err != nil {
		return fmt.Errorf("failed to restore presets: %w", err)
	}
	if backup.Catalog != nil {
		if err := SaveCatalog(filepath.Join(dir, "catalog.yaml"), *backup.Catalog); err != nil {
			return fmt.Errorf("failed to restore catalog: %w", err)
		}
	}
	return nil
}
