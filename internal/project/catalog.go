package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/fencecalc/internal/model"
)

// DefaultCatalogPath returns the default path for the catalog override file.
// This is located at ~/.fencecalc/catalog.yaml.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.yaml")
}

// SaveCatalog writes a catalog to path as YAML.
// It creates parent directories if they do not exist.
func SaveCatalog(path string, c model.Catalog) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads a catalog override from path and lays it over the
// built-in tables, so the file only needs the styles it adds or changes.
// If the file does not exist, it returns the built-in catalog with no error.
func LoadCatalog(path string) (model.Catalog, error) {
	base := model.DefaultCatalog()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, nil
		}
		return model.Catalog{}, fmt.Errorf("failed to read catalog: %w", err)
	}

	var override model.Catalog
	if err := yaml.Unmarshal(data, &override); err != nil {
		return model.Catalog{}, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}

	merged := base.Merge(override)
	if err := merged.Validate(); err != nil {
		return model.Catalog{}, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return merged, nil
}

// LoadPriceList reads a YAML price list. Unlike the catalog there is no
// built-in price list, so a missing file is an error.
func LoadPriceList(path string) (model.PriceList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.PriceList{}, fmt.Errorf("failed to read price list: %w", err)
	}

	var prices model.PriceList
	if err := yaml.Unmarshal(data, &prices); err != nil {
		return model.PriceList{}, fmt.Errorf("failed to parse price list %s: %w", path, err)
	}
	for item, price := range prices.Prices {
		if price < 0 {
			return model.PriceList{}, fmt.Errorf("invalid price list %s: negative price for %q", path, item)
		}
	}
	if prices.Prices == nil {
		prices.Prices = map[string]float64{}
	}
	return prices, nil
}
