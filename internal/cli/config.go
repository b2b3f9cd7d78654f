package cli

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/fencecalc/internal/model"
	"github.com/piwi3910/fencecalc/internal/project"
)

// configSetters maps each settable config key to its parser.
var configSetters = map[string]func(c *model.AppConfig, v string) error{
	"default_post_spacing": func(c *model.AppConfig, v string) error {
		return setPositive(&c.DefaultPostSpacing, v)
	},
	"default_height": func(c *model.AppConfig, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("expected a non-negative number, got %q", v)
		}
		c.DefaultHeight = f
		return nil
	},
	"default_gate_width": func(c *model.AppConfig, v string) error {
		return setPositive(&c.DefaultGateWidth, v)
	},
	"default_fence_type": func(c *model.AppConfig, v string) error {
		c.DefaultFenceType = v
		return nil
	},
	"default_gate_type": func(c *model.AppConfig, v string) error {
		c.DefaultGateType = v
		return nil
	},
	"default_unit": func(c *model.AppConfig, v string) error {
		unit, ok := model.ParseUnit(v)
		if !ok {
			return fmt.Errorf("unknown unit %q", v)
		}
		c.DefaultUnit = unit
		return nil
	},
	"catalog_path": func(c *model.AppConfig, v string) error {
		c.CatalogPath = v
		return nil
	},
	"price_list_path": func(c *model.AppConfig, v string) error {
		c.PriceListPath = v
		return nil
	},
	"log_level": func(c *model.AppConfig, v string) error {
		if _, err := logrus.ParseLevel(v); err != nil {
			return err
		}
		c.LogLevel = v
		return nil
	},
	"company_name": func(c *model.AppConfig, v string) error {
		c.CompanyName = v
		return nil
	},
}

func setPositive(dst *float64, v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("expected a positive number, got %q", v)
	}
	*dst = f
	return nil
}

func configKeys() []string {
	keys := make([]string, 0, len(configSetters))
	for k := range configSetters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the saved defaults",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the active configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.printJSON(app.config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one configuration value",
		Long:  "Change one configuration value. Keys: " + strings.Join(configKeys(), ", "),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			set, ok := configSetters[key]
			if !ok {
				return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(configKeys(), ", "))
			}
			if err := set(&app.config, value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", key, err)
			}
			if err := project.SaveAppConfig(app.configPath, app.config); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			app.log.WithFields(logrus.Fields{"key": key, "value": value}).Info("config updated")
			return nil
		},
	})

	return cmd
}

func newBackupCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore config, presets and catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "export <file.json>",
		Short: "Write config, presets and any catalog override to one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets, err := project.LoadPresets(app.presetPath())
			if err != nil {
				return fmt.Errorf("failed to load presets: %w", err)
			}

			// Only carry the catalog when an override file is in use.
			var catalog *model.Catalog
			if _, err := os.Stat(app.resolvedCatalogPath()); err == nil {
				c := app.catalog.Clone()
				catalog = &c
			}

			if err := project.ExportAllData(args[0], app.config, presets, catalog); err != nil {
				return err
			}
			app.log.WithFields(logrus.Fields{
				"path":    args[0],
				"presets": len(presets.Presets),
				"catalog": catalog != nil,
			}).Info("backup exported")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.json>",
		Short: "Restore config, presets and catalog from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backup, err := project.ImportAllData(args[0])
			if err != nil {
				return err
			}
			if err := project.RestoreAllData(backup, app.configDir()); err != nil {
				return err
			}
			app.log.WithFields(logrus.Fields{
				"path":       args[0],
				"created_at": backup.CreatedAt,
				"presets":    len(backup.Presets.Presets),
			}).Info("backup restored")
			return nil
		},
	})

	return cmd
}
