// Package cli wires the fence calculators, importers, exports and
// persistence into the fencecalc command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piwi3910/fencecalc/internal/model"
	"github.com/piwi3910/fencecalc/internal/project"
)

// ErrDeclined is returned when a calculator produced no result for the inputs.
var ErrDeclined = errors.New("calculation declined")

// App carries the state shared by every command of one invocation.
type App struct {
	out io.Writer
	log *logrus.Logger

	configPath  string
	catalogPath string
	logLevel    string
	jsonOutput  bool

	config  model.AppConfig
	catalog model.Catalog
}

// NewRootCommand builds the command tree. Results are written to out and
// log lines to errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	log := logrus.New()
	log.SetOutput(errOut)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	app := &App{out: out, log: log}

	root := &cobra.Command{
		Use:           "fencecalc",
		Short:         "Fence and gate materials estimator",
		Long:          "fencecalc estimates posts, panels, rails and concrete for a fence run and looks up bills of materials for fence and gate styles.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&app.configPath, "config", project.DefaultConfigPath(), "path to config.json")
	flags.StringVar(&app.catalogPath, "catalog", "", "YAML catalog override (default: config catalog_path or ~/.fencecalc/catalog.yaml)")
	flags.StringVar(&app.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&app.jsonOutput, "json", false, "print results as JSON")

	root.AddCommand(
		newEstimateCommand(app),
		newMaterialsCommand(app),
		newGateCommand(app),
		newCompareCommand(app),
		newTakeoffCommand(app),
		newRunsCommand(app),
		newCatalogCommand(app),
		newPresetCommand(app),
		newConfigCommand(app),
		newBackupCommand(app),
	)

	return root
}

// Execute runs the command tree against os.Args and returns the process exit code.
func Execute() int {
	root := NewRootCommand(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		if !errors.Is(err, ErrDeclined) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// setup loads the config and catalog and applies the log level.
func (a *App) setup(cmd *cobra.Command) error {
	config, err := project.LoadAppConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", a.configPath, err)
	}
	a.config = config

	level := a.logLevel
	if level == "" {
		level = config.LogLevel
	}
	if level == "" {
		level = "info"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	a.log.SetLevel(parsed)

	path := a.resolvedCatalogPath()
	catalog, err := project.LoadCatalog(path)
	if err != nil {
		return err
	}
	a.catalog = catalog

	a.log.WithFields(logrus.Fields{
		"command": cmd.CommandPath(),
		"config":  a.configPath,
		"catalog": path,
	}).Debug("configuration loaded")
	return nil
}

// resolvedCatalogPath picks the catalog override: flag, then config, then
// the file next to config.json.
func (a *App) resolvedCatalogPath() string {
	switch {
	case a.catalogPath != "":
		return a.catalogPath
	case a.config.CatalogPath != "":
		return a.config.CatalogPath
	default:
		return filepath.Join(a.configDir(), "catalog.yaml")
	}
}

func (a *App) configDir() string {
	return filepath.Dir(a.configPath)
}

func (a *App) presetPath() string {
	return filepath.Join(a.configDir(), "presets.json")
}

// declined logs why a calculation produced nothing and returns ErrDeclined.
func (a *App) declined(what string, reason model.Reason, fields logrus.Fields) error {
	a.log.WithFields(fields).Warnf("%s declined: %s", what, reason)
	return fmt.Errorf("%s: %w", what, ErrDeclined)
}
