package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/fencecalc/internal/engine"
	"github.com/piwi3910/fencecalc/internal/model"
	"github.com/piwi3910/fencecalc/internal/project"
)

// run executes the command tree with a config file inside dir.
func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.json")}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestEstimateJSON(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "estimate", "--json",
		"--length", "24", "--spacing", "2.4", "--height", "4", "--type", "picket")
	require.NoError(t, err)

	var got estimateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.True(t, got.OK)
	require.NotNil(t, got.Result)
	assert.Equal(t, 11, got.Result.Posts)
	assert.Equal(t, 10, got.Result.Panels)
	assert.Equal(t, 16, got.Result.ConcreteBags)
	assert.Equal(t, model.UnitMeters, got.Spec.Unit)
}

func TestEstimateText(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "estimate", "--length", "24", "--spacing", "2.4", "--height", "4", "--type", "post-rail")
	require.NoError(t, err)
	assert.Contains(t, out, "post-rail fence")
	assert.Contains(t, out, "Posts")
	assert.Contains(t, out, "Rails")
	assert.Contains(t, out, "Concrete")
}

func TestEstimateExplicitZeroHeightKept(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "estimate", "--json", "--length", "24", "--height", "0")
	require.NoError(t, err)

	var got estimateOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.OK)
	assert.Zero(t, got.Spec.Height)
	assert.Equal(t, 2.4, got.Spec.PostSpacing, "spacing comes from the config default")
}

func TestEstimateDeclined(t *testing.T) {
	_, logs, err := run(t, t.TempDir(), "estimate", "--length", "0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDeclined))
	assert.Contains(t, logs, string(model.ReasonMissingLength))
}

func TestEstimateGatesExceedRun(t *testing.T) {
	_, logs, err := run(t, t.TempDir(), "estimate", "--length", "2", "--gates", "2", "--gate-width", "1")
	require.ErrorIs(t, err, ErrDeclined)
	assert.Contains(t, logs, string(model.ReasonGatesExceedRun))
}

func TestEstimateBadUnit(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "estimate", "--length", "10", "--unit", "yards")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrDeclined))
}

func TestMaterialsJSON(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "materials", "--json", "--type", model.FenceLapped18, "--length", "10")
	require.NoError(t, err)

	var got model.FenceMaterials
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 11, got.Posts)
	assert.Equal(t, 100, got.Palings)
	assert.False(t, got.Caps.Applicable)
}

func TestMaterialsUnknownType(t *testing.T) {
	_, logs, err := run(t, t.TempDir(), "materials", "--type", "wrought iron", "--length", "10")
	require.ErrorIs(t, err, ErrDeclined)
	assert.Contains(t, logs, string(model.ReasonUnknownFenceType))
}

func TestGateJSON(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "gate", "--json", "--type", "1.8m x 1.5m Double Gate", "--count", "2")
	require.NoError(t, err)

	var got model.GateMaterials
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 2, got.GateCount)
	assert.Equal(t, 4, got.Hinges)
	assert.Equal(t, "2400mm", got.HardwoodPostHeight)
}

func TestGateUnknownType(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "gate", "--type", "garage door")
	require.ErrorIs(t, err, ErrDeclined)
}

func TestCompareText(t *testing.T) {
	out, _, err := run(t, t.TempDir(), "compare", "--length", "24", "--spacing", "2.4", "--height", "4", "--type", "picket")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
	assert.Contains(t, out, "Spacing 2.1m")
	assert.Contains(t, out, "Privacy Build")
}

func TestEstimateNonFiniteDeclined(t *testing.T) {
	_, logs, err := run(t, t.TempDir(), "estimate", "--length", "inf")
	require.ErrorIs(t, err, ErrDeclined)
	assert.Contains(t, logs, string(model.ReasonNotFinite))
}

func TestPrintComparisonDeclinedRowUsesNoteColumn(t *testing.T) {
	var out bytes.Buffer
	app := &App{out: &out}
	results := []engine.ComparisonResult{
		{Scenario: engine.ComparisonScenario{Name: "Current Settings"}, OK: true,
			Result: model.FencingResult{Posts: 11, Panels: 10, PostDiameter: 4, ConcreteBags: 16}},
		{Scenario: engine.ComparisonScenario{Name: "Wide"}, Reason: model.ReasonOutOfRange},
	}
	require.NoError(t, app.printComparison(results))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	header, declined := lines[0], lines[2]

	noteAt := strings.Index(header, "NOTE")
	reasonAt := strings.Index(declined, string(model.ReasonOutOfRange))
	require.GreaterOrEqual(t, noteAt, 0)
	require.GreaterOrEqual(t, reasonAt, 0)
	assert.Equal(t, utf8.RuneCountInString(header[:noteAt]), utf8.RuneCountInString(declined[:reasonAt]))
	assert.Equal(t, 6, strings.Count(declined, " -"), "one dash per numeric column")
}

func TestTakeoffWithExportsAndPrices(t *testing.T) {
	dir := t.TempDir()
	pricesPath := filepath.Join(dir, "prices.yaml")
	require.NoError(t, os.WriteFile(pricesPath, []byte("currency: AUD\nmarkup_percent: 10\nprices:\n  Posts: 30\n  Palings: 3\n"), 0644))
	pdfPath := filepath.Join(dir, "out", "job.pdf")
	xlsxPath := filepath.Join(dir, "job.xlsx")
	require.NoError(t, os.MkdirAll(filepath.Dir(pdfPath), 0755))

	out, _, err := run(t, dir, "takeoff", "--json",
		"--name", "Smith", "--length", "24", "--gates", "1", "--gate-width", "1",
		"--gate-type", "1.8m x 1m Single Gate",
		"--prices", pricesPath, "--pdf", pdfPath, "--xlsx", xlsxPath)
	require.NoError(t, err)

	var got takeoffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Smith", got.Takeoff.Name)
	require.NotNil(t, got.Takeoff.Estimate)
	require.NotNil(t, got.Takeoff.Fence)
	require.NotNil(t, got.Takeoff.Gates)
	require.NotNil(t, got.Takeoff.Cost)
	assert.Equal(t, "AUD", got.Takeoff.Cost.Currency)
	assert.Empty(t, got.Notes)

	assert.FileExists(t, pdfPath)
	assert.FileExists(t, xlsxPath)

	cfg, err := project.LoadAppConfig(filepath.Join(dir, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{xlsxPath, pdfPath}, cfg.RecentTakeoffs)
}

func TestTakeoffGateTypeWithoutGatesNotes(t *testing.T) {
	out, logs, err := run(t, t.TempDir(), "takeoff", "--json", "--length", "10", "--gate-type", "1.2m x 1m Single Gate")
	require.NoError(t, err)

	var got takeoffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Nil(t, got.Takeoff.Gates)
	require.Len(t, got.Notes, 1)
	assert.Contains(t, got.Notes[0], string(model.ReasonNoGates))
	assert.Contains(t, logs, string(model.ReasonNoGates))
}

func TestTakeoffEverythingDeclined(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "takeoff", "--length", "0", "--type", "unknown")
	require.ErrorIs(t, err, ErrDeclined)
}

func TestRunsCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.csv")
	require.NoError(t, os.WriteFile(path, []byte("Label,Length\nNorth,24\nEast,12\n"), 0644))

	out, _, err := run(t, dir, "runs", path, "--json", "--spacing", "2.4", "--height", "4", "--type", "picket")
	require.NoError(t, err)

	var got model.RunsSummary
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Results, 2)
	assert.Equal(t, 17, got.TotalPosts)
	assert.Equal(t, 36.0, got.TotalLength)
}

func TestRunsText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.csv")
	require.NoError(t, os.WriteFile(path, []byte("North,24,1,1\n"), 0644))

	out, _, err := run(t, dir, "runs", path)
	require.NoError(t, err)
	assert.Contains(t, out, "North")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "Concrete:")
}

func TestRunsUnsupportedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.pdf")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	_, _, err := run(t, dir, "runs", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestRunsNothingImported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "runs.csv")
	require.NoError(t, os.WriteFile(path, []byte("Label,Length\nNorth,abc\n"), 0644))

	_, logs, err := run(t, dir, "runs", path)
	require.Error(t, err)
	assert.Contains(t, logs, "Invalid length")
}

func TestCatalogListAndExport(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, dir, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, model.FencePicket)
	assert.Contains(t, out, "1.5m x 1.5m Double Gate")

	exported := filepath.Join(dir, "catalog-copy.yaml")
	_, _, err = run(t, dir, "catalog", "export", exported)
	require.NoError(t, err)

	c, err := project.LoadCatalog(exported)
	require.NoError(t, err)
	assert.Equal(t, model.DefaultCatalog(), c)
}

func TestCatalogOverrideFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	custom := "fences:\n  colorbond:\n    panels: 4\n    post_height: 2400mm\n    posts: 5\n    rails: 8\n    screws: 40\n    rapid_sets: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))

	out, _, err := run(t, dir, "--catalog", path, "materials", "--json", "--type", "colorbond", "--length", "20")
	require.NoError(t, err)

	var got model.FenceMaterials
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 10, got.Posts)
}

func TestPresetLifecycle(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, dir, "preset", "save", "pool", "--type", "picket", "--spacing", "2.4", "--height", "4", "--description", "pool fence")
	require.NoError(t, err)

	out, _, err := run(t, dir, "preset", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "pool")

	out, _, err = run(t, dir, "takeoff", "--json", "--preset", "pool", "--length", "24")
	require.NoError(t, err)
	var got takeoffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, model.FencePicket, got.Takeoff.Request.Fence.FenceType)
	require.NotNil(t, got.Takeoff.Estimate)
	assert.Equal(t, 11, got.Takeoff.Estimate.Posts)

	_, _, err = run(t, dir, "preset", "delete", "pool")
	require.NoError(t, err)

	_, _, err = run(t, dir, "preset", "delete", "pool")
	assert.Error(t, err)

	_, _, err = run(t, dir, "takeoff", "--preset", "pool", "--length", "24")
	assert.Error(t, err)
}

func TestTakeoffPresetKeepsZeroHeight(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, dir, "preset", "save", "low", "--type", "picket", "--spacing", "2.4", "--height", "0")
	require.NoError(t, err)

	out, _, err := run(t, dir, "takeoff", "--json", "--preset", "low", "--length", "24")
	require.NoError(t, err)
	var saved takeoffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &saved))
	assert.Zero(t, saved.Takeoff.Request.Fence.Height)

	_, _, err = run(t, dir, "preset", "save", "tall", "--type", "picket", "--height", "4")
	require.NoError(t, err)
	out, _, err = run(t, dir, "takeoff", "--json", "--preset", "tall", "--length", "24", "--height", "0")
	require.NoError(t, err)
	var flagged takeoffOutput
	require.NoError(t, json.Unmarshal([]byte(out), &flagged))
	assert.Zero(t, flagged.Takeoff.Request.Fence.Height)
	assert.Equal(t, model.FencePicket, flagged.Takeoff.Request.Fence.FenceType)
}

func TestPresetSaveUnknownGateType(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "preset", "save", "x", "--gate-type", "portcullis")
	require.Error(t, err)
}

func TestConfigSetAndShow(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, dir, "config", "set", "company_name", "Acme Fencing")
	require.NoError(t, err)
	_, _, err = run(t, dir, "config", "set", "default_unit", "ft")
	require.NoError(t, err)

	out, _, err := run(t, dir, "config", "show")
	require.NoError(t, err)

	var cfg model.AppConfig
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "Acme Fencing", cfg.CompanyName)
	assert.Equal(t, model.UnitFeet, cfg.DefaultUnit)
}

func TestConfigSetRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, dir, "config", "set", "colour", "green")
	assert.Error(t, err)

	_, _, err = run(t, dir, "config", "set", "default_post_spacing", "0")
	assert.Error(t, err)

	_, _, err = run(t, dir, "config", "set", "log_level", "loud")
	assert.Error(t, err)
}

func TestInvalidLogLevelFlag(t *testing.T) {
	_, _, err := run(t, t.TempDir(), "--log-level", "loud", "catalog", "list")
	assert.Error(t, err)
}

func TestBackupRoundTrip(t *testing.T) {
	src := t.TempDir()
	_, _, err := run(t, src, "config", "set", "company_name", "Backed Up")
	require.NoError(t, err)
	_, _, err = run(t, src, "preset", "save", "std", "--type", model.FenceLapped18)
	require.NoError(t, err)

	backupPath := filepath.Join(src, "backup.json")
	_, _, err = run(t, src, "backup", "export", backupPath)
	require.NoError(t, err)

	dst := t.TempDir()
	_, _, err = run(t, dst, "backup", "import", backupPath)
	require.NoError(t, err)

	cfg, err := project.LoadAppConfig(filepath.Join(dst, "config.json"))
	require.NoError(t, err)
	assert.Equal(t, "Backed Up", cfg.CompanyName)

	presets, err := project.LoadPresets(filepath.Join(dst, "presets.json"))
	require.NoError(t, err)
	assert.NotNil(t, presets.FindByName("std"))

	_, err = os.Stat(filepath.Join(dst, "catalog.yaml"))
	assert.True(t, os.IsNotExist(err), "no catalog override was in use")
}
