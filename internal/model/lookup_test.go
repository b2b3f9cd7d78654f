package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFenceMaterialsScalesEachFieldUp(t *testing.T) {
	m, ok := LookupFenceMaterials(DefaultCatalog(), FenceLapped18, 25)
	require.True(t, ok)

	assert.Equal(t, 28, m.Posts) // ceil(11 * 2.5)
	assert.Equal(t, 250, m.Palings)
	assert.Equal(t, 10, m.Panels)
	assert.Equal(t, 30, m.Rails)
	assert.Equal(t, 1500, m.Nails)
	assert.Equal(t, 120, m.Screws)
	assert.Equal(t, 28, m.RapidSets)
	assert.Equal(t, "2.4m", m.PostHeight)
	assert.False(t, m.Caps.Applicable)
	assert.False(t, m.Sleepers.Applicable)
}

func TestLookupFenceMaterialsIndependentRounding(t *testing.T) {
	cat := Catalog{Fences: map[string]FenceBOM{
		"test": {Palings: 3, Posts: 1, PostHeight: "1m"},
	}}
	// 3 * 0.15 = 0.45 -> 1 and 1 * 0.15 = 0.15 -> 1; pooled rounding would give 1 total.
	m, ok := LookupFenceMaterials(cat, "test", 1.5)
	require.True(t, ok)
	assert.Equal(t, 1, m.Palings)
	assert.Equal(t, 1, m.Posts)
}

func TestLookupFenceMaterialsPostHeightNotScaled(t *testing.T) {
	for _, length := range []float64{1, 10, 55} {
		m, ok := LookupFenceMaterials(DefaultCatalog(), FenceButted21, length)
		require.True(t, ok)
		assert.Equal(t, "2.7m", m.PostHeight)
	}
}

func TestLookupFenceMaterialsOptionalFields(t *testing.T) {
	m, ok := LookupFenceMaterials(DefaultCatalog(), FenceLappedCappedSleeper21, 20)
	require.True(t, ok)
	assert.Equal(t, Qty(8), m.Caps)
	assert.Equal(t, Qty(8), m.Sleepers)

	m, ok = LookupFenceMaterials(DefaultCatalog(), FenceButtedSleeper18, 20)
	require.True(t, ok)
	assert.Equal(t, "-", m.Caps.String())
	assert.Equal(t, "8", m.Sleepers.String())
}

func TestLookupFenceMaterialsDeclines(t *testing.T) {
	_, ok := LookupFenceMaterials(DefaultCatalog(), "colorbond", 10)
	assert.False(t, ok)

	_, ok = LookupFenceMaterials(DefaultCatalog(), FenceLapped18, 0)
	assert.False(t, ok)

	_, ok = LookupFenceMaterials(DefaultCatalog(), FenceLapped18, -3)
	assert.False(t, ok)

	_, ok = LookupFenceMaterials(Catalog{}, FenceLapped18, 10)
	assert.False(t, ok)

	for _, length := range []float64{math.NaN(), math.Inf(1), 1e300} {
		_, ok = LookupFenceMaterials(DefaultCatalog(), FenceLapped18, length)
		assert.False(t, ok, "length %v", length)
	}
}

func TestLookupGateMaterialsMultipliesByCount(t *testing.T) {
	m, ok := LookupGateMaterials(DefaultCatalog(), "1.8m x 1.5m Double Gate", 2)
	require.True(t, ok)

	assert.Equal(t, 4, m.Hinges)
	assert.Equal(t, "2400mm", m.HardwoodPostHeight)
	assert.Equal(t, 32, m.Palings)
	assert.Equal(t, 4, m.AdjustableGateStile)
	assert.Equal(t, 4, m.HardwoodPostQty)
	assert.Equal(t, 2, m.DropBolts)
	assert.Equal(t, 48, m.Screws)
}

func TestLookupGateMaterialsAllKeys(t *testing.T) {
	cat := DefaultCatalog()
	keys := []string{
		"1.2m x 1m Single Gate", "1.5m x 1m Single Gate", "1.8m x 1m Single Gate", "2.1m x 1m Single Gate",
		"1.2m x 1.5m Double Gate", "1.5m x 1.5m Double Gate", "1.8m x 1.5m Double Gate", "2.1m x 1.5m Double Gate",
	}
	require.Len(t, cat.Gates, len(keys))
	for _, k := range keys {
		one, ok := LookupGateMaterials(cat, k, 1)
		require.True(t, ok, k)
		three, ok := LookupGateMaterials(cat, k, 3)
		require.True(t, ok, k)
		assert.Equal(t, one.Hinges*3, three.Hinges, k)
		assert.Equal(t, one.Screws*3, three.Screws, k)
		assert.Equal(t, one.HardwoodPostHeight, three.HardwoodPostHeight, k)
	}
}

func TestLookupGateMaterialsZeroAndInvalid(t *testing.T) {
	m, ok := LookupGateMaterials(DefaultCatalog(), "1.2m x 1m Single Gate", 0)
	require.True(t, ok)
	assert.Zero(t, m.Hinges)
	assert.Equal(t, "1800mm", m.HardwoodPostHeight)

	_, ok = LookupGateMaterials(DefaultCatalog(), "1.2m x 1m Single Gate", -1)
	assert.False(t, ok)

	_, ok = LookupGateMaterials(DefaultCatalog(), "1.2m x 1m Single Gate", math.MaxInt)
	assert.False(t, ok)

	// No interpolation for unlisted sizes.
	_, ok = LookupGateMaterials(DefaultCatalog(), "1.9m x 1m Single Gate", 1)
	assert.False(t, ok)
}

func TestFenceMaterialsLines(t *testing.T) {
	m, ok := LookupFenceMaterials(DefaultCatalog(), FenceLappedCapped18, 10)
	require.True(t, ok)

	lines := m.Lines()
	require.Len(t, lines, 9)
	assert.Equal(t, "Posts", lines[2].Item)
	assert.Equal(t, "2.4m", lines[2].Note)
	assert.Equal(t, Qty(4), lines[7].Quantity)
	assert.False(t, lines[8].Quantity.Applicable)
}

func TestFencingResultLines(t *testing.T) {
	res, ok := EstimateFence(FenceSpec{Length: 24, PostSpacing: 2.4, Height: 4, FenceType: FencePostRail})
	require.True(t, ok)
	lines := res.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "Rails", lines[2].Item)
	assert.Equal(t, Qty(20), lines[2].Quantity)

	res.HasRails = false
	assert.Len(t, res.Lines(), 3)
}

func TestQuantityJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		A Quantity `json:"a"`
		B Quantity `json:"b"`
	}{Qty(3), NotApplicable()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":3,"b":null}`, string(data))

	var decoded struct {
		A Quantity `json:"a"`
		B Quantity `json:"b"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Qty(3), decoded.A)
	assert.Equal(t, NotApplicable(), decoded.B)
}

func TestLookupDeclineReasons(t *testing.T) {
	assert.Equal(t, ReasonNone, LengthReason(10))
	assert.Equal(t, ReasonMissingLength, LengthReason(0))
	assert.Equal(t, ReasonNotFinite, LengthReason(math.NaN()))
	assert.Equal(t, ReasonNotFinite, LengthReason(math.Inf(1)))
	assert.Equal(t, ReasonOutOfRange, LengthReason(1e300))

	assert.Equal(t, ReasonNone, GateCountReason(0))
	assert.Equal(t, ReasonNegativeGates, GateCountReason(-1))
	assert.Equal(t, ReasonOutOfRange, GateCountReason(math.MaxInt))
}
