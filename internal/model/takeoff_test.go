package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTakeoffAllParts(t *testing.T) {
	req := TakeoffRequest{
		Name: "12 Smith St",
		Fence: FenceSpec{
			Length: 25, PostSpacing: 2.4, Height: 1.8, FenceType: FenceLapped18,
			GateCount: 2, GateWidth: 1, Unit: UnitMeters,
		},
		GateType: "1.8m x 1.5m Double Gate",
	}

	tk, notes := BuildTakeoff(DefaultCatalog(), req)
	assert.Empty(t, notes)
	assert.Len(t, tk.ID, 8)
	assert.Equal(t, "12 Smith St", tk.Name)
	assert.NotEmpty(t, tk.CreatedAt)

	require.NotNil(t, tk.Estimate)
	require.NotNil(t, tk.Fence)
	require.NotNil(t, tk.Gates)
	assert.Equal(t, 28, tk.Fence.Posts)
	assert.Equal(t, 4, tk.Gates.Hinges)
	assert.False(t, tk.Empty())

	// 23 / 2.4 -> 10 sections, 10 + 1 + 4 posts
	assert.Equal(t, 15, tk.Estimate.Posts)

	sections := tk.Lines()
	require.Len(t, sections, 3)
	assert.Equal(t, "Estimate", sections[0].Title)
	assert.True(t, strings.HasPrefix(sections[2].Title, "Gate Materials: 2 x"))
}

func TestBuildTakeoffGenericStyleWithoutGate(t *testing.T) {
	req := TakeoffRequest{Fence: FenceSpec{Length: 24, PostSpacing: 2.4, Height: 4, FenceType: FencePostRail}}
	tk, notes := BuildTakeoff(DefaultCatalog(), req)

	assert.Empty(t, notes)
	assert.Equal(t, "Untitled", tk.Name)
	assert.Equal(t, UnitMeters, tk.Request.Fence.Unit)
	require.NotNil(t, tk.Estimate)
	assert.Equal(t, 20, tk.Estimate.TotalRails)
	require.NotNil(t, tk.Fence)
	// The catalog rail column is an independent path from the rail policy.
	assert.Equal(t, 29, tk.Fence.Rails)
	assert.Nil(t, tk.Gates)
}

func TestBuildTakeoffNotes(t *testing.T) {
	req := TakeoffRequest{
		Fence:    FenceSpec{Length: 0, PostSpacing: 2.4, FenceType: "bamboo"},
		GateType: "nope",
	}
	tk, notes := BuildTakeoff(DefaultCatalog(), req)
	assert.True(t, tk.Empty())
	require.Len(t, notes, 3)
	assert.Contains(t, notes[0], string(ReasonMissingLength))
	assert.Contains(t, notes[1], string(ReasonUnknownFenceType))
	assert.Contains(t, notes[2], string(ReasonUnknownGateType))
	assert.Empty(t, tk.OrderLines())
}

func TestBuildTakeoffGateTypeWithoutGates(t *testing.T) {
	req := TakeoffRequest{
		Fence:    FenceSpec{Length: 10, PostSpacing: 2.4, FenceType: FencePicket},
		GateType: "1.2m x 1m Single Gate",
	}
	tk, notes := BuildTakeoff(DefaultCatalog(), req)
	assert.Nil(t, tk.Gates)
	require.Len(t, notes, 1)
	assert.Contains(t, notes[0], string(ReasonNoGates))
}

func TestTakeoffOrderLinesPrefersCatalog(t *testing.T) {
	req := TakeoffRequest{
		Fence:    FenceSpec{Length: 10, PostSpacing: 2.4, Height: 1.8, FenceType: FenceLapped18, GateCount: 1, GateWidth: 1},
		GateType: "1.2m x 1m Single Gate",
	}
	tk, _ := BuildTakeoff(DefaultCatalog(), req)
	lines := tk.OrderLines()
	assert.Len(t, lines, 9+10)
	assert.Equal(t, "Palings", lines[0].Item)

	tk.Fence = nil
	lines = tk.OrderLines()
	assert.Equal(t, "Posts", lines[0].Item)
	assert.Len(t, lines, 3+10)
}
