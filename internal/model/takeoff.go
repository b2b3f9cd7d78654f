package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TakeoffRequest gathers everything needed for a full quantity takeoff.
type TakeoffRequest struct {
	Name     string    `json:"name"`
	Fence    FenceSpec `json:"fence"`
	GateType string    `json:"gate_type,omitempty"` // catalog key; empty skips the gate lookup
}

// Takeoff holds the three independent results of one calculation.
// Each part is nil when its calculator declined.
type Takeoff struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	CreatedAt string          `json:"created_at"`
	Request   TakeoffRequest  `json:"request"`
	Estimate  *FencingResult  `json:"estimate,omitempty"`
	Fence     *FenceMaterials `json:"fence_materials,omitempty"`
	Gates     *GateMaterials  `json:"gate_materials,omitempty"`
	Cost      *CostSummary    `json:"cost,omitempty"`
}

// BuildTakeoff runs the estimator and both table lookups for req.
// The returned notes explain every part that produced no result.
func BuildTakeoff(c Catalog, req TakeoffRequest) (Takeoff, []string) {
	name := req.Name
	if name == "" {
		name = "Untitled"
	}
	if req.Fence.Unit == "" {
		req.Fence.Unit = UnitMeters
	}

	t := Takeoff{
		ID:        uuid.New().String()[:8],
		Name:      name,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Request:   req,
	}
	var notes []string

	if est, ok := EstimateFence(req.Fence); ok {
		t.Estimate = &est
	} else {
		notes = append(notes, fmt.Sprintf("estimate: %s", req.Fence.Validate()))
	}

	if _, listed := c.Fences[req.Fence.FenceType]; listed {
		if m, ok := LookupFenceMaterials(c, req.Fence.FenceType, req.Fence.Length); ok {
			t.Fence = &m
		} else {
			notes = append(notes, fmt.Sprintf("fence materials: %s", LengthReason(req.Fence.Length)))
		}
	} else {
		notes = append(notes, fmt.Sprintf("fence materials: %s %q", ReasonUnknownFenceType, req.Fence.FenceType))
	}

	if req.GateType != "" {
		_, listed := c.Gates[req.GateType]
		switch {
		case !listed:
			notes = append(notes, fmt.Sprintf("gate materials: %s %q", ReasonUnknownGateType, req.GateType))
		case req.Fence.GateCount == 0:
			notes = append(notes, fmt.Sprintf("gate materials: %s", ReasonNoGates))
		default:
			if m, ok := LookupGateMaterials(c, req.GateType, req.Fence.GateCount); ok {
				t.Gates = &m
			} else {
				notes = append(notes, fmt.Sprintf("gate materials: %s", GateCountReason(req.Fence.GateCount)))
			}
		}
	}

	return t, notes
}

// Empty reports whether no calculator produced a result.
func (t Takeoff) Empty() bool {
	return t.Estimate == nil && t.Fence == nil && t.Gates == nil
}

// Lines returns every material row of the takeoff, grouped by section.
func (t Takeoff) Lines() []TakeoffSection {
	var sections []TakeoffSection
	if t.Estimate != nil {
		sections = append(sections, TakeoffSection{Title: "Estimate", Lines: t.Estimate.Lines()})
	}
	if t.Fence != nil {
		sections = append(sections, TakeoffSection{Title: "Fence Materials: " + t.Fence.FenceType, Lines: t.Fence.Lines()})
	}
	if t.Gates != nil {
		title := fmt.Sprintf("Gate Materials: %d x %s", t.Gates.GateCount, t.Gates.GateType)
		sections = append(sections, TakeoffSection{Title: title, Lines: t.Gates.Lines()})
	}
	return sections
}

// OrderLines returns the lines that make up a purchase order: the table
// lookups when present, otherwise the estimate.
func (t Takeoff) OrderLines() []MaterialLine {
	var lines []MaterialLine
	if t.Fence != nil {
		lines = append(lines, t.Fence.Lines()...)
	} else if t.Estimate != nil {
		lines = append(lines, t.Estimate.Lines()...)
	}
	if t.Gates != nil {
		lines = append(lines, t.Gates.Lines()...)
	}
	return lines
}

// TakeoffSection is a titled group of material lines.
type TakeoffSection struct {
	Title string         `json:"title"`
	Lines []MaterialLine `json:"lines"`
}
