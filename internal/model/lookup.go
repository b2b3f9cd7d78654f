package model

import "math"

// FenceMaterials is a FenceBOM scaled to a requested run length.
type FenceMaterials struct {
	FenceType  string   `json:"fence_type"`
	Length     float64  `json:"length"`
	Palings    int      `json:"palings"`
	Panels     int      `json:"panels"`
	PostHeight string   `json:"post_height"`
	Posts      int      `json:"posts"`
	Rails      int      `json:"rails"`
	Nails      int      `json:"nails"`
	Screws     int      `json:"screws"`
	RapidSets  int      `json:"rapid_sets"`
	Caps       Quantity `json:"caps"`
	Sleepers   Quantity `json:"sleepers"`
}

// GateMaterials is a GateBOM multiplied by a gate count.
type GateMaterials struct {
	GateType            string `json:"gate_type"`
	GateCount           int    `json:"gate_count"`
	Palings             int    `json:"palings"`
	AdjustableGateStile int    `json:"adjustable_gate_stile"`
	NailHardened32mm    int    `json:"nail_hardened_32mm"`
	HardwoodPostHeight  string `json:"hardwood_post_height"`
	HardwoodPostQty     int    `json:"hardwood_post_qty"`
	RapidSet30kg        int    `json:"rapid_set_30kg"`
	RapidSet20kg        int    `json:"rapid_set_20kg"`
	Hinges              int    `json:"hinges"`
	DLatch              int    `json:"d_latch"`
	DropBolts           int    `json:"drop_bolts"`
	Screws              int    `json:"screws"`
}

// maxLookupLength bounds a table lookup; +Inf and NaN fail the range check.
const maxLookupLength = 1e9

// LengthReason explains why a fence lookup declined a run length.
func LengthReason(length float64) Reason {
	switch {
	case math.IsNaN(length) || math.IsInf(length, 0):
		return ReasonNotFinite
	case !(length > 0):
		return ReasonMissingLength
	case length > maxLookupLength:
		return ReasonOutOfRange
	}
	return ReasonNone
}

// GateCountReason explains why a gate lookup declined a gate count.
func GateCountReason(gateCount int) Reason {
	switch {
	case gateCount < 0:
		return ReasonNegativeGates
	case gateCount > maxGates:
		return ReasonOutOfRange
	}
	return ReasonNone
}

// scaleUp rounds one scaled quantity up on its own. Fields are never
// rounded together.
func scaleUp(value, factor float64) int {
	return int(math.Ceil(value * factor))
}

func scaleOptional(value *float64, factor float64) Quantity {
	if value == nil {
		return NotApplicable()
	}
	return Qty(scaleUp(*value, factor))
}

// LookupFenceMaterials scales the catalog row for fenceType to length.
// Unknown styles and non-positive, non-finite or oversized lengths produce
// no result.
func LookupFenceMaterials(c Catalog, fenceType string, length float64) (FenceMaterials, bool) {
	bom, found := c.Fences[fenceType]
	if !found || !(length > 0) || length > maxLookupLength {
		return FenceMaterials{}, false
	}

	factor := length / CatalogRunLength
	return FenceMaterials{
		FenceType:  fenceType,
		Length:     length,
		Palings:    scaleUp(bom.Palings, factor),
		Panels:     scaleUp(bom.Panels, factor),
		PostHeight: bom.PostHeight,
		Posts:      scaleUp(bom.Posts, factor),
		Rails:      scaleUp(bom.Rails, factor),
		Nails:      scaleUp(bom.Nails, factor),
		Screws:     scaleUp(bom.Screws, factor),
		RapidSets:  scaleUp(bom.RapidSets, factor),
		Caps:       scaleOptional(bom.Caps, factor),
		Sleepers:   scaleOptional(bom.Sleepers, factor),
	}, true
}

// LookupGateMaterials multiplies the catalog row for gateType by gateCount.
// Unknown styles, negative counts and counts above maxGates produce no result.
func LookupGateMaterials(c Catalog, gateType string, gateCount int) (GateMaterials, bool) {
	bom, found := c.Gates[gateType]
	if !found || gateCount < 0 || gateCount > maxGates {
		return GateMaterials{}, false
	}

	return GateMaterials{
		GateType:            gateType,
		GateCount:           gateCount,
		Palings:             bom.Palings * gateCount,
		AdjustableGateStile: bom.AdjustableGateStile * gateCount,
		NailHardened32mm:    bom.NailHardened32mm * gateCount,
		HardwoodPostHeight:  bom.HardwoodPostHeight,
		HardwoodPostQty:     bom.HardwoodPostQty * gateCount,
		RapidSet30kg:        bom.RapidSet30kg * gateCount,
		RapidSet20kg:        bom.RapidSet20kg * gateCount,
		Hinges:              bom.Hinges * gateCount,
		DLatch:              bom.DLatch * gateCount,
		DropBolts:           bom.DropBolts * gateCount,
		Screws:              bom.Screws * gateCount,
	}, true
}

// Lines flattens the fence materials into bill-of-materials rows.
func (m FenceMaterials) Lines() []MaterialLine {
	return []MaterialLine{
		{Item: "Palings", Quantity: Qty(m.Palings), Unit: "ea"},
		{Item: "Panels", Quantity: Qty(m.Panels), Unit: "ea"},
		{Item: "Posts", Quantity: Qty(m.Posts), Unit: "ea", Note: m.PostHeight},
		{Item: "Rails", Quantity: Qty(m.Rails), Unit: "ea"},
		{Item: "Nails", Quantity: Qty(m.Nails), Unit: "ea"},
		{Item: "Screws", Quantity: Qty(m.Screws), Unit: "ea"},
		{Item: "Rapid Set", Quantity: Qty(m.RapidSets), Unit: "bag"},
		{Item: "Caps", Quantity: m.Caps, Unit: "ea"},
		{Item: "Sleepers", Quantity: m.Sleepers, Unit: "ea"},
	}
}

// Lines flattens the gate materials into bill-of-materials rows.
func (m GateMaterials) Lines() []MaterialLine {
	return []MaterialLine{
		{Item: "Gate Palings", Quantity: Qty(m.Palings), Unit: "ea"},
		{Item: "Adjustable Gate Stile", Quantity: Qty(m.AdjustableGateStile), Unit: "ea"},
		{Item: "Hardened Nails 32mm", Quantity: Qty(m.NailHardened32mm), Unit: "ea"},
		{Item: "Hardwood Posts", Quantity: Qty(m.HardwoodPostQty), Unit: "ea", Note: m.HardwoodPostHeight},
		{Item: "Rapid Set 30kg", Quantity: Qty(m.RapidSet30kg), Unit: "bag"},
		{Item: "Rapid Set 20kg", Quantity: Qty(m.RapidSet20kg), Unit: "bag"},
		{Item: "Hinges", Quantity: Qty(m.Hinges), Unit: "ea"},
		{Item: "D Latch", Quantity: Qty(m.DLatch), Unit: "ea"},
		{Item: "Drop Bolts", Quantity: Qty(m.DropBolts), Unit: "ea"},
		{Item: "Gate Screws", Quantity: Qty(m.Screws), Unit: "ea"},
	}
}

// Lines flattens an estimate into bill-of-materials rows.
func (r FencingResult) Lines() []MaterialLine {
	lines := []MaterialLine{
		{Item: "Posts", Quantity: Qty(r.Posts), Unit: "ea", Note: postNote(r.PostDiameter)},
		{Item: "Panels", Quantity: Qty(r.Panels), Unit: "ea"},
	}
	if r.HasRails {
		lines = append(lines, MaterialLine{Item: "Rails", Quantity: Qty(r.TotalRails), Unit: "ea",
			Note: railNote(r.RailsPerSection)})
	}
	lines = append(lines, MaterialLine{Item: "Concrete", Quantity: Qty(r.ConcreteBags), Unit: "bag"})
	return lines
}

func postNote(diameter int) string {
	if diameter == heavyPostDiameter {
		return `6" posts`
	}
	return `4" posts`
}

func railNote(perSection int) string {
	if perSection == 2 {
		return "2 per section"
	}
	return "3 per section"
}
