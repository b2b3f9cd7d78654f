package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Unit is the measurement label attached to a calculation. It is never used
// to convert values; callers supply internally consistent numbers.
type Unit string

const (
	UnitMeters Unit = "meters"
	UnitFeet   Unit = "feet"
)

// Abbrev returns the short label used in reports ("m" or "ft").
func (u Unit) Abbrev() string {
	if u == UnitFeet {
		return "ft"
	}
	return "m"
}

// ParseUnit accepts the common spellings of a unit. Unknown values are
// reported with ok=false.
func ParseUnit(s string) (Unit, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "meter", "meters", "metre", "metres":
		return UnitMeters, true
	case "ft", "foot", "feet":
		return UnitFeet, true
	default:
		return UnitMeters, false
	}
}

// Fence style keys recognised by the estimator and the built-in catalog.
const (
	FenceButtedSleeper18       = "1.8m butted up with a sleeper"
	FenceLapped18              = "1.8m lapped"
	FenceLappedCapped18        = "1.8m lapped and capped"
	FenceButted21              = "2.1m butted up"
	FenceLappedCappedSleeper21 = "2.1m lapped and capped with a sleeper"
	FencePicket                = "picket"
	FencePrivacy               = "privacy"
	FenceChainLink             = "chain-link"
	FencePostRail              = "post-rail"
)

// FenceSpec is the raw input of a linear fence estimate.
type FenceSpec struct {
	Length      float64 `json:"length"`       // Total run length
	PostSpacing float64 `json:"post_spacing"` // Distance between posts
	Height      float64 `json:"height"`       // Fence height, same unit as Length
	FenceType   string  `json:"fence_type"`
	GateCount   int     `json:"gate_count"`
	GateWidth   float64 `json:"gate_width"` // Width of each gate opening
	Unit        Unit    `json:"unit"`
}

// Reason explains why a calculation declined to produce a result.
// The empty Reason means the input is usable.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonMissingLength    Reason = "length must be greater than zero"
	ReasonMissingSpacing   Reason = "post spacing must be greater than zero"
	ReasonNegativeHeight   Reason = "height cannot be negative"
	ReasonNegativeGates    Reason = "gate count cannot be negative"
	ReasonNegativeGateSize Reason = "gate width cannot be negative"
	ReasonGatesExceedRun   Reason = "gates take up the whole fence run"
	ReasonNotFinite        Reason = "inputs must be finite numbers"
	ReasonOutOfRange       Reason = "inputs are too large to estimate"
	ReasonUnknownFenceType Reason = "unknown fence type"
	ReasonUnknownGateType  Reason = "unknown gate type"
	ReasonNoGates          Reason = "gate count is zero"
)

// Limits that keep every count of an estimate within an int.
const (
	maxSections = 1e9
	maxGates    = 1e6
	maxHeight   = 1e4
)

// Validate reports why the fence cannot be estimated, or ReasonNone.
func (s FenceSpec) Validate() Reason {
	switch {
	case !(s.Length > 0):
		return ReasonMissingLength
	case !(s.PostSpacing > 0):
		return ReasonMissingSpacing
	case !finite(s.Length, s.PostSpacing, s.Height, s.GateWidth):
		return ReasonNotFinite
	case s.Height < 0:
		return ReasonNegativeHeight
	case s.GateCount < 0:
		return ReasonNegativeGates
	case s.GateWidth < 0:
		return ReasonNegativeGateSize
	case s.FencingLength() <= 0:
		return ReasonGatesExceedRun
	case s.FencingLength()/s.PostSpacing > maxSections,
		s.GateCount > maxGates,
		s.Height > maxHeight:
		return ReasonOutOfRange
	}
	return ReasonNone
}

func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// FencingLength is the run length left after deducting gate openings.
func (s FenceSpec) FencingLength() float64 {
	return s.Length - float64(s.GateCount)*s.GateWidth
}

// FencingResult is the output of EstimateFence.
type FencingResult struct {
	Posts           int  `json:"posts"`
	Panels          int  `json:"panels"`
	PostDiameter    int  `json:"post_diameter"` // inches
	HasRails        bool `json:"has_rails"`
	RailsPerSection int  `json:"rails_per_section,omitempty"`
	TotalRails      int  `json:"total_rails,omitempty"`
	ConcreteBags    int  `json:"concrete_bags"`
}

// Quantity is a material count that may not apply to a given style.
type Quantity struct {
	Count      int
	Applicable bool
}

// Qty returns an applicable quantity.
func Qty(n int) Quantity {
	return Quantity{Count: n, Applicable: true}
}

// NotApplicable returns a quantity for materials a style does not use.
func NotApplicable() Quantity {
	return Quantity{}
}

func (q Quantity) String() string {
	if !q.Applicable {
		return "-"
	}
	return strconv.Itoa(q.Count)
}

// MarshalJSON encodes not-applicable quantities as null.
func (q Quantity) MarshalJSON() ([]byte, error) {
	if !q.Applicable {
		return []byte("null"), nil
	}
	return json.Marshal(q.Count)
}

// UnmarshalJSON accepts a number or null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = NotApplicable()
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Qty(n)
	return nil
}

// MaterialLine is one row of a bill of materials.
type MaterialLine struct {
	Item     string   `json:"item"`
	Quantity Quantity `json:"quantity"`
	Unit     string   `json:"unit"`           // e.g. "ea", "bag", "box"
	Note     string   `json:"note,omitempty"` // e.g. post length
}
