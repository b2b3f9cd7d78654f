package model

import (
	"fmt"
	"sort"
)

// CatalogRunLength is the run length, in meters, every FenceBOM is normalised to.
const CatalogRunLength = 10.0

// FenceBOM lists the materials for a 10 m run of one fence style.
// Caps and Sleepers are nil when the style does not use them.
type FenceBOM struct {
	Palings    float64  `json:"palings" yaml:"palings"`
	Panels     float64  `json:"panels" yaml:"panels"`
	PostHeight string   `json:"post_height" yaml:"post_height"` // e.g. "2.4m", never scaled
	Posts      float64  `json:"posts" yaml:"posts"`
	Rails      float64  `json:"rails" yaml:"rails"`
	Nails      float64  `json:"nails" yaml:"nails"`
	Screws     float64  `json:"screws" yaml:"screws"`
	RapidSets  float64  `json:"rapid_sets" yaml:"rapid_sets"`
	Caps       *float64 `json:"caps,omitempty" yaml:"caps,omitempty"`
	Sleepers   *float64 `json:"sleepers,omitempty" yaml:"sleepers,omitempty"`
}

// GateBOM lists the materials for a single gate of one style.
type GateBOM struct {
	Palings             int    `json:"palings" yaml:"palings"`
	AdjustableGateStile int    `json:"adjustable_gate_stile" yaml:"adjustable_gate_stile"`
	NailHardened32mm    int    `json:"nail_hardened_32mm" yaml:"nail_hardened_32mm"`
	HardwoodPostHeight  string `json:"hardwood_post_height" yaml:"hardwood_post_height"` // never multiplied
	HardwoodPostQty     int    `json:"hardwood_post_qty" yaml:"hardwood_post_qty"`
	RapidSet30kg        int    `json:"rapid_set_30kg" yaml:"rapid_set_30kg"`
	RapidSet20kg        int    `json:"rapid_set_20kg" yaml:"rapid_set_20kg"`
	Hinges              int    `json:"hinges" yaml:"hinges"`
	DLatch              int    `json:"d_latch" yaml:"d_latch"`
	DropBolts           int    `json:"drop_bolts" yaml:"drop_bolts"`
	Screws              int    `json:"screws" yaml:"screws"`
}

// Catalog is the reference data the lookups read from. Treat it as
// read-only once built; DefaultCatalog hands out a fresh copy each call.
type Catalog struct {
	Fences map[string]FenceBOM `json:"fences" yaml:"fences"`
	Gates  map[string]GateBOM  `json:"gates" yaml:"gates"`
}

func amount(v float64) *float64 { return &v }

// DefaultCatalog returns the built-in fence and gate tables.
func DefaultCatalog() Catalog {
	return Catalog{
		Fences: map[string]FenceBOM{
			FenceButtedSleeper18: {
				Palings: 67, Panels: 4, PostHeight: "2.4m", Posts: 5, Rails: 12,
				Nails: 402, Screws: 48, RapidSets: 5, Sleepers: amount(4),
			},
			FenceLapped18: {
				Palings: 100, Panels: 4, PostHeight: "2.4m", Posts: 11, Rails: 12,
				Nails: 600, Screws: 48, RapidSets: 11,
			},
			FenceLappedCapped18: {
				Palings: 100, Panels: 4, PostHeight: "2.4m", Posts: 11, Rails: 12,
				Nails: 600, Screws: 96, RapidSets: 11, Caps: amount(4),
			},
			FenceButted21: {
				Palings: 67, Panels: 4, PostHeight: "2.7m", Posts: 5, Rails: 12,
				Nails: 469, Screws: 48, RapidSets: 5,
			},
			FenceLappedCappedSleeper21: {
				Palings: 100, Panels: 4, PostHeight: "2.7m", Posts: 11, Rails: 15,
				Nails: 700, Screws: 96, RapidSets: 11, Caps: amount(4), Sleepers: amount(4),
			},
			FencePicket: {
				Palings: 80, Panels: 5, PostHeight: "1.5m", Posts: 5, Rails: 10,
				Nails: 320, Screws: 20, RapidSets: 5, Caps: amount(5),
			},
			FencePrivacy: {
				Palings: 100, Panels: 5, PostHeight: "2.7m", Posts: 6, Rails: 15,
				Nails: 0, Screws: 600, RapidSets: 6, Caps: amount(6), Sleepers: amount(5),
			},
			FenceChainLink: {
				Palings: 0, Panels: 1, PostHeight: "2.4m", Posts: 4, Rails: 1,
				Nails: 0, Screws: 40, RapidSets: 4, Caps: amount(4),
			},
			FencePostRail: {
				Palings: 0, Panels: 4, PostHeight: "1.8m", Posts: 5, Rails: 12,
				Nails: 0, Screws: 48, RapidSets: 5,
			},
		},
		Gates: map[string]GateBOM{
			"1.2m x 1m Single Gate":   singleGate("1800mm"),
			"1.5m x 1m Single Gate":   singleGate("2100mm"),
			"1.8m x 1m Single Gate":   singleGate("2400mm"),
			"2.1m x 1m Single Gate":   singleGate("2700mm"),
			"1.2m x 1.5m Double Gate": doubleGate("1800mm"),
			"1.5m x 1.5m Double Gate": doubleGate("2100mm"),
			"1.8m x 1.5m Double Gate": doubleGate("2400mm"),
			"2.1m x 1.5m Double Gate": doubleGate("2700mm"),
		},
	}
}

func singleGate(postHeight string) GateBOM {
	return GateBOM{
		Palings: 11, AdjustableGateStile: 1, NailHardened32mm: 66,
		HardwoodPostHeight: postHeight, HardwoodPostQty: 2,
		RapidSet30kg: 1, RapidSet20kg: 1, Hinges: 2, DLatch: 1, DropBolts: 0, Screws: 12,
	}
}

func doubleGate(postHeight string) GateBOM {
	return GateBOM{
		Palings: 16, AdjustableGateStile: 2, NailHardened32mm: 96,
		HardwoodPostHeight: postHeight, HardwoodPostQty: 2,
		RapidSet30kg: 2, RapidSet20kg: 1, Hinges: 2, DLatch: 1, DropBolts: 1, Screws: 24,
	}
}

// FenceTypes returns the fence style keys in sorted order.
func (c Catalog) FenceTypes() []string {
	names := make([]string, 0, len(c.Fences))
	for name := range c.Fences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GateTypes returns the gate style keys in sorted order.
func (c Catalog) GateTypes() []string {
	names := make([]string, 0, len(c.Gates))
	for name := range c.Gates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy so callers can edit a catalog without touching the source.
func (c Catalog) Clone() Catalog {
	out := Catalog{
		Fences: make(map[string]FenceBOM, len(c.Fences)),
		Gates:  make(map[string]GateBOM, len(c.Gates)),
	}
	for k, v := range c.Fences {
		if v.Caps != nil {
			v.Caps = amount(*v.Caps)
		}
		if v.Sleepers != nil {
			v.Sleepers = amount(*v.Sleepers)
		}
		out.Fences[k] = v
	}
	for k, v := range c.Gates {
		out.Gates[k] = v
	}
	return out
}

// Merge overlays other on top of c, replacing styles with the same key.
func (c Catalog) Merge(other Catalog) Catalog {
	out := c.Clone()
	for k, v := range other.Clone().Fences {
		out.Fences[k] = v
	}
	for k, v := range other.Gates {
		out.Gates[k] = v
	}
	return out
}

// Validate rejects rows with negative quantities or missing post heights.
func (c Catalog) Validate() error {
	for _, name := range c.FenceTypes() {
		f := c.Fences[name]
		values := []float64{f.Palings, f.Panels, f.Posts, f.Rails, f.Nails, f.Screws, f.RapidSets}
		if f.Caps != nil {
			values = append(values, *f.Caps)
		}
		if f.Sleepers != nil {
			values = append(values, *f.Sleepers)
		}
		for _, v := range values {
			if v < 0 {
				return fmt.Errorf("fence type %q: quantities cannot be negative", name)
			}
		}
		if f.PostHeight == "" {
			return fmt.Errorf("fence type %q: post height is required", name)
		}
	}
	for _, name := range c.GateTypes() {
		g := c.Gates[name]
		values := []int{g.Palings, g.AdjustableGateStile, g.NailHardened32mm, g.HardwoodPostQty,
			g.RapidSet30kg, g.RapidSet20kg, g.Hinges, g.DLatch, g.DropBolts, g.Screws}
		for _, v := range values {
			if v < 0 {
				return fmt.Errorf("gate type %q: quantities cannot be negative", name)
			}
		}
		if g.HardwoodPostHeight == "" {
			return fmt.Errorf("gate type %q: hardwood post height is required", name)
		}
	}
	return nil
}
