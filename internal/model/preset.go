package model

import (
	"time"

	"github.com/google/uuid"
)

// TakeoffPreset is a reusable fence configuration: style, spacing, height,
// gate style and unit, without a run length.
type TakeoffPreset struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
	Fence       FenceSpec `json:"fence"`
	GateType    string    `json:"gate_type,omitempty"`
}

// NewTakeoffPreset creates a preset from fence settings. Length and gate count are
// job specific and are not stored.
func NewTakeoffPreset(name, description string, spec FenceSpec, gateType string) TakeoffPreset {
	now := time.Now().UTC().Format(time.RFC3339)
	spec.Length = 0
	spec.GateCount = 0
	return TakeoffPreset{
		ID:          uuid.New().String()[:8],
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Fence:       spec,
		GateType:    gateType,
	}
}

// ToRequest creates a takeoff request for a concrete run from this preset.
func (p TakeoffPreset) ToRequest(takeoffName string, length float64, gateCount int) TakeoffRequest {
	spec := p.Fence
	spec.Length = length
	spec.GateCount = gateCount
	return TakeoffRequest{
		Name:     takeoffName,
		Fence:    spec,
		GateType: p.GateType,
	}
}

// PresetStore holds a collection of takeoff presets.
type PresetStore struct {
	Presets []TakeoffPreset `json:"presets"`
}

// NewPresetStore creates an empty preset store.
func NewPresetStore() PresetStore {
	return PresetStore{
		Presets: []TakeoffPreset{},
	}
}

// Add adds a preset to the store, replacing any preset with the same name.
func (ps *PresetStore) Add(p TakeoffPreset) {
	for i := range ps.Presets {
		if ps.Presets[i].Name == p.Name {
			p.ID = ps.Presets[i].ID
			p.CreatedAt = ps.Presets[i].CreatedAt
			ps.Presets[i] = p
			return
		}
	}
	ps.Presets = append(ps.Presets, p)
}

// Remove removes a preset by ID or name. Returns true if found and removed.
func (ps *PresetStore) Remove(idOrName string) bool {
	for i, p := range ps.Presets {
		if p.ID == idOrName || p.Name == idOrName {
			ps.Presets = append(ps.Presets[:i], ps.Presets[i+1:]...)
			return true
		}
	}
	return false
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (ps *PresetStore) FindByID(id string) *TakeoffPreset {
	for i := range ps.Presets {
		if ps.Presets[i].ID == id {
			return &ps.Presets[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset with the given name, or nil.
func (ps *PresetStore) FindByName(name string) *TakeoffPreset {
	for i := range ps.Presets {
		if ps.Presets[i].Name == name {
			return &ps.Presets[i]
		}
	}
	return nil
}

// Names returns the preset names in store order.
func (ps *PresetStore) Names() []string {
	names := make([]string, len(ps.Presets))
	for i, p := range ps.Presets {
		names[i] = p.Name
	}
	return names
}
