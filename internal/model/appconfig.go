package model

// AppConfig holds application-wide preferences and default settings.
type AppConfig struct {
	// Defaults applied to new calculations
	DefaultPostSpacing float64 `json:"default_post_spacing"`
	DefaultHeight      float64 `json:"default_height"`
	DefaultFenceType   string  `json:"default_fence_type"`
	DefaultGateType    string  `json:"default_gate_type"`
	DefaultGateWidth   float64 `json:"default_gate_width"`
	DefaultUnit        Unit    `json:"default_unit"`

	// Application preferences
	CatalogPath    string   `json:"catalog_path"`    // Optional YAML catalog override
	PriceListPath  string   `json:"price_list_path"` // Optional YAML price list
	LogLevel       string   `json:"log_level"`       // logrus level name
	RecentTakeoffs []string `json:"recent_takeoffs"` // Paths of recent exports
	CompanyName    string   `json:"company_name"`    // Printed on PDF exports
}

// maxRecentTakeoffs bounds RecentTakeoffs.
const maxRecentTakeoffs = 10

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultPostSpacing: 2.4,
		DefaultHeight:      1.8,
		DefaultFenceType:   FenceLapped18,
		DefaultGateType:    "",
		DefaultGateWidth:   1.0,
		DefaultUnit:        UnitMeters,
		LogLevel:           "info",
		RecentTakeoffs:     []string{},
	}
}

// ApplyToSpec fills the zero-valued fields of s from the configured defaults.
// Length and GateCount are never defaulted.
func (c AppConfig) ApplyToSpec(s *FenceSpec) {
	if s.PostSpacing == 0 {
		s.PostSpacing = c.DefaultPostSpacing
	}
	if s.Height == 0 {
		s.Height = c.DefaultHeight
	}
	if s.FenceType == "" {
		s.FenceType = c.DefaultFenceType
	}
	if s.GateWidth == 0 && s.GateCount > 0 {
		s.GateWidth = c.DefaultGateWidth
	}
	if s.Unit == "" {
		s.Unit = c.DefaultUnit
	}
}

// AddRecent records path as the most recent export, dropping duplicates and
// trimming the list.
func (c *AppConfig) AddRecent(path string) {
	recent := []string{path}
	for _, p := range c.RecentTakeoffs {
		if p != path {
			recent = append(recent, p)
		}
	}
	if len(recent) > maxRecentTakeoffs {
		recent = recent[:maxRecentTakeoffs]
	}
	c.RecentTakeoffs = recent
}
