// Package engine runs the fence estimator over sets of alternative inputs.
package engine

import (
	"fmt"

	"github.com/piwi3910/fencecalc/internal/model"
)

// ComparisonScenario defines a named set of fence inputs to compare.
type ComparisonScenario struct {
	Name string
	Spec model.FenceSpec
}

// ComparisonResult holds the estimate for a single scenario and its
// difference from the first (baseline) scenario.
type ComparisonResult struct {
	Scenario   ComparisonScenario
	Result     model.FencingResult
	OK         bool
	Reason     model.Reason
	PostsDelta int
	PanelDelta int
	BagsDelta  int
}

// CompareScenarios estimates each scenario in order. Deltas are relative to
// the first scenario and stay zero when either side declined.
func CompareScenarios(scenarios []ComparisonScenario) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	var baseline *ComparisonResult
	for _, scenario := range scenarios {
		res, ok := model.EstimateFence(scenario.Spec)
		cr := ComparisonResult{
			Scenario: scenario,
			Result:   res,
			OK:       ok,
			Reason:   scenario.Spec.Validate(),
		}

		if baseline != nil && baseline.OK && ok {
			cr.PostsDelta = res.Posts - baseline.Result.Posts
			cr.PanelDelta = res.Panels - baseline.Result.Panels
			cr.BagsDelta = res.ConcreteBags - baseline.Result.ConcreteBags
		}

		results = append(results, cr)
		if baseline == nil {
			baseline = &results[0]
		}
	}

	return results
}

// BuildDefaultScenarios generates what-if alternatives around base:
// tighter and wider post spacing, and the heavier privacy build.
func BuildDefaultScenarios(base model.FenceSpec) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{
			Name: "Current Settings",
			Spec: base,
		},
	}

	unit := base.Unit.Abbrev()

	// Scenario: tighter spacing (stiffer fence, more posts)
	if base.PostSpacing > 0.6 {
		tight := base
		tight.PostSpacing = base.PostSpacing - 0.3
		scenarios = append(scenarios, ComparisonScenario{
			Name: fmt.Sprintf("Spacing %.1f%s", tight.PostSpacing, unit),
			Spec: tight,
		})
	}

	// Scenario: wider spacing (fewer posts)
	if base.PostSpacing > 0 {
		wide := base
		wide.PostSpacing = base.PostSpacing + 0.3
		scenarios = append(scenarios, ComparisonScenario{
			Name: fmt.Sprintf("Spacing %.1f%s", wide.PostSpacing, unit),
			Spec: wide,
		})
	}

	// Scenario: privacy build (heavy posts)
	if base.FenceType != model.FencePrivacy {
		privacy := base
		privacy.FenceType = model.FencePrivacy
		scenarios = append(scenarios, ComparisonScenario{
			Name: "Privacy Build",
			Spec: privacy,
		})
	}

	return scenarios
}
