package model

// FenceRun is one straight section of a job, e.g. "Back boundary".
type FenceRun struct {
	Label     string  `json:"label"`
	Length    float64 `json:"length"`
	GateCount int     `json:"gate_count"`
	GateWidth float64 `json:"gate_width"`
}

// RunResult pairs a run with its estimate.
type RunResult struct {
	Run    FenceRun      `json:"run"`
	Result FencingResult `json:"result"`
}

// DeclinedRun is a run that produced no estimate.
type DeclinedRun struct {
	Run    FenceRun `json:"run"`
	Reason Reason   `json:"reason"`
}

// RunsSummary aggregates the estimates of every run of a job.
type RunsSummary struct {
	Results      []RunResult   `json:"results"`
	Declined     []DeclinedRun `json:"declined,omitempty"`
	TotalLength  float64       `json:"total_length"` // Sum of estimated run lengths
	TotalPosts   int           `json:"total_posts"`
	TotalPanels  int           `json:"total_panels"`
	TotalRails   int           `json:"total_rails"`
	TotalBags    int           `json:"total_bags"`
	TotalGates   int           `json:"total_gates"`
	PostDiameter int           `json:"post_diameter"` // inches, shared by every run
}

// EstimateRuns estimates every run with the spacing, height, style and unit
// of base. Each run is estimated on its own, so a run's end posts are never
// shared with its neighbour.
func EstimateRuns(base FenceSpec, runs []FenceRun) RunsSummary {
	summary := RunsSummary{
		Results:      []RunResult{},
		PostDiameter: PostDiameter(base.Height, base.FenceType),
	}

	for _, run := range runs {
		spec := base
		spec.Length = run.Length
		spec.GateCount = run.GateCount
		spec.GateWidth = run.GateWidth

		res, ok := EstimateFence(spec)
		if !ok {
			summary.Declined = append(summary.Declined, DeclinedRun{Run: run, Reason: spec.Validate()})
			continue
		}

		summary.Results = append(summary.Results, RunResult{Run: run, Result: res})
		summary.TotalLength += run.Length
		summary.TotalPosts += res.Posts
		summary.TotalPanels += res.Panels
		summary.TotalRails += res.TotalRails
		summary.TotalGates += run.GateCount
	}

	// Concrete is ordered for the whole job, so round once over all posts.
	if len(summary.Results) > 0 {
		summary.TotalBags = ConcreteBags(summary.PostDiameter, base.Height, summary.TotalPosts)
	}

	return summary
}
