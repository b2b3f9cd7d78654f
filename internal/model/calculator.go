package model

import "math"

// Post and footing constants used by the linear estimator.
const (
	standardPostDiameter = 4   // inches
	heavyPostDiameter    = 6   // inches, tall or privacy fences
	heavyPostMinHeight   = 6.0 // heights above this need heavy posts
	holeDiameterFactor   = 2.0 // hole is twice the post width
	extraHoleDepth       = 0.5 // feet below one third of the fence height
	bagYieldCubicFeet    = 0.45
	lowRailMaxHeight     = 4.0 // two rails up to this height, three above
)

// EstimateFence converts a fence run into post, panel, rail and concrete
// counts. It returns ok=false, and no partial result, when the inputs are not
// usable; FenceSpec.Validate tells why.
func EstimateFence(spec FenceSpec) (FencingResult, bool) {
	if spec.Validate() != ReasonNone {
		return FencingResult{}, false
	}

	sections := int(math.Ceil(spec.FencingLength() / spec.PostSpacing))
	posts := sections + 1 + spec.GateCount*2
	diameter := PostDiameter(spec.Height, spec.FenceType)

	result := FencingResult{
		Posts:        posts,
		Panels:       sections,
		PostDiameter: diameter,
		ConcreteBags: ConcreteBags(diameter, spec.Height, posts),
	}

	if spec.FenceType == FencePostRail {
		result.HasRails = true
		result.RailsPerSection = RailsPerSection(spec.Height)
		result.TotalRails = sections * result.RailsPerSection
	}

	return result, true
}

// PostDiameter returns the post width in inches for a fence height and style.
func PostDiameter(height float64, fenceType string) int {
	if height > heavyPostMinHeight || fenceType == FencePrivacy {
		return heavyPostDiameter
	}
	return standardPostDiameter
}

// RailsPerSection is the post-and-rail policy: two rails for low fences,
// three otherwise.
func RailsPerSection(height float64) int {
	if height <= lowRailMaxHeight {
		return 2
	}
	return 3
}

// BagsPerPost is the number of concrete bags one post hole takes.
// The hole is a cylinder twice the post diameter wide and one third of the
// fence height plus six inches deep.
func BagsPerPost(postDiameter int, height float64) float64 {
	holeDiameter := float64(postDiameter) / 12 * holeDiameterFactor
	holeDepth := height/3 + extraHoleDepth
	volume := math.Pi * math.Pow(holeDiameter/2, 2) * holeDepth
	return volume / bagYieldCubicFeet
}

// ConcreteBags rounds the total concrete for all posts up to whole bags.
func ConcreteBags(postDiameter int, height float64, posts int) int {
	return int(math.Ceil(BagsPerPost(postDiameter, height) * float64(posts)))
}
