package importer

import (
	"fmt"
	"math"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/fencecalc/internal/model"
)

// point is a 2D drawing coordinate.
type point struct {
	X, Y float64
}

// segment is a straight piece of boundary between two points, used for
// chaining disconnected LINE entities into runs.
type segment struct {
	start point
	end   point
}

// minRunLength drops slivers left over from drafting (in metres, after scaling).
const minRunLength = 0.05

// ImportDXF reads a site plan and returns one FenceRun per boundary.
// Each LWPOLYLINE is a run, and connected LINE and ARC entities are chained
// into runs. Drawing units are multiplied by scale; scale <= 0 means 1.
func ImportDXF(path string, scale float64) ImportResult {
	result := ImportResult{}
	if scale <= 0 {
		scale = 1
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var lengths []float64
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			if len(e.Vertices) < 2 {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 2 vertices")
				continue
			}
			lengths = append(lengths, lwPolylineLength(e))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			segments = append(segments, pointsToSegments(pts)...)

		case *entity.Line:
			segments = append(segments, segment{
				start: point{X: e.Start[0], Y: e.Start[1]},
				end:   point{X: e.End[0], Y: e.End[1]},
			})

		default:
			// Text, dimensions and hatches carry no boundary
		}
	}

	for _, chain := range chainSegments(segments, 0.01) {
		lengths = append(lengths, pathLength(chain))
	}

	if len(lengths) == 0 {
		result.Errors = append(result.Errors, "No fence lines found in DXF file")
		return result
	}

	for _, l := range lengths {
		length := l * scale
		if length < minRunLength {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped short boundary (%.3f)", length))
			continue
		}
		result.Runs = append(result.Runs, model.FenceRun{
			Label:  fmt.Sprintf("DXF Run %d", len(result.Runs)+1),
			Length: math.Round(length*1000) / 1000,
		})
	}

	if len(result.Runs) == 0 {
		result.Errors = append(result.Errors, "No fence lines found in DXF file")
	}

	return result
}

// lwPolylineLength measures a LWPOLYLINE along its vertices, following bulged
// segments as arcs and including the closing segment when the polyline is closed.
func lwPolylineLength(lw *entity.LwPolyline) float64 {
	n := len(lw.Vertices)
	segs := n - 1
	if lw.Closed {
		segs = n
	}

	var total float64
	for i := 0; i < segs; i++ {
		a := point{X: lw.Vertices[i][0], Y: lw.Vertices[i][1]}
		next := lw.Vertices[(i+1)%n]
		b := point{X: next[0], Y: next[1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		total += bulgeSegmentLength(a, b, bulge)
	}
	return total
}

// bulgeSegmentLength returns the length of a polyline segment. The bulge is the
// tangent of 1/4 the included angle; zero means a straight segment.
func bulgeSegmentLength(a, b point, bulge float64) float64 {
	chord := distance(a, b)
	if math.Abs(bulge) < 1e-9 || chord < 1e-9 {
		return chord
	}
	theta := 4 * math.Atan(math.Abs(bulge))
	radius := chord / (2 * math.Sin(theta/2))
	return radius * theta
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []point {
	cx, cy := a.Circle.Center[0], a.Circle.Center[1]
	r := a.Circle.Radius

	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}

	pts := make([]point, numSegments+1)
	for i := 0; i <= numSegments; i++ {
		t := float64(i) / float64(numSegments)
		angle := startRad + t*(endRad-startRad)
		pts[i] = point{
			X: cx + r*math.Cos(angle),
			Y: cy + r*math.Sin(angle),
		}
	}
	return pts
}

// pointsToSegments converts a point sequence to a slice of connected segments.
func pointsToSegments(pts []point) []segment {
	if len(pts) < 2 {
		return nil
	}
	segs := make([]segment, 0, len(pts)-1)
	for i := 0; i < len(pts)-1; i++ {
		segs = append(segs, segment{start: pts[i], end: pts[i+1]})
	}
	return segs
}

// chainSegments connects segments that share endpoints into paths.
// tolerance is the maximum distance between endpoints to consider them connected.
// A closed loop ends on its first point, so its length includes the closing side.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var chains [][]point

	for start := range segs {
		if used[start] {
			continue
		}

		chain := []point{segs[start].start, segs[start].end}
		used[start] = true

		// Extend from the tail, then from the head
		for _, atHead := range []bool{false, true} {
			changed := true
			for changed {
				changed = false
				end := chain[len(chain)-1]
				if atHead {
					end = chain[0]
				}

				for i, seg := range segs {
					if used[i] {
						continue
					}
					var next point
					switch {
					case pointsClose(end, seg.start, tolerance):
						next = seg.end
					case pointsClose(end, seg.end, tolerance):
						next = seg.start
					default:
						continue
					}
					if atHead {
						chain = append([]point{next}, chain...)
					} else {
						chain = append(chain, next)
					}
					used[i] = true
					changed = true
					break
				}
			}
		}

		chains = append(chains, chain)
	}

	return chains
}

// pathLength sums the straight distances along a point path.
func pathLength(pts []point) float64 {
	var total float64
	for i := 1; i < len(pts); i++ {
		total += distance(pts[i-1], pts[i])
	}
	return total
}

func distance(a, b point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return distance(a, b) <= tolerance
}
