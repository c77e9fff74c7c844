package planner

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Simplify reduces a path with Douglas-Peucker: interior waypoints within
// epsilon of the chord are dropped, but only when the chord itself is free.
// The result is a subsequence of path with the same endpoints; if every hop
// of path is free, so is every hop of the result.
func Simplify(path Path, ws *Workspace, epsilon float64) Path {
	if len(path) <= 2 {
		return path.Clone()
	}
	return douglasPeucker(path, ws, epsilon)
}

func douglasPeucker(points Path, ws *Workspace, epsilon float64) Path {
	end := len(points) - 1
	if end <= 1 {
		return points.Clone()
	}

	// Find the point with maximum distance from the chord
	a, b := orb.Point{points[0].X, points[0].Y}, orb.Point{points[end].X, points[end].Y}
	dmax := 0.0
	index := end / 2
	for i := 1; i < end; i++ {
		d := planar.DistanceFromSegment(a, b, orb.Point{points[i].X, points[i].Y})
		if d > dmax {
			index = i
			dmax = d
		}
	}

	if dmax <= epsilon && ws.SegmentIsFree(points[0], points[end]) {
		return Path{points[0], points[end]}
	}

	left := douglasPeucker(points[:index+1], ws, epsilon)
	right := douglasPeucker(points[index:], ws, epsilon)

	// Combine results (removing duplicate point at index)
	result := make(Path, 0, len(left)+len(right)-1)
	result = append(result, left[:len(left)-1]...)
	return append(result, right...)
}
