package planner

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Path is an ordered sequence of points from start to goal inclusive
type Path []Point

// LineString converts the path to an orb geometry
func (p Path) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(p))
	for _, pt := range p {
		ls = append(ls, orb.Point{pt.X, pt.Y})
	}
	return ls
}

// Length is the total Euclidean length of the polyline
func (p Path) Length() float64 {
	if len(p) < 2 {
		return 0
	}
	return planar.Length(p.LineString())
}

// Clone returns an independent copy of the path
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// PathFromLineString converts an orb geometry back to a path
func PathFromLineString(ls orb.LineString) Path {
	path := make(Path, 0, len(ls))
	for _, pt := range ls {
		path = append(path, Point{X: pt.X(), Y: pt.Y()})
	}
	return path
}
