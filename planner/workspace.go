package planner

import "math"

// Workspace is the bounded plane [0,Width]x[0,Height] with static obstacles.
// It is read-only after construction and safe for concurrent use.
type Workspace struct {
	width     float64
	height    float64
	obstacles []Obstacle
	index     *obstacleIndex
}

// NewWorkspace validates the bounds and indexes the obstacles
func NewWorkspace(width, height float64, obstacles []Obstacle) (*Workspace, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, invalidf("workspace bounds must be positive and finite, got %gx%g", width, height)
	}

	normalized := make([]Obstacle, 0, len(obstacles))
	for i, o := range obstacles {
		o = o.normalized()
		if math.IsNaN(o.X1) || math.IsNaN(o.Y1) || math.IsNaN(o.X2) || math.IsNaN(o.Y2) {
			return nil, invalidf("obstacle %d has NaN coordinates", i)
		}
		normalized = append(normalized, o)
	}
	kept := removeContainedObstacles(normalized)

	return &Workspace{
		width:     width,
		height:    height,
		obstacles: kept,
		index:     newObstacleIndex(kept),
	}, nil
}

// Width of the planning bounds
func (w *Workspace) Width() float64 { return w.width }

// Height of the planning bounds
func (w *Workspace) Height() float64 { return w.height }

// Obstacles returns a copy of the indexed obstacles
func (w *Workspace) Obstacles() []Obstacle {
	out := make([]Obstacle, len(w.obstacles))
	copy(out, w.obstacles)
	return out
}

// ContainsPoint reports whether p lies within the planning bounds
func (w *Workspace) ContainsPoint(p Point) bool {
	return p.X >= 0 && p.X <= w.width && p.Y >= 0 && p.Y <= w.height
}

// PointIsFree checks if p is in bounds and outside every obstacle
func (w *Workspace) PointIsFree(p Point) bool {
	return w.ContainsPoint(p) && w.SegmentIsFree(p, p)
}

// SegmentIsFree checks if the closed segment a-b misses every obstacle
func (w *Workspace) SegmentIsFree(a, b Point) bool {
	for _, o := range w.index.querySegment(a, b) {
		if o.IntersectsSegment(a, b) {
			return false
		}
	}
	return true
}

// InMargin reports whether p falls within margin of any obstacle's bounding box
func (w *Workspace) InMargin(p Point, margin float64) bool {
	candidates := w.index.queryRegion(p.X-margin, p.Y-margin, p.X+margin, p.Y+margin)
	for _, o := range candidates {
		if o.Expand(margin).Contains(p) {
			return true
		}
	}
	return false
}
