package planner

import "math"

// Point is a position in the planning plane
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Distance calculates Euclidean distance between two points
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Obstacle is an axis-aligned rectangle with X1<=X2 and Y1<=Y2
type Obstacle struct {
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`
	X2 float64 `json:"x2" yaml:"x2"`
	Y2 float64 `json:"y2" yaml:"y2"`
}

// NewObstacle builds an obstacle from two opposite corners in any order
func NewObstacle(a, b Point) Obstacle {
	return Obstacle{
		X1: math.Min(a.X, b.X),
		Y1: math.Min(a.Y, b.Y),
		X2: math.Max(a.X, b.X),
		Y2: math.Max(a.Y, b.Y),
	}
}

// normalized returns the obstacle with its corners ordered
func (o Obstacle) normalized() Obstacle {
	return NewObstacle(Point{X: o.X1, Y: o.Y1}, Point{X: o.X2, Y: o.Y2})
}

// Contains reports whether p lies inside the closed rectangle
func (o Obstacle) Contains(p Point) bool {
	return p.X >= o.X1 && p.X <= o.X2 && p.Y >= o.Y1 && p.Y <= o.Y2
}

// Expand grows the rectangle by margin on every side
func (o Obstacle) Expand(margin float64) Obstacle {
	return Obstacle{
		X1: o.X1 - margin,
		Y1: o.Y1 - margin,
		X2: o.X2 + margin,
		Y2: o.Y2 + margin,
	}
}

// containsObstacle checks if other lies entirely within o
func (o Obstacle) containsObstacle(other Obstacle) bool {
	return other.X1 >= o.X1 && other.X2 <= o.X2 &&
		other.Y1 >= o.Y1 && other.Y2 <= o.Y2
}

// Region codes for Cohen-Sutherland clipping
const (
	inside = 0
	left   = 1
	right  = 2
	bottom = 4
	top    = 8
)

// Two clips per endpoint always resolve a rectangle crossing
const maxClipRounds = 4

// outCode classifies p against the rectangle
func (o Obstacle) outCode(p Point) int {
	code := inside
	if p.X < o.X1 {
		code |= left
	} else if p.X > o.X2 {
		code |= right
	}
	if p.Y < o.Y1 {
		code |= bottom
	} else if p.Y > o.Y2 {
		code |= top
	}
	return code
}

// IntersectsSegment checks if the closed segment a-b touches the rectangle
func (o Obstacle) IntersectsSegment(a, b Point) bool {
	if a == b {
		return o.Contains(a)
	}

	code1 := o.outCode(a)
	code2 := o.outCode(b)

	for round := 0; round <= maxClipRounds; round++ {
		if code1|code2 == inside {
			return true
		}
		if code1&code2 != inside {
			return false
		}
		if round == maxClipRounds {
			break
		}

		// Move whichever endpoint is outside onto the violated edge
		codeOut := code1
		if codeOut == inside {
			codeOut = code2
		}

		var clipped Point
		switch {
		case codeOut&top != 0:
			clipped = Point{X: a.X + (b.X-a.X)*(o.Y2-a.Y)/(b.Y-a.Y), Y: o.Y2}
		case codeOut&bottom != 0:
			clipped = Point{X: a.X + (b.X-a.X)*(o.Y1-a.Y)/(b.Y-a.Y), Y: o.Y1}
		case codeOut&right != 0:
			clipped = Point{X: o.X2, Y: a.Y + (b.Y-a.Y)*(o.X2-a.X)/(b.X-a.X)}
		case codeOut&left != 0:
			clipped = Point{X: o.X1, Y: a.Y + (b.Y-a.Y)*(o.X1-a.X)/(b.X-a.X)}
		}

		if codeOut == code1 {
			a = clipped
			code1 = o.outCode(a)
		} else {
			b = clipped
			code2 = o.outCode(b)
		}
	}

	// Did not converge; report a hit so the planner never accepts an unproven edge
	return true
}
