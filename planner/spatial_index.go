package planner

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// rtreego rejects zero-length sides and ignores touching boxes, so every
// box is padded by this fraction of its largest coordinate
const indexPadding = 1e-9

// obstacleEntry wraps an obstacle for R-tree storage
type obstacleEntry struct {
	obstacle Obstacle
	bbox     rtreego.Rect
}

// Bounds implements rtreego.Spatial interface
func (e *obstacleEntry) Bounds() rtreego.Rect {
	return e.bbox
}

// obstacleIndex answers which obstacles may touch a region
type obstacleIndex struct {
	tree *rtreego.Rtree
}

// newObstacleIndex creates a new spatial index
func newObstacleIndex(obstacles []Obstacle) *obstacleIndex {
	tree := rtreego.NewTree(2, 25, 50) // 2D, min 25, max 50 entries per node

	for _, obstacle := range obstacles {
		bbox, err := boxRect(obstacle.X1, obstacle.Y1, obstacle.X2, obstacle.Y2)
		if err != nil {
			continue
		}
		tree.Insert(&obstacleEntry{obstacle: obstacle, bbox: bbox})
	}

	return &obstacleIndex{tree: tree}
}

// queryRegion returns obstacles whose bounding box intersects the given box
func (idx *obstacleIndex) queryRegion(minX, minY, maxX, maxY float64) []Obstacle {
	bbox, err := boxRect(minX, minY, maxX, maxY)
	if err != nil {
		return nil
	}

	results := idx.tree.SearchIntersect(bbox)
	obstacles := make([]Obstacle, 0, len(results))
	for _, item := range results {
		obstacles = append(obstacles, item.(*obstacleEntry).obstacle)
	}

	return obstacles
}

// querySegment returns obstacles that may intersect the segment a-b
func (idx *obstacleIndex) querySegment(a, b Point) []Obstacle {
	return idx.queryRegion(
		math.Min(a.X, b.X), math.Min(a.Y, b.Y),
		math.Max(a.X, b.X), math.Max(a.Y, b.Y),
	)
}

// boxRect builds a padded R-tree rectangle from min/max corners
func boxRect(minX, minY, maxX, maxY float64) (rtreego.Rect, error) {
	scale := math.Max(
		math.Max(math.Abs(minX), math.Abs(maxX)),
		math.Max(math.Abs(minY), math.Abs(maxY)),
	)
	pad := indexPadding * math.Max(1, scale)

	return rtreego.NewRect(
		rtreego.Point{minX - pad, minY - pad},
		[]float64{maxX - minX + 2*pad, maxY - minY + 2*pad},
	)
}
