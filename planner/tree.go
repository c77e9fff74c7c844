package planner

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// NoParent marks the root node
const NoParent = -1

// DefaultIndexThreshold is the tree size at which nearest-neighbor queries
// switch from a linear scan to the R-tree
const DefaultIndexThreshold = 256

// Node is one vertex of the search tree
type Node struct {
	Position Point
	Parent   int     // Index of the parent node, NoParent for the root
	Cost     float64 // Path length from the root
}

// nodeEntry wraps a node index for R-tree storage
type nodeEntry struct {
	id  int
	pos Point
}

// Bounds implements rtreego.Spatial interface
func (e *nodeEntry) Bounds() rtreego.Rect {
	return rtreego.Point{e.pos.X, e.pos.Y}.ToRect(indexPadding)
}

// Tree is an arena of nodes addressed by index; index 0 is the root.
// A Tree is owned by a single planning call.
type Tree struct {
	nodes     []Node
	threshold int
	rtree     *rtreego.Rtree
}

// NewTree creates a tree holding only the root
func NewTree(root Point) *Tree {
	return &Tree{
		nodes:     []Node{{Position: root, Parent: NoParent}},
		threshold: DefaultIndexThreshold,
	}
}

// SetIndexThreshold changes the size at which the R-tree takes over;
// zero or negative disables the index
func (t *Tree) SetIndexThreshold(n int) {
	t.threshold = n
	if n <= 0 {
		t.rtree = nil
	}
}

// Len returns the number of nodes
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns the node stored at index i
func (t *Tree) Node(i int) Node { return t.nodes[i] }

// Insert appends a child of parent at p and returns its index
func (t *Tree) Insert(p Point, parent int) int {
	parentNode := t.nodes[parent]
	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{
		Position: p,
		Parent:   parent,
		Cost:     parentNode.Cost + parentNode.Position.Distance(p),
	})

	switch {
	case t.rtree != nil:
		t.rtree.Insert(&nodeEntry{id: id, pos: p})
	case t.threshold > 0 && len(t.nodes) >= t.threshold:
		t.buildIndex()
	}

	return id
}

func (t *Tree) buildIndex() {
	t.rtree = rtreego.NewTree(2, 25, 50)
	for i, n := range t.nodes {
		t.rtree.Insert(&nodeEntry{id: i, pos: n.Position})
	}
}

// Nearest returns the index of the node closest to p; ties go to the
// node inserted first
func (t *Tree) Nearest(p Point) int {
	if t.rtree == nil {
		return t.scanNearest(p)
	}

	// The R-tree gives some nearest node; every node at least as close lies
	// in the square of that radius, so rescan just those in insertion order.
	candidate := t.rtree.NearestNeighbor(rtreego.Point{p.X, p.Y}).(*nodeEntry)
	radius := p.Distance(candidate.pos)
	box, err := boxRect(p.X-radius, p.Y-radius, p.X+radius, p.Y+radius)
	if err != nil {
		return t.scanNearest(p)
	}

	bestID := candidate.id
	bestDist := radius
	for _, item := range t.rtree.SearchIntersect(box) {
		entry := item.(*nodeEntry)
		dist := p.Distance(entry.pos)
		if dist < bestDist || (dist == bestDist && entry.id < bestID) {
			bestDist = dist
			bestID = entry.id
		}
	}

	return bestID
}

func (t *Tree) scanNearest(p Point) int {
	nearestID := 0
	minDist := math.Inf(1)

	for i, n := range t.nodes {
		if dist := p.Distance(n.Position); dist < minDist {
			minDist = dist
			nearestID = i
		}
	}

	return nearestID
}

// PathTo walks parent links from node i back to the root and returns the
// points in root-first order
func (t *Tree) PathTo(i int) Path {
	path := Path{}
	for id := i; id != NoParent; id = t.nodes[id].Parent {
		path = append(path, t.nodes[id].Position)
	}

	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}

	return path
}

// Edges returns every parent-child segment, for visualization
func (t *Tree) Edges() [][2]Point {
	edges := make([][2]Point, 0, len(t.nodes)-1)
	for _, n := range t.nodes[1:] {
		edges = append(edges, [2]Point{t.nodes[n.Parent].Position, n.Position})
	}
	return edges
}
