package network

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// pointExtent is the side length given to point entries; the R-tree
// requires non-zero rectangles.
const pointExtent = 1e-9

// indexedNode wraps a node for R-tree storage.
type indexedNode struct {
	node *Node
}

// Bounds implements rtreego.Spatial.
func (n indexedNode) Bounds() rtreego.Rect {
	return rtreego.Point{n.node.Coord[0], n.node.Coord[1]}.ToRect(pointExtent)
}

// pointIndex finds nodes near a coordinate.
type pointIndex struct {
	tree *rtreego.Rtree
}

func newPointIndex() *pointIndex {
	return &pointIndex{tree: rtreego.NewTree(2, 25, 50)}
}

func (idx *pointIndex) insert(n *Node) {
	idx.tree.Insert(indexedNode{node: n})
}

// within returns the indexed nodes at distance <= r from p.
func (idx *pointIndex) within(p orb.Point, r float64) []*Node {
	query := rtreego.Point{p[0], p[1]}.ToRect(r + pointExtent)
	var out []*Node
	for _, s := range idx.tree.SearchIntersect(query) {
		n := s.(indexedNode).node
		if planar.Distance(n.Coord, p) <= r {
			out = append(out, n)
		}
	}
	return out
}

// nearest returns the closest indexed node within r of p. Equal distances
// resolve to the smaller node ID.
func (idx *pointIndex) nearest(p orb.Point, r float64) *Node {
	var best *Node
	bestDist := 0.0
	for _, n := range idx.within(p, r) {
		d := planar.Distance(n.Coord, p)
		if best == nil || d < bestDist || (d == bestDist && n.ID < best.ID) {
			best, bestDist = n, d
		}
	}
	return best
}
