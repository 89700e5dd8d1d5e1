package network

import (
	"errors"
	"maps"
	"slices"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownEndpoint is returned by [Graph.AddEdge] when From or To does
	// not name a node of the graph.
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a missing node, or its geometry does not start and end on
	// its nodes. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrNodesTooClose is returned by [Graph.Validate] when two nodes lie
	// within the snap tolerance of each other and are not both outlets.
	ErrNodesTooClose = errors.New("nodes closer than snap tolerance")
)

// Metadata stores arbitrary key-value pairs attached to nodes and edges.
type Metadata map[string]any

// Node is a distinct end point coordinate. Its ID is derived from the
// coordinate, so identical input always yields identical node IDs.
type Node struct {
	ID     string
	Coord  orb.Point
	Outlet bool     // Explicitly designated network exit
	Meta   Metadata // Never nil after AddNode
}

// Edge is one line part between two nodes. From and To follow the
// digitizing direction of the source line.
type Edge struct {
	ID        string
	From      string
	To        string
	FeatureID string         // Source feature
	Part      int            // Part index within a multi-line feature
	Geometry  orb.LineString // Source line with end points moved onto the nodes
	Length    float64
	Meta      Metadata // Never nil after AddEdge
}

// IsLoop reports whether the edge starts and ends on the same node.
func (e Edge) IsLoop() bool { return e.From == e.To }

// Other returns the endpoint of e opposite to node id.
func (e Edge) Other(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// Graph is an undirected multigraph of line features stored as an arena:
// nodes and edges are addressed by string keys and adjacency is an index
// from node ID to incident edge IDs.
//
// The zero value is not usable; use [New] or [Build].
// Graph is not safe for concurrent mutation; read-only use is safe.
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	incident  map[string][]string // nodeID -> edge IDs, sorted
	byFeature map[string][]string // featureID -> edge IDs
	tolerance float64
}

// New creates an empty graph whose nodes were merged with the given snap
// tolerance.
func New(tolerance float64) *Graph {
	return &Graph{
		nodes:     make(map[string]*Node),
		edges:     make(map[string]*Edge),
		incident:  make(map[string][]string),
		byFeature: make(map[string][]string),
		tolerance: tolerance,
	}
}

// NodeID returns the identifier of a node at p.
func NodeID(p orb.Point) string {
	return strconv.FormatFloat(p[0], 'f', -1, 64) + "," + strconv.FormatFloat(p[1], 'f', -1, 64)
}

// PairID returns the undirected identifier of the node pair (a, b): the
// smaller ID first.
func PairID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b
}

// Tolerance returns the snap tolerance the graph was built with.
func (g *Graph) Tolerance() float64 { return g.tolerance }

// AddNode adds a node. Its Meta is initialized if nil.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = &n
	return nil
}

// AddEdge adds an edge between two existing nodes. An empty ID is replaced
// by [PairID]; Length is computed from the geometry when zero.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownEndpoint
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownEndpoint
	}
	if e.ID == "" {
		e.ID = PairID(e.From, e.To)
	}
	if _, exists := g.edges[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	if e.Meta == nil {
		e.Meta = Metadata{}
	}
	if e.Length == 0 && len(e.Geometry) > 1 {
		e.Length = planar.Length(e.Geometry)
	}
	g.edges[e.ID] = &e
	g.link(e.From, e.ID)
	if !e.IsLoop() {
		g.link(e.To, e.ID)
	}
	g.byFeature[e.FeatureID] = append(g.byFeature[e.FeatureID], e.ID)
	return nil
}

func (g *Graph) link(nodeID, edgeID string) {
	ids := g.incident[nodeID]
	i, _ := slices.BinarySearch(ids, edgeID)
	g.incident[nodeID] = slices.Insert(ids, i, edgeID)
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Nodes returns all nodes ordered by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges ordered by ID.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, id := range slices.Sorted(maps.Keys(g.edges)) {
		out = append(out, g.edges[id])
	}
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Incident returns the IDs of the edges touching a node, sorted. The slice
// must not be modified.
func (g *Graph) Incident(id string) []string { return g.incident[id] }

// Degree returns the number of edge ends at a node. A loop counts twice.
func (g *Graph) Degree(id string) int {
	d := 0
	for _, eid := range g.incident[id] {
		if g.edges[eid].IsLoop() {
			d += 2
		} else {
			d++
		}
	}
	return d
}

// FeatureEdges returns the IDs of the edges built from a feature.
func (g *Graph) FeatureEdges(featureID string) []string { return g.byFeature[featureID] }

// Outlets returns the explicitly designated outlet nodes, ordered by ID.
func (g *Graph) Outlets() []*Node {
	var out []*Node
	for _, n := range g.Nodes() {
		if n.Outlet {
			out = append(out, n)
		}
	}
	return out
}

// IsDangling reports whether the edge has an end node of degree one that is
// not an outlet.
func (g *Graph) IsDangling(edgeID string) bool {
	e, ok := g.edges[edgeID]
	if !ok || e.IsLoop() {
		return false
	}
	for _, id := range []string{e.From, e.To} {
		if g.Degree(id) == 1 && !g.nodes[id].Outlet {
			return true
		}
	}
	return false
}

// IsConnected reports whether the edge shares a node with another edge.
func (g *Graph) IsConnected(edgeID string) bool {
	e, ok := g.edges[edgeID]
	if !ok {
		return false
	}
	return len(g.incident[e.From]) > 1 || len(g.incident[e.To]) > 1
}

// Validate checks graph soundness:
//
//  1. Every edge endpoint resolves to a node and the edge geometry starts
//     and ends on the coordinates of those nodes.
//  2. No two nodes are closer than the snap tolerance unless both are
//     outlets.
//
// Returns ErrInvalidEdgeEndpoint or ErrNodesTooClose.
func (g *Graph) Validate() error {
	for _, e := range g.edges {
		from, okF := g.nodes[e.From]
		to, okT := g.nodes[e.To]
		if !okF || !okT || len(e.Geometry) < 2 {
			return ErrInvalidEdgeEndpoint
		}
		if e.Geometry[0] != from.Coord || e.Geometry[len(e.Geometry)-1] != to.Coord {
			return ErrInvalidEdgeEndpoint
		}
	}
	if g.tolerance <= 0 {
		return nil
	}
	idx := newPointIndex()
	for _, n := range g.Nodes() {
		for _, other := range idx.within(n.Coord, g.tolerance) {
			if !(n.Outlet && other.Outlet) {
				return ErrNodesTooClose
			}
		}
		idx.insert(n)
	}
	return nil
}
