package structure

import (
	"cmp"
	"math"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/network"
)

// Tag is the structural role of an edge.
type Tag string

const (
	TagMain      Tag = "main"
	TagTributary Tag = "tributary"
	TagIsolated  Tag = "isolated"
)

// rank orders tags by importance.
func (t Tag) rank() int {
	switch t {
	case TagMain:
		return 3
	case TagTributary:
		return 2
	case TagIsolated:
		return 1
	}
	return 0
}

// Mode selects how direction is established.
type Mode int

const (
	// ModeFlow classifies rooted flow networks draining to outlets.
	ModeFlow Mode = iota
	// ModeUndirected classifies networks without flow direction.
	ModeUndirected
)

// String returns the mode name.
func (m Mode) String() string {
	if m == ModeUndirected {
		return "undirected"
	}
	return "flow"
}

// Options configures [Classify].
type Options struct {
	Mode Mode
	// Outlets are node IDs designated as outlets in addition to the nodes
	// flagged by the builder.
	Outlets []string
}

// EdgeInfo is the classification of one edge.
type EdgeInfo struct {
	Tag        Tag
	Order      int     // 1 on the main stem, +1 per branching level
	Upstream   float64 // Accumulated upstream length, including the edge
	Downstream string  // Node the edge drains into; empty if undirected
	Component  int
}

// FeatureInfo summarizes the edges built from one feature: the most
// important tag, the lowest order and the greatest upstream length.
type FeatureInfo struct {
	Tag      Tag
	Order    int
	Upstream float64
}

// Classification is the structural classification of a network.
type Classification struct {
	Mode        Mode
	Edges       map[string]EdgeInfo
	Features    map[string]FeatureInfo
	Outlets     []string // Outlet node per classified flow component
	Confluences []string // Nodes where three or more edge ends meet
	Components  int
}

// Tag returns the tag of an edge, or "" if it was not classified.
func (c *Classification) Tag(edgeID string) Tag {
	return c.Edges[edgeID].Tag
}

// FeatureTag returns the tag of a feature, or "" if none of its edges was
// classified.
func (c *Classification) FeatureTag(featureID string) Tag {
	return c.Features[featureID].Tag
}

// IsMain reports whether any edge of the feature is on a main stem.
func (c *Classification) IsMain(featureID string) bool {
	return c.Features[featureID].Tag == TagMain
}

// component is one connected part of the network.
type component struct {
	index int
	nodes []string // sorted
	edges []string // sorted
}

// Classify computes the structural classification of g. Components that
// cannot be classified are reported as *errors.AmbiguousStructureError
// values; the classification of the remaining components is still
// returned.
func Classify(g *network.Graph, opts Options) (*Classification, []error) {
	c := &Classification{
		Mode:     opts.Mode,
		Edges:    make(map[string]EdgeInfo, g.EdgeCount()),
		Features: make(map[string]FeatureInfo),
	}
	for _, n := range g.Nodes() {
		if g.Degree(n.ID) >= 3 {
			c.Confluences = append(c.Confluences, n.ID)
		}
	}

	extra := make(map[string]bool, len(opts.Outlets))
	for _, id := range opts.Outlets {
		extra[id] = true
	}

	ug, ids := undirected(g)
	comps := components(g, ug, ids)
	c.Components = len(comps)

	var failures []error
	for _, comp := range comps {
		var err error
		switch {
		case len(comp.edges) == 0:
			continue
		case opts.Mode == ModeUndirected:
			classifyUndirected(g, ug, ids, comp, c)
		default:
			err = classifyFlow(g, comp, extra, c)
		}
		if err != nil {
			failures = append(failures, err)
		}
	}

	for _, e := range g.Edges() {
		info, ok := c.Edges[e.ID]
		if !ok {
			continue
		}
		f, seen := c.Features[e.FeatureID]
		if !seen {
			c.Features[e.FeatureID] = FeatureInfo{Tag: info.Tag, Order: info.Order, Upstream: info.Upstream}
			continue
		}
		if info.Tag.rank() > f.Tag.rank() {
			f.Tag = info.Tag
		}
		f.Order = min(f.Order, info.Order)
		f.Upstream = max(f.Upstream, info.Upstream)
		c.Features[e.FeatureID] = f
	}
	return c, failures
}

// nodeIndex maps node IDs to gonum node IDs and back.
type nodeIndex struct {
	ids   []string
	index map[string]int64
}

// undirected builds a weighted gonum graph of g. Parallel edges collapse to
// the shortest one and loops are left out.
func undirected(g *network.Graph) (*simple.WeightedUndirectedGraph, nodeIndex) {
	ug := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	idx := nodeIndex{index: make(map[string]int64, g.NodeCount())}
	for i, n := range g.Nodes() {
		idx.ids = append(idx.ids, n.ID)
		idx.index[n.ID] = int64(i)
		ug.AddNode(simple.Node(i))
	}
	for _, e := range g.Edges() {
		if e.IsLoop() {
			continue
		}
		u, v := idx.index[e.From], idx.index[e.To]
		if w, ok := ug.Weight(u, v); ok && w <= e.Length {
			continue
		}
		ug.SetWeightedEdge(ug.NewWeightedEdge(simple.Node(u), simple.Node(v), e.Length))
	}
	return ug, idx
}

// components returns the connected components of g in order of their
// smallest node ID.
func components(g *network.Graph, ug *simple.WeightedUndirectedGraph, idx nodeIndex) []component {
	var comps []component
	for _, cc := range topo.ConnectedComponents(ug) {
		comp := component{nodes: nodeIDs(cc, idx)}
		seen := make(map[string]bool)
		for _, id := range comp.nodes {
			for _, eid := range g.Incident(id) {
				if !seen[eid] {
					seen[eid] = true
					comp.edges = append(comp.edges, eid)
				}
			}
		}
		slices.Sort(comp.edges)
		comps = append(comps, comp)
	}
	slices.SortFunc(comps, func(a, b component) int { return cmp.Compare(a.nodes[0], b.nodes[0]) })
	for i := range comps {
		comps[i].index = i
	}
	return comps
}

func nodeIDs(nodes []graph.Node, idx nodeIndex) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = idx.ids[n.ID()]
	}
	slices.Sort(out)
	return out
}

// featuresOf lists the features of a component's edges in feature ID order.
func featuresOf(g *network.Graph, comp component) []string {
	seen := make(map[string]bool)
	var out []string
	for _, eid := range comp.edges {
		e, _ := g.Edge(eid)
		if !seen[e.FeatureID] {
			seen[e.FeatureID] = true
			out = append(out, e.FeatureID)
		}
	}
	slices.SortFunc(out, feature.CompareIDs)
	return out
}

func ambiguous(g *network.Graph, comp component, nodes []string, reason string) error {
	return &errs.AmbiguousStructureError{
		Component: comp.index,
		Nodes:     nodes,
		Features:  featuresOf(g, comp),
		Reason:    reason,
	}
}
