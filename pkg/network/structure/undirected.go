package structure

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/matzehuels/cartogen/pkg/network"
)

func classifyUndirected(g *network.Graph, ug *simple.WeightedUndirectedGraph, idx nodeIndex, comp component, c *Classification) {
	set := func(e *network.Edge, tag Tag, order int) {
		c.Edges[e.ID] = EdgeInfo{Tag: tag, Order: order, Upstream: e.Length, Component: comp.index}
	}

	if len(comp.edges) == 1 {
		e, _ := g.Edge(comp.edges[0])
		set(e, TagIsolated, 1)
		return
	}

	a, _ := farthest(ug, idx, comp, comp.nodes[0])
	b, dist := farthest(ug, idx, comp, a)
	main := mainPath(g, dist, a, b)
	if len(main) == 0 {
		for _, id := range comp.edges {
			e, _ := g.Edge(id)
			set(e, TagIsolated, 1)
		}
		return
	}

	// Hop distance of every node from the main path.
	hops := make(map[string]int, len(comp.nodes))
	var queue []string
	for id := range main {
		e, _ := g.Edge(id)
		for _, n := range []string{e.From, e.To} {
			if _, ok := hops[n]; !ok {
				hops[n] = 0
				queue = append(queue, n)
			}
		}
	}
	// Seed in ID order so the walk does not depend on map order.
	slices.Sort(queue)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, eid := range g.Incident(n) {
			e, _ := g.Edge(eid)
			other := e.Other(n)
			if _, ok := hops[other]; !ok {
				hops[other] = hops[n] + 1
				queue = append(queue, other)
			}
		}
	}

	for _, id := range comp.edges {
		e, _ := g.Edge(id)
		if main[id] {
			set(e, TagMain, 1)
			continue
		}
		set(e, TagTributary, 2+min(hops[e.From], hops[e.To]))
	}
}

// farthest returns the node of comp with the greatest shortest-path
// distance from start, ties going to the smallest node ID, together with
// the distance function from start.
func farthest(ug *simple.WeightedUndirectedGraph, idx nodeIndex, comp component, start string) (string, func(string) float64) {
	sp := path.DijkstraFrom(simple.Node(idx.index[start]), ug)
	dist := func(id string) float64 { return sp.WeightTo(idx.index[id]) }

	best, bestDist := start, 0.0
	for _, id := range comp.nodes {
		d := dist(id)
		if !math.IsInf(d, 1) && d > bestDist {
			best, bestDist = id, d
		}
	}
	return best, dist
}

// mainPath reconstructs the shortest path from b back to a using the
// distances from a. Among equally short predecessors the edge with the
// smallest ID is taken.
func mainPath(g *network.Graph, dist func(string) float64, a, b string) map[string]bool {
	out := make(map[string]bool)
	for v, steps := b, 0; v != a && steps <= g.EdgeCount(); steps++ {
		dv := dist(v)
		next := ""
		for _, eid := range g.Incident(v) {
			e, _ := g.Edge(eid)
			if e.IsLoop() {
				continue
			}
			u := e.Other(v)
			if math.Abs(dist(u)+e.Length-dv) <= 1e-9*math.Max(1, dv) {
				out[eid] = true
				next = u
				break
			}
		}
		if next == "" {
			break
		}
		v = next
	}
	return out
}
