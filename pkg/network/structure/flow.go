package structure

import (
	"github.com/matzehuels/cartogen/pkg/network"
)

// visit is an edge claimed while walking upstream from the outlets.
type visit struct {
	edge       *network.Edge
	downstream string
	upstream   string
}

func classifyFlow(g *network.Graph, comp component, extra map[string]bool, c *Classification) error {
	if len(comp.edges) > len(comp.nodes)-1 {
		return ambiguous(g, comp, cycleNodes(g, comp), "cycle")
	}

	var outlets []string
	for _, id := range comp.nodes {
		n, _ := g.Node(id)
		if n.Outlet || extra[id] {
			outlets = append(outlets, id)
		}
	}

	if len(outlets) == 0 && len(comp.edges) == 1 {
		e, _ := g.Edge(comp.edges[0])
		c.Edges[e.ID] = EdgeInfo{Tag: TagIsolated, Order: 1, Upstream: e.Length, Component: comp.index}
		return nil
	}

	if len(outlets) == 0 {
		sinks := sinkLeaves(g, comp)
		if len(sinks) != 1 {
			return ambiguous(g, comp, sinks, "no outlet")
		}
		outlets = sinks
	}

	visits, parent, order := drain(g, outlets)

	// Each node passes its inflow on through the edge it was first reached
	// by. Edges between two drainage areas only carry their own length.
	upstream := make(map[string]float64, len(visits))
	inflow := make(map[string][]string, len(order))
	downstreamOf := make(map[string]string, len(visits))
	for _, v := range visits {
		upstream[v.edge.ID] = v.edge.Length
		inflow[v.downstream] = append(inflow[v.downstream], v.edge.ID)
		downstreamOf[v.edge.ID] = v.downstream
	}
	for i := len(order) - 1; i >= 0; i-- {
		p, ok := parent[order[i]]
		if !ok {
			continue
		}
		for _, id := range inflow[order[i]] {
			upstream[p] += upstream[id]
		}
	}

	// Visits are in downstream-first order, so the edge a node drains
	// through is tagged before the edges draining into it. At a node with
	// several inflows the one with the greatest upstream length is main;
	// a single inflow continues the edge below it.
	info := make(map[string]EdgeInfo, len(visits))
	assign := func(node, out string) {
		tag, order := TagMain, 1
		if out != "" {
			tag, order = info[out].Tag, info[out].Order
		}
		ins := inflow[node]
		best := ""
		for _, id := range ins {
			if best == "" || upstream[id] > upstream[best] ||
				(upstream[id] == upstream[best] && id < best) {
				best = id
			}
		}
		for _, id := range ins {
			t, o := TagTributary, order+1
			switch {
			case id == best && len(ins) > 1:
				t, o = TagMain, order
			case id == best:
				t, o = tag, order
			}
			info[id] = EdgeInfo{
				Tag:        t,
				Order:      o,
				Upstream:   upstream[id],
				Downstream: downstreamOf[id],
				Component:  comp.index,
			}
		}
	}
	for _, id := range outlets {
		assign(id, "")
	}
	for _, v := range visits {
		if parent[v.upstream] == v.edge.ID {
			assign(v.upstream, v.edge.ID)
		}
	}

	for id, ei := range info {
		c.Edges[id] = ei
	}
	c.Outlets = append(c.Outlets, outlets...)
	return nil
}

// drain walks a tree component upstream from all outlets at once, breadth
// first with outlets in ID order. Every edge is claimed by the first node
// that reaches it and drains into that node. It returns the claimed edges in
// claim order, the edge each non-outlet node was first reached by, and the
// nodes in the order they were expanded.
func drain(g *network.Graph, outlets []string) ([]visit, map[string]string, []string) {
	var (
		visits  []visit
		order   []string
		parent  = make(map[string]string)
		reached = make(map[string]bool)
		claimed = make(map[string]bool)
	)
	queue := append([]string(nil), outlets...)
	for _, id := range outlets {
		reached[id] = true
	}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, eid := range g.Incident(node) {
			if claimed[eid] {
				continue
			}
			claimed[eid] = true
			e, _ := g.Edge(eid)
			up := e.Other(node)
			visits = append(visits, visit{edge: e, downstream: node, upstream: up})
			if !reached[up] {
				reached[up] = true
				parent[up] = eid
				queue = append(queue, up)
			}
		}
	}
	return visits, parent, order
}

// sinkLeaves returns the degree-1 nodes of a component that only receive
// their edge, judged by digitizing direction.
func sinkLeaves(g *network.Graph, comp component) []string {
	var out []string
	for _, id := range comp.nodes {
		if g.Degree(id) != 1 {
			continue
		}
		e, _ := g.Edge(g.Incident(id)[0])
		if e.To == id {
			out = append(out, id)
		}
	}
	return out
}

// cycleNodes returns the nodes of a component that lie on a cycle, found by
// repeatedly pruning leaves.
func cycleNodes(g *network.Graph, comp component) []string {
	degree := make(map[string]int, len(comp.nodes))
	for _, id := range comp.nodes {
		degree[id] = g.Degree(id)
	}
	removed := make(map[string]bool)
	var queue []string
	for _, id := range comp.nodes {
		if degree[id] <= 1 {
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if removed[id] {
			continue
		}
		removed[id] = true
		for _, eid := range g.Incident(id) {
			e, _ := g.Edge(eid)
			other := e.Other(id)
			if removed[other] {
				continue
			}
			degree[other]--
			if degree[other] <= 1 {
				queue = append(queue, other)
			}
		}
	}
	var out []string
	for _, id := range comp.nodes {
		if !removed[id] {
			out = append(out, id)
		}
	}
	return out
}
