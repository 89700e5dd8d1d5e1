// Package structure classifies the edges of a line network into main
// channels, tributaries and isolated segments.
//
// # Overview
//
// [Classify] runs once per pipeline run on a built [network.Graph] and
// returns a [Classification]: a tag, a branch order and an accumulated
// upstream length for every edge, plus the confluence and outlet nodes.
// The result is read-only afterwards; the filter package consults it to
// protect main channels.
//
// Connected components are processed independently. Components are found
// with gonum and numbered by their smallest node ID, so component indices
// and all tie-breaks are stable across runs.
//
// # Flow Networks
//
// In [ModeFlow] (watercourses) each component must be a tree draining to
// one or more outlets:
//
//  1. Outlets are the nodes passed in [Options.Outlets] plus the nodes the
//     builder flagged from the "outlet" feature attribute. Without any, the
//     single degree-1 node that only receives lines (by digitizing
//     direction) is used.
//  2. The component is walked upstream from all of its outlets at once,
//     breadth first with outlets in ID order. Each edge drains into the
//     node that reached it first, so a delta splits into one drainage area
//     per mouth. Upstream length is accumulated from the sources down: an
//     edge's upstream length is its own length plus that of every edge
//     draining into the node above it, when it is the edge that node
//     drains through.
//  3. At every node with several incoming edges, the one with the
//     greatest upstream length is main. Ties go to the lexicographically
//     smallest edge ID (the node-pair ID). The other incoming edges are
//     tributaries with branch order one above the edge they drain into. A
//     single incoming edge continues the tag and order of the edge below
//     it, and edges reaching an outlet start as main with order 1.
//  4. A component made of a single edge with no outlet is isolated.
//
// Branch order is the hierarchy signal: the outlet trunk has order 1, and
// the main edge at a confluence on a tributary keeps that tributary's order.
//
// A component with a cycle, or without outlets and without a single
// receiving end, is reported as an [errors.AmbiguousStructureError] and
// left unclassified; other components are still classified.
//
// # Undirected Networks
//
// In [ModeUndirected] (roads, railroads) there is no flow direction and
// cycles are normal. The main path of a component is the shortest path
// between the two ends of its approximate diameter, found with a double
// Dijkstra sweep. Remaining edges are tributaries whose order grows with
// their hop distance from the main path. Single-edge components are
// isolated. Upstream length is the edge's own length.
package structure
