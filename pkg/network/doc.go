// Package network builds topological graphs from line features such as
// watercourses, roads and railroads.
//
// # Overview
//
// A [Graph] is an arena of nodes and edges addressed by string keys. Nodes
// are distinct end point coordinates and carry a coordinate-derived ID
// ([NodeID]); edges are line parts between two nodes and point back to the
// feature they were built from. Adjacency is an index from node ID to the
// sorted IDs of its incident edges, so there are no pointer cycles between
// nodes and edges.
//
// # Building
//
// [Build] turns a slice of line features into a graph:
//
//	g, warnings, failures := network.Build(collection.Features, 0.5)
//
// The snap tolerance decides which end points are merged into one node.
// It is a correctness parameter: too small and near-miss junctions stay
// disconnected, so confluences are never found; too large and unrelated
// line ends are joined. Per-class defaults live in the thresholds package
// (watercourses 0.5, roads 1.0, railroads 1.0, in map units).
//
// Build is deterministic. End points are merged in a fixed order (outlets
// first, then by coordinate), so the same lines and tolerance yield the
// same node IDs regardless of feature order. Edge IDs are the pair of node
// IDs in ascending order ([PairID]); parallel edges get a "#k" suffix
// assigned in feature ID order.
//
// # Soundness
//
// [Graph.Validate] checks that every edge endpoint resolves to a node whose
// coordinate is the first or last coordinate of the edge geometry, and that
// no two nodes lie within the snap tolerance unless both are outlets.
//
// # Export
//
// [ToDOT] and [RenderSVG] draw a graph with Graphviz, for inspecting how a
// network was classified.
package network
