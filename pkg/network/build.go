package network

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
)

// linePart is one line of a (multi)line feature awaiting node assignment.
type linePart struct {
	featureID string
	part      int
	line      orb.LineString
	outlet    bool // the last coordinate is a designated outlet
}

// endpoint is a line end waiting to be merged into a node.
type endpoint struct {
	coord  orb.Point
	outlet bool
}

// Build converts line features into a network graph.
//
// End points within snapTolerance of an existing node are merged into it;
// this turns near-miss digitized junctions into true junctions. End points
// are visited outlets first and then in coordinate order, and each one is
// merged into the nearest existing node or becomes a new node at its own
// coordinate. The visiting order makes node identity a function of the
// coordinates alone, independent of input order. Two distinct outlets are
// never merged.
//
// Features flagged with the "outlet" attribute mark the last coordinate of
// their line as an outlet.
//
// Zero-length lines, and lines whose two ends merge into one node while
// being no longer than the tolerance, are dropped with a DEGENERATE_INPUT
// warning. Features that are not lines are reported as GEOMETRY_ERROR item
// errors; the rest of the network is still built.
func Build(lines []feature.Feature, snapTolerance float64) (*Graph, []errs.Warning, []error) {
	var (
		warnings []errs.Warning
		failures []error
		parts    []linePart
	)
	for _, f := range lines {
		ls, err := lineParts(f)
		if err != nil {
			failures = append(failures, &errs.ItemError{FeatureID: f.ID, Stage: "build", Err: err})
			continue
		}
		for i, l := range ls {
			if planar.Length(l) == 0 {
				warnings = append(warnings, errs.Warning{
					Code: errs.WarnDegenerateInput, FeatureID: f.ID, Stage: "build",
					Message: fmt.Sprintf("zero-length line part %d dropped", i),
				})
				continue
			}
			parts = append(parts, linePart{featureID: f.ID, part: i, line: l, outlet: f.Flag(feature.AttrOutlet)})
		}
	}

	g := New(snapTolerance)
	snap := assignNodes(g, parts, snapTolerance)

	type pending struct {
		linePart
		from, to string
		geom     orb.LineString
	}
	var edges []pending
	for _, p := range parts {
		from := snap[p.line[0]]
		to := snap[p.line[len(p.line)-1]]
		geom := p.line.Clone()
		geom[0] = g.nodes[from].Coord
		geom[len(geom)-1] = g.nodes[to].Coord
		if from == to && planar.Length(p.line) <= snapTolerance {
			warnings = append(warnings, errs.Warning{
				Code: errs.WarnDegenerateInput, FeatureID: p.featureID, Stage: "build",
				Message: fmt.Sprintf("line part %d collapses onto node %s", p.part, from),
			})
			continue
		}
		edges = append(edges, pending{linePart: p, from: from, to: to, geom: geom})
	}

	slices.SortFunc(edges, func(a, b pending) int {
		return cmp.Or(
			cmp.Compare(PairID(a.from, a.to), PairID(b.from, b.to)),
			feature.CompareIDs(a.featureID, b.featureID),
			cmp.Compare(a.part, b.part),
		)
	})
	seen := make(map[string]int)
	for _, e := range edges {
		id := PairID(e.from, e.to)
		if k := seen[id]; k > 0 {
			id = fmt.Sprintf("%s#%d", id, k)
		}
		seen[PairID(e.from, e.to)]++
		if err := g.AddEdge(Edge{
			ID: id, From: e.from, To: e.to,
			FeatureID: e.featureID, Part: e.part, Geometry: e.geom,
		}); err != nil {
			failures = append(failures, &errs.ItemError{
				FeatureID: e.featureID, Stage: "build",
				Err: errs.Wrap(errs.ErrCodeInternal, err, "add edge %s", id),
			})
		}
	}
	return g, warnings, failures
}

// assignNodes creates the nodes of g and returns the node ID for every
// distinct end point coordinate.
func assignNodes(g *Graph, parts []linePart, tol float64) map[orb.Point]string {
	outlets := make(map[orb.Point]bool)
	for _, p := range parts {
		for _, c := range []orb.Point{p.line[0], p.line[len(p.line)-1]} {
			if _, ok := outlets[c]; !ok {
				outlets[c] = false
			}
		}
		if p.outlet {
			outlets[p.line[len(p.line)-1]] = true
		}
	}
	eps := make([]endpoint, 0, len(outlets))
	for c, o := range outlets {
		eps = append(eps, endpoint{coord: c, outlet: o})
	}
	slices.SortFunc(eps, func(a, b endpoint) int {
		if a.outlet != b.outlet {
			if a.outlet {
				return -1
			}
			return 1
		}
		return cmp.Or(cmp.Compare(a.coord[0], b.coord[0]), cmp.Compare(a.coord[1], b.coord[1]))
	})

	idx := newPointIndex()
	snap := make(map[orb.Point]string, len(eps))
	for _, ep := range eps {
		if tol > 0 {
			if n := nearestMergeable(idx, ep, tol); n != nil {
				snap[ep.coord] = n.ID
				continue
			}
		}
		n := &Node{ID: NodeID(ep.coord), Coord: ep.coord, Outlet: ep.outlet, Meta: Metadata{}}
		g.nodes[n.ID] = n
		idx.insert(n)
		snap[ep.coord] = n.ID
	}
	return snap
}

// nearestMergeable returns the closest node ep may merge into. Outlets do
// not merge into other outlets.
func nearestMergeable(idx *pointIndex, ep endpoint, tol float64) *Node {
	if !ep.outlet {
		return idx.nearest(ep.coord, tol)
	}
	var best *Node
	bestDist := 0.0
	for _, n := range idx.within(ep.coord, tol) {
		if n.Outlet {
			continue
		}
		d := planar.Distance(n.Coord, ep.coord)
		if best == nil || d < bestDist || (d == bestDist && n.ID < best.ID) {
			best, bestDist = n, d
		}
	}
	return best
}

func lineParts(f feature.Feature) ([]orb.LineString, error) {
	switch g := f.Geometry.(type) {
	case orb.LineString:
		return []orb.LineString{g}, nil
	case orb.MultiLineString:
		return []orb.LineString(g), nil
	case nil:
		return nil, errs.New(errs.ErrCodeGeometry, "feature has no geometry")
	default:
		return nil, errs.New(errs.ErrCodeGeometry, "expected a line geometry, got %s", g.GeoJSONType())
	}
}
