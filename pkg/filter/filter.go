// Package filter applies scale-dependent keep/drop rules to classified line
// features.
//
// Two rules run in order:
//
//   - Length: features shorter than MinLength are removed, except features
//     the structure classification tags as main. With [WithDeadEnds] only
//     dead ends and unconnected lines are candidates, which is how road and
//     railroad networks keep their short connecting links.
//   - Density: features are visited in ID order; whenever more than
//     MaxLocalCount surviving features have their centroid within
//     DensityRadius of a visited feature's centroid, the shortest features
//     of that neighborhood are removed first, ordered by (length ascending,
//     ID ascending), until the count holds. Main features are never
//     removed, so a neighborhood made only of main features may stay above
//     the limit.
//
// Every other feature passes through unchanged and the output keeps input
// order.
package filter

import (
	"cmp"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/geometry"
	"github.com/matzehuels/cartogen/pkg/network"
	"github.com/matzehuels/cartogen/pkg/network/structure"
	"github.com/matzehuels/cartogen/pkg/thresholds"
)

// Rule names the rule that removed a feature.
type Rule string

const (
	RuleLength  Rule = "length"
	RuleDensity Rule = "density"
)

// Removal records one removed feature.
type Removal struct {
	FeatureID string
	Rule      Rule
	Length    float64
}

// Result is the outcome of [Filter].
type Result struct {
	Collection feature.Collection
	Removed    []Removal
}

// Option configures [Filter].
type Option func(*filterer)

// WithDeadEnds restricts the length rule to features whose edges in g
// include a dead end or an unconnected line.
func WithDeadEnds(g *network.Graph) Option {
	return func(f *filterer) { f.graph = g }
}

// WithExcluded passes the given features through untouched. They are not
// counted by the density rule either.
func WithExcluded(ids ...string) Option {
	return func(f *filterer) {
		for _, id := range ids {
			f.excluded[id] = true
		}
	}
}

type filterer struct {
	graph    *network.Graph
	excluded map[string]bool
}

// candidate is a feature taking part in filtering.
type candidate struct {
	id       string
	length   float64
	centroid orb.Point
	main     bool
	removed  bool
}

// Bounds implements rtreego.Spatial.
func (c *candidate) Bounds() rtreego.Rect {
	return rtreego.Point{c.centroid[0], c.centroid[1]}.ToRect(pointExtent)
}

const pointExtent = 1e-9

// Filter removes features from c according to the length and density rules
// of set. cls may be nil, in which case no feature is protected.
func Filter(c feature.Collection, cls *structure.Classification, set thresholds.Set, opts ...Option) Result {
	f := &filterer{excluded: make(map[string]bool)}
	for _, opt := range opts {
		opt(f)
	}

	var cands []*candidate
	byID := make(map[string]*candidate, c.Len())
	for _, ft := range c.Features {
		if f.excluded[ft.ID] {
			continue
		}
		cd := &candidate{
			id:       ft.ID,
			length:   geometry.Length(ft.Geometry),
			centroid: geometry.Centroid(ft.Geometry),
			main:     cls != nil && cls.IsMain(ft.ID),
		}
		cands = append(cands, cd)
		byID[ft.ID] = cd
	}
	slices.SortFunc(cands, func(a, b *candidate) int { return feature.CompareIDs(a.id, b.id) })

	var removed []Removal
	for _, cd := range cands {
		if cd.main || cd.length >= set.MinLength || !f.lengthCandidate(cd.id) {
			continue
		}
		cd.removed = true
		removed = append(removed, Removal{FeatureID: cd.id, Rule: RuleLength, Length: cd.length})
	}

	if set.MaxLocalCount > 0 && set.DensityRadius > 0 {
		removed = append(removed, density(cands, set.DensityRadius, set.MaxLocalCount)...)
	}

	out := c.Filter(func(ft feature.Feature) bool {
		cd, ok := byID[ft.ID]
		return !ok || !cd.removed
	})
	return Result{Collection: out, Removed: removed}
}

// lengthCandidate reports whether the length rule may remove a feature.
func (f *filterer) lengthCandidate(id string) bool {
	if f.graph == nil {
		return true
	}
	for _, eid := range f.graph.FeatureEdges(id) {
		if f.graph.IsDangling(eid) || !f.graph.IsConnected(eid) {
			return true
		}
	}
	return false
}

// density applies the neighborhood rule to the surviving candidates, which
// must be sorted by ID.
func density(cands []*candidate, radius float64, maxCount int) []Removal {
	tree := rtreego.NewTree(2, 25, 50)
	for _, cd := range cands {
		if !cd.removed {
			tree.Insert(cd)
		}
	}

	var removed []Removal
	for _, center := range cands {
		if center.removed {
			continue
		}
		query := rtreego.Point{center.centroid[0], center.centroid[1]}.ToRect(radius + pointExtent)
		var hood []*candidate
		for _, s := range tree.SearchIntersect(query) {
			cd := s.(*candidate)
			if !cd.removed && planar.Distance(cd.centroid, center.centroid) <= radius {
				hood = append(hood, cd)
			}
		}
		excess := len(hood) - maxCount
		if excess <= 0 {
			continue
		}
		slices.SortFunc(hood, func(a, b *candidate) int {
			if c := cmp.Compare(a.length, b.length); c != 0 {
				return c
			}
			return feature.CompareIDs(a.id, b.id)
		})
		for _, cd := range hood {
			if excess == 0 {
				break
			}
			if cd.main {
				continue
			}
			cd.removed = true
			excess--
			removed = append(removed, Removal{FeatureID: cd.id, Rule: RuleDensity, Length: cd.length})
		}
	}
	return removed
}
