package shape

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/geometry"
)

// boundsEntry is a feature's bounding box in the neighbour index.
type boundsEntry struct {
	index int
	rect  rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (b boundsEntry) Bounds() rtreego.Rect { return b.rect }

func toRect(b orb.Bound, pad float64) (rtreego.Rect, bool) {
	pad += 1e-9
	r, err := rtreego.NewRectFromPoints(
		rtreego.Point{b.Min[0] - pad, b.Min[1] - pad},
		rtreego.Point{b.Max[0] + pad, b.Max[1] + pad},
	)
	return r, err == nil
}

// GeneralizeAll generalizes every feature of c, treating the original
// geometries of the other features as obstacles growth may not cover.
// Features that fail are reported as item errors and left out of the
// result; the others keep input order.
func (g *Generalizer) GeneralizeAll(c feature.Collection) (feature.Collection, []errs.Warning, []error) {
	pad := math.Abs(g.set.BufferDistance) + g.set.ExaggerationDistance
	tree := rtreego.NewTree(2, 25, 50)
	for i, f := range c.Features {
		if f.Geometry == nil {
			continue
		}
		if r, ok := toRect(f.Geometry.Bound(), 0); ok {
			tree.Insert(boundsEntry{index: i, rect: r})
		}
	}

	out := feature.Collection{Class: c.Class, Features: make([]feature.Feature, 0, c.Len())}
	var (
		warnings []errs.Warning
		failures []error
	)
	for i, f := range c.Features {
		var obstacles []orb.Polygon
		if f.Geometry != nil {
			if r, ok := toRect(f.Geometry.Bound(), pad); ok {
				obstacles = neighbours(c, tree.SearchIntersect(r), i)
			}
		}
		gf, ws, err := g.generalize(f, obstacles)
		warnings = append(warnings, ws...)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		out.Features = append(out.Features, gf)
	}
	return out, warnings, failures
}

// neighbours returns the polygons of the hits other than feature self, in
// collection order.
func neighbours(c feature.Collection, hits []rtreego.Spatial, self int) []orb.Polygon {
	idx := make([]int, 0, len(hits))
	for _, h := range hits {
		if i := h.(boundsEntry).index; i != self {
			idx = append(idx, i)
		}
	}
	slices.Sort(idx)
	var out []orb.Polygon
	for _, i := range idx {
		if ok, _ := geometry.IsValid(c.Features[i].Geometry); !ok {
			continue
		}
		out = append(out, geometry.Polygons(c.Features[i].Geometry)...)
	}
	return out
}
