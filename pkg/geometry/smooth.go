package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

// Smooth applies iterations passes of Chaikin corner cutting to the lines
// and polygon rings of g. Line end points are kept. Zero iterations return
// an equal copy. The geometry type and ring count never change; a polygon
// that self-intersects after smoothing is a GEOMETRY_ERROR.
func Smooth(g orb.Geometry, iterations int) (orb.Geometry, error) {
	return smoothPinned(g, iterations, nil)
}

// SmoothKeepTopology smooths every geometry of geoms while keeping the
// coordinates shared by two or more of them, plus any extra pinned points,
// in place. The result is index-aligned with geoms.
func SmoothKeepTopology(geoms []orb.Geometry, iterations int, extra ...orb.Point) ([]orb.Geometry, error) {
	pinned := SharedCoordinates(geoms)
	for _, p := range extra {
		pinned[p] = struct{}{}
	}
	out := make([]orb.Geometry, len(geoms))
	for i, g := range geoms {
		s, err := smoothPinned(g, iterations, pinned)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// SharedCoordinates returns the coordinates that occur in two or more of
// geoms. Coordinates repeated within one geometry count once.
func SharedCoordinates(geoms []orb.Geometry) map[orb.Point]struct{} {
	count := make(map[orb.Point]int)
	for _, g := range geoms {
		seen := make(map[orb.Point]struct{})
		eachCoord(g, func(p orb.Point) {
			if _, ok := seen[p]; ok {
				return
			}
			seen[p] = struct{}{}
			count[p]++
		})
	}
	shared := make(map[orb.Point]struct{})
	for p, n := range count {
		if n > 1 {
			shared[p] = struct{}{}
		}
	}
	return shared
}

func eachCoord(g orb.Geometry, fn func(orb.Point)) {
	switch t := g.(type) {
	case orb.Point:
		fn(t)
	case orb.MultiPoint:
		for _, p := range t {
			fn(p)
		}
	case orb.LineString:
		for _, p := range t {
			fn(p)
		}
	case orb.Ring:
		for _, p := range t {
			fn(p)
		}
	case orb.MultiLineString:
		for _, ls := range t {
			eachCoord(ls, fn)
		}
	case orb.Polygon:
		for _, r := range t {
			eachCoord(r, fn)
		}
	case orb.MultiPolygon:
		for _, p := range t {
			eachCoord(p, fn)
		}
	case orb.Collection:
		for _, c := range t {
			eachCoord(c, fn)
		}
	}
}

func smoothPinned(g orb.Geometry, iterations int, pinned map[orb.Point]struct{}) (orb.Geometry, error) {
	if iterations <= 0 {
		return orb.Clone(g), nil
	}
	var out orb.Geometry
	switch t := g.(type) {
	case orb.LineString:
		out = smoothLine(t, iterations, pinned)
	case orb.MultiLineString:
		mls := make(orb.MultiLineString, len(t))
		for i, ls := range t {
			mls[i] = smoothLine(ls, iterations, pinned)
		}
		out = mls
	case orb.Polygon:
		out = smoothPolygon(t, iterations, pinned)
	case orb.MultiPolygon:
		mp := make(orb.MultiPolygon, len(t))
		for i, p := range t {
			mp[i] = smoothPolygon(p, iterations, pinned)
		}
		out = mp
	default:
		return orb.Clone(g), nil
	}
	switch out.(type) {
	case orb.Polygon, orb.MultiPolygon:
		if ok, reason := IsValid(out); !ok {
			return nil, errs.New(errs.ErrCodeGeometry, "smoothing produced an invalid polygon: %s", reason)
		}
	}
	return out, nil
}

func smoothLine(ls orb.LineString, iterations int, pinned map[orb.Point]struct{}) orb.LineString {
	if len(ls) < 3 {
		return ls.Clone()
	}
	cur := ls
	for range iterations {
		next := orb.LineString{cur[0]}
		next = cornerCut(cur, next, pinned)
		next = append(next, cur[len(cur)-1])
		cur = dedupe(next)
	}
	return cur
}

func smoothPolygon(p orb.Polygon, iterations int, pinned map[orb.Point]struct{}) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		if len(r) < 4 {
			out[i] = r.Clone()
			continue
		}
		cur := r
		for range iterations {
			next := cornerCut(cur, nil, pinned)
			next = append(next, next[0])
			cur = orb.Ring(dedupe(next))
		}
		out[i] = cur
	}
	return out
}

// cornerCut replaces each segment (a, b) of seq with the points at 1/4 and
// 3/4 of its length. Pinned coordinates are emitted unchanged instead of
// being cut.
func cornerCut[S ~[]orb.Point](seq S, out []orb.Point, pinned map[orb.Point]struct{}) []orb.Point {
	isPinned := func(p orb.Point) bool {
		_, ok := pinned[p]
		return ok
	}
	for i := 0; i+1 < len(seq); i++ {
		a, b := seq[i], seq[i+1]
		q := orb.Point{0.75*a[0] + 0.25*b[0], 0.75*a[1] + 0.25*b[1]}
		r := orb.Point{0.25*a[0] + 0.75*b[0], 0.25*a[1] + 0.75*b[1]}
		if isPinned(a) {
			out = append(out, a)
		} else {
			out = append(out, q)
		}
		if !isPinned(b) {
			out = append(out, r)
		}
	}
	return out
}

func dedupe(pts []orb.Point) orb.LineString {
	out := make(orb.LineString, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Simplify removes vertices with Visvalingam-Whyatt effective-area
// elimination. Lines and rings keep at least 4 points. The input is not
// modified.
func Simplify(g orb.Geometry, tolerance float64) orb.Geometry {
	if tolerance <= 0 {
		return orb.Clone(g)
	}
	return simplify.Visvalingam(tolerance, 4).Simplify(orb.Clone(g))
}
