package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ExtractInteriorRings returns the holes of p as independent polygons, in
// their original order and winding. A polygon without holes yields an empty
// slice.
func ExtractInteriorRings(p orb.Polygon) []orb.Polygon {
	if len(p) < 2 {
		return []orb.Polygon{}
	}
	out := make([]orb.Polygon, 0, len(p)-1)
	for _, hole := range p[1:] {
		out = append(out, orb.Polygon{hole.Clone()})
	}
	return out
}

// RemoveSmallInteriorRings returns a copy of p without the holes whose area
// is below areaThreshold.
func RemoveSmallInteriorRings(p orb.Polygon, areaThreshold float64) orb.Polygon {
	if len(p) == 0 {
		return orb.Polygon{}
	}
	out := orb.Polygon{p[0].Clone()}
	for _, hole := range p[1:] {
		if RingArea(hole) >= areaThreshold {
			out = append(out, hole.Clone())
		}
	}
	return out
}

// RemoveSmallInteriorRingsMulti applies [RemoveSmallInteriorRings] to every
// polygon of mp.
func RemoveSmallInteriorRingsMulti(mp orb.MultiPolygon, areaThreshold float64) orb.MultiPolygon {
	out := make(orb.MultiPolygon, 0, len(mp))
	for _, p := range mp {
		out = append(out, RemoveSmallInteriorRings(p, areaThreshold))
	}
	return out
}

// RingArea returns the unsigned area enclosed by r.
func RingArea(r orb.Ring) float64 {
	return math.Abs(planar.Area(r))
}

// Orient returns g with polygon rings normalized: exterior rings
// counter-clockwise, holes clockwise. Non-polygonal geometries are returned
// as is.
func Orient(g orb.Geometry) orb.Geometry {
	switch t := g.(type) {
	case orb.Polygon:
		return orientPolygon(t)
	case orb.MultiPolygon:
		out := make(orb.MultiPolygon, len(t))
		for i, p := range t {
			out[i] = orientPolygon(p)
		}
		return out
	case orb.Collection:
		out := make(orb.Collection, len(t))
		for i, c := range t {
			out[i] = Orient(c)
		}
		return out
	}
	return g
}

func orientPolygon(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, r := range p {
		r = r.Clone()
		want := orb.CW
		if i == 0 {
			want = orb.CCW
		}
		if r.Orientation() != want {
			r.Reverse()
		}
		out[i] = r
	}
	return out
}

// Polygons flattens the polygonal parts of g into a multipolygon. Points and
// lines inside collections are dropped, as are polygons without rings.
func Polygons(g orb.Geometry) orb.MultiPolygon {
	var out orb.MultiPolygon
	var walk func(orb.Geometry)
	walk = func(g orb.Geometry) {
		switch t := g.(type) {
		case orb.Polygon:
			if len(t) > 0 && len(t[0]) > 0 {
				out = append(out, t)
			}
		case orb.MultiPolygon:
			for _, p := range t {
				walk(p)
			}
		case orb.Collection:
			for _, c := range t {
				walk(c)
			}
		}
	}
	walk(g)
	if out == nil {
		return orb.MultiPolygon{}
	}
	return out
}

// Largest returns the polygon with the greatest area, or nil for an empty
// multipolygon. Ties keep the first.
func Largest(mp orb.MultiPolygon) orb.Polygon {
	var best orb.Polygon
	bestArea := -1.0
	for _, p := range mp {
		if a := Area(p); a > bestArea {
			best, bestArea = p, a
		}
	}
	return best
}

// IsEmpty reports whether g has no coordinates.
func IsEmpty(g orb.Geometry) bool {
	if g == nil {
		return true
	}
	switch t := g.(type) {
	case orb.Point:
		return false
	case orb.MultiPoint:
		return len(t) == 0
	case orb.LineString:
		return len(t) == 0
	case orb.MultiLineString:
		for _, ls := range t {
			if len(ls) > 0 {
				return false
			}
		}
		return true
	case orb.Ring:
		return len(t) == 0
	case orb.Polygon:
		return len(t) == 0 || len(t[0]) == 0
	case orb.MultiPolygon:
		for _, p := range t {
			if !IsEmpty(p) {
				return false
			}
		}
		return true
	case orb.Collection:
		for _, c := range t {
			if !IsEmpty(c) {
				return false
			}
		}
		return true
	}
	return false
}
