package geometry

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkb"
	"github.com/twpayne/go-geos"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

// toGEOS converts an orb geometry to a GEOS geometry through WKB.
func toGEOS(g orb.Geometry) (*geos.Geom, error) {
	data, err := wkb.Marshal(g)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeGeometry, err, "encode %s as WKB", g.GeoJSONType())
	}
	gg, err := geos.NewGeomFromWKB(data)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeGeometry, err, "decode %s in GEOS", g.GeoJSONType())
	}
	return gg, nil
}

// fromGEOS converts a GEOS geometry back to orb. Polygons are oriented.
func fromGEOS(gg *geos.Geom) (orb.Geometry, error) {
	g, err := wkb.Unmarshal(gg.ToWKB())
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeGeometry, err, "decode GEOS result")
	}
	return Orient(g), nil
}

// withGEOS runs fn on the GEOS form of g and converts the result back.
// GEOS failures surface in go-geos as panics; they are returned as
// GEOMETRY_ERROR instead.
func withGEOS(g orb.Geometry, op string, fn func(*geos.Geom) *geos.Geom) (out orb.Geometry, err error) {
	gg, err := toGEOS(g)
	if err != nil {
		return nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, errs.New(errs.ErrCodeGeometry, "%s: %v", op, r)
		}
	}()
	res := fn(gg)
	if res == nil {
		return nil, errs.New(errs.ErrCodeGeometry, "%s returned no geometry", op)
	}
	return fromGEOS(res)
}

// binaryOp runs a two-operand GEOS operation.
func binaryOp(a, b orb.Geometry, op string, fn func(x, y *geos.Geom) *geos.Geom) (orb.Geometry, error) {
	gb, err := toGEOS(b)
	if err != nil {
		return nil, err
	}
	return withGEOS(a, op, func(ga *geos.Geom) *geos.Geom { return fn(ga, gb) })
}

// Union returns the point-set union of a and b.
func Union(a, b orb.Geometry) (orb.Geometry, error) {
	return binaryOp(a, b, "union", func(x, y *geos.Geom) *geos.Geom { return x.Union(y) })
}

// Difference returns the part of a not covered by b.
func Difference(a, b orb.Geometry) (orb.Geometry, error) {
	return binaryOp(a, b, "difference", func(x, y *geos.Geom) *geos.Geom { return x.Difference(y) })
}

// Intersection returns the part of a covered by b.
func Intersection(a, b orb.Geometry) (orb.Geometry, error) {
	return binaryOp(a, b, "intersection", func(x, y *geos.Geom) *geos.Geom { return x.Intersection(y) })
}

// UnionAll dissolves a set of polygons into a multipolygon.
func UnionAll(polys []orb.Polygon) (orb.MultiPolygon, error) {
	if len(polys) == 0 {
		return nil, nil
	}
	mp := make(orb.MultiPolygon, len(polys))
	copy(mp, polys)
	res, err := withGEOS(mp, "unary union", func(g *geos.Geom) *geos.Geom { return g.UnaryUnion() })
	if err != nil {
		return nil, err
	}
	return Polygons(res), nil
}

// IsValid reports whether g is topologically valid. The reason is empty for
// valid geometries.
func IsValid(g orb.Geometry) (bool, string) {
	gg, err := toGEOS(g)
	if err != nil {
		return false, err.Error()
	}
	ok, reason := true, ""
	func() {
		defer func() {
			if r := recover(); r != nil {
				ok, reason = false, fmt.Sprint(r)
			}
		}()
		if !gg.IsValid() {
			ok, reason = false, gg.IsValidReason()
		}
	}()
	return ok, reason
}

// MakeValid repairs g with GEOS MakeValid. Lower-dimension debris produced
// by the repair of polygons is discarded.
func MakeValid(g orb.Geometry) (orb.Geometry, error) {
	res, err := withGEOS(g, "make valid", func(gg *geos.Geom) *geos.Geom { return gg.MakeValid() })
	if err != nil {
		return nil, err
	}
	switch g.(type) {
	case orb.Polygon, orb.MultiPolygon:
		return Polygons(res), nil
	}
	return res, nil
}

func requireValid(g orb.Geometry, op string) error {
	if ok, reason := IsValid(g); !ok {
		return errs.New(errs.ErrCodeGeometry, "%s: invalid input geometry: %s", op, reason)
	}
	return nil
}
