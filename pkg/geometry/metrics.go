package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/twpayne/go-geos"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

// Length returns the length of lines, or the perimeter of polygons.
func Length(g orb.Geometry) float64 {
	return planar.Length(g)
}

// Area returns the unsigned area of g. Holes are subtracted.
func Area(g orb.Geometry) float64 {
	switch t := g.(type) {
	case orb.Polygon:
		if len(t) == 0 {
			return 0
		}
		a := RingArea(t[0])
		for _, h := range t[1:] {
			a -= RingArea(h)
		}
		return a
	case orb.MultiPolygon:
		var a float64
		for _, p := range t {
			a += Area(p)
		}
		return a
	case orb.Collection:
		var a float64
		for _, c := range t {
			a += Area(c)
		}
		return a
	}
	return 0
}

// Centroid returns the centroid of g: area-weighted for polygons,
// length-weighted for lines.
func Centroid(g orb.Geometry) orb.Point {
	c, _ := planar.CentroidArea(g)
	return c
}

// Dimensions are the side lengths of a minimum rotated rectangle.
// Width is the short side.
type Dimensions struct {
	Width  float64
	Height float64
}

// OrientedDimensions returns the side lengths of the minimum rotated
// rectangle enclosing p. The width is the estimate of the polygon's overall
// thickness used for island exaggeration.
func OrientedDimensions(p orb.Polygon) (Dimensions, error) {
	if err := requireValid(p, "oriented envelope"); err != nil {
		return Dimensions{}, err
	}
	env, err := withGEOS(p, "oriented envelope", func(g *geos.Geom) *geos.Geom {
		return g.MinimumRotatedRectangle()
	})
	if err != nil {
		return Dimensions{}, err
	}
	var ring orb.Ring
	switch t := env.(type) {
	case orb.Polygon:
		if len(t) > 0 {
			ring = t[0]
		}
	case orb.LineString:
		// Collinear input collapses the envelope to a segment.
		return Dimensions{Width: 0, Height: planar.Length(t)}, nil
	}
	if len(ring) < 4 {
		return Dimensions{}, errs.New(errs.ErrCodeGeometry, "oriented envelope is degenerate")
	}
	a := planar.Distance(ring[0], ring[1])
	b := planar.Distance(ring[1], ring[2])
	return Dimensions{Width: math.Min(a, b), Height: math.Max(a, b)}, nil
}

// Elongation returns width / height of the oriented envelope of p, in
// [0, 1]. Values near 0 are long and thin shapes; 1 is a square envelope.
func Elongation(p orb.Polygon) (float64, error) {
	d, err := OrientedDimensions(p)
	if err != nil {
		return 0, err
	}
	if d.Height == 0 {
		return 0, errs.New(errs.ErrCodeGeometry, "elongation of a zero-size polygon")
	}
	return d.Width / d.Height, nil
}
