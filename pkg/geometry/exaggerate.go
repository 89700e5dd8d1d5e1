package geometry

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

// WidthEstimator locates the parts of a polygon narrower than a minimum
// width.
type WidthEstimator interface {
	NarrowParts(p orb.Polygon, minWidth float64) (orb.MultiPolygon, error)
}

// DefaultSliverTolerance is the opening distance used to discard slivers
// left on the boundary between narrow and wide parts.
const DefaultSliverTolerance = 0.1

// ErosionWidth finds narrow parts as the difference between a polygon and
// its morphological opening by half the minimum width.
type ErosionWidth struct {
	// SliverTolerance is the half-width below which leftover strips are
	// dropped. Zero means DefaultSliverTolerance; negative disables it.
	SliverTolerance float64
}

// NarrowParts implements WidthEstimator.
func (e ErosionWidth) NarrowParts(p orb.Polygon, minWidth float64) (orb.MultiPolygon, error) {
	half := minWidth / 2
	eroded, err := BufferAllowEmpty(p, -half, Flat())
	if err != nil {
		return nil, err
	}
	opened := orb.MultiPolygon{}
	if !IsEmpty(eroded) {
		g, err := BufferAllowEmpty(eroded, half, Flat())
		if err != nil {
			return nil, err
		}
		opened = Polygons(g)
	}
	var narrow orb.Geometry = p
	if len(opened) > 0 {
		if narrow, err = Difference(p, opened); err != nil {
			return nil, err
		}
	}
	parts := Polygons(narrow)

	tol := e.SliverTolerance
	if tol == 0 {
		tol = DefaultSliverTolerance
	}
	if tol < 0 || len(parts) == 0 {
		return parts, nil
	}
	shrunk, err := BufferAllowEmpty(parts, -tol, Flat())
	if err != nil {
		return nil, err
	}
	if IsEmpty(shrunk) {
		return orb.MultiPolygon{}, nil
	}
	cleaned, err := BufferAllowEmpty(shrunk, tol, Flat())
	if err != nil {
		return nil, err
	}
	return Polygons(cleaned), nil
}

// EnvelopeWidth treats the whole polygon as narrow when the short side of
// its oriented envelope is below the minimum width and its elongation does
// not exceed MaxElongation.
type EnvelopeWidth struct {
	// MaxElongation bounds width/height; zero accepts any elongation.
	MaxElongation float64
}

// NarrowParts implements WidthEstimator.
func (e EnvelopeWidth) NarrowParts(p orb.Polygon, minWidth float64) (orb.MultiPolygon, error) {
	d, err := OrientedDimensions(p)
	if err != nil {
		return nil, err
	}
	if d.Width >= minWidth || d.Height == 0 {
		return orb.MultiPolygon{}, nil
	}
	if e.MaxElongation > 0 && d.Width/d.Height > e.MaxElongation {
		return orb.MultiPolygon{}, nil
	}
	return orb.MultiPolygon{p}, nil
}

// ExaggerateOptions configures [ExaggerateThinParts].
type ExaggerateOptions struct {
	// Estimator decides which parts are narrow. Nil means ErosionWidth{}.
	Estimator WidthEstimator
	// MinPartArea drops narrow parts smaller than this area.
	MinPartArea float64
	// Buffer styles the widening of narrow parts.
	Buffer BufferOptions
	// Obstacles are neighbouring features the widened parts may not
	// overlap. Growth into them is clipped away.
	Obstacles []orb.Polygon
}

// ExaggerateThinParts widens the parts of p narrower than minWidth by
// distance, leaving wide parts unchanged. The result is a single valid
// polygon without holes that p did not have. Growth that would overlap an
// obstacle is clipped back.
func ExaggerateThinParts(p orb.Polygon, minWidth, distance float64, opts ExaggerateOptions) (orb.Polygon, error) {
	if minWidth <= 0 || distance <= 0 {
		return orientPolygon(p), nil
	}
	if err := requireValid(p, "exaggerate thin parts"); err != nil {
		return nil, err
	}
	est := opts.Estimator
	if est == nil {
		est = ErosionWidth{}
	}
	narrow, err := est.NarrowParts(p, minWidth)
	if err != nil {
		return nil, err
	}
	var parts []orb.Polygon
	for _, n := range narrow {
		if Area(n) >= opts.MinPartArea && Area(n) > 0 {
			parts = append(parts, n)
		}
	}
	if len(parts) == 0 {
		return orientPolygon(p), nil
	}

	growth, err := Buffer(orb.MultiPolygon(parts), distance, opts.Buffer)
	if err != nil {
		return nil, err
	}
	if len(opts.Obstacles) > 0 {
		obstacles, err := UnionAll(opts.Obstacles)
		if err != nil {
			return nil, err
		}
		if growth, err = Difference(growth, obstacles); err != nil {
			return nil, err
		}
	}
	merged, err := Union(p, growth)
	if err != nil {
		return nil, err
	}

	// Growth is anchored inside p, so the part covering p is the largest.
	out := Largest(Polygons(merged))
	if out == nil {
		return nil, errs.New(errs.ErrCodeGeometry, "exaggeration produced an empty polygon")
	}
	return fillNewHoles(out, p), nil
}

// fillNewHoles drops the holes of out that do not lie inside a hole of orig.
func fillNewHoles(out, orig orb.Polygon) orb.Polygon {
	if len(out) < 2 {
		return out
	}
	kept := orb.Polygon{out[0]}
	for _, hole := range out[1:] {
		c, _ := planar.CentroidArea(orb.Polygon{hole})
		for _, oh := range orig[1:] {
			if planar.RingContains(oh, c) {
				kept = append(kept, hole)
				break
			}
		}
	}
	return kept
}
