package geometry

import (
	"github.com/paulmach/orb"
	"github.com/twpayne/go-geos"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

// JoinStyle selects how offset segments are joined at vertices.
type JoinStyle string

// CapStyle selects how the ends of buffered lines are closed.
type CapStyle string

const (
	JoinRound JoinStyle = "round"
	JoinMitre JoinStyle = "mitre"
	JoinBevel JoinStyle = "bevel"

	CapRound  CapStyle = "round"
	CapFlat   CapStyle = "flat"
	CapSquare CapStyle = "square"
)

// Default buffer parameters.
const (
	DefaultQuadSegments = 16
	DefaultMitreLimit   = 5.0
)

// BufferOptions configures [Buffer]. Zero fields take the defaults:
// round joins, round caps, 16 segments per quadrant, mitre limit 5.
type BufferOptions struct {
	Join         JoinStyle
	Cap          CapStyle
	QuadSegments int
	MitreLimit   float64
}

// Flat returns options with flat caps and mitre joins, the style used for
// morphological openings and closings that must keep straight edges straight.
func Flat() BufferOptions {
	return BufferOptions{Join: JoinMitre, Cap: CapFlat}
}

func (o BufferOptions) withDefaults() BufferOptions {
	if o.Join == "" {
		o.Join = JoinRound
	}
	if o.Cap == "" {
		o.Cap = CapRound
	}
	if o.QuadSegments <= 0 {
		o.QuadSegments = DefaultQuadSegments
	}
	if o.MitreLimit <= 0 {
		o.MitreLimit = DefaultMitreLimit
	}
	return o
}

func (o BufferOptions) geos() (geos.BufCapStyle, geos.BufJoinStyle) {
	capStyle := geos.BufCapStyleRound
	switch o.Cap {
	case CapFlat:
		capStyle = geos.BufCapStyleFlat
	case CapSquare:
		capStyle = geos.BufCapStyleSquare
	}
	joinStyle := geos.BufJoinStyleRound
	switch o.Join {
	case JoinMitre:
		joinStyle = geos.BufJoinStyleMitre
	case JoinBevel:
		joinStyle = geos.BufJoinStyleBevel
	}
	return capStyle, joinStyle
}

// Buffer offsets g by distance. A zero distance returns an equal copy of g.
//
// The input must be valid. For polygonal input a result that collapses to
// empty is a GEOMETRY_ERROR; callers that accept erosion to nothing use
// [BufferAllowEmpty].
func Buffer(g orb.Geometry, distance float64, opts BufferOptions) (orb.Geometry, error) {
	res, err := BufferAllowEmpty(g, distance, opts)
	if err != nil {
		return nil, err
	}
	if IsEmpty(res) {
		return nil, errs.New(errs.ErrCodeGeometry, "buffer by %g collapsed %s to empty", distance, g.GeoJSONType())
	}
	return res, nil
}

// BufferAllowEmpty is [Buffer] without the non-empty requirement. Polygonal
// results are returned as an orb.MultiPolygon, possibly empty.
func BufferAllowEmpty(g orb.Geometry, distance float64, opts BufferOptions) (orb.Geometry, error) {
	if distance == 0 {
		return orb.Clone(g), nil
	}
	if err := requireValid(g, "buffer"); err != nil {
		return nil, err
	}
	o := opts.withDefaults()
	capStyle, joinStyle := o.geos()
	res, err := withGEOS(g, "buffer", func(gg *geos.Geom) *geos.Geom {
		return gg.BufferWithStyle(distance, o.QuadSegments, capStyle, joinStyle, o.MitreLimit)
	})
	if err != nil {
		return nil, err
	}
	return Polygons(res), nil
}

// BufferPolygon buffers p and requires the result to be a single polygon.
// When the buffer splits p, the largest part is returned.
func BufferPolygon(p orb.Polygon, distance float64, opts BufferOptions) (orb.Polygon, error) {
	res, err := Buffer(p, distance, opts)
	if err != nil {
		return nil, err
	}
	return Largest(Polygons(res)), nil
}
