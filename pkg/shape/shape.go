package shape

import (
	"maps"
	"slices"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/geometry"
	"github.com/matzehuels/cartogen/pkg/thresholds"
)

// Stage names used in warnings and item errors.
const (
	StageEliminate  = "eliminate"
	StageIslands    = "islands"
	StageExaggerate = "exaggerate"
	StageRoundTrip  = "round_trip"
	StageSimplify   = "simplify"
	StageClip       = "clip"
	StageValidate   = "validate"
)

// Profile selects the steps run for a polygon class.
type Profile struct {
	EliminateSmall  bool // Drop polygons below MinArea
	SplitIslands    bool // Generalize holes as islands and cut them back in
	WidenThinIsland bool // Widen the whole polygon when thin and elongated
}

var profiles = map[string]Profile{
	"lakes":   {EliminateSmall: true, SplitIslands: true},
	"seas":    {SplitIslands: true},
	"islands": {EliminateSmall: true, WidenThinIsland: true},
}

// Classes returns the polygon classes with a profile, sorted.
func Classes() []string {
	return slices.Sorted(maps.Keys(profiles))
}

// Generalizer applies the polygon pipeline of one class. It holds no
// mutable state and may be shared between goroutines.
type Generalizer struct {
	class     string
	profile   Profile
	set       thresholds.Set
	estimator geometry.WidthEstimator
	buffer    geometry.BufferOptions
}

// Option configures a [Generalizer].
type Option func(*Generalizer)

// WithEstimator replaces the thin-part width estimator. The default is
// geometry.ErosionWidth{}.
func WithEstimator(e geometry.WidthEstimator) Option {
	return func(g *Generalizer) { g.estimator = e }
}

// WithBufferOptions sets the join and cap styles of the round trip and of
// exaggeration buffers.
func WithBufferOptions(o geometry.BufferOptions) Option {
	return func(g *Generalizer) { g.buffer = o }
}

// New returns the generalizer of a polygon class.
func New(class string, set thresholds.Set, opts ...Option) (*Generalizer, error) {
	p, ok := profiles[class]
	if !ok {
		return nil, &errs.UnsupportedFeatureClassError{Class: class, Supported: Classes()}
	}
	g := &Generalizer{class: class, profile: p, set: set, estimator: geometry.ErosionWidth{}}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Class returns the feature class.
func (g *Generalizer) Class() string { return g.class }

// Profile returns the steps run for the class.
func (g *Generalizer) Profile() Profile { return g.profile }

// Eliminate removes polygons whose area is below MinArea, when the class
// eliminates small areas. It returns the kept collection and the IDs of the
// removed features.
func (g *Generalizer) Eliminate(c feature.Collection) (feature.Collection, []string) {
	if !g.profile.EliminateSmall || g.set.MinArea <= 0 {
		return c, nil
	}
	var removed []string
	out := c.Filter(func(f feature.Feature) bool {
		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		default:
			return true
		}
		// Invalid input is left for Generalize to report.
		if ok, _ := geometry.IsValid(f.Geometry); !ok {
			return true
		}
		if geometry.Area(f.Geometry) < g.set.MinArea {
			removed = append(removed, f.ID)
			return false
		}
		return true
	})
	return out, removed
}

// Generalize transforms one polygon feature. Attributes are carried over
// unchanged. Invalid or non-polygonal input is a GEOMETRY_ERROR.
func (g *Generalizer) Generalize(f feature.Feature) (feature.Feature, []errs.Warning, error) {
	return g.generalize(f, nil)
}

func (g *Generalizer) generalize(f feature.Feature, obstacles []orb.Polygon) (feature.Feature, []errs.Warning, error) {
	if f.Geometry == nil {
		return f, nil, &errs.ItemError{FeatureID: f.ID, Stage: StageValidate,
			Err: errs.New(errs.ErrCodeGeometry, "feature has no geometry")}
	}
	if ok, reason := geometry.IsValid(f.Geometry); !ok {
		return f, nil, &errs.ItemError{FeatureID: f.ID, Stage: StageValidate,
			Err: errs.New(errs.ErrCodeGeometry, "invalid input geometry: %s", reason)}
	}

	var (
		parts    orb.MultiPolygon
		warnings []errs.Warning
	)
	switch t := f.Geometry.(type) {
	case orb.Polygon:
		parts = orb.MultiPolygon{t}
	case orb.MultiPolygon:
		parts = t
	default:
		return f, nil, &errs.ItemError{FeatureID: f.ID, Stage: StageValidate,
			Err: errs.New(errs.ErrCodeGeometry, "expected a polygon, got %s", f.Geometry.GeoJSONType())}
	}

	out := make(orb.MultiPolygon, 0, len(parts))
	for _, p := range parts {
		q, ws := g.polygon(f.ID, p, obstacles)
		warnings = append(warnings, ws...)
		if q != nil {
			out = append(out, q)
		}
	}

	var geom orb.Geometry
	switch {
	case len(out) == 0:
		warnings = append(warnings, errs.Warnf(errs.WarnFallbackUnchanged, f.ID, "generalization removed every part"))
		return f, warnings, nil
	case len(out) == 1 && f.Geometry.GeoJSONType() == "Polygon":
		geom = out[0]
	default:
		merged, err := geometry.UnionAll(out)
		if err != nil {
			return f, warnings, &errs.ItemError{FeatureID: f.ID, Stage: StageValidate, Err: err}
		}
		geom = geometry.Orient(merged)
	}
	return f.WithGeometry(geom), warnings, nil
}

// polygon runs the class pipeline on one polygon. A failed round trip or
// final validation returns the input polygon unchanged; other failed steps
// fall back to the last good geometry. Every fallback records a warning.
func (g *Generalizer) polygon(id string, p orb.Polygon, obstacles []orb.Polygon) (orb.Polygon, []errs.Warning) {
	var warnings []errs.Warning
	fallback := func(stage string, err error) {
		warnings = append(warnings, errs.Warning{
			Code:      errs.WarnFallbackUnchanged,
			FeatureID: id,
			Stage:     stage,
			Message:   errs.UserMessage(err),
		})
	}
	orig := geometry.Orient(p).(orb.Polygon)
	cur := orig

	var islands []orb.Polygon
	if g.profile.SplitIslands {
		islands = geometry.ExtractInteriorRings(cur)
		cur = orb.Polygon{cur[0]}
	}

	if g.profile.WidenThinIsland {
		if w, err := g.widenIsland(cur); err != nil {
			fallback(StageIslands, err)
		} else {
			cur = w
		}
	}

	if e, err := geometry.ExaggerateThinParts(cur, g.set.MinWidth, g.set.ExaggerationDistance, geometry.ExaggerateOptions{
		Estimator: g.estimator,
		Buffer:    g.buffer,
		Obstacles: obstacles,
	}); err != nil {
		fallback(StageExaggerate, err)
	} else {
		cur = e
	}

	r, err := g.roundTrip(cur)
	if err != nil {
		fallback(StageRoundTrip, err)
		return orig, warnings
	}
	cur = r

	if s, ok := geometry.Simplify(cur, g.set.SimplifyTolerance).(orb.Polygon); ok {
		if valid, reason := geometry.IsValid(s); valid {
			cur = s
		} else {
			fallback(StageSimplify, errs.New(errs.ErrCodeGeometry, "simplification produced an invalid polygon: %s", reason))
		}
	}

	if len(islands) > 0 {
		cut, ws := g.reinsertIslands(id, cur, islands)
		warnings = append(warnings, ws...)
		cur = cut
	}

	cur = geometry.RemoveSmallInteriorRings(cur, g.set.MinHoleArea)

	if len(obstacles) > 0 {
		clipped, changed, err := clip(cur, obstacles)
		switch {
		case err != nil:
			fallback(StageClip, err)
			cur = orig
		case changed:
			warnings = append(warnings, errs.Warnf(errs.WarnClipped, id, "growth clipped against neighbouring features"))
			cur = clipped
		}
	}

	cur = geometry.Orient(cur).(orb.Polygon)
	if ok, reason := geometry.IsValid(cur); !ok || geometry.Area(cur) == 0 {
		fallback(StageValidate, errs.New(errs.ErrCodeGeometry, "generalized polygon is invalid: %s", reason))
		return orig, warnings
	}
	return cur, warnings
}

// roundTrip buffers p by BufferDistance, smooths it and buffers it back.
func (g *Generalizer) roundTrip(p orb.Polygon) (orb.Polygon, error) {
	d := g.set.BufferDistance
	out, err := geometry.BufferPolygon(p, d, g.buffer)
	if err != nil {
		return nil, err
	}
	smoothed, err := geometry.Smooth(out, g.set.SmoothIterations)
	if err != nil {
		return nil, err
	}
	back, err := geometry.BufferPolygon(smoothed.(orb.Polygon), -d, g.buffer)
	if err != nil {
		return nil, err
	}
	if back == nil {
		return nil, errs.New(errs.ErrCodeGeometry, "round trip collapsed the polygon")
	}
	return back, nil
}

// widenIsland buffers a whole island by ExaggerationDistance when it is
// thinner than IslandMinWidth and at most MaxElongation.
func (g *Generalizer) widenIsland(p orb.Polygon) (orb.Polygon, error) {
	if g.set.IslandMinWidth <= 0 || g.set.ExaggerationDistance <= 0 {
		return p, nil
	}
	dims, err := geometry.OrientedDimensions(p)
	if err != nil {
		return nil, err
	}
	if dims.Height == 0 || dims.Width >= g.set.IslandMinWidth || dims.Width/dims.Height > g.set.MaxElongation {
		return p, nil
	}
	return geometry.BufferPolygon(p, g.set.ExaggerationDistance, g.buffer)
}

// reinsertIslands generalizes the islands of a lake or sea and cuts them
// out of the generalized exterior. Islands below MinHoleArea are dropped.
func (g *Generalizer) reinsertIslands(id string, ext orb.Polygon, islands []orb.Polygon) (orb.Polygon, []errs.Warning) {
	var (
		warnings []errs.Warning
		cut      []orb.Polygon
	)
	for _, is := range islands {
		is = geometry.Orient(is).(orb.Polygon)
		if geometry.Area(is) < g.set.MinHoleArea {
			continue
		}
		gi, err := g.widenIsland(is)
		if err != nil {
			warnings = append(warnings, errs.Warnf(errs.WarnFallbackUnchanged, id, "island kept unchanged: %s", errs.UserMessage(err)))
			gi = is
		}
		if s, ok := geometry.Simplify(gi, g.set.SimplifyTolerance).(orb.Polygon); ok {
			if valid, _ := geometry.IsValid(s); valid {
				gi = s
			}
		}
		if s, err := geometry.Smooth(gi, g.set.SmoothIterations); err == nil {
			gi = s.(orb.Polygon)
		}
		cut = append(cut, gi)
	}
	if len(cut) == 0 {
		return ext, warnings
	}

	holes, err := geometry.UnionAll(cut)
	if err == nil {
		var diff orb.Geometry
		if diff, err = geometry.Difference(ext, holes); err == nil {
			if out := geometry.Largest(geometry.Polygons(diff)); out != nil {
				return out, warnings
			}
		}
	}
	if err == nil {
		err = errs.New(errs.ErrCodeGeometry, "islands cover the whole exterior")
	}
	warnings = append(warnings, errs.Warning{
		Code:      errs.WarnFallbackUnchanged,
		FeatureID: id,
		Stage:     StageIslands,
		Message:   "islands re-inserted ungeneralized: " + errs.UserMessage(err),
	})
	return append(orb.Polygon{ext[0]}, ringsOf(islands)...), warnings
}

func ringsOf(ps []orb.Polygon) []orb.Ring {
	out := make([]orb.Ring, 0, len(ps))
	for _, p := range ps {
		out = append(out, p[0])
	}
	return out
}

// clip removes the parts of p overlapping obstacles. changed reports
// whether anything was removed.
func clip(p orb.Polygon, obstacles []orb.Polygon) (orb.Polygon, bool, error) {
	union, err := geometry.UnionAll(obstacles)
	if err != nil {
		return nil, false, err
	}
	overlap, err := geometry.Intersection(p, union)
	if err != nil {
		return nil, false, err
	}
	if geometry.Area(overlap) <= clipEpsilon*geometry.Area(p) {
		return p, false, nil
	}
	diff, err := geometry.Difference(p, union)
	if err != nil {
		return nil, false, err
	}
	out := geometry.Largest(geometry.Polygons(diff))
	if out == nil {
		return nil, false, errs.New(errs.ErrCodeGeometry, "clipping removed the whole polygon")
	}
	return out, true, nil
}

// clipEpsilon is the relative overlap area below which a polygon is
// considered clear of its neighbours.
const clipEpsilon = 1e-9
