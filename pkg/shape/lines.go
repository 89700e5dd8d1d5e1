package shape

import (
	"github.com/paulmach/orb"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/geometry"
)

// StageSmoothLines names the line smoothing stage.
const StageSmoothLines = "smooth_lines"

// SmoothLines smooths the line features of c with iterations Chaikin
// passes. Coordinates shared by two or more features and the pinned points
// stay in place, so network junctions and outlets do not move. Non-line
// features are reported as item errors and passed through unchanged.
func SmoothLines(c feature.Collection, iterations int, pinned ...orb.Point) (feature.Collection, []error) {
	if iterations <= 0 {
		return c, nil
	}

	var (
		failures []error
		idx      []int
		geoms    []orb.Geometry
	)
	for i, f := range c.Features {
		switch f.Geometry.(type) {
		case orb.LineString, orb.MultiLineString:
			idx = append(idx, i)
			geoms = append(geoms, f.Geometry)
		default:
			failures = append(failures, &errs.ItemError{FeatureID: f.ID, Stage: StageSmoothLines,
				Err: errs.New(errs.ErrCodeGeometry, "expected a line, got %s", typeName(f.Geometry))})
		}
	}

	smoothed, err := geometry.SmoothKeepTopology(geoms, iterations, pinned...)
	if err != nil {
		// Lines cannot turn invalid; only reached for unexpected input.
		return c, append(failures, errs.Wrap(errs.ErrCodeInternal, err, "smooth lines"))
	}

	out := feature.Collection{Class: c.Class, Features: make([]feature.Feature, len(c.Features))}
	copy(out.Features, c.Features)
	for j, i := range idx {
		out.Features[i] = c.Features[i].WithGeometry(smoothed[j])
	}
	return out, failures
}

func typeName(g orb.Geometry) string {
	if g == nil {
		return "nothing"
	}
	return g.GeoJSONType()
}
