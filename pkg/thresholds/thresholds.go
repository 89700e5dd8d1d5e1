// Package thresholds resolves the numeric generalization parameters of a
// feature class at a target scale.
//
// Parameters are defined as map-millimetre rules: a lake narrower than
// 0.6 mm on paper is too thin to read, whatever the scale. A rule is turned
// into ground units (metres) with
//
//	metres = mm * denominator / 1000
//
// and areas with the square of that factor. [DefaultTable] evaluates the
// built-in rules at 1:10k, 1:25k, 1:50k, 1:100k and 1:250k; [Load] reads
// TOML overrides on top of it.
//
// Snap tolerance is the exception: it reflects digitizing precision rather
// than legibility, so it is an absolute value at every scale (0.5 m for
// watercourses, 1.0 m for roads and railroads).
package thresholds

import (
	"math"
	"slices"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

// Set holds every numeric parameter consumed by the generalization stages.
// Lengths and distances are in ground units, areas in square ground units.
type Set struct {
	SnapTolerance float64 `toml:"snap_tolerance"` // Network endpoint merge distance

	MinLength     float64 `toml:"min_length"`      // Shorter lines are dropped unless main
	DensityRadius float64 `toml:"density_radius"`  // Neighborhood radius of the density rule
	MaxLocalCount int     `toml:"max_local_count"` // Max features per neighborhood; 0 disables

	MinArea              float64 `toml:"min_area"`              // Smaller polygons are eliminated
	MinHoleArea          float64 `toml:"min_hole_area"`         // Smaller holes are filled
	MinWidth             float64 `toml:"min_width"`             // Narrower parts are exaggerated
	ExaggerationDistance float64 `toml:"exaggeration_distance"` // Widening applied to narrow parts
	BufferDistance       float64 `toml:"buffer_distance"`       // Round-trip buffer distance

	IslandMinWidth float64 `toml:"island_min_width"` // Islands narrower than this are widened
	MaxElongation  float64 `toml:"max_elongation"`   // Only islands at most this elongated are widened

	SimplifyTolerance float64 `toml:"simplify_tolerance"` // Visvalingam area threshold; 0 disables
	SmoothIterations  int     `toml:"smooth_iterations"`  // Chaikin passes; 0 disables
}

// Validate checks that every parameter is in range.
func (s Set) Validate() error {
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"snap_tolerance", s.SnapTolerance},
		{"min_length", s.MinLength},
		{"density_radius", s.DensityRadius},
		{"min_area", s.MinArea},
		{"min_hole_area", s.MinHoleArea},
		{"min_width", s.MinWidth},
		{"exaggeration_distance", s.ExaggerationDistance},
		{"buffer_distance", s.BufferDistance},
		{"island_min_width", s.IslandMinWidth},
		{"simplify_tolerance", s.SimplifyTolerance},
	} {
		if err := errs.ValidateNonNegative(p.name, p.v); err != nil {
			return err
		}
	}
	if s.MaxLocalCount < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_local_count must be >= 0, got %d", s.MaxLocalCount)
	}
	if s.MaxLocalCount > 0 && s.DensityRadius == 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "density_radius must be > 0 when max_local_count is set")
	}
	if math.IsNaN(s.MaxElongation) || s.MaxElongation < 0 || s.MaxElongation > 1 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_elongation must be in [0, 1], got %g", s.MaxElongation)
	}
	if s.SmoothIterations < 0 || s.SmoothIterations > MaxSmoothIterations {
		return errs.New(errs.ErrCodeInvalidConfig, "smooth_iterations must be in [0, %d], got %d", MaxSmoothIterations, s.SmoothIterations)
	}
	return nil
}

// MaxSmoothIterations bounds Chaikin passes; each pass doubles the vertex
// count.
const MaxSmoothIterations = 8

// Table maps scale denominators to per-class parameter sets.
type Table struct {
	scales map[int]map[string]Set
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{scales: make(map[int]map[string]Set)}
}

// Put stores the set of a class at a scale denominator.
func (t *Table) Put(denominator int, class string, s Set) {
	if t.scales[denominator] == nil {
		t.scales[denominator] = make(map[string]Set)
	}
	t.scales[denominator][class] = s
}

// Get returns the set stored for exactly this denominator.
func (t *Table) Get(denominator int, class string) (Set, bool) {
	s, ok := t.scales[denominator][class]
	return s, ok
}

// Denominators returns the table's scales in ascending order.
func (t *Table) Denominators() []int {
	out := make([]int, 0, len(t.scales))
	for d := range t.scales {
		out = append(out, d)
	}
	slices.Sort(out)
	return out
}

// Classes returns every class present at any scale, sorted.
func (t *Table) Classes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, classes := range t.scales {
		for c := range classes {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	slices.Sort(out)
	return out
}

// Resolve returns the set of class for the target scale denominator. The
// smallest table scale at or above the target is used, so a map at 1:40 000
// gets the 1:50 000 parameters; targets beyond the table use its largest
// scale.
func (t *Table) Resolve(class string, scale float64) (Set, error) {
	if err := errs.ValidateScale(scale); err != nil {
		return Set{}, err
	}
	var candidates []int
	for _, d := range t.Denominators() {
		if _, ok := t.scales[d][class]; ok {
			candidates = append(candidates, d)
		}
	}
	if len(candidates) == 0 {
		return Set{}, &errs.UnsupportedFeatureClassError{Class: class, Supported: t.Classes()}
	}
	chosen := candidates[len(candidates)-1]
	for _, d := range candidates {
		if float64(d) >= scale {
			chosen = d
			break
		}
	}
	return t.scales[chosen][class], nil
}

// Validate checks every set in the table.
func (t *Table) Validate() error {
	for _, d := range t.Denominators() {
		classes := make([]string, 0, len(t.scales[d]))
		for c := range t.scales[d] {
			classes = append(classes, c)
		}
		slices.Sort(classes)
		for _, c := range classes {
			if err := t.scales[d][c].Validate(); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidConfig, err, "thresholds for %s at 1:%d", c, d)
			}
		}
	}
	return nil
}
