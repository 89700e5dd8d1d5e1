package thresholds

// DefaultScales are the denominators of the built-in table.
var DefaultScales = []int{10000, 25000, 50000, 100000, 250000}

// Per-class snap tolerances in ground units.
const (
	SnapWatercourses = 0.5
	SnapRoads        = 1.0
	SnapRailroads    = 1.0
)

// Rule is a parameter set expressed on paper: lengths and distances in map
// millimetres, areas in square map millimetres. SnapTolerance, counts,
// ratios and iteration counts are used as-is.
type Rule Set

// rules are the built-in map-millimetre rules per class.
var rules = map[string]Rule{
	"lakes": {
		MinArea:              2.0,
		MinHoleArea:          1.0,
		MinWidth:             0.6,
		ExaggerationDistance: 0.2,
		BufferDistance:       0.3,
		IslandMinWidth:       0.6,
		MaxElongation:        0.25,
		SimplifyTolerance:    0.02,
		SmoothIterations:     3,
	},
	"seas": {
		MinHoleArea:          1.0,
		MinWidth:             0.6,
		ExaggerationDistance: 0.2,
		BufferDistance:       0.5,
		IslandMinWidth:       0.6,
		MaxElongation:        0.25,
		SimplifyTolerance:    0.05,
		SmoothIterations:     3,
	},
	"islands": {
		MinArea:              0.5,
		MinHoleArea:          0.5,
		MinWidth:             0.6,
		ExaggerationDistance: 0.2,
		BufferDistance:       0.2,
		IslandMinWidth:       0.6,
		MaxElongation:        0.25,
		SimplifyTolerance:    0.02,
		SmoothIterations:     3,
	},
	"watercourses": {
		SnapTolerance:    SnapWatercourses,
		MinLength:        6.0,
		DensityRadius:    4.0,
		MaxLocalCount:    8,
		SmoothIterations: 2,
	},
	"roads": {
		SnapTolerance:    SnapRoads,
		MinLength:        3.0,
		DensityRadius:    3.0,
		MaxLocalCount:    12,
		SmoothIterations: 1,
	},
	"railroads": {
		SnapTolerance:    SnapRailroads,
		MinLength:        3.0,
		DensityRadius:    2.0,
		MaxLocalCount:    4,
		SmoothIterations: 1,
	},
}

// DefaultRule returns the built-in rule of a class.
func DefaultRule(class string) (Rule, bool) {
	r, ok := rules[class]
	return r, ok
}

// At converts the rule to ground units at a scale denominator.
func (r Rule) At(denominator float64) Set {
	k := denominator / 1000
	s := Set(r)
	s.MinLength *= k
	s.DensityRadius *= k
	s.MinWidth *= k
	s.ExaggerationDistance *= k
	s.BufferDistance *= k
	s.IslandMinWidth *= k
	s.MinArea *= k * k
	s.MinHoleArea *= k * k
	s.SimplifyTolerance *= k * k
	return s
}

// DefaultTable evaluates the built-in rules at [DefaultScales].
func DefaultTable() *Table {
	t := NewTable()
	for _, d := range DefaultScales {
		for class, r := range rules {
			t.Put(d, class, r.At(float64(d)))
		}
	}
	return t
}
