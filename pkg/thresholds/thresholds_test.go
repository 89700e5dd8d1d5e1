package thresholds

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/cartogen/pkg/errors"
)

func TestRuleAt(t *testing.T) {
	r := Rule{SnapTolerance: 0.5, MinLength: 2, MinArea: 1, MaxLocalCount: 3, MaxElongation: 0.25}
	s := r.At(50000)

	if s.MinLength != 100 {
		t.Errorf("MinLength = %v, want 100", s.MinLength)
	}
	if s.MinArea != 2500 {
		t.Errorf("MinArea = %v, want 2500", s.MinArea)
	}
	if s.SnapTolerance != 0.5 || s.MaxLocalCount != 3 || s.MaxElongation != 0.25 {
		t.Errorf("unscaled fields changed: %+v", s)
	}
}

func TestDefaultTable(t *testing.T) {
	tbl := DefaultTable()
	if diff := cmp.Diff(DefaultScales, tbl.Denominators()); diff != "" {
		t.Errorf("Denominators() mismatch (-want +got):\n%s", diff)
	}
	want := []string{"islands", "lakes", "railroads", "roads", "seas", "watercourses"}
	if diff := cmp.Diff(want, tbl.Classes()); diff != "" {
		t.Errorf("Classes() mismatch (-want +got):\n%s", diff)
	}
	if err := tbl.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}

	snaps := map[string]float64{"watercourses": 0.5, "roads": 1.0, "railroads": 1.0}
	for _, d := range tbl.Denominators() {
		for class, want := range snaps {
			s, _ := tbl.Get(d, class)
			if s.SnapTolerance != want {
				t.Errorf("SnapTolerance(%s, 1:%d) = %v, want %v", class, d, s.SnapTolerance, want)
			}
		}
	}
}

func TestResolve(t *testing.T) {
	tbl := DefaultTable()
	tests := []struct {
		scale float64
		want  int
	}{
		{5000, 10000},
		{10000, 10000},
		{40000, 50000},
		{50000, 50000},
		{1000000, 250000},
	}
	for _, tt := range tests {
		got, err := tbl.Resolve("watercourses", tt.scale)
		if err != nil {
			t.Fatalf("Resolve(%v) error = %v", tt.scale, err)
		}
		want, _ := tbl.Get(tt.want, "watercourses")
		if got != want {
			t.Errorf("Resolve(%v) = %+v, want set of 1:%d", tt.scale, got, tt.want)
		}
	}
}

func TestResolveErrors(t *testing.T) {
	tbl := DefaultTable()

	_, err := tbl.Resolve("glaciers", 50000)
	if errs.CodeOf(err) != errs.ErrCodeUnsupportedClass {
		t.Errorf("Resolve(unknown class) code = %v, want %v", errs.CodeOf(err), errs.ErrCodeUnsupportedClass)
	}

	for _, scale := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := tbl.Resolve("lakes", scale); !errs.Is(err, errs.ErrCodeInvalidInput) {
			t.Errorf("Resolve(scale=%v) = %v, want INVALID_INPUT", scale, err)
		}
	}
}

func TestSetValidate(t *testing.T) {
	valid, _ := DefaultRule("roads")
	tests := []struct {
		name   string
		mutate func(*Set)
	}{
		{"negative length", func(s *Set) { s.MinLength = -1 }},
		{"nan width", func(s *Set) { s.MinWidth = math.NaN() }},
		{"negative count", func(s *Set) { s.MaxLocalCount = -1 }},
		{"count without radius", func(s *Set) { s.DensityRadius = 0 }},
		{"elongation above one", func(s *Set) { s.MaxElongation = 1.5 }},
		{"too many iterations", func(s *Set) { s.SmoothIterations = MaxSmoothIterations + 1 }},
	}
	if err := valid.At(50000).Validate(); err != nil {
		t.Fatalf("Validate(default roads) = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid.At(50000)
			tt.mutate(&s)
			if err := s.Validate(); !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	const doc = `
[[scale]]
denominator = 50000

[scale.classes.lakes]
min_area = 1234.5
smooth_iterations = 1

[[scale]]
denominator = 75000

[scale.classes.roads]
min_length = 999.0
`
	tbl, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	lakes, _ := tbl.Get(50000, "lakes")
	def, _ := DefaultTable().Get(50000, "lakes")
	if lakes.MinArea != 1234.5 || lakes.SmoothIterations != 1 {
		t.Errorf("overridden fields = %v/%v, want 1234.5/1", lakes.MinArea, lakes.SmoothIterations)
	}
	if lakes.BufferDistance != def.BufferDistance {
		t.Errorf("BufferDistance = %v, want default %v", lakes.BufferDistance, def.BufferDistance)
	}

	roads, err := tbl.Resolve("roads", 60000)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if roads.MinLength != 999 {
		t.Errorf("MinLength = %v, want 999", roads.MinLength)
	}
	rule, _ := DefaultRule("roads")
	if want := rule.At(75000).DensityRadius; roads.DensityRadius != want {
		t.Errorf("DensityRadius = %v, want rule value %v", roads.DensityRadius, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", "[[scale]\n"},
		{"bad denominator", "[[scale]]\ndenominator = 0\n"},
		{"bad class", "[[scale]]\ndenominator = 50000\n[scale.classes.Lakes]\nmin_area = 1.0\n"},
		{"invalid value", "[[scale]]\ndenominator = 50000\n[scale.classes.lakes]\nmin_area = -1.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.doc)); !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("Load() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}
