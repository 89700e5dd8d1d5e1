package structure

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/paulmach/orb"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/network"
)

func line(id string, pts ...orb.Point) feature.Feature {
	return feature.Feature{ID: id, Geometry: orb.LineString(pts), Attributes: map[string]any{}}
}

func outlet(f feature.Feature) feature.Feature {
	f.Attributes[feature.AttrOutlet] = true
	return f
}

func build(t *testing.T, tol float64, lines ...feature.Feature) *network.Graph {
	t.Helper()
	g, _, failures := network.Build(lines, tol)
	if len(failures) != 0 {
		t.Fatalf("Build() failures = %v", failures)
	}
	return g
}

// yNetwork: main channel of length 200 draining to (200,0), with
// tributaries of length 50 and 30 meeting at the origin.
func yNetwork(withOutlet bool) []feature.Feature {
	main := line("1", orb.Point{0, 0}, orb.Point{200, 0})
	if withOutlet {
		main = outlet(main)
	}
	return []feature.Feature{
		main,
		line("2", orb.Point{-30, 40}, orb.Point{0, 0}),
		line("3", orb.Point{-18, -24}, orb.Point{0.2, 0.1}),
	}
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestClassifyFlowMainStem(t *testing.T) {
	for _, withOutlet := range []bool{true, false} {
		g := build(t, 0.5, yNetwork(withOutlet)...)
		c, failures := Classify(g, Options{Mode: ModeFlow})
		if len(failures) != 0 {
			t.Fatalf("Classify() failures = %v", failures)
		}

		tests := []struct {
			edge     string
			tag      Tag
			order    int
			upstream float64
		}{
			{network.PairID("0,0", "200,0"), TagMain, 1, 280},
			{network.PairID("-30,40", "0,0"), TagMain, 1, 50},
			{network.PairID("-18,-24", "0,0"), TagTributary, 2, 30},
		}
		for _, tt := range tests {
			got, ok := c.Edges[tt.edge]
			if !ok {
				t.Errorf("edge %s not classified", tt.edge)
				continue
			}
			if got.Tag != tt.tag || got.Order != tt.order {
				t.Errorf("edge %s = %s/%d, want %s/%d", tt.edge, got.Tag, got.Order, tt.tag, tt.order)
			}
			if !approx(got.Upstream, tt.upstream) {
				t.Errorf("edge %s upstream = %v, want %v", tt.edge, got.Upstream, tt.upstream)
			}
		}

		if d := c.Edges[network.PairID("0,0", "200,0")].Downstream; d != "200,0" {
			t.Errorf("main downstream = %q, want 200,0", d)
		}
		if diff := cmp.Diff([]string{"200,0"}, c.Outlets); diff != "" {
			t.Errorf("Outlets mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"0,0"}, c.Confluences); diff != "" {
			t.Errorf("Confluences mismatch (-want +got):\n%s", diff)
		}
		if !c.IsMain("1") || !c.IsMain("2") || c.IsMain("3") {
			t.Errorf("IsMain = %v/%v/%v, want true/true/false", c.IsMain("1"), c.IsMain("2"), c.IsMain("3"))
		}
		if tag := c.FeatureTag("3"); tag != TagTributary {
			t.Errorf("FeatureTag(3) = %q, want %q", tag, TagTributary)
		}
	}
}

func TestClassifyFlowDeterministic(t *testing.T) {
	in := yNetwork(true)
	a, _ := Classify(build(t, 0.5, in...), Options{})
	b, _ := Classify(build(t, 0.5, in[2], in[0], in[1]), Options{})
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("classification differs with input order (-first +second):\n%s", diff)
	}
}

func TestClassifyFlowTieBreak(t *testing.T) {
	// Two equally long tributaries; the smaller edge ID continues the stem.
	g := build(t, 0.5,
		outlet(line("1", orb.Point{0, 0}, orb.Point{100, 0})),
		line("2", orb.Point{-30, 40}, orb.Point{0, 0}),
		line("3", orb.Point{-30, -40}, orb.Point{0, 0}),
	)
	c, _ := Classify(g, Options{})
	lower, upper := network.PairID("-30,-40", "0,0"), network.PairID("-30,40", "0,0")
	if c.Tag(lower) != TagMain || c.Tag(upper) != TagTributary {
		t.Errorf("tags = %s/%s, want main/tributary", c.Tag(lower), c.Tag(upper))
	}
}

func TestClassifyFlowCycle(t *testing.T) {
	g := build(t, 0.5,
		line("1", orb.Point{0, 0}, orb.Point{10, 0}),
		line("2", orb.Point{10, 0}, orb.Point{5, 8}),
		line("3", orb.Point{5, 8}, orb.Point{0, 0}),
		outlet(line("4", orb.Point{100, 0}, orb.Point{110, 0})),
	)
	c, failures := Classify(g, Options{})
	if len(failures) != 1 {
		t.Fatalf("Classify() failures = %v, want 1", failures)
	}
	var amb *errs.AmbiguousStructureError
	if !errors.As(failures[0], &amb) {
		t.Fatalf("failure %T is not *AmbiguousStructureError", failures[0])
	}
	if amb.Reason != "cycle" || amb.Component != 0 {
		t.Errorf("failure = %+v, want cycle in component 0", amb)
	}
	if diff := cmp.Diff([]string{"1", "2", "3"}, amb.Features); diff != "" {
		t.Errorf("Features mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"0,0", "10,0", "5,8"}, amb.Nodes); diff != "" {
		t.Errorf("Nodes mismatch (-want +got):\n%s", diff)
	}
	if errs.CodeOf(failures[0]) != errs.ErrCodeAmbiguousStructure {
		t.Errorf("CodeOf() = %v, want %v", errs.CodeOf(failures[0]), errs.ErrCodeAmbiguousStructure)
	}

	if c.FeatureTag("1") != "" {
		t.Errorf("FeatureTag(1) = %q, want unclassified", c.FeatureTag("1"))
	}
	if c.FeatureTag("4") != TagMain {
		t.Errorf("FeatureTag(4) = %q, want main", c.FeatureTag("4"))
	}
	if c.Components != 2 {
		t.Errorf("Components = %d, want 2", c.Components)
	}
}

func TestClassifyFlowOutletErrors(t *testing.T) {
	tests := []struct {
		name   string
		lines  []feature.Feature
		opts   Options
		reason string
	}{
		{
			name: "two sinks",
			lines: []feature.Feature{
				line("1", orb.Point{0, 0}, orb.Point{10, 0}),
				line("2", orb.Point{0, 0}, orb.Point{-10, 0}),
			},
			reason: "no outlet",
		},
		{
			name: "no receiving end",
			lines: []feature.Feature{
				line("1", orb.Point{10, 0}, orb.Point{0, 0}),
				line("2", orb.Point{-10, 0}, orb.Point{0, 0}),
				line("3", orb.Point{0, 10}, orb.Point{0, 0}),
			},
			reason: "no outlet",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, failures := Classify(build(t, 0.5, tt.lines...), tt.opts)
			if len(failures) != 1 {
				t.Fatalf("Classify() failures = %v, want 1", failures)
			}
			if !strings.Contains(failures[0].Error(), tt.reason) {
				t.Errorf("Classify() error = %q, want reason %q", failures[0], tt.reason)
			}
		})
	}
}

func TestClassifyFlowTributaryConfluence(t *testing.T) {
	// Tributary 3 joins the trunk at the origin and itself receives
	// edges 4 (40) and 5 (20) at (0,50).
	g := build(t, 0.5,
		outlet(line("1", orb.Point{0, 0}, orb.Point{100, 0})),
		line("2", orb.Point{-200, 0}, orb.Point{0, 0}),
		line("3", orb.Point{0, 50}, orb.Point{0, 0}),
		line("4", orb.Point{-40, 50}, orb.Point{0, 50}),
		line("5", orb.Point{0, 70}, orb.Point{0, 50}),
	)
	c, failures := Classify(g, Options{})
	if len(failures) != 0 {
		t.Fatalf("Classify() failures = %v", failures)
	}

	want := map[string]FeatureInfo{
		"1": {Tag: TagMain, Order: 1, Upstream: 410},
		"2": {Tag: TagMain, Order: 1, Upstream: 200},
		"3": {Tag: TagTributary, Order: 2, Upstream: 110},
		"4": {Tag: TagMain, Order: 2, Upstream: 40},
		"5": {Tag: TagTributary, Order: 3, Upstream: 20},
	}
	if diff := cmp.Diff(want, c.Features); diff != "" {
		t.Errorf("Features mismatch (-want +got):\n%s", diff)
	}
}

func TestClassifyFlowMultipleOutlets(t *testing.T) {
	// A river splitting into two mouths at the origin.
	g := build(t, 0.5,
		line("1", orb.Point{-100, 0}, orb.Point{0, 0}),
		outlet(line("2", orb.Point{0, 0}, orb.Point{30, 40})),
		outlet(line("3", orb.Point{0, 0}, orb.Point{30, -40})),
	)
	c, failures := Classify(g, Options{})
	if len(failures) != 0 {
		t.Fatalf("Classify() failures = %v, want none", failures)
	}

	want := map[string]FeatureInfo{
		"1": {Tag: TagMain, Order: 1, Upstream: 100},
		"2": {Tag: TagMain, Order: 1, Upstream: 50},
		"3": {Tag: TagMain, Order: 1, Upstream: 150},
	}
	if diff := cmp.Diff(want, c.Features); diff != "" {
		t.Errorf("Features mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"30,-40", "30,40"}, c.Outlets); diff != "" {
		t.Errorf("Outlets mismatch (-want +got):\n%s", diff)
	}
	if d := c.Edges[network.PairID("-100,0", "0,0")].Downstream; d != "0,0" {
		t.Errorf("edge 1 downstream = %q, want 0,0", d)
	}
}

func TestClassifyFlowDesignatedOutletJoinsFlagged(t *testing.T) {
	c, failures := Classify(build(t, 0.5, yNetwork(true)...), Options{Outlets: []string{"-30,40"}})
	if len(failures) != 0 {
		t.Fatalf("Classify() failures = %v, want none", failures)
	}
	if diff := cmp.Diff([]string{"-30,40", "200,0"}, c.Outlets); diff != "" {
		t.Errorf("Outlets mismatch (-want +got):\n%s", diff)
	}
	if len(c.Edges) != 3 {
		t.Errorf("classified %d edges, want 3", len(c.Edges))
	}
}

func TestClassifyLoneEdge(t *testing.T) {
	g := build(t, 0.5, line("1", orb.Point{0, 0}, orb.Point{10, 0}))

	c, _ := Classify(g, Options{})
	if c.FeatureTag("1") != TagIsolated {
		t.Errorf("FeatureTag() = %q, want %q", c.FeatureTag("1"), TagIsolated)
	}

	c, _ = Classify(g, Options{Outlets: []string{"10,0"}})
	if c.FeatureTag("1") != TagMain {
		t.Errorf("FeatureTag() with outlet = %q, want %q", c.FeatureTag("1"), TagMain)
	}

	c, _ = Classify(g, Options{Mode: ModeUndirected})
	if c.FeatureTag("1") != TagIsolated {
		t.Errorf("FeatureTag() undirected = %q, want %q", c.FeatureTag("1"), TagIsolated)
	}
}

func roadGrid() []feature.Feature {
	return []feature.Feature{
		line("1", orb.Point{0, 0}, orb.Point{10, 0}),
		line("2", orb.Point{10, 0}, orb.Point{10, 10}),
		line("3", orb.Point{10, 10}, orb.Point{0, 10}),
		line("4", orb.Point{0, 10}, orb.Point{0, 0}),
		line("5", orb.Point{10, 10}, orb.Point{30, 10}),
		line("6", orb.Point{10, 0}, orb.Point{10, -3}),
		line("7", orb.Point{10, -3}, orb.Point{12, -3}),
	}
}

func TestClassifyUndirected(t *testing.T) {
	g := build(t, 1, roadGrid()...)
	c, failures := Classify(g, Options{Mode: ModeUndirected})
	if len(failures) != 0 {
		t.Fatalf("Classify() failures = %v, want none for a cyclic road network", failures)
	}

	want := map[string]FeatureInfo{
		"1": {Tag: TagTributary, Order: 2, Upstream: 10},
		"2": {Tag: TagTributary, Order: 2, Upstream: 10},
		"3": {Tag: TagMain, Order: 1, Upstream: 10},
		"4": {Tag: TagMain, Order: 1, Upstream: 10},
		"5": {Tag: TagMain, Order: 1, Upstream: 20},
		"6": {Tag: TagTributary, Order: 3, Upstream: 3},
		"7": {Tag: TagTributary, Order: 4, Upstream: 2},
	}
	if diff := cmp.Diff(want, c.Features); diff != "" {
		t.Errorf("Features mismatch (-want +got):\n%s", diff)
	}
	for id, info := range c.Edges {
		if info.Downstream != "" {
			t.Errorf("edge %s has downstream %q in undirected mode", id, info.Downstream)
		}
	}
}

func TestStyle(t *testing.T) {
	g := build(t, 0.5, yNetwork(true)...)
	c, _ := Classify(g, Options{})
	dot := network.ToDOT(g, network.DOTOptions{Style: Style(c)})
	for _, want := range []string{`"0,0" -> "200,0"`, `label="3 (2)"`, `color="#1f4e9c"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q:\n%s", want, dot)
		}
	}
}
