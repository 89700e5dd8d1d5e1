package pipeline

import (
	"context"
	"maps"
	"slices"

	"github.com/paulmach/orb"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/filter"
	"github.com/matzehuels/cartogen/pkg/network"
	"github.com/matzehuels/cartogen/pkg/network/structure"
	"github.com/matzehuels/cartogen/pkg/shape"
	"github.com/matzehuels/cartogen/pkg/thresholds"
)

// Stage names.
const (
	StageBuild       = "build"
	StageClassify    = "classify"
	StageFilter      = "filter"
	StageSmoothLines = shape.StageSmoothLines
	StageEliminate   = shape.StageEliminate
	StageGeneralize  = "generalize"
)

// state is the working data of one run, passed from stage to stage.
type state struct {
	class string
	set   thresholds.Set
	opts  Options

	c        feature.Collection
	graph    *network.Graph
	cls      *structure.Classification
	excluded map[string]bool // features of ambiguous components

	removed  []Removal
	warnings []errs.Warning
	failures []error
}

// stage is one step of a class pipeline. An error aborts the run; per
// feature problems are recorded on the state instead.
type stage struct {
	name string
	run  func(ctx context.Context, st *state) error
}

type classPipeline struct {
	network bool
	mode    structure.Mode
	stages  []stage
}

// registry maps each feature class to its stages.
var registry = newRegistry()

func newRegistry() map[string]classPipeline {
	reg := make(map[string]classPipeline)
	for _, class := range shape.Classes() {
		reg[class] = classPipeline{stages: []stage{
			{StageEliminate, eliminate},
			{StageGeneralize, generalize},
		}}
	}
	lines := func(mode structure.Mode, deadEnds bool) classPipeline {
		return classPipeline{network: true, mode: mode, stages: []stage{
			{StageBuild, build},
			{StageClassify, classify(mode)},
			{StageFilter, filterLines(deadEnds)},
			{StageSmoothLines, smoothLines},
		}}
	}
	reg["watercourses"] = lines(structure.ModeFlow, false)
	reg["roads"] = lines(structure.ModeUndirected, true)
	reg["railroads"] = lines(structure.ModeUndirected, true)
	return reg
}

// Classes returns the supported feature classes in sorted order.
func Classes() []string {
	return slices.Sorted(maps.Keys(registry))
}

// IsNetworkClass reports whether class is processed as a line network.
func IsNetworkClass(class string) bool {
	return registry[class].network
}

func lookup(class string) (classPipeline, error) {
	p, ok := registry[class]
	if !ok {
		return classPipeline{}, &errs.UnsupportedFeatureClassError{Class: class, Supported: Classes()}
	}
	return p, nil
}

// =============================================================================
// Polygon stages
// =============================================================================

func generalizer(st *state) (*shape.Generalizer, error) {
	return shape.New(st.class, st.set, shape.WithEstimator(st.opts.Estimator))
}

func eliminate(_ context.Context, st *state) error {
	g, err := generalizer(st)
	if err != nil {
		return err
	}
	var removed []string
	st.c, removed = g.Eliminate(st.c)
	for _, id := range removed {
		st.removed = append(st.removed, Removal{FeatureID: id, Stage: StageEliminate, Reason: "area"})
	}
	return nil
}

func generalize(_ context.Context, st *state) error {
	g, err := generalizer(st)
	if err != nil {
		return err
	}
	var (
		ws       []errs.Warning
		failures []error
	)
	st.c, ws, failures = g.GeneralizeAll(st.c)
	st.warnings = append(st.warnings, ws...)
	st.failures = append(st.failures, failures...)
	return nil
}

// =============================================================================
// Network stages
// =============================================================================

func build(_ context.Context, st *state) error {
	g, ws, failures := network.Build(st.c.Features, st.set.SnapTolerance)
	st.graph = g
	st.warnings = append(st.warnings, ws...)
	st.failures = append(st.failures, failures...)

	if len(failures) > 0 {
		failed := make(map[string]bool, len(failures))
		for _, err := range failures {
			if ie, ok := err.(*errs.ItemError); ok {
				failed[ie.FeatureID] = true
			}
		}
		st.c = st.c.Filter(func(f feature.Feature) bool { return !failed[f.ID] })
	}
	return nil
}

func classify(mode structure.Mode) func(context.Context, *state) error {
	return func(_ context.Context, st *state) error {
		cls, failures := structure.Classify(st.graph, structure.Options{Mode: mode, Outlets: st.opts.Outlets})
		st.cls = cls
		st.excluded = make(map[string]bool)
		for _, err := range failures {
			if ae, ok := err.(*errs.AmbiguousStructureError); ok {
				for _, id := range ae.Features {
					st.excluded[id] = true
				}
			}
			st.failures = append(st.failures, err)
		}
		return nil
	}
}

func filterLines(deadEnds bool) func(context.Context, *state) error {
	return func(_ context.Context, st *state) error {
		opts := []filter.Option{filter.WithExcluded(sortedKeys(st.excluded)...)}
		if deadEnds {
			opts = append(opts, filter.WithDeadEnds(st.graph))
		}
		res := filter.Filter(st.c, st.cls, st.set, opts...)
		st.c = res.Collection
		for _, r := range res.Removed {
			st.removed = append(st.removed, Removal{FeatureID: r.FeatureID, Stage: StageFilter, Reason: string(r.Rule)})
		}
		return nil
	}
}

func smoothLines(_ context.Context, st *state) error {
	var pinned []orb.Point
	for _, id := range st.cls.Outlets {
		if n, ok := st.graph.Node(id); ok {
			pinned = append(pinned, n.Coord)
		}
	}

	work := st.c.Filter(func(f feature.Feature) bool { return !st.excluded[f.ID] })
	for i, f := range work.Features {
		work.Features[i] = snapEndpoints(f, st.graph)
	}
	smoothed, failures := shape.SmoothLines(work, st.set.SmoothIterations, pinned...)
	st.failures = append(st.failures, failures...)

	byID := make(map[string]feature.Feature, smoothed.Len())
	for _, f := range smoothed.Features {
		byID[f.ID] = f
	}
	out := feature.Collection{Class: st.c.Class, Features: make([]feature.Feature, len(st.c.Features))}
	for i, f := range st.c.Features {
		if s, ok := byID[f.ID]; ok {
			f = s
		}
		out.Features[i] = f
	}
	st.c = out
	return nil
}

// snapEndpoints moves the end points of f's line parts onto the nodes the
// builder merged them into, so near-miss junctions become shared
// coordinates in the output.
func snapEndpoints(f feature.Feature, g *network.Graph) feature.Feature {
	eids := g.FeatureEdges(f.ID)
	if len(eids) == 0 {
		return f
	}
	var parts []orb.LineString
	switch geom := f.Geometry.(type) {
	case orb.LineString:
		parts = []orb.LineString{geom.Clone()}
	case orb.MultiLineString:
		parts = []orb.LineString(geom.Clone())
	default:
		return f
	}
	for _, id := range eids {
		e, ok := g.Edge(id)
		if !ok || e.Part >= len(parts) || len(parts[e.Part]) < 2 || len(e.Geometry) < 2 {
			continue
		}
		p := parts[e.Part]
		p[0] = e.Geometry[0]
		p[len(p)-1] = e.Geometry[len(e.Geometry)-1]
	}
	if _, ok := f.Geometry.(orb.LineString); ok {
		return f.WithGeometry(parts[0])
	}
	return f.WithGeometry(orb.MultiLineString(parts))
}

func sortedKeys(m map[string]bool) []string {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, feature.CompareIDs)
	return keys
}
