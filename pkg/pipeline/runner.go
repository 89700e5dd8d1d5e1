package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cartogen/pkg/cache"
	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	pkgio "github.com/matzehuels/cartogen/pkg/io"
	"github.com/matzehuels/cartogen/pkg/observability"
)

// Runner executes class pipelines with caching.
//
// The Runner is stateless apart from its cache, keyer and logger; it does
// not keep results. Multiple goroutines can use the same Runner for
// different collections.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Options Options
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Run generalizes collection as features of class for the target scale
// denominator. The returned error is set only for run-level failures: an
// unsupported class, invalid options or scale, or a cancelled context.
// Per-feature failures are in [Result.ItemErrors].
func (r *Runner) Run(ctx context.Context, class string, collection feature.Collection, scale float64) (*Result, error) {
	start := time.Now()
	p, err := lookup(class)
	if err != nil {
		return nil, err
	}
	opts := r.Options
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	set, err := opts.Thresholds.Resolve(class, scale)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collection.Class = class
	res := &Result{
		RunID:      uuid.NewString(),
		Class:      class,
		Scale:      scale,
		Thresholds: set,
	}
	res.Stats.FeaturesIn = collection.Len()
	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, res.RunID, class, collection.Len(), scale)

	cacheKey := r.cacheKey(collection, res, opts)
	if cacheKey != "" && !opts.Refresh {
		if r.fromCache(ctx, cacheKey, res) {
			res.Stats.Duration = time.Since(start)
			r.finish(ctx, res, opts.Logger, nil)
			return res, nil
		}
	}

	st := &state{class: class, set: set, opts: opts, c: collection}
	for _, s := range p.stages {
		if err := ctx.Err(); err != nil {
			r.finish(ctx, res, opts.Logger, err)
			return nil, err
		}
		in := st.c.Len()
		stageStart := time.Now()
		if err := s.run(ctx, st); err != nil {
			err = errs.Wrap(errs.ErrCodeInternal, err, "stage %s", s.name)
			r.finish(ctx, res, opts.Logger, err)
			return nil, err
		}
		timing := StageTiming{Stage: s.name, In: in, Out: st.c.Len(), Duration: time.Since(stageStart)}
		res.Stats.Stages = append(res.Stats.Stages, timing)
		hooks.OnStageComplete(ctx, res.RunID, s.name, timing.In, timing.Out, timing.Duration)
		opts.Logger.Debug("stage complete",
			"class", class,
			"stage", s.name,
			"in", timing.In,
			"out", timing.Out,
			"duration", timing.Duration)
	}

	res.Collection = st.c
	res.Removed = st.removed
	res.Warnings = st.warnings
	res.ItemErrors = st.failures
	res.Graph = st.graph
	res.Classification = st.cls
	if st.graph != nil {
		res.Stats.Nodes = st.graph.NodeCount()
		res.Stats.Edges = st.graph.EdgeCount()
	}
	if st.cls != nil {
		res.Stats.Components = st.cls.Components
	}
	res.Stats.FeaturesOut = res.Collection.Len()
	res.Stats.Duration = time.Since(start)

	if cacheKey != "" {
		r.toCache(ctx, cacheKey, res)
	}
	r.finish(ctx, res, opts.Logger, nil)
	return res, nil
}

// finish logs warnings and item errors and reports the end of a run.
func (r *Runner) finish(ctx context.Context, res *Result, logger *log.Logger, err error) {
	for _, w := range res.Warnings {
		logger.Warn(w.Message, "code", w.Code, "feature", w.FeatureID, "stage", w.Stage)
	}
	for _, e := range res.ItemErrors {
		logger.Warn("feature failed", "code", errs.CodeOf(e), "err", e)
	}
	observability.Pipeline().OnRunComplete(ctx, res.RunID, res.Class, observability.RunSummary{
		FeaturesIn:  res.Stats.FeaturesIn,
		FeaturesOut: res.Stats.FeaturesOut,
		Warnings:    len(res.Warnings),
		ItemErrors:  len(res.ItemErrors),
		Duration:    res.Stats.Duration,
		CacheHit:    res.CacheHit,
	}, err)
}

// cacheKey returns the result key of a run, or "" when the collection
// cannot be encoded.
func (r *Runner) cacheKey(c feature.Collection, res *Result, opts Options) string {
	data, err := pkgio.Marshal(c)
	if err != nil {
		return ""
	}
	return r.Keyer.ResultKey(cache.Hash(data), cache.ResultKeyOpts{
		Class:      res.Class,
		Scale:      res.Scale,
		Thresholds: struct {
			Set       any    `json:"set"`
			Estimator string `json:"estimator"`
		}{res.Thresholds, estimatorName(opts)},
		Outlets: opts.Outlets,
	})
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
