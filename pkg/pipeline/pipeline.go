// Package pipeline runs the generalization stages of a feature class.
//
// This package composes network building, structure detection, filtering
// and shape generalization into one fixed stage sequence per feature class.
// The CLI and library users go through the same [Runner], so every entry
// point resolves thresholds, caches results and reports failures the same
// way.
//
// # Classes
//
// Each supported class is registered once with its ordered stages:
//
//	lakes, seas, islands          eliminate → generalize
//	watercourses                  build → classify (flow) → filter → smooth_lines
//	roads, railroads              build → classify (undirected) → filter (dead ends) → smooth_lines
//
// An unregistered class fails the run with an UnsupportedFeatureClassError
// before any stage runs.
//
// # Failures
//
// A feature whose geometry cannot be processed, or a network component
// without a well-defined flow direction, does not stop the run. The
// feature is reported in [Result.ItemErrors]; failed polygons are left out
// of the output, ambiguous network components are passed through
// unchanged. Recoverable conditions are returned as [Result.Warnings].
//
// # Usage
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	res, err := runner.Run(ctx, "watercourses", rivers, 50000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, w := range res.Warnings {
//	    fmt.Println(w)
//	}
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	"github.com/matzehuels/cartogen/pkg/geometry"
	"github.com/matzehuels/cartogen/pkg/network"
	"github.com/matzehuels/cartogen/pkg/network/structure"
	"github.com/matzehuels/cartogen/pkg/thresholds"
)

// =============================================================================
// Options - Run Configuration
// =============================================================================

// Options configures a run.
type Options struct {
	// Thresholds is the scale table; nil means thresholds.DefaultTable().
	Thresholds *thresholds.Table

	// Outlets are node IDs ("x,y") treated as outlets in addition to
	// features flagged with the outlet attribute.
	Outlets []string

	// Estimator locates thin parts; nil means geometry.ErosionWidth.
	Estimator geometry.WidthEstimator

	// Refresh skips the cache lookup but still stores the result.
	Refresh bool

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Thresholds == nil {
		o.Thresholds = thresholds.DefaultTable()
	} else if err := o.Thresholds.Validate(); err != nil {
		return err
	}
	for _, id := range o.Outlets {
		if id == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "outlet node ID cannot be empty")
		}
	}
	if o.Estimator == nil {
		o.Estimator = geometry.ErosionWidth{}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Removal records a feature dropped by a stage.
type Removal struct {
	FeatureID string `json:"feature_id"`
	Stage     string `json:"stage"`
	Reason    string `json:"reason"` // "area", "length" or "density"
}

// Result is the outcome of one run.
type Result struct {
	// RunID identifies the run in logs and hooks.
	RunID string

	Class      string
	Scale      float64
	Thresholds thresholds.Set

	// Collection is the generalized output in input order.
	Collection feature.Collection

	Removed    []Removal
	Warnings   []errs.Warning
	ItemErrors []error

	// Graph and Classification are set for network classes. They are nil
	// when the result came from the cache.
	Graph          *network.Graph
	Classification *structure.Classification

	Stats    Stats
	CacheHit bool
}

// StageTiming is the duration and feature counts of one stage.
type StageTiming struct {
	Stage    string
	In, Out  int
	Duration time.Duration
}

// Stats contains run statistics.
type Stats struct {
	FeaturesIn  int
	FeaturesOut int
	Nodes       int
	Edges       int
	Components  int
	Stages      []StageTiming
	Duration    time.Duration
}
