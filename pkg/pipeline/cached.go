package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/cartogen/pkg/cache"
	errs "github.com/matzehuels/cartogen/pkg/errors"
	pkgio "github.com/matzehuels/cartogen/pkg/io"
	"github.com/matzehuels/cartogen/pkg/observability"
)

// cachedResult is the stored form of a Result.
type cachedResult struct {
	Collection json.RawMessage `json:"collection"`
	Removed    []Removal       `json:"removed,omitempty"`
	Warnings   []errs.Warning  `json:"warnings,omitempty"`
	Errors     []errorRecord   `json:"errors,omitempty"`
	Nodes      int             `json:"nodes,omitempty"`
	Edges      int             `json:"edges,omitempty"`
	Components int             `json:"components,omitempty"`
}

// errorRecord is a serializable item error or ambiguous component.
type errorRecord struct {
	FeatureID string   `json:"feature_id,omitempty"`
	Stage     string   `json:"stage,omitempty"`
	Code      string   `json:"code"`
	Message   string   `json:"message"`
	Component *int     `json:"component,omitempty"`
	Nodes     []string `json:"nodes,omitempty"`
	Features  []string `json:"features,omitempty"`
}

func recordOf(err error) errorRecord {
	var ae *errs.AmbiguousStructureError
	if errors.As(err, &ae) {
		comp := ae.Component
		return errorRecord{
			Code:      string(errs.ErrCodeAmbiguousStructure),
			Message:   ae.Reason,
			Component: &comp,
			Nodes:     ae.Nodes,
			Features:  ae.Features,
		}
	}
	rec := errorRecord{Code: string(errs.CodeOf(err)), Message: err.Error()}
	var ie *errs.ItemError
	if errors.As(err, &ie) {
		rec.FeatureID = ie.FeatureID
		rec.Stage = ie.Stage
		rec.Code = string(errs.CodeOf(ie.Err))
		rec.Message = strings.TrimPrefix(ie.Err.Error(), rec.Code+": ")
	}
	return rec
}

func (rec errorRecord) err() error {
	if rec.Component != nil {
		return &errs.AmbiguousStructureError{
			Component: *rec.Component,
			Nodes:     rec.Nodes,
			Features:  rec.Features,
			Reason:    rec.Message,
		}
	}
	inner := errs.New(errs.Code(rec.Code), "%s", rec.Message)
	if rec.FeatureID == "" {
		return inner
	}
	return &errs.ItemError{FeatureID: rec.FeatureID, Stage: rec.Stage, Err: inner}
}

// fromCache fills res from the entry under key. It reports false on a miss
// or an unreadable entry.
func (r *Runner) fromCache(ctx context.Context, key string, res *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "result")
		return false
	}
	var cr cachedResult
	if err := json.Unmarshal(data, &cr); err != nil {
		observability.Cache().OnCacheMiss(ctx, "result")
		return false
	}
	c, err := pkgio.Unmarshal(cr.Collection, "")
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "result")
		return false
	}
	observability.Cache().OnCacheHit(ctx, "result")

	c.Class = res.Class
	res.Collection = c
	res.Removed = cr.Removed
	res.Warnings = cr.Warnings
	for _, rec := range cr.Errors {
		res.ItemErrors = append(res.ItemErrors, rec.err())
	}
	res.Stats.FeaturesOut = c.Len()
	res.Stats.Nodes = cr.Nodes
	res.Stats.Edges = cr.Edges
	res.Stats.Components = cr.Components
	res.CacheHit = true
	return true
}

// toCache stores res under key. Failures only cost the next run a
// recomputation and are ignored.
func (r *Runner) toCache(ctx context.Context, key string, res *Result) {
	coll, err := pkgio.Marshal(res.Collection)
	if err != nil {
		return
	}
	cr := cachedResult{
		Collection: coll,
		Removed:    res.Removed,
		Warnings:   res.Warnings,
		Nodes:      res.Stats.Nodes,
		Edges:      res.Stats.Edges,
		Components: res.Stats.Components,
	}
	for _, e := range res.ItemErrors {
		cr.Errors = append(cr.Errors, recordOf(e))
	}
	data, err := json.Marshal(cr)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLResult); err == nil {
		observability.Cache().OnCacheSet(ctx, "result", len(data))
	}
}

func estimatorName(opts Options) string {
	return fmt.Sprintf("%T%+v", opts.Estimator, opts.Estimator)
}
