package pipeline

import (
	"context"

	"github.com/matzehuels/cartogen/pkg/cache"
	errs "github.com/matzehuels/cartogen/pkg/errors"
	"github.com/matzehuels/cartogen/pkg/feature"
	pkgio "github.com/matzehuels/cartogen/pkg/io"
	"github.com/matzehuels/cartogen/pkg/network"
	"github.com/matzehuels/cartogen/pkg/network/structure"
	"github.com/matzehuels/cartogen/pkg/observability"
)

// Network formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// NetworkResult is a built and classified line network.
type NetworkResult struct {
	Graph          *network.Graph
	Classification *structure.Classification
	Warnings       []errs.Warning
	ItemErrors     []error
}

// DOT renders the network as Graphviz DOT, colouring edges by tag.
func (n *NetworkResult) DOT() string {
	return network.ToDOT(n.Graph, network.DOTOptions{Style: structure.Style(n.Classification)})
}

// Network runs the build and classify stages of a network class and
// returns the classified graph without filtering it.
func (r *Runner) Network(ctx context.Context, class string, collection feature.Collection, scale float64) (*NetworkResult, error) {
	p, err := lookup(class)
	if err != nil {
		return nil, err
	}
	if !p.network {
		return nil, errs.New(errs.ErrCodeInvalidInput, "feature class %q is not a line network", class)
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

	st := &state{class: class, set: set, opts: opts, c: collection}
	for _, s := range []stage{{StageBuild, build}, {StageClassify, classify(p.mode)}} {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.run(ctx, st); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInternal, err, "stage %s", s.name)
		}
	}
	opts.Logger.Debug("network classified",
		"class", class,
		"nodes", st.graph.NodeCount(),
		"edges", st.graph.EdgeCount(),
		"components", st.cls.Components)
	return &NetworkResult{
		Graph:          st.graph,
		Classification: st.cls,
		Warnings:       st.warnings,
		ItemErrors:     st.failures,
	}, nil
}

// RenderNetwork classifies the network and renders it as DOT or SVG. The
// rendering is cached. It reports whether the bytes came from the cache.
func (r *Runner) RenderNetwork(ctx context.Context, class string, collection feature.Collection, scale float64, format string) ([]byte, bool, error) {
	if format != FormatDOT && format != FormatSVG {
		return nil, false, errs.New(errs.ErrCodeInvalidInput, "invalid format: %q (must be one of: dot, svg)", format)
	}

	opts := r.Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	set, err := opts.Thresholds.Resolve(class, scale)
	if err != nil {
		return nil, false, err
	}

	var key string
	if data, err := pkgio.Marshal(collection); err == nil {
		key = r.Keyer.NetworkKey(cache.Hash(data), cache.NetworkKeyOpts{
			Class:         class,
			SnapTolerance: set.SnapTolerance,
			Format:        format,
			Outlets:       opts.Outlets,
		})
	}
	if key != "" && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "network")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "network")
	}

	n, err := r.Network(ctx, class, collection, scale)
	if err != nil {
		return nil, false, err
	}
	out := []byte(n.DOT())
	if format == FormatSVG {
		if out, err = network.RenderSVG(ctx, string(out)); err != nil {
			return nil, false, errs.Wrap(errs.ErrCodeInternal, err, "render svg")
		}
	}
	if key != "" {
		if err := r.Cache.Set(ctx, key, out, cache.TTLNetwork); err == nil {
			observability.Cache().OnCacheSet(ctx, "network", len(out))
		}
	}
	return out, false, nil
}
