package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lexora/casemap/pkg/cache"
	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
	"github.com/lexora/casemap/pkg/observability"
	"github.com/lexora/casemap/pkg/source"
)

// Runner executes pipeline stages with caching.
//
// A Runner holds no per-run state, so one Runner may serve concurrent
// requests with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Source source.Source // optional; required by Load
	Logger *log.Logger

	// LayoutTTL and ArtifactTTL override the default cache lifetimes.
	LayoutTTL   time.Duration
	ArtifactTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// A nil keyer means [cache.DefaultKeyer]; a nil cache disables caching.
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
		Cache:       c,
		Keyer:       keyer,
		Logger:      logger,
		LayoutTTL:   cache.TTLLayout,
		ArtifactTTL: cache.TTLArtifact,
	}
}

// Execute lays out g and renders every requested format.
func (r *Runner) Execute(ctx context.Context, g *mindmap.Graph, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if g == nil {
		g = mindmap.Empty()
	}

	result := &Result{
		GraphHash: mindmap.Hash(g),
		Artifacts: make(map[string][]byte),
	}
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	// Stage 1: Layout
	layoutStart := time.Now()
	positioned, layoutHit, err := r.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = positioned
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 2: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, positioned, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads a case mind map from the runner's source.
func (r *Runner) Load(ctx context.Context, caseID string) (*mindmap.Graph, error) {
	if r.Source == nil {
		return nil, errors.New(errors.ErrCodeUnsupported, "no case source configured")
	}
	g, err := r.Source.Load(ctx, caseID)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded case", "case", caseID, "nodes", g.NodeCount())
	return g, nil
}

// LayoutWithCacheInfo positions g with caching and reports whether the
// result came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, g *mindmap.Graph, opts Options) (*mindmap.Graph, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}
	if g == nil {
		g = mindmap.Empty()
	}
	if opts.MaxNodes > 0 {
		if err := errors.ValidateNodeCount(g.NodeCount(), opts.MaxNodes); err != nil {
			return nil, false, err
		}
	}

	cacheKey := r.Keyer.LayoutKey(mindmap.Hash(g), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := mindmap.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	positioned := ComputeLayout(ctx, g, opts)

	if data, err := mindmap.Marshal(positioned); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.LayoutTTL); err != nil {
			r.Logger.Warn("cache layout", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return positioned, false, nil
}

// Layout is LayoutWithCacheInfo without the cache hit info.
func (r *Runner) Layout(ctx context.Context, g *mindmap.Graph, opts Options) (*mindmap.Graph, error) {
	positioned, _, err := r.LayoutWithCacheInfo(ctx, g, opts)
	return positioned, err
}

// RenderWithCacheInfo renders a positioned graph with caching and reports
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *mindmap.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if g == nil {
		g = mindmap.Empty()
	}

	graphHash := mindmap.Hash(g)
	artifacts := make(map[string][]byte, len(opts.Formats))

	if !opts.Refresh {
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "artifact")
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
			r.Logger.Warn("cache artifact", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return rendered, false, nil
}

// Render is RenderWithCacheInfo without the cache hit info.
func (r *Runner) Render(ctx context.Context, g *mindmap.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner: the cache, and the source
// when it holds a connection.
func (r *Runner) Close() error {
	var err error
	if r.Cache != nil {
		err = r.Cache.Close()
	}
	if c, ok := r.Source.(interface{ Close(context.Context) error }); ok {
		if cerr := c.Close(context.Background()); err == nil {
			err = cerr
		}
	}
	return err
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
