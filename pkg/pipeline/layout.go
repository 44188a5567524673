package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/matzehuels/scenarioflow/pkg/cache"
	"github.com/matzehuels/scenarioflow/pkg/diagram"
	"github.com/matzehuels/scenarioflow/pkg/layout"
	"github.com/matzehuels/scenarioflow/pkg/observability"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

const keyTypeLayout = "layout"

// LayoutWithCacheInfo computes the level assignment for s with caching
// and reports whether it came from cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, s *scenario.Scenario, opts Options) (*layout.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)
	hooks := observability.Cache()

	for _, t := range s.DanglingTransitions() {
		logger.Debug("ignoring dangling transition", "from", t.From, "to", t.To)
	}

	cacheKey := r.Keyer.LayoutKey(LayoutHash(s))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Result
			if err := json.Unmarshal(data, &cached); err == nil && cached.Validate(s.States) == nil {
				hooks.OnCacheHit(ctx, keyTypeLayout)
				return &cached, true, nil
			}
			// Fall through and recompute a corrupt or stale entry.
		}
		hooks.OnCacheMiss(ctx, keyTypeLayout)
	}

	res := ComputeLayout(ctx, s)
	if res.IsFallback() && len(s.States) > 0 {
		logger.Warn("no clear root node, using sequential layout",
			"scenario", s.Name,
			"states", len(s.States))
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.LayoutTTL); err == nil {
			hooks.OnCacheSet(ctx, keyTypeLayout, len(data))
		} else {
			logger.Debug("cache write failed", "key", cacheKey, "error", err)
		}
	}

	return res, false, nil
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, s *scenario.Scenario) (*layout.Result, error) {
	res, _, err := r.LayoutWithCacheInfo(ctx, s, Options{})
	return res, err
}

// Diagram computes the layout of s and places it with cfg.
func (r *Runner) Diagram(ctx context.Context, s *scenario.Scenario, cfg diagram.Config) (*diagram.Diagram, error) {
	res, err := r.Layout(ctx, s)
	if err != nil {
		return nil, err
	}
	return diagram.Build(s, res, cfg), nil
}

// ComputeLayout runs the layout engine without caching and emits layout hooks.
func ComputeLayout(ctx context.Context, s *scenario.Scenario) *layout.Result {
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, len(s.States))
	start := time.Now()

	res := layout.Compute(s.States, s.Transitions)

	hooks.OnLayoutComplete(ctx, string(res.Mode), res.Depth(), time.Since(start))
	return res
}
