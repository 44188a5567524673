package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/scenarioflow/pkg/cache"
	"github.com/matzehuels/scenarioflow/pkg/diagram"
	"github.com/matzehuels/scenarioflow/pkg/observability"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

const keyTypeArtifact = "artifact"

// RenderWithCacheInfo renders d in every requested format with caching and
// reports whether all artifacts came from cache. Artifacts are keyed by the
// content hash of s, since labels carry descriptive fields.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s *scenario.Scenario, d *diagram.Diagram, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	logger := r.logger(opts)
	hooks := observability.Cache()

	contentHash, err := ContentHash(s)
	if err != nil {
		return nil, false, fmt.Errorf("hash scenario: %w", err)
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				hooks.OnCacheHit(ctx, keyTypeArtifact)
				artifacts[format] = data
				continue
			}
			hooks.OnCacheMiss(ctx, keyTypeArtifact)
		}
		missing = append(missing, format)
	}

	if len(missing) == 0 {
		return artifacts, true, nil
	}

	layoutHooks := observability.Layout()
	layoutHooks.OnRenderStart(ctx, missing)
	start := time.Now()

	for _, format := range missing {
		data, err := RenderDiagram(ctx, d, format)
		if err != nil {
			layoutHooks.OnRenderComplete(ctx, missing, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data

		key := r.Keyer.ArtifactKey(contentHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err == nil {
			hooks.OnCacheSet(ctx, keyTypeArtifact, len(data))
		} else {
			logger.Debug("cache write failed", "key", key, "error", err)
		}
	}

	layoutHooks.OnRenderComplete(ctx, missing, time.Since(start), nil)
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s *scenario.Scenario, d *diagram.Diagram, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, d, opts)
	return artifacts, err
}

// RenderDiagram produces a single artifact without caching.
func RenderDiagram(ctx context.Context, d *diagram.Diagram, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(d, "", "  ")
	case FormatDOT:
		return []byte(diagram.ToDOT(d)), nil
	case FormatSVG:
		return diagram.RenderSVG(ctx, diagram.ToDOT(d))
	case FormatMermaid:
		return []byte(diagram.ToMermaid(d)), nil
	default:
		return nil, ValidateFormat(format)
	}
}
