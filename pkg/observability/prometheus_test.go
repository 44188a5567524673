package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	h := NewPrometheusHooks(reg)
	ctx := context.Background()

	h.OnLayoutComplete(ctx, "hierarchical", 4, time.Millisecond)
	h.OnLayoutComplete(ctx, "hierarchical", 2, time.Millisecond)
	h.OnLayoutComplete(ctx, "sequential", 1, time.Millisecond)
	h.OnCacheHit(ctx, "layout")
	h.OnCacheMiss(ctx, "artifact")
	h.OnCacheSet(ctx, "artifact", 10)
	h.OnRenderComplete(ctx, []string{"svg"}, time.Second, errors.New("boom"))
	h.OnRequest(ctx, "GET", "/api/scenarios", 200, time.Millisecond)

	if got := testutil.ToFloat64(h.layouts.WithLabelValues("hierarchical")); got != 2 {
		t.Errorf("hierarchical layouts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.layouts.WithLabelValues("sequential")); got != 1 {
		t.Errorf("sequential layouts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.cacheEvents.WithLabelValues("miss", "artifact")); got != 1 {
		t.Errorf("cache misses = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.httpRequests.WithLabelValues("GET", "/api/scenarios", "200")); got != 1 {
		t.Errorf("http requests = %v, want 1", got)
	}

	if n := testutil.CollectAndCount(h.layoutDuration); n != 1 {
		t.Errorf("layout histogram series = %d, want 1", n)
	}
	if _, err := reg.Gather(); err != nil {
		t.Errorf("Gather: %v", err)
	}
}

func TestNewPrometheusHooks_NilRegisterer(t *testing.T) {
	h := NewPrometheusHooks(nil)
	if len(h.Collectors()) != 6 {
		t.Errorf("Collectors() = %d, want 6", len(h.Collectors()))
	}
}
