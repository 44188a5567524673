package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements every hook interface with Prometheus collectors.
type PrometheusHooks struct {
	layouts        *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	renderDuration *prometheus.HistogramVec
	cacheEvents    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// A nil reg leaves them unregistered, which is convenient in tests.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		layouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scenarioflow_layouts_total",
			Help: "Number of computed layouts by mode.",
		}, []string{"mode"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scenarioflow_layout_duration_seconds",
			Help:    "Time spent computing level assignments.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scenarioflow_render_duration_seconds",
			Help:    "Time spent rendering artifacts.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scenarioflow_cache_events_total",
			Help: "Cache lookups and writes by operation and key kind.",
		}, []string{"op", "kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scenarioflow_http_requests_total",
			Help: "HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scenarioflow_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(h.Collectors()...)
	}
	return h
}

// Collectors returns the underlying collectors.
func (h *PrometheusHooks) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		h.layouts, h.layoutDuration, h.renderDuration,
		h.cacheEvents, h.httpRequests, h.httpDuration,
	}
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, int) {}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, mode string, _ int, d time.Duration) {
	h.layouts.WithLabelValues(mode).Inc()
	h.layoutDuration.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.renderDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, kind string) {
	h.cacheEvents.WithLabelValues("hit", kind).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, kind string) {
	h.cacheEvents.WithLabelValues("miss", kind).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, kind string, _ int) {
	h.cacheEvents.WithLabelValues("set", kind).Inc()
}

func (h *PrometheusHooks) OnRequest(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

var (
	_ LayoutHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)
