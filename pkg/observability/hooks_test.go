package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	l := NoopLayoutHooks{}
	l.OnLayoutStart(ctx, 5)
	l.OnLayoutComplete(ctx, "hierarchical", 3, time.Millisecond)
	l.OnRenderStart(ctx, []string{"svg"})
	l.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/api/scenarios", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Layout() should return NoopLayoutHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	rec := &recordingHooks{}
	SetLayoutHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)
	if Layout() != rec || Cache() != rec || HTTP() != rec {
		t.Error("Set*Hooks should install custom hooks")
	}

	Layout().OnLayoutComplete(context.Background(), "sequential", 2, 0)
	if rec.layouts != 1 {
		t.Errorf("layouts = %d, want 1", rec.layouts)
	}

	Reset()
	if _, ok := Layout().(NoopLayoutHooks); !ok {
		t.Error("Reset() should restore NoopLayoutHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	rec := &recordingHooks{}
	SetLayoutHooks(rec)
	SetLayoutHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	if Layout() != rec {
		t.Error("SetLayoutHooks(nil) should not replace existing hooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) should keep the default")
	}
}

type recordingHooks struct {
	NoopLayoutHooks
	NoopCacheHooks
	NoopHTTPHooks
	layouts int
}

func (r *recordingHooks) OnLayoutComplete(context.Context, string, int, time.Duration) {
	r.layouts++
}
