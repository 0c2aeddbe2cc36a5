package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "Move.toml")
	p.OnParseComplete(ctx, "Move.toml", 2, time.Millisecond, nil)
	p.OnResolveStart(ctx, "movey", 2)
	p.OnResolveComplete(ctx, "movey", 2, time.Second, nil)
	p.OnWriteStart(ctx, "Move.lock")
	p.OnWriteComplete(ctx, "Move.lock", 2, time.Millisecond, errors.New("disk full"))

	// Index hooks
	i := NoopIndexHooks{}
	i.OnLookupHit(ctx, "memory")
	i.OnLookupMiss(ctx, "redis")
	i.OnLookupError(ctx, "mongo", errors.New("timeout"))

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "www.movey.net", "/api/v1/packages/info")
	h.OnResponse(ctx, "POST", "www.movey.net", "/api/v1/packages/info", 200, time.Second)
	h.OnError(ctx, "POST", "www.movey.net", "/api/v1/packages/info", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Index().(NoopIndexHooks); !ok {
		t.Error("Index() should return NoopIndexHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customIndex := &testIndexHooks{}
	SetIndexHooks(customIndex)
	if Index() != customIndex {
		t.Error("SetIndexHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Index().(NoopIndexHooks); !ok {
		t.Error("Reset() should restore NoopIndexHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	SetPipelineHooks(nil)
	SetIndexHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
	if _, ok := Index().(NoopIndexHooks); !ok {
		t.Error("SetIndexHooks(nil) should be ignored")
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testIndexHooks struct{ NoopIndexHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
