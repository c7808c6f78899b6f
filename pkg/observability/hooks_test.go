package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLayoutStart(ctx, 2, 12)
	p.OnLayoutComplete(ctx, 3, time.Second, nil)
	p.OnWriteStart(ctx, "pdf")
	p.OnWriteComplete(ctx, "pdf", 2048, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "plan")
	c.OnCacheMiss(ctx, "plan")
	c.OnCacheSet(ctx, "artifact", 1024)

	j := NoopJobHooks{}
	j.OnJobCreated(ctx, "id")
	j.OnJobFinished(ctx, "id", "completed", time.Second)
	j.OnJobsPruned(ctx, 12, 10)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/api/generate")
	h.OnResponse(ctx, "POST", "/api/generate", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Jobs().(NoopJobHooks); !ok {
		t.Error("Jobs() should return NoopJobHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customJobs := &testJobHooks{}
	SetJobHooks(customJobs)
	if Jobs() != customJobs {
		t.Error("SetJobHooks should set custom hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)
	hooks := NewLogHooks(logger)
	hooks.Install()

	ctx := context.Background()
	Pipeline().OnLayoutComplete(ctx, 3, time.Millisecond, nil)
	Pipeline().OnWriteComplete(ctx, "pdf", 10, time.Millisecond, errors.New("disk full"))
	Jobs().OnJobsPruned(ctx, 12, 10)

	out := buf.String()
	for _, want := range []string{"layout complete", "write failed", "disk full", "jobs pruned"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testJobHooks struct{ NoopJobHooks }
