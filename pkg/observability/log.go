package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
// Failures are logged as errors.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks creates hooks that write to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

// Install registers h for every hook category.
func (h *LogHooks) Install() {
	SetPipelineHooks(h)
	SetCacheHooks(h)
	SetJobHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, pages, products int) {
	h.logger.Debug("layout started", "pages", pages, "products", products)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, physicalPages int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("layout failed", "err", err, "duration", d)
		return
	}
	h.logger.Debug("layout complete", "physical_pages", physicalPages, "duration", d)
}

func (h *LogHooks) OnWriteStart(_ context.Context, format string) {
	h.logger.Debug("write started", "format", format)
}

func (h *LogHooks) OnWriteComplete(_ context.Context, format string, size int64, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("write failed", "format", format, "err", err, "duration", d)
		return
	}
	h.logger.Debug("write complete", "format", format, "bytes", size, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnJobCreated(_ context.Context, id string) {
	h.logger.Debug("job created", "job", id)
}

func (h *LogHooks) OnJobFinished(_ context.Context, id, status string, d time.Duration) {
	h.logger.Info("job finished", "job", id, "status", status, "duration", d)
}

func (h *LogHooks) OnJobsPruned(_ context.Context, before, after int) {
	h.logger.Info("jobs pruned", "before", before, "after", after)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "path", path, "status", status, "duration", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ JobHooks      = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
