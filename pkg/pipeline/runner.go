package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/aanbieding/folder/pkg/cache"
	"github.com/aanbieding/folder/pkg/core/plan"
	"github.com/aanbieding/folder/pkg/errors"
	"github.com/aanbieding/folder/pkg/folder"
	"github.com/aanbieding/folder/pkg/observability"
	"github.com/aanbieding/folder/pkg/writer"
)

// Cache key types reported to observability hooks.
const (
	keyTypePlan     = "plan"
	keyTypeArtifact = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, writer and logger; it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner for independent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Writer writer.Writer
	Logger *log.Logger

	// PlanTTL and ArtifactTTL bound cache entry lifetimes.
	PlanTTL     time.Duration
	ArtifactTTL time.Duration

	assembler *plan.Assembler
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If w is nil, the default PDF writer is used.
func NewRunner(c cache.Cache, keyer cache.Keyer, w writer.Writer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if w == nil {
		w = writer.NewPDF(logger)
	}
	return &Runner{
		Cache:       c,
		Keyer:       keyer,
		Writer:      w,
		Logger:      logger,
		PlanTTL:     cache.TTLPlan,
		ArtifactTTL: cache.TTLArtifact,
		assembler:   plan.NewAssembler(logger),
	}
}

// Plan validates req and returns its render plan, from cache when possible.
// req is defaulted in place.
func (r *Runner) Plan(ctx context.Context, req *folder.Request) (*plan.Plan, bool, error) {
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	canonical, err := req.Canonical()
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "canonicalize request")
	}
	key := r.Keyer.PlanKey(cache.Hash(canonical))

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		var cached plan.Plan
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypePlan)
			return &cached, true, nil
		}
		// Undecodable entries fall through to a rebuild.
	} else if err != nil {
		r.Logger.Warn("plan cache read failed", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, keyTypePlan)

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(req.Pages), req.ProductCount())
	start := time.Now()
	p := r.assembler.Assemble(req)
	hooks.OnLayoutComplete(ctx, p.PageCount(), time.Since(start), nil)

	if data, err := json.Marshal(p); err == nil {
		if err := r.Cache.Set(ctx, key, data, r.PlanTTL); err != nil {
			r.Logger.Warn("plan cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypePlan, len(data))
		}
	}
	return p, false, nil
}

// Generate runs the full pipeline and writes the artifact to dst.
func (r *Runner) Generate(ctx context.Context, req *folder.Request, dst string) (*Result, error) {
	layoutStart := time.Now()
	p, planHit, err := r.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Plan:   p,
		Path:   dst,
		Format: r.Writer.Format(),
	}
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LogicalPages = len(req.Pages)
	result.Stats.PhysicalPages = p.PageCount()
	result.Stats.Cards = p.CardCount()
	result.CacheInfo.PlanHit = planHit

	r.Logger.Info("planned folder",
		"pages", result.Stats.LogicalPages,
		"physical", result.Stats.PhysicalPages,
		"cards", result.Stats.Cards,
		"cached", planHit,
		"duration", result.Stats.LayoutTime)

	planData, err := json.Marshal(p)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize plan")
	}
	result.PlanHash = cache.Hash(planData)

	writeStart := time.Now()
	size, artifactHit, err := r.write(ctx, p, result.PlanHash, writer.OptionsFor(req), dst)
	result.Stats.WriteTime = time.Since(writeStart)
	if err != nil {
		return nil, err
	}
	result.Size = size
	result.CacheInfo.ArtifactHit = artifactHit

	r.Logger.Info("wrote folder",
		"path", dst,
		"format", result.Format,
		"kb", result.SizeKB(),
		"cached", artifactHit,
		"duration", result.Stats.WriteTime)
	return result, nil
}

// write renders p with the runner's writer, reusing cached bytes when the
// same plan was written with the same settings before.
func (r *Runner) write(ctx context.Context, p *plan.Plan, planHash string, opts writer.Options, dst string) (int64, bool, error) {
	format := r.Writer.Format()
	key := r.Keyer.ArtifactKey(planHash, cache.ArtifactKeyOpts{
		Format:    string(format),
		ColorMode: string(opts.ColorMode),
		DPI:       opts.DPI,
	})

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
		if err := writer.WriteFile(ctx, writer.Static(format, data), p, opts, dst); err != nil {
			return 0, false, err
		}
		return int64(len(data)), true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)

	hooks := observability.Pipeline()
	hooks.OnWriteStart(ctx, string(format))
	start := time.Now()

	data, err := writer.Bytes(ctx, r.Writer, p, opts)
	if err == nil {
		err = writer.WriteFile(ctx, writer.Static(format, data), p, opts, dst)
	}
	hooks.OnWriteComplete(ctx, string(format), int64(len(data)), time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" && ctx.Err() == nil {
			err = errors.Wrap(errors.ErrCodeWriterFailed, err, "%s writer", format)
		}
		return 0, false, err
	}

	if err := r.Cache.Set(ctx, key, data, r.ArtifactTTL); err != nil {
		r.Logger.Warn("artifact cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return int64(len(data)), false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
