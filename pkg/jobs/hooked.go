package jobs

import (
	"context"

	"github.com/aanbieding/folder/pkg/observability"
)

// WithHooks wraps r so lifecycle transitions are reported to the
// installed observability job hooks.
func WithHooks(r Registry) Registry {
	return hooked{r}
}

type hooked struct {
	Registry
}

func (h hooked) Create(ctx context.Context, filename string) (*Job, error) {
	j, err := h.Registry.Create(ctx, filename)
	if err == nil {
		observability.Jobs().OnJobCreated(ctx, j.ID)
	}
	return j, err
}

func (h hooked) Complete(ctx context.Context, id string, out Outcome) (*Job, error) {
	j, err := h.Registry.Complete(ctx, id, out)
	if err == nil {
		observability.Jobs().OnJobFinished(ctx, j.ID, string(j.Status), j.Duration())
	}
	return j, err
}

func (h hooked) Fail(ctx context.Context, id, message string) (*Job, error) {
	j, err := h.Registry.Fail(ctx, id, message)
	if err == nil {
		observability.Jobs().OnJobFinished(ctx, j.ID, string(j.Status), j.Duration())
	}
	return j, err
}

func (h hooked) Prune(ctx context.Context, keep int) ([]Job, error) {
	before, err := h.Registry.List(ctx)
	if err != nil {
		return nil, err
	}
	removed, err := h.Registry.Prune(ctx, keep)
	if err == nil {
		observability.Jobs().OnJobsPruned(ctx, len(before), len(before)-len(removed))
	}
	return removed, err
}
