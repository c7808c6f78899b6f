package jobs

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process registry guarded by a mutex.
type Memory struct {
	mu    sync.RWMutex
	jobs  map[string]*Job
	order []string
	seq   int64
}

// NewMemory creates an empty registry.
func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*Job)}
}

// Create implements Registry.
func (m *Memory) Create(_ context.Context, filename string) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	j := newJob(filename, m.seq)
	m.jobs[j.ID] = j
	m.order = append(m.order, j.ID)
	cp := *j
	return &cp, nil
}

// Complete implements Registry.
func (m *Memory) Complete(_ context.Context, id string, out Outcome) (*Job, error) {
	return m.update(id, func(j *Job) {
		j.Status = StatusCompleted
		j.Path = out.Path
		j.Format = out.Format
		j.Size = out.Size
		j.Pages = out.Pages
		j.Error = ""
	})
}

// Fail implements Registry.
func (m *Memory) Fail(_ context.Context, id, message string) (*Job, error) {
	return m.update(id, func(j *Job) {
		j.Status = StatusFailed
		j.Error = message
	})
}

func (m *Memory) update(id string, fn func(*Job)) (*Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, notFound(id)
	}
	fn(j)
	j.FinishedAt = time.Now().UTC()
	cp := *j
	return &cp, nil
}

// Get implements Registry.
func (m *Memory) Get(_ context.Context, id string) (*Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, notFound(id)
	}
	cp := *j
	return &cp, nil
}

// List implements Registry.
func (m *Memory) List(_ context.Context) ([]Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(), nil
}

func (m *Memory) snapshot() []Job {
	out := make([]Job, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, *m.jobs[id])
	}
	return out
}

// Prune implements Registry.
func (m *Memory) Prune(_ context.Context, keep int) ([]Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := pruneCandidates(m.snapshot(), keep)
	if len(removed) == 0 {
		return nil, nil
	}
	gone := make(map[string]bool, len(removed))
	for _, j := range removed {
		gone[j.ID] = true
		delete(m.jobs, j.ID)
	}
	order := m.order[:0]
	for _, id := range m.order {
		if !gone[id] {
			order = append(order, id)
		}
	}
	m.order = order
	return removed, nil
}

// Close implements Registry.
func (m *Memory) Close(context.Context) error { return nil }

var _ Registry = (*Memory)(nil)
