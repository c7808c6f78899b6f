// Package jobs tracks folder generation jobs.
//
// A [Registry] has an explicit lifecycle: it starts empty when the service
// starts, gains an entry for every submission and loses entries only through
// [Registry.Prune], which keeps the most recent jobs and drops older
// finished ones. Two implementations exist: [Memory] for a single process
// and [Mongo] for a registry that survives restarts and is shared by the CLI
// and the API.
package jobs

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/aanbieding/folder/pkg/errors"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// DefaultKeep is the number of jobs retained by a cleanup pass.
const DefaultKeep = 10

// Job is one generation request and its outcome.
type Job struct {
	ID       string `json:"job_id" bson:"_id"`
	Status   Status `json:"status" bson:"status"`
	Filename string `json:"filename" bson:"filename"`
	Format   string `json:"format,omitempty" bson:"format,omitempty"`
	Path     string `json:"-" bson:"path,omitempty"`
	Size     int64  `json:"size,omitempty" bson:"size,omitempty"`
	Pages    int    `json:"pages,omitempty" bson:"pages,omitempty"`
	Error    string `json:"error,omitempty" bson:"error,omitempty"`

	CreatedAt  time.Time `json:"created_at" bson:"created_at"`
	FinishedAt time.Time `json:"finished_at,omitzero" bson:"finished_at,omitempty"`

	// Seq orders jobs by submission; CreatedAt alone can tie.
	Seq int64 `json:"-" bson:"seq"`
}

// Duration returns how long the job ran, or zero while it is running.
func (j *Job) Duration() time.Duration {
	if j.FinishedAt.IsZero() {
		return 0
	}
	return j.FinishedAt.Sub(j.CreatedAt)
}

// Outcome describes a completed generation.
type Outcome struct {
	Path   string
	Format string
	Size   int64
	Pages  int
}

// Registry stores jobs.
type Registry interface {
	// Create registers a new processing job.
	Create(ctx context.Context, filename string) (*Job, error)
	// Complete marks a job completed.
	Complete(ctx context.Context, id string, out Outcome) (*Job, error)
	// Fail marks a job failed with a message.
	Fail(ctx context.Context, id, message string) (*Job, error)
	// Get returns a job by id.
	Get(ctx context.Context, id string) (*Job, error)
	// List returns all jobs in submission order.
	List(ctx context.Context) ([]Job, error)
	// Prune keeps the newest keep jobs and removes older finished ones.
	// Jobs still processing are never removed. It returns the removed jobs
	// so callers can delete their artifacts.
	Prune(ctx context.Context, keep int) ([]Job, error)
	// Close releases backend resources.
	Close(ctx context.Context) error
}

func newJob(filename string, seq int64) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusProcessing,
		Filename:  filename,
		CreatedAt: time.Now().UTC(),
		Seq:       seq,
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeJobNotFound, "job %s not found", id)
}

// pruneCandidates returns the finished jobs older than the newest keep.
// jobs must be in submission order.
func pruneCandidates(jobs []Job, keep int) []Job {
	if keep < 0 {
		keep = 0
	}
	if len(jobs) <= keep {
		return nil
	}
	var out []Job
	for _, j := range jobs[:len(jobs)-keep] {
		if j.Status.Terminal() {
			out = append(out, j)
		}
	}
	return out
}
