package jobs

import (
	"context"

	"github.com/aanbieding/folder/pkg/errors"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
)

// Options selects and configures a registry backend.
type Options struct {
	Backend string
	Mongo   MongoOptions
}

// Open returns the registry named by opts.Backend. An empty backend means
// memory.
func Open(ctx context.Context, opts Options) (Registry, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendMongo:
		r, err := NewMongo(ctx, opts.Mongo)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown jobs backend %q", opts.Backend)
	}
}
