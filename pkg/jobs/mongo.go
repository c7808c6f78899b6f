package jobs

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aanbieding/folder/pkg/errors"
)

// Defaults for the MongoDB registry.
const (
	DefaultMongoDatabase   = "folder"
	DefaultMongoCollection = "jobs"
)

// MongoOptions configures a MongoDB registry.
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	// Timeout bounds connect and ping. Zero means 10 seconds.
	Timeout time.Duration
}

// Mongo is a registry stored in a MongoDB collection.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and returns a registry backed by the
// configured collection.
func NewMongo(ctx context.Context, opts MongoOptions) (*Mongo, error) {
	if opts.URI == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "mongo uri is required")
	}
	if opts.Database == "" {
		opts.Database = DefaultMongoDatabase
	}
	if opts.Collection == "" {
		opts.Collection = DefaultMongoCollection
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongo")
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}

	coll := client.Database(opts.Database).Collection(opts.Collection)
	_, err = coll.Indexes().CreateOne(cctx, mongo.IndexModel{
		Keys: bson.D{{Key: "seq", Value: 1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create jobs index")
	}
	return &Mongo{client: client, coll: coll}, nil
}

// Create implements Registry.
func (m *Mongo) Create(ctx context.Context, filename string) (*Job, error) {
	j := newJob(filename, time.Now().UnixNano())
	if _, err := m.coll.InsertOne(ctx, j); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "insert job")
	}
	return j, nil
}

// Complete implements Registry.
func (m *Mongo) Complete(ctx context.Context, id string, out Outcome) (*Job, error) {
	return m.update(ctx, id, bson.M{
		"status":      StatusCompleted,
		"path":        out.Path,
		"format":      out.Format,
		"size":        out.Size,
		"pages":       out.Pages,
		"error":       "",
		"finished_at": time.Now().UTC(),
	})
}

// Fail implements Registry.
func (m *Mongo) Fail(ctx context.Context, id, message string) (*Job, error) {
	return m.update(ctx, id, bson.M{
		"status":      StatusFailed,
		"error":       message,
		"finished_at": time.Now().UTC(),
	})
}

func (m *Mongo) update(ctx context.Context, id string, set bson.M) (*Job, error) {
	res, err := m.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "update job %s", id)
	}
	if res.MatchedCount == 0 {
		return nil, notFound(id)
	}
	return m.Get(ctx, id)
}

// Get implements Registry.
func (m *Mongo) Get(ctx context.Context, id string) (*Job, error) {
	var j Job
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&j)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get job %s", id)
	}
	return &j, nil
}

// List implements Registry.
func (m *Mongo) List(ctx context.Context) ([]Job, error) {
	cur, err := m.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list jobs")
	}
	jobs := []Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode jobs")
	}
	return jobs, nil
}

// Prune implements Registry.
func (m *Mongo) Prune(ctx context.Context, keep int) ([]Job, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	removed := pruneCandidates(all, keep)
	if len(removed) == 0 {
		return nil, nil
	}
	ids := make([]string, len(removed))
	for i, j := range removed {
		ids[i] = j.ID
	}
	filter := bson.M{
		"_id":    bson.M{"$in": ids},
		"status": bson.M{"$in": []Status{StatusCompleted, StatusFailed}},
	}
	if _, err := m.coll.DeleteMany(ctx, filter); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "prune jobs")
	}
	return removed, nil
}

// Close implements Registry.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Registry = (*Mongo)(nil)
