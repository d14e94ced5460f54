package store

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/cm2kit/pkg/cache"
	"github.com/matzehuels/cm2kit/pkg/errors"
)

// DefaultDatabase and DefaultCollection locate artifacts when the caller
// does not choose.
const (
	DefaultDatabase   = "cm2kit"
	DefaultCollection = "artifacts"
)

// MongoStore keeps one document per artifact, keyed by name.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and pings the primary.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{client: client, coll: client.Database(database).Collection(collection)}, nil
}

func (s *MongoStore) Put(ctx context.Context, a Artifact) error {
	if err := ValidateName(a.Name); err != nil {
		return err
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": a.Name}, a, options.Replace().SetUpsert(true))
	return err
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Artifact, error) {
	var a Artifact
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&a)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeNotFound, "artifact %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Artifact, error) {
	cur, err := s.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Artifact
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
