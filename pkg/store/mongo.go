package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/scenarioflow/pkg/cache"
	"github.com/matzehuels/scenarioflow/pkg/errors"
	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "scenarioflow"
	DefaultCollection = "scenarios"
)

// Mongo stores scenarios in a MongoDB collection.
type Mongo struct {
	client *mongo.Client // nil when the caller owns the connection
	coll   *mongo.Collection
}

// NewMongo connects to uri, pings the server (retrying transient failures)
// and ensures the collection indexes exist.
func NewMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(5*time.Second))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		if err := client.Ping(ctx, nil); err != nil {
			return cache.Retryable(errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb"))
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	m := &Mongo{client: client, coll: client.Database(database).Collection(DefaultCollection)}
	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// NewMongoFromCollection wraps an existing collection. Close does not
// disconnect the client, and indexes are left to the caller.
func NewMongoFromCollection(coll *mongo.Collection) *Mongo {
	return &Mongo{coll: coll}
}

// EnsureIndexes creates the lookup indexes and the unique owner/filename index.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "filename", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("userId_filename_unique"),
		},
	})
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func keyFilter(userID, filename string) bson.D {
	return bson.D{{Key: "userId", Value: userID}, {Key: "filename", Value: filename}}
}

func (m *Mongo) List(ctx context.Context, userID string) ([]scenario.Summary, error) {
	cur, err := m.coll.Find(ctx,
		bson.D{{Key: "userId", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}, {Key: "filename", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	defer cur.Close(ctx)

	out := []scenario.Summary{}
	for cur.Next(ctx) {
		var s scenario.Scenario
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode scenario: %w", err)
		}
		out = append(out, s.Summarize())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}
	return out, nil
}

func (m *Mongo) Get(ctx context.Context, userID, filename string) (*scenario.Scenario, error) {
	if err := checkKey(userID, filename); err != nil {
		return nil, err
	}

	var s scenario.Scenario
	err := m.coll.FindOne(ctx, keyFilter(userID, filename)).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("get scenario: %w", err)
	}
	return &s, nil
}

func (m *Mongo) Create(ctx context.Context, s *scenario.Scenario) error {
	if err := checkKey(s.UserID, s.Filename); err != nil {
		return err
	}

	doc := s.Clone()
	doc.ID = uuid.NewString()
	doc.CreatedAt = now()
	doc.UpdatedAt = doc.CreatedAt

	if _, err := m.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return conflict(s.Filename)
		}
		return fmt.Errorf("create scenario: %w", err)
	}
	s.ID, s.CreatedAt, s.UpdatedAt = doc.ID, doc.CreatedAt, doc.UpdatedAt
	return nil
}

func (m *Mongo) Update(ctx context.Context, s *scenario.Scenario) error {
	if err := checkKey(s.UserID, s.Filename); err != nil {
		return err
	}

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: s.Name},
		{Key: "description", Value: s.Description},
		{Key: "roles", Value: s.Roles},
		{Key: "states", Value: s.States},
		{Key: "transitions", Value: s.Transitions},
		{Key: "updatedAt", Value: now()},
	}}}

	var stored scenario.Scenario
	err := m.coll.FindOneAndUpdate(ctx, keyFilter(s.UserID, s.Filename), update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&stored)
	if err == mongo.ErrNoDocuments {
		return notFound(s.Filename)
	}
	if err != nil {
		return fmt.Errorf("update scenario: %w", err)
	}
	*s = stored
	return nil
}

func (m *Mongo) Delete(ctx context.Context, userID, filename string) error {
	if err := checkKey(userID, filename); err != nil {
		return err
	}

	res, err := m.coll.DeleteOne(ctx, keyFilter(userID, filename))
	if err != nil {
		return fmt.Errorf("delete scenario: %w", err)
	}
	if res.DeletedCount == 0 {
		return notFound(filename)
	}
	return nil
}

// Close disconnects the client if the store opened it.
func (m *Mongo) Close() error {
	if m.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
