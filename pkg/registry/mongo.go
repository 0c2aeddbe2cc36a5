package registry

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/movey-network/movey/pkg/deps"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "movey"
	DefaultMongoCollection = "packages"
)

// MongoConfig configures a [MongoIndex].
type MongoConfig struct {
	URI        string
	Database   string // defaults to DefaultMongoDatabase
	Collection string // defaults to DefaultMongoCollection
}

// MongoIndex stores one document per record, unique on scheme.
type MongoIndex struct {
	client *mongo.Client
	coll   *mongo.Collection
}

type mongoRecord struct {
	Scheme        string `bson:"scheme"`
	Name          string `bson:"name"`
	Version       string `bson:"version"`
	RepositoryURL string `bson:"repository_url"`
	Rev           string `bson:"rev"`
}

// NewMongoIndex connects to MongoDB and ensures the scheme index exists.
func NewMongoIndex(ctx context.Context, cfg MongoConfig) (*MongoIndex, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(cfg.Collection)
	_, err = coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "scheme", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("create scheme index: %w", err)
	}
	return &MongoIndex{client: client, coll: coll}, nil
}

func (m *MongoIndex) Get(ctx context.Context, scheme string) (deps.Dependency, bool, error) {
	var rec mongoRecord
	err := m.coll.FindOne(ctx, bson.M{"scheme": scheme}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return deps.Dependency{}, false, nil
	}
	if err != nil {
		return deps.Dependency{}, false, fmt.Errorf("mongo find %s: %w", scheme, err)
	}
	return deps.Dependency{
		Name:          rec.Name,
		Version:       rec.Version,
		RepositoryURL: rec.RepositoryURL,
		Rev:           rec.Rev,
		Scheme:        rec.Scheme,
	}, true, nil
}

func (m *MongoIndex) Put(ctx context.Context, d deps.Dependency) error {
	if d.Scheme == "" {
		return fmt.Errorf("record %q has no scheme", d.Name)
	}
	rec := mongoRecord{
		Scheme:        d.Scheme,
		Name:          d.Name,
		Version:       d.Version,
		RepositoryURL: d.RepositoryURL,
		Rev:           d.Rev,
	}
	_, err := m.coll.ReplaceOne(ctx, bson.M{"scheme": d.Scheme}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo upsert %s: %w", d.Scheme, err)
	}
	return nil
}

func (m *MongoIndex) Name() string { return "mongo" }

func (m *MongoIndex) Close(ctx context.Context) error { return m.client.Disconnect(ctx) }
