package source

import (
	"context"
	stderrors "errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lexora/casemap/pkg/errors"
	"github.com/lexora/casemap/pkg/mindmap"
)

// Default collection layout of the assistant database.
const (
	DefaultDatabase   = "lexora"
	DefaultCollection = "threads"
)

// MongoConfig configures a MongoSource.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoSource reads the mindMap field of case thread documents.
// It never writes.
type MongoSource struct {
	client *mongo.Client
	coll   finder
}

// finder is the part of *mongo.Collection a MongoSource queries.
type finder interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) *mongo.SingleResult
}

// thread is the subset of a case thread document this package reads.
type thread struct {
	ID      string         `bson:"id"`
	MindMap *mindmap.Graph `bson:"mindMap"`
}

// NewMongoSource connects to MongoDB and verifies the connection.
func NewMongoSource(ctx context.Context, cfg MongoConfig) (*MongoSource, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongo")
	}
	return &MongoSource{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Load finds the thread whose id is caseID. A thread without a mind map
// yields the empty graph.
func (s *MongoSource) Load(ctx context.Context, caseID string) (*mindmap.Graph, error) {
	if err := errors.ValidateCaseID(caseID); err != nil {
		return nil, err
	}
	var doc thread
	opts := options.FindOne().SetProjection(bson.M{"id": 1, "mindMap": 1})
	err := s.coll.FindOne(ctx, bson.M{"id": caseID}, opts).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, errors.New(errors.ErrCodeCaseNotFound, "case %q not found", caseID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "load case %q", caseID)
	}
	return normalize(doc.MindMap), nil
}

// Close disconnects the client.
func (s *MongoSource) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

var _ Source = (*MongoSource)(nil)
