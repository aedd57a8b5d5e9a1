package subscription

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nftrelay/pkg/metrics"
	"nftrelay/pkg/retry"
)

type destinationDocument struct {
	Destination string    `bson:"_id"`
	Collections []string  `bson:"collections"`
	Locale      string    `bson:"locale"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// MongoPersister keeps one document per destination, keyed by _id.
type MongoPersister struct {
	collection *mongo.Collection
	policy     retry.Policy
}

func NewMongoPersister(db *mongo.Database, collectionName string, policy retry.Policy) *MongoPersister {
	return &MongoPersister{
		collection: db.Collection(collectionName),
		policy:     policy,
	}
}

func (p *MongoPersister) Load(ctx context.Context) (State, error) {
	start := time.Now()
	cursor, err := p.collection.Find(ctx, bson.M{})
	if err != nil {
		metrics.ObserveDatabaseQuery("mongodb", "load", "error", time.Since(start))
		return nil, fmt.Errorf("failed to find destinations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []destinationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}
	metrics.ObserveDatabaseQuery("mongodb", "load", "ok", time.Since(start))

	state := make(State, len(docs))
	for _, doc := range docs {
		state[doc.Destination] = Record{Collections: doc.Collections, Locale: doc.Locale}
	}
	return state, nil
}

func (p *MongoPersister) Put(ctx context.Context, destination string, record Record) error {
	collections := record.Collections
	if collections == nil {
		collections = []string{}
	}
	doc := destinationDocument{
		Destination: destination,
		Collections: collections,
		Locale:      record.Locale,
		UpdatedAt:   time.Now().UTC(),
	}

	return p.exec(ctx, "put", func() error {
		_, err := p.collection.ReplaceOne(ctx, bson.M{"_id": destination}, doc, options.Replace().SetUpsert(true))
		return err
	})
}

func (p *MongoPersister) Delete(ctx context.Context, destination string) error {
	return p.exec(ctx, "delete", func() error {
		_, err := p.collection.DeleteOne(ctx, bson.M{"_id": destination})
		return err
	})
}

func (p *MongoPersister) exec(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()
	err := retry.RetryWithCallback(ctx, p.policy, fn, func(attempt int, err error, _ time.Duration) {
		metrics.RetryAttemptsTotal.WithLabelValues("subscriptions", "mongodb_"+operation).Inc()
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ObserveDatabaseQuery("mongodb", operation, status, time.Since(start))

	if err != nil {
		return fmt.Errorf("mongodb %s failed: %w", operation, err)
	}
	return nil
}
