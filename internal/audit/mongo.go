package audit

import (
	"context"

	"mantisbeanstalk/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSink stores audit records in a collection.
type MongoSink struct {
	coll *mongo.Collection
}

// NewMongoSink returns a sink writing into coll.
func NewMongoSink(coll *mongo.Collection) *MongoSink {
	return &MongoSink{coll: coll}
}

func (s *MongoSink) Record(ctx context.Context, rec models.AuditRecord) error {
	_, err := s.coll.InsertOne(ctx, rec)
	return err
}

// List returns the most recent records, newest first.
func (s *MongoSink) List(ctx context.Context, limit int64) ([]models.AuditRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "receivedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	records := []models.AuditRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}

	return records, nil
}
