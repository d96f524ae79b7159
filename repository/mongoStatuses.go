package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"report2resolve-be/models"
)

type mongoStatuses struct {
	collection *mongo.Collection
}

// NewMongoStatuses returns a StatusRepository over the "issue_status" collection.
func NewMongoStatuses(db *mongo.Database) StatusRepository {
	return &mongoStatuses{collection: db.Collection("issue_status")}
}

func (r *mongoStatuses) List(ctx context.Context) ([]models.Status, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, storageErr("list statuses", "statuses", err)
	}
	defer cursor.Close(ctx)

	statuses := []models.Status{}
	if err := cursor.All(ctx, &statuses); err != nil {
		return nil, storageErr("decode statuses", "statuses", err)
	}
	return statuses, nil
}

// Seed inserts statuses that are missing and leaves existing ones alone.
func (r *mongoStatuses) Seed(ctx context.Context, statuses []models.Status) error {
	for _, s := range statuses {
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": s.ID},
			bson.M{"$setOnInsert": s},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return storageErr("seed statuses", "status", err)
		}
	}
	return nil
}
