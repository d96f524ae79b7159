package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"report2resolve-be/models"
)

type mongoIssues struct {
	collection *mongo.Collection
}

// NewMongoIssues returns an IssueRepository over the "issues" collection.
func NewMongoIssues(db *mongo.Database) IssueRepository {
	return &mongoIssues{collection: db.Collection("issues")}
}

func (r *mongoIssues) Create(ctx context.Context, issue *models.Issue) error {
	if _, err := r.collection.InsertOne(ctx, issue); err != nil {
		return storageErr("create issue", "issue", err)
	}
	return nil
}

func (r *mongoIssues) Get(ctx context.Context, id string) (*models.Issue, error) {
	var issue models.Issue
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&issue); err != nil {
		return nil, storageErr("get issue", "issue", err)
	}
	return &issue, nil
}

func (r *mongoIssues) List(ctx context.Context, filter IssueFilter) ([]models.Issue, error) {
	query := bson.M{}
	if filter.CreatedBy != "" {
		query["createdBy"] = filter.CreatedBy
	}
	if filter.DepartmentID != "" {
		query["departmentId"] = filter.DepartmentID
	}
	if len(filter.Categories) > 0 {
		query["status.category"] = bson.M{"$in": filter.Categories}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, storageErr("list issues", "issues", err)
	}
	defer cursor.Close(ctx)

	issues := []models.Issue{}
	if err := cursor.All(ctx, &issues); err != nil {
		return nil, storageErr("decode issues", "issues", err)
	}
	return issues, nil
}

func (r *mongoIssues) ApplyTransition(ctx context.Context, id string, entry models.AuditEntry) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status._id": entry.Previous.ID},
		bson.M{
			"$set":  bson.M{"status": entry.Next, "updatedAt": entry.At},
			"$push": bson.M{"history": entry},
		},
	)
	if err != nil {
		return storageErr("update status", "issue", err)
	}
	if result.MatchedCount == 0 {
		// Either gone or someone else moved it first.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return storageErr("update status", "issue", err)
		}
		if count == 0 {
			return notFound("update status", "issue")
		}
		return conflict("update status", "issue status changed concurrently")
	}
	return nil
}
