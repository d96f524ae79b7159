package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"report2resolve-be/models"
)

type mongoRequests struct {
	collection *mongo.Collection
}

// NewMongoRequests returns a SignupRequestRepository over the
// "signup_requests" collection.
func NewMongoRequests(db *mongo.Database) SignupRequestRepository {
	return &mongoRequests{collection: db.Collection("signup_requests")}
}

func (r *mongoRequests) Create(ctx context.Context, req *models.SignupRequest) error {
	if _, err := r.collection.InsertOne(ctx, req); err != nil {
		return storageErr("create signup request", "signup request", err)
	}
	return nil
}

func (r *mongoRequests) Get(ctx context.Context, id string) (*models.SignupRequest, error) {
	var req models.SignupRequest
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&req); err != nil {
		return nil, storageErr("get signup request", "signup request", err)
	}
	return &req, nil
}

func (r *mongoRequests) FindPendingByEmail(ctx context.Context, email string) (*models.SignupRequest, error) {
	var req models.SignupRequest
	err := r.collection.FindOne(ctx, bson.M{"email": email, "state": models.DecisionPending}).Decode(&req)
	if err != nil {
		return nil, storageErr("find signup request", "signup request", err)
	}
	return &req, nil
}

func (r *mongoRequests) ListPending(ctx context.Context) ([]models.SignupRequest, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"state": models.DecisionPending}, findOptions)
	if err != nil {
		return nil, storageErr("list signup requests", "signup requests", err)
	}
	defer cursor.Close(ctx)

	requests := []models.SignupRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, storageErr("decode signup requests", "signup requests", err)
	}
	return requests, nil
}

// MarkDecided keeps a rejected request as a PII-free tombstone rather than
// deleting it.
func (r *mongoRequests) MarkDecided(ctx context.Context, id string, outcome models.Outcome, by string, at time.Time) (*models.SignupRequest, error) {
	update := bson.M{
		"$set": bson.M{
			"state":     models.DecisionDecided,
			"outcome":   outcome,
			"decidedBy": by,
			"decidedAt": at,
		},
	}
	if outcome == models.OutcomeReject {
		update["$unset"] = bson.M{"fullName": "", "email": "", "phone": "", "password": ""}
	}

	var before models.SignupRequest
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "state": models.DecisionPending},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.Before),
	).Decode(&before)
	if err == nil {
		return &before, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, storageErr("decide signup request", "signup request", err)
	}

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, storageErr("decide signup request", "signup request", err)
	}
	if count == 0 {
		return nil, notFound("decide signup request", "signup request")
	}
	return nil, conflict("decide signup request", "request already decided")
}

func (r *mongoRequests) Reopen(ctx context.Context, req *models.SignupRequest) error {
	restored := *req
	restored.State = models.DecisionPending
	restored.Outcome = ""
	restored.DecidedBy = ""
	restored.DecidedAt = nil
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": req.ID}, restored)
	if err != nil {
		return storageErr("reopen signup request", "signup request", err)
	}
	return nil
}
