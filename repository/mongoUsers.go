package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"report2resolve-be/models"
)

type mongoUsers struct {
	collection *mongo.Collection
}

// NewMongoUsers returns a UserRepository over the "users" collection.
func NewMongoUsers(db *mongo.Database) UserRepository {
	return &mongoUsers{collection: db.Collection("users")}
}

func (r *mongoUsers) Create(ctx context.Context, user *models.User) error {
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return storageErr("create user", "user", err)
	}
	return nil
}

func (r *mongoUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		return nil, storageErr("find user", "user", err)
	}
	return &user, nil
}

func (r *mongoUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user); err != nil {
		return nil, storageErr("find user", "user", err)
	}
	return &user, nil
}

// EnsureUserIndex creates a unique index on email
func EnsureUserIndex(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}

	_, err := db.Collection("users").Indexes().CreateOne(ctx, indexModel)
	return err
}
