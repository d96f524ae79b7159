package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"report2resolve-be/models"
)

type mongoLookups struct {
	categories  *mongo.Collection
	departments *mongo.Collection
}

// NewMongoLookups returns a LookupRepository over the "categories" and
// "departments" collections.
func NewMongoLookups(db *mongo.Database) LookupRepository {
	return &mongoLookups{
		categories:  db.Collection("categories"),
		departments: db.Collection("departments"),
	}
}

func (r *mongoLookups) Categories(ctx context.Context) ([]models.Category, error) {
	out := []models.Category{}
	if err := findAll(ctx, r.categories, &out); err != nil {
		return nil, storageErr("list categories", "categories", err)
	}
	return out, nil
}

func (r *mongoLookups) Departments(ctx context.Context) ([]models.Department, error) {
	out := []models.Department{}
	if err := findAll(ctx, r.departments, &out); err != nil {
		return nil, storageErr("list departments", "departments", err)
	}
	return out, nil
}

func (r *mongoLookups) DepartmentExists(ctx context.Context, id string) (bool, error) {
	count, err := r.departments.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, storageErr("find department", "department", err)
	}
	return count > 0, nil
}

func (r *mongoLookups) SeedDepartments(ctx context.Context, departments []models.Department) error {
	for _, d := range departments {
		if err := upsertNew(ctx, r.departments, d.ID, d); err != nil {
			return storageErr("seed departments", "department", err)
		}
	}
	return nil
}

func (r *mongoLookups) SeedCategories(ctx context.Context, categories []models.Category) error {
	for _, c := range categories {
		if err := upsertNew(ctx, r.categories, c.ID, c); err != nil {
			return storageErr("seed categories", "category", err)
		}
	}
	return nil
}

func findAll(ctx context.Context, c *mongo.Collection, out interface{}) error {
	cursor, err := c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func upsertNew(ctx context.Context, c *mongo.Collection, id string, doc interface{}) error {
	_, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$setOnInsert": doc}, options.Update().SetUpsert(true))
	return err
}
