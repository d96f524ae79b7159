package services

import (
	"context"
	"errors"

	"report2resolve-be/models"
	"report2resolve-be/repository"
	"report2resolve-be/workflow"
)

// DefaultDepartments and DefaultCategories populate an empty database.
var (
	DefaultDepartments = []models.Department{
		{ID: "roads", Name: "Roads & Transport"},
		{ID: "water", Name: "Water Supply"},
		{ID: "sanitation", Name: "Sanitation"},
		{ID: "electricity", Name: "Electricity"},
	}
	DefaultCategories = []models.Category{
		{ID: "pothole", Name: "Pothole"},
		{ID: "leak", Name: "Leakage"},
		{ID: "garbage", Name: "Garbage"},
		{ID: "streetlight", Name: "Street Light"},
		{ID: "other", Name: "Other"},
	}
)

type LookupService struct {
	lookups repository.LookupRepository
}

func NewLookupService(stores repository.Stores) *LookupService {
	return &LookupService{lookups: stores.Lookups}
}

func (s *LookupService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.lookups.Categories(ctx)
}

func (s *LookupService) Departments(ctx context.Context) ([]models.Department, error) {
	return s.lookups.Departments(ctx)
}

// Seed fills the reference tables and status vocabulary with defaults where
// entries are missing.
func Seed(ctx context.Context, stores repository.Stores) error {
	if err := stores.Statuses.Seed(ctx, models.DefaultStatuses); err != nil {
		return err
	}
	if err := stores.Lookups.SeedDepartments(ctx, DefaultDepartments); err != nil {
		return err
	}
	return stores.Lookups.SeedCategories(ctx, DefaultCategories)
}

// EnsureAdmin creates the bootstrap admin account if no account uses email.
func EnsureAdmin(ctx context.Context, stores repository.Stores, name, email, password string, opts ...Option) error {
	if email == "" || password == "" {
		return nil
	}
	o := buildOptions(opts)
	_, err := stores.Users.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, workflow.ErrNotFound) {
		return err
	}
	now := o.now()
	admin := models.User{
		ID:        o.newID(),
		Name:      name,
		Email:     normalizeEmail(email),
		Password:  password,
		Role:      models.RoleAdmin,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := admin.HashPassword(); err != nil {
		return err
	}
	return stores.Users.Create(ctx, &admin)
}
