// Package repository persists issues, accounts, signup requests and lookup
// tables. Every store has a MongoDB implementation used in production and an
// in-memory one used by tests and local runs.
package repository

import (
	"context"
	"time"

	"report2resolve-be/models"
)

// IssueFilter narrows an issue listing. Zero fields do not filter.
type IssueFilter struct {
	CreatedBy    string
	DepartmentID string
	Categories   []models.StatusCategory
}

type IssueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	Get(ctx context.Context, id string) (*models.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]models.Issue, error)
	// ApplyTransition persists entry only if the stored status still equals
	// entry.Previous, so two racing transitions cannot both land.
	ApplyTransition(ctx context.Context, id string, entry models.AuditEntry) error
}

type StatusRepository interface {
	List(ctx context.Context) ([]models.Status, error)
	Seed(ctx context.Context, statuses []models.Status) error
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type SignupRequestRepository interface {
	Create(ctx context.Context, req *models.SignupRequest) error
	Get(ctx context.Context, id string) (*models.SignupRequest, error)
	FindPendingByEmail(ctx context.Context, email string) (*models.SignupRequest, error)
	ListPending(ctx context.Context) ([]models.SignupRequest, error)
	// MarkDecided flips a pending request to decided and returns it as it was
	// before the decision. Rejected requests lose their personal fields.
	// Unlike a delete-on-reject store, a scrubbed tombstone stays behind so a
	// repeated decision reports a conflict instead of not found.
	MarkDecided(ctx context.Context, id string, outcome models.Outcome, by string, at time.Time) (*models.SignupRequest, error)
	// Reopen restores a request whose approval could not be completed.
	Reopen(ctx context.Context, req *models.SignupRequest) error
}

type LookupRepository interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Departments(ctx context.Context) ([]models.Department, error)
	DepartmentExists(ctx context.Context, id string) (bool, error)
	SeedDepartments(ctx context.Context, departments []models.Department) error
	SeedCategories(ctx context.Context, categories []models.Category) error
}

// Stores bundles every repository the services need.
type Stores struct {
	Issues   IssueRepository
	Statuses StatusRepository
	Users    UserRepository
	Requests SignupRequestRepository
	Lookups  LookupRepository
}

func categoryIn(c models.StatusCategory, set []models.StatusCategory) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == c {
			return true
		}
	}
	return false
}
