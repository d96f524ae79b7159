package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"report2resolve-be/models"
)

// NewMemoryStores returns in-memory stores. Issues and users are copied on the
// way in and out so callers never share state with the store.
func NewMemoryStores() Stores {
	return Stores{
		Issues:   &memoryIssues{byID: map[string]models.Issue{}},
		Statuses: &memoryStatuses{},
		Users:    &memoryUsers{byID: map[string]models.User{}},
		Requests: &memoryRequests{byID: map[string]models.SignupRequest{}},
		Lookups:  &memoryLookups{},
	}
}

type memoryIssues struct {
	mu   sync.Mutex
	byID map[string]models.Issue
}

func cloneIssue(i models.Issue) models.Issue {
	i.History = append([]models.AuditEntry(nil), i.History...)
	i.Images = append([]string(nil), i.Images...)
	return i
}

func (r *memoryIssues) Create(_ context.Context, issue *models.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[issue.ID]; ok {
		return conflict("create issue", "issue already exists")
	}
	r.byID[issue.ID] = cloneIssue(*issue)
	return nil
}

func (r *memoryIssues) Get(_ context.Context, id string) (*models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.byID[id]
	if !ok {
		return nil, notFound("get issue", "issue")
	}
	issue = cloneIssue(issue)
	return &issue, nil
}

func (r *memoryIssues) List(_ context.Context, filter IssueFilter) ([]models.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Issue{}
	for _, issue := range r.byID {
		if filter.CreatedBy != "" && (issue.CreatedBy == nil || *issue.CreatedBy != filter.CreatedBy) {
			continue
		}
		if filter.DepartmentID != "" && issue.DepartmentID != filter.DepartmentID {
			continue
		}
		if !categoryIn(issue.Status.Category, filter.Categories) {
			continue
		}
		out = append(out, cloneIssue(issue))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *memoryIssues) ApplyTransition(_ context.Context, id string, entry models.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	issue, ok := r.byID[id]
	if !ok {
		return notFound("update status", "issue")
	}
	if issue.Status.ID != entry.Previous.ID {
		return conflict("update status", "issue status changed concurrently")
	}
	issue = cloneIssue(issue)
	issue.Status = entry.Next
	issue.UpdatedAt = entry.At
	issue.History = append(issue.History, entry)
	r.byID[id] = issue
	return nil
}

type memoryStatuses struct {
	mu       sync.Mutex
	statuses []models.Status
}

func (r *memoryStatuses) List(context.Context) ([]models.Status, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Status{}, r.statuses...), nil
}

func (r *memoryStatuses) Seed(_ context.Context, statuses []models.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
next:
	for _, s := range statuses {
		for _, existing := range r.statuses {
			if existing.ID == s.ID {
				continue next
			}
		}
		r.statuses = append(r.statuses, s)
	}
	return nil
}

type memoryUsers struct {
	mu   sync.Mutex
	byID map[string]models.User
}

func (r *memoryUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, user.Email) {
			return conflict("create user", "user already exists")
		}
	}
	if _, ok := r.byID[user.ID]; ok {
		return conflict("create user", "user already exists")
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *memoryUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, notFound("find user", "user")
}

func (r *memoryUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, notFound("find user", "user")
	}
	return &u, nil
}

type memoryRequests struct {
	mu   sync.Mutex
	byID map[string]models.SignupRequest
}

func (r *memoryRequests) Create(_ context.Context, req *models.SignupRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[req.ID]; ok {
		return conflict("create signup request", "signup request already exists")
	}
	r.byID[req.ID] = *req
	return nil
}

func (r *memoryRequests) Get(_ context.Context, id string) (*models.SignupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, notFound("get signup request", "signup request")
	}
	return &req, nil
}

func (r *memoryRequests) FindPendingByEmail(_ context.Context, email string) (*models.SignupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.byID {
		if req.Pending() && strings.EqualFold(req.Email, email) {
			return &req, nil
		}
	}
	return nil, notFound("find signup request", "signup request")
}

func (r *memoryRequests) ListPending(context.Context) ([]models.SignupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.SignupRequest{}
	for _, req := range r.byID {
		if req.Pending() {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// MarkDecided keeps a rejected request as a PII-free tombstone rather than
// deleting it.
func (r *memoryRequests) MarkDecided(_ context.Context, id string, outcome models.Outcome, by string, at time.Time) (*models.SignupRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.byID[id]
	if !ok {
		return nil, notFound("decide signup request", "signup request")
	}
	if !req.Pending() {
		return nil, conflict("decide signup request", "request already decided")
	}
	before := req

	req.State = models.DecisionDecided
	req.Outcome = outcome
	req.DecidedBy = by
	req.DecidedAt = &at
	if outcome == models.OutcomeReject {
		req.FullName, req.Email, req.Phone, req.Password = "", "", "", ""
	}
	r.byID[id] = req
	return &before, nil
}

func (r *memoryRequests) Reopen(_ context.Context, req *models.SignupRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	restored := *req
	restored.State = models.DecisionPending
	restored.Outcome = ""
	restored.DecidedBy = ""
	restored.DecidedAt = nil
	r.byID[req.ID] = restored
	return nil
}

type memoryLookups struct {
	mu          sync.Mutex
	categories  []models.Category
	departments []models.Department
}

func (r *memoryLookups) Categories(context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.Category{}, r.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryLookups) Departments(context.Context) ([]models.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := append([]models.Department{}, r.departments...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memoryLookups) DepartmentExists(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.departments {
		if d.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryLookups) SeedDepartments(_ context.Context, departments []models.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
next:
	for _, d := range departments {
		for _, existing := range r.departments {
			if existing.ID == d.ID {
				continue next
			}
		}
		r.departments = append(r.departments, d)
	}
	return nil
}

func (r *memoryLookups) SeedCategories(_ context.Context, categories []models.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
next:
	for _, c := range categories {
		for _, existing := range r.categories {
			if existing.ID == c.ID {
				continue next
			}
		}
		r.categories = append(r.categories, c)
	}
	return nil
}
