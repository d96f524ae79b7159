package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"report2resolve-be/models"
	"report2resolve-be/repository"
	"report2resolve-be/workflow"
)

const (
	// DefaultLocationID is used when a report does not name a location.
	DefaultLocationID = "unspecified"

	guestRemark      = "Submitted by guest"
	citizenRemark    = "Submitted by citizen"
	departmentRemark = "Status updated by department"
)

type CreateIssueInput struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Description  string   `json:"description" binding:"required,max=1000"`
	CategoryID   string   `json:"category_id" binding:"required"`
	DepartmentID string   `json:"department_id" binding:"required"`
	LocationID   string   `json:"location_id"`
	Remarks      string   `json:"remarks" binding:"max=500"`
	Images       []string `json:"images" binding:"max=5,dive,url"`
}

type UpdateStatusInput struct {
	StatusID string `json:"status_id" binding:"required"`
	Remarks  string `json:"remarks" binding:"max=500"`
}

type IssueService struct {
	issues   repository.IssueRepository
	statuses repository.StatusRepository
	lookups  repository.LookupRepository
	opts     options
}

func NewIssueService(stores repository.Stores, opts ...Option) *IssueService {
	return &IssueService{
		issues:   stores.Issues,
		statuses: stores.Statuses,
		lookups:  stores.Lookups,
		opts:     buildOptions(opts),
	}
}

// Statuses returns the status vocabulary.
func (s *IssueService) Statuses(ctx context.Context) ([]models.Status, error) {
	return s.statuses.List(ctx)
}

// Create files a new issue in the submitted state. A nil or anonymous actor
// files it as a guest.
func (s *IssueService) Create(ctx context.Context, actor *models.Principal, in CreateIssueInput) (*models.Issue, error) {
	const op = "create issue"

	var createdBy *string
	remark := guestRemark
	switch {
	case actor == nil || actor.Role == models.RoleAnonymous:
	case actor.Authenticated() && actor.Role == models.RoleCitizen:
		id := actor.ID
		createdBy = &id
		remark = citizenRemark
	default:
		return nil, workflow.E(workflow.KindAuthorization, op, "only citizens and guests can report issues")
	}

	if err := validateIssue(in); err != nil {
		return nil, err
	}
	exists, err := s.lookups.DepartmentExists(ctx, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, workflow.E(workflow.KindValidation, op, "Select a department.")
	}

	initial, err := s.statusByCategory(ctx, models.CategorySubmitted)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Remarks) != "" {
		remark = strings.TrimSpace(in.Remarks)
	}
	location := in.LocationID
	if location == "" {
		location = DefaultLocationID
	}

	now := s.opts.now()
	issue := &models.Issue{
		ID:           s.opts.newID(),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		CategoryID:   in.CategoryID,
		DepartmentID: in.DepartmentID,
		LocationID:   location,
		CreatedBy:    createdBy,
		Status:       initial,
		Remarks:      remark,
		Images:       in.Images,
		History:      []models.AuditEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, err
	}

	reporter := "guest"
	if createdBy != nil {
		reporter = "citizen"
	}
	issuesCreatedTotal.WithLabelValues(reporter).Inc()
	return issue, nil
}

// UpdateStatus moves an issue to the status identified by statusID.
func (s *IssueService) UpdateStatus(ctx context.Context, actor *models.Principal, issueID string, in UpdateStatusInput) (issue *models.Issue, err error) {
	target := "unknown"
	defer func() {
		transitionsTotal.WithLabelValues(result(err), target).Inc()
	}()

	issue, err = s.issues.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err = workflow.CanTransition(issue, actor); err != nil {
		return nil, err
	}

	next, err := s.statusByID(ctx, in.StatusID)
	if err != nil {
		return nil, err
	}
	if category, ok := next.Classify(); ok {
		target = string(category)
	}

	remark := strings.TrimSpace(in.Remarks)
	if remark == "" {
		remark = departmentRemark
	}
	entry, err := workflow.Transition(issue, next, actor, remark, s.opts.now())
	if err != nil {
		return nil, err
	}
	if err = s.issues.ApplyTransition(ctx, issueID, entry); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"issue_id": issueID,
		"from":     entry.Previous.Name,
		"to":       entry.Next.Name,
		"actor_id": entry.ActorID,
	}).Info("issue status updated")
	return issue, nil
}

// ListOwn returns the issues reported by a citizen.
func (s *IssueService) ListOwn(ctx context.Context, actor *models.Principal) ([]models.Issue, error) {
	if !actor.Authenticated() || actor.Role != models.RoleCitizen {
		return nil, workflow.E(workflow.KindAuthorization, "list own issues", "only citizens have their own issues")
	}
	return s.issues.List(ctx, repository.IssueFilter{CreatedBy: actor.ID})
}

// ListDepartment returns one dashboard tab of a department's issues.
func (s *IssueService) ListDepartment(ctx context.Context, actor *models.Principal, departmentID string, tab models.IssueTab) ([]models.Issue, error) {
	const op = "list department issues"
	if err := s.canReadDepartment(actor, departmentID, op); err != nil {
		return nil, err
	}
	if tab == "" {
		tab = models.TabActive
	}
	categories, ok := tab.Categories()
	if !ok {
		return nil, workflow.E(workflow.KindValidation, op, "tab must be active, resolved or rejected")
	}
	return s.issues.List(ctx, repository.IssueFilter{DepartmentID: departmentID, Categories: categories})
}

// ListAll returns every issue. Admin only.
func (s *IssueService) ListAll(ctx context.Context, actor *models.Principal) ([]models.Issue, error) {
	if !actor.Authenticated() || actor.Role != models.RoleAdmin {
		return nil, workflow.E(workflow.KindAuthorization, "list all issues", "admin only")
	}
	return s.issues.List(ctx, repository.IssueFilter{})
}

// Stats counts issues per status. An empty departmentID counts every issue
// and is reserved for admins.
func (s *IssueService) Stats(ctx context.Context, actor *models.Principal, departmentID string) (workflow.Counts, error) {
	const op = "issue stats"
	var (
		issues []models.Issue
		err    error
	)
	if departmentID == "" {
		issues, err = s.ListAll(ctx, actor)
	} else {
		if err := s.canReadDepartment(actor, departmentID, op); err != nil {
			return workflow.Counts{}, err
		}
		issues, err = s.issues.List(ctx, repository.IssueFilter{DepartmentID: departmentID})
	}
	if err != nil {
		return workflow.Counts{}, err
	}
	return workflow.GroupAndCount(issues), nil
}

func (s *IssueService) canReadDepartment(actor *models.Principal, departmentID, op string) error {
	if !actor.Authenticated() {
		return workflow.Unauthenticated(op, "User not authenticated")
	}
	switch actor.Role {
	case models.RoleAdmin:
		return nil
	case models.RoleDepartment:
		if actor.DepartmentID == departmentID {
			return nil
		}
	}
	return workflow.E(workflow.KindAuthorization, op, "not a member of this department")
}

func (s *IssueService) statusByID(ctx context.Context, id string) (models.Status, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return models.Status{}, err
	}
	for _, st := range statuses {
		if st.ID == id {
			if c, ok := st.Classify(); ok && st.Category == "" {
				st.Category = c
			}
			return st, nil
		}
	}
	return models.Status{}, workflow.E(workflow.KindInvalidTarget, "transition", "Status not found.")
}

func (s *IssueService) statusByCategory(ctx context.Context, category models.StatusCategory) (models.Status, error) {
	statuses, err := s.statuses.List(ctx)
	if err != nil {
		return models.Status{}, err
	}
	for _, st := range statuses {
		if c, ok := st.Classify(); ok && c == category {
			if st.Category == "" {
				st.Category = c
			}
			return st, nil
		}
	}
	return models.Status{}, workflow.E(workflow.KindNotFound, "status vocabulary", "no "+string(category)+" status configured")
}

func validateIssue(in CreateIssueInput) error {
	const op = "create issue"
	switch {
	case strings.TrimSpace(in.Title) == "":
		return workflow.E(workflow.KindValidation, op, "Enter issue title.")
	case strings.TrimSpace(in.Description) == "":
		return workflow.E(workflow.KindValidation, op, "Enter description.")
	case in.CategoryID == "":
		return workflow.E(workflow.KindValidation, op, "Select a category.")
	case in.DepartmentID == "":
		return workflow.E(workflow.KindValidation, op, "Select a department.")
	}
	return nil
}
