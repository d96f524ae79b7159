package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"report2resolve-be/models"
	"report2resolve-be/workflow"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterInput struct {
	Name             string `json:"name" validate:"required,max=50"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Password         string `json:"password" validate:"required,min=6"`
	AnonymousAllowed bool   `json:"is_anonymous_allowed"`
}

type DepartmentSignupInput struct {
	FullName     string `json:"full_name" validate:"required,max=50"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=20"`
	Password     string `json:"password" validate:"required,min=6"`
	DepartmentID string `json:"department_id" validate:"required"`
}

type IssueInput struct {
	Title        string   `json:"title" validate:"required,max=200"`
	Description  string   `json:"description" validate:"required,max=1000"`
	CategoryID   string   `json:"category_id" validate:"required"`
	DepartmentID string   `json:"department_id" validate:"required"`
	LocationID   string   `json:"location_id,omitempty"`
	Remarks      string   `json:"remarks,omitempty" validate:"max=500"`
	Images       []string `json:"images,omitempty" validate:"max=5,dive,url"`
}

type statusUpdate struct {
	StatusID string `json:"status_id" validate:"required"`
	Remarks  string `json:"remarks,omitempty" validate:"max=500"`
}

type sessionResponse struct {
	Token string           `json:"token"`
	User  models.Principal `json:"user"`
}

// DecisionResult is the outcome of an admin decision.
type DecisionResult struct {
	RequestID string            `json:"request_id"`
	Outcome   models.Outcome    `json:"outcome"`
	Principal *models.Principal `json:"principal,omitempty"`
}

func (c *Client) startSession(resp sessionResponse) (*models.Principal, error) {
	p := resp.User
	c.setToken(resp.Token)
	if err := c.sessions.Save(&p); err != nil {
		return nil, workflow.Wrap(workflow.KindUnknown, "session", err)
	}
	if tk, ok := c.sessions.(tokenKeeper); ok {
		if err := tk.SaveToken(resp.Token); err != nil {
			return nil, workflow.Wrap(workflow.KindUnknown, "session", err)
		}
	}
	return &p, nil
}

// Login signs in and stores the resulting principal.
func (c *Client) Login(ctx context.Context, in LoginInput) (*models.Principal, error) {
	if err := check("login", in); err != nil {
		return nil, err
	}
	var resp sessionResponse
	if err := c.do(ctx, "login", http.MethodPost, "/auth/login", in, &resp); err != nil {
		return nil, err
	}
	return c.startSession(resp)
}

// Register creates a citizen account and signs it in.
func (c *Client) Register(ctx context.Context, in RegisterInput) (*models.Principal, error) {
	if err := check("register", in); err != nil {
		return nil, err
	}
	var resp sessionResponse
	if err := c.do(ctx, "register", http.MethodPost, "/auth/register", in, &resp); err != nil {
		return nil, err
	}
	return c.startSession(resp)
}

// RequestDepartmentSignup files a signup for admin approval and returns the
// request id. Nothing is signed in.
func (c *Client) RequestDepartmentSignup(ctx context.Context, in DepartmentSignupInput) (string, error) {
	if err := check("dept signup", in); err != nil {
		return "", err
	}
	var resp struct {
		RequestID string `json:"request_id"`
	}
	if err := c.do(ctx, "dept signup", http.MethodPost, "/auth/dept-signup", in, &resp); err != nil {
		return "", err
	}
	return resp.RequestID, nil
}

// Logout revokes the token server-side and always clears the local session,
// even when the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	var remote error
	if c.bearer() != "" {
		remote = c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil)
		if remote != nil {
			logrus.WithError(remote).Warn("logout not acknowledged by server")
		}
	}
	c.setToken("")
	if err := c.sessions.Clear(); err != nil {
		return workflow.Wrap(workflow.KindUnknown, "logout", err)
	}
	return remote
}

func (c *Client) Statuses(ctx context.Context) ([]models.Status, error) {
	var out []models.Status
	return out, c.do(ctx, "statuses", http.MethodGet, "/statuses", nil, &out)
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	return out, c.do(ctx, "categories", http.MethodGet, "/categories", nil, &out)
}

func (c *Client) Departments(ctx context.Context) ([]models.Department, error) {
	var out []models.Department
	return out, c.do(ctx, "departments", http.MethodGet, "/departments", nil, &out)
}

// CreateIssue reports an issue as the stored citizen, or as a guest when
// nobody is signed in.
func (c *Client) CreateIssue(ctx context.Context, in IssueInput) (*models.Issue, error) {
	if err := check("create issue", in); err != nil {
		return nil, err
	}
	var resp struct {
		Issue models.Issue `json:"issue"`
	}
	if err := c.do(ctx, "create issue", http.MethodPost, "/create-issue", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Issue, nil
}

func (c *Client) MyIssues(ctx context.Context) ([]models.Issue, error) {
	var out []models.Issue
	return out, c.do(ctx, "my issues", http.MethodGet, "/my-issues", nil, &out)
}

// DepartmentIssues fetches one dashboard tab.
func (c *Client) DepartmentIssues(ctx context.Context, departmentID string, tab models.IssueTab) ([]models.Issue, error) {
	if departmentID == "" {
		return nil, workflow.E(workflow.KindValidation, "department issues", "department is required")
	}
	if _, ok := tab.Categories(); !ok {
		return nil, workflow.E(workflow.KindValidation, "department issues", "unknown tab "+string(tab))
	}
	path := "/dept/issues/" + url.PathEscape(departmentID) + "?tab=" + url.QueryEscape(string(tab))
	var out []models.Issue
	return out, c.do(ctx, "department issues", http.MethodGet, path, nil, &out)
}

func (c *Client) DepartmentStats(ctx context.Context, departmentID string) (workflow.Counts, error) {
	var out workflow.Counts
	return out, c.do(ctx, "department stats", http.MethodGet, "/dept/stats/"+url.PathEscape(departmentID), nil, &out)
}

// UpdateStatus asks the server to move an issue to statusID.
func (c *Client) UpdateStatus(ctx context.Context, issueID, statusID, remark string) (*models.Issue, error) {
	in := statusUpdate{StatusID: statusID, Remarks: remark}
	if err := check("update status", in); err != nil {
		return nil, err
	}
	var resp struct {
		Issue models.Issue `json:"issue"`
	}
	if err := c.do(ctx, "update status", http.MethodPost, "/dept/update-status/"+url.PathEscape(issueID), in, &resp); err != nil {
		return nil, err
	}
	return &resp.Issue, nil
}

func (c *Client) PendingApprovals(ctx context.Context) ([]models.SignupRequest, error) {
	var out []models.SignupRequest
	return out, c.do(ctx, "pending approvals", http.MethodGet, "/admin/pending-approvals", nil, &out)
}

func (c *Client) Approve(ctx context.Context, requestID string) (*DecisionResult, error) {
	return c.decide(ctx, "approve", http.MethodPost, "/admin/approve/", requestID)
}

func (c *Client) Reject(ctx context.Context, requestID string) (*DecisionResult, error) {
	return c.decide(ctx, "reject", http.MethodDelete, "/admin/reject/", requestID)
}

func (c *Client) decide(ctx context.Context, op, method, prefix, requestID string) (*DecisionResult, error) {
	var resp struct {
		Decision DecisionResult `json:"decision"`
	}
	if err := c.do(ctx, op, method, prefix+url.PathEscape(requestID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Decision, nil
}

func (c *Client) AllIssues(ctx context.Context) ([]models.Issue, error) {
	var out []models.Issue
	return out, c.do(ctx, "all issues", http.MethodGet, "/admin/all-issues", nil, &out)
}

func (c *Client) AllStats(ctx context.Context) (workflow.Counts, error) {
	var out workflow.Counts
	return out, c.do(ctx, "all stats", http.MethodGet, "/admin/stats", nil, &out)
}
