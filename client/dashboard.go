package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"report2resolve-be/models"
	"report2resolve-be/poller"
	"report2resolve-be/workflow"
)

// DefaultStatusRemark accompanies status changes made from the dashboard.
const DefaultStatusRemark = "Status updated by department"

// Redirect is returned when the guard turns a principal away from a portal.
type Redirect struct {
	To models.Portal
}

func (r *Redirect) Error() string { return "redirect to " + string(r.To) }

// RedirectTarget extracts the portal a failed Open should send the user to.
func RedirectTarget(err error) (models.Portal, bool) {
	var r *Redirect
	if errors.As(err, &r) {
		return r.To, true
	}
	return "", false
}

func (c *Client) enter(op string, portal models.Portal) (*models.Principal, error) {
	p := c.Principal()
	if d := workflow.Decide(p, portal); !d.Allow {
		return nil, workflow.Wrap(workflow.KindAuthorization, op, &Redirect{To: d.RedirectTo})
	}
	return p, nil
}

// DepartmentView is one refresh of the department dashboard.
type DepartmentView struct {
	Tab       models.IssueTab
	Issues    []models.Issue
	TabSizes  map[models.IssueTab]int
	Counts    workflow.Counts
	FetchedAt time.Time

	tabs map[models.IssueTab][]models.Issue
}

// DepartmentDashboard keeps a department's issue tabs and stats current.
type DepartmentDashboard struct {
	client    *Client
	principal models.Principal
	statuses  []models.Status
	sync      *poller.Synchronizer[DepartmentView]

	mu   sync.RWMutex
	tab  models.IssueTab
	view DepartmentView
}

var departmentTabs = []models.IssueTab{models.TabActive, models.TabResolved, models.TabRejected}

// OpenDepartmentDashboard checks the stored principal against the department
// portal, loads the status vocabulary and starts polling.
func (c *Client) OpenDepartmentDashboard(ctx context.Context, opts ...poller.Option) (*DepartmentDashboard, error) {
	const op = "open department dashboard"

	p, err := c.enter(op, models.PortalDepartment)
	if err != nil {
		return nil, err
	}
	statuses, err := c.Statuses(ctx)
	if err != nil {
		return nil, err
	}

	d := &DepartmentDashboard{client: c, principal: *p, statuses: statuses, tab: models.TabActive}
	d.sync = poller.New(d.fetch, d.apply, opts...)
	d.sync.Start(ctx)
	return d, nil
}

// fetch loads all three tabs at once so the list and the stats never disagree.
func (d *DepartmentDashboard) fetch(ctx context.Context) (DepartmentView, error) {
	results := make([][]models.Issue, len(departmentTabs))
	g, gctx := errgroup.WithContext(ctx)
	for i, tab := range departmentTabs {
		i, tab := i, tab
		g.Go(func() error {
			issues, err := d.client.DepartmentIssues(gctx, d.principal.DepartmentID, tab)
			results[i] = issues
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return DepartmentView{}, err
	}

	var all []models.Issue
	v := DepartmentView{
		TabSizes:  make(map[models.IssueTab]int, len(departmentTabs)),
		FetchedAt: time.Now(),
		tabs:      make(map[models.IssueTab][]models.Issue, len(departmentTabs)),
	}
	for i, tab := range departmentTabs {
		v.tabs[tab] = results[i]
		v.TabSizes[tab] = len(results[i])
		all = append(all, results[i]...)
	}
	v.Counts = workflow.GroupAndCount(all)
	return v, nil
}

func (d *DepartmentDashboard) apply(v DepartmentView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = v
}

// View returns the latest refresh, listing the selected tab.
func (d *DepartmentDashboard) View() DepartmentView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	v := d.view
	v.Tab = d.tab
	v.Issues = append([]models.Issue(nil), d.view.tabs[d.tab]...)
	return v
}

// SelectTab switches the listed tab and triggers a refresh.
func (d *DepartmentDashboard) SelectTab(tab models.IssueTab) error {
	if _, ok := tab.Categories(); !ok {
		return workflow.E(workflow.KindValidation, "select tab", "unknown tab "+string(tab))
	}
	d.mu.Lock()
	d.tab = tab
	d.mu.Unlock()
	d.sync.Refresh()
	return nil
}

// StatusFor finds the vocabulary status of a category.
func (d *DepartmentDashboard) StatusFor(category models.StatusCategory) (models.Status, bool) {
	for _, s := range d.statuses {
		if c, ok := s.Classify(); ok && c == category {
			return s, true
		}
	}
	return models.Status{}, false
}

func (d *DepartmentDashboard) issue(id string) *models.Issue {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, issues := range d.view.tabs {
		for i := range issues {
			if issues[i].ID == id {
				cp := issues[i]
				return &cp
			}
		}
	}
	return nil
}

// Move changes an issue's status and refreshes the list and stats on success.
// Preconditions that can be judged locally are checked before any request.
func (d *DepartmentDashboard) Move(ctx context.Context, issueID string, category models.StatusCategory, remark string) (*models.Issue, error) {
	const op = "update status"

	target, ok := d.StatusFor(category)
	if !ok {
		return nil, workflow.E(workflow.KindInvalidTarget, op, "status not found: "+strings.ReplaceAll(string(category), "_", " "))
	}
	if err := workflow.CheckTarget(target); err != nil {
		return nil, err
	}
	if known := d.issue(issueID); known != nil {
		if err := workflow.CanTransition(known, &d.principal); err != nil {
			return nil, err
		}
	}
	if remark == "" {
		remark = DefaultStatusRemark
	}

	updated, err := d.client.UpdateStatus(ctx, issueID, target.ID, remark)
	if err != nil {
		return nil, err
	}
	d.sync.Refresh()
	return updated, nil
}

// Close stops polling.
func (d *DepartmentDashboard) Close() { d.sync.Stop() }

// AdminView is one refresh of the admin dashboard.
type AdminView struct {
	Pending   []models.SignupRequest
	Issues    []models.Issue
	Counts    workflow.Counts
	FetchedAt time.Time
}

// AdminDashboard keeps pending approvals and all issues current.
type AdminDashboard struct {
	client    *Client
	principal models.Principal
	sync      *poller.Synchronizer[AdminView]

	mu   sync.RWMutex
	view AdminView
}

// OpenAdminDashboard checks the stored principal against the admin portal and
// starts polling.
func (c *Client) OpenAdminDashboard(ctx context.Context, opts ...poller.Option) (*AdminDashboard, error) {
	p, err := c.enter("open admin dashboard", models.PortalAdmin)
	if err != nil {
		return nil, err
	}
	d := &AdminDashboard{client: c, principal: *p}
	d.sync = poller.New(d.fetch, d.apply, opts...)
	d.sync.Start(ctx)
	return d, nil
}

func (d *AdminDashboard) fetch(ctx context.Context) (AdminView, error) {
	var v AdminView
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		v.Pending, err = d.client.PendingApprovals(gctx)
		return err
	})
	g.Go(func() (err error) {
		v.Issues, err = d.client.AllIssues(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return AdminView{}, err
	}
	v.Counts = workflow.GroupAndCount(v.Issues)
	v.FetchedAt = time.Now()
	return v, nil
}

func (d *AdminDashboard) apply(v AdminView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.view = v
}

func (d *AdminDashboard) View() AdminView {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.view
}

// Decide approves or rejects a pending signup request and refreshes the
// pending list on success.
func (d *AdminDashboard) Decide(ctx context.Context, requestID string, outcome models.Outcome) (*DecisionResult, error) {
	var req *models.SignupRequest
	for _, r := range d.View().Pending {
		if r.ID == requestID {
			req = &r
			break
		}
	}
	if req != nil {
		if err := workflow.CanDecide(req, outcome, &d.principal); err != nil {
			return nil, err
		}
	}

	var (
		res *DecisionResult
		err error
	)
	switch outcome {
	case models.OutcomeApprove:
		res, err = d.client.Approve(ctx, requestID)
	case models.OutcomeReject:
		res, err = d.client.Reject(ctx, requestID)
	default:
		return nil, workflow.E(workflow.KindValidation, "decide", "outcome must be approve or reject")
	}
	if err != nil {
		return nil, err
	}
	d.sync.Refresh()
	return res, nil
}

func (d *AdminDashboard) Close() { d.sync.Stop() }
