package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"report2resolve-be/models"
	"report2resolve-be/workflow"
)

func TestMemoryIssues_ApplyTransitionIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()
	submitted, progress, resolved := models.DefaultStatuses[0], models.DefaultStatuses[1], models.DefaultStatuses[2]

	require.NoError(t, stores.Issues.Create(ctx, &models.Issue{ID: "i1", DepartmentID: "D", Status: submitted}))

	first := models.AuditEntry{Previous: submitted, Next: resolved, ActorID: "u1", At: time.Now()}
	require.NoError(t, stores.Issues.ApplyTransition(ctx, "i1", first))

	stale := models.AuditEntry{Previous: submitted, Next: progress, ActorID: "u2", At: time.Now()}
	err := stores.Issues.ApplyTransition(ctx, "i1", stale)
	require.True(t, errors.Is(err, workflow.ErrConflict))

	got, err := stores.Issues.Get(ctx, "i1")
	require.NoError(t, err)
	require.Equal(t, resolved, got.Status)
	require.Len(t, got.History, 1)

	err = stores.Issues.ApplyTransition(ctx, "missing", first)
	require.True(t, errors.Is(err, workflow.ErrNotFound))
}

func TestMemoryIssues_ListFilters(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()
	citizen := "c1"
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	issues := []models.Issue{
		{ID: "a", DepartmentID: "D", CreatedBy: &citizen, Status: models.DefaultStatuses[0], CreatedAt: base},
		{ID: "b", DepartmentID: "D", Status: models.DefaultStatuses[2], CreatedAt: base.Add(time.Hour)},
		{ID: "c", DepartmentID: "E", Status: models.DefaultStatuses[1], CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range issues {
		require.NoError(t, stores.Issues.Create(ctx, &issues[i]))
	}

	all, err := stores.Issues.List(ctx, IssueFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{"c", "b", "a"}, ids(all))

	own, err := stores.Issues.List(ctx, IssueFilter{CreatedBy: citizen})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids(own))

	active, _ := models.TabActive.Categories()
	deptActive, err := stores.Issues.List(ctx, IssueFilter{DepartmentID: "D", Categories: active})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, ids(deptActive))
}

func TestMemoryRequests_MarkDecidedOnce(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()
	req := &models.SignupRequest{ID: "r1", FullName: "Ravi", Email: "ravi@example.com", Phone: "555-0100", Password: "hash", DepartmentID: "roads", State: models.DecisionPending}
	require.NoError(t, stores.Requests.Create(ctx, req))

	before, err := stores.Requests.MarkDecided(ctx, "r1", models.OutcomeReject, "admin", time.Now())
	require.NoError(t, err)
	require.Equal(t, "Ravi", before.FullName)

	stored, err := stores.Requests.Get(ctx, "r1")
	require.NoError(t, err)
	require.Empty(t, stored.FullName)
	require.Empty(t, stored.Email)
	require.Empty(t, stored.Phone)
	require.Empty(t, stored.Password)
	// The tombstone keeps only the decision itself.
	require.Equal(t, models.DecisionDecided, stored.State)
	require.Equal(t, models.OutcomeReject, stored.Outcome)
	require.Equal(t, "admin", stored.DecidedBy)

	_, err = stores.Requests.MarkDecided(ctx, "r1", models.OutcomeApprove, "admin", time.Now())
	require.True(t, errors.Is(err, workflow.ErrConflict))

	pending, err := stores.Requests.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestMemoryUsers_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	stores := NewMemoryStores()
	require.NoError(t, stores.Users.Create(ctx, &models.User{ID: "u1", Email: "a@example.com"}))
	err := stores.Users.Create(ctx, &models.User{ID: "u2", Email: "A@example.com"})
	require.True(t, errors.Is(err, workflow.ErrConflict))
}

func ids(issues []models.Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.ID
	}
	return out
}
