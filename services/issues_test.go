package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"report2resolve-be/models"
	"report2resolve-be/workflow"
)

func TestGuestIssueResolvedMovesBetweenTabs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	issue, err := f.issues.Create(ctx, nil, guestIssue("electricity"))
	require.NoError(t, err)
	require.Nil(t, issue.CreatedBy)
	require.Equal(t, models.CategorySubmitted, issue.Status.Category)
	require.Equal(t, "Submitted by guest", issue.Remarks)
	require.Equal(t, DefaultLocationID, issue.LocationID)

	actor := deptActor("electricity")
	active, err := f.issues.ListDepartment(ctx, actor, "electricity", models.TabActive)
	require.NoError(t, err)
	require.Len(t, active, 1)

	updated, err := f.issues.UpdateStatus(ctx, actor, issue.ID, UpdateStatusInput{StatusID: f.statusID(t, models.CategoryResolved)})
	require.NoError(t, err)
	require.Equal(t, models.CategoryResolved, updated.Status.Category)
	require.Len(t, updated.History, 1)
	require.Equal(t, "Status updated by department", updated.History[0].Remark)
	require.Equal(t, actor.ID, updated.History[0].ActorID)

	active, err = f.issues.ListDepartment(ctx, actor, "electricity", models.TabActive)
	require.NoError(t, err)
	require.Empty(t, active)

	resolved, err := f.issues.ListDepartment(ctx, actor, "electricity", models.TabResolved)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	require.Equal(t, issue.ID, resolved[0].ID)

	_, err = f.issues.UpdateStatus(ctx, actor, issue.ID, UpdateStatusInput{StatusID: f.statusID(t, models.CategoryInProgress)})
	require.True(t, errors.Is(err, workflow.ErrConflict))
}

func TestCreateIssue_CitizenOwnsIssue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	citizen := &models.Principal{ID: "c1", Role: models.RoleCitizen, Name: "Asha"}

	issue, err := f.issues.Create(ctx, citizen, guestIssue("water"))
	require.NoError(t, err)
	require.NotNil(t, issue.CreatedBy)
	require.Equal(t, "c1", *issue.CreatedBy)

	own, err := f.issues.ListOwn(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, own, 1)

	_, err = f.issues.Create(ctx, nil, guestIssue("water"))
	require.NoError(t, err)
	own, err = f.issues.ListOwn(ctx, citizen)
	require.NoError(t, err)
	require.Len(t, own, 1)
}

func TestCreateIssue_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	in := guestIssue("water")
	in.Title = "  "
	_, err := f.issues.Create(ctx, nil, in)
	require.True(t, errors.Is(err, workflow.ErrValidation))
	require.Equal(t, "Enter issue title.", workflow.Message(err))

	_, err = f.issues.Create(ctx, nil, guestIssue("parks"))
	require.True(t, errors.Is(err, workflow.ErrValidation))

	_, err = f.issues.Create(ctx, deptActor("water"), guestIssue("water"))
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))
}

func TestUpdateStatus_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	issue, err := f.issues.Create(ctx, nil, guestIssue("roads"))
	require.NoError(t, err)
	resolved := UpdateStatusInput{StatusID: f.statusID(t, models.CategoryResolved)}

	_, err = f.issues.UpdateStatus(ctx, deptActor("roads"), "missing", resolved)
	require.True(t, errors.Is(err, workflow.ErrNotFound))

	_, err = f.issues.UpdateStatus(ctx, deptActor("water"), issue.ID, resolved)
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))

	_, err = f.issues.UpdateStatus(ctx, admin(), issue.ID, resolved)
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))

	_, err = f.issues.UpdateStatus(ctx, deptActor("roads"), issue.ID, UpdateStatusInput{StatusID: "nope"})
	require.True(t, errors.Is(err, workflow.ErrInvalidTarget))

	_, err = f.issues.UpdateStatus(ctx, deptActor("roads"), issue.ID, UpdateStatusInput{StatusID: f.statusID(t, models.CategorySubmitted)})
	require.True(t, errors.Is(err, workflow.ErrInvalidTarget))

	stored, err := f.stores.Issues.Get(ctx, issue.ID)
	require.NoError(t, err)
	require.Equal(t, models.CategorySubmitted, stored.Status.Category)
	require.Empty(t, stored.History)
}

func TestListAccess(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.issues.Create(ctx, nil, guestIssue("roads"))
	require.NoError(t, err)

	_, err = f.issues.ListDepartment(ctx, deptActor("water"), "roads", models.TabActive)
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))

	_, err = f.issues.ListDepartment(ctx, deptActor("roads"), "roads", "archived")
	require.True(t, errors.Is(err, workflow.ErrValidation))

	_, err = f.issues.ListAll(ctx, deptActor("roads"))
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))

	all, err := f.issues.ListAll(ctx, admin())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	actor := deptActor("roads")

	for i := 0; i < 3; i++ {
		_, err := f.issues.Create(ctx, nil, guestIssue("roads"))
		require.NoError(t, err)
	}
	_, err := f.issues.Create(ctx, nil, guestIssue("water"))
	require.NoError(t, err)

	list, err := f.issues.ListDepartment(ctx, actor, "roads", models.TabActive)
	require.NoError(t, err)
	_, err = f.issues.UpdateStatus(ctx, actor, list[0].ID, UpdateStatusInput{StatusID: f.statusID(t, models.CategoryRejected)})
	require.NoError(t, err)
	_, err = f.issues.UpdateStatus(ctx, actor, list[1].ID, UpdateStatusInput{StatusID: f.statusID(t, models.CategoryInProgress)})
	require.NoError(t, err)

	counts, err := f.issues.Stats(ctx, actor, "roads")
	require.NoError(t, err)
	require.Equal(t, workflow.Counts{Submitted: 1, Progress: 1, Rejected: 1}, counts)

	counts, err = f.issues.Stats(ctx, admin(), "")
	require.NoError(t, err)
	require.Equal(t, 4, counts.Total())

	_, err = f.issues.Stats(ctx, actor, "")
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))
}
