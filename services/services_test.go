package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"report2resolve-be/models"
	"report2resolve-be/repository"
	authUtils "report2resolve-be/utils"
)

type fixture struct {
	stores    repository.Stores
	auth      *AuthService
	issues    *IssueService
	approvals *ApprovalService
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{stores: repository.NewMemoryStores(), now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
	require.NoError(t, Seed(context.Background(), f.stores))

	seq := 0
	opts := []Option{
		WithClock(func() time.Time { return f.now }),
		WithIDs(func() string { seq++; return fmt.Sprintf("id-%03d", seq) }),
	}
	tokens := authUtils.NewTokenIssuer("test-secret", time.Hour)
	revocations := authUtils.NewRevocations(repository.NewMemoryKV(), "test")

	f.auth = NewAuthService(f.stores, tokens, revocations, opts...)
	f.issues = NewIssueService(f.stores, opts...)
	f.approvals = NewApprovalService(f.stores, opts...)
	return f
}

func (f *fixture) statusID(t *testing.T, c models.StatusCategory) string {
	t.Helper()
	statuses, err := f.issues.Statuses(context.Background())
	require.NoError(t, err)
	for _, s := range statuses {
		if s.Category == c {
			return s.ID
		}
	}
	t.Fatalf("no status for %s", c)
	return ""
}

func guestIssue(dept string) CreateIssueInput {
	return CreateIssueInput{
		Title:        "Broken street light",
		Description:  "Dark since Monday",
		CategoryID:   "streetlight",
		DepartmentID: dept,
	}
}

func admin() *models.Principal {
	return &models.Principal{ID: "admin-1", Role: models.RoleAdmin, Name: "Admin"}
}

func deptActor(dept string) *models.Principal {
	return &models.Principal{ID: "staff-" + dept, Role: models.RoleDepartment, DepartmentID: dept, Name: "Staff"}
}
