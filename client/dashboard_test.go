package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report2resolve-be/config"
	"report2resolve-be/models"
	"report2resolve-be/poller"
	"report2resolve-be/repository"
	"report2resolve-be/routes"
	"report2resolve-be/services"
	"report2resolve-be/workflow"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		TokenTTL:        time.Hour,
		RedisPrefix:     "test",
		IssueDailyLimit: 50,
		CORSOrigins:     []string{DevOrigin},
	}
	stores := repository.NewMemoryStores()
	ctx := context.Background()
	require.NoError(t, services.Seed(ctx, stores))
	require.NoError(t, services.EnsureAdmin(ctx, stores, "Admin", "admin@example.com", "admin123"))

	srv := httptest.NewServer(routes.NewEngine(cfg, stores, repository.NewMemoryKV()))
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	return New(Config{Mode: ModeDev, Origin: srv.URL}, WithHTTPClient(srv.Client()))
}

func TestDashboardsEndToEnd(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()

	staff := newClient(srv)
	requestID, err := staff.RequestDepartmentSignup(ctx, DepartmentSignupInput{
		FullName:     "Ravi Kumar",
		Email:        "ravi@roads.example",
		Password:     "roads123",
		DepartmentID: "roads",
	})
	require.NoError(t, err)

	_, err = staff.Login(ctx, LoginInput{Email: "ravi@roads.example", Password: "roads123"})
	require.ErrorIs(t, err, workflow.ErrUnauthorized)

	// Admin approves the request from the admin dashboard.
	admin := newClient(srv)
	_, err = admin.Login(ctx, LoginInput{Email: "admin@example.com", Password: "admin123"})
	require.NoError(t, err)

	adminDash, err := admin.OpenAdminDashboard(ctx, poller.WithInterval(50*time.Millisecond))
	require.NoError(t, err)
	defer adminDash.Close()
	require.Eventually(t, func() bool { return len(adminDash.View().Pending) == 1 }, 2*time.Second, 10*time.Millisecond)

	res, err := adminDash.Decide(ctx, requestID, models.OutcomeApprove)
	require.NoError(t, err)
	require.NotNil(t, res.Principal)
	assert.Equal(t, "roads", res.Principal.DepartmentID)
	require.Eventually(t, func() bool { return len(adminDash.View().Pending) == 0 }, 2*time.Second, 10*time.Millisecond)

	_, err = admin.Reject(ctx, requestID)
	assert.ErrorIs(t, err, workflow.ErrConflict)

	// A guest reports an issue.
	guest := newClient(srv)
	issue, err := guest.CreateIssue(ctx, IssueInput{
		Title:        "Pothole on Main St",
		Description:  "Deep pothole near the bus stop",
		CategoryID:   "pothole",
		DepartmentID: "roads",
	})
	require.NoError(t, err)
	assert.Nil(t, issue.CreatedBy)

	// Staff can now sign in and work the issue.
	_, err = staff.Login(ctx, LoginInput{Email: "ravi@roads.example", Password: "roads123"})
	require.NoError(t, err)

	dept, err := staff.OpenDepartmentDashboard(ctx)
	require.NoError(t, err)
	defer dept.Close()
	require.Eventually(t, func() bool { return dept.View().Counts.Submitted == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, dept.View().Issues, 1)

	_, err = dept.Move(ctx, issue.ID, models.CategorySubmitted, "")
	assert.ErrorIs(t, err, workflow.ErrInvalidTarget)

	updated, err := dept.Move(ctx, issue.ID, models.CategoryResolved, "")
	require.NoError(t, err)
	require.Len(t, updated.History, 1)
	assert.Equal(t, DefaultStatusRemark, updated.History[0].Remark)

	require.Eventually(t, func() bool { return dept.View().Counts.Resolved == 1 }, 2*time.Second, 10*time.Millisecond)
	v := dept.View()
	assert.Empty(t, v.Issues)
	assert.Equal(t, 1, v.TabSizes[models.TabResolved])

	require.NoError(t, dept.SelectTab(models.TabResolved))
	assert.Len(t, dept.View().Issues, 1)

	// Terminal issues are refused before any request is made.
	_, err = dept.Move(ctx, issue.ID, models.CategoryRejected, "")
	assert.ErrorIs(t, err, workflow.ErrConflict)

	require.Eventually(t, func() bool { return adminDash.View().Counts.Resolved == 1 }, 2*time.Second, 20*time.Millisecond)
}

func TestDashboardGuard(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()

	anon := newClient(srv)
	_, err := anon.OpenDepartmentDashboard(ctx)
	require.ErrorIs(t, err, workflow.ErrUnauthorized)
	to, ok := RedirectTarget(err)
	require.True(t, ok)
	assert.Equal(t, models.PortalAuth, to)

	citizen := newClient(srv)
	_, err = citizen.Register(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = citizen.OpenAdminDashboard(ctx)
	to, _ = RedirectTarget(err)
	assert.Equal(t, models.PortalCitizen, to)

	require.NoError(t, citizen.Logout(ctx))
	_, err = citizen.MyIssues(ctx)
	assert.ErrorIs(t, err, workflow.ErrUnauthorized)
	assert.Equal(t, models.PortalAuth, citizen.Enter(models.PortalCitizen).RedirectTo)
}
