package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report2resolve-be/models"
	"report2resolve-be/workflow"
)

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:5173/api", Config{Mode: ModeDev}.BaseURL())
	assert.Equal(t, ProductionOrigin+"/api", Config{Mode: ModeProd}.BaseURL())
	assert.Equal(t, "http://127.0.0.1:9000/api", Config{Mode: ModeDev, Origin: "http://127.0.0.1:9000/"}.BaseURL())
}

func stubServer(t *testing.T, status int, body string) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return New(Config{Origin: srv.URL}, WithHTTPClient(srv.Client())), &hits
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    workflow.Kind
		message string
	}{
		{"detail preferred", http.StatusConflict, `{"ok":false,"error":"conflict","detail":"request already decided"}`, workflow.KindConflict, "request already decided"},
		{"generic without detail", http.StatusForbidden, `{"ok":false,"error":"unauthorized"}`, workflow.KindAuthorization, GenericFailure},
		{"unparseable body", http.StatusInternalServerError, `<html>oops</html>`, workflow.KindUnknown, GenericFailure},
		{"kind from status", http.StatusNotFound, `{"detail":"issue not found"}`, workflow.KindNotFound, "issue not found"},
		{"invalid target", http.StatusUnprocessableEntity, `{"error":"invalid_target","detail":"status cannot be set to \"Submitted\""}`, workflow.KindInvalidTarget, `status cannot be set to "Submitted"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := stubServer(t, tt.status, tt.body)
			_, err := c.MyIssues(context.Background())
			require.Error(t, err)
			assert.Equal(t, tt.kind, workflow.KindOf(err))
			assert.Equal(t, tt.message, workflow.Message(err))
		})
	}
}

func TestUnreachableServerIsTransport(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	origin := srv.URL
	srv.Close()

	c := New(Config{Origin: origin})
	_, err := c.Statuses(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, workflow.ErrTransport)
}

func TestValidationBeforeNetwork(t *testing.T) {
	c, hits := stubServer(t, http.StatusOK, `{}`)
	ctx := context.Background()

	_, err := c.Login(ctx, LoginInput{Email: "not-an-email", Password: "x"})
	assert.ErrorIs(t, err, workflow.ErrValidation)
	assert.Contains(t, workflow.Message(err), "email must be a valid email")

	_, err = c.CreateIssue(ctx, IssueInput{Title: "Pothole"})
	assert.ErrorIs(t, err, workflow.ErrValidation)
	assert.Contains(t, workflow.Message(err), "description is required")

	_, err = c.Register(ctx, RegisterInput{Name: "A", Email: "a@example.com", Password: "123"})
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = c.UpdateStatus(ctx, "issue-1", "", "")
	assert.ErrorIs(t, err, workflow.ErrValidation)

	_, err = c.DepartmentIssues(ctx, "roads", models.IssueTab("archived"))
	assert.ErrorIs(t, err, workflow.ErrValidation)

	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestLoginStoresSession(t *testing.T) {
	c, _ := stubServer(t, http.StatusOK, `{"ok":true,"token":"tok","user":{"user_id":"u1","role":"citizen","name":"Asha"}}`)

	p, err := c.Login(context.Background(), LoginInput{Email: "asha@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.ID)

	stored := c.Principal()
	require.NotNil(t, stored)
	assert.Equal(t, models.RoleCitizen, stored.Role)
	assert.Equal(t, "tok", c.bearer())
	assert.True(t, c.Enter(models.PortalCitizen).Allow)
	assert.Equal(t, models.PortalCitizen, c.Enter(models.PortalAdmin).RedirectTo)
}

func TestLogoutClearsSessionWhenServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	origin := srv.URL
	srv.Close()

	store := &MemorySession{}
	require.NoError(t, store.Save(&models.Principal{ID: "u1", Role: models.RoleCitizen}))
	c := New(Config{Origin: origin}, WithSessionStore(store))
	c.setToken("tok")

	err := c.Logout(context.Background())
	assert.ErrorIs(t, err, workflow.ErrTransport)
	assert.Nil(t, c.Principal())
	assert.Empty(t, c.bearer())
}
