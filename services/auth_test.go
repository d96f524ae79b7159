package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"report2resolve-be/models"
	"report2resolve-be/workflow"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	session, err := f.auth.RegisterCitizen(ctx, RegisterInput{Name: "Asha", Email: "Asha@Example.com", Password: "secret123"})
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	require.Equal(t, models.RoleCitizen, session.Principal.Role)
	require.True(t, session.Principal.Authenticated())

	_, err = f.auth.RegisterCitizen(ctx, RegisterInput{Name: "Asha", Email: "asha@example.com", Password: "secret123"})
	require.True(t, errors.Is(err, workflow.ErrConflict))

	login, err := f.auth.Login(ctx, "asha@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, session.Principal, login.Principal)

	_, err = f.auth.Login(ctx, "asha@example.com", "wrong")
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))
	require.Equal(t, "Invalid credentials", workflow.Message(err))
	require.True(t, errors.Is(err, workflow.ErrUnauthenticated))

	user, err := f.auth.Me(ctx, &login.Principal)
	require.NoError(t, err)
	require.Equal(t, "asha@example.com", user.Email)
}

func TestLogin_PendingDepartmentStaff(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	signup(t, f, "ravi@example.com")

	_, err := f.auth.Login(ctx, "ravi@example.com", "secret123")
	require.True(t, errors.Is(err, workflow.ErrUnauthorized))
	require.Equal(t, "account awaiting admin approval", workflow.Message(err))
	require.False(t, errors.Is(err, workflow.ErrUnauthenticated))

	_, err = f.auth.RegisterCitizen(ctx, RegisterInput{Name: "Ravi", Email: "ravi@example.com", Password: "secret123"})
	require.True(t, errors.Is(err, workflow.ErrConflict))
}

func TestRequestDepartmentSignup_UnknownDepartment(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.RequestDepartmentSignup(context.Background(), DepartmentSignupInput{
		FullName: "Ravi", Email: "ravi@example.com", Password: "secret123", DepartmentID: "parks",
	})
	require.True(t, errors.Is(err, workflow.ErrValidation))
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	require.NoError(t, EnsureAdmin(ctx, f.stores, "Root", "root@example.com", "secret123"))
	require.NoError(t, EnsureAdmin(ctx, f.stores, "Root", "root@example.com", "secret123"))

	session, err := f.auth.Login(ctx, "root@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, models.RoleAdmin, session.Principal.Role)
}
