package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"report2resolve-be/models"
	"report2resolve-be/repository"
	authUtils "report2resolve-be/utils"
	"report2resolve-be/workflow"
)

// Session is a signed-in principal and the token that proves it.
type Session struct {
	Token     string           `json:"token"`
	Principal models.Principal `json:"user"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type RegisterInput struct {
	Name             string `json:"name" binding:"required,max=50"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"omitempty,max=20"`
	Password         string `json:"password" binding:"required,min=6"`
	AnonymousAllowed bool   `json:"is_anonymous_allowed"`
}

type DepartmentSignupInput struct {
	FullName     string `json:"full_name" binding:"required,max=50"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"omitempty,max=20"`
	Password     string `json:"password" binding:"required,min=6"`
	DepartmentID string `json:"department_id" binding:"required"`
}

type AuthService struct {
	users       repository.UserRepository
	requests    repository.SignupRequestRepository
	lookups     repository.LookupRepository
	tokens      *authUtils.TokenIssuer
	revocations *authUtils.Revocations
	opts        options
}

func NewAuthService(stores repository.Stores, tokens *authUtils.TokenIssuer, revocations *authUtils.Revocations, opts ...Option) *AuthService {
	return &AuthService{
		users:       stores.Users,
		requests:    stores.Requests,
		lookups:     stores.Lookups,
		tokens:      tokens,
		revocations: revocations,
		opts:        buildOptions(opts),
	}
}

// RegisterCitizen creates a citizen account and signs it in.
func (s *AuthService) RegisterCitizen(ctx context.Context, in RegisterInput) (*Session, error) {
	const op = "register"
	email := normalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, op, email); err != nil {
		return nil, err
	}

	now := s.opts.now()
	user := models.User{
		ID:               s.opts.newID(),
		Name:             strings.TrimSpace(in.Name),
		Email:            email,
		Phone:            in.Phone,
		Password:         in.Password,
		Role:             models.RoleCitizen,
		AnonymousAllowed: in.AnonymousAllowed,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := user.HashPassword(); err != nil {
		logrus.WithError(err).Error("Error hashing password")
		return nil, workflow.Wrap(workflow.KindUnknown, op, err)
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, err
	}
	return s.issue(user.Principal())
}

// RequestDepartmentSignup files a pending request for an admin to decide.
// No account exists until the request is approved.
func (s *AuthService) RequestDepartmentSignup(ctx context.Context, in DepartmentSignupInput) (*models.SignupRequest, error) {
	const op = "department signup"
	email := normalizeEmail(in.Email)

	exists, err := s.lookups.DepartmentExists(ctx, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, workflow.E(workflow.KindValidation, op, "unknown department")
	}
	if err := s.ensureEmailFree(ctx, op, email); err != nil {
		return nil, err
	}

	pending := models.User{Password: in.Password}
	if err := pending.HashPassword(); err != nil {
		logrus.WithError(err).Error("Error hashing password")
		return nil, workflow.Wrap(workflow.KindUnknown, op, err)
	}

	req := &models.SignupRequest{
		ID:           s.opts.newID(),
		FullName:     strings.TrimSpace(in.FullName),
		Email:        email,
		Phone:        in.Phone,
		Password:     pending.Password,
		DepartmentID: in.DepartmentID,
		State:        models.DecisionPending,
		CreatedAt:    s.opts.now(),
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"request_id": req.ID, "department_id": req.DepartmentID}).Info("department signup requested")
	return req, nil
}

// Login checks credentials. Staff whose request is still pending are told so
// rather than getting a generic failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "login"
	email = normalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, workflow.ErrNotFound) {
		if _, perr := s.requests.FindPendingByEmail(ctx, email); perr == nil {
			return nil, workflow.E(workflow.KindAuthorization, op, "account awaiting admin approval")
		}
		return nil, workflow.Unauthenticated(op, "Invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !user.ComparePassword(password) {
		return nil, workflow.Unauthenticated(op, "Invalid credentials")
	}
	return s.issue(user.Principal())
}

// Logout revokes the token behind claims.
func (s *AuthService) Logout(ctx context.Context, claims *authUtils.Claims) error {
	if claims == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.Id, time.Unix(claims.ExpiresAt, 0))
}

// Me returns the stored account of p.
func (s *AuthService) Me(ctx context.Context, p *models.Principal) (*models.User, error) {
	if !p.Authenticated() {
		return nil, workflow.Unauthenticated("me", "User not authenticated")
	}
	return s.users.FindByID(ctx, p.ID)
}

func (s *AuthService) issue(p models.Principal) (*Session, error) {
	token, claims, err := s.tokens.GenerateToken(p)
	if err != nil {
		logrus.WithError(err).Error("Error generating token")
		return nil, workflow.Wrap(workflow.KindUnknown, "issue token", err)
	}
	return &Session{Token: token, Principal: p, ExpiresAt: time.Unix(claims.ExpiresAt, 0)}, nil
}

func (s *AuthService) ensureEmailFree(ctx context.Context, op, email string) error {
	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return workflow.E(workflow.KindConflict, op, "User with this email already exists")
	case !errors.Is(err, workflow.ErrNotFound):
		return err
	}

	_, err = s.requests.FindPendingByEmail(ctx, email)
	switch {
	case err == nil:
		return workflow.E(workflow.KindConflict, op, "A signup request for this email is already pending")
	case !errors.Is(err, workflow.ErrNotFound):
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
