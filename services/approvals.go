package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"report2resolve-be/models"
	"report2resolve-be/repository"
	"report2resolve-be/workflow"
)

// DecisionResult is what a signup decision produced. Principal is set only
// for approvals.
type DecisionResult struct {
	RequestID string            `json:"request_id"`
	Outcome   models.Outcome    `json:"outcome"`
	Principal *models.Principal `json:"principal,omitempty"`
}

type ApprovalService struct {
	requests repository.SignupRequestRepository
	users    repository.UserRepository
	opts     options
}

func NewApprovalService(stores repository.Stores, opts ...Option) *ApprovalService {
	return &ApprovalService{
		requests: stores.Requests,
		users:    stores.Users,
		opts:     buildOptions(opts),
	}
}

// Pending lists undecided department signup requests, oldest first.
func (s *ApprovalService) Pending(ctx context.Context, actor *models.Principal) ([]models.SignupRequest, error) {
	if !actor.Authenticated() || actor.Role != models.RoleAdmin {
		return nil, workflow.E(workflow.KindAuthorization, "pending approvals", "admin only")
	}
	return s.requests.ListPending(ctx)
}

// Decide approves or rejects a pending request exactly once. The store flips
// the request out of pending atomically, so a concurrent or repeated decision
// fails with a conflict instead of applying twice.
func (s *ApprovalService) Decide(ctx context.Context, actor *models.Principal, requestID string, outcome models.Outcome) (res *DecisionResult, err error) {
	defer func() {
		decisionsTotal.WithLabelValues(result(err), string(outcome)).Inc()
	}()

	req, err := s.requests.Get(ctx, requestID)
	if err != nil && !errors.Is(err, workflow.ErrNotFound) {
		return nil, err
	}
	if err = workflow.CanDecide(req, outcome, actor); err != nil {
		return nil, err
	}

	before, err := s.requests.MarkDecided(ctx, requestID, outcome, actor.ID, s.opts.now())
	if err != nil {
		return nil, err
	}

	res = &DecisionResult{RequestID: requestID, Outcome: outcome}
	if outcome == models.OutcomeApprove {
		account := workflow.DepartmentAccount(before)
		now := s.opts.now()
		account.CreatedAt, account.UpdatedAt = now, now
		if err = s.users.Create(ctx, &account); err != nil {
			if rerr := s.requests.Reopen(ctx, before); rerr != nil {
				logrus.WithError(rerr).WithField("request_id", requestID).Error("failed to reopen signup request")
			}
			return nil, err
		}
		p := account.Principal()
		res.Principal = &p
	}

	logrus.WithFields(logrus.Fields{
		"request_id":    requestID,
		"outcome":       outcome,
		"admin_id":      actor.ID,
		"department_id": before.DepartmentID,
	}).Info("signup request decided")
	return res, nil
}
