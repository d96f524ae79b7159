package workflow

import (
	"time"

	"report2resolve-be/models"
)

// Transition moves issue to target on behalf of actor and returns the audit
// entry it appended. Checks run in a fixed order: actor role, department
// ownership, terminal source state, then target validity. The issue is left
// untouched on failure.
func Transition(issue *models.Issue, target models.Status, actor *models.Principal, remark string, at time.Time) (models.AuditEntry, error) {
	const op = "transition"

	if issue == nil {
		return models.AuditEntry{}, E(KindNotFound, op, "issue not found")
	}
	if err := CanTransition(issue, actor); err != nil {
		return models.AuditEntry{}, err
	}
	if err := CheckTarget(target); err != nil {
		return models.AuditEntry{}, err
	}

	entry := models.AuditEntry{
		Previous: issue.Status,
		Next:     target,
		ActorID:  actor.ID,
		At:       at,
		Remark:   remark,
	}
	issue.Status = target
	issue.UpdatedAt = at
	issue.History = append(issue.History, entry)
	return entry, nil
}

// CanTransition runs the actor and source-state preconditions of Transition.
func CanTransition(issue *models.Issue, actor *models.Principal) error {
	const op = "transition"

	if !actor.Authenticated() {
		return Unauthenticated(op, "sign in required")
	}
	switch actor.Role {
	case models.RoleDepartment:
		if actor.DepartmentID != issue.DepartmentID {
			return E(KindAuthorization, op, "issue belongs to another department")
		}
	case models.RoleAdmin:
		// Admins oversee issues but status changes belong to departments.
		return E(KindAuthorization, op, "admins cannot change issue status")
	default:
		return E(KindAuthorization, op, "only department staff can change issue status")
	}

	current, ok := issue.Status.Classify()
	if ok && current.Terminal() {
		return E(KindConflict, op, "issue is already "+string(current))
	}
	return nil
}

// CheckTarget reports whether target may be the destination of a transition.
// Submitted is only ever an initial state.
func CheckTarget(target models.Status) error {
	category, ok := target.Classify()
	if !ok || category == models.CategorySubmitted {
		return E(KindInvalidTarget, "transition", "status cannot be set to "+quoted(target.Name))
	}
	return nil
}

func quoted(s string) string {
	if s == "" {
		return `""`
	}
	return `"` + s + `"`
}
