package workflow

import (
	"report2resolve-be/models"
)

// CanDecide checks the admin-only, pending-only preconditions of a signup
// decision. A nil request means the request does not exist.
func CanDecide(req *models.SignupRequest, outcome models.Outcome, actor *models.Principal) error {
	const op = "decide"

	if !actor.Authenticated() || actor.Role != models.RoleAdmin {
		return E(KindAuthorization, op, "only admins can decide signup requests")
	}
	if outcome != models.OutcomeApprove && outcome != models.OutcomeReject {
		return E(KindValidation, op, "outcome must be approve or reject")
	}
	if req == nil {
		return E(KindNotFound, op, "signup request not found")
	}
	if !req.Pending() {
		return E(KindConflict, op, "request already decided")
	}
	return nil
}

// DepartmentAccount builds the account an approved request turns into.
// The password hash carries over from the request unchanged.
func DepartmentAccount(req *models.SignupRequest) models.User {
	return models.User{
		ID:           req.ID,
		Name:         req.FullName,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     req.Password,
		Role:         models.RoleDepartment,
		DepartmentID: req.DepartmentID,
	}
}
