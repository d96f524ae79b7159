package models

import "time"

// DecisionState tracks whether a signup request has been consumed.
type DecisionState string

const (
	DecisionPending DecisionState = "pending"
	DecisionDecided DecisionState = "decided"
)

// Outcome is what an admin decided.
type Outcome string

const (
	OutcomeApprove Outcome = "approve"
	OutcomeReject  Outcome = "reject"
)

// SignupRequest is a department staff signup awaiting an admin decision.
// Once decided only the tombstone fields are kept.
type SignupRequest struct {
	ID           string        `bson:"_id" json:"user_id"`
	FullName     string        `bson:"fullName,omitempty" json:"full_name"`
	Email        string        `bson:"email,omitempty" json:"email"`
	Phone        string        `bson:"phone,omitempty" json:"phone,omitempty"`
	Password     string        `bson:"password,omitempty" json:"-"`
	DepartmentID string        `bson:"departmentId" json:"department_id"`
	State        DecisionState `bson:"state" json:"state"`
	Outcome      Outcome       `bson:"outcome,omitempty" json:"outcome,omitempty"`
	DecidedBy    string        `bson:"decidedBy,omitempty" json:"decided_by,omitempty"`
	DecidedAt    *time.Time    `bson:"decidedAt,omitempty" json:"decided_at,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"created_at"`
}

// Pending reports whether the request can still be decided.
func (r *SignupRequest) Pending() bool {
	return r.State == DecisionPending
}
