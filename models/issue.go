package models

import (
	"strings"
	"time"
)

// StatusCategory is the stable tag a status belongs to, independent of its
// display name.
type StatusCategory string

const (
	CategorySubmitted  StatusCategory = "submitted"
	CategoryInProgress StatusCategory = "in_progress"
	CategoryResolved   StatusCategory = "resolved"
	CategoryRejected   StatusCategory = "rejected"
)

// Terminal reports whether no transition may leave the category.
func (c StatusCategory) Terminal() bool {
	return c == CategoryResolved || c == CategoryRejected
}

// Status is one entry of the backend status vocabulary.
type Status struct {
	ID       string         `bson:"_id" json:"status_id"`
	Name     string         `bson:"status_name" json:"status_name"`
	Category StatusCategory `bson:"category,omitempty" json:"category,omitempty"`
}

// DefaultStatuses is the vocabulary seeded into an empty store.
var DefaultStatuses = []Status{
	{ID: "submitted", Name: "Submitted", Category: CategorySubmitted},
	{ID: "in-progress", Name: "In Progress", Category: CategoryInProgress},
	{ID: "resolved", Name: "Resolved", Category: CategoryResolved},
	{ID: "rejected", Name: "Rejected", Category: CategoryRejected},
}

// ClassifyStatusName maps a display name onto a category. It only exists for
// statuses that reached us without a category tag.
func ClassifyStatusName(name string) (StatusCategory, bool) {
	s := strings.ToLower(strings.TrimSpace(name))
	switch {
	case s == "":
		return "", false
	case s == "submitted" || s == "submit":
		return CategorySubmitted, true
	case strings.Contains(s, "progress"):
		return CategoryInProgress, true
	case s == "resolved" || strings.Contains(s, "complete"):
		return CategoryResolved, true
	case s == "rejected" || strings.Contains(s, "reject"):
		return CategoryRejected, true
	}
	return "", false
}

// Classify returns the status category, preferring the explicit tag.
func (s Status) Classify() (StatusCategory, bool) {
	switch s.Category {
	case CategorySubmitted, CategoryInProgress, CategoryResolved, CategoryRejected:
		return s.Category, true
	}
	return ClassifyStatusName(s.Name)
}

// IssueTab is a department dashboard listing.
type IssueTab string

const (
	TabActive   IssueTab = "active"
	TabResolved IssueTab = "resolved"
	TabRejected IssueTab = "rejected"
)

// Categories returns the status categories listed under the tab.
func (t IssueTab) Categories() ([]StatusCategory, bool) {
	switch t {
	case TabActive:
		return []StatusCategory{CategorySubmitted, CategoryInProgress}, true
	case TabResolved:
		return []StatusCategory{CategoryResolved}, true
	case TabRejected:
		return []StatusCategory{CategoryRejected}, true
	}
	return nil, false
}

// AuditEntry records one status transition.
type AuditEntry struct {
	Previous Status    `bson:"previous" json:"previous"`
	Next     Status    `bson:"next" json:"next"`
	ActorID  string    `bson:"actorId" json:"updated_by"`
	At       time.Time `bson:"at" json:"at"`
	Remark   string    `bson:"remark" json:"remarks"`
}

// Issue represents a problem reported by a citizen or a guest
type Issue struct {
	ID           string       `bson:"_id" json:"issue_id"`
	Title        string       `bson:"title" json:"title"`
	Description  string       `bson:"description" json:"description"`
	CategoryID   string       `bson:"categoryId" json:"category_id"`
	DepartmentID string       `bson:"departmentId" json:"department_id"`
	LocationID   string       `bson:"locationId" json:"location_id"`
	CreatedBy    *string      `bson:"createdBy,omitempty" json:"user_id"`
	Status       Status       `bson:"status" json:"issue_status"`
	Remarks      string       `bson:"remarks" json:"remarks"`
	Images       []string     `bson:"images,omitempty" json:"images,omitempty"`
	History      []AuditEntry `bson:"history" json:"history"`
	CreatedAt    time.Time    `bson:"createdAt" json:"created_at"`
	UpdatedAt    time.Time    `bson:"updatedAt" json:"updated_at"`
}

// Guest reports whether the issue was submitted without an account.
func (i *Issue) Guest() bool {
	return i.CreatedBy == nil
}
