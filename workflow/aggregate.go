package workflow

import "report2resolve-be/models"

// Counts is the number of issues per status bucket.
type Counts struct {
	Submitted int `json:"submitted"`
	Progress  int `json:"progress"`
	Resolved  int `json:"resolved"`
	Rejected  int `json:"rejected"`
	Unknown   int `json:"unknown"`
}

// Active is the number of issues still waiting on a department.
func (c Counts) Active() int { return c.Submitted + c.Progress }

// Total is the number of issues counted.
func (c Counts) Total() int {
	return c.Submitted + c.Progress + c.Resolved + c.Rejected + c.Unknown
}

// GroupAndCount buckets issues by status. Statuses without a category tag are
// classified by display name.
func GroupAndCount(issues []models.Issue) Counts {
	var c Counts
	for i := range issues {
		category, _ := issues[i].Status.Classify()
		switch category {
		case models.CategorySubmitted:
			c.Submitted++
		case models.CategoryInProgress:
			c.Progress++
		case models.CategoryResolved:
			c.Resolved++
		case models.CategoryRejected:
			c.Rejected++
		default:
			c.Unknown++
		}
	}
	return c
}
