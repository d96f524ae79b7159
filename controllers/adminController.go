package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"report2resolve-be/middlewares"
	"report2resolve-be/models"
)

// GetPendingApprovals lists department signup requests awaiting a decision
func (ctl *Controller) GetPendingApprovals(c *gin.Context) {
	pending, err := ctl.Approvals.Pending(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// ApproveRequest turns a pending signup into a department account
func (ctl *Controller) ApproveRequest(c *gin.Context) {
	ctl.decide(c, models.OutcomeApprove)
}

// RejectRequest discards a pending signup
func (ctl *Controller) RejectRequest(c *gin.Context) {
	ctl.decide(c, models.OutcomeReject)
}

func (ctl *Controller) decide(c *gin.Context, outcome models.Outcome) {
	res, err := ctl.Approvals.Decide(c.Request.Context(), middlewares.CurrentPrincipal(c), c.Param("id"), outcome)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "decision": res})
}

// GetAllIssues returns every issue for the admin dashboard
func (ctl *Controller) GetAllIssues(c *gin.Context) {
	issues, err := ctl.Issues.ListAll(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetAllStats counts every issue per status
func (ctl *Controller) GetAllStats(c *gin.Context) {
	counts, err := ctl.Issues.Stats(c.Request.Context(), middlewares.CurrentPrincipal(c), "")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
