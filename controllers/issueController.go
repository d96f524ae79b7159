package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"report2resolve-be/middlewares"
	"report2resolve-be/models"
	"report2resolve-be/services"
)

// CreateIssue files an issue for a citizen or a guest
func (ctl *Controller) CreateIssue(c *gin.Context) {
	var input services.CreateIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	issue, err := ctl.Issues.Create(c.Request.Context(), middlewares.CurrentPrincipal(c), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "issue": issue})
}

// GetMyIssues returns the issues the signed-in citizen reported
func (ctl *Controller) GetMyIssues(c *gin.Context) {
	issues, err := ctl.Issues.ListOwn(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetDepartmentIssues returns one tab of a department's issues
func (ctl *Controller) GetDepartmentIssues(c *gin.Context) {
	tab := models.IssueTab(c.DefaultQuery("tab", string(models.TabActive)))
	issues, err := ctl.Issues.ListDepartment(c.Request.Context(), middlewares.CurrentPrincipal(c), c.Param("dept"), tab)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, issues)
}

// GetDepartmentStats counts a department's issues per status
func (ctl *Controller) GetDepartmentStats(c *gin.Context) {
	counts, err := ctl.Issues.Stats(c.Request.Context(), middlewares.CurrentPrincipal(c), c.Param("dept"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// UpdateIssueStatus moves an issue through the status workflow
func (ctl *Controller) UpdateIssueStatus(c *gin.Context) {
	var input services.UpdateStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	issue, err := ctl.Issues.UpdateStatus(c.Request.Context(), middlewares.CurrentPrincipal(c), c.Param("id"), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "issue": issue})
}

// GetStatuses returns the status vocabulary
func (ctl *Controller) GetStatuses(c *gin.Context) {
	statuses, err := ctl.Issues.Statuses(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
