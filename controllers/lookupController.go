package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (ctl *Controller) GetCategories(c *gin.Context) {
	categories, err := ctl.Lookups.Categories(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (ctl *Controller) GetDepartments(c *gin.Context) {
	departments, err := ctl.Lookups.Departments(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, departments)
}
