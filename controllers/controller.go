package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"report2resolve-be/services"
	"report2resolve-be/workflow"
)

// Controller holds the services the HTTP handlers call.
type Controller struct {
	Auth      *services.AuthService
	Issues    *services.IssueService
	Approvals *services.ApprovalService
	Lookups   *services.LookupService

	// Cookie settings for the session token.
	CookieDomain string
	SecureCookie bool
}

var statusByKind = map[workflow.Kind]int{
	workflow.KindValidation:    http.StatusBadRequest,
	workflow.KindAuthorization: http.StatusForbidden,
	workflow.KindConflict:      http.StatusConflict,
	workflow.KindNotFound:      http.StatusNotFound,
	workflow.KindInvalidTarget: http.StatusUnprocessableEntity,
	workflow.KindTransport:     http.StatusBadGateway,
	workflow.KindUnknown:       http.StatusInternalServerError,
}

// fail writes err in the error body shape the client understands. Transport
// and unknown failures get a generic detail; the cause is only logged.
func fail(c *gin.Context, err error) {
	kind := workflow.KindOf(err)
	status := statusByKind[kind]
	detail := workflow.Message(err)

	switch kind {
	case workflow.KindTransport, workflow.KindUnknown:
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		detail = "Something went wrong"
	case workflow.KindAuthorization:
		if errors.Is(err, workflow.ErrUnauthenticated) {
			status = http.StatusUnauthorized
		}
	}

	c.JSON(status, gin.H{"ok": false, "error": kind.String(), "detail": detail})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": workflow.KindValidation.String(), "detail": err.Error()})
}
