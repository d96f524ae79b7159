package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"report2resolve-be/middlewares"
	"report2resolve-be/models"
	"report2resolve-be/services"
	"report2resolve-be/workflow"
)

// RegisterUser handles citizen registration
func (ctl *Controller) RegisterUser(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	session, err := ctl.Auth.RegisterCitizen(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	ctl.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, gin.H{"ok": true, "token": session.Token, "user": session.Principal})
}

// DepartmentSignup files a department staff signup for admin approval
func (ctl *Controller) DepartmentSignup(c *gin.Context) {
	var input services.DepartmentSignupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	req, err := ctl.Auth.RequestDepartmentSignup(c.Request.Context(), input)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"ok":         true,
		"request_id": req.ID,
		"message":    "Signup request sent. An admin will review it shortly.",
	})
}

// LoginUser handles user login
func (ctl *Controller) LoginUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}

	session, err := ctl.Auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		fail(c, err)
		return
	}

	ctl.setSessionCookie(c, session)
	c.JSON(http.StatusOK, gin.H{"ok": true, "token": session.Token, "user": session.Principal})
}

// LogoutUser revokes the session token and clears the auth_token cookie
func (ctl *Controller) LogoutUser(c *gin.Context) {
	if err := ctl.Auth.Logout(c.Request.Context(), middlewares.CurrentClaims(c)); err != nil {
		fail(c, workflow.Wrap(workflow.KindTransport, "logout", err))
		return
	}

	c.SetSameSite(ctl.sameSite())
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", ctl.CookieDomain, ctl.SecureCookie, true)
	c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Logged out successfully"})
}

// GetMe retrieves the authenticated user's information
func (ctl *Controller) GetMe(c *gin.Context) {
	user, err := ctl.Auth.Me(c.Request.Context(), middlewares.CurrentPrincipal(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user.Principal(), "email": user.Email, "created_at": user.CreatedAt})
}

// Guard answers whether the caller may enter a portal
func (ctl *Controller) Guard(c *gin.Context) {
	decision := workflow.Decide(middlewares.CurrentPrincipal(c), models.Portal(c.Param("portal")))
	c.JSON(http.StatusOK, decision)
}

func (ctl *Controller) setSessionCookie(c *gin.Context, session *services.Session) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    session.Token,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		Path:     "/",
		Domain:   ctl.CookieDomain,
		Secure:   ctl.SecureCookie,
		HttpOnly: true,
		SameSite: ctl.sameSite(),
	})
}

// sameSite lets the production cookie travel to the separately hosted
// frontend. Browsers only accept None together with Secure.
func (ctl *Controller) sameSite() http.SameSite {
	if ctl.SecureCookie {
		return http.SameSiteNoneMode
	}
	return http.SameSiteLaxMode
}
