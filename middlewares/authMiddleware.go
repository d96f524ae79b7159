package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"report2resolve-be/models"
	authUtils "report2resolve-be/utils"
)

const (
	// AuthCookie carries the session token for browser clients.
	AuthCookie = "auth_token"

	principalKey = "principal"
	claimsKey    = "claims"
)

// Authenticator resolves the session token of a request.
type Authenticator struct {
	Tokens      *authUtils.TokenIssuer
	Revocations *authUtils.Revocations
}

// RequireAuth rejects requests without a valid, unrevoked session token.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.resolve(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized", "detail": "Invalid authorization token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth resolves a token if one is present and otherwise lets the
// request through as a guest.
func (a *Authenticator) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString(c) != "" && !a.resolve(c) {
			c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized", "detail": "Invalid authorization token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (a *Authenticator) resolve(c *gin.Context) bool {
	raw := tokenString(c)
	if raw == "" {
		return false
	}

	claims, err := a.Tokens.ParseToken(raw)
	if err != nil {
		logrus.WithError(err).Debug("Token validation failed")
		return false
	}

	revoked, err := a.Revocations.IsRevoked(c.Request.Context(), claims.Id)
	if err != nil {
		logrus.WithError(err).Warn("revocation check failed")
		return false
	}
	if revoked {
		return false
	}

	p := claims.Principal()
	if !p.Authenticated() {
		return false
	}
	c.Set(principalKey, &p)
	c.Set(claimsKey, claims)
	return true
}

func tokenString(c *gin.Context) string {
	if header := c.Request.Header.Get("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie, err := c.Cookie(AuthCookie); err == nil {
		return cookie
	}
	return ""
}

// CurrentPrincipal returns the principal resolved for the request, or nil
// for guests.
func CurrentPrincipal(c *gin.Context) *models.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*models.Principal)
	return p
}

// CurrentClaims returns the token claims resolved for the request.
func CurrentClaims(c *gin.Context) *authUtils.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*authUtils.Claims)
	return claims
}
