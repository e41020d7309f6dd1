package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Keys set on the gin context by JWTBearer.
const (
	ContextUserID      = "userId"
	ContextClaims      = "claims"
	ContextPrincipal   = "principal"
	ContextAccessToken = "accessToken"
)

// PrincipalFrom returns the authenticated principal, or nil.
func PrincipalFrom(c *gin.Context) *auth.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*auth.Principal)
	return p
}

// ClaimsFrom returns the validated token claims, or nil.
func ClaimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// UserIDFrom returns the authenticated user id, or "".
func UserIDFrom(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
