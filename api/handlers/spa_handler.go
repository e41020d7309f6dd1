// api/handlers/spa_handler.go
package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/campustrade/campustrade-api/api/middleware"
	"github.com/campustrade/campustrade-api/internal/auth"
	"github.com/campustrade/campustrade-api/internal/webroute"
)

// SPAHandler answers deep links into the client application. It resolves
// the path against the client route table and applies the same navigation
// guard as the client router before serving index.html.
type SPAHandler struct {
	Routes  *webroute.Table
	Tokens  *auth.TokenService
	DistDir string
}

func NewSPAHandler(routes *webroute.Table, tokens *auth.TokenService, distDir string) *SPAHandler {
	return &SPAHandler{Routes: routes, Tokens: tokens, DistDir: distDir}
}

// ClientRoutes exposes the route table.
func (h *SPAHandler) ClientRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"routes": h.Routes.Routes()})
}

// Serve is installed as the NoRoute handler.
func (h *SPAHandler) Serve(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	match, ok := h.Routes.Match(c.Request.URL.Path)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	decision := webroute.BeforeEach(match.Route, h.isLoggedIn(c))
	if !decision.Proceed() {
		c.Redirect(http.StatusFound, decision.Redirect)
		return
	}

	if h.DistDir != "" {
		index := filepath.Join(h.DistDir, "index.html")
		if _, err := os.Stat(index); err == nil {
			c.File(index)
			return
		}
		customLog.Warnf("SPA: %s not found", index)
	}

	// No build output: describe the resolved route instead.
	c.JSON(http.StatusOK, gin.H{
		"route":  match.Route.Name,
		"view":   match.Route.View,
		"params": match.Params,
	})
}

// isLoggedIn mirrors the client's auth state: a valid, non-revoked access
// token in the session cookie or, failing that, the Authorization header.
func (h *SPAHandler) isLoggedIn(c *gin.Context) bool {
	ctx := c.Request.Context()
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		if _, err := h.Tokens.Authenticate(ctx, token); err == nil {
			return true
		}
	}
	token, err := middleware.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		return false
	}
	_, err = h.Tokens.Authenticate(ctx, token)
	return err == nil
}
