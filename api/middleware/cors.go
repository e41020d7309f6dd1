// api/middleware/cors.go
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campustrade/campustrade-api/internal/options"
)

// Named CORS policies.
const (
	CorsPolicyCampusTrade = "CampusTradeCors"
	CorsPolicyDevelopment = "DevelopmentCors"
)

var (
	anyMethod = []string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodHead, http.MethodOptions,
	}
	anyHeader = []string{
		"Origin", "Content-Type", "Content-Length", "Accept", "Accept-Language",
		"Authorization", "X-Requested-With", "Cache-Control",
	}
)

// CorsPolicies builds the named policies from configuration.
func CorsPolicies(opts options.CorsOptions) map[string]cors.Config {
	return map[string]cors.Config{
		CorsPolicyCampusTrade: {
			AllowOrigins:     opts.EffectiveOrigins(),
			AllowMethods:     anyMethod,
			AllowHeaders:     anyHeader,
			AllowCredentials: true,
			MaxAge:           30 * time.Minute,
		},
		// Permissive policy for local testing, including file:// pages (Origin: null).
		CorsPolicyDevelopment: {
			AllowAllOrigins: true,
			AllowMethods:    anyMethod,
			AllowHeaders:    anyHeader,
		},
	}
}

// CorsPolicyName picks the policy for the running environment.
func CorsPolicyName(isDevelopment bool) string {
	if isDevelopment {
		return CorsPolicyDevelopment
	}
	return CorsPolicyCampusTrade
}

// CORS returns the middleware for a named policy.
func CORS(policies map[string]cors.Config, name string) gin.HandlerFunc {
	cfg, ok := policies[name]
	if !ok {
		panic(fmt.Sprintf("cors policy %q is not registered", name))
	}
	customLog.Printf("CORS: using policy %s", name)
	return cors.New(cfg)
}
