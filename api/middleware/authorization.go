// api/middleware/authorization.go
package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/campustrade/campustrade-api/internal/auth"
)

// RequirePolicy enforces a named policy on the principal set by JWTBearer.
// It panics at setup time for unknown policy names.
func RequirePolicy(policies auth.Policies, name string) gin.HandlerFunc {
	policy, ok := policies[name]
	if !ok {
		panic(fmt.Sprintf("authorization policy %q is not registered", name))
	}
	return func(c *gin.Context) {
		if err := policy.Evaluate(PrincipalFrom(c)); err != nil {
			customLog.Warnf("Authorization: policy %s denied user '%s': %v", name, UserIDFrom(c), err)
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}
