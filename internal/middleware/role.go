package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole lets through callers whose token role is one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		p, ok := CurrentPrincipal(c)
		switch {
		case !ok || p.Role == "":
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role missing"})
		case !allowed[p.Role]:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		default:
			c.Next()
		}
	}
}
