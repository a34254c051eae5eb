package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vcambrosio/experimentepro-sub000/internal/auth"
)

const principalKey = "principal"

var (
	errMissingHeader = errors.New("missing authorization header")
	errBadScheme     = errors.New("invalid authorization format, use 'Bearer <token>'")
)

// AuthMiddleware validates the bearer token and stores the caller as an auth.Principal
func AuthMiddleware(v *auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var p auth.Principal
			if p, err = v.ValidateToken(token); err == nil {
				c.Set(principalKey, p)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	}
}

// CurrentPrincipal returns the caller attached by AuthMiddleware
func CurrentPrincipal(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}

// UserID is the caller's id, empty on unauthenticated routes
func UserID(c *gin.Context) string {
	p, _ := CurrentPrincipal(c)
	return p.UserID
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" || strings.Contains(token, " ") {
		return "", errBadScheme
	}
	return token, nil
}
