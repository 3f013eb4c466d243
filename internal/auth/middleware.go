package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gymhub/internal/principal"
)

const principalContextKey = "caller_principal"

// Middleware validates the bearer token and stores the caller's parsed
// Principal in the gin context.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is empty"})
			c.Abort()
			return
		}

		claims, err := ValidateToken(tokenString, secret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or malformed token"})
			}
			c.Abort()
			return
		}

		caller, err := principal.FromText(claims.Principal)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token carries no valid principal"})
			c.Abort()
			return
		}

		c.Set(principalContextKey, caller)
		c.Next()
	}
}

// CallerPrincipal returns the authenticated caller stored by Middleware.
func CallerPrincipal(c *gin.Context) (principal.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return principal.Principal{}, false
	}

	p, ok := value.(principal.Principal)
	if !ok || p.IsZero() {
		return principal.Principal{}, false
	}
	return p, true
}

// SetCallerPrincipal injects a caller identity directly. Test helper.
func SetCallerPrincipal(c *gin.Context, p principal.Principal) {
	c.Set(principalContextKey, p)
}
