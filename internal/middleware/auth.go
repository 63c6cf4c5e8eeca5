// Package middleware provides HTTP middleware for the paper repository service.
package middleware

import (
	"net/http"
	"strings"

	"github.com/GunarsK-portfolio/paper-repository/internal/models"
	"github.com/GunarsK-portfolio/paper-repository/internal/service"
	"github.com/gin-gonic/gin"
)

const claimsKey = "claims"

// Authenticate rejects requests without a valid bearer token. A missing token is
// answered with 401, an invalid or expired one with 403.
func Authenticate(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		if !setClaims(c, jwtService, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuth treats a request without a token as anonymous but still rejects a
// presented token that fails verification.
func OptionalAuth(jwtService service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" && !setClaims(c, jwtService, token) {
			return
		}
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return requireRole("Admin access required", models.RoleAdmin)
}

// RequireAuthor admits authors and admins. It must run after Authenticate.
func RequireAuthor() gin.HandlerFunc {
	return requireRole("Author access required", models.RoleAuthor, models.RoleAdmin)
}

func requireRole(message string, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
	}
}

// ClaimsFromContext returns the verified token claims of the request, if any.
func ClaimsFromContext(c *gin.Context) (*service.Claims, bool) {
	value, exists := c.Get(claimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*service.Claims)
	return claims, ok
}

// ActorFromContext returns the authenticated actor, or nil for anonymous requests.
func ActorFromContext(c *gin.Context) *service.Actor {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return nil
	}
	actor := claims.Actor()
	return &actor
}

func setClaims(c *gin.Context, jwtService service.JWTService, token string) bool {
	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
		return false
	}
	c.Set(claimsKey, claims)
	return true
}

func extractToken(c *gin.Context) string {
	scheme, token, found := strings.Cut(c.GetHeader("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
