package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireRole rejects callers whose token role is not in the allowed
// set. Must run after AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, ok := c.Get("role")
		if !ok {
			forbidden(c)
			return
		}

		roleStr, ok := role.(string)
		if !ok || !allowed[roleStr] {
			forbidden(c)
			return
		}

		c.Next()
	}
}

func forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
	c.Abort()
}
