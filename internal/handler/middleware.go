package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards mutating routes with the X-API-Key header. A blank key
// turns the check off, which keeps local setups friction-free.
func APIKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		got := strings.TrimSpace(c.GetHeader("X-API-Key"))
		switch {
		case got == "":
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "X-API-Key header required"})
		case got != key:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "API key not recognized"})
		default:
			c.Next()
		}
	}
}
