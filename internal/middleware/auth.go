package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"zapcrm/pkg/respond"
)

// APIToken guards the service endpoints with a shared static token, accepted
// either as X-API-Token or as a Bearer credential. Comparison is constant-time.
// An empty configured token disables the check, which is only sensible in
// local development.
func APIToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		presented := c.GetHeader("X-API-Token")
		if presented == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				presented = strings.TrimPrefix(auth, "Bearer ")
			}
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			respond.Fail(c, 401, "invalid or missing API token")
			c.Abort()
			return
		}
		c.Next()
	}
}
