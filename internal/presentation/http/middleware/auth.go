package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/codapos/pos-agent/internal/presentation/http/dto/response"
)

// AgentAuthMiddleware guards the agent API with the shared secret the
// front-end is configured with. When no token is configured the agent is
// open, which is the normal localhost setup.
func AgentAuthMiddleware(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided := c.GetHeader("X-Agent-Token")
		if provided == "" {
			authHeader := c.GetHeader("Authorization")
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
				provided = parts[1]
			}
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			response.Unauthorized(c, "Token agen tidak valid")
			c.Abort()
			return
		}

		c.Next()
	}
}
