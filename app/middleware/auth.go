package middleware

import (
	"net/http"
	"strings"

	"fitops/pkg/logger"
	"fitops/pkg/serviceclient"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const userValidationPath = "/api/auth/user"

// ContextUserKey is where the validated caller's user id is stored
const ContextUserKey = "user_id"

// Auth validates bearer tokens against the auth service. A missing token is
// 401; an unconfigured or unreachable auth service is 503, never a silent
// pass-through.
func Auth(authClient *serviceclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" || token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Authentication token required",
			})
			return
		}

		if authClient == nil || !authClient.Configured() {
			logger.ErrorCtx(c.Request.Context(), "auth service not configured, rejecting request")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Authentication service unavailable",
			})
			return
		}

		result, err := authClient.GetAuthorized(c.Request.Context(), userValidationPath, token)
		if err != nil {
			if result != nil && result.StatusCode >= 400 && result.StatusCode < 500 {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"success": false,
					"message": "Invalid token",
				})
				return
			}
			logger.ErrorCtx(c.Request.Context(), "token validation failed: %v", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"message": "Authentication service unavailable",
			})
			return
		}

		if id := userIDFrom(result.Data); id > 0 {
			c.Set(ContextUserKey, id)
		}

		c.Next()
	}
}

// userIDFrom digs the user id out of the auth service's response; the
// payload nests the user object under "user" on some versions
func userIDFrom(data map[string]interface{}) int64 {
	if data == nil {
		return 0
	}
	if nested, ok := data["user"].(map[string]interface{}); ok {
		data = nested
	}
	for _, key := range []string{"user_id", "id"} {
		if raw, ok := data[key]; ok {
			if id := cast.ToInt64(raw); id > 0 {
				return id
			}
		}
	}
	return 0
}
