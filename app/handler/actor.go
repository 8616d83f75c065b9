package handler

import (
	"strconv"

	"fitops/internal/service"

	"github.com/gin-gonic/gin"
)

// ContextUserKey is where the auth middleware stores the caller's user id
const ContextUserKey = "user_id"

func actorFrom(c *gin.Context) service.Actor {
	actor := service.Actor{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if raw, ok := c.Get(ContextUserKey); ok {
		if id, ok := raw.(int64); ok {
			actor.UserID = &id
		}
	}
	return actor
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
