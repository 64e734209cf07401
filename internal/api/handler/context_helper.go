package handler

import (
	"github.com/gin-gonic/gin"

	"nodex/backend/pkg/response"
)

// MustGetUserID pulls user_id out of the Gin context. When the auth
// middleware did not inject it, a 401 is written and ok is false; the
// caller should return immediately.
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// MustGetRole pulls role out of the Gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	v, exists := c.Get("role")
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// GetDepartment pulls the optional department claim off the context.
func GetDepartment(c *gin.Context) string {
	v, exists := c.Get("department")
	if !exists {
		return ""
	}
	s, _ := v.(string)
	return s
}
