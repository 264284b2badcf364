package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
)

// Context keys set by the authentication stage and read by every gate
// after it.
const (
	ctxUserID    = "user_id"
	ctxUserRole  = "user_role"
	ctxSessionID = "session_id"
	ctxTraceID   = "audit_trace_id"
)

// CurrentUserID returns the authenticated caller's id.
func CurrentUserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// CurrentRole returns the authenticated caller's role.
func CurrentRole(c *gin.Context) (domain.Role, bool) {
	v, ok := c.Get(ctxUserRole)
	if !ok {
		return "", false
	}
	role, ok := v.(domain.Role)
	return role, ok
}

// CurrentSessionID returns the session backing the presented token.
func CurrentSessionID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxSessionID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

// IsAdmin reports whether the caller holds the admin role.
func IsAdmin(c *gin.Context) bool {
	role, ok := CurrentRole(c)
	return ok && role == domain.RoleAdmin
}
