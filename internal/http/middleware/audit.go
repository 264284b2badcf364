package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/craftconnect/authsvc/domain"
)

// Audit assigns each request a trace id, exposes it via the
// X-Audit-Trail response header, and records the final outcome of the
// security pipeline. It runs ahead of the authorization stages so that
// their denials are captured too.
func Audit(logger domain.AuditLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := uuid.NewString()
		c.Set(ctxTraceID, traceID)
		c.Writer.Header().Set("X-Audit-Trail", traceID)

		c.Next()

		actorID, _ := CurrentUserID(c)
		role, _ := CurrentRole(c)
		outcome := "allowed"
		if c.Writer.Status() >= http.StatusBadRequest {
			outcome = "denied"
		}

		logger.Record(domain.AuditEvent{
			TraceID:      traceID,
			ActorID:      actorID,
			ActorRole:    role,
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: resourceTypeOf(c),
			ResourceID:   c.Param("id"),
			Outcome:      outcome,
			Timestamp:    time.Now(),
		})
	}
}

// TraceID returns the request's audit trace identifier.
func TraceID(c *gin.Context) string {
	if v, ok := c.Get(ctxTraceID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func resourceTypeOf(c *gin.Context) string {
	path := c.FullPath()
	if path == "" {
		path = c.Request.URL.Path
	}
	switch {
	case strings.Contains(path, "/addresses"):
		return "address"
	case strings.Contains(path, "/artisans"):
		return "artisanProfile"
	case strings.Contains(path, "/verification"):
		return "verification"
	case strings.Contains(path, "/users"):
		return "user"
	case strings.Contains(path, "/auth"):
		return "auth"
	case strings.Contains(path, "/admin"):
		return "admin"
	default:
		return "unknown"
	}
}
