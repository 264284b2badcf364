package services

import (
	"log"
	"time"

	"github.com/craftconnect/authsvc/domain"
)

// LogAuditLogger implements domain.AuditLogger on the standard logger
// using structured key=value lines.
type LogAuditLogger struct{}

// NewAuditLogger creates the default audit logger.
func NewAuditLogger() domain.AuditLogger {
	return &LogAuditLogger{}
}

// Record implements domain.AuditLogger.
func (l *LogAuditLogger) Record(event domain.AuditEvent) {
	log.Printf("AUDIT: trace=%s actor_id=%d actor_role=%s action=%s resource_type=%s resource_id=%s outcome=%s timestamp=%s",
		event.TraceID, event.ActorID, event.ActorRole, event.Action,
		event.ResourceType, event.ResourceID, event.Outcome,
		event.Timestamp.UTC().Format(time.RFC3339))
}
