package mocks

import (
	"sync"

	"github.com/craftconnect/authsvc/domain"
)

// MockAuditLogger implements domain.AuditLogger for testing, recording
// events for assertions.
type MockAuditLogger struct {
	mu     sync.Mutex
	Events []domain.AuditEvent
}

// NewMockAuditLogger creates a new MockAuditLogger.
func NewMockAuditLogger() *MockAuditLogger {
	return &MockAuditLogger{}
}

func (m *MockAuditLogger) Record(event domain.AuditEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Recorded returns a copy of the captured events.
func (m *MockAuditLogger) Recorded() []domain.AuditEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.AuditEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

var _ domain.AuditLogger = (*MockAuditLogger)(nil)
