package mocks

import (
	"context"

	"github.com/craftconnect/authsvc/domain"
)

// MockNotificationService implements domain.NotificationService for
// testing. Sent messages are recorded for assertions.
type MockNotificationService struct {
	SendSMSFunc func(ctx context.Context, to, message string) error
	Sent        []SentSMS
}

// SentSMS is one recorded delivery.
type SentSMS struct {
	To      string
	Message string
}

// NewMockNotificationService creates a new MockNotificationService.
func NewMockNotificationService() *MockNotificationService {
	return &MockNotificationService{}
}

func (m *MockNotificationService) SendSMS(ctx context.Context, to, message string) error {
	if m.SendSMSFunc != nil {
		return m.SendSMSFunc(ctx, to, message)
	}
	m.Sent = append(m.Sent, SentSMS{To: to, Message: message})
	return nil
}

var _ domain.NotificationService = (*MockNotificationService)(nil)
