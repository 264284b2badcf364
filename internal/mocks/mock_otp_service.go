package mocks

import (
	"context"
	"time"

	"github.com/craftconnect/authsvc/domain"
)

// MockOTPService implements domain.OTPService for testing.
type MockOTPService struct {
	InitiateFunc func(ctx context.Context, scope domain.OTPScope, userID uint, identifier string) (*domain.OTPTransaction, error)
	VerifyFunc   func(ctx context.Context, scope domain.OTPScope, userID uint, code string) (*domain.OTPTransaction, error)
}

// NewMockOTPService creates a new MockOTPService.
func NewMockOTPService() *MockOTPService {
	return &MockOTPService{}
}

func (m *MockOTPService) Initiate(ctx context.Context, scope domain.OTPScope, userID uint, identifier string) (*domain.OTPTransaction, error) {
	if m.InitiateFunc != nil {
		return m.InitiateFunc(ctx, scope, userID, identifier)
	}
	return &domain.OTPTransaction{
		TransactionID: "txn_mock",
		Identifier:    identifier,
		UserID:        userID,
		ExpiresAt:     time.Now().Add(10 * time.Minute),
	}, nil
}

func (m *MockOTPService) Verify(ctx context.Context, scope domain.OTPScope, userID uint, code string) (*domain.OTPTransaction, error) {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(ctx, scope, userID, code)
	}
	return nil, domain.ErrNoVerificationInProgress
}

var _ domain.OTPService = (*MockOTPService)(nil)
