package mocks

import (
	"context"

	"github.com/craftconnect/authsvc/domain"
)

// MockVerificationService implements domain.VerificationService for
// handler tests.
type MockVerificationService struct {
	InitiateAadhaarFunc func(ctx context.Context, userID uint, aadhaarNumber string) (*domain.OTPTransaction, error)
	VerifyAadhaarFunc   func(ctx context.Context, userID uint, code string) (*domain.User, error)
	StatusFunc          func(ctx context.Context, userID uint) (*domain.User, error)
	ManualVerifyFunc    func(ctx context.Context, adminID, userID uint, note string) (*domain.User, error)
	ListPendingFunc     func(ctx context.Context) ([]*domain.User, error)
}

// NewMockVerificationService creates a new MockVerificationService.
func NewMockVerificationService() *MockVerificationService {
	return &MockVerificationService{}
}

func (m *MockVerificationService) InitiateAadhaar(ctx context.Context, userID uint, aadhaarNumber string) (*domain.OTPTransaction, error) {
	if m.InitiateAadhaarFunc != nil {
		return m.InitiateAadhaarFunc(ctx, userID, aadhaarNumber)
	}
	return &domain.OTPTransaction{TransactionID: "txn_mock"}, nil
}

func (m *MockVerificationService) VerifyAadhaar(ctx context.Context, userID uint, code string) (*domain.User, error) {
	if m.VerifyAadhaarFunc != nil {
		return m.VerifyAadhaarFunc(ctx, userID, code)
	}
	return nil, domain.ErrNoVerificationInProgress
}

func (m *MockVerificationService) Status(ctx context.Context, userID uint) (*domain.User, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockVerificationService) ManualVerify(ctx context.Context, adminID, userID uint, note string) (*domain.User, error) {
	if m.ManualVerifyFunc != nil {
		return m.ManualVerifyFunc(ctx, adminID, userID, note)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockVerificationService) ListPending(ctx context.Context) ([]*domain.User, error) {
	if m.ListPendingFunc != nil {
		return m.ListPendingFunc(ctx)
	}
	return nil, nil
}

var _ domain.VerificationService = (*MockVerificationService)(nil)
