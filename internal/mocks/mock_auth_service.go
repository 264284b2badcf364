package mocks

import (
	"context"

	"github.com/craftconnect/authsvc/domain"
)

// MockAuthService implements domain.AuthService for handler tests.
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, name, phone, password string, role domain.Role) (*domain.User, error)
	LoginFunc          func(ctx context.Context, phone, password, deviceInfo string) (*domain.AuthResult, error)
	SendOTPFunc        func(ctx context.Context, phone string) (*domain.OTPTransaction, error)
	VerifyOTPFunc      func(ctx context.Context, phone, code string) (*domain.User, error)
	RefreshTokenFunc   func(ctx context.Context, refreshToken string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, sessionID string) error
	LogoutAllFunc      func(ctx context.Context, userID uint) (int, error)
	GetUserProfileFunc func(ctx context.Context, userID uint) (*domain.User, error)
	ChangePasswordFunc func(ctx context.Context, userID uint, current, next, sessionID string) error
}

// NewMockAuthService creates a new MockAuthService.
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

func (m *MockAuthService) Register(ctx context.Context, name, phone, password string, role domain.Role) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, name, phone, password, role)
	}
	return &domain.User{ID: 1, Name: name, Phone: phone, Role: role, IsActive: true}, nil
}

func (m *MockAuthService) Login(ctx context.Context, phone, password, deviceInfo string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, phone, password, deviceInfo)
	}
	return nil, domain.ErrInvalidCredentials
}

func (m *MockAuthService) SendOTP(ctx context.Context, phone string) (*domain.OTPTransaction, error) {
	if m.SendOTPFunc != nil {
		return m.SendOTPFunc(ctx, phone)
	}
	return &domain.OTPTransaction{TransactionID: "txn_mock"}, nil
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, phone, code string) (*domain.User, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, phone, code)
	}
	return nil, domain.ErrNoVerificationInProgress
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return nil, domain.ErrTokenInvalidOrExpired
}

func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockAuthService) LogoutAll(ctx context.Context, userID uint) (int, error) {
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockAuthService) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	if m.GetUserProfileFunc != nil {
		return m.GetUserProfileFunc(ctx, userID)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockAuthService) ChangePassword(ctx context.Context, userID uint, current, next, sessionID string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, userID, current, next, sessionID)
	}
	return nil
}

var _ domain.AuthService = (*MockAuthService)(nil)
