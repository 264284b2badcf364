package mocks

import (
	"time"

	"github.com/craftconnect/authsvc/domain"
)

// MockTokenService implements domain.TokenService for testing.
type MockTokenService struct {
	GenerateAccessTokenFunc  func(userID uint, role domain.Role, sessionID string) (string, error)
	GenerateRefreshTokenFunc func(userID uint, role domain.Role, sessionID string) (string, string, error)
	ValidateAccessTokenFunc  func(token string) (*domain.TokenClaims, error)
	ValidateRefreshTokenFunc func(token string) (*domain.TokenClaims, error)
	AccessTTLValue           time.Duration
	RefreshTTLValue          time.Duration
}

// NewMockTokenService creates a new MockTokenService with 15m/168h TTLs.
func NewMockTokenService() *MockTokenService {
	return &MockTokenService{
		AccessTTLValue:  15 * time.Minute,
		RefreshTTLValue: 168 * time.Hour,
	}
}

func (m *MockTokenService) GenerateAccessToken(userID uint, role domain.Role, sessionID string) (string, error) {
	if m.GenerateAccessTokenFunc != nil {
		return m.GenerateAccessTokenFunc(userID, role, sessionID)
	}
	return "access_token", nil
}

func (m *MockTokenService) GenerateRefreshToken(userID uint, role domain.Role, sessionID string) (string, string, error) {
	if m.GenerateRefreshTokenFunc != nil {
		return m.GenerateRefreshTokenFunc(userID, role, sessionID)
	}
	return "refresh_token", "jti", nil
}

func (m *MockTokenService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateAccessTokenFunc != nil {
		return m.ValidateAccessTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalidOrExpired
}

func (m *MockTokenService) ValidateRefreshToken(token string) (*domain.TokenClaims, error) {
	if m.ValidateRefreshTokenFunc != nil {
		return m.ValidateRefreshTokenFunc(token)
	}
	return nil, domain.ErrTokenInvalidOrExpired
}

func (m *MockTokenService) AccessTTL() time.Duration { return m.AccessTTLValue }

func (m *MockTokenService) RefreshTTL() time.Duration { return m.RefreshTTLValue }

var _ domain.TokenService = (*MockTokenService)(nil)
