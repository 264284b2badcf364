// Package mocks provides hand-written func-field mocks for the domain
// interfaces. Unset funcs fall back to a sensible default so tests only
// configure what they assert on.
package mocks

import (
	"context"

	"github.com/craftconnect/authsvc/domain"
)

// MockUserRepository implements domain.UserRepository for testing.
type MockUserRepository struct {
	CreateFunc                   func(ctx context.Context, user *domain.User) error
	FindByPhoneFunc              func(ctx context.Context, phone string) (*domain.User, error)
	FindByIDFunc                 func(ctx context.Context, id uint) (*domain.User, error)
	UpdateFunc                   func(ctx context.Context, user *domain.User) error
	UpdateVerificationFunc       func(ctx context.Context, user *domain.User) error
	ActivatePhoneFunc            func(ctx context.Context, userID uint) error
	UpdatePasswordFunc           func(ctx context.Context, userID uint, passwordHash string) error
	ListPendingVerificationsFunc func(ctx context.Context, roles []domain.Role) ([]*domain.User, error)
}

// NewMockUserRepository creates a new MockUserRepository.
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	if m.FindByPhoneFunc != nil {
		return m.FindByPhoneFunc(ctx, phone)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) UpdateVerification(ctx context.Context, user *domain.User) error {
	if m.UpdateVerificationFunc != nil {
		return m.UpdateVerificationFunc(ctx, user)
	}
	return nil
}

func (m *MockUserRepository) ActivatePhone(ctx context.Context, userID uint) error {
	if m.ActivatePhoneFunc != nil {
		return m.ActivatePhoneFunc(ctx, userID)
	}
	return nil
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID uint, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) ListPendingVerifications(ctx context.Context, roles []domain.Role) ([]*domain.User, error) {
	if m.ListPendingVerificationsFunc != nil {
		return m.ListPendingVerificationsFunc(ctx, roles)
	}
	return nil, nil
}

var _ domain.UserRepository = (*MockUserRepository)(nil)
