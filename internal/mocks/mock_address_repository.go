package mocks

import (
	"context"

	"github.com/craftconnect/authsvc/domain"
)

// MockAddressRepository implements domain.AddressRepository for testing.
type MockAddressRepository struct {
	ListByUserFunc  func(ctx context.Context, userID uint) ([]*domain.Address, error)
	FindByIDFunc    func(ctx context.Context, id uint) (*domain.Address, error)
	CreateFunc      func(ctx context.Context, addr *domain.Address) error
	UpdateFunc      func(ctx context.Context, addr *domain.Address) error
	DeleteFunc      func(ctx context.Context, userID, id uint) error
	SetDefaultFunc  func(ctx context.Context, userID, id uint) error
	FindDefaultFunc func(ctx context.Context, userID uint) (*domain.Address, error)
}

// NewMockAddressRepository creates a new MockAddressRepository.
func NewMockAddressRepository() *MockAddressRepository {
	return &MockAddressRepository{}
}

func (m *MockAddressRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Address, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockAddressRepository) FindByID(ctx context.Context, id uint) (*domain.Address, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrAddressNotFound
}

func (m *MockAddressRepository) Create(ctx context.Context, addr *domain.Address) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, addr)
	}
	return nil
}

func (m *MockAddressRepository) Update(ctx context.Context, addr *domain.Address) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, addr)
	}
	return domain.ErrAddressNotFound
}

func (m *MockAddressRepository) Delete(ctx context.Context, userID, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, id)
	}
	return domain.ErrAddressNotFound
}

func (m *MockAddressRepository) SetDefault(ctx context.Context, userID, id uint) error {
	if m.SetDefaultFunc != nil {
		return m.SetDefaultFunc(ctx, userID, id)
	}
	return domain.ErrAddressNotFound
}

func (m *MockAddressRepository) FindDefault(ctx context.Context, userID uint) (*domain.Address, error) {
	if m.FindDefaultFunc != nil {
		return m.FindDefaultFunc(ctx, userID)
	}
	return nil, domain.ErrAddressNotFound
}

var _ domain.AddressRepository = (*MockAddressRepository)(nil)
