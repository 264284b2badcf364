package mocks

import (
	"context"

	"github.com/craftconnect/authsvc/domain"
)

// MockArtisanProfileRepository implements domain.ArtisanProfileRepository
// for testing.
type MockArtisanProfileRepository struct {
	CreateFunc     func(ctx context.Context, profile *domain.ArtisanProfile) error
	FindByIDFunc   func(ctx context.Context, id uint) (*domain.ArtisanProfile, error)
	FindByUserFunc func(ctx context.Context, userID uint) (*domain.ArtisanProfile, error)
	UpdateFunc     func(ctx context.Context, profile *domain.ArtisanProfile) error
}

// NewMockArtisanProfileRepository creates a new MockArtisanProfileRepository.
func NewMockArtisanProfileRepository() *MockArtisanProfileRepository {
	return &MockArtisanProfileRepository{}
}

func (m *MockArtisanProfileRepository) Create(ctx context.Context, profile *domain.ArtisanProfile) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, profile)
	}
	return nil
}

func (m *MockArtisanProfileRepository) FindByID(ctx context.Context, id uint) (*domain.ArtisanProfile, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockArtisanProfileRepository) FindByUser(ctx context.Context, userID uint) (*domain.ArtisanProfile, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(ctx, userID)
	}
	return nil, domain.ErrProfileNotFound
}

func (m *MockArtisanProfileRepository) Update(ctx context.Context, profile *domain.ArtisanProfile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, profile)
	}
	return nil
}

var _ domain.ArtisanProfileRepository = (*MockArtisanProfileRepository)(nil)
