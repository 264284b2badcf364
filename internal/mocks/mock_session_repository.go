package mocks

import (
	"context"

	"github.com/craftconnect/authsvc/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing.
type MockSessionRepository struct {
	CreateFunc           func(ctx context.Context, session *domain.Session) error
	FindByIDFunc         func(ctx context.Context, sessionID string) (*domain.Session, error)
	RotateFunc           func(ctx context.Context, oldID string, session *domain.Session) error
	DeleteFunc           func(ctx context.Context, sessionID string) error
	DeleteAllForUserFunc func(ctx context.Context, userID uint) (int, error)
	ListByUserFunc       func(ctx context.Context, userID uint) ([]*domain.Session, error)
	PruneUserIndexFunc   func(ctx context.Context, userID uint) (int, error)
	UserIDsFunc          func(ctx context.Context) ([]uint, error)
}

// NewMockSessionRepository creates a new MockSessionRepository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	return nil
}

func (m *MockSessionRepository) FindByID(ctx context.Context, sessionID string) (*domain.Session, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, sessionID)
	}
	return nil, domain.ErrSessionNotFound
}

func (m *MockSessionRepository) Rotate(ctx context.Context, oldID string, session *domain.Session) error {
	if m.RotateFunc != nil {
		return m.RotateFunc(ctx, oldID, session)
	}
	return nil
}

func (m *MockSessionRepository) Delete(ctx context.Context, sessionID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, sessionID)
	}
	return nil
}

func (m *MockSessionRepository) DeleteAllForUser(ctx context.Context, userID uint) (int, error) {
	if m.DeleteAllForUserFunc != nil {
		return m.DeleteAllForUserFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID uint) ([]*domain.Session, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockSessionRepository) PruneUserIndex(ctx context.Context, userID uint) (int, error) {
	if m.PruneUserIndexFunc != nil {
		return m.PruneUserIndexFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockSessionRepository) UserIDs(ctx context.Context) ([]uint, error) {
	if m.UserIDsFunc != nil {
		return m.UserIDsFunc(ctx)
	}
	return nil, nil
}

var _ domain.SessionRepository = (*MockSessionRepository)(nil)
