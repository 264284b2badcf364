package mocks

import "github.com/craftconnect/authsvc/domain"

// MockPolicyService implements domain.PolicyService for testing.
type MockPolicyService struct {
	AddPolicyFunc       func(role domain.Role, resource, action string) error
	RemovePolicyFunc    func(role domain.Role, resource, action string) error
	CheckPermissionFunc func(role domain.Role, resource, action string) (bool, error)
	GetPoliciesFunc     func() ([][]string, error)
}

// NewMockPolicyService creates a new MockPolicyService.
func NewMockPolicyService() *MockPolicyService {
	return &MockPolicyService{}
}

func (m *MockPolicyService) AddPolicy(role domain.Role, resource, action string) error {
	if m.AddPolicyFunc != nil {
		return m.AddPolicyFunc(role, resource, action)
	}
	return nil
}

func (m *MockPolicyService) RemovePolicy(role domain.Role, resource, action string) error {
	if m.RemovePolicyFunc != nil {
		return m.RemovePolicyFunc(role, resource, action)
	}
	return nil
}

func (m *MockPolicyService) CheckPermission(role domain.Role, resource, action string) (bool, error) {
	if m.CheckPermissionFunc != nil {
		return m.CheckPermissionFunc(role, resource, action)
	}
	return true, nil
}

func (m *MockPolicyService) GetPolicies() ([][]string, error) {
	if m.GetPoliciesFunc != nil {
		return m.GetPoliciesFunc()
	}
	return nil, nil
}

var _ domain.PolicyService = (*MockPolicyService)(nil)
