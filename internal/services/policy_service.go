package services

import (
	"github.com/casbin/casbin/v2"

	"github.com/craftconnect/authsvc/domain"
)

// CasbinEnforcerWrapper wraps the real Casbin enforcer to implement our interface.
type CasbinEnforcerWrapper struct {
	enforcer *casbin.Enforcer
}

// NewCasbinEnforcerWrapper creates a wrapper for the real Casbin enforcer.
func NewCasbinEnforcerWrapper(enforcer *casbin.Enforcer) domain.CasbinEnforcer {
	return &CasbinEnforcerWrapper{enforcer: enforcer}
}

func (w *CasbinEnforcerWrapper) AddPolicy(params ...interface{}) (bool, error) {
	return w.enforcer.AddPolicy(params...)
}

func (w *CasbinEnforcerWrapper) RemovePolicy(params ...interface{}) (bool, error) {
	return w.enforcer.RemovePolicy(params...)
}

func (w *CasbinEnforcerWrapper) Enforce(rvals ...interface{}) (bool, error) {
	return w.enforcer.Enforce(rvals...)
}

func (w *CasbinEnforcerWrapper) GetPolicy() ([][]string, error) {
	return w.enforcer.GetPolicy()
}

func (w *CasbinEnforcerWrapper) SavePolicy() error {
	return w.enforcer.SavePolicy()
}

// PolicyServiceImpl implements domain.PolicyService using Casbin. Roles
// come from the closed domain enum so a typo cannot mint a policy.
type PolicyServiceImpl struct {
	enforcer domain.CasbinEnforcer
}

// NewPolicyService creates a new policy service.
func NewPolicyService(enforcer *casbin.Enforcer) domain.PolicyService {
	return &PolicyServiceImpl{
		enforcer: NewCasbinEnforcerWrapper(enforcer),
	}
}

// NewPolicyServiceWithEnforcer creates a policy service from an interface (for testing).
func NewPolicyServiceWithEnforcer(enforcer domain.CasbinEnforcer) domain.PolicyService {
	return &PolicyServiceImpl{enforcer: enforcer}
}

// CasbinSubject renders a role in the subject form stored in policies.
func CasbinSubject(role domain.Role) string {
	return "role_" + string(role)
}

// AddPolicy implements domain.PolicyService.
func (p *PolicyServiceImpl) AddPolicy(role domain.Role, resource, action string) error {
	_, err := p.enforcer.AddPolicy(CasbinSubject(role), resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// RemovePolicy implements domain.PolicyService.
func (p *PolicyServiceImpl) RemovePolicy(role domain.Role, resource, action string) error {
	_, err := p.enforcer.RemovePolicy(CasbinSubject(role), resource, action)
	if err != nil {
		return err
	}
	return p.enforcer.SavePolicy()
}

// CheckPermission implements domain.PolicyService.
func (p *PolicyServiceImpl) CheckPermission(role domain.Role, resource, action string) (bool, error) {
	return p.enforcer.Enforce(CasbinSubject(role), resource, action)
}

// GetPolicies implements domain.PolicyService.
func (p *PolicyServiceImpl) GetPolicies() ([][]string, error) {
	return p.enforcer.GetPolicy()
}
