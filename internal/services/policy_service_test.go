package services

import (
	"errors"
	"testing"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/mocks"
)

func TestCasbinSubject(t *testing.T) {
	tests := []struct {
		role domain.Role
		want string
	}{
		{domain.RoleCustomer, "role_customer"},
		{domain.RoleArtisan, "role_artisan"},
		{domain.RoleDistributor, "role_distributor"},
		{domain.RoleAdmin, "role_admin"},
	}
	for _, tt := range tests {
		if got := CasbinSubject(tt.role); got != tt.want {
			t.Errorf("CasbinSubject(%s) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestPolicyService_AddPolicy(t *testing.T) {
	var added []interface{}
	saved := false
	enforcer := &mocks.MockCasbinEnforcer{
		AddPolicyFunc: func(params ...interface{}) (bool, error) {
			added = params
			return true, nil
		},
		SavePolicyFunc: func() error {
			saved = true
			return nil
		},
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy(domain.RoleArtisan, "/api/artisans", "POST"); err != nil {
		t.Fatalf("AddPolicy: %v", err)
	}
	if len(added) != 3 || added[0] != "role_artisan" || added[1] != "/api/artisans" || added[2] != "POST" {
		t.Errorf("policy row = %v", added)
	}
	if !saved {
		t.Error("AddPolicy must persist the policy table")
	}
}

func TestPolicyService_AddPolicy_EnforcerError(t *testing.T) {
	boom := errors.New("adapter down")
	enforcer := &mocks.MockCasbinEnforcer{
		AddPolicyFunc: func(params ...interface{}) (bool, error) {
			return false, boom
		},
		SavePolicyFunc: func() error {
			t.Fatal("must not save after a failed add")
			return nil
		},
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.AddPolicy(domain.RoleCustomer, "/api/things", "GET"); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestPolicyService_RemovePolicy(t *testing.T) {
	var removed []interface{}
	saved := false
	enforcer := &mocks.MockCasbinEnforcer{
		RemovePolicyFunc: func(params ...interface{}) (bool, error) {
			removed = params
			return true, nil
		},
		SavePolicyFunc: func() error {
			saved = true
			return nil
		},
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	if err := svc.RemovePolicy(domain.RoleArtisan, "/api/artisans", "POST"); err != nil {
		t.Fatalf("RemovePolicy: %v", err)
	}
	if len(removed) != 3 || removed[0] != "role_artisan" {
		t.Errorf("policy row = %v", removed)
	}
	if !saved {
		t.Error("RemovePolicy must persist the policy table")
	}
}

func TestPolicyService_CheckPermission(t *testing.T) {
	enforcer := &mocks.MockCasbinEnforcer{
		EnforceFunc: func(rvals ...interface{}) (bool, error) {
			return rvals[0] == "role_admin", nil
		},
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	allowed, err := svc.CheckPermission(domain.RoleAdmin, "/api/admin/policies", "GET")
	if err != nil || !allowed {
		t.Errorf("admin check = %v, %v, want true, nil", allowed, err)
	}
	allowed, err = svc.CheckPermission(domain.RoleCustomer, "/api/admin/policies", "GET")
	if err != nil || allowed {
		t.Errorf("customer check = %v, %v, want false, nil", allowed, err)
	}
}

func TestPolicyService_GetPolicies(t *testing.T) {
	rows := [][]string{
		{"role_admin", "/*", "(GET|POST|PUT|DELETE|PATCH)"},
		{"role_artisan", "/api/artisans", "POST"},
	}
	enforcer := &mocks.MockCasbinEnforcer{
		GetPolicyFunc: func() ([][]string, error) {
			return rows, nil
		},
	}
	svc := NewPolicyServiceWithEnforcer(enforcer)

	got, err := svc.GetPolicies()
	if err != nil {
		t.Fatalf("GetPolicies: %v", err)
	}
	if len(got) != 2 || got[1][0] != "role_artisan" {
		t.Errorf("policies = %v", got)
	}
}
