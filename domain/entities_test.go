package domain

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Role
		ok       bool
	}{
		{"customer", "customer", RoleCustomer, true},
		{"artisan", "artisan", RoleArtisan, true},
		{"distributor", "distributor", RoleDistributor, true},
		{"admin", "admin", RoleAdmin, true},
		{"mixed case", "Artisan", RoleArtisan, true},
		{"surrounding whitespace", "  customer  ", RoleCustomer, true},
		{"unknown role", "superuser", "", false},
		{"empty string", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := ParseRole(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseRole(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if role != tt.expected {
				t.Errorf("ParseRole(%q) = %q, want %q", tt.input, role, tt.expected)
			}
		})
	}
}

func TestRole_RequiresIdentityVerification(t *testing.T) {
	tests := []struct {
		role     Role
		required bool
	}{
		{RoleCustomer, false},
		{RoleArtisan, true},
		{RoleDistributor, true},
		{RoleAdmin, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.RequiresIdentityVerification(); got != tt.required {
				t.Errorf("%s.RequiresIdentityVerification() = %v, want %v", tt.role, got, tt.required)
			}
		})
	}
}

func TestMaskAadhaar(t *testing.T) {
	tests := []struct {
		name      string
		canonical string
		expected  string
	}{
		{"standard number", "234567899012", "XXXX XXXX 9012"},
		{"other last four", "987654321111", "XXXX XXXX 1111"},
		{"wrong length", "12345", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskAadhaar(tt.canonical); got != tt.expected {
				t.Errorf("MaskAadhaar(%q) = %q, want %q", tt.canonical, got, tt.expected)
			}
		})
	}
}

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		name     string
		phone    string
		expected string
	}{
		{"e164 number", "+919876543210", "XXXXXXXXX3210"},
		{"short value passes through", "1234", "1234"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskPhone(tt.phone); got != tt.expected {
				t.Errorf("MaskPhone(%q) = %q, want %q", tt.phone, got, tt.expected)
			}
		})
	}
}
