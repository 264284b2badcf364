package domain

import (
	"strings"
	"time"
)

// Role is the closed set of marketplace roles. Roles are assigned at
// registration and never change through self-service updates.
type Role string

const (
	RoleCustomer    Role = "customer"
	RoleArtisan     Role = "artisan"
	RoleDistributor Role = "distributor"
	RoleAdmin       Role = "admin"
)

// ParseRole maps a request string onto the closed role set.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleArtisan:
		return RoleArtisan, true
	case RoleDistributor:
		return RoleDistributor, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// RequiresIdentityVerification reports whether the role must complete
// Aadhaar identity verification before selling on the platform.
func (r Role) RequiresIdentityVerification() bool {
	return r == RoleArtisan || r == RoleDistributor
}

// IdentityStatus tracks the Aadhaar verification state machine.
type IdentityStatus string

const (
	IdentityNotStarted IdentityStatus = "not_started"
	IdentityPending    IdentityStatus = "pending"
	IdentityVerified   IdentityStatus = "verified"
	IdentityFailed     IdentityStatus = "failed"
)

// User represents a marketplace identity record.
type User struct {
	ID                 uint
	Name               string
	Phone              string
	PasswordHash       string
	Role               Role
	IsActive           bool
	IsPhoneVerified    bool
	IsIdentityVerified bool

	IdentityStatus     IdentityStatus
	IdentityTxnID      string
	MaskedAadhaar      string
	IdentityVerifiedAt *time.Time

	// Version is the optimistic-locking counter guarding verification
	// flag updates against concurrent writers.
	Version   uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Address is a delivery address owned by a user. Exactly one address
// per user carries IsDefault=true at any time.
type Address struct {
	ID        uint
	UserID    uint
	HouseNo   string
	Street    string
	City      string
	District  string
	PinCode   string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ArtisanProfile is the seller profile owned by an artisan user.
// At most one profile exists per user.
type ArtisanProfile struct {
	ID         uint
	UserID     uint
	Skills     []string
	Experience int
	Location   string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Session is one refresh-token session. Sessions are stored server-side
// and revocable individually (logout) or in bulk (logout-all).
type Session struct {
	ID               string    `json:"id"`
	UserID           uint      `json:"user_id"`
	Role             Role      `json:"role"`
	RefreshTokenHash string    `json:"refresh_token_hash"`
	DeviceInfo       string    `json:"device_info,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	ExpiresAt        time.Time `json:"expires_at"`
}

// AuthResult represents the outcome of login, registration completion
// or token refresh.
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// OTPTransaction is a pending one-time-code verification, scoped to one
// user and one verification type.
type OTPTransaction struct {
	TransactionID string
	Identifier    string
	Masked        string
	UserID        uint
	ExpiresAt     time.Time
	Attempts      int
}

// AuditEvent is the structured record emitted by the audit stage for
// every request that reaches it, on both allow and deny paths.
type AuditEvent struct {
	TraceID      string
	ActorID      uint
	ActorRole    Role
	Action       string
	ResourceType string
	ResourceID   string
	Outcome      string
	Timestamp    time.Time
}

// MaskPhone redacts all but the last four digits of a phone number.
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return phone
	}
	return strings.Repeat("X", len(phone)-4) + phone[len(phone)-4:]
}

// MaskAadhaar renders the canonical 12-digit Aadhaar number in the
// display form "XXXX XXXX 9012".
func MaskAadhaar(canonical string) string {
	if len(canonical) != 12 {
		return ""
	}
	return "XXXX XXXX " + canonical[8:]
}
