package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByPhone(ctx context.Context, phone string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	Update(ctx context.Context, user *User) error
	// UpdateVerification persists verification-state fields guarded by the
	// user's optimistic version; returns ErrConcurrentUpdate on a lost race.
	UpdateVerification(ctx context.Context, user *User) error
	ActivatePhone(ctx context.Context, userID uint) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
	ListPendingVerifications(ctx context.Context, roles []Role) ([]*User, error)
}

// AddressRepository defines address data access operations. Mutations
// maintain the single-default invariant transactionally.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]*Address, error)
	FindByID(ctx context.Context, id uint) (*Address, error)
	Create(ctx context.Context, addr *Address) error
	Update(ctx context.Context, addr *Address) error
	Delete(ctx context.Context, userID, id uint) error
	SetDefault(ctx context.Context, userID, id uint) error
	FindDefault(ctx context.Context, userID uint) (*Address, error)
}

// ArtisanProfileRepository defines seller profile access. Create relies
// on a unique user index so concurrent creates yield exactly one profile.
type ArtisanProfileRepository interface {
	Create(ctx context.Context, profile *ArtisanProfile) error
	FindByID(ctx context.Context, id uint) (*ArtisanProfile, error)
	FindByUser(ctx context.Context, userID uint) (*ArtisanProfile, error)
	Update(ctx context.Context, profile *ArtisanProfile) error
}

// SessionRepository defines session storage operations.
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	// Rotate atomically replaces oldID with the new session; the old
	// refresh token is unusable the moment Rotate returns.
	Rotate(ctx context.Context, oldID string, session *Session) error
	Delete(ctx context.Context, sessionID string) error
	DeleteAllForUser(ctx context.Context, userID uint) (int, error)
	ListByUser(ctx context.Context, userID uint) ([]*Session, error)
	PruneUserIndex(ctx context.Context, userID uint) (int, error)
	UserIDs(ctx context.Context) ([]uint, error)
}

// TokenClaims represents verified JWT claims.
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      Role   `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	TokenType string `json:"token_type"`
	JTI       string `json:"jti"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}

// TokenService defines signed token operations. Access validation is
// stateless; session liveness is the caller's concern.
type TokenService interface {
	GenerateAccessToken(userID uint, role Role, sessionID string) (string, error)
	GenerateRefreshToken(userID uint, role Role, sessionID string) (token string, jti string, err error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

// PasswordService defines password hashing operations.
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// NotificationService delivers one-time codes. Implementations carry an
// explicit timeout; failures surface as ErrProviderUnavailable.
type NotificationService interface {
	SendSMS(ctx context.Context, to, message string) error
}

// OTPScope distinguishes the two verification state machines.
type OTPScope string

const (
	ScopePhone   OTPScope = "phone"
	ScopeAadhaar OTPScope = "aadhaar"
)

// OTPService defines the one-time-code verifier.
type OTPService interface {
	Initiate(ctx context.Context, scope OTPScope, userID uint, identifier string) (*OTPTransaction, error)
	Verify(ctx context.Context, scope OTPScope, userID uint, code string) (*OTPTransaction, error)
}

// AuthService defines the authentication orchestrator.
type AuthService interface {
	Register(ctx context.Context, name, phone, password string, role Role) (*User, error)
	Login(ctx context.Context, phone, password, deviceInfo string) (*AuthResult, error)
	SendOTP(ctx context.Context, phone string) (*OTPTransaction, error)
	VerifyOTP(ctx context.Context, phone, code string) (*User, error)
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	LogoutAll(ctx context.Context, userID uint) (int, error)
	GetUserProfile(ctx context.Context, userID uint) (*User, error)
	ChangePassword(ctx context.Context, userID uint, current, next, sessionID string) error
}

// VerificationService defines the Aadhaar identity verification flow.
type VerificationService interface {
	InitiateAadhaar(ctx context.Context, userID uint, aadhaarNumber string) (*OTPTransaction, error)
	VerifyAadhaar(ctx context.Context, userID uint, code string) (*User, error)
	Status(ctx context.Context, userID uint) (*User, error)
	ManualVerify(ctx context.Context, adminID, userID uint, note string) (*User, error)
	ListPending(ctx context.Context) ([]*User, error)
}

// PolicyService defines authorization policy management on top of the
// enforcer.
type PolicyService interface {
	AddPolicy(role Role, resource, action string) error
	RemovePolicy(role Role, resource, action string) error
	CheckPermission(role Role, resource, action string) (bool, error)
	GetPolicies() ([][]string, error)
}

// AuditLogger records security-relevant decisions. Deny outcomes from the
// pipeline are logged the same as allows.
type AuditLogger interface {
	Record(event AuditEvent)
}

// CasbinEnforcer is the subset of the casbin enforcer the service needs.
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
