package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/infrastructure/auth"
	"github.com/craftconnect/authsvc/internal/mocks"
)

func testUser() *domain.User {
	return &domain.User{
		ID:           1,
		Name:         "Meera Joshi",
		Phone:        "+919876543210",
		PasswordHash: "hashed_Secret123",
		Role:         domain.RoleCustomer,
		IsActive:     true,
	}
}

func createAuthServiceForTest(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository) domain.AuthService {
	if userRepo == nil {
		userRepo = mocks.NewMockUserRepository()
	}
	if sessionRepo == nil {
		sessionRepo = mocks.NewMockSessionRepository()
	}
	tokenSvc := auth.NewJWTService("test-secret", "test-issuer", 15*time.Minute, 168*time.Hour)
	return NewAuthService(userRepo, sessionRepo, mocks.NewMockPasswordService(), tokenSvc, mocks.NewMockOTPService())
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name     string
		userName string
		phone    string
		password string
		role     domain.Role
		wantErr  error
	}{
		{"valid customer", "Meera Joshi", "+919876543210", "Secret123", domain.RoleCustomer, nil},
		{"valid artisan", "Ravi Kumar", "+919876543211", "Secret123", domain.RoleArtisan, nil},
		{"missing name", "", "+919876543210", "Secret123", domain.RoleCustomer, domain.ErrValidationFailed},
		{"bad phone", "Meera Joshi", "98765", "Secret123", domain.RoleCustomer, domain.ErrValidationFailed},
		{"short password", "Meera Joshi", "+919876543210", "Ab1", domain.RoleCustomer, domain.ErrValidationFailed},
		{"password without digit", "Meera Joshi", "+919876543210", "Secretpass", domain.RoleCustomer, domain.ErrValidationFailed},
		{"admin role rejected", "Meera Joshi", "+919876543210", "Secret123", domain.RoleAdmin, domain.ErrValidationFailed},
		{"unknown role", "Meera Joshi", "+919876543210", "Secret123", domain.Role("vendor"), domain.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
				user.ID = 1
				return nil
			}
			svc := createAuthServiceForTest(userRepo, nil)

			user, err := svc.Register(context.Background(), tt.userName, tt.phone, tt.password, tt.role)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Register() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() error = %v", err)
			}
			if user.ID == 0 {
				t.Error("expected a persisted user id")
			}
			if !user.IsActive {
				t.Error("new users must start active")
			}
			if user.IdentityStatus != domain.IdentityNotStarted {
				t.Errorf("identity status = %q, want %q", user.IdentityStatus, domain.IdentityNotStarted)
			}
		})
	}
}

func TestAuthService_Register_DuplicatePhone(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		return domain.ErrUserAlreadyExists
	}
	svc := createAuthServiceForTest(userRepo, nil)

	_, err := svc.Register(context.Background(), "Meera Joshi", "+919876543210", "Secret123", domain.RoleCustomer)
	if !errors.Is(err, domain.ErrUserAlreadyExists) {
		t.Errorf("Register() error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestAuthService_Login(t *testing.T) {
	user := testUser()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
		if phone == user.Phone {
			return user, nil
		}
		return nil, domain.ErrUserNotFound
	}
	svc := createAuthServiceForTest(userRepo, nil)
	ctx := context.Background()

	result, err := svc.Login(ctx, user.Phone, "Secret123", "test-device")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" || result.SessionID == "" {
		t.Error("expected tokens and a session id")
	}
	if result.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Errorf("ExpiresIn = %d, want %d", result.ExpiresIn, int64((15*time.Minute).Seconds()))
	}

	// Unknown phone and wrong password look identical to the caller.
	if _, err := svc.Login(ctx, "+910000000000", "Secret123", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login(unknown phone) error = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, user.Phone, "WrongPass1", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("Login(bad password) error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	user := testUser()
	user.IsActive = false
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) {
		return user, nil
	}
	svc := createAuthServiceForTest(userRepo, nil)

	if _, err := svc.Login(context.Background(), user.Phone, "Secret123", ""); !errors.Is(err, domain.ErrUserInactive) {
		t.Errorf("Login() error = %v, want ErrUserInactive", err)
	}
}

func TestAuthService_RefreshToken_Rotation(t *testing.T) {
	user := testUser()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) { return user, nil }
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

	// In-memory session store tracking create/rotate/delete.
	store := map[string]*domain.Session{}
	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
		store[session.ID] = session
		return nil
	}
	sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		if s, ok := store[sessionID]; ok {
			return s, nil
		}
		return nil, domain.ErrSessionNotFound
	}
	sessionRepo.RotateFunc = func(ctx context.Context, oldID string, session *domain.Session) error {
		if _, ok := store[oldID]; !ok {
			return domain.ErrSessionNotFound
		}
		delete(store, oldID)
		store[session.ID] = session
		return nil
	}

	svc := createAuthServiceForTest(userRepo, sessionRepo)
	ctx := context.Background()

	login, err := svc.Login(ctx, user.Phone, "Secret123", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	refreshed, err := svc.RefreshToken(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken() error = %v", err)
	}
	if refreshed.SessionID == login.SessionID {
		t.Error("rotation must issue a new session id")
	}
	if _, ok := store[login.SessionID]; ok {
		t.Error("old session must be gone after rotation")
	}

	// The rotated-away token is single-use.
	if _, err := svc.RefreshToken(ctx, login.RefreshToken); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Errorf("reuse of rotated token error = %v, want ErrTokenInvalidOrExpired", err)
	}

	// The replacement token still works.
	if _, err := svc.RefreshToken(ctx, refreshed.RefreshToken); err != nil {
		t.Errorf("RefreshToken(new token) error = %v", err)
	}
}

func TestAuthService_RefreshToken_RejectsAccessToken(t *testing.T) {
	user := testUser()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) { return user, nil }
	svc := createAuthServiceForTest(userRepo, nil)
	ctx := context.Background()

	login, err := svc.Login(ctx, user.Phone, "Secret123", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := svc.RefreshToken(ctx, login.AccessToken); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Errorf("RefreshToken(access token) error = %v, want ErrTokenInvalidOrExpired", err)
	}
}

func TestAuthService_RefreshToken_HashMismatch(t *testing.T) {
	user := testUser()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) { return user, nil }
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

	var created *domain.Session
	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
		created = session
		return nil
	}
	sessionRepo.FindByIDFunc = func(ctx context.Context, sessionID string) (*domain.Session, error) {
		// Session exists but is bound to a different refresh token.
		s := *created
		s.RefreshTokenHash = "someone-elses-hash"
		return &s, nil
	}

	svc := createAuthServiceForTest(userRepo, sessionRepo)
	ctx := context.Background()

	login, err := svc.Login(ctx, user.Phone, "Secret123", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := svc.RefreshToken(ctx, login.RefreshToken); !errors.Is(err, domain.ErrTokenInvalidOrExpired) {
		t.Errorf("RefreshToken() error = %v, want ErrTokenInvalidOrExpired", err)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	user := testUser()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

	var updatedHash string
	userRepo.UpdatePasswordFunc = func(ctx context.Context, userID uint, passwordHash string) error {
		updatedHash = passwordHash
		return nil
	}

	sessions := []*domain.Session{
		{ID: "current", UserID: 1},
		{ID: "other-device", UserID: 1},
		{ID: "old-laptop", UserID: 1},
	}
	deleted := []string{}
	sessionRepo := mocks.NewMockSessionRepository()
	sessionRepo.ListByUserFunc = func(ctx context.Context, userID uint) ([]*domain.Session, error) {
		return sessions, nil
	}
	sessionRepo.DeleteFunc = func(ctx context.Context, sessionID string) error {
		deleted = append(deleted, sessionID)
		return nil
	}

	svc := createAuthServiceForTest(userRepo, sessionRepo)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, 1, "Secret123", "NewSecret456", "current"); err != nil {
		t.Fatalf("ChangePassword() error = %v", err)
	}
	if updatedHash != "hashed_NewSecret456" {
		t.Errorf("stored hash = %q, want %q", updatedHash, "hashed_NewSecret456")
	}
	if len(deleted) != 2 {
		t.Fatalf("revoked %d sessions, want 2", len(deleted))
	}
	for _, id := range deleted {
		if id == "current" {
			t.Error("current session must survive a password change")
		}
	}

	// Wrong current password is rejected before any mutation.
	if err := svc.ChangePassword(ctx, 1, "WrongPass1", "NewSecret456", "current"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("ChangePassword(bad current) error = %v, want ErrInvalidCredentials", err)
	}
	// Weak replacement is rejected.
	if err := svc.ChangePassword(ctx, 1, "Secret123", "short", "current"); !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("ChangePassword(weak new) error = %v, want ErrValidationFailed", err)
	}
}

func TestAuthService_VerifyOTP_ActivatesPhone(t *testing.T) {
	user := testUser()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByPhoneFunc = func(ctx context.Context, phone string) (*domain.User, error) { return user, nil }

	activated := false
	userRepo.ActivatePhoneFunc = func(ctx context.Context, userID uint) error {
		activated = true
		return nil
	}

	otpSvc := mocks.NewMockOTPService()
	otpSvc.VerifyFunc = func(ctx context.Context, scope domain.OTPScope, userID uint, code string) (*domain.OTPTransaction, error) {
		if code != "123456" {
			return nil, domain.ErrOTPInvalid
		}
		return &domain.OTPTransaction{UserID: userID}, nil
	}

	tokenSvc := auth.NewJWTService("test-secret", "test-issuer", 15*time.Minute, 168*time.Hour)
	svc := NewAuthService(userRepo, mocks.NewMockSessionRepository(), mocks.NewMockPasswordService(), tokenSvc, otpSvc)

	result, err := svc.VerifyOTP(context.Background(), user.Phone, "123456")
	if err != nil {
		t.Fatalf("VerifyOTP() error = %v", err)
	}
	if !activated {
		t.Error("expected phone activation in the repository")
	}
	if !result.IsPhoneVerified {
		t.Error("expected IsPhoneVerified on the returned user")
	}

	if _, err := svc.VerifyOTP(context.Background(), user.Phone, "999999"); !errors.Is(err, domain.ErrOTPInvalid) {
		t.Errorf("VerifyOTP(bad code) error = %v, want ErrOTPInvalid", err)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		ok       bool
	}{
		{"Secret123", true},
		{"Aa1aaaaa", true},
		{"short1A", false},
		{"alllowercase1", false},
		{"ALLUPPERCASE1", false},
		{"NoDigitsHere", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.ok && err != nil {
				t.Errorf("ValidatePassword(%q) error = %v, want nil", tt.password, err)
			}
			if !tt.ok && !errors.Is(err, domain.ErrValidationFailed) {
				t.Errorf("ValidatePassword(%q) error = %v, want ErrValidationFailed", tt.password, err)
			}
		})
	}
}
