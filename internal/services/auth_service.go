package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/craftconnect/authsvc/domain"
)

// AuthServiceImpl implements domain.AuthService.
type AuthServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	otpSvc      domain.OTPService
}

// NewAuthService creates a new auth service.
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	otpSvc domain.OTPService,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		otpSvc:      otpSvc,
	}
}

// Register implements domain.AuthService. The admin role cannot be
// claimed through self-service registration.
func (s *AuthServiceImpl) Register(ctx context.Context, name, phone, password string, role domain.Role) (*domain.User, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidationFailed)
	}
	canonical, err := CanonicalPhone(phone)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if !role.Valid() || role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: invalid role", domain.ErrValidationFailed)
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Name:           name,
		Phone:          canonical,
		PasswordHash:   hashedPassword,
		Role:           role,
		IsActive:       true,
		IdentityStatus: domain.IdentityNotStarted,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Kick off phone verification; registration stands even if the
	// provider is down, the client can re-request via send-otp.
	if _, err := s.otpSvc.Initiate(ctx, domain.ScopePhone, user.ID, canonical); err != nil {
		log.Printf("REGISTER_OTP_FAILED: user_id=%d error=%v", user.ID, err)
	}

	return user, nil
}

// Login implements domain.AuthService. Unknown phone and wrong password
// produce the same error so credentials cannot be probed.
func (s *AuthServiceImpl) Login(ctx context.Context, phone, password, deviceInfo string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}
	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return s.openSession(ctx, user, deviceInfo)
}

// SendOTP implements domain.AuthService.
func (s *AuthServiceImpl) SendOTP(ctx context.Context, phone string) (*domain.OTPTransaction, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	return s.otpSvc.Initiate(ctx, domain.ScopePhone, user.ID, user.Phone)
}

// VerifyOTP implements domain.AuthService.
func (s *AuthServiceImpl) VerifyOTP(ctx context.Context, phone, code string) (*domain.User, error) {
	user, err := s.userRepo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}

	if _, err := s.otpSvc.Verify(ctx, domain.ScopePhone, user.ID, code); err != nil {
		return nil, err
	}
	if err := s.userRepo.ActivatePhone(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to activate phone: %w", err)
	}
	user.IsPhoneVerified = true

	log.Printf("PHONE_ACTIVATED: user_id=%d phone=%s timestamp=%s",
		user.ID, domain.MaskPhone(user.Phone), time.Now().UTC().Format(time.RFC3339))
	return user, nil
}

// RefreshToken implements domain.AuthService. The presented token is
// rotated: its session is replaced atomically and the old token becomes
// unusable, limiting a leaked refresh token to a single use.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*domain.AuthResult, error) {
	claims, err := s.tokenSvc.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.ErrTokenInvalidOrExpired
	}

	session, err := s.sessionRepo.FindByID(ctx, claims.SessionID)
	if err != nil {
		// Token valid but session unknown: rotated away or revoked.
		return nil, domain.ErrTokenInvalidOrExpired
	}
	if session.RefreshTokenHash != hashToken(claims.JTI) {
		return nil, domain.ErrTokenInvalidOrExpired
	}
	if session.ExpiresAt.Before(time.Now()) {
		return nil, domain.ErrTokenInvalidOrExpired
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.ErrTokenInvalidOrExpired
	}
	if !user.IsActive {
		return nil, domain.ErrUserInactive
	}

	next := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Role:       user.Role,
		DeviceInfo: session.DeviceInfo,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(s.tokenSvc.RefreshTTL()),
	}
	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role, next.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	newRefreshToken, jti, err := s.tokenSvc.GenerateRefreshToken(user.ID, user.Role, next.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	next.RefreshTokenHash = hashToken(jti)

	if err := s.sessionRepo.Rotate(ctx, session.ID, next); err != nil {
		if err == domain.ErrSessionNotFound {
			return nil, domain.ErrTokenInvalidOrExpired
		}
		return nil, fmt.Errorf("failed to rotate session: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		SessionID:    next.ID,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

// Logout implements domain.AuthService.
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	return s.sessionRepo.Delete(ctx, sessionID)
}

// LogoutAll implements domain.AuthService.
func (s *AuthServiceImpl) LogoutAll(ctx context.Context, userID uint) (int, error) {
	return s.sessionRepo.DeleteAllForUser(ctx, userID)
}

// GetUserProfile implements domain.AuthService.
func (s *AuthServiceImpl) GetUserProfile(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// ChangePassword implements domain.AuthService. Every other session is
// revoked so a stolen credential cannot outlive the change.
func (s *AuthServiceImpl) ChangePassword(ctx context.Context, userID uint, current, next, sessionID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.passwordSvc.Verify(user.PasswordHash, current) {
		return domain.ErrInvalidCredentials
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}

	hashed, err := s.passwordSvc.Hash(next)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hashed); err != nil {
		return err
	}

	sessions, err := s.sessionRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	for _, session := range sessions {
		if session.ID == sessionID {
			continue
		}
		if err := s.sessionRepo.Delete(ctx, session.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *AuthServiceImpl) openSession(ctx context.Context, user *domain.User, deviceInfo string) (*domain.AuthResult, error) {
	session := &domain.Session{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		Role:       user.Role,
		DeviceInfo: deviceInfo,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(s.tokenSvc.RefreshTTL()),
	}

	accessToken, err := s.tokenSvc.GenerateAccessToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, jti, err := s.tokenSvc.GenerateRefreshToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	session.RefreshTokenHash = hashToken(jti)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    int64(s.tokenSvc.AccessTTL().Seconds()),
	}, nil
}

func hashToken(jti string) string {
	sum := sha256.Sum256([]byte(jti))
	return hex.EncodeToString(sum[:])
}

// ValidatePassword enforces the registration password policy: at least
// eight characters with an upper-case letter, a lower-case letter and a
// digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidationFailed)
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return fmt.Errorf("%w: password must contain upper, lower and numeric characters", domain.ErrValidationFailed)
	}
	return nil
}
