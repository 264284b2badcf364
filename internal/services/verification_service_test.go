package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/mocks"
)

func pendingArtisan() *domain.User {
	return &domain.User{
		ID:              7,
		Name:            "Ravi Kumar",
		Phone:           "+919876543210",
		Role:            domain.RoleArtisan,
		IsActive:        true,
		IsPhoneVerified: true,
		IdentityStatus:  domain.IdentityNotStarted,
	}
}

func TestVerificationService_InitiateAadhaar(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(u *domain.User)
		wantErr error
	}{
		{"artisan with verified phone", func(u *domain.User) {}, nil},
		{"distributor with verified phone", func(u *domain.User) { u.Role = domain.RoleDistributor }, nil},
		{"customer rejected", func(u *domain.User) { u.Role = domain.RoleCustomer }, domain.ErrForbiddenRole},
		{"admin rejected", func(u *domain.User) { u.Role = domain.RoleAdmin }, domain.ErrForbiddenRole},
		{"phone not verified", func(u *domain.User) { u.IsPhoneVerified = false }, domain.ErrPhoneNotVerified},
		{"already verified", func(u *domain.User) { u.IsIdentityVerified = true }, domain.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := pendingArtisan()
			tt.mutate(user)

			userRepo := mocks.NewMockUserRepository()
			userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

			otpSvc := mocks.NewMockOTPService()
			otpSvc.InitiateFunc = func(ctx context.Context, scope domain.OTPScope, userID uint, identifier string) (*domain.OTPTransaction, error) {
				return &domain.OTPTransaction{
					TransactionID: "txn_aadhaar_1",
					Masked:        "XXXX XXXX 9012",
					UserID:        userID,
					ExpiresAt:     time.Now().Add(10 * time.Minute),
				}, nil
			}

			svc := NewVerificationService(userRepo, otpSvc, mocks.NewMockAuditLogger())
			txn, err := svc.InitiateAadhaar(context.Background(), user.ID, "2345 6789 9012")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("InitiateAadhaar() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("InitiateAadhaar() error = %v", err)
			}
			if txn.Masked != "XXXX XXXX 9012" {
				t.Errorf("masked aadhaar = %q, want %q", txn.Masked, "XXXX XXXX 9012")
			}
			if user.IdentityStatus != domain.IdentityPending {
				t.Errorf("identity status = %q, want pending", user.IdentityStatus)
			}
			if user.IdentityTxnID != "txn_aadhaar_1" {
				t.Errorf("identity txn id = %q, want txn_aadhaar_1", user.IdentityTxnID)
			}
		})
	}
}

func TestVerificationService_VerifyAadhaar_Success(t *testing.T) {
	user := pendingArtisan()
	user.IdentityStatus = domain.IdentityPending

	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

	otpSvc := mocks.NewMockOTPService()
	otpSvc.VerifyFunc = func(ctx context.Context, scope domain.OTPScope, userID uint, code string) (*domain.OTPTransaction, error) {
		return &domain.OTPTransaction{Masked: "XXXX XXXX 9012", UserID: userID}, nil
	}

	audit := mocks.NewMockAuditLogger()
	svc := NewVerificationService(userRepo, otpSvc, audit)

	result, err := svc.VerifyAadhaar(context.Background(), user.ID, "123456")
	if err != nil {
		t.Fatalf("VerifyAadhaar() error = %v", err)
	}
	if !result.IsIdentityVerified {
		t.Error("expected IsIdentityVerified")
	}
	if result.IdentityStatus != domain.IdentityVerified {
		t.Errorf("identity status = %q, want verified", result.IdentityStatus)
	}
	if result.MaskedAadhaar != "XXXX XXXX 9012" {
		t.Errorf("masked aadhaar = %q, want %q", result.MaskedAadhaar, "XXXX XXXX 9012")
	}
	if result.IdentityVerifiedAt == nil {
		t.Error("expected verification timestamp")
	}

	events := audit.Recorded()
	if len(events) != 1 || events[0].Action != "aadhaar-verify" {
		t.Errorf("audit events = %+v, want one aadhaar-verify record", events)
	}
}

func TestVerificationService_VerifyAadhaar_NotPending(t *testing.T) {
	user := pendingArtisan() // status not_started
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

	svc := NewVerificationService(userRepo, mocks.NewMockOTPService(), mocks.NewMockAuditLogger())

	if _, err := svc.VerifyAadhaar(context.Background(), user.ID, "123456"); !errors.Is(err, domain.ErrNoVerificationInProgress) {
		t.Errorf("VerifyAadhaar() error = %v, want ErrNoVerificationInProgress", err)
	}
}

func TestVerificationService_VerifyAadhaar_LockoutMarksFailed(t *testing.T) {
	user := pendingArtisan()
	user.IdentityStatus = domain.IdentityPending

	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

	otpSvc := mocks.NewMockOTPService()
	otpSvc.VerifyFunc = func(ctx context.Context, scope domain.OTPScope, userID uint, code string) (*domain.OTPTransaction, error) {
		return nil, domain.ErrOTPLocked
	}

	svc := NewVerificationService(userRepo, otpSvc, mocks.NewMockAuditLogger())

	if _, err := svc.VerifyAadhaar(context.Background(), user.ID, "000000"); !errors.Is(err, domain.ErrOTPLocked) {
		t.Fatalf("VerifyAadhaar() error = %v, want ErrOTPLocked", err)
	}
	if user.IdentityStatus != domain.IdentityFailed {
		t.Errorf("identity status = %q, want failed after lockout", user.IdentityStatus)
	}
	if user.IsIdentityVerified {
		t.Error("lockout must not verify identity")
	}
}

func TestVerificationService_ManualVerify(t *testing.T) {
	user := pendingArtisan()
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) { return user, nil }

	updates := 0
	userRepo.UpdateVerificationFunc = func(ctx context.Context, u *domain.User) error {
		updates++
		return nil
	}

	audit := mocks.NewMockAuditLogger()
	svc := NewVerificationService(userRepo, mocks.NewMockOTPService(), audit)
	ctx := context.Background()

	// Note is mandatory.
	if _, err := svc.ManualVerify(ctx, 100, user.ID, ""); !errors.Is(err, domain.ErrValidationFailed) {
		t.Fatalf("ManualVerify(no note) error = %v, want ErrValidationFailed", err)
	}

	result, err := svc.ManualVerify(ctx, 100, user.ID, "documents reviewed offline")
	if err != nil {
		t.Fatalf("ManualVerify() error = %v", err)
	}
	if !result.IsIdentityVerified || result.IdentityStatus != domain.IdentityVerified {
		t.Error("expected verified identity state")
	}
	if updates != 1 {
		t.Fatalf("expected 1 verification update, got %d", updates)
	}

	events := audit.Recorded()
	if len(events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(events))
	}
	if events[0].ActorID != 100 {
		t.Errorf("audit actor = %d, want the admin id", events[0].ActorID)
	}
	if !strings.Contains(events[0].Action, "documents reviewed offline") {
		t.Errorf("audit action %q must carry the note", events[0].Action)
	}

	// Second call is a no-op on an already-verified user.
	if _, err := svc.ManualVerify(ctx, 100, user.ID, "double submit"); err != nil {
		t.Fatalf("repeat ManualVerify() error = %v", err)
	}
	if updates != 1 {
		t.Errorf("repeat call wrote %d updates, want 1", updates)
	}
}

func TestVerificationService_ListPending(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	var requestedRoles []domain.Role
	userRepo.ListPendingVerificationsFunc = func(ctx context.Context, roles []domain.Role) ([]*domain.User, error) {
		requestedRoles = roles
		return []*domain.User{pendingArtisan()}, nil
	}

	svc := NewVerificationService(userRepo, mocks.NewMockOTPService(), mocks.NewMockAuditLogger())

	users, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending() error = %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	if len(requestedRoles) != 2 {
		t.Errorf("queried roles %v, want artisan and distributor only", requestedRoles)
	}
}
