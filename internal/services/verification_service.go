package services

import (
	"context"
	"fmt"
	"time"

	"github.com/craftconnect/authsvc/domain"
)

// VerificationServiceImpl implements the Aadhaar identity verification
// state machine: not_started -> pending -> verified | failed.
type VerificationServiceImpl struct {
	userRepo domain.UserRepository
	otpSvc   domain.OTPService
	audit    domain.AuditLogger
}

// NewVerificationService creates a new identity verification service.
func NewVerificationService(userRepo domain.UserRepository, otpSvc domain.OTPService, audit domain.AuditLogger) domain.VerificationService {
	return &VerificationServiceImpl{
		userRepo: userRepo,
		otpSvc:   otpSvc,
		audit:    audit,
	}
}

// InitiateAadhaar implements domain.VerificationService. Identity
// verification applies to selling roles only, and requires a verified
// phone first.
func (s *VerificationServiceImpl) InitiateAadhaar(ctx context.Context, userID uint, aadhaarNumber string) (*domain.OTPTransaction, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.Role.RequiresIdentityVerification() {
		return nil, fmt.Errorf("%w: identity verification is only required for artisans and distributors", domain.ErrForbiddenRole)
	}
	if !user.IsPhoneVerified {
		return nil, domain.ErrPhoneNotVerified
	}
	if user.IsIdentityVerified {
		return nil, fmt.Errorf("%w: identity already verified", domain.ErrValidationFailed)
	}

	txn, err := s.otpSvc.Initiate(ctx, domain.ScopeAadhaar, userID, aadhaarNumber)
	if err != nil {
		return nil, err
	}

	user.IdentityStatus = domain.IdentityPending
	user.IdentityTxnID = txn.TransactionID
	user.MaskedAadhaar = txn.Masked
	if err := s.userRepo.UpdateVerification(ctx, user); err != nil {
		return nil, err
	}
	return txn, nil
}

// VerifyAadhaar implements domain.VerificationService.
func (s *VerificationServiceImpl) VerifyAadhaar(ctx context.Context, userID uint, code string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IdentityStatus != domain.IdentityPending {
		return nil, domain.ErrNoVerificationInProgress
	}

	txn, err := s.otpSvc.Verify(ctx, domain.ScopeAadhaar, userID, code)
	if err != nil {
		if err == domain.ErrOTPLocked || err == domain.ErrOTPExpired {
			user.IdentityStatus = domain.IdentityFailed
			if uerr := s.userRepo.UpdateVerification(ctx, user); uerr != nil {
				return nil, uerr
			}
		}
		return nil, err
	}

	now := time.Now()
	user.IsIdentityVerified = true
	user.IdentityStatus = domain.IdentityVerified
	user.MaskedAadhaar = txn.Masked
	user.IdentityVerifiedAt = &now
	if err := s.userRepo.UpdateVerification(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:      userID,
		ActorRole:    user.Role,
		Action:       "aadhaar-verify",
		ResourceType: "user",
		ResourceID:   fmt.Sprintf("%d", userID),
		Outcome:      "verified",
		Timestamp:    now,
	})
	return user, nil
}

// Status implements domain.VerificationService.
func (s *VerificationServiceImpl) Status(ctx context.Context, userID uint) (*domain.User, error) {
	return s.userRepo.FindByID(ctx, userID)
}

// ManualVerify implements domain.VerificationService. The admin override
// bypasses the OTP state machine; it demands a note and is always
// audited. Repeated calls are idempotent.
func (s *VerificationServiceImpl) ManualVerify(ctx context.Context, adminID, userID uint, note string) (*domain.User, error) {
	if note == "" {
		return nil, fmt.Errorf("%w: an audit note is required for manual verification", domain.ErrValidationFailed)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsIdentityVerified {
		return user, nil
	}

	now := time.Now()
	user.IsIdentityVerified = true
	user.IdentityStatus = domain.IdentityVerified
	user.IdentityVerifiedAt = &now
	if err := s.userRepo.UpdateVerification(ctx, user); err != nil {
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		ActorID:      adminID,
		ActorRole:    domain.RoleAdmin,
		Action:       "manual-verify: " + note,
		ResourceType: "user",
		ResourceID:   fmt.Sprintf("%d", userID),
		Outcome:      "verified",
		Timestamp:    now,
	})
	return user, nil
}

// ListPending implements domain.VerificationService.
func (s *VerificationServiceImpl) ListPending(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.ListPendingVerifications(ctx, []domain.Role{domain.RoleArtisan, domain.RoleDistributor})
}
