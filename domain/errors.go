package domain

import (
	"errors"
	"net/http"
)

// Validation and credential errors
var (
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrPhoneNotVerified   = errors.New("phone number not verified")
	ErrAddressNotFound    = errors.New("address not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists for this user")
)

// Authorization errors
var (
	ErrUnauthenticated         = errors.New("authentication required")
	ErrForbiddenRole           = errors.New("role not permitted for this operation")
	ErrResourceAccessDenied    = errors.New("you can only access your own resources")
	ErrCrossUserAccessDenied   = errors.New("request references another user")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrIdentityRequired        = errors.New("identity verification required")
	ErrSecurityViolation       = errors.New("request blocked due to security concerns")
)

// OTP and identity verification errors
var (
	ErrNoVerificationInProgress = errors.New("no verification in progress")
	ErrOTPExpired               = errors.New("verification code has expired")
	ErrOTPInvalid               = errors.New("invalid verification code")
	ErrOTPLocked                = errors.New("maximum verification attempts exceeded")
	ErrRateLimited              = errors.New("too many verification requests")
	ErrProviderUnavailable      = errors.New("verification provider unavailable")
)

// Token and session errors
var (
	ErrTokenInvalidOrExpired = errors.New("invalid or expired token")
	ErrTokenMalformed        = errors.New("malformed token")
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionExpired        = errors.New("session has expired")
	ErrConcurrentUpdate      = errors.New("concurrent update detected")
)

// Stable machine-readable codes surfaced in the response envelope.
const (
	CodeValidationFailed         = "VALIDATION_FAILED"
	CodeUnauthenticated          = "UNAUTHENTICATED"
	CodeInvalidCredentials       = "INVALID_CREDENTIALS"
	CodeForbiddenRole            = "FORBIDDEN_ROLE"
	CodeResourceAccessDenied     = "RESOURCE_ACCESS_DENIED"
	CodeCrossUserAccessDenied    = "CROSS_USER_ACCESS_DENIED"
	CodeInsufficientPermissions  = "INSUFFICIENT_PERMISSIONS"
	CodeIdentityRequired         = "IDENTITY_VERIFICATION_REQUIRED"
	CodeSecurityViolation        = "SECURITY_VIOLATION"
	CodeNoVerificationInProgress = "NO_VERIFICATION_IN_PROGRESS"
	CodeExpired                  = "EXPIRED"
	CodeInvalidCode              = "INVALID_CODE"
	CodeLocked                   = "LOCKED"
	CodeRateLimited              = "RATE_LIMITED"
	CodeProviderUnavailable      = "PROVIDER_UNAVAILABLE"
	CodeInvalidOrExpired         = "INVALID_OR_EXPIRED"
	CodeUserExists               = "USER_EXISTS"
	CodeNotFound                 = "NOT_FOUND"
	CodeConflict                 = "CONFLICT"
	CodeInternal                 = "INTERNAL_ERROR"
)

type errorClass struct {
	code   string
	status int
}

var errorClasses = map[error]errorClass{
	ErrValidationFailed:   {CodeValidationFailed, http.StatusBadRequest},
	ErrInvalidCredentials: {CodeInvalidCredentials, http.StatusUnauthorized},
	ErrUserNotFound:       {CodeNotFound, http.StatusNotFound},
	ErrUserAlreadyExists:  {CodeUserExists, http.StatusConflict},
	ErrUserInactive:       {CodeForbiddenRole, http.StatusForbidden},
	ErrPhoneNotVerified:   {CodeValidationFailed, http.StatusForbidden},
	ErrAddressNotFound:    {CodeNotFound, http.StatusNotFound},
	ErrProfileNotFound:    {CodeNotFound, http.StatusNotFound},
	ErrProfileExists:      {CodeConflict, http.StatusConflict},

	ErrUnauthenticated:         {CodeUnauthenticated, http.StatusUnauthorized},
	ErrForbiddenRole:           {CodeForbiddenRole, http.StatusForbidden},
	ErrResourceAccessDenied:    {CodeResourceAccessDenied, http.StatusForbidden},
	ErrCrossUserAccessDenied:   {CodeCrossUserAccessDenied, http.StatusForbidden},
	ErrInsufficientPermissions: {CodeInsufficientPermissions, http.StatusForbidden},
	ErrIdentityRequired:        {CodeIdentityRequired, http.StatusForbidden},
	ErrSecurityViolation:       {CodeSecurityViolation, http.StatusBadRequest},

	ErrNoVerificationInProgress: {CodeNoVerificationInProgress, http.StatusBadRequest},
	ErrOTPExpired:               {CodeExpired, http.StatusBadRequest},
	ErrOTPInvalid:               {CodeInvalidCode, http.StatusBadRequest},
	ErrOTPLocked:                {CodeLocked, http.StatusTooManyRequests},
	ErrRateLimited:              {CodeRateLimited, http.StatusTooManyRequests},
	ErrProviderUnavailable:      {CodeProviderUnavailable, http.StatusServiceUnavailable},

	ErrTokenInvalidOrExpired: {CodeInvalidOrExpired, http.StatusUnauthorized},
	ErrTokenMalformed:        {CodeInvalidOrExpired, http.StatusUnauthorized},
	ErrSessionNotFound:       {CodeInvalidOrExpired, http.StatusUnauthorized},
	ErrSessionExpired:        {CodeInvalidOrExpired, http.StatusUnauthorized},
	ErrConcurrentUpdate:      {CodeConflict, http.StatusConflict},
}

// CodeOf returns the stable machine code for err, unwrapping as needed.
// Unknown errors map to INTERNAL_ERROR.
func CodeOf(err error) string {
	for sentinel, class := range errorClasses {
		if errors.Is(err, sentinel) {
			return class.code
		}
	}
	return CodeInternal
}

// StatusOf returns the HTTP status mirroring CodeOf(err).
func StatusOf(err error) int {
	for sentinel, class := range errorClasses {
		if errors.Is(err, sentinel) {
			return class.status
		}
	}
	return http.StatusInternalServerError
}
