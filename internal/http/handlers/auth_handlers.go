package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
	"github.com/craftconnect/authsvc/internal/http/middleware"
)

// AuthHandlers handles registration, login, OTP and session endpoints.
type AuthHandlers struct {
	authSvc domain.AuthService
}

// NewAuthHandlers creates new auth handlers.
func NewAuthHandlers(authSvc domain.AuthService) *AuthHandlers {
	return &AuthHandlers{authSvc: authSvc}
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role,omitempty"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// OTPSendRequest asks for a fresh phone verification code.
type OTPSendRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// OTPVerifyRequest presents a phone verification code.
type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// Register handles user registration. A phone OTP is dispatched as a
// side effect; the account can log in before verifying the phone.
func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	role := domain.RoleCustomer
	if req.Role != "" {
		parsed, ok := domain.ParseRole(req.Role)
		if !ok {
			api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, "unknown role")
			return
		}
		role = parsed
	}

	user, err := h.authSvc.Register(c.Request.Context(), req.Name, req.Phone, req.Password, role)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusCreated, "User registered successfully. Please verify your phone number.", gin.H{
		"user_id": user.ID,
		"phone":   domain.MaskPhone(user.Phone),
		"role":    user.Role,
	})
}

// Login handles credential login.
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Phone, req.Password, c.Request.UserAgent())
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Login successful", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
		"user": gin.H{
			"id":                   result.User.ID,
			"name":                 result.User.Name,
			"phone":                domain.MaskPhone(result.User.Phone),
			"role":                 result.User.Role,
			"is_phone_verified":    result.User.IsPhoneVerified,
			"is_identity_verified": result.User.IsIdentityVerified,
		},
	})
}

// SendOTP dispatches a phone verification code.
func (h *AuthHandlers) SendOTP(c *gin.Context) {
	var req OTPSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	txn, err := h.authSvc.SendOTP(c.Request.Context(), req.Phone)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "OTP sent successfully", gin.H{
		"transaction_id": txn.TransactionID,
		"phone":          txn.Masked,
		"expires_at":     txn.ExpiresAt,
	})
}

// VerifyOTP confirms a phone verification code and activates the phone.
func (h *AuthHandlers) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	user, err := h.authSvc.VerifyOTP(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Phone number verified successfully", gin.H{
		"user_id":           user.ID,
		"is_phone_verified": user.IsPhoneVerified,
	})
}

// Refresh rotates a refresh token. The previous token is dead after a
// successful call.
func (h *AuthHandlers) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Token refreshed", gin.H{
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"token_type":    "Bearer",
		"expires_in":    result.ExpiresIn,
	})
}

// Logout revokes the caller's current session.
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, ok := middleware.CurrentSessionID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), sessionID); err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Logged out successfully", nil)
}

// LogoutAll revokes every session of the caller across devices.
func (h *AuthHandlers) LogoutAll(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	count, err := h.authSvc.LogoutAll(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Logged out from all devices", gin.H{
		"sessions_revoked": count,
	})
}

// Profile returns the authenticated caller's account.
func (h *AuthHandlers) Profile(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	user, err := h.authSvc.GetUserProfile(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "", userView(user))
}

// ChangePassword rotates the caller's password and revokes every other
// session.
func (h *AuthHandlers) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}
	sessionID, _ := middleware.CurrentSessionID(c)

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword, sessionID); err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Password changed successfully. Other sessions were revoked.", nil)
}

// Gone answers retired endpoints kept only so old clients get a clear
// signal instead of a 404.
func Gone(c *gin.Context) {
	api.FailStatus(c, http.StatusGone, domain.CodeNotFound, "this endpoint has been removed")
}

// userView shapes a user entity for response bodies. Aadhaar and phone
// numbers never leave the service unmasked.
func userView(user *domain.User) gin.H {
	view := gin.H{
		"id":                   user.ID,
		"name":                 user.Name,
		"phone":                domain.MaskPhone(user.Phone),
		"role":                 user.Role,
		"is_active":            user.IsActive,
		"is_phone_verified":    user.IsPhoneVerified,
		"is_identity_verified": user.IsIdentityVerified,
		"identity_status":      user.IdentityStatus,
		"created_at":           user.CreatedAt,
		"updated_at":           user.UpdatedAt,
	}
	if user.MaskedAadhaar != "" {
		view["masked_aadhaar"] = user.MaskedAadhaar
	}
	if user.IdentityVerifiedAt != nil {
		view["identity_verified_at"] = user.IdentityVerifiedAt
	}
	return view
}
