package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
	"github.com/craftconnect/authsvc/internal/http/middleware"
)

// VerificationHandlers exposes the Aadhaar identity verification flow
// plus the admin review surface.
type VerificationHandlers struct {
	verifySvc domain.VerificationService
}

// NewVerificationHandlers creates new verification handlers.
func NewVerificationHandlers(verifySvc domain.VerificationService) *VerificationHandlers {
	return &VerificationHandlers{verifySvc: verifySvc}
}

// AadhaarInitiateRequest starts an Aadhaar verification.
type AadhaarInitiateRequest struct {
	AadhaarNumber string `json:"aadhaar_number" binding:"required"`
}

// AadhaarVerifyRequest presents the Aadhaar OTP code.
type AadhaarVerifyRequest struct {
	Code string `json:"code" binding:"required"`
}

// ManualVerifyRequest is the audited admin override.
type ManualVerifyRequest struct {
	Note string `json:"note" binding:"required"`
}

// Initiate starts Aadhaar verification for the caller. Only artisan and
// distributor accounts may enter the flow, and only after their phone
// is verified.
func (h *VerificationHandlers) Initiate(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	var req AadhaarInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	txn, err := h.verifySvc.InitiateAadhaar(c.Request.Context(), userID, req.AadhaarNumber)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Verification code sent to your registered phone number", gin.H{
		"transaction_id": txn.TransactionID,
		"masked_aadhaar": txn.Masked,
		"expires_at":     txn.ExpiresAt,
	})
}

// Verify completes Aadhaar verification with the delivered code.
func (h *VerificationHandlers) Verify(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	var req AadhaarVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	user, err := h.verifySvc.VerifyAadhaar(c.Request.Context(), userID, req.Code)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "Identity verified successfully", gin.H{
		"user_id":              user.ID,
		"is_identity_verified": user.IsIdentityVerified,
		"masked_aadhaar":       user.MaskedAadhaar,
		"identity_verified_at": user.IdentityVerifiedAt,
	})
}

// Status returns the caller's identity verification state.
func (h *VerificationHandlers) Status(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	user, err := h.verifySvc.Status(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}

	data := gin.H{
		"identity_status":      user.IdentityStatus,
		"is_identity_verified": user.IsIdentityVerified,
	}
	if user.MaskedAadhaar != "" {
		data["masked_aadhaar"] = user.MaskedAadhaar
	}
	if user.IdentityVerifiedAt != nil {
		data["identity_verified_at"] = user.IdentityVerifiedAt
	}
	api.OK(c, http.StatusOK, "", data)
}

// ManualVerify is the admin override. It is idempotent and always
// audited with the supplied note.
func (h *VerificationHandlers) ManualVerify(c *gin.Context) {
	adminID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}
	targetID, err := pathID(c, "userId")
	if err != nil {
		api.Fail(c, err)
		return
	}

	var req ManualVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, "a note explaining the override is required")
		return
	}

	user, err := h.verifySvc.ManualVerify(c.Request.Context(), adminID, targetID, req.Note)
	if err != nil {
		api.Fail(c, err)
		return
	}

	api.OK(c, http.StatusOK, "User manually verified", gin.H{
		"user_id":              user.ID,
		"is_identity_verified": user.IsIdentityVerified,
		"identity_status":      user.IdentityStatus,
	})
}

// ListPending returns artisan/distributor accounts awaiting identity
// verification.
func (h *VerificationHandlers) ListPending(c *gin.Context) {
	users, err := h.verifySvc.ListPending(c.Request.Context())
	if err != nil {
		api.Fail(c, err)
		return
	}

	views := make([]gin.H, 0, len(users))
	for _, user := range users {
		views = append(views, gin.H{
			"id":              user.ID,
			"name":            user.Name,
			"phone":           domain.MaskPhone(user.Phone),
			"role":            user.Role,
			"identity_status": user.IdentityStatus,
			"created_at":      user.CreatedAt,
		})
	}
	api.OK(c, http.StatusOK, "", gin.H{"users": views, "count": len(views)})
}
