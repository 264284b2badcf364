package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
	"github.com/craftconnect/authsvc/internal/http/middleware"
)

// AddressHandlers manages the caller's delivery addresses. Exactly one
// address per user is the default at any time; the repository keeps that
// invariant, these handlers only translate HTTP.
type AddressHandlers struct {
	addressRepo domain.AddressRepository
}

// NewAddressHandlers creates new address handlers.
func NewAddressHandlers(addressRepo domain.AddressRepository) *AddressHandlers {
	return &AddressHandlers{addressRepo: addressRepo}
}

// AddressRequest is the create/update payload.
type AddressRequest struct {
	HouseNo   string `json:"house_no" binding:"required"`
	Street    string `json:"street" binding:"required"`
	City      string `json:"city" binding:"required"`
	District  string `json:"district" binding:"required"`
	PinCode   string `json:"pin_code" binding:"required,len=6,numeric"`
	IsDefault bool   `json:"is_default"`
}

// List returns all addresses of the caller.
func (h *AddressHandlers) List(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	addresses, err := h.addressRepo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	views := make([]gin.H, 0, len(addresses))
	for _, addr := range addresses {
		views = append(views, addressView(addr))
	}
	api.OK(c, http.StatusOK, "", gin.H{"addresses": views, "count": len(views)})
}

// Create adds an address. The first address becomes the default
// regardless of the request flag.
func (h *AddressHandlers) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	addr := &domain.Address{
		UserID:    userID,
		HouseNo:   req.HouseNo,
		Street:    req.Street,
		City:      req.City,
		District:  req.District,
		PinCode:   req.PinCode,
		IsDefault: req.IsDefault,
	}
	if err := h.addressRepo.Create(c.Request.Context(), addr); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusCreated, "Address added successfully", addressView(addr))
}

// Update rewrites an address owned by the caller.
func (h *AddressHandlers) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}
	addressID, err := pathID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	var req AddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	addr := &domain.Address{
		ID:        addressID,
		UserID:    userID,
		HouseNo:   req.HouseNo,
		Street:    req.Street,
		City:      req.City,
		District:  req.District,
		PinCode:   req.PinCode,
		IsDefault: req.IsDefault,
	}
	if err := h.addressRepo.Update(c.Request.Context(), addr); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "Address updated successfully", addressView(addr))
}

// Delete removes an address. If the default is deleted the oldest
// remaining address is promoted.
func (h *AddressHandlers) Delete(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}
	addressID, err := pathID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	if err := h.addressRepo.Delete(c.Request.Context(), userID, addressID); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "Address deleted successfully", nil)
}

// SetDefault flips the default flag to the given address.
func (h *AddressHandlers) SetDefault(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}
	addressID, err := pathID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	if err := h.addressRepo.SetDefault(c.Request.Context(), userID, addressID); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "Default address updated", nil)
}

// GetDefault returns the caller's default address.
func (h *AddressHandlers) GetDefault(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	addr, err := h.addressRepo.FindDefault(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "", addressView(addr))
}

func pathID(c *gin.Context, name string) (uint, error) {
	id64, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, domain.ErrValidationFailed
	}
	return uint(id64), nil
}

// addressView shapes an address for response bodies.
func addressView(addr *domain.Address) gin.H {
	return gin.H{
		"id":         addr.ID,
		"user_id":    addr.UserID,
		"house_no":   addr.HouseNo,
		"street":     addr.Street,
		"city":       addr.City,
		"district":   addr.District,
		"pin_code":   addr.PinCode,
		"is_default": addr.IsDefault,
		"created_at": addr.CreatedAt,
		"updated_at": addr.UpdatedAt,
	}
}
