package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
)

// UserHandlers serves user records by id. The ownership middleware
// restricts non-admin callers to their own id.
type UserHandlers struct {
	userRepo domain.UserRepository
}

// NewUserHandlers creates new user handlers.
func NewUserHandlers(userRepo domain.UserRepository) *UserHandlers {
	return &UserHandlers{userRepo: userRepo}
}

// Get returns one user record.
func (h *UserHandlers) Get(c *gin.Context) {
	userID, err := pathID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "", userView(user))
}
