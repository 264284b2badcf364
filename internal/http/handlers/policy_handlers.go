package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
)

// PolicyHandlers is the admin CRUD surface over the casbin policy table.
type PolicyHandlers struct {
	policySvc domain.PolicyService
}

// NewPolicyHandlers creates new policy handlers.
func NewPolicyHandlers(policySvc domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policySvc: policySvc}
}

type policyRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

// List returns every persisted policy row.
func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.policySvc.GetPolicies()
	if err != nil {
		api.FailStatus(c, http.StatusInternalServerError, domain.CodeInternal, "could not load policies")
		return
	}
	api.OK(c, http.StatusOK, "", gin.H{"policies": policies, "count": len(policies)})
}

// Add inserts a policy row.
func (h *PolicyHandlers) Add(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, "unknown role")
		return
	}

	if err := h.policySvc.AddPolicy(role, req.Resource, req.Action); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusCreated, "Policy added", nil)
}

// Remove deletes a policy row.
func (h *PolicyHandlers) Remove(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, "unknown role")
		return
	}

	if err := h.policySvc.RemovePolicy(role, req.Resource, req.Action); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "Policy removed", nil)
}
