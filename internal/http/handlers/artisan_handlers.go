package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/craftconnect/authsvc/domain"
	"github.com/craftconnect/authsvc/internal/http/api"
	"github.com/craftconnect/authsvc/internal/http/middleware"
)

// ArtisanHandlers manages artisan seller profiles. The role and
// identity-verification gates run in middleware before these handlers.
type ArtisanHandlers struct {
	artisanRepo domain.ArtisanProfileRepository
}

// NewArtisanHandlers creates new artisan profile handlers.
func NewArtisanHandlers(artisanRepo domain.ArtisanProfileRepository) *ArtisanHandlers {
	return &ArtisanHandlers{artisanRepo: artisanRepo}
}

// ArtisanProfileRequest is the create/update payload.
type ArtisanProfileRequest struct {
	Skills     []string `json:"skills" binding:"required,min=1"`
	Experience int      `json:"experience" binding:"min=0"`
	Location   string   `json:"location" binding:"required"`
}

// Create opens the caller's seller profile. The unique index on user_id
// makes exactly one of any concurrent creates win.
func (h *ArtisanHandlers) Create(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	var req ArtisanProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	profile := &domain.ArtisanProfile{
		UserID:     userID,
		Skills:     req.Skills,
		Experience: req.Experience,
		Location:   req.Location,
	}
	if err := h.artisanRepo.Create(c.Request.Context(), profile); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusCreated, "Artisan profile created", artisanView(profile))
}

// Update rewrites the caller's profile. Ownership is checked by the
// middleware table against the profile id in the path.
func (h *ArtisanHandlers) Update(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}
	profileID, err := pathID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	var req ArtisanProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.FailStatus(c, http.StatusBadRequest, domain.CodeValidationFailed, err.Error())
		return
	}

	existing, err := h.artisanRepo.FindByID(c.Request.Context(), profileID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	if existing.UserID != userID && !middleware.IsAdmin(c) {
		api.Fail(c, domain.ErrResourceAccessDenied)
		return
	}

	existing.Skills = req.Skills
	existing.Experience = req.Experience
	existing.Location = req.Location
	if err := h.artisanRepo.Update(c.Request.Context(), existing); err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "Artisan profile updated", artisanView(existing))
}

// Get returns a profile by id.
func (h *ArtisanHandlers) Get(c *gin.Context) {
	profileID, err := pathID(c, "id")
	if err != nil {
		api.Fail(c, err)
		return
	}

	profile, err := h.artisanRepo.FindByID(c.Request.Context(), profileID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "", artisanView(profile))
}

// Mine returns the caller's own profile.
func (h *ArtisanHandlers) Mine(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		api.Fail(c, domain.ErrUnauthenticated)
		return
	}

	profile, err := h.artisanRepo.FindByUser(c.Request.Context(), userID)
	if err != nil {
		api.Fail(c, err)
		return
	}
	api.OK(c, http.StatusOK, "", artisanView(profile))
}

// artisanView shapes a seller profile for response bodies.
func artisanView(profile *domain.ArtisanProfile) gin.H {
	return gin.H{
		"id":         profile.ID,
		"user_id":    profile.UserID,
		"skills":     profile.Skills,
		"experience": profile.Experience,
		"location":   profile.Location,
		"created_at": profile.CreatedAt,
		"updated_at": profile.UpdatedAt,
	}
}
