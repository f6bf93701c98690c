package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/taskmanager/internal/auth"
)

// ProfileController handles user profile operations.
type ProfileController struct {
	service ProfileService
}

// NewProfileController creates a new ProfileController.
func NewProfileController(service ProfileService) *ProfileController {
	return &ProfileController{
		service: service,
	}
}

// UpdateProfileRequest is the body of PATCH /profile.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Email    *string `json:"email" binding:"omitempty,email,max=254"`
	Password *string `json:"password" binding:"omitempty,max=72"`
}

// RegisterRoutes registers profile routes. The group must be behind the auth middleware.
func (pc *ProfileController) RegisterRoutes(router gin.IRoutes) {
	router.GET("/profile", pc.GetProfile)
	router.PATCH("/profile", pc.UpdateProfile)
}

// GetProfile handles GET /profile
func (pc *ProfileController) GetProfile(c *gin.Context) {
	identity, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := pc.service.GetProfile(c.Request.Context(), identity.SubjectID)
	if err != nil {
		respondServiceError(c, err, "get profile")
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PATCH /profile
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	identity, ok := auth.IdentityFromContext(c.Request.Context())
	if !ok {
		respondError(c, http.StatusUnauthorized, "authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := pc.service.UpdateProfile(c.Request.Context(), identity.SubjectID, auth.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondServiceError(c, err, "update profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
