package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
)

// profileHandler serves the logged-in identity's own profile.
type profileHandler struct {
	authService portssvc.AuthSvcFacade
}

func registerProfileRoutes(rg *gin.RouterGroup, authService portssvc.AuthSvcFacade) {
	h := &profileHandler{authService: authService}
	rg.GET("/me", h.getProfile)
	rg.PUT("/me", h.updateProfile)
}

// getProfile godoc
// @Summary Get own profile
// @Tags profile
// @Produce json
// @Success 200 {object} dto.IdentityResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [get]
func (h *profileHandler) getProfile(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.authService.GetIdentity(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateProfile godoc
// @Summary Update own profile
// @Description Applies only the provided fields. Setting transferPin establishes the 4-digit transfer PIN.
// @Tags profile
// @Accept json
// @Produce json
// @Param profile body dto.UpdateProfileRequest true "Fields to update"
// @Success 200 {object} dto.IdentityResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /me [put]
func (h *profileHandler) updateProfile(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	resp, err := h.authService.UpdateProfile(c.Request.Context(), identityID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, resp)
}
