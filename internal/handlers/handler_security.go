package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/middleware"
)

// securityHandler owns the dashboard gate and the emailed one-time code.
type securityHandler struct {
	gateService portssvc.GateSvcFacade
	authService portssvc.AuthSvcFacade
}

// registerSecurityRoutes sets up the gate and OTP routes. Code submission is
// IP rate-limited on top of the per-session attempt accounting.
func registerSecurityRoutes(rg *gin.RouterGroup, gateService portssvc.GateSvcFacade, authService portssvc.AuthSvcFacade) {
	h := &securityHandler{gateService: gateService, authService: authService}

	rate, _ := limiter.NewRateFromFormatted("10-M")
	store := memory.NewStore()
	limitMiddleware := middleware.RateLimit(limiter.New(store, rate))

	security := rg.Group("/security")
	{
		security.GET("/gate", h.gateStatus)
		security.POST("/gate/verify", limitMiddleware, h.gateVerify)
		security.POST("/otp/request", limitMiddleware, h.requestOTP)
		security.POST("/otp/verify", limitMiddleware, h.verifyOTP)
	}
}

// gateStatus godoc
// @Summary Dashboard gate status
// @Description Reports whether this identity's dashboard is gated and whether the gate was already passed.
// @Tags security
// @Produce json
// @Success 200 {object} dto.GateStatusResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /security/gate [get]
func (h *securityHandler) gateStatus(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.gateService.Status(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to load gate status")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// gateVerify godoc
// @Summary Submit the dashboard gate code
// @Description A correct 6-digit code unlocks the dashboard for the rest of the login. Idempotent once passed.
// @Tags security
// @Accept json
// @Produce json
// @Param code body dto.GateVerifyRequest true "6-digit code"
// @Success 200 {object} dto.GateStatusResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Wrong code"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /security/gate/verify [post]
func (h *securityHandler) gateVerify(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.GateVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 6-digit code is required"})
		return
	}
	resp, err := h.gateService.SubmitCode(c.Request.Context(), identityID, req.Code)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Incorrect code"})
			return
		}
		respondServiceError(c, err, "Failed to verify gate code")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// requestOTP godoc
// @Summary Request an emailed one-time code
// @Description Sends a 6-digit code to the identity's email. The code expires after five minutes.
// @Tags security
// @Produce json
// @Success 202 "Code sent"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /security/otp/request [post]
func (h *securityHandler) requestOTP(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.authService.RequestOTP(c.Request.Context(), identityID); err != nil {
		respondServiceError(c, err, "Failed to send code")
		return
	}
	c.Status(http.StatusAccepted)
}

// verifyOTP godoc
// @Summary Verify an emailed one-time code
// @Tags security
// @Accept json
// @Produce json
// @Param code body dto.OTPVerifyRequest true "6-digit code"
// @Success 204 "Code accepted"
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Wrong or expired code"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /security/otp/verify [post]
func (h *securityHandler) verifyOTP(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 6-digit code is required"})
		return
	}
	if err := h.authService.VerifyOTP(c.Request.Context(), identityID, req.Code); err != nil {
		if errors.Is(err, apperrors.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid or expired code"})
			return
		}
		respondServiceError(c, err, "Failed to verify code")
		return
	}
	c.Status(http.StatusNoContent)
}
