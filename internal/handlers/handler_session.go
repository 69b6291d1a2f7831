package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
)

// sessionHandler serves the cached collections the dashboard renders.
type sessionHandler struct {
	sessionService portssvc.SessionSvcFacade
}

func registerSessionRoutes(rg *gin.RouterGroup, sessionService portssvc.SessionSvcFacade) {
	h := &sessionHandler{sessionService: sessionService}
	rg.GET("/accounts", h.listAccounts)
	rg.GET("/transactions", h.listTransactions)
	rg.GET("/notifications", h.listNotifications)
	rg.POST("/session/refresh", h.refresh)
}

// listAccounts godoc
// @Summary List accounts
// @Description Returns the identity's accounts in display order, from the session cache.
// @Tags session
// @Produce json
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts [get]
func (h *sessionHandler) listAccounts(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.sessionService.Accounts(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to load accounts")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listTransactions godoc
// @Summary List transaction history
// @Description Newest first, from the session cache.
// @Tags session
// @Produce json
// @Success 200 {array} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions [get]
func (h *sessionHandler) listTransactions(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.sessionService.Transactions(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to load transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// listNotifications godoc
// @Summary List inbox notifications
// @Tags session
// @Produce json
// @Success 200 {array} dto.NotificationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *sessionHandler) listNotifications(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.sessionService.Notifications(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to load notifications")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// refresh godoc
// @Summary Refresh session collections
// @Description Re-hydrates accounts, transactions and notifications from the ledger.
// @Tags session
// @Produce json
// @Success 204 "Refreshed"
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /session/refresh [post]
func (h *sessionHandler) refresh(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	if err := h.sessionService.Refresh(c.Request.Context(), identityID); err != nil {
		respondServiceError(c, err, "Failed to refresh session")
		return
	}
	c.Status(http.StatusNoContent)
}
