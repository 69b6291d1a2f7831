package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
)

// transferHandler drives the transfer authorization flow and deposits.
type transferHandler struct {
	transferService portssvc.TransferSvcFacade
}

func registerTransferRoutes(rg *gin.RouterGroup, transferService portssvc.TransferSvcFacade) {
	h := &transferHandler{transferService: transferService}

	transfers := rg.Group("/transfers")
	{
		transfers.POST("", h.compose)
		transfers.POST("/confirm", h.confirm)
		transfers.POST("/authorize", h.authorize)
		transfers.POST("/cancel", h.cancel)
		transfers.POST("/finish", h.finish)
		transfers.GET("/current", h.current)
	}
	rg.POST("/deposits", h.deposit)
}

// compose godoc
// @Summary Compose a transfer
// @Description Validates the full transfer form and moves the flow to the review step. A validation failure keeps the flow composing with the form retained.
// @Tags transfers
// @Accept json
// @Produce json
// @Param transfer body dto.ComposeTransferRequest true "Transfer form"
// @Success 200 {object} dto.TransferFlowResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers [post]
func (h *transferHandler) compose(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.ComposeTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	resp, err := h.transferService.Compose(c.Request.Context(), identityID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to compose transfer")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// confirm godoc
// @Summary Confirm the reviewed transfer
// @Description Acknowledges the review summary and moves the flow to the PIN challenge.
// @Tags transfers
// @Produce json
// @Success 200 {object} dto.TransferFlowResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Flow not at the review step"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/confirm [post]
func (h *transferHandler) confirm(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.transferService.Confirm(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to confirm transfer")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// authorize godoc
// @Summary Authorize the transfer with the 4-digit PIN
// @Description A correct PIN settles the transfer after the processing delay: the record is appended and the source account debited as one unit. A wrong PIN keeps the flow at the challenge; repeated misses lock it briefly.
// @Tags transfers
// @Accept json
// @Produce json
// @Param pin body dto.AuthorizeTransferRequest true "Transfer PIN"
// @Success 200 {object} dto.TransferFlowResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Incorrect PIN"
// @Failure 429 {object} ErrorResponse "PIN entry locked"
// @Failure 500 {object} ErrorResponse "Settlement failed, no funds moved"
// @Security BearerAuth
// @Router /transfers/authorize [post]
func (h *transferHandler) authorize(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.AuthorizeTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "A 4-digit PIN is required"})
		return
	}
	resp, err := h.transferService.Authorize(c.Request.Context(), identityID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to authorize transfer")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// cancel godoc
// @Summary Cancel the active transfer flow
// @Description Returns the flow to composing with the form retained. Canceling during the processing delay aborts the settlement before any funds move.
// @Tags transfers
// @Produce json
// @Success 200 {object} dto.TransferFlowResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Flow already settled"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/cancel [post]
func (h *transferHandler) cancel(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.transferService.Cancel(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to cancel transfer")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// finish godoc
// @Summary Acknowledge the settled transfer
// @Description Dismisses the success screen and resets the flow, clearing every retained field.
// @Tags transfers
// @Produce json
// @Success 200 {object} dto.TransferFlowResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Flow not settled"
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/finish [post]
func (h *transferHandler) finish(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.transferService.Finish(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to finish transfer")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// current godoc
// @Summary Current transfer flow state
// @Tags transfers
// @Produce json
// @Success 200 {object} dto.TransferFlowResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /transfers/current [get]
func (h *transferHandler) current(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	resp, err := h.transferService.Current(c.Request.Context(), identityID)
	if err != nil {
		respondServiceError(c, err, "Failed to load transfer state")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deposit godoc
// @Summary Deposit funds
// @Description Credits the named account and appends a completed deposit record, as one ledger transaction.
// @Tags transfers
// @Accept json
// @Produce json
// @Param deposit body dto.DepositRequest true "Deposit"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /deposits [post]
func (h *transferHandler) deposit(c *gin.Context) {
	identityID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	resp, err := h.transferService.Deposit(c.Request.Context(), identityID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to deposit funds")
		return
	}
	c.JSON(http.StatusCreated, resp)
}
