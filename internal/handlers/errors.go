package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/middleware"
)

// ErrorResponse is the error body every endpoint returns.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondServiceError maps the service error taxonomy onto HTTP statuses and
// the exact copy the UI renders. Unknown errors become a logged 500 with the
// given fallback message.
func respondServiceError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrAmountBelowMinimum):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Amount must be at least $1"})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Insufficient balance"})
	case errors.Is(err, apperrors.ErrPinMismatch):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Incorrect PIN"})
	case errors.Is(err, apperrors.ErrPinLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Too many incorrect PIN attempts. Please try again shortly."})
	case errors.Is(err, apperrors.ErrSuspended):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Your Account Has been Temporarily Suspended!"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrFlowState):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "This action is not available at the current transfer step"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Username or account number already in use"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrCommitFailed):
		logger.Error("Settlement commit rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Transfer could not be completed. No funds were moved."})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: fallback})
	}
}

// mustUserID pulls the authenticated identity id or writes a 401.
func mustUserID(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	}
	return id, ok
}
