package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/handlers"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

const testJWTSecret = "test-secret-for-handler-tests"

// --- Test Suite Setup ---

type TransferHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockAuthSvc     *MockAuthService
	mockSessionSvc  *MockSessionService
	mockGateSvc     *MockGateService
	mockTransferSvc *MockTransferService
	testIdentityID  string
}

func (suite *TransferHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockAuthSvc = new(MockAuthService)
	suite.mockSessionSvc = new(MockSessionService)
	suite.mockGateSvc = new(MockGateService)
	suite.mockTransferSvc = new(MockTransferService)
	suite.testIdentityID = uuid.NewString()

	cfg := &config.Config{
		JWTSecret:    testJWTSecret,
		FrontendBase: "http://localhost:3000",
		IsProduction: true, // no swagger routes in handler tests
	}
	container := &portssvc.ServiceContainer{
		Auth:     suite.mockAuthSvc,
		Session:  suite.mockSessionSvc,
		Gate:     suite.mockGateSvc,
		Transfer: suite.mockTransferSvc,
	}

	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

// generateTestToken creates a signed token the auth middleware accepts.
func (suite *TransferHandlerTestSuite) generateTestToken(identityID string) string {
	claims := jwt.RegisteredClaims{
		Subject:   identityID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	suite.Require().NoError(err, "Failed to sign test token")
	return signed
}

// performRequest executes an authenticated request against the test router.
func (suite *TransferHandlerTestSuite) performRequest(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	suite.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", suite.generateTestToken(suite.testIdentityID)))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransferHandlerTestSuite) composeBody() dto.ComposeTransferRequest {
	return dto.ComposeTransferRequest{
		FromAccount:   "Checking Account",
		Amount:        decimal.NewFromInt(250),
		RecipientBank: "First Harbor Bank",
		RecipientName: "Jordan Ellis",
		AccountNumber: "9876543210",
		RoutingNumber: "021000021",
		BankAddress:   "1 Harbor Way, Boston MA",
		TransferType:  "wire",
		Memo:          "rent",
		Confirmed:     true,
	}
}

// --- Tests ---

func (suite *TransferHandlerTestSuite) TestCompose_Success() {
	expected := dto.TransferFlowResponse{State: "reviewing", Reference: "NBTRX-00382911"}
	suite.mockTransferSvc.On("Compose", mock.Anything, suite.testIdentityID, mock.AnythingOfType("dto.ComposeTransferRequest")).
		Return(expected, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transfers", suite.composeBody())

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransferFlowResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("reviewing", resp.State)
	suite.Equal("NBTRX-00382911", resp.Reference)
	suite.mockTransferSvc.AssertExpectations(suite.T())
}

func (suite *TransferHandlerTestSuite) TestCompose_MissingFieldIsRejectedBeforeService() {
	body := suite.composeBody()
	body.RecipientName = ""

	w := suite.performRequest(http.MethodPost, "/api/v1/transfers", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransferSvc.AssertNotCalled(suite.T(), "Compose", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferHandlerTestSuite) TestCompose_AmountBelowMinimum() {
	suite.mockTransferSvc.On("Compose", mock.Anything, suite.testIdentityID, mock.AnythingOfType("dto.ComposeTransferRequest")).
		Return(dto.TransferFlowResponse{}, fmt.Errorf("%w", apperrors.ErrAmountBelowMinimum)).Once()

	body := suite.composeBody()
	body.Amount = decimal.RequireFromString("0.50")
	w := suite.performRequest(http.MethodPost, "/api/v1/transfers", body)

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Amount must be at least $1", resp.Error)
}

func (suite *TransferHandlerTestSuite) TestAuthorize_IncorrectPIN() {
	suite.mockTransferSvc.On("Authorize", mock.Anything, suite.testIdentityID, dto.AuthorizeTransferRequest{PIN: "9999"}).
		Return(dto.TransferFlowResponse{}, apperrors.ErrPinMismatch).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transfers/authorize", dto.AuthorizeTransferRequest{PIN: "9999"})

	suite.Equal(http.StatusUnauthorized, w.Code)
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Incorrect PIN", resp.Error)
}

func (suite *TransferHandlerTestSuite) TestAuthorize_Locked() {
	suite.mockTransferSvc.On("Authorize", mock.Anything, suite.testIdentityID, mock.AnythingOfType("dto.AuthorizeTransferRequest")).
		Return(dto.TransferFlowResponse{}, apperrors.ErrPinLocked).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transfers/authorize", dto.AuthorizeTransferRequest{PIN: "1234"})

	suite.Equal(http.StatusTooManyRequests, w.Code)
}

func (suite *TransferHandlerTestSuite) TestAuthorize_NonNumericPINIsRejected() {
	w := suite.performRequest(http.MethodPost, "/api/v1/transfers/authorize", map[string]string{"pin": "12a4"})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTransferSvc.AssertNotCalled(suite.T(), "Authorize", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransferHandlerTestSuite) TestAuthorize_SettlesFlow() {
	record := dto.TransactionResponse{
		Reference: "NBTRX-00382911",
		Type:      "debit",
		Amount:    decimal.NewFromInt(250),
		Account:   "Checking Account",
		Status:    "completed",
	}
	suite.mockTransferSvc.On("Authorize", mock.Anything, suite.testIdentityID, dto.AuthorizeTransferRequest{PIN: "1234"}).
		Return(dto.TransferFlowResponse{State: "settled", Reference: "NBTRX-00382911", Record: &record}, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transfers/authorize", dto.AuthorizeTransferRequest{PIN: "1234"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransferFlowResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("settled", resp.State)
	suite.Require().NotNil(resp.Record)
	suite.Equal("NBTRX-00382911", resp.Record.Reference)
}

func (suite *TransferHandlerTestSuite) TestFinish_FlowNotSettled() {
	suite.mockTransferSvc.On("Finish", mock.Anything, suite.testIdentityID).
		Return(dto.TransferFlowResponse{}, fmt.Errorf("%w: flow is not settled", apperrors.ErrFlowState)).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transfers/finish", nil)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *TransferHandlerTestSuite) TestCurrent_ReturnsFlowState() {
	suite.mockTransferSvc.On("Current", mock.Anything, suite.testIdentityID).
		Return(dto.TransferFlowResponse{State: "composing"}, nil).Once()

	w := suite.performRequest(http.MethodGet, "/api/v1/transfers/current", nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransferFlowResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("composing", resp.State)
}

func (suite *TransferHandlerTestSuite) TestCurrent_MissingToken() {
	req, err := http.NewRequest(http.MethodGet, "/api/v1/transfers/current", nil)
	suite.Require().NoError(err)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockTransferSvc.AssertNotCalled(suite.T(), "Current", mock.Anything, mock.Anything)
}

func (suite *TransferHandlerTestSuite) TestCurrent_BadToken() {
	req, err := http.NewRequest(http.MethodGet, "/api/v1/transfers/current", nil)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *TransferHandlerTestSuite) TestDeposit_Created() {
	record := dto.TransactionResponse{
		Type:    "deposit",
		Amount:  decimal.NewFromInt(200),
		Account: "Savings Account",
		Status:  "completed",
	}
	suite.mockTransferSvc.On("Deposit", mock.Anything, suite.testIdentityID, mock.AnythingOfType("dto.DepositRequest")).
		Return(record, nil).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/deposits", dto.DepositRequest{
		Account: "Savings Account",
		Amount:  decimal.NewFromInt(200),
	})

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.TransactionResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("deposit", resp.Type)
	suite.Equal("Savings Account", resp.Account)
}

func (suite *TransferHandlerTestSuite) TestCancel_UnexpectedServiceError() {
	suite.mockTransferSvc.On("Cancel", mock.Anything, suite.testIdentityID).
		Return(dto.TransferFlowResponse{}, errors.New("session store unavailable")).Once()

	w := suite.performRequest(http.MethodPost, "/api/v1/transfers/cancel", nil)

	suite.Equal(http.StatusInternalServerError, w.Code)
	var resp handlers.ErrorResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Failed to cancel transfer", resp.Error)
}

func TestTransferHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransferHandlerTestSuite))
}
