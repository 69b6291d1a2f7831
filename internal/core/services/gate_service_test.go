package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/core/services"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

const testGateCode = "483921"

type GateServiceTestSuite struct {
	suite.Suite
	sessionRepo *MockSessionRepository
	svc         portssvc.GateSvcFacade
	identityID  string
}

// buildGate wires a gate service over a session rebuilt from mocks, with the
// given account number and restricted set.
func (suite *GateServiceTestSuite) buildGate(accountNumber string, restricted []string) {
	provider, identityRepo, accountRepo, txnRepo, notifRepo, sessionRepo := newMockProvider()
	suite.sessionRepo = sessionRepo
	suite.identityID = uuid.NewString()

	identity := domain.Identity{
		IdentityID:    suite.identityID,
		FullName:      "Riley Chen",
		Email:         "riley@example.com",
		Username:      "rileychen",
		AccountNumber: accountNumber,
		Status:        domain.StatusActive,
	}
	sessionRepo.On("FindSessionByIdentity", mock.Anything, suite.identityID).
		Return(&domain.SessionRecord{SessionID: uuid.NewString(), IdentityID: suite.identityID, PinVerified: false}, nil)
	identityRepo.On("FindIdentityByID", mock.Anything, suite.identityID).Return(&identity, nil)
	accountRepo.On("FindAccountsByIdentity", mock.Anything, suite.identityID).
		Return([]domain.Account{{AccountID: "checking", Name: "Checking Account", Type: domain.Checking}}, nil)
	txnRepo.On("FindTransactionsByIdentity", mock.Anything, suite.identityID).Return([]domain.Transaction{}, nil)
	notifRepo.On("FindNotificationsByIdentity", mock.Anything, suite.identityID).Return([]domain.Notification{}, nil)

	cfg := &config.Config{DashboardGateCode: testGateCode, RestrictedAccounts: restricted}
	sessions := services.NewSessionService(provider, restricted)
	suite.svc = services.NewGateService(cfg, sessions, sessionRepo)
}

func (suite *GateServiceTestSuite) TestStatus_RestrictedAccountIsGated() {
	suite.buildGate("1223459922", []string{"1223459922", "4441048536"})

	status, err := suite.svc.Status(context.Background(), suite.identityID)
	suite.Require().NoError(err)
	suite.True(status.RequiresPin)
	suite.False(status.PinVerified)
}

func (suite *GateServiceTestSuite) TestStatus_UnrestrictedAccountIsOpen() {
	suite.buildGate("7700419555", []string{"1223459922", "4441048536"})

	status, err := suite.svc.Status(context.Background(), suite.identityID)
	suite.Require().NoError(err)
	suite.False(status.RequiresPin)
}

func (suite *GateServiceTestSuite) TestSubmitCode_WrongCodeKeepsGateLocked() {
	suite.buildGate("1223459922", []string{"1223459922"})
	ctx := context.Background()

	status, err := suite.svc.SubmitCode(ctx, suite.identityID, "000000")
	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
	suite.False(status.PinVerified)

	// The gate state is untouched by the miss.
	status, err = suite.svc.Status(ctx, suite.identityID)
	suite.Require().NoError(err)
	suite.True(status.RequiresPin)
	suite.False(status.PinVerified)
}

func (suite *GateServiceTestSuite) TestSubmitCode_CorrectCodeUnlocksAndPersists() {
	suite.buildGate("1223459922", []string{"1223459922"})
	ctx := context.Background()
	suite.sessionRepo.On("SetPinVerified", mock.Anything, suite.identityID).Return(nil).Once()

	status, err := suite.svc.SubmitCode(ctx, suite.identityID, testGateCode)
	suite.Require().NoError(err)
	suite.True(status.PinVerified)

	// A second submission is accepted idempotently without another persist.
	status, err = suite.svc.SubmitCode(ctx, suite.identityID, testGateCode)
	suite.Require().NoError(err)
	suite.True(status.PinVerified)

	suite.sessionRepo.AssertExpectations(suite.T())
}

func TestGateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GateServiceTestSuite))
}
