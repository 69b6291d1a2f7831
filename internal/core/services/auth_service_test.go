package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/core/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/utils"
	"github.com/netbridge-bank/nb_backend/pkg/config"
)

type AuthServiceTestSuite struct {
	suite.Suite
	identityRepo *MockIdentityRepository
	accountRepo  *MockAccountRepository
	txnRepo      *MockTransactionRepository
	notifRepo    *MockNotificationRepository
	sessionRepo  *MockSessionRepository
	notifier     *MockNotifier
	svc          portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	provider, identityRepo, accountRepo, txnRepo, notifRepo, sessionRepo := newMockProvider()
	suite.identityRepo = identityRepo
	suite.accountRepo = accountRepo
	suite.txnRepo = txnRepo
	suite.notifRepo = notifRepo
	suite.sessionRepo = sessionRepo
	suite.notifier = new(MockNotifier)

	cfg := &config.Config{
		JWTSecret:          "test-secret-for-signing-tokens",
		JWTExpiry:          time.Hour,
		JWTIssuer:          "nb-backend",
		DashboardGateCode:  "483921",
		RestrictedAccounts: []string{"1223459922"},
	}
	sessions := services.NewSessionService(provider, cfg.RestrictedAccounts)
	suite.svc = services.NewAuthService(cfg, provider, sessions, suite.notifier)
}

// expectHydration mocks the collection reads the login path performs.
func (suite *AuthServiceTestSuite) expectHydration(identityID string) {
	suite.accountRepo.On("FindAccountsByIdentity", mock.Anything, identityID).
		Return([]domain.Account{{AccountID: "checking", Name: "Checking Account", Type: domain.Checking}}, nil)
	suite.txnRepo.On("FindTransactionsByIdentity", mock.Anything, identityID).Return([]domain.Transaction{}, nil)
	suite.notifRepo.On("FindNotificationsByIdentity", mock.Anything, identityID).Return([]domain.Notification{}, nil)
}

func (suite *AuthServiceTestSuite) registerRequest() dto.RegisterRequest {
	return dto.RegisterRequest{
		Email:     "casey@example.com",
		Password:  "correct-horse-battery",
		FirstName: "Casey",
		LastName:  "Nguyen",
		Country:   "US",
		Username:  "casey_n",
	}
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	ctx := context.Background()
	suite.identityRepo.On("CreateIdentityAtomic", ctx, mock.AnythingOfType("domain.Identity"), mock.AnythingOfType("[]domain.Account")).Return(nil).Once()
	suite.notifier.On("SendWelcomeMessage", mock.Anything, "Casey Nguyen", "casey@example.com", mock.AnythingOfType("string")).Return(nil).Maybe()

	resp, err := suite.svc.Register(ctx, suite.registerRequest())
	suite.Require().NoError(err)
	suite.Require().NotNil(resp)

	suite.Equal("casey_n", resp.Username)
	suite.Equal("Casey Nguyen", resp.FullName)
	suite.Len(resp.AccountNumber, 10)
	suite.Equal("user", resp.Role)
	suite.Equal("active", resp.Status)
	suite.False(resp.HasPin)

	suite.identityRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRegister_UsernameTooShort() {
	req := suite.registerRequest()
	req.Username = "ab"

	_, err := suite.svc.Register(context.Background(), req)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestRegister_UsernameBadCharset() {
	req := suite.registerRequest()
	req.Username = "casey.n!"

	_, err := suite.svc.Register(context.Background(), req)
	suite.Require().ErrorIs(err, apperrors.ErrValidation)
}

func (suite *AuthServiceTestSuite) TestRegister_HandleConflict() {
	ctx := context.Background()
	suite.identityRepo.On("CreateIdentityAtomic", ctx, mock.AnythingOfType("domain.Identity"), mock.AnythingOfType("[]domain.Account")).
		Return(fmt.Errorf("%w: handle already taken", apperrors.ErrConflict)).Once()

	_, err := suite.svc.Register(ctx, suite.registerRequest())
	suite.Require().ErrorIs(err, apperrors.ErrConflict)
}

func (suite *AuthServiceTestSuite) activeIdentity(password string) *domain.Identity {
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)
	return &domain.Identity{
		IdentityID:    uuid.NewString(),
		FullName:      "Casey Nguyen",
		Email:         "casey@example.com",
		Username:      "casey_n",
		Role:          domain.RoleUser,
		AccountNumber: "5550001234",
		Status:        domain.StatusActive,
		PasswordHash:  hash,
		CreatedAt:     time.Now().UTC(),
	}
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	identity := suite.activeIdentity("hunter2hunter2")

	suite.identityRepo.On("ResolveHandle", ctx, "casey_n").Return(identity.IdentityID, nil).Once()
	suite.identityRepo.On("FindIdentityByID", ctx, identity.IdentityID).Return(identity, nil).Once()
	suite.expectHydration(identity.IdentityID)
	suite.sessionRepo.On("UpsertSession", ctx, mock.AnythingOfType("domain.SessionRecord")).Return(nil).Once()

	resp, err := suite.svc.Login(ctx, dto.LoginRequest{Username: "Casey_N", Password: "hunter2hunter2"})
	suite.Require().NoError(err)

	suite.NotEmpty(resp.Token)
	suite.Equal(identity.IdentityID, resp.User.IdentityID)
	suite.sessionRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_AccountNumberAsHandle() {
	ctx := context.Background()
	identity := suite.activeIdentity("hunter2hunter2")

	suite.identityRepo.On("ResolveHandle", ctx, "5550001234").Return(identity.IdentityID, nil).Once()
	suite.identityRepo.On("FindIdentityByID", ctx, identity.IdentityID).Return(identity, nil).Once()
	suite.expectHydration(identity.IdentityID)
	suite.sessionRepo.On("UpsertSession", ctx, mock.AnythingOfType("domain.SessionRecord")).Return(nil).Once()

	resp, err := suite.svc.Login(ctx, dto.LoginRequest{Username: "5550001234", Password: "hunter2hunter2"})
	suite.Require().NoError(err)
	suite.Equal(identity.IdentityID, resp.User.IdentityID)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownHandle() {
	ctx := context.Background()
	suite.identityRepo.On("ResolveHandle", ctx, "nobody").Return("", apperrors.ErrNotFound).Once()

	_, err := suite.svc.Login(ctx, dto.LoginRequest{Username: "nobody", Password: "whatever123"})
	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	identity := suite.activeIdentity("hunter2hunter2")

	suite.identityRepo.On("ResolveHandle", ctx, "casey_n").Return(identity.IdentityID, nil).Once()
	suite.identityRepo.On("FindIdentityByID", ctx, identity.IdentityID).Return(identity, nil).Once()

	_, err := suite.svc.Login(ctx, dto.LoginRequest{Username: "casey_n", Password: "not-the-password"})
	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_SuspendedIdentity() {
	ctx := context.Background()
	identity := suite.activeIdentity("hunter2hunter2")
	identity.Status = domain.StatusSuspended

	suite.identityRepo.On("ResolveHandle", ctx, "casey_n").Return(identity.IdentityID, nil).Once()
	suite.identityRepo.On("FindIdentityByID", ctx, identity.IdentityID).Return(identity, nil).Once()

	_, err := suite.svc.Login(ctx, dto.LoginRequest{Username: "casey_n", Password: "hunter2hunter2"})
	suite.Require().ErrorIs(err, apperrors.ErrSuspended)
}

func (suite *AuthServiceTestSuite) TestLogout_DropsSessionRow() {
	ctx := context.Background()
	identityID := uuid.NewString()
	suite.sessionRepo.On("DeleteSession", ctx, identityID).Return(nil).Once()

	suite.Require().NoError(suite.svc.Logout(ctx, identityID))
	suite.sessionRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestVerifyOTP_AcceptsFreshCode() {
	ctx := context.Background()
	identityID := uuid.NewString()
	hash, err := utils.HashPassword("654321")
	suite.Require().NoError(err)
	expiry := time.Now().UTC().Add(2 * time.Minute)

	suite.sessionRepo.On("FindSessionByIdentity", ctx, identityID).
		Return(&domain.SessionRecord{IdentityID: identityID, OTPHash: hash, OTPExpiry: &expiry}, nil)

	suite.Require().NoError(suite.svc.VerifyOTP(ctx, identityID, "654321"))
	suite.Require().ErrorIs(suite.svc.VerifyOTP(ctx, identityID, "111111"), apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestVerifyOTP_RejectsExpiredCode() {
	ctx := context.Background()
	identityID := uuid.NewString()
	hash, err := utils.HashPassword("654321")
	suite.Require().NoError(err)
	expiry := time.Now().UTC().Add(-time.Minute)

	suite.sessionRepo.On("FindSessionByIdentity", ctx, identityID).
		Return(&domain.SessionRecord{IdentityID: identityID, OTPHash: hash, OTPExpiry: &expiry}, nil)

	suite.Require().ErrorIs(suite.svc.VerifyOTP(ctx, identityID, "654321"), apperrors.ErrUnauthorized)
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
