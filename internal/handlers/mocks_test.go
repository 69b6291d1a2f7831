package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
)

// --- Mock AuthService ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.IdentityResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IdentityResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) LoginWithGoogle(ctx context.Context, req dto.GoogleSignInRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, identityID string) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

func (m *MockAuthService) GetIdentity(ctx context.Context, identityID string) (*dto.IdentityResponse, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IdentityResponse), args.Error(1)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, identityID string, req dto.UpdateProfileRequest) (*dto.IdentityResponse, error) {
	args := m.Called(ctx, identityID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.IdentityResponse), args.Error(1)
}

func (m *MockAuthService) RequestOTP(ctx context.Context, identityID string) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, identityID string, code string) error {
	args := m.Called(ctx, identityID, code)
	return args.Error(0)
}

var _ portssvc.AuthSvcFacade = (*MockAuthService)(nil)

// --- Mock SessionService ---

type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Accounts(ctx context.Context, identityID string) (dto.ListAccountsResponse, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).(dto.ListAccountsResponse), args.Error(1)
}

func (m *MockSessionService) Transactions(ctx context.Context, identityID string) ([]dto.TransactionResponse, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.TransactionResponse), args.Error(1)
}

func (m *MockSessionService) Notifications(ctx context.Context, identityID string) ([]dto.NotificationResponse, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.NotificationResponse), args.Error(1)
}

func (m *MockSessionService) Refresh(ctx context.Context, identityID string) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Mock GateService ---

type MockGateService struct {
	mock.Mock
}

func (m *MockGateService) Status(ctx context.Context, identityID string) (dto.GateStatusResponse, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).(dto.GateStatusResponse), args.Error(1)
}

func (m *MockGateService) SubmitCode(ctx context.Context, identityID string, code string) (dto.GateStatusResponse, error) {
	args := m.Called(ctx, identityID, code)
	return args.Get(0).(dto.GateStatusResponse), args.Error(1)
}

var _ portssvc.GateSvcFacade = (*MockGateService)(nil)

// --- Mock TransferService ---

type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) Compose(ctx context.Context, identityID string, req dto.ComposeTransferRequest) (dto.TransferFlowResponse, error) {
	args := m.Called(ctx, identityID, req)
	return args.Get(0).(dto.TransferFlowResponse), args.Error(1)
}

func (m *MockTransferService) Confirm(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).(dto.TransferFlowResponse), args.Error(1)
}

func (m *MockTransferService) Authorize(ctx context.Context, identityID string, req dto.AuthorizeTransferRequest) (dto.TransferFlowResponse, error) {
	args := m.Called(ctx, identityID, req)
	return args.Get(0).(dto.TransferFlowResponse), args.Error(1)
}

func (m *MockTransferService) Cancel(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).(dto.TransferFlowResponse), args.Error(1)
}

func (m *MockTransferService) Finish(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).(dto.TransferFlowResponse), args.Error(1)
}

func (m *MockTransferService) Current(ctx context.Context, identityID string) (dto.TransferFlowResponse, error) {
	args := m.Called(ctx, identityID)
	return args.Get(0).(dto.TransferFlowResponse), args.Error(1)
}

func (m *MockTransferService) Deposit(ctx context.Context, identityID string, req dto.DepositRequest) (dto.TransactionResponse, error) {
	args := m.Called(ctx, identityID, req)
	return args.Get(0).(dto.TransactionResponse), args.Error(1)
}

var _ portssvc.TransferSvcFacade = (*MockTransferService)(nil)
