// Package services defines the facades the HTTP layer consumes. No network
// or storage detail leaks past these interfaces.
package services

import (
	"context"

	"github.com/netbridge-bank/nb_backend/internal/dto"
)

// AuthSvcFacade is the authentication gateway: it produces the identity a
// session is seeded with and owns credential verification.
type AuthSvcFacade interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.IdentityResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	LoginWithGoogle(ctx context.Context, req dto.GoogleSignInRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, identityID string) error
	GetIdentity(ctx context.Context, identityID string) (*dto.IdentityResponse, error)
	UpdateProfile(ctx context.Context, identityID string, req dto.UpdateProfileRequest) (*dto.IdentityResponse, error)
	RequestOTP(ctx context.Context, identityID string) error
	VerifyOTP(ctx context.Context, identityID string, code string) error
}

// SessionSvcFacade exposes the per-login cached collections the dashboard
// renders. Reads hit the session cache, not the ledger.
type SessionSvcFacade interface {
	Accounts(ctx context.Context, identityID string) (dto.ListAccountsResponse, error)
	Transactions(ctx context.Context, identityID string) ([]dto.TransactionResponse, error)
	Notifications(ctx context.Context, identityID string) ([]dto.NotificationResponse, error)
	// Refresh re-hydrates every collection from the ledger.
	Refresh(ctx context.Context, identityID string) error
}

// GateSvcFacade is the secondary PIN guard gating dashboard interactivity.
type GateSvcFacade interface {
	Status(ctx context.Context, identityID string) (dto.GateStatusResponse, error)
	SubmitCode(ctx context.Context, identityID string, code string) (dto.GateStatusResponse, error)
}

// TransferSvcFacade drives the transfer authorization flow and the simpler
// deposit workflow.
type TransferSvcFacade interface {
	Compose(ctx context.Context, identityID string, req dto.ComposeTransferRequest) (dto.TransferFlowResponse, error)
	Confirm(ctx context.Context, identityID string) (dto.TransferFlowResponse, error)
	Authorize(ctx context.Context, identityID string, req dto.AuthorizeTransferRequest) (dto.TransferFlowResponse, error)
	Cancel(ctx context.Context, identityID string) (dto.TransferFlowResponse, error)
	Finish(ctx context.Context, identityID string) (dto.TransferFlowResponse, error)
	Current(ctx context.Context, identityID string) (dto.TransferFlowResponse, error)
	Deposit(ctx context.Context, identityID string, req dto.DepositRequest) (dto.TransactionResponse, error)
}

// NotifierSvcFacade is the outbound relay; fire-and-forget from the core's
// perspective. Failures are logged, never surfaced to success paths.
type NotifierSvcFacade interface {
	SendOneTimeCode(ctx context.Context, email, code string) error
	SendWelcomeMessage(ctx context.Context, name, email, accountNumber string) error
}

// ServiceContainer bundles the service facades for handler wiring.
type ServiceContainer struct {
	Auth     AuthSvcFacade
	Session  SessionSvcFacade
	Gate     GateSvcFacade
	Transfer TransferSvcFacade
}
