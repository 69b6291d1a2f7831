package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
	"github.com/netbridge-bank/nb_backend/internal/dto"
	"github.com/netbridge-bank/nb_backend/internal/middleware"
)

// sessionService owns the session registry and hydration from the ledger.
// Other services reach live sessions through it.
type sessionService struct {
	manager    *SessionManager
	repos      portsrepo.RepositoryProvider
	restricted map[string]struct{}
}

// NewSessionService creates the session store service.
func NewSessionService(repos portsrepo.RepositoryProvider, restrictedAccounts []string) portssvc.SessionSvcFacade {
	return newSessionService(repos, restrictedAccounts)
}

func newSessionService(repos portsrepo.RepositoryProvider, restrictedAccounts []string) *sessionService {
	restricted := make(map[string]struct{}, len(restrictedAccounts))
	for _, acct := range restrictedAccounts {
		restricted[acct] = struct{}{}
	}
	return &sessionService{
		manager:    NewSessionManager(),
		repos:      repos,
		restricted: restricted,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

// requiresGate reports whether the account number belongs to the restricted
// set that mandates the dashboard PIN challenge.
func (s *sessionService) requiresGate(accountNumber string) bool {
	_, ok := s.restricted[accountNumber]
	return ok
}

// seed installs a fresh session for an identity with hydrated collections.
// The gate is recomputed from the identity's account number before any
// dashboard content can be served; the persisted unlock flag survives a
// reload but not a new login.
func (s *sessionService) seed(identity domain.Identity, accounts []domain.Account, txns []domain.Transaction, notifs []domain.Notification, pinVerified bool) *Session {
	sess := &Session{}
	sess.Apply(
		SetIdentity{Identity: identity},
		SetAccounts{Accounts: accounts},
		SetTransactions{Transactions: txns},
		SetNotifications{Notifications: notifs},
		SetGate{RequiresPin: s.requiresGate(identity.AccountNumber), PinVerified: pinVerified},
	)
	s.manager.Put(identity.IdentityID, sess)
	return sess
}

// sessionFor returns the live session for an identity, rebuilding it from
// the ledger when the in-memory registry lost it (process restart). A
// missing session row means the login ended; the caller gets ErrUnauthorized.
func (s *sessionService) sessionFor(ctx context.Context, identityID string) (*Session, error) {
	if sess, ok := s.manager.Get(identityID); ok {
		return sess, nil
	}

	row, err := s.repos.Session.FindSessionByIdentity(ctx, identityID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load session row: %w", err)
	}

	identity, err := s.repos.Identity.FindIdentityByID(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load identity for session rebuild: %w", err)
	}

	accounts, txns, notifs, err := s.hydrate(ctx, identityID)
	if err != nil {
		return nil, err
	}

	middleware.GetLoggerFromCtx(ctx).Info("Rebuilt session from ledger", slog.String("identity_id", identityID))
	return s.seed(*identity, accounts, txns, notifs, row.PinVerified), nil
}

// hydrate reads the three collections from the ledger, seeding the default
// account pair when the store has none so the accounts collection is never
// empty after login.
func (s *sessionService) hydrate(ctx context.Context, identityID string) ([]domain.Account, []domain.Transaction, []domain.Notification, error) {
	accounts, err := s.repos.Account.FindAccountsByIdentity(ctx, identityID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	if len(accounts) == 0 {
		accounts = defaultAccounts()
		if err := s.repos.Account.ReplaceAccounts(ctx, identityID, accounts); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to seed default accounts: %w", err)
		}
	}

	txns, err := s.repos.Transaction.FindTransactionsByIdentity(ctx, identityID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	notifs, err := s.repos.Notification.FindNotificationsByIdentity(ctx, identityID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return accounts, txns, notifs, nil
}

// defaultAccounts is the zero-balance pair every identity starts with.
func defaultAccounts() []domain.Account {
	return []domain.Account{
		{AccountID: "checking", Name: "Checking Account", Type: domain.Checking, MaskedNumber: "**** **** **** 4390", DisplayOrder: 0},
		{AccountID: "savings", Name: "Savings Account", Type: domain.Savings, MaskedNumber: "**** **** **** 5678", DisplayOrder: 1},
	}
}

// Accounts implements portssvc.SessionSvcFacade.
func (s *sessionService) Accounts(ctx context.Context, identityID string) (dto.ListAccountsResponse, error) {
	sess, err := s.sessionFor(ctx, identityID)
	if err != nil {
		return dto.ListAccountsResponse{}, err
	}
	return dto.ToListAccountsResponse(sess.Accounts()), nil
}

// Transactions implements portssvc.SessionSvcFacade.
func (s *sessionService) Transactions(ctx context.Context, identityID string) ([]dto.TransactionResponse, error) {
	sess, err := s.sessionFor(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return dto.ToTransactionListResponse(sess.Transactions()), nil
}

// Notifications implements portssvc.SessionSvcFacade.
func (s *sessionService) Notifications(ctx context.Context, identityID string) ([]dto.NotificationResponse, error) {
	sess, err := s.sessionFor(ctx, identityID)
	if err != nil {
		return nil, err
	}
	return dto.ToNotificationListResponse(sess.Notifications()), nil
}

// Refresh implements portssvc.SessionSvcFacade: full re-hydration from the
// ledger, after which the cache is again the UI's source of truth.
func (s *sessionService) Refresh(ctx context.Context, identityID string) error {
	sess, err := s.sessionFor(ctx, identityID)
	if err != nil {
		return err
	}
	accounts, txns, notifs, err := s.hydrate(ctx, identityID)
	if err != nil {
		return err
	}
	sess.Apply(
		SetAccounts{Accounts: accounts},
		SetTransactions{Transactions: txns},
		SetNotifications{Notifications: notifs},
	)
	return nil
}
