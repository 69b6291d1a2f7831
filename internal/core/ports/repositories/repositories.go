// Package repositories defines the contract this system consumes from the
// remote ledger: the hosted store that persists identities, login handles,
// accounts, transactions, notifications and session rows.
package repositories

import (
	"context"
	"time"

	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// IdentityRepository owns identity records and the handle lookup table that
// maps usernames and account numbers to identity ids.
type IdentityRepository interface {
	// CreateIdentityAtomic reserves both login handles (username and account
	// number), inserts the identity and seeds its collections as one
	// all-or-nothing unit. A reserved handle fails the whole unit with
	// apperrors.ErrConflict.
	CreateIdentityAtomic(ctx context.Context, identity domain.Identity, seedAccounts []domain.Account) error

	// ResolveHandle maps a username or account number to an identity id.
	// Returns apperrors.ErrNotFound if the handle is not reserved.
	ResolveHandle(ctx context.Context, handle string) (string, error)

	FindIdentityByID(ctx context.Context, identityID string) (*domain.Identity, error)
	FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error)

	// UpdateProfile persists the mutable profile fields of an identity.
	UpdateProfile(ctx context.Context, identity domain.Identity) error
}

// AccountRepository reads and replaces the ordered account collection of an
// identity. Balance mutation does not happen here; it is part of settlement.
type AccountRepository interface {
	FindAccountsByIdentity(ctx context.Context, identityID string) ([]domain.Account, error)
	// ReplaceAccounts overwrites the identity's account collection, keeping
	// the given order as display order.
	ReplaceAccounts(ctx context.Context, identityID string, accounts []domain.Account) error
}

// TransactionRepository appends committed records and reads history.
type TransactionRepository interface {
	// CommitSettlement appends the transaction record and applies the signed
	// balance change to the named account in one ledger transaction. The
	// record's Reference de-duplicates retries of the same flow instance.
	// Returns apperrors.ErrInsufficientBalance if the change would take the
	// balance negative.
	CommitSettlement(ctx context.Context, record domain.Transaction, accountName string, change decimal.Decimal) error

	FindTransactionsByIdentity(ctx context.Context, identityID string) ([]domain.Transaction, error)
}

// NotificationRepository reads and appends dashboard inbox entries.
type NotificationRepository interface {
	FindNotificationsByIdentity(ctx context.Context, identityID string) ([]domain.Notification, error)
	AppendNotification(ctx context.Context, n domain.Notification) error
}

// SessionRepository owns the durable per-login row. One row per identity;
// logging in again replaces it.
type SessionRepository interface {
	UpsertSession(ctx context.Context, record domain.SessionRecord) error
	FindSessionByIdentity(ctx context.Context, identityID string) (*domain.SessionRecord, error)
	SetPinVerified(ctx context.Context, identityID string) error
	SetOTP(ctx context.Context, identityID string, otpHash string, expiry time.Time) error
	DeleteSession(ctx context.Context, identityID string) error
}

// RepositoryProvider bundles the ledger repositories for service wiring.
type RepositoryProvider struct {
	Identity     IdentityRepository
	Account      AccountRepository
	Transaction  TransactionRepository
	Notification NotificationRepository
	Session      SessionRepository
}
