package services_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
	portssvc "github.com/netbridge-bank/nb_backend/internal/core/ports/services"
)

// --- Mock IdentityRepository ---

type MockIdentityRepository struct {
	mock.Mock
}

func (m *MockIdentityRepository) CreateIdentityAtomic(ctx context.Context, identity domain.Identity, seedAccounts []domain.Account) error {
	args := m.Called(ctx, identity, seedAccounts)
	return args.Error(0)
}

func (m *MockIdentityRepository) ResolveHandle(ctx context.Context, handle string) (string, error) {
	args := m.Called(ctx, handle)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityRepository) FindIdentityByID(ctx context.Context, identityID string) (*domain.Identity, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockIdentityRepository) UpdateProfile(ctx context.Context, identity domain.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

var _ portsrepo.IdentityRepository = (*MockIdentityRepository)(nil)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountsByIdentity(ctx context.Context, identityID string) ([]domain.Account, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ReplaceAccounts(ctx context.Context, identityID string, accounts []domain.Account) error {
	args := m.Called(ctx, identityID, accounts)
	return args.Error(0)
}

var _ portsrepo.AccountRepository = (*MockAccountRepository)(nil)

// --- Mock TransactionRepository ---

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CommitSettlement(ctx context.Context, record domain.Transaction, accountName string, change decimal.Decimal) error {
	args := m.Called(ctx, record, accountName, change)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindTransactionsByIdentity(ctx context.Context, identityID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portsrepo.TransactionRepository = (*MockTransactionRepository)(nil)

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindNotificationsByIdentity(ctx context.Context, identityID string) ([]domain.Notification, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockNotificationRepository) AppendNotification(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

var _ portsrepo.NotificationRepository = (*MockNotificationRepository)(nil)

// --- Mock SessionRepository ---

type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) UpsertSession(ctx context.Context, record domain.SessionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockSessionRepository) FindSessionByIdentity(ctx context.Context, identityID string) (*domain.SessionRecord, error) {
	args := m.Called(ctx, identityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SessionRecord), args.Error(1)
}

func (m *MockSessionRepository) SetPinVerified(ctx context.Context, identityID string) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

func (m *MockSessionRepository) SetOTP(ctx context.Context, identityID string, otpHash string, expiry time.Time) error {
	args := m.Called(ctx, identityID, otpHash, expiry)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteSession(ctx context.Context, identityID string) error {
	args := m.Called(ctx, identityID)
	return args.Error(0)
}

var _ portsrepo.SessionRepository = (*MockSessionRepository)(nil)

// --- Mock Notifier ---

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOneTimeCode(ctx context.Context, email, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}

func (m *MockNotifier) SendWelcomeMessage(ctx context.Context, name, email, accountNumber string) error {
	args := m.Called(ctx, name, email, accountNumber)
	return args.Error(0)
}

var _ portssvc.NotifierSvcFacade = (*MockNotifier)(nil)

// newMockProvider bundles fresh repo mocks into a provider.
func newMockProvider() (portsrepo.RepositoryProvider, *MockIdentityRepository, *MockAccountRepository, *MockTransactionRepository, *MockNotificationRepository, *MockSessionRepository) {
	identityRepo := new(MockIdentityRepository)
	accountRepo := new(MockAccountRepository)
	txnRepo := new(MockTransactionRepository)
	notifRepo := new(MockNotificationRepository)
	sessionRepo := new(MockSessionRepository)
	provider := portsrepo.RepositoryProvider{
		Identity:     identityRepo,
		Account:      accountRepo,
		Transaction:  txnRepo,
		Notification: notifRepo,
		Session:      sessionRepo,
	}
	return provider, identityRepo, accountRepo, txnRepo, notifRepo, sessionRepo
}
