package services

import (
	"sync"

	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Command is a typed mutation applied to a Session through Apply, the single
// mutation entry point. Only the owning request goroutine mutates a session,
// but Apply still serializes under the session mutex so concurrent readers
// (gate polling while a transfer settles) observe consistent state.
type Command interface {
	apply(s *Session)
}

// SetIdentity replaces the identity snapshot.
type SetIdentity struct{ Identity domain.Identity }

// SetAccounts replaces the ordered account collection.
type SetAccounts struct{ Accounts []domain.Account }

// SetTransactions replaces the transaction cache.
type SetTransactions struct{ Transactions []domain.Transaction }

// SetNotifications replaces the notification cache.
type SetNotifications struct{ Notifications []domain.Notification }

// ApplyBalanceChange applies a signed delta to the named account in the
// cached collection. The cache is the truth the UI renders until the next
// full refresh from the ledger.
type ApplyBalanceChange struct {
	AccountName string
	Change      decimal.Decimal
}

// AppendTransaction prepends a freshly committed record (newest first).
type AppendTransaction struct{ Record domain.Transaction }

// AppendNotification prepends an inbox entry.
type AppendNotification struct{ Notification domain.Notification }

// SetGate seeds the dashboard gate flags after login.
type SetGate struct {
	RequiresPin bool
	PinVerified bool
}

// MarkPinVerified unlocks the dashboard gate. There is no command to re-lock;
// unlocking is permanent for the session's lifetime.
type MarkPinVerified struct{}

func (c SetIdentity) apply(s *Session)      { s.identity = c.Identity }
func (c SetAccounts) apply(s *Session)      { s.accounts = c.Accounts }
func (c SetTransactions) apply(s *Session)  { s.transactions = c.Transactions }
func (c SetNotifications) apply(s *Session) { s.notifications = c.Notifications }
func (c MarkPinVerified) apply(s *Session)  { s.gate.pinVerified = true }

func (c SetGate) apply(s *Session) {
	s.gate.requiresPin = c.RequiresPin
	s.gate.pinVerified = c.PinVerified
}

func (c ApplyBalanceChange) apply(s *Session) {
	for i := range s.accounts {
		if s.accounts[i].Name == c.AccountName {
			s.accounts[i].Balance = s.accounts[i].Balance.Add(c.Change)
			return
		}
	}
}

func (c AppendTransaction) apply(s *Session) {
	s.transactions = append([]domain.Transaction{c.Record}, s.transactions...)
}

func (c AppendNotification) apply(s *Session) {
	s.notifications = append([]domain.Notification{c.Notification}, s.notifications...)
}

type gateState struct {
	requiresPin bool
	pinVerified bool
}

// Session holds the authenticated identity and the cached collections for
// one login, plus the dashboard gate flags and the active transfer flow.
// Exactly one session is active per identity.
type Session struct {
	mu            sync.RWMutex
	identity      domain.Identity
	accounts      []domain.Account
	transactions  []domain.Transaction
	notifications []domain.Notification
	gate          gateState
	flow          *transferFlow
}

// Apply runs the given commands atomically under the session mutex.
func (s *Session) Apply(cmds ...Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cmd := range cmds {
		cmd.apply(s)
	}
}

// Identity returns the identity snapshot.
func (s *Session) Identity() domain.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Accounts returns a copy of the ordered account collection.
func (s *Session) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

// AccountByName finds a cached account by its display name.
func (s *Session) AccountByName(name string) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Name == name {
			return a, true
		}
	}
	return domain.Account{}, false
}

// Transactions returns a copy of the transaction cache.
func (s *Session) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Notifications returns a copy of the notification cache.
func (s *Session) Notifications() []domain.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Gate returns the dashboard gate flags.
func (s *Session) Gate() (requiresPin, pinVerified bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gate.requiresPin, s.gate.pinVerified
}

// Flow returns the active transfer flow, or nil when none is in progress.
func (s *Session) Flow() *transferFlow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.flow
}

// SetFlow installs or clears the active transfer flow.
func (s *Session) SetFlow(f *transferFlow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flow = f
}

// SessionManager is the registry of live sessions keyed by identity id.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionManager creates an empty registry.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Put installs the session for an identity, replacing any previous login.
func (m *SessionManager) Put(identityID string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[identityID] = s
}

// Get returns the live session for an identity, if any.
func (m *SessionManager) Get(identityID string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[identityID]
	return s, ok
}

// Delete removes the session on logout.
func (m *SessionManager) Delete(identityID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, identityID)
}
