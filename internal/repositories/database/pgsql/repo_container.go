package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider builds the ledger repositories over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		Identity:     newPgxIdentityRepository(pool),
		Account:      newPgxAccountRepository(pool),
		Transaction:  newPgxTransactionRepository(pool),
		Notification: newPgxNotificationRepository(pool),
		Session:      newPgxSessionRepository(pool),
	}
}
