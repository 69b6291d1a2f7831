package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
)

// PgxAccountRepository persists the ordered account collections.
type PgxAccountRepository struct {
	BaseRepository
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// FindAccountsByIdentity returns the collection in display order.
func (r *PgxAccountRepository) FindAccountsByIdentity(ctx context.Context, identityID string) ([]domain.Account, error) {
	query := `
		SELECT account_id, name, type, masked_number, balance, display_order
		FROM accounts
		WHERE identity_id = $1
		ORDER BY display_order;
	`
	rows, err := r.Pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.AccountID, &a.Name, &a.Type, &a.MaskedNumber, &a.Balance, &a.DisplayOrder); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating accounts: %w", err)
	}
	return accounts, nil
}

// ReplaceAccounts overwrites the identity's collection, keeping the slice
// order as display order.
func (r *PgxAccountRepository) ReplaceAccounts(ctx context.Context, identityID string, accounts []domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM accounts WHERE identity_id = $1;`, identityID); err != nil {
		return fmt.Errorf("failed to clear accounts: %w", err)
	}
	if err := replaceAccountsInTx(ctx, tx, identityID, accounts); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// replaceAccountsInTx inserts the collection inside an open transaction.
// Shared with identity creation, which seeds the default pair.
func replaceAccountsInTx(ctx context.Context, tx pgx.Tx, identityID string, accounts []domain.Account) error {
	query := `
		INSERT INTO accounts (identity_id, account_id, name, type, masked_number, balance, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for i, a := range accounts {
		if _, err := tx.Exec(ctx, query, identityID, a.AccountID, a.Name, a.Type, a.MaskedNumber, a.Balance, i); err != nil {
			return fmt.Errorf("failed to insert account %q: %w", a.Name, err)
		}
	}
	return nil
}
