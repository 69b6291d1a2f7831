package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
)

// PgxTransactionRepository appends committed records and reads history.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// CommitSettlement appends the record and applies the balance change in one
// transaction, so a settlement is all-or-nothing. The (identity, reference)
// key de-duplicates retries: a reference that already settled skips both
// writes rather than double-debiting.
func (r *PgxTransactionRepository) CommitSettlement(ctx context.Context, record domain.Transaction, accountName string, change decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	insertQuery := `
		INSERT INTO transactions (
			transaction_id, reference, type, amount, account_name, description, status,
			identity_id, recipient, bank, account_number, routing_number, bank_address,
			transfer_type, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (identity_id, reference) DO NOTHING;
	`
	tag, err := tx.Exec(ctx, insertQuery,
		record.TransactionID,
		record.Reference,
		record.Type,
		record.Amount,
		record.AccountName,
		record.Description,
		record.Status,
		record.IdentityID,
		record.Recipient,
		record.Bank,
		record.AccountNumber,
		record.RoutingNumber,
		record.BankAddress,
		record.TransferType,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Same flow instance retried after a settled commit; nothing to do.
		return nil
	}

	updateQuery := `
		UPDATE accounts
		SET balance = balance + $3
		WHERE identity_id = $1 AND name = $2 AND balance + $3 >= 0;
	`
	tag, err = tx.Exec(ctx, updateQuery, record.IdentityID, accountName, change)
	if err != nil {
		return fmt.Errorf("failed to adjust balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE identity_id = $1 AND name = $2);`, record.IdentityID, accountName).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check account existence: %w", err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return apperrors.ErrInsufficientBalance
	}

	return r.Commit(ctx, tx)
}

// FindTransactionsByIdentity returns the history, newest first.
func (r *PgxTransactionRepository) FindTransactionsByIdentity(ctx context.Context, identityID string) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, reference, type, amount, account_name, description, status,
			identity_id, recipient, bank, account_number, routing_number, bank_address,
			transfer_type, created_at
		FROM transactions
		WHERE identity_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, identityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(
			&t.TransactionID, &t.Reference, &t.Type, &t.Amount, &t.AccountName, &t.Description, &t.Status,
			&t.IdentityID, &t.Recipient, &t.Bank, &t.AccountNumber, &t.RoutingNumber, &t.BankAddress,
			&t.TransferType, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating transactions: %w", err)
	}
	return txns, nil
}
