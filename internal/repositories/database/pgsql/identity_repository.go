package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
)

// PgxIdentityRepository persists identities and the handle lookup table.
type PgxIdentityRepository struct {
	BaseRepository
}

func newPgxIdentityRepository(pool *pgxpool.Pool) portsrepo.IdentityRepository {
	return &PgxIdentityRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.IdentityRepository = (*PgxIdentityRepository)(nil)

const identityColumns = `identity_id, full_name, email, username, role, account_number, status,
	transfer_pin, country, kyc_status, phone_number, address, sort_code, occupation,
	date_of_birth, gender, password_hash, created_at`

func scanIdentity(row pgx.Row) (*domain.Identity, error) {
	var id domain.Identity
	err := row.Scan(
		&id.IdentityID,
		&id.FullName,
		&id.Email,
		&id.Username,
		&id.Role,
		&id.AccountNumber,
		&id.Status,
		&id.TransferPIN,
		&id.Country,
		&id.KYCStatus,
		&id.PhoneNumber,
		&id.Address,
		&id.SortCode,
		&id.Occupation,
		&id.DateOfBirth,
		&id.Gender,
		&id.PasswordHash,
		&id.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan identity: %w", err)
	}
	return &id, nil
}

// CreateIdentityAtomic reserves both login handles, inserts the identity and
// seeds its account collection as one transaction. A handle collision rolls
// everything back with apperrors.ErrConflict.
func (r *PgxIdentityRepository) CreateIdentityAtomic(ctx context.Context, identity domain.Identity, seedAccounts []domain.Account) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	handleQuery := `INSERT INTO login_handles (handle, identity_id, created_at) VALUES ($1, $2, $3);`
	for _, handle := range []string{identity.Username, identity.AccountNumber} {
		if _, err := tx.Exec(ctx, handleQuery, strings.ToLower(handle), identity.IdentityID, identity.CreatedAt); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
				return fmt.Errorf("%w: handle %q is already taken", apperrors.ErrConflict, handle)
			}
			return fmt.Errorf("failed to reserve handle %q: %w", handle, err)
		}
	}

	identityQuery := `
		INSERT INTO identities (` + identityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);
	`
	_, err = tx.Exec(ctx, identityQuery,
		identity.IdentityID,
		identity.FullName,
		identity.Email,
		identity.Username,
		identity.Role,
		identity.AccountNumber,
		identity.Status,
		identity.TransferPIN,
		identity.Country,
		identity.KYCStatus,
		identity.PhoneNumber,
		identity.Address,
		identity.SortCode,
		identity.Occupation,
		identity.DateOfBirth,
		identity.Gender,
		identity.PasswordHash,
		identity.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: identity already exists", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to insert identity: %w", err)
	}

	if err := replaceAccountsInTx(ctx, tx, identity.IdentityID, seedAccounts); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// ResolveHandle maps a username or account number to an identity id.
func (r *PgxIdentityRepository) ResolveHandle(ctx context.Context, handle string) (string, error) {
	query := `SELECT identity_id FROM login_handles WHERE handle = $1;`
	var identityID string
	err := r.Pool.QueryRow(ctx, query, strings.ToLower(handle)).Scan(&identityID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to resolve handle: %w", err)
	}
	return identityID, nil
}

// FindIdentityByID loads one identity.
func (r *PgxIdentityRepository) FindIdentityByID(ctx context.Context, identityID string) (*domain.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE identity_id = $1;`
	return scanIdentity(r.Pool.QueryRow(ctx, query, identityID))
}

// FindIdentityByEmail loads one identity by its email address.
func (r *PgxIdentityRepository) FindIdentityByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	query := `SELECT ` + identityColumns + ` FROM identities WHERE lower(email) = lower($1);`
	return scanIdentity(r.Pool.QueryRow(ctx, query, email))
}

// UpdateProfile persists the mutable profile fields.
func (r *PgxIdentityRepository) UpdateProfile(ctx context.Context, identity domain.Identity) error {
	query := `
		UPDATE identities SET
			phone_number = $2,
			address = $3,
			occupation = $4,
			date_of_birth = $5,
			gender = $6,
			transfer_pin = $7,
			kyc_status = $8
		WHERE identity_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		identity.IdentityID,
		identity.PhoneNumber,
		identity.Address,
		identity.Occupation,
		identity.DateOfBirth,
		identity.Gender,
		identity.TransferPIN,
		identity.KYCStatus,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
