package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/netbridge-bank/nb_backend/internal/apperrors"
	"github.com/netbridge-bank/nb_backend/internal/core/domain"
	portsrepo "github.com/netbridge-bank/nb_backend/internal/core/ports/repositories"
)

// PgxSessionRepository owns the durable per-login row.
type PgxSessionRepository struct {
	BaseRepository
}

func newPgxSessionRepository(pool *pgxpool.Pool) portsrepo.SessionRepository {
	return &PgxSessionRepository{BaseRepository{Pool: pool}}
}

var _ portsrepo.SessionRepository = (*PgxSessionRepository)(nil)

// UpsertSession replaces the identity's session row. A fresh login always
// starts with the gate locked again.
func (r *PgxSessionRepository) UpsertSession(ctx context.Context, record domain.SessionRecord) error {
	query := `
		INSERT INTO sessions (identity_id, session_id, pin_verified, otp_hash, otp_expiry, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (identity_id) DO UPDATE SET
			session_id = EXCLUDED.session_id,
			pin_verified = EXCLUDED.pin_verified,
			otp_hash = EXCLUDED.otp_hash,
			otp_expiry = EXCLUDED.otp_expiry,
			created_at = EXCLUDED.created_at;
	`
	if _, err := r.Pool.Exec(ctx, query, record.IdentityID, record.SessionID, record.PinVerified, record.OTPHash, record.OTPExpiry, record.CreatedAt); err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

// FindSessionByIdentity loads the current session row, if any.
func (r *PgxSessionRepository) FindSessionByIdentity(ctx context.Context, identityID string) (*domain.SessionRecord, error) {
	query := `
		SELECT session_id, identity_id, pin_verified, otp_hash, otp_expiry, created_at
		FROM sessions
		WHERE identity_id = $1;
	`
	var rec domain.SessionRecord
	err := r.Pool.QueryRow(ctx, query, identityID).Scan(
		&rec.SessionID, &rec.IdentityID, &rec.PinVerified, &rec.OTPHash, &rec.OTPExpiry, &rec.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query session: %w", err)
	}
	return &rec, nil
}

// SetPinVerified marks the gate as passed for the rest of the login.
func (r *PgxSessionRepository) SetPinVerified(ctx context.Context, identityID string) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE sessions SET pin_verified = TRUE WHERE identity_id = $1;`, identityID)
	if err != nil {
		return fmt.Errorf("failed to set pin_verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SetOTP stores the hashed one-time code and its expiry.
func (r *PgxSessionRepository) SetOTP(ctx context.Context, identityID string, otpHash string, expiry time.Time) error {
	tag, err := r.Pool.Exec(ctx, `UPDATE sessions SET otp_hash = $2, otp_expiry = $3 WHERE identity_id = $1;`, identityID, otpHash, expiry)
	if err != nil {
		return fmt.Errorf("failed to set otp: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteSession removes the row on logout. Deleting a missing row is fine.
func (r *PgxSessionRepository) DeleteSession(ctx context.Context, identityID string) error {
	if _, err := r.Pool.Exec(ctx, `DELETE FROM sessions WHERE identity_id = $1;`, identityID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
