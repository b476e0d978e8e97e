package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizen-services/internal/domain"
)

// OtpRepository defines the persistence contract for one-time codes.
// GetMatching only returns a row whose code matches and whose expiry has
// not passed; DeleteForUser removes every outstanding row for the user.
type OtpRepository interface {
	Create(ctx context.Context, otp domain.Otp) error
	GetMatching(ctx context.Context, userID, code string, now time.Time) (domain.Otp, error)
	DeleteForUser(ctx context.Context, userID string) error
}

// PgOtpRepository implements OtpRepository using pgxpool.
type PgOtpRepository struct {
	pool *pgxpool.Pool
}

func NewPgOtpRepository(pool *pgxpool.Pool) *PgOtpRepository {
	return &PgOtpRepository{pool: pool}
}

func (r *PgOtpRepository) Create(ctx context.Context, otp domain.Otp) error {
	const query = `
		INSERT INTO otps (id, code, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		otp.ID,
		otp.Code,
		otp.UserID,
		otp.ExpiresAt,
		otp.CreatedAt,
	)
	return err
}

func (r *PgOtpRepository) GetMatching(ctx context.Context, userID, code string, now time.Time) (domain.Otp, error) {
	const query = `
		SELECT id, code, user_id, expires_at, created_at
		FROM otps
		WHERE user_id = $1 AND code = $2 AND expires_at >= $3
		ORDER BY created_at DESC
		LIMIT 1
	`
	var o domain.Otp
	err := r.pool.QueryRow(ctx, query, userID, code, now).Scan(
		&o.ID,
		&o.Code,
		&o.UserID,
		&o.ExpiresAt,
		&o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Otp{}, err
	}
	return o, err
}

func (r *PgOtpRepository) DeleteForUser(ctx context.Context, userID string) error {
	const query = `DELETE FROM otps WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}
