package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizen-services/internal/domain"
)

// PaymentRepository defines the persistence contract for tax payments.
type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) error
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	ListByUserID(ctx context.Context, userID string) ([]domain.Payment, error)
	SetStatus(ctx context.Context, id, status, esewaRefID, verifiedBy string, verifiedAt time.Time) error
}

// PgPaymentRepository implements PaymentRepository using pgxpool.
type PgPaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPgPaymentRepository(pool *pgxpool.Pool) *PgPaymentRepository {
	return &PgPaymentRepository{pool: pool}
}

func (r *PgPaymentRepository) Create(ctx context.Context, payment domain.Payment) error {
	const query = `
		INSERT INTO payments (id, user_id, amount, status, esewa_ref_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		payment.ID,
		payment.UserID,
		payment.Amount,
		payment.Status,
		payment.EsewaRefID,
		payment.CreatedAt,
	)
	return err
}

func (r *PgPaymentRepository) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	const query = `
		SELECT id, user_id, amount, status, esewa_ref_id, verified_by, verified_at, created_at
		FROM payments
		WHERE id = $1
	`
	var p domain.Payment
	var verifiedBy *string
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID,
		&p.UserID,
		&p.Amount,
		&p.Status,
		&p.EsewaRefID,
		&verifiedBy,
		&p.VerifiedAt,
		&p.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Payment{}, err
	}
	if verifiedBy != nil {
		p.VerifiedBy = *verifiedBy
	}
	return p, err
}

func (r *PgPaymentRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Payment, error) {
	const query = `
		SELECT id, user_id, amount, status, esewa_ref_id, verified_by, verified_at, created_at
		FROM payments
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		var verifiedBy *string
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Amount,
			&p.Status,
			&p.EsewaRefID,
			&verifiedBy,
			&p.VerifiedAt,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		if verifiedBy != nil {
			p.VerifiedBy = *verifiedBy
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PgPaymentRepository) SetStatus(ctx context.Context, id, status, esewaRefID, verifiedBy string, verifiedAt time.Time) error {
	const query = `
		UPDATE payments
		SET status = $2, esewa_ref_id = $3, verified_by = NULLIF($4, ''), verified_at = $5
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, status, esewaRefID, verifiedBy, verifiedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
