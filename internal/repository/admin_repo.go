package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizen-services/internal/domain"
)

// AdminRepository defines the persistence contract for dashboard operators.
type AdminRepository interface {
	Create(ctx context.Context, admin domain.Admin) error
	GetByEmail(ctx context.Context, email string) (domain.Admin, error)
	GetByID(ctx context.Context, id string) (domain.Admin, error)
}

// PgAdminRepository implements AdminRepository using pgxpool.
type PgAdminRepository struct {
	pool *pgxpool.Pool
}

func NewPgAdminRepository(pool *pgxpool.Pool) *PgAdminRepository {
	return &PgAdminRepository{pool: pool}
}

func (r *PgAdminRepository) Create(ctx context.Context, admin domain.Admin) error {
	const query = `
		INSERT INTO admins (id, email, password_hash, permanent_otp, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.PermanentOtp,
		admin.CreatedAt,
	)
	return err
}

func (r *PgAdminRepository) GetByEmail(ctx context.Context, email string) (domain.Admin, error) {
	const query = `
		SELECT id, email, password_hash, permanent_otp, created_at
		FROM admins
		WHERE email = $1
	`
	return r.scanOne(ctx, query, email)
}

func (r *PgAdminRepository) GetByID(ctx context.Context, id string) (domain.Admin, error) {
	const query = `
		SELECT id, email, password_hash, permanent_otp, created_at
		FROM admins
		WHERE id = $1
	`
	return r.scanOne(ctx, query, id)
}

func (r *PgAdminRepository) scanOne(ctx context.Context, query string, arg any) (domain.Admin, error) {
	var a domain.Admin
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.PermanentOtp,
		&a.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Admin{}, err
	}
	return a, err
}
