package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"citizen-services/internal/domain"
)

// UserRepository defines the persistence contract for citizen records.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmailAndCitizenship(ctx context.Context, email, citizenshipNo string) (domain.User, error)
	GetByCitizenshipNo(ctx context.Context, citizenshipNo string) (domain.User, error)
	Activate(ctx context.Context, id string, activatedAt time.Time) error
}

const userColumns = `
	id, name, email, citizenship_no, address, father_name, mother_name,
	dob, issue_date, pan_number, pan_issue_date, salary, is_active,
	created_at, updated_at
`

// PgUserRepository implements UserRepository using pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) Create(ctx context.Context, user domain.User) error {
	const query = `
		INSERT INTO users (
			id, name, email, citizenship_no, address, father_name, mother_name,
			dob, issue_date, pan_number, pan_issue_date, salary, is_active, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.CitizenshipNo,
		user.Address,
		user.FatherName,
		user.MotherName,
		user.DateOfBirth,
		user.IssueDate,
		user.PanNumber,
		user.PanIssueDate,
		user.Salary,
		user.IsActive,
		user.CreatedAt,
	)
	return err
}

func (r *PgUserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *PgUserRepository) GetByEmailAndCitizenship(ctx context.Context, email, citizenshipNo string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND citizenship_no = $2`
	return r.scanOne(r.pool.QueryRow(ctx, query, email, citizenshipNo))
}

func (r *PgUserRepository) GetByCitizenshipNo(ctx context.Context, citizenshipNo string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE citizenship_no = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, citizenshipNo))
}

func (r *PgUserRepository) Activate(ctx context.Context, id string, activatedAt time.Time) error {
	const query = `UPDATE users SET is_active = true, updated_at = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, activatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *PgUserRepository) scanOne(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.CitizenshipNo,
		&u.Address,
		&u.FatherName,
		&u.MotherName,
		&u.DateOfBirth,
		&u.IssueDate,
		&u.PanNumber,
		&u.PanIssueDate,
		&u.Salary,
		&u.IsActive,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, err
	}
	return u, err
}
