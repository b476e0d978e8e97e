package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"citizen-services/internal/domain"
)

// NotificationRepository defines the persistence contract for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) error
	ListByUserID(ctx context.Context, userID string) ([]domain.Notification, error)
}

// PgNotificationRepository implements NotificationRepository using pgxpool.
type PgNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPgNotificationRepository(pool *pgxpool.Pool) *PgNotificationRepository {
	return &PgNotificationRepository{pool: pool}
}

func (r *PgNotificationRepository) Create(ctx context.Context, notification domain.Notification) error {
	const query = `
		INSERT INTO notifications (id, user_id, title, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.CreatedAt,
	)
	return err
}

func (r *PgNotificationRepository) ListByUserID(ctx context.Context, userID string) ([]domain.Notification, error) {
	const query = `
		SELECT id, user_id, title, message, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.CreatedAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
