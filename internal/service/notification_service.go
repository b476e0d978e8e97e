package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"citizen-services/internal/domain"
	"citizen-services/internal/repository"
)

// NotificationPublisher broadcasts notifications to subscribed listeners.
// Delivery is fire and forget: no retry, no guarantee.
type NotificationPublisher interface {
	Publish(ctx context.Context, notification domain.Notification) error
}

// NotificationService persists notification rows and broadcasts them.
type NotificationService struct {
	logger        *zap.Logger
	notifications repository.NotificationRepository
	publisher     NotificationPublisher
}

func NewNotificationService(logger *zap.Logger, notifications repository.NotificationRepository, publisher NotificationPublisher) *NotificationService {
	return &NotificationService{
		logger:        logger,
		notifications: notifications,
		publisher:     publisher,
	}
}

// Notify records a notification for the user and broadcasts it. Failures
// are logged and swallowed; a notification must never fail the operation
// that triggered it.
func (s *NotificationService) Notify(ctx context.Context, userID, title, message string) {
	notification := domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		if s.logger != nil {
			s.logger.Warn("store notification failed", zap.Error(err), zap.String("user_id", userID))
		}
		return
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, notification); err != nil {
		if s.logger != nil {
			s.logger.Warn("publish notification failed", zap.Error(err), zap.String("user_id", userID))
		}
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return s.notifications.ListByUserID(ctx, userID)
}

type redisNotificationPublisher struct {
	client *redis.Client
	prefix string
}

// NewRedisNotificationPublisher broadcasts notifications over Redis pub/sub
// on a per-user channel.
func NewRedisNotificationPublisher(client *redis.Client) NotificationPublisher {
	if client == nil {
		return nil
	}
	return &redisNotificationPublisher{
		client: client,
		prefix: "notifications:",
	}
}

func (p *redisNotificationPublisher) Publish(ctx context.Context, notification domain.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	return p.client.Publish(ctx, p.prefix+notification.UserID, payload).Err()
}
