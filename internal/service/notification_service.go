package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
	"github.com/alumnet/alumni-backend/internal/response"
)

// ErrNotificationNotFound is returned when a notification does not exist
// or belongs to another account.
var ErrNotificationNotFound = errors.New("notification not found")

// QueuePublisher pushes notification events onto the Redis worker queue.
type QueuePublisher struct {
	rdb *redis.Client
}

// NewQueuePublisher creates a new QueuePublisher.
func NewQueuePublisher(rdb *redis.Client) *QueuePublisher {
	return &QueuePublisher{rdb: rdb}
}

// Publish appends ev to the notification queue.
func (p *QueuePublisher) Publish(ctx context.Context, ev model.NotificationEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return p.rdb.RPush(ctx, config.WorkerKey.NotificationEventsQueue, data).Err()
}

// NotificationService reads and acknowledges in-app notifications.
type NotificationService struct {
	store NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns a page of the account's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, accountID uuid.UUID, page, perPage int) ([]model.Notification, *response.Pagination, error) {
	page, perPage = clampPage(page, perPage, MaxMentorPage)
	items, total, err := s.store.ListByAccount(ctx, accountID, page, perPage)
	if err != nil {
		return nil, nil, err
	}
	return items, newPagination(page, perPage, total), nil
}

// MarkRead acknowledges one of the account's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, accountID uuid.UUID, id int64) error {
	if err := s.store.MarkRead(ctx, accountID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}
