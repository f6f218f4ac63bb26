package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
	"github.com/alumnet/alumni-backend/internal/repository"
)

type memNotifications struct {
	items []model.Notification
}

func (m *memNotifications) ListByAccount(_ context.Context, accountID uuid.UUID, page, perPage int) ([]model.Notification, int, error) {
	var own []model.Notification
	for _, n := range m.items {
		if n.AccountID == accountID {
			own = append(own, n)
		}
	}
	start := (page - 1) * perPage
	if start >= len(own) {
		return nil, len(own), nil
	}
	end := min(start+perPage, len(own))
	return own[start:end], len(own), nil
}

func (m *memNotifications) MarkRead(_ context.Context, accountID uuid.UUID, id int64) error {
	for i := range m.items {
		if m.items[i].ID == id && m.items[i].AccountID == accountID {
			return nil
		}
	}
	return repository.ErrNotFound
}

func TestQueuePublisherPushesJSON(t *testing.T) {
	rdb, mr := newRedis(t)
	pub := NewQueuePublisher(rdb)

	to := uuid.New()
	require.NoError(t, pub.Publish(context.Background(), model.NotificationEvent{
		AccountID: to,
		Kind:      model.NotifyMentorshipRequested,
		RequestID: "01HQ0000000000000000000000",
		Message:   "hello",
	}))

	items, err := mr.List(config.WorkerKey.NotificationEventsQueue)
	require.NoError(t, err)
	require.Len(t, items, 1)

	var ev model.NotificationEvent
	require.NoError(t, json.Unmarshal([]byte(items[0]), &ev))
	assert.Equal(t, to, ev.AccountID)
	assert.Equal(t, model.NotifyMentorshipRequested, ev.Kind)
}

func TestNotificationServiceListClampsPage(t *testing.T) {
	owner := uuid.New()
	store := &memNotifications{}
	for i := 1; i <= 3; i++ {
		store.items = append(store.items, model.Notification{ID: int64(i), AccountID: owner})
	}
	store.items = append(store.items, model.Notification{ID: 99, AccountID: uuid.New()})

	items, page, err := NewNotificationService(store).List(context.Background(), owner, 0, 0)
	require.NoError(t, err)
	assert.Len(t, items, 3)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPerPage, page.PerPage)
	assert.Equal(t, 3, page.TotalItems)
}

func TestNotificationServiceMarkRead(t *testing.T) {
	owner := uuid.New()
	store := &memNotifications{items: []model.Notification{{ID: 7, AccountID: owner}}}
	svc := NewNotificationService(store)

	assert.NoError(t, svc.MarkRead(context.Background(), owner, 7))
	assert.ErrorIs(t, svc.MarkRead(context.Background(), uuid.New(), 7), ErrNotificationNotFound)
}
