package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
)

type fakePersister struct {
	mu       sync.Mutex
	failures int
	saved    []*model.Notification
}

func (f *fakePersister) Create(_ context.Context, n *model.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return errors.New("db unavailable")
	}
	n.ID = int64(len(f.saved) + 1)
	f.saved = append(f.saved, n)
	return nil
}

func (f *fakePersister) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saved)
}

func (f *fakePersister) at(i int) *model.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saved[i]
}

func pushEvent(t *testing.T, rdb *redis.Client, ev model.NotificationEvent) {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	require.NoError(t, rdb.RPush(context.Background(), config.WorkerKey.NotificationEventsQueue, data).Err())
}

func newWorker(t *testing.T, store NotificationPersister) (*NotificationWorker, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.NewMiniRedis()
	require.NoError(t, mr.Start())
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	w := NewNotificationWorker(rdb, store, zerolog.Nop())
	w.retryDelay = 10 * time.Millisecond
	return w, rdb, mr
}

func run(w *NotificationWorker) (context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		w.Start(ctx)
	}()
	return cancel, done
}

func TestNotificationWorkerPersistsEvents(t *testing.T) {
	ignore := goleak.IgnoreCurrent()

	store := &fakePersister{}
	w, rdb, mr := newWorker(t, store)

	recipient := uuid.New()
	occurred := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	pushEvent(t, rdb, model.NotificationEvent{
		AccountID:  recipient,
		Kind:       model.NotifyMentorshipRequested,
		RequestID:  "01HQ0000000000000000000000",
		Message:    "Sara Khan requested mentorship",
		OccurredAt: occurred.Unix(),
	})

	cancel, done := run(w)
	require.Eventually(t, func() bool { return store.count() == 1 }, 3*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	n := store.at(0)
	assert.Equal(t, recipient, n.AccountID)
	assert.Equal(t, model.NotifyMentorshipRequested, n.Kind)
	assert.Equal(t, "01HQ0000000000000000000000", n.RequestID)
	assert.True(t, occurred.Equal(n.CreatedAt))

	require.NoError(t, rdb.Close())
	mr.Close()
	goleak.VerifyNone(t, ignore)
}

func TestNotificationWorkerRequeuesOnFailure(t *testing.T) {
	store := &fakePersister{failures: 2}
	w, rdb, mr := newWorker(t, store)
	defer mr.Close()
	defer rdb.Close()

	pushEvent(t, rdb, model.NotificationEvent{
		AccountID: uuid.New(),
		Kind:      model.NotifyMentorshipAccepted,
		Message:   "accepted",
	})

	cancel, done := run(w)
	require.Eventually(t, func() bool { return store.count() == 1 }, 5*time.Second, 10*time.Millisecond)
	cancel()
	<-done

	assert.Equal(t, 0, store.failures)
	assert.False(t, mr.Exists(config.WorkerKey.NotificationEventsQueue))
}

func TestNotificationWorkerDropsAfterMaxAttempts(t *testing.T) {
	store := &fakePersister{failures: 100}
	w, rdb, mr := newWorker(t, store)
	defer mr.Close()
	defer rdb.Close()

	payload, err := json.Marshal(model.NotificationEvent{
		AccountID: uuid.New(),
		Kind:      model.NotifyMentorshipDeclined,
		Attempts:  NotificationMaxAttempts - 1,
	})
	require.NoError(t, err)

	assert.True(t, w.handle(context.Background(), string(payload)))
	assert.False(t, mr.Exists(config.WorkerKey.NotificationEventsQueue))
	assert.Equal(t, 0, store.count())
}

func TestNotificationWorkerSkipsMalformedPayload(t *testing.T) {
	store := &fakePersister{}
	w, rdb, mr := newWorker(t, store)
	defer mr.Close()
	defer rdb.Close()

	assert.True(t, w.handle(context.Background(), "{not json"))
	assert.Equal(t, 0, store.count())
}

func TestNotificationWorkerDrainsOnShutdown(t *testing.T) {
	store := &fakePersister{}
	w, rdb, mr := newWorker(t, store)
	defer mr.Close()
	defer rdb.Close()

	for i := 0; i < 3; i++ {
		pushEvent(t, rdb, model.NotificationEvent{AccountID: uuid.New(), Kind: model.NotifyMentorshipCancelled})
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w.Start(ctx)

	assert.Equal(t, 3, store.count())
	assert.False(t, mr.Exists(config.WorkerKey.NotificationEventsQueue))
}
