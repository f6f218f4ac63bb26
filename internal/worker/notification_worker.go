package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/alumnet/alumni-backend/internal/config"
	"github.com/alumnet/alumni-backend/internal/model"
)

const (
	NotificationPollTimeout = 1 * time.Second
	NotificationRetryDelay  = 500 * time.Millisecond
	NotificationMaxAttempts = 5
	NotificationDrainLimit  = 1000
	NotificationDrainWindow = 5 * time.Second
)

// NotificationPersister stores delivered notifications.
// *repository.NotificationRepository implements it.
type NotificationPersister interface {
	Create(ctx context.Context, n *model.Notification) error
}

// NotificationWorker moves notification events from the Redis queue into
// the notifications table.
type NotificationWorker struct {
	rdb        *redis.Client
	store      NotificationPersister
	log        zerolog.Logger
	retryDelay time.Duration
}

func NewNotificationWorker(rdb *redis.Client, store NotificationPersister, log zerolog.Logger) *NotificationWorker {
	return &NotificationWorker{
		rdb:        rdb,
		store:      store,
		log:        log.With().Str("component", "notification_worker").Logger(),
		retryDelay: NotificationRetryDelay,
	}
}

// Start consumes the queue until ctx is cancelled, then drains what is
// left with a short deadline.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotificationWorker started")
	queue := config.WorkerKey.NotificationEventsQueue

	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.log.Info().Msg("NotificationWorker stopped")
			return
		default:
		}

		item, err := w.rdb.BLPop(ctx, NotificationPollTimeout, queue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("BLPop error")
				w.pause(ctx)
			}
			continue
		}
		if len(item) < 2 {
			continue
		}

		if !w.handle(ctx, item[1]) {
			w.pause(ctx)
		}
	}
}

// drain persists events still queued at shutdown.
func (w *NotificationWorker) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), NotificationDrainWindow)
	defer cancel()

	queue := config.WorkerKey.NotificationEventsQueue
	drained := 0
	for ; drained < NotificationDrainLimit; drained++ {
		raw, err := w.rdb.LPop(ctx, queue).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				w.log.Error().Err(err).Msg("Drain failed")
			}
			break
		}
		w.handle(ctx, raw)
	}
	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained notification queue")
	}
}

// handle persists one raw event. It reports false when the event was
// pushed back for a later attempt.
func (w *NotificationWorker) handle(ctx context.Context, raw string) bool {
	var ev model.NotificationEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return true
	}

	n := &model.Notification{
		AccountID: ev.AccountID,
		Kind:      ev.Kind,
		RequestID: ev.RequestID,
		Message:   ev.Message,
	}
	if ev.OccurredAt > 0 {
		n.CreatedAt = time.Unix(ev.OccurredAt, 0).UTC()
	}

	if err := w.store.Create(ctx, n); err != nil {
		ev.Attempts++
		if ev.Attempts >= NotificationMaxAttempts {
			w.log.Error().Err(err).
				Str("account_id", ev.AccountID.String()).
				Str("kind", string(ev.Kind)).
				Int("attempts", ev.Attempts).
				Msg("Dropping notification after repeated failures")
			return true
		}

		w.log.Warn().Err(err).Int("attempts", ev.Attempts).Msg("Persist failed, requeueing")
		data, _ := json.Marshal(ev)
		// Requeue on a fresh context so shutdown does not lose the event.
		if err := w.rdb.RPush(context.Background(), config.WorkerKey.NotificationEventsQueue, data).Err(); err != nil {
			w.log.Error().Err(err).Msg("Requeue failed")
		}
		return false
	}
	return true
}

func (w *NotificationWorker) pause(ctx context.Context) {
	t := time.NewTimer(w.retryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
