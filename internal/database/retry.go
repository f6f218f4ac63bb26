package database

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"
)

const (
	connectBaseDelay  = 500 * time.Millisecond
	connectMaxDelay   = 5 * time.Second
	connectMaxRetries = 6
)

// pingWithRetry calls ping with capped exponential backoff until it
// succeeds, the retries run out or ctx ends.
func pingWithRetry(ctx context.Context, log zerolog.Logger, target string, ping func(context.Context) error) error {
	backoff := retry.NewExponential(connectBaseDelay)
	backoff = retry.WithCappedDuration(connectMaxDelay, backoff)
	backoff = retry.WithMaxRetries(connectMaxRetries, backoff)

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := ping(ctx); err != nil {
			log.Warn().Err(err).Str("target", target).Int("attempt", attempt).Msg("Ping failed, retrying")
			return retry.RetryableError(err)
		}
		return nil
	})
}
