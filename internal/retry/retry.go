package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"payment-gateway/internal/config"
	"payment-gateway/internal/square"

	"github.com/cenkalti/backoff/v4"
)

// Executor runs an outbound vendor operation with exponential backoff.
// Terminal vendor rejections and deadline expiries bail on the first
// occurrence; only transport-level failures are retried. Duplicate delivery
// under retry is safe because the caller submits a stable idempotency key
// the vendor deduplicates on.
type Executor struct {
	maxAttempts  uint64
	initialDelay time.Duration
	logger       *slog.Logger
}

func NewExecutor(cfg config.Retry, logger *slog.Logger) *Executor {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Executor{
		maxAttempts:  uint64(maxAttempts),
		initialDelay: time.Duration(cfg.InitialDelayMs) * time.Millisecond,
		logger:       logger,
	}
}

// Do executes op until it succeeds, fails terminally, or the attempt ceiling
// is reached. The last failure is returned unchanged.
func (e *Executor) Do(ctx context.Context, name string, op func(ctx context.Context) error) error {
	attempt := 0

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = e.initialDelay

	return backoff.Retry(func() error {
		attempt++

		err := op(ctx)
		if err == nil {
			return nil
		}

		var apiErr *square.APIError
		if errors.As(err, &apiErr) && apiErr.Terminal() {
			e.logger.WarnContext(ctx, "Vendor rejected operation, not retrying",
				"operation", name, "status", apiErr.StatusCode, "attempt", attempt)
			return backoff.Permanent(err)
		}

		if square.IsTimeout(err) {
			e.logger.WarnContext(ctx, "Operation timed out, not retrying",
				"operation", name, "attempt", attempt)
			return backoff.Permanent(err)
		}

		e.logger.WarnContext(ctx, fmt.Sprintf("Operation failed, will retry: %v", err),
			"operation", name, "attempt", attempt)
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, e.maxAttempts-1), ctx))
}
