package postgres

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"trusthire/internal/logger"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
)

const retryBaseDelay = 50 * time.Millisecond

// run executes fn with the per-call query timeout, retrying transient failures
// up to the configured number of extra attempts.
func (d *DB) run(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if d.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.queryTimeout)
		defer cancel()
	}

	backoff := retry.WithMaxRetries(d.retryAttempts, retry.NewExponential(retryBaseDelay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || !isTransient(err) {
			return err
		}

		logger.Warn("Transient database error",
			zap.String("operation", op),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		return retry.RetryableError(err)
	})
}

// isTransient reports connection loss, serialization failures and deadlocks.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08": // connection exception
			return true
		case pgErr.Code == "40001", pgErr.Code == "40P01": // serialization failure, deadlock
			return true
		case pgErr.Code == "57P01": // admin shutdown
			return true
		}
		return false
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
