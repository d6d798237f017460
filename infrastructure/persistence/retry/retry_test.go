package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"campusfood/domain/order"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func enabled() Config {
	return Config{
		Enabled:            true,
		MaxAttempts:        3,
		RetryOnDeadlock:    true,
		RetryOnLockTimeout: true,
		RetryOnSerialize:   true,
	}
}

func TestIsRetryableError(t *testing.T) {
	cfg := enabled()

	assert.True(t, IsRetryableError(&pgconn.PgError{Code: "40001"}, cfg))
	assert.True(t, IsRetryableError(fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"}), cfg))
	assert.False(t, IsRetryableError(&pgconn.PgError{Code: "23505"}, cfg))
	assert.True(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg))
	assert.True(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1205}, cfg))
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1062}, cfg))

	assert.False(t, IsRetryableError(order.NewEmptyOrderError(), cfg))
	assert.False(t, IsRetryableError(nil, cfg))

	cfg.RetryOnSerialize = false
	assert.False(t, IsRetryableError(&pgconn.PgError{Code: "40001"}, cfg))
}

func TestExecuteWithRetry(t *testing.T) {
	ctx := context.Background()

	calls := 0
	err := ExecuteWithRetry(ctx, enabled(), func(context.Context) error {
		calls++
		if calls < 3 {
			return &pgconn.PgError{Code: "40001"}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = ExecuteWithRetry(ctx, enabled(), func(context.Context) error {
		calls++
		return order.NewItemUnavailableError(99)
	})
	assert.ErrorIs(t, err, order.ErrItemUnavailable)
	assert.Equal(t, 1, calls, "validation failures are never retried")

	calls = 0
	err = ExecuteWithRetry(ctx, Disabled, func(context.Context) error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := enabled()
	cfg.InitialDelay = time.Hour

	err := ExecuteWithRetry(ctx, cfg, func(context.Context) error {
		cancel()
		return &mysqlDriver.MySQLError{Number: 1213}
	})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestBackoff(t *testing.T) {
	cfg := Config{InitialDelay: 100 * time.Millisecond, MaxDelay: 300 * time.Millisecond, BackoffFactor: 2}
	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 300*time.Millisecond, ExponentialBackoffWithJitter(5, cfg))
}
