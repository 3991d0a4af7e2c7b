package dbx

import (
	"context"
	"database/sql"
	"time"

	"github.com/sethvargo/go-retry"
)

// Open opens a pool for driver/dsn and blocks until the database answers a
// ping, retrying with exponential backoff up to attempts times.
func Open(ctx context.Context, driver, dsn string, attempts uint64) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := WaitForDB(ctx, db, attempts, 500*time.Millisecond); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// WaitForDB pings db until it answers, giving up after maxRetries further
// attempts or when ctx is done.
func WaitForDB(ctx context.Context, db *sql.DB, maxRetries uint64, base time.Duration) error {
	backoff := retry.WithMaxRetries(maxRetries, retry.NewExponential(base))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
