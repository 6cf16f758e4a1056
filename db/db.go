package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sethvargo/go-retry"
	_ "modernc.org/sqlite"
)

// Open connects with the given driver ("mysql" or "sqlite") and waits for the
// server to answer a ping, backing off between attempts.
func Open(ctx context.Context, driver, dsn string, maxRetries uint64) (*sql.DB, error) {
	switch driver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// One writer keeps in-memory databases on a single connection.
		db.SetMaxOpenConns(1)
	}

	b := retry.WithMaxRetries(maxRetries, retry.NewFibonacci(500*time.Millisecond))
	err = retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			slog.Warn("database not ready", "driver", driver, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	slog.Info("connected to database", "driver", driver)
	return db, nil
}
