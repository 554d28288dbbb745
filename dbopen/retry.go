package dbopen

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const maxRetries = 3

// IsBusy reports whether err indicates an SQLite BUSY condition.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// Exec executes a statement with automatic retry on SQLITE_BUSY.
// Retries up to 3 times with 100/200/300 ms backoff. The rate limiter's
// counter upserts go through here so a briefly locked database does not
// surface as a request failure.
func Exec(ctx context.Context, db *sql.DB, query string, args ...any) (sql.Result, error) {
	for i := range maxRetries {
		result, err := db.ExecContext(ctx, query, args...)
		if err == nil {
			return result, nil
		}
		if !IsBusy(err) || i == maxRetries-1 {
			return nil, err
		}
		if err := sleepCtx(ctx, time.Duration(100*(i+1))*time.Millisecond); err != nil {
			return nil, fmt.Errorf("dbopen: context cancelled during retry: %w", err)
		}
	}
	return nil, fmt.Errorf("dbopen: Exec: max retries exceeded")
}

// RunTx runs fn inside a transaction, retrying the whole transaction on
// SQLITE_BUSY. Rollback on error, commit otherwise.
func RunTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var lastErr error
	for i := range maxRetries {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			if IsBusy(err) && i < maxRetries-1 {
				lastErr = err
				if err := sleepCtx(ctx, time.Duration(100*(i+1))*time.Millisecond); err != nil {
					return fmt.Errorf("dbopen: context cancelled during retry: %w", err)
				}
				continue
			}
			return fmt.Errorf("dbopen: begin tx: %w", err)
		}

		if err := fn(tx); err != nil {
			tx.Rollback()
			if IsBusy(err) && i < maxRetries-1 {
				lastErr = err
				if err := sleepCtx(ctx, time.Duration(100*(i+1))*time.Millisecond); err != nil {
					return fmt.Errorf("dbopen: context cancelled during retry: %w", err)
				}
				continue
			}
			return err
		}

		if err := tx.Commit(); err != nil {
			if IsBusy(err) && i < maxRetries-1 {
				lastErr = err
				if err := sleepCtx(ctx, time.Duration(100*(i+1))*time.Millisecond); err != nil {
					return fmt.Errorf("dbopen: context cancelled during retry: %w", err)
				}
				continue
			}
			return fmt.Errorf("dbopen: commit: %w", err)
		}
		return nil
	}
	return fmt.Errorf("dbopen: RunTx: max retries exceeded: %w", lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
