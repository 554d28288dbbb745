package shield

import (
	"context"
	"database/sql"

	"github.com/hazyhaar/morph/dbopen"
)

// Schema defines the SQLite tables used by the rate limiter:
//   - rate_limits: per-endpoint rules (method + path, window, cap)
//   - rate_counters: persisted request counters (SQLiteStore)
//
// All statements are idempotent (CREATE IF NOT EXISTS / INSERT OR IGNORE).
const Schema = `
CREATE TABLE IF NOT EXISTS rate_limits (
    endpoint       TEXT PRIMARY KEY,
    max_requests   INTEGER NOT NULL DEFAULT 60,
    window_seconds INTEGER NOT NULL DEFAULT 60,
    enabled        INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS rate_counters (
    key      TEXT PRIMARY KEY,
    count    INTEGER NOT NULL DEFAULT 0,
    reset_at INTEGER NOT NULL DEFAULT 0
);

INSERT OR IGNORE INTO rate_limits (endpoint, max_requests, window_seconds) VALUES
    ('POST /convert/video', 10, 60),
    ('POST /convert/audio', 20, 60),
    ('POST /convert/text',  20, 60),
    ('POST /convert/image', 30, 60);
`

// Init creates the rate-limit tables and seeds the per-endpoint rules.
func Init(ctx context.Context, db *sql.DB) error {
	return dbopen.RunTx(ctx, db, func(tx *sql.Tx) error {
		_, err := tx.Exec(Schema)
		return err
	})
}
