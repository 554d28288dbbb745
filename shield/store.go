package shield

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/hazyhaar/morph/dbopen"
)

// CounterStore counts requests per key inside fixed windows. Incr bumps the
// counter for key and returns the count within the current window; a window
// that has expired restarts at 1.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, error)
}

type memBucket struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// MemoryStore is an in-process CounterStore. Counters vanish on restart,
// which is acceptable for a single-instance deployment.
type MemoryStore struct {
	buckets sync.Map
}

// NewMemoryStore creates an empty in-memory counter store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

// Incr implements CounterStore.
func (s *MemoryStore) Incr(_ context.Context, key string, window time.Duration) (int, error) {
	now := time.Now()
	val, _ := s.buckets.LoadOrStore(key, &memBucket{resetAt: now.Add(window)})
	b := val.(*memBucket)

	b.mu.Lock()
	defer b.mu.Unlock()
	if now.After(b.resetAt) {
		b.count = 0
		b.resetAt = now.Add(window)
	}
	b.count++
	return b.count, nil
}

// GC drops expired buckets. Called periodically by the rate limiter.
func (s *MemoryStore) GC() {
	now := time.Now()
	s.buckets.Range(func(key, value any) bool {
		b := value.(*memBucket)
		b.mu.Lock()
		expired := now.After(b.resetAt)
		b.mu.Unlock()
		if expired {
			s.buckets.Delete(key)
		}
		return true
	})
}

// SQLiteStore persists counters in a rate_counters table so limits survive
// restarts. Uses the busy-retry Exec helper because counter upserts contend
// with rule reloads.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a CounterStore backed by db. The rate_counters
// table must exist (see Schema).
func NewSQLiteStore(db *sql.DB) *SQLiteStore { return &SQLiteStore{db: db} }

// Incr implements CounterStore with a single atomic upsert.
func (s *SQLiteStore) Incr(ctx context.Context, key string, window time.Duration) (int, error) {
	now := time.Now().Unix()
	resetAt := time.Now().Add(window).Unix()

	_, err := dbopen.Exec(ctx, s.db, `
		INSERT INTO rate_counters (key, count, reset_at) VALUES (?1, 1, ?2)
		ON CONFLICT(key) DO UPDATE SET
			count    = CASE WHEN reset_at <= ?3 THEN 1 ELSE count + 1 END,
			reset_at = CASE WHEN reset_at <= ?3 THEN ?2 ELSE reset_at END`,
		key, resetAt, now)
	if err != nil {
		return 0, fmt.Errorf("shield: counter upsert: %w", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT count FROM rate_counters WHERE key = ?`, key).Scan(&count); err != nil {
		return 0, fmt.Errorf("shield: counter read: %w", err)
	}
	return count, nil
}

// GC removes expired counters.
func (s *SQLiteStore) GC() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	dbopen.Exec(ctx, s.db, `DELETE FROM rate_counters WHERE reset_at <= ?`, time.Now().Unix())
}
