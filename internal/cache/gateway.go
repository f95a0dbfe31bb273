// Package cache is the durable response cache: full page payloads
// keyed by request URL, stored in a local SQLite database.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/gridle/gridle/internal/request"
)

// ErrMiss reports that no fresh entry exists for a URL. Timeouts,
// stale entries and shape-invalid payloads all surface as a miss.
var ErrMiss = errors.New("cache miss")

// DefaultReadTimeout bounds Get; a slow storage engine must never
// stall a load.
const DefaultReadTimeout = 5 * time.Second

// Gateway owns one instance's slice of the cache database.
type Gateway struct {
	db          *sql.DB
	instance    string
	expiry      time.Duration
	readTimeout time.Duration
	log         *slog.Logger

	mu              sync.Mutex // guards lastFingerprint across overlapping loads
	lastFingerprint string
	now             func() time.Time // test seam
}

// Open creates or opens the cache database and prepares the schema.
func Open(path, instance string, expiry time.Duration, log *slog.Logger) (*Gateway, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to cache database: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}

	g := &Gateway{
		db:          db,
		instance:    instance,
		expiry:      expiry,
		readTimeout: DefaultReadTimeout,
		log:         log,
		now:         time.Now,
	}
	if err := g.initSchema(); err != nil {
		return nil, err
	}
	return g, nil
}

func (g *Gateway) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS response_cache (
		instance      TEXT NOT NULL,
		url           TEXT NOT NULL,
		payload       TEXT NOT NULL,
		total_records INTEGER NOT NULL,
		stored_at     INTEGER NOT NULL,
		PRIMARY KEY (instance, url)
	);

	CREATE INDEX IF NOT EXISTS idx_response_cache_stored_at ON response_cache(stored_at);
	`
	if _, err := g.db.Exec(schema); err != nil {
		return fmt.Errorf("initialize cache schema: %w", err)
	}
	return nil
}

type row struct {
	payload  string
	total    int
	storedAt int64
}

// Get returns the cached payload for a URL, or ErrMiss. The read is
// raced against readTimeout so the caller is never suspended
// indefinitely; a timeout is reported as a miss.
func (g *Gateway) Get(ctx context.Context, url string) (*request.Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, g.readTimeout)
	defer cancel()

	type result struct {
		r   row
		err error
	}
	ch := make(chan result, 1)
	go func() {
		var r row
		err := g.db.QueryRowContext(ctx,
			`SELECT payload, total_records, stored_at FROM response_cache WHERE instance = ? AND url = ?`,
			g.instance, url,
		).Scan(&r.payload, &r.total, &r.storedAt)
		ch <- result{r, err}
	}()

	select {
	case <-ctx.Done():
		g.log.Debug("cache read timed out", "url", url)
		return nil, ErrMiss
	case res := <-ch:
		if res.err != nil {
			if !errors.Is(res.err, sql.ErrNoRows) {
				g.log.Warn("cache read failed", "url", url, "error", res.err)
			}
			return nil, ErrMiss
		}
		return g.validate(url, res.r)
	}
}

// validate applies the freshness and shape checks; invalid entries are
// deleted lazily and reported as a miss.
func (g *Gateway) validate(url string, r row) (*request.Payload, error) {
	age := g.now().Sub(time.UnixMilli(r.storedAt))
	if age >= g.expiry {
		g.delete(url)
		return nil, ErrMiss
	}
	var payload request.Payload
	if err := json.Unmarshal([]byte(r.payload), &payload); err != nil || payload.Data == nil || r.total < 0 {
		g.delete(url)
		return nil, ErrMiss
	}
	payload.TotalRecords = r.total
	return &payload, nil
}

// Put stores a payload under its request URL. Write failures are
// logged, never returned: caching is an optimization, not a step the
// load pipeline may fail on.
func (g *Gateway) Put(ctx context.Context, url string, payload *request.Payload) {
	raw, err := json.Marshal(payload)
	if err != nil {
		g.log.Warn("cache encode failed", "url", url, "error", err)
		return
	}
	_, err = g.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO response_cache (instance, url, payload, total_records, stored_at) VALUES (?, ?, ?, ?, ?)`,
		g.instance, url, string(raw), payload.TotalRecords, g.now().UnixMilli(),
	)
	if err != nil {
		g.log.Warn("cache write failed", "url", url, "error", err)
	}
}

// InvalidateAll drops every entry belonging to this instance.
func (g *Gateway) InvalidateAll(ctx context.Context) {
	if _, err := g.db.ExecContext(ctx, `DELETE FROM response_cache WHERE instance = ?`, g.instance); err != nil {
		g.log.Warn("cache invalidation failed", "error", err)
	}
}

// SyncFingerprint compares the active filter fingerprint with the last
// one seen and clears the cache when they differ, so a stale
// cross-filter entry can never be served. Returns whether a clear
// happened.
func (g *Gateway) SyncFingerprint(ctx context.Context, fingerprint string) bool {
	g.mu.Lock()
	if fingerprint == g.lastFingerprint {
		g.mu.Unlock()
		return false
	}
	g.lastFingerprint = fingerprint
	g.mu.Unlock()

	g.InvalidateAll(ctx)
	return true
}

func (g *Gateway) delete(url string) {
	if _, err := g.db.Exec(`DELETE FROM response_cache WHERE instance = ? AND url = ?`, g.instance, url); err != nil {
		g.log.Warn("cache delete failed", "url", url, "error", err)
	}
}

// Count reports the number of live entries for this instance.
func (g *Gateway) Count(ctx context.Context) (int, error) {
	var n int
	err := g.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM response_cache WHERE instance = ?`, g.instance).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cache entries: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (g *Gateway) Close() error {
	if g.db != nil {
		return g.db.Close()
	}
	return nil
}
