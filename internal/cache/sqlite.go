package cache

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"GrowthLens/internal/model"
)

// SQLite persists fetched bars plus a log of the fetches that produced them.
// A cached range is only served when a single earlier fetch covered it
// entirely; otherwise gaps between partial fetches would look like missing
// trading days.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	mu  sync.Mutex
}

// NewSQLite opens (or creates) the cache database and runs migrations.
// Entries older than ttl are treated as misses.
func NewSQLite(dbPath string, ttl time.Duration) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so concurrent request goroutines can read while one writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	c := &SQLite{db: db, ttl: ttl}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite series cache opened: %s (ttl %s)", dbPath, ttl)
	return c, nil
}

func (c *SQLite) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fetches (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			provider   TEXT NOT NULL,
			symbol     TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date   TEXT NOT NULL,
			fetched_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_fetches_symbol ON fetches(provider, symbol)`,

		`CREATE TABLE IF NOT EXISTS bars (
			provider  TEXT NOT NULL,
			symbol    TEXT NOT NULL,
			date      TEXT NOT NULL,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL,
			adj_close REAL,
			volume    REAL,
			PRIMARY KEY (provider, symbol, date)
		)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

const day = "2006-01-02"

func (c *SQLite) Get(provider, symbol string, start, end time.Time) ([]model.PricePoint, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.ttl).Unix()
	var n int
	err := c.db.QueryRow(
		`SELECT COUNT(1) FROM fetches
		 WHERE provider = ? AND symbol = ? AND start_date <= ? AND end_date >= ? AND fetched_at > ?`,
		provider, symbol, start.Format(day), end.Format(day), cutoff,
	).Scan(&n)
	if err != nil || n == 0 {
		if err != nil {
			log.Printf("[WARN] cache lookup failed: %v", err)
		}
		return nil, false
	}

	rows, err := c.db.Query(
		`SELECT date, open, high, low, close, adj_close, volume FROM bars
		 WHERE provider = ? AND symbol = ? AND date >= ? AND date <= ?
		 ORDER BY date ASC`,
		provider, symbol, start.Format(day), end.Format(day),
	)
	if err != nil {
		log.Printf("[WARN] cache read failed: %v", err)
		return nil, false
	}
	defer rows.Close()

	var bars []model.PricePoint
	for rows.Next() {
		var dateStr string
		var p model.PricePoint
		if err := rows.Scan(&dateStr, &p.Open, &p.High, &p.Low, &p.Close, &p.AdjClose, &p.Volume); err != nil {
			log.Printf("[WARN] cache row scan failed: %v", err)
			return nil, false
		}
		d, err := time.Parse(day, dateStr)
		if err != nil {
			return nil, false
		}
		p.Date = d
		bars = append(bars, p)
	}
	if rows.Err() != nil {
		return nil, false
	}
	return bars, true
}

func (c *SQLite) Put(provider, symbol string, start, end time.Time, bars []model.PricePoint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		log.Printf("[WARN] cache write failed: %v", err)
		return
	}
	for _, p := range bars {
		if _, err := tx.Exec(
			`INSERT OR REPLACE INTO bars (provider, symbol, date, open, high, low, close, adj_close, volume)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			provider, symbol, p.Date.Format(day), p.Open, p.High, p.Low, p.Close, p.AdjClose, p.Volume,
		); err != nil {
			tx.Rollback()
			log.Printf("[WARN] cache write failed: %v", err)
			return
		}
	}
	if _, err := tx.Exec(
		`INSERT INTO fetches (provider, symbol, start_date, end_date, fetched_at) VALUES (?,?,?,?,?)`,
		provider, symbol, start.Format(day), end.Format(day), time.Now().Unix(),
	); err != nil {
		tx.Rollback()
		log.Printf("[WARN] cache write failed: %v", err)
		return
	}
	if err := tx.Commit(); err != nil {
		log.Printf("[WARN] cache commit failed: %v", err)
	}
}

func (c *SQLite) Close() error {
	log.Println("[INFO] closing sqlite series cache")
	return c.db.Close()
}
