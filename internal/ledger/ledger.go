// Package ledger keeps an anonymized record of page views and how far down
// the page each one got. The default database is in-memory, so nothing
// outlives the process.
package ledger

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// MemoryDSN is a private in-memory database. The pool is capped at one
// connection so every query sees the same database.
const MemoryDSN = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS page_views (
	id TEXT PRIMARY KEY,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	opened_at INTEGER NOT NULL,
	closed_at INTEGER
);
CREATE TABLE IF NOT EXISTS section_reach (
	view_id TEXT NOT NULL REFERENCES page_views(id) ON DELETE CASCADE,
	section TEXT NOT NULL,
	reached_at INTEGER NOT NULL,
	PRIMARY KEY (view_id, section)
);
CREATE INDEX IF NOT EXISTS idx_page_views_opened ON page_views(opened_at);
`

// Visit describes the request that opened a page view.
type Visit struct {
	ViewID    string
	IP        string
	UserAgent string
	At        time.Time
}

// Reach is how many distinct page views got to a section.
type Reach struct {
	Section string `json:"section"`
	Views   int64  `json:"views"`
}

type Stats struct {
	TotalViews int64   `json:"total_views"`
	OpenViews  int64   `json:"open_views"`
	Reach      []Reach `json:"reach"`
}

// Ledger stores page views in SQLite.
type Ledger struct {
	db     *sql.DB
	salt   string
	logger *zap.Logger
}

// Open connects to dsn and creates the schema.
func Open(ctx context.Context, dsn string, logger *zap.Logger) (*Ledger, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ledger schema: %w", err)
	}
	return &Ledger{db: db, salt: newSalt(), logger: logger}, nil
}

func newSalt() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("ledger: read random salt: %v", err))
	}
	return hex.EncodeToString(b)
}

// HashIP returns a salted, truncated hash that is stable for the process.
func (l *Ledger) HashIP(ip string) string {
	h := sha256.Sum256([]byte(ip + l.salt))
	return hex.EncodeToString(h[:])[:16]
}

func (l *Ledger) Close() error { return l.db.Close() }

// Opened records a new page view.
func (l *Ledger) Opened(ctx context.Context, v Visit) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO page_views (id, hashed_ip, user_agent, opened_at) VALUES (?, ?, ?, ?)`,
		v.ViewID, l.HashIP(v.IP), v.UserAgent, v.At.UnixMilli())
	if err != nil {
		return fmt.Errorf("record view %s: %w", v.ViewID, err)
	}
	return nil
}

// Reached records the first time a view made section active. Later
// visits to the same section are ignored.
func (l *Ledger) Reached(ctx context.Context, viewID, section string, at time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO section_reach (view_id, section, reached_at)
		 SELECT id, ?, ? FROM page_views WHERE id = ?`,
		section, at.UnixMilli(), viewID)
	if err != nil {
		return fmt.Errorf("record reach %s/%s: %w", viewID, section, err)
	}
	return nil
}

// Closed stamps a view's end. Closing twice keeps the first timestamp.
func (l *Ledger) Closed(ctx context.Context, viewID string, at time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE page_views SET closed_at = ? WHERE id = ? AND closed_at IS NULL`,
		at.UnixMilli(), viewID)
	if err != nil {
		return fmt.Errorf("close view %s: %w", viewID, err)
	}
	return nil
}

// Purge removes views opened before cutoff and returns how many went.
func (l *Ledger) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM page_views WHERE opened_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purge views: %w", err)
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		l.logger.Info("Ledger purge removed old page views", zap.Int64("rows", n))
	}
	return n, nil
}

// Stats aggregates view counts and per-section reach, listed in the order
// of sections.
func (l *Ledger) Stats(ctx context.Context, sections []string) (*Stats, error) {
	st := &Stats{}
	if err := l.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM page_views`).Scan(&st.TotalViews); err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}
	if err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM page_views WHERE closed_at IS NULL`).Scan(&st.OpenViews); err != nil {
		return nil, fmt.Errorf("count open views: %w", err)
	}

	rows, err := l.db.QueryContext(ctx, `SELECT section, COUNT(*) FROM section_reach GROUP BY section`)
	if err != nil {
		return nil, fmt.Errorf("query reach: %w", err)
	}
	defer rows.Close()
	counts := make(map[string]int64)
	for rows.Next() {
		var section string
		var n int64
		if err := rows.Scan(&section, &n); err != nil {
			return nil, fmt.Errorf("scan reach: %w", err)
		}
		counts[section] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, s := range sections {
		st.Reach = append(st.Reach, Reach{Section: s, Views: counts[s]})
	}
	return st, nil
}
