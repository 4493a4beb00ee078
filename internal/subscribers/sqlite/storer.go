// Package sqlite persists subscribers in a local SQLite file. It is the
// default backend and doubles as the fallback when Postgres is unreachable.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	"github.com/torqlabs/torq-news/internal/subscribers"
)

// toMillis normalizes timestamps to millisecond precision for storage.
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

type Storer struct {
	db *sql.DB
}

// Open opens or creates the subscriber database and ensures the schema.
func Open(path string) (*Storer, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open subscriber db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("configure subscriber db: %w", err)
		}
	}

	s := &Storer{db: db}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init subscriber schema: %w", err)
	}
	return s, nil
}

func (s *Storer) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS subscribers (
		id TEXT PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		email_domain TEXT,
		subscribed_at INTEGER NOT NULL,
		source TEXT DEFAULT 'torqtechnews',
		status TEXT DEFAULT 'active',
		ip_hash TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_subscribers_email ON subscribers(email);
	CREATE INDEX IF NOT EXISTS idx_subscribers_status ON subscribers(status);
	CREATE INDEX IF NOT EXISTS idx_subscribers_domain ON subscribers(email_domain);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *Storer) Backend() domain.Backend {
	return domain.BackendSQLite
}

func (s *Storer) Subscribe(ctx context.Context, sub domain.Subscriber) error {
	var (
		existingID string
		status     string
	)
	row := s.db.QueryRowContext(ctx, `SELECT id, status FROM subscribers WHERE email = ?`, sub.Email)
	err := row.Scan(&existingID, &status)
	switch {
	case err == nil:
		if status == string(domain.SubscriberActive) {
			return apperr.NewConflict("Email already subscribed")
		}
		return s.reactivate(ctx, sub)
	case errors.Is(err, sql.ErrNoRows):
		return s.insert(ctx, sub)
	default:
		return fmt.Errorf("failed to look up subscriber: %w", err)
	}
}

func (s *Storer) insert(ctx context.Context, sub domain.Subscriber) error {
	now := toMillis(time.Now())
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subscribers (id, email, email_domain, subscribed_at, source, status, ip_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.ID.String(),
		sub.Email,
		sub.Domain,
		toMillis(sub.SubscribedAt),
		subscribers.SourceTag,
		string(sub.Status),
		sub.IPHash,
		now,
		now,
	)
	if err != nil {
		var serr *sqlite.Error
		if errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return apperr.NewConflictWrap("Email already subscribed", err)
		}
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}
	return nil
}

func (s *Storer) reactivate(ctx context.Context, sub domain.Subscriber) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE subscribers
		SET status = ?, subscribed_at = ?, ip_hash = ?, updated_at = ?
		WHERE email = ?`,
		string(domain.SubscriberActive),
		toMillis(sub.SubscribedAt),
		sub.IPHash,
		toMillis(time.Now()),
		sub.Email,
	)
	if err != nil {
		return fmt.Errorf("failed to reactivate subscriber: %w", err)
	}
	return nil
}

func (s *Storer) CountActive(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers WHERE status = ?`, string(domain.SubscriberActive))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count subscribers: %w", err)
	}
	return count, nil
}

func (s *Storer) List(ctx context.Context, after *dto.Cursor, limit int) ([]domain.Subscriber, error) {
	query := `
		SELECT id, email, email_domain, status, subscribed_at, COALESCE(ip_hash, '')
		FROM subscribers
	`
	args := []any{}
	if after != nil {
		query += ` WHERE subscribed_at < ? OR (subscribed_at = ? AND id < ?)`
		millis := toMillis(after.SubscribedAt)
		args = append(args, millis, millis, after.ID.String())
	}
	query += ` ORDER BY subscribed_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var (
			sub    domain.Subscriber
			id     string
			status string
			at     int64
		)
		if err := rows.Scan(&id, &sub.Email, &sub.Domain, &status, &at, &sub.IPHash); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("failed to parse subscriber id %q: %w", id, err)
		}
		sub.ID = parsed
		sub.Status = domain.SubscriberStatus(status)
		sub.SubscribedAt = fromMillis(at)
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscribers: %w", err)
	}
	return subs, nil
}

func (s *Storer) Healthy(ctx context.Context) bool {
	return s.db.PingContext(ctx) == nil
}

func (s *Storer) Close() {
	_ = s.db.Close()
}
