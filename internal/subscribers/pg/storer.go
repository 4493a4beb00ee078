package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	"github.com/torqlabs/torq-news/internal/subscribers"
)

// uniqueViolation is the SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// Storer persists subscribers in Postgres. Emails are unique; subscribing an
// inactive address reactivates the existing row instead of inserting.
type Storer struct {
	db   *pgxpool.Pool
	pool *ConnectionPool
}

func NewStorer(pool *ConnectionPool) (*Storer, error) {
	return &Storer{db: pool.conn, pool: pool}, nil
}

func (s *Storer) Backend() domain.Backend {
	return domain.BackendPostgres
}

// EnsureSchema creates the subscribers table and its indexes when missing.
func (s *Storer) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS subscribers (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			email_domain TEXT NOT NULL DEFAULT '',
			subscribed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			source TEXT NOT NULL DEFAULT 'torqtechnews',
			status TEXT NOT NULL DEFAULT 'active',
			ip_hash TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_subscribers_email ON subscribers (email)`,
		`CREATE INDEX IF NOT EXISTS idx_subscribers_status ON subscribers (status)`,
		`CREATE INDEX IF NOT EXISTS idx_subscribers_domain ON subscribers (email_domain)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure subscribers schema: %w", err)
		}
	}
	return nil
}

func (s *Storer) Subscribe(ctx context.Context, sub domain.Subscriber) error {
	var (
		existingID uuid.UUID
		status     string
	)
	row := s.db.QueryRow(ctx, `SELECT id, status FROM subscribers WHERE email = $1`, sub.Email)
	err := row.Scan(&existingID, &status)
	switch {
	case err == nil:
		if status == string(domain.SubscriberActive) {
			return apperr.NewConflict("Email already subscribed")
		}
		return s.reactivate(ctx, sub)
	case errors.Is(err, pgx.ErrNoRows):
		return s.insert(ctx, sub)
	default:
		return fmt.Errorf("failed to look up subscriber: %w", err)
	}
}

func (s *Storer) insert(ctx context.Context, sub domain.Subscriber) error {
	cmd := `
        INSERT INTO subscribers (id, email, email_domain, subscribed_at, source, status, ip_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
        ON CONFLICT (email) DO NOTHING;
    `
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, cmd,
		sub.ID,
		sub.Email,
		sub.Domain,
		sub.SubscribedAt,
		subscribers.SourceTag,
		string(sub.Status),
		sub.IPHash,
		now,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperr.NewConflictWrap("Email already subscribed", err)
		}
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}
	// A concurrent insert can win the race between the lookup and here.
	if tag.RowsAffected() == 0 {
		return apperr.NewConflict("Email already subscribed")
	}
	return nil
}

func (s *Storer) reactivate(ctx context.Context, sub domain.Subscriber) error {
	cmd := `
        UPDATE subscribers
        SET status = $2, subscribed_at = $3, ip_hash = $4, updated_at = $5
        WHERE email = $1;
    `
	_, err := s.db.Exec(ctx, cmd,
		sub.Email,
		string(domain.SubscriberActive),
		sub.SubscribedAt,
		sub.IPHash,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to reactivate subscriber: %w", err)
	}
	return nil
}

func (s *Storer) CountActive(ctx context.Context) (int64, error) {
	var count int64
	row := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM subscribers WHERE status = $1`, string(domain.SubscriberActive))
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
		query += ` WHERE (subscribed_at, id) < ($1, $2)`
		args = append(args, after.SubscribedAt, after.ID)
	}
	query += fmt.Sprintf(` ORDER BY subscribed_at DESC, id DESC LIMIT %d;`, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var sub domain.Subscriber
		if err := rows.Scan(&sub.ID, &sub.Email, &sub.Domain, &sub.Status, &sub.SubscribedAt, &sub.IPHash); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subscribers: %w", err)
	}
	return subs, nil
}

func (s *Storer) Healthy(ctx context.Context) bool {
	return s.pool.Ping(ctx) == nil
}

func (s *Storer) Close() {
	s.pool.Close()
}
