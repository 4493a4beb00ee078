package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/torqlabs/torq-news/internal/domain"
)

// Recorder appends visitor activity rows. Every method is safe to call from
// request handlers; callers decide whether a failed write fails the request
// (the tracking middleware logs and drops).
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *DB) *Recorder {
	return &Recorder{db: db.db}
}

func stamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timeLayout)
}

// RecordVisit appends one tracked page request.
func (r *Recorder) RecordVisit(ctx context.Context, v domain.Visit) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO visitors (ip_hash, user_agent, page_url, timestamp, session_id)
		VALUES (?, ?, ?, ?, ?)`,
		v.IPHash, v.UserAgent, v.PageURL, stamp(v.VisitedAt), v.SessionID)
	if err != nil {
		return fmt.Errorf("record visit: %w", err)
	}
	return nil
}

// RecordArticleView bumps the view counter for an article, creating the
// row on first view, and returns the new count.
func (r *Recorder) RecordArticleView(ctx context.Context, articleID, title string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT view_count FROM page_views WHERE article_id = ?`, articleID).Scan(&count)
	switch {
	case err == nil:
		count++
		_, err = r.db.ExecContext(ctx, `
			UPDATE page_views SET view_count = ?, last_viewed = ?
			WHERE article_id = ?`,
			count, stamp(time.Time{}), articleID)
	case errors.Is(err, sql.ErrNoRows):
		count = 1
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO page_views (article_id, article_title, view_count, last_viewed)
			VALUES (?, ?, 1, ?)`,
			articleID, title, stamp(time.Time{}))
	}
	if err != nil {
		return 0, fmt.Errorf("record article view: %w", err)
	}
	return count, nil
}

// RecordEvent appends a client-reported interaction.
func (r *Recorder) RecordEvent(ctx context.Context, e domain.Event) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_events (session_id, event_type, element_id, value, page_url, timestamp)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.Type, e.ElementID, e.Value, e.PageURL, stamp(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// RecordSession upserts the session row. The first beacon inserts the row
// and counts the referrer; later beacons advance page count, duration and
// activity. A single-page session carries bounce_rate 1.
func (r *Recorder) RecordSession(ctx context.Context, s domain.Session) error {
	bounce := 0.0
	if s.TotalPages <= 1 {
		bounce = 1.0
	}
	active := 0
	if s.Active {
		active = 1
	}

	var exists int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM user_sessions WHERE session_id = ?`, s.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	if exists > 0 {
		_, err = r.db.ExecContext(ctx, `
			UPDATE user_sessions
			SET end_time = ?, total_pages = ?, duration_seconds = ?, bounce_rate = ?, is_active = ?
			WHERE session_id = ?`,
			stamp(time.Time{}), s.TotalPages, s.DurationSeconds, bounce, active, s.ID)
		if err != nil {
			return fmt.Errorf("record session: %w", err)
		}
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO user_sessions
			(session_id, visitor_id, start_time, total_pages, duration_seconds, bounce_rate,
			 device_type, browser, os, screen_resolution, referrer_url, landing_page, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.VisitorID, stamp(s.StartedAt), s.TotalPages, s.DurationSeconds, bounce,
		s.DeviceType, s.Browser, s.OS, s.ScreenResolution, s.ReferrerURL, s.LandingPage, active)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	if s.ReferrerURL != "" {
		if err := r.countReferrer(ctx, s.ReferrerURL, s.LandingPage); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recorder) countReferrer(ctx context.Context, referrer, landing string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE referrers SET count = count + 1, last_seen = ?
		WHERE referrer_url = ? AND landing_page = ?`,
		stamp(time.Time{}), referrer, landing)
	if err != nil {
		return fmt.Errorf("count referrer: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("count referrer: %w", err)
	}
	if affected > 0 {
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO referrers (referrer_url, landing_page, count, first_seen, last_seen)
		VALUES (?, ?, 1, ?, ?)`,
		referrer, landing, stamp(time.Time{}), stamp(time.Time{}))
	if err != nil {
		return fmt.Errorf("count referrer: %w", err)
	}
	return nil
}

// RecordFunnelStep marks a session reaching a journey stage.
func (r *Recorder) RecordFunnelStep(ctx context.Context, f domain.FunnelStep) error {
	metadata := f.Metadata
	if metadata == "" {
		metadata = "{}"
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO conversion_funnels (session_id, funnel_step, timestamp, metadata)
		VALUES (?, ?, ?, ?)`,
		f.SessionID, f.Step, stamp(f.CreatedAt), metadata)
	if err != nil {
		return fmt.Errorf("record funnel step: %w", err)
	}
	return nil
}
