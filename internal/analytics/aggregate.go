package analytics

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/torqlabs/torq-news/internal/domain"
)

// Analyzer runs the aggregation queries behind reports and the advanced
// analytics endpoint. It reads the same database the Recorder writes.
type Analyzer struct {
	db *sql.DB
}

func NewAnalyzer(db *DB) *Analyzer {
	return &Analyzer{db: db.db}
}

// windowStart formats the cutoff for an N day window. Stored timestamps use
// the same layout, so a plain string comparison selects the window.
func windowStart(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(timeLayout)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Overview returns the headline visitor numbers for the window. Active
// sessions are counted regardless of the window since a session still open
// is current by definition.
func (a *Analyzer) Overview(ctx context.Context, days int) (*Overview, error) {
	cutoff := windowStart(days)
	o := &Overview{PeriodDays: days}

	q := squirrel.Select("COUNT(DISTINCT session_id)", "COUNT(*)").
		From("visitors").
		Where(squirrel.Gt{"timestamp": cutoff})
	if err := a.queryRow(ctx, q, &o.UniqueVisitors, &o.TotalPageViews); err != nil {
		return nil, fmt.Errorf("visitor counts: %w", err)
	}

	q = squirrel.Select("COUNT(*)").
		From("user_sessions").
		Where(squirrel.Eq{"is_active": 1})
	if err := a.queryRow(ctx, q, &o.ActiveSessions); err != nil {
		return nil, fmt.Errorf("active sessions: %w", err)
	}

	var avgDuration sql.NullFloat64
	q = squirrel.Select("AVG(duration_seconds)").
		From("user_sessions").
		Where(squirrel.Gt{"duration_seconds": 0}).
		Where(squirrel.Gt{"start_time": cutoff})
	if err := a.queryRow(ctx, q, &avgDuration); err != nil {
		return nil, fmt.Errorf("avg session duration: %w", err)
	}
	o.AvgSessionDuration = round2(avgDuration.Float64)

	var bounce sql.NullFloat64
	q = squirrel.Select("AVG(bounce_rate)").
		From("user_sessions").
		Where(squirrel.Gt{"start_time": cutoff})
	if err := a.queryRow(ctx, q, &bounce); err != nil {
		return nil, fmt.Errorf("bounce rate: %w", err)
	}
	o.BounceRatePercent = round2(bounce.Float64 * 100)

	return o, nil
}

// TopArticles lists the most viewed articles over the site's whole history.
// View counters accumulate across windows, so the ranking is all time.
func (a *Analyzer) TopArticles(ctx context.Context, limit int) ([]ArticleStat, error) {
	q := squirrel.Select("article_title", "view_count", "COALESCE(last_viewed, '')").
		From("page_views").
		OrderBy("view_count DESC").
		Limit(uint64(limit))

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("top articles: %w", err)
	}
	defer rows.Close()

	var out []ArticleStat
	for rows.Next() {
		var s ArticleStat
		if err := rows.Scan(&s.Title, &s.Views, &s.LastViewed); err != nil {
			return nil, fmt.Errorf("scan article stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// TopReferrers sums referrer hits per source URL, keeping the landing page
// of the first recorded row for context.
func (a *Analyzer) TopReferrers(ctx context.Context, limit int) ([]ReferrerStat, error) {
	q := squirrel.Select("referrer_url", "landing_page", "SUM(count) AS total").
		From("referrers").
		GroupBy("referrer_url").
		OrderBy("total DESC").
		Limit(uint64(limit))

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("top referrers: %w", err)
	}
	defer rows.Close()

	var out []ReferrerStat
	for rows.Next() {
		var s ReferrerStat
		if err := rows.Scan(&s.Referrer, &s.LandingPage, &s.Visits); err != nil {
			return nil, fmt.Errorf("scan referrer stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// deviceTypes are the buckets every breakdown reports, present even at zero.
var deviceTypes = []string{"desktop", "mobile", "tablet", "unknown"}

// DeviceBreakdown counts sessions per device class for the window. Every
// known bucket appears in the result with a count and a percentage so
// consumers never branch on missing keys.
func (a *Analyzer) DeviceBreakdown(ctx context.Context, days int) (map[string]DeviceStat, error) {
	q := squirrel.Select("COALESCE(device_type, '')", "COUNT(*)").
		From("user_sessions").
		Where(squirrel.Gt{"start_time": windowStart(days)}).
		GroupBy("device_type")

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("device breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]DeviceStat, len(deviceTypes))
	for _, d := range deviceTypes {
		breakdown[d] = DeviceStat{}
	}

	var total int64
	for rows.Next() {
		var device string
		var count int64
		if err := rows.Scan(&device, &count); err != nil {
			return nil, fmt.Errorf("scan device stat: %w", err)
		}
		if device == "" {
			device = "unknown"
		}
		stat := breakdown[device]
		stat.Count += count
		breakdown[device] = stat
		total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if total > 0 {
		for device, stat := range breakdown {
			stat.Percentage = round2(float64(stat.Count) / float64(total) * 100)
			breakdown[device] = stat
		}
	}
	return breakdown, nil
}

// BrowserBreakdown counts sessions per browser family for the window.
func (a *Analyzer) BrowserBreakdown(ctx context.Context, days, limit int) ([]BrowserStat, error) {
	q := squirrel.Select("COALESCE(browser, 'unknown')", "COUNT(*) AS sessions").
		From("user_sessions").
		Where(squirrel.Gt{"start_time": windowStart(days)}).
		GroupBy("browser").
		OrderBy("sessions DESC").
		Limit(uint64(limit))

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("browser breakdown: %w", err)
	}
	defer rows.Close()

	var out []BrowserStat
	for rows.Next() {
		var s BrowserStat
		if err := rows.Scan(&s.Browser, &s.Sessions); err != nil {
			return nil, fmt.Errorf("scan browser stat: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// FunnelRates counts each funnel step in the window and derives the
// conversion rates between them.
func (a *Analyzer) FunnelRates(ctx context.Context, days int) (*FunnelReport, error) {
	q := squirrel.Select("funnel_step", "COUNT(*)").
		From("conversion_funnels").
		Where(squirrel.Gt{"timestamp": windowStart(days)}).
		GroupBy("funnel_step")

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("funnel counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var step string
		var count int64
		if err := rows.Scan(&step, &count); err != nil {
			return nil, fmt.Errorf("scan funnel step: %w", err)
		}
		counts[step] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	report := &FunnelReport{
		HomepageVisits: counts[domain.FunnelHomepage],
		ArticleViews:   counts[domain.FunnelArticleView],
		FullScrolls:    counts[domain.FunnelScroll100],
		ExternalClicks: counts[domain.FunnelExternalClick],
	}
	if report.HomepageVisits > 0 {
		report.HomepageToArticleRate = round2(float64(report.ArticleViews) / float64(report.HomepageVisits) * 100)
	}
	if report.ArticleViews > 0 {
		report.ArticleCompletionRate = round2(float64(report.FullScrolls) / float64(report.ArticleViews) * 100)
		report.ExternalClickRate = round2(float64(report.ExternalClicks) / float64(report.ArticleViews) * 100)
	}
	return report, nil
}

// Engagement aggregates the reader behavior events for the window.
func (a *Analyzer) Engagement(ctx context.Context, days int) (*Engagement, error) {
	cutoff := windowStart(days)
	e := &Engagement{}

	var avgScroll sql.NullFloat64
	q := squirrel.Select("AVG(CAST(value AS INTEGER))").
		From("user_events").
		Where(squirrel.Eq{"event_type": domain.EventScrollDepth}).
		Where(squirrel.Gt{"timestamp": cutoff})
	if err := a.queryRow(ctx, q, &avgScroll); err != nil {
		return nil, fmt.Errorf("avg scroll depth: %w", err)
	}
	e.AvgScrollDepthPercent = round2(avgScroll.Float64)

	var avgTime sql.NullFloat64
	q = squirrel.Select("AVG(CAST(value AS REAL))").
		From("user_events").
		Where(squirrel.Eq{"event_type": domain.EventTimeOnPage}).
		Where(squirrel.Gt{"timestamp": cutoff})
	if err := a.queryRow(ctx, q, &avgTime); err != nil {
		return nil, fmt.Errorf("avg time on page: %w", err)
	}
	e.AvgTimeOnPageSeconds = round2(avgTime.Float64)

	clickTypes := []string{domain.EventInternalLink, domain.EventOutboundLink, domain.EventButtonClick}
	q = squirrel.Select("COUNT(*)").
		From("user_events").
		Where(squirrel.Eq{"event_type": clickTypes}).
		Where(squirrel.Gt{"timestamp": cutoff})
	if err := a.queryRow(ctx, q, &e.TotalClicks); err != nil {
		return nil, fmt.Errorf("click counts: %w", err)
	}

	times, err := a.timeOnPageSamples(ctx, cutoff)
	if err != nil {
		return nil, err
	}
	e.TimeOnPageP50 = round2(percentile(times, 50))
	e.TimeOnPageP95 = round2(percentile(times, 95))

	return e, nil
}

func (a *Analyzer) timeOnPageSamples(ctx context.Context, cutoff string) ([]float64, error) {
	q := squirrel.Select("CAST(value AS REAL)").
		From("user_events").
		Where(squirrel.Eq{"event_type": domain.EventTimeOnPage}).
		Where(squirrel.Gt{"timestamp": cutoff})

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("time on page samples: %w", err)
	}
	defer rows.Close()

	var out []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan time on page: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// percentile returns the p-th percentile of the samples using linear
// interpolation between the two nearest ranks.
func percentile(samples []float64, p int) float64 {
	if len(samples) == 0 {
		return 0
	}
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	rank := float64(p) / 100.0 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// HourlyActivity buckets window visits by UTC hour of day.
func (a *Analyzer) HourlyActivity(ctx context.Context, days int) ([]HourBucket, error) {
	q := squirrel.Select("CAST(strftime('%H', timestamp) AS INTEGER) AS hour", "COUNT(*)").
		From("visitors").
		Where(squirrel.Gt{"timestamp": windowStart(days)}).
		GroupBy("hour").
		OrderBy("hour")

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("hourly activity: %w", err)
	}
	defer rows.Close()

	var out []HourBucket
	for rows.Next() {
		var b HourBucket
		if err := rows.Scan(&b.Hour, &b.Visits); err != nil {
			return nil, fmt.Errorf("scan hour bucket: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RecentActivity returns the latest visits with session ids truncated so
// the report never exposes a full session token.
func (a *Analyzer) RecentActivity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	q := squirrel.Select("page_url", "timestamp", "COALESCE(session_id, '')").
		From("visitors").
		OrderBy("timestamp DESC").
		Limit(uint64(limit))

	rows, err := a.query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var out []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.Page, &e.Timestamp, &e.Session); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		e.Session = truncateSession(e.Session)
		out = append(out, e)
	}
	return out, rows.Err()
}

func truncateSession(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8] + "..."
}

func (a *Analyzer) query(ctx context.Context, q squirrel.SelectBuilder) (*sql.Rows, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	return a.db.QueryContext(ctx, sqlStr, args...)
}

func (a *Analyzer) queryRow(ctx context.Context, q squirrel.SelectBuilder, dest ...any) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	return a.db.QueryRowContext(ctx, sqlStr, args...).Scan(dest...)
}
