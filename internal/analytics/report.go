package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/torqlabs/torq-news/internal/cache"
)

// Overview is the headline visitor block of a report.
type Overview struct {
	UniqueVisitors     int64   `json:"unique_visitors"`
	TotalPageViews     int64   `json:"total_page_views"`
	ActiveSessions     int64   `json:"active_sessions"`
	AvgSessionDuration float64 `json:"avg_session_duration_seconds"`
	BounceRatePercent  float64 `json:"bounce_rate_percentage"`
	PeriodDays         int     `json:"period_days"`
}

type ArticleStat struct {
	Title      string `json:"title"`
	Views      int64  `json:"views"`
	LastViewed string `json:"last_viewed"`
}

type ReferrerStat struct {
	Referrer    string `json:"referrer"`
	LandingPage string `json:"landing_page"`
	Visits      int64  `json:"visits"`
}

type DeviceStat struct {
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

type BrowserStat struct {
	Browser  string `json:"browser"`
	Sessions int64  `json:"sessions"`
}

// FunnelReport carries raw step counts and the derived conversion rates.
// A rate is zero whenever its denominator is.
type FunnelReport struct {
	HomepageVisits        int64   `json:"homepage_visits"`
	ArticleViews          int64   `json:"article_views"`
	FullScrolls           int64   `json:"full_scrolls"`
	ExternalClicks        int64   `json:"external_clicks"`
	HomepageToArticleRate float64 `json:"homepage_to_article_rate"`
	ArticleCompletionRate float64 `json:"article_completion_rate"`
	ExternalClickRate     float64 `json:"external_click_rate"`
}

type Engagement struct {
	AvgScrollDepthPercent float64 `json:"avg_scroll_depth_percent"`
	AvgTimeOnPageSeconds  float64 `json:"avg_time_on_page_seconds"`
	TimeOnPageP50         float64 `json:"time_on_page_p50_seconds"`
	TimeOnPageP95         float64 `json:"time_on_page_p95_seconds"`
	TotalClicks           int64   `json:"total_clicks"`
}

type HourBucket struct {
	Hour   int   `json:"hour"`
	Visits int64 `json:"visits"`
}

type ActivityEntry struct {
	Page      string `json:"page"`
	Timestamp string `json:"timestamp"`
	Session   string `json:"session"`
}

// ContentStats summarizes the cache document alongside the visitor data.
type ContentStats struct {
	TotalArticles        int      `json:"total_articles"`
	ArticlesWithFullText int      `json:"articles_with_full_text"`
	FeaturedArticle      string   `json:"featured_article"`
	SourcesUsed          []string `json:"sources_used"`
	LastUpdate           string   `json:"last_update"`
	Categories           []string `json:"categories"`
}

// Report is the full aggregation output, exported as JSON by the CLI and
// served by the advanced analytics endpoint.
type Report struct {
	GeneratedAt      string                `json:"generated_at"`
	PeriodDays       int                   `json:"period_days"`
	VisitorStats     *Overview             `json:"visitor_stats"`
	TopArticles      []ArticleStat         `json:"top_articles"`
	TrafficSources   []ReferrerStat        `json:"traffic_sources"`
	DeviceBreakdown  map[string]DeviceStat `json:"device_breakdown"`
	BrowserBreakdown []BrowserStat         `json:"browser_breakdown"`
	ConversionFunnel *FunnelReport         `json:"conversion_funnel"`
	UserEngagement   *Engagement           `json:"user_engagement"`
	ContentStats     *ContentStats         `json:"content_stats,omitempty"`
	HourlyActivity   []HourBucket          `json:"hourly_activity"`
	RecentActivity   []ActivityEntry       `json:"recent_activity"`
}

// Report composes every aggregation block for the window. The cache document
// is optional; without it the content block is omitted.
func (a *Analyzer) Report(ctx context.Context, days int, doc *cache.Document) (*Report, error) {
	overview, err := a.Overview(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("report overview: %w", err)
	}
	articles, err := a.TopArticles(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("report top articles: %w", err)
	}
	sources, err := a.TopReferrers(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("report traffic sources: %w", err)
	}
	devices, err := a.DeviceBreakdown(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("report devices: %w", err)
	}
	browsers, err := a.BrowserBreakdown(ctx, days, 10)
	if err != nil {
		return nil, fmt.Errorf("report browsers: %w", err)
	}
	funnel, err := a.FunnelRates(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("report funnel: %w", err)
	}
	engagement, err := a.Engagement(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("report engagement: %w", err)
	}
	hourly, err := a.HourlyActivity(ctx, days)
	if err != nil {
		return nil, fmt.Errorf("report hourly activity: %w", err)
	}
	recent, err := a.RecentActivity(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("report recent activity: %w", err)
	}

	report := &Report{
		GeneratedAt:      time.Now().UTC().Format(time.RFC3339),
		PeriodDays:       days,
		VisitorStats:     overview,
		TopArticles:      articles,
		TrafficSources:   sources,
		DeviceBreakdown:  devices,
		BrowserBreakdown: browsers,
		ConversionFunnel: funnel,
		UserEngagement:   engagement,
		HourlyActivity:   hourly,
		RecentActivity:   recent,
	}
	if doc != nil {
		report.ContentStats = contentStats(doc)
	}
	return report, nil
}

func contentStats(doc *cache.Document) *ContentStats {
	stats := &ContentStats{
		TotalArticles: len(doc.Articles),
		SourcesUsed:   doc.SourcesUsed,
		LastUpdate:    doc.Timestamp.Format(time.RFC3339),
	}
	if doc.Featured != nil {
		stats.FeaturedArticle = doc.Featured.Title
	}

	seen := map[string]bool{}
	for _, article := range doc.Articles {
		if article.FullText != "" {
			stats.ArticlesWithFullText++
		}
		if article.Category != "" && !seen[article.Category] {
			seen[article.Category] = true
			stats.Categories = append(stats.Categories, article.Category)
		}
	}
	return stats
}
