package domain

import "time"

// Analytics rows are append-only: page URL, timestamp, session identifier,
// device and browser, event type and value. No update or delete path, pure
// accumulation with time-windowed querying. Sessions are the exception,
// upserted as the visit progresses.

// Visit is one tracked page request.
type Visit struct {
	IPHash    string
	UserAgent string
	PageURL   string
	SessionID string
	VisitedAt time.Time
}

// Event is a client-reported interaction (scroll depth, time on page,
// link clicks) tied to a session and page.
type Event struct {
	SessionID string
	Type      string
	ElementID string
	Value     string
	PageURL   string
	CreatedAt time.Time
}

// Session describes one browsing session. TotalPages and DurationSeconds
// advance with each beacon; a single-page session counts as a bounce.
type Session struct {
	ID               string
	VisitorID        string
	StartedAt        time.Time
	TotalPages       int64
	DurationSeconds  int64
	DeviceType       string
	Browser          string
	OS               string
	ScreenResolution string
	ReferrerURL      string
	LandingPage      string
	Active           bool
}

// Funnel step names recorded for conversion analysis.
const (
	FunnelHomepage      = "homepage"
	FunnelArticleView   = "article_view"
	FunnelScroll100     = "scroll_100"
	FunnelExternalClick = "external_click"
	FunnelSubscribe     = "newsletter_subscribe"
)

// FunnelStep marks a session reaching a named journey stage. Metadata is an
// optional JSON blob, e.g. the email domain on a subscribe step.
type FunnelStep struct {
	SessionID string
	Step      string
	Metadata  string
	CreatedAt time.Time
}

// Event types aggregated by the engagement report.
const (
	EventScrollDepth  = "scroll_depth"
	EventTimeOnPage   = "time_on_page"
	EventInternalLink = "internal_link"
	EventOutboundLink = "outbound_link"
	EventButtonClick  = "button_click"
)
