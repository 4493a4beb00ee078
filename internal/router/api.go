package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/torqlabs/torq-news/internal/analytics"
	"github.com/torqlabs/torq-news/internal/apperr"
	"github.com/torqlabs/torq-news/internal/cache"
	"github.com/torqlabs/torq-news/internal/domain"
	"github.com/torqlabs/torq-news/internal/dto"
	sitemw "github.com/torqlabs/torq-news/internal/middleware"
	"github.com/torqlabs/torq-news/internal/search"
	"github.com/torqlabs/torq-news/internal/subscribers"
	"github.com/torqlabs/torq-news/pkg/pagination"
)

const (
	// CronSecretHeader authenticates the scheduled refresh webhook.
	CronSecretHeader = "X-Cron-Secret"

	defaultOverviewDays = 7
	defaultReportDays   = 30
	maxReportDays       = 365
)

// ContentRefresher queues an immediate content refresh cycle.
type ContentRefresher interface {
	Trigger() bool
}

// ApiRouter serves the JSON API.
type ApiRouter struct {
	e           *echo.Echo
	subscribers *subscribers.Service
	recorder    *analytics.Recorder
	analyzer    *analytics.Analyzer
	cache       *cache.Store
	searcher    search.Searcher

	refresher  ContentRefresher
	cronSecret string
}

type ApiRouterOption func(*ApiRouter)

// WithRefresher enables the manual and cron update endpoints.
func WithRefresher(r ContentRefresher) ApiRouterOption {
	return func(ar *ApiRouter) {
		ar.refresher = r
	}
}

// WithCronSecret sets the shared secret the cron endpoint requires.
func WithCronSecret(secret string) ApiRouterOption {
	return func(ar *ApiRouter) {
		ar.cronSecret = secret
	}
}

func NewApiRouter(
	e *echo.Echo,
	subs *subscribers.Service,
	recorder *analytics.Recorder,
	analyzer *analytics.Analyzer,
	store *cache.Store,
	searcher search.Searcher,
	opts ...ApiRouterOption,
) *ApiRouter {
	r := &ApiRouter{
		e:           e,
		subscribers: subs,
		recorder:    recorder,
		analyzer:    analyzer,
		cache:       store,
		searcher:    searcher,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *ApiRouter) Bind() {
	api := r.e.Group("/api")

	api.POST("/subscribe", r.subscribeHandler)
	api.GET("/subscribers/count", r.subscriberCountHandler)
	api.GET("/subscribers", r.subscriberListHandler)

	api.GET("/analytics", r.analyticsHandler)
	api.GET("/analytics/advanced", r.analyticsAdvancedHandler)
	api.POST("/track-event", r.trackEventHandler)
	api.POST("/track-session", r.trackSessionHandler)

	api.GET("/search", r.searchHandler)

	api.POST("/cron/update-content", r.cronUpdateHandler)
	api.POST("/manual-update", r.manualUpdateHandler)
}

// subscribeHandler godoc
// @Summary Subscribe an email address to the newsletter
// @Description Validates the address, writes it to the primary subscriber store and reports which backend serviced the request.
// @Tags subscribers
// @Accept json
// @Produce json
// @Param request body dto.SubscribeRequest true "Subscription request"
// @Success 200 {object} dto.SubscribeResponse
// @Failure 400 {object} map[string]string "Malformed email"
// @Failure 409 {object} map[string]string "Already subscribed"
// @Router /api/subscribe [post]
func (r *ApiRouter) subscribeHandler(c echo.Context) error {
	var req dto.SubscribeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid request body", err)
	}

	result, err := r.subscribers.Subscribe(c.Request().Context(), req.Email, c.RealIP())
	if err != nil {
		return err
	}

	r.recordSubscribeFunnel(c, req.Email)

	return c.JSON(http.StatusOK, dto.NewSubscribeResponse(*result))
}

// recordSubscribeFunnel marks the session converting; a failed write is
// log-only, the signup already succeeded.
func (r *ApiRouter) recordSubscribeFunnel(c echo.Context, email string) {
	var cookieVal string
	if cookie, err := c.Cookie(sitemw.SessionCookieName); err == nil {
		cookieVal = cookie.Value
	}
	sessionID := analytics.SessionID(cookieVal, c.RealIP(), c.Request().UserAgent(), time.Now())

	step := domain.FunnelStep{
		SessionID: sessionID,
		Step:      domain.FunnelSubscribe,
		Metadata:  fmt.Sprintf(`{"domain":%q}`, subscribers.EmailDomain(email)),
	}
	if err := r.recorder.RecordFunnelStep(c.Request().Context(), step); err != nil {
		slog.Warn("Subscribe funnel tracking failed", "error", err)
	}
}

// subscriberCountHandler godoc
// @Summary Count active subscribers
// @Tags subscribers
// @Produce json
// @Success 200 {object} dto.SubscriberCountResponse
// @Router /api/subscribers/count [get]
func (r *ApiRouter) subscriberCountHandler(c echo.Context) error {
	count, backend, err := r.subscribers.Count(c.Request().Context())
	if err != nil {
		return err
	}
	slog.Debug("Subscriber count served", "backend", backend, "count", count)
	return c.JSON(http.StatusOK, dto.SubscriberCountResponse{Count: count})
}

// subscriberListHandler godoc
// @Summary List subscribers newest first
// @Tags subscribers
// @Produce json
// @Param cursor query string false "Opaque cursor from the previous page"
// @Param size query int false "Page size" default(20)
// @Success 200 {object} pagination.CursorResult[domain.Subscriber]
// @Router /api/subscribers [get]
func (r *ApiRouter) subscriberListHandler(c echo.Context) error {
	var req pagination.CursorRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}

	page, err := r.subscribers.List(c.Request().Context(), req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

// analyticsHandler godoc
// @Summary Visitor overview counters
// @Tags analytics
// @Produce json
// @Param days query int false "Window in days" default(7)
// @Success 200 {object} analytics.Overview
// @Router /api/analytics [get]
func (r *ApiRouter) analyticsHandler(c echo.Context) error {
	days := daysParam(c, defaultOverviewDays)

	overview, err := r.analyzer.Overview(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overview)
}

// analyticsAdvancedHandler godoc
// @Summary Full analytics report
// @Description Composes visitor, funnel, engagement, device and content blocks over the requested window.
// @Tags analytics
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {object} analytics.Report
// @Router /api/analytics/advanced [get]
func (r *ApiRouter) analyticsAdvancedHandler(c echo.Context) error {
	days := daysParam(c, defaultReportDays)

	// The content block is optional: a missing cache drops it, nothing more.
	doc, err := r.cache.Load(c.Request().Context())
	if err != nil {
		doc = nil
	}

	report, err := r.analyzer.Report(c.Request().Context(), days, doc)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// trackEventHandler godoc
// @Summary Record a client interaction event
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body dto.TrackEventRequest true "Event beacon"
// @Success 200 {object} dto.TrackResponse
// @Router /api/track-event [post]
func (r *ApiRouter) trackEventHandler(c echo.Context) error {
	var req dto.TrackEventRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid event payload", err)
	}
	if req.EventType == "" {
		return apperr.NewValidation("event_type is required")
	}

	sessionID := r.resolveSession(c, req.SessionID)
	ctx := c.Request().Context()

	event := domain.Event{
		SessionID: sessionID,
		Type:      req.EventType,
		ElementID: req.ElementID,
		Value:     req.Value,
		PageURL:   req.PageURL,
	}
	if err := r.recorder.RecordEvent(ctx, event); err != nil {
		return err
	}

	if req.FunnelStep != "" {
		step := domain.FunnelStep{SessionID: sessionID, Step: req.FunnelStep}
		if err := r.recorder.RecordFunnelStep(ctx, step); err != nil {
			return err
		}
	}

	return c.JSON(http.StatusOK, dto.TrackResponse{Status: "ok", SessionID: sessionID})
}

// trackSessionHandler godoc
// @Summary Record or advance a browsing session
// @Tags analytics
// @Accept json
// @Produce json
// @Param request body dto.TrackSessionRequest true "Session beacon"
// @Success 200 {object} dto.TrackResponse
// @Router /api/track-session [post]
func (r *ApiRouter) trackSessionHandler(c echo.Context) error {
	var req dto.TrackSessionRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid session payload", err)
	}

	sessionID := r.resolveSession(c, req.SessionID)

	session := domain.Session{
		ID:               sessionID,
		VisitorID:        analytics.HashIP(c.RealIP()),
		TotalPages:       req.TotalPages,
		DurationSeconds:  req.DurationSeconds,
		DeviceType:       req.DeviceType,
		Browser:          req.Browser,
		OS:               req.OS,
		ScreenResolution: req.ScreenResolution,
		ReferrerURL:      req.Referrer,
		LandingPage:      req.LandingPage,
		Active:           req.Active,
	}
	if err := r.recorder.RecordSession(c.Request().Context(), session); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TrackResponse{Status: "ok", SessionID: sessionID})
}

// searchHandler godoc
// @Summary Search articles
// @Tags search
// @Produce json
// @Param q query string true "Query string"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} pagination.OffsetResult[dto.SearchHit]
// @Failure 400 {object} map[string]string "Missing query"
// @Router /api/search [get]
func (r *ApiRouter) searchHandler(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return apperr.NewValidationWrap("invalid search parameters", err)
	}
	if req.Query == "" {
		return apperr.NewValidation("query parameter q is required")
	}
	if err := req.OffsetRequest.Validate(); err != nil {
		return err
	}

	results, err := r.searcher.Search(c.Request().Context(), req.Query, req.OffsetRequest)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, results)
}

// cronUpdateHandler godoc
// @Summary Scheduled content refresh webhook
// @Description Queues a refresh cycle. Requires the shared secret in the X-Cron-Secret header.
// @Tags content
// @Produce json
// @Success 202 {object} map[string]string
// @Failure 401 {object} map[string]string "Bad or missing secret"
// @Router /api/cron/update-content [post]
func (r *ApiRouter) cronUpdateHandler(c echo.Context) error {
	if r.cronSecret == "" {
		return echo.NewHTTPError(http.StatusForbidden, "cron endpoint is not configured")
	}
	if c.Request().Header.Get(CronSecretHeader) != r.cronSecret {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid cron secret")
	}
	return r.queueRefresh(c)
}

// manualUpdateHandler godoc
// @Summary Trigger an immediate content refresh
// @Tags content
// @Produce json
// @Success 202 {object} map[string]string
// @Router /api/manual-update [post]
func (r *ApiRouter) manualUpdateHandler(c echo.Context) error {
	return r.queueRefresh(c)
}

func (r *ApiRouter) queueRefresh(c echo.Context) error {
	if r.refresher == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "content refresh is not available")
	}

	message := "Content refresh started"
	if !r.refresher.Trigger() {
		message = "Content refresh already pending"
	}
	return c.JSON(http.StatusAccepted, map[string]string{
		"status":  "accepted",
		"message": message,
	})
}

// resolveSession prefers the id the client reports, then the cookie, then
// the derived fallback id.
func (r *ApiRouter) resolveSession(c echo.Context, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	var cookieVal string
	if cookie, err := c.Cookie(sitemw.SessionCookieName); err == nil {
		cookieVal = cookie.Value
	}
	return analytics.SessionID(cookieVal, c.RealIP(), c.Request().UserAgent(), time.Now())
}

func daysParam(c echo.Context, fallback int) int {
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil || days < 1 {
		return fallback
	}
	if days > maxReportDays {
		return maxReportDays
	}
	return days
}
