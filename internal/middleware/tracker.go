package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/torqlabs/torq-news/internal/analytics"
	"github.com/torqlabs/torq-news/internal/domain"
)

const (
	// SessionCookieName is the browser cookie carrying the visitor session id.
	SessionCookieName = "session_id"
	// ContextSessionKey is where the resolved session id lives on the echo context.
	ContextSessionKey = "session_id"

	sessionMaxAge = 30 * 24 * time.Hour
	trackTimeout  = 5 * time.Second
)

// Tracker records a visitor row for every page render and assigns the
// session cookie when the browser does not present one. Writes happen off
// the request path; a failed write is logged and the page still renders.
func Tracker(rec *analytics.Recorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			var cookieVal string
			if cookie, err := c.Cookie(SessionCookieName); err == nil {
				cookieVal = cookie.Value
			}
			sessionID := analytics.SessionID(cookieVal, c.RealIP(), req.UserAgent(), time.Now())
			c.Set(ContextSessionKey, sessionID)

			if cookieVal == "" {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID,
					Path:     "/",
					MaxAge:   int(sessionMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			visit := domain.Visit{
				IPHash:    analytics.HashIP(c.RealIP()),
				UserAgent: req.UserAgent(),
				PageURL:   req.URL.Path,
				SessionID: sessionID,
				VisitedAt: time.Now().UTC(),
			}
			step := funnelStepFor(req.URL.Path)

			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
				defer cancel()
				if err := rec.RecordVisit(ctx, visit); err != nil {
					slog.Warn("Visitor tracking failed", "error", err, "page", visit.PageURL)
					return
				}
				if step == "" {
					return
				}
				if err := rec.RecordFunnelStep(ctx, domain.FunnelStep{SessionID: sessionID, Step: step}); err != nil {
					slog.Warn("Funnel tracking failed", "error", err, "step", step)
				}
			}()

			return next(c)
		}
	}
}

// SessionFromContext returns the session id the tracker resolved, or "".
func SessionFromContext(c echo.Context) string {
	if id, ok := c.Get(ContextSessionKey).(string); ok {
		return id
	}
	return ""
}

func funnelStepFor(path string) string {
	switch {
	case path == "/":
		return domain.FunnelHomepage
	case strings.HasPrefix(path, "/article/"):
		return domain.FunnelArticleView
	}
	return ""
}
