package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	mw "github.com/torqlabs/torq-news/internal/apperr"
	sitemw "github.com/torqlabs/torq-news/internal/middleware"
	pkgserver "github.com/torqlabs/torq-news/pkg/server"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
)

// Server wraps echo with the site's middleware, error handling, health
// checks and swagger docs. Setup methods chain so main reads as one
// builder expression.
type Server struct {
	Echo *echo.Echo

	cfg           *Config
	healthChecker pkgserver.HealthChecker

	ctx        context.Context
	stopNotify context.CancelFunc
	shutdownCh chan struct{}
}

func New(cfg *Config, healthChecker pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.DisableHTTP2 = !cfg.UseHttp2

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &Server{
		Echo:          e,
		cfg:           cfg,
		healthChecker: healthChecker,
		ctx:           ctx,
		stopNotify:    stop,
		shutdownCh:    make(chan struct{}),
	}
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(sitemw.Logger(sitemw.WithSkipper(func(c echo.Context) bool {
		// Static assets drown out the request log.
		return len(c.Path()) >= 8 && c.Path()[:8] == "/static/"
	})))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
	}))
	return s
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = mw.GlobalErrorHandler()
	return s
}

func (s *Server) SetupHealthChecks(path string) *Server {
	s.Echo.GET(path, func(c echo.Context) error {
		type reporter interface {
			Report(ctx context.Context) map[string]bool
		}

		body := map[string]any{"status": "ok"}
		healthy := s.healthChecker.Healthy(c.Request().Context())
		if r, ok := s.healthChecker.(reporter); ok {
			body["checks"] = r.Report(c.Request().Context())
		}

		if !healthy {
			body["status"] = "degraded"
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		return c.JSON(http.StatusOK, body)
	})
	return s
}

func (s *Server) SetupOpenApi(path string) *Server {
	s.Echo.GET(path, echoSwagger.WrapHandler)
	return s
}

// Context is alive until a shutdown signal arrives. Resources whose
// lifetime matches the server bind to it.
func (s *Server) Context() context.Context {
	return s.ctx
}

// ShutdownSignal closes once shutdown starts, before the listener drains.
func (s *Server) ShutdownSignal() <-chan struct{} {
	return s.shutdownCh
}

func (s *Server) Start() error {
	defer s.stopNotify()

	errCh := make(chan error, 1)
	go func() {
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		close(s.shutdownCh)
		return err
	case <-s.ctx.Done():
	}

	close(s.shutdownCh)

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	return s.Echo.Shutdown(ctx)
}
