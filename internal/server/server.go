// Package server exposes the site search, the lead forms and the crawler
// endpoints over HTTP.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"

	"github.com/northwind-labs/website/internal/history"
	"github.com/northwind-labs/website/internal/index"
	"github.com/northwind-labs/website/internal/leads"
	"github.com/northwind-labs/website/internal/logger"
	"github.com/northwind-labs/website/internal/search"
	"github.com/northwind-labs/website/internal/sitemap"
)

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' https://challenges.cloudflare.com; " +
	"frame-src https://challenges.cloudflare.com; " +
	"img-src 'self' data:"

// Deps are the collaborators the HTTP layer needs. Store, Searcher, History
// and Leads are required.
type Deps struct {
	Store    *index.Store
	Searcher *search.Searcher
	History  history.Store
	Leads    *leads.Service
	Logger   *slog.Logger

	Locale             language.Tag
	BaseURL            string
	RobotsDisallow     []string
	StaticDir          string
	RateLimitPerMinute int
}

// New builds the router. The sitemap and robots.txt are rendered once since
// the catalog does not change while the process runs.
func New(d Deps) (*echo.Echo, error) {
	if d.Store == nil || d.Searcher == nil || d.History == nil || d.Leads == nil {
		return nil, errors.New("server: missing dependency")
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	log := d.Logger.With("component", "server")

	robots := sitemap.Robots(d.BaseURL, d.RobotsDisallow)
	sm, err := sitemap.Build(d.BaseURL, d.Store.Entries(), robots)
	if err != nil {
		return nil, fmt.Errorf("build sitemap: %w", err)
	}

	h := NewHandlers(d, log, []byte(robots), sm)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: contentSecurityPolicy,
	}))
	e.Use(requestLogger(log))

	api := e.Group("/api")
	api.GET("/search", h.HandleSearch)
	api.GET("/search/full", h.HandleFullSearch)
	api.GET("/search/recent", h.HandleRecent)
	api.GET("/status", h.HandleStatus)

	limit := NewRateLimiter(d.RateLimitPerMinute, time.Minute)
	forms := api.Group("", middleware.BodyLimit("64K"), limit.Middleware())
	forms.POST("/contact", h.HandleContact)
	forms.POST("/newsletter", h.HandleNewsletter)

	e.GET("/healthz", h.HandleHealth)
	e.GET("/robots.txt", h.HandleRobots)
	e.GET("/sitemap.xml", h.HandleSitemap)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if d.StaticDir != "" {
		e.Static("/", d.StaticDir)
	}

	return e, nil
}

func requestLogger(log *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			if v.Error == nil {
				log.DebugContext(ctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				log.WarnContext(ctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	})
}

// errorHandler renders every error as {"error": message}.
func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := http.StatusText(code)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			log.ErrorContext(c.Request().Context(), "request error", "err", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, errorResponse{Error: msg})
		}
		if err != nil {
			log.Error("write error response", "err", err)
		}
	}
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
