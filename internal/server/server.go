package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/roi-estimator/backend/internal/cache"
	"example.com/roi-estimator/backend/internal/cms"
	"example.com/roi-estimator/backend/internal/config"
	"example.com/roi-estimator/backend/internal/events"
	"example.com/roi-estimator/backend/internal/handlers"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, store cache.Store) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	if len(cfg.Server.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.Server.CORSOrigins,
		}))
	}

	eventHub := events.NewHub()

	var cmsClient cms.Client
	switch strings.ToLower(cfg.CMS.Provider) {
	case "contentful":
		cmsClient = cms.NewContentfulClient(cfg.CMS.Token, cfg.CMS.BaseURL, cfg.CMS.SpaceID, cfg.CMS.Environment, cfg.CMS.Timeout, cfg.CMS.PerPage)
	default:
		cmsClient = cms.NewStoryblokClient(cfg.CMS.Token, cfg.CMS.BaseURL, cfg.CMS.Version, cfg.CMS.Timeout, cfg.CMS.PerPage)
	}
	contentService := cms.NewService(cmsClient, store, cfg.Cache.TTL, logger)

	estimateHandler := handlers.NewEstimateHandler(cfg.Estimate.Factors, cfg.Estimate.Currency, eventHub)
	contentHandler := handlers.NewContentHandler(contentService)
	webhookHandler := handlers.NewWebhookHandler(cfg.Webhook.Secret, contentService, eventHub)
	eventHandler := handlers.NewEventHandler(eventHub)
	healthHandler := handlers.NewHealthHandler(store)

	registerRoutes(
		e,
		estimateHandler,
		contentHandler,
		webhookHandler,
		eventHandler,
		healthHandler,
		estimateRateLimiter(cfg.Estimate),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func estimateRateLimiter(cfg config.EstimateConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
