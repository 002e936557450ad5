package server

import (
	"github.com/labstack/echo/v4"

	"example.com/roi-estimator/backend/internal/handlers"
)

func registerRoutes(
	e *echo.Echo,
	estimateHandler *handlers.EstimateHandler,
	contentHandler *handlers.ContentHandler,
	webhookHandler *handlers.WebhookHandler,
	eventHandler *handlers.EventHandler,
	healthHandler *handlers.HealthHandler,
	estimateRateLimiter echo.MiddlewareFunc,
) {
	e.GET("/health", healthHandler.Health)

	api := e.Group("/api/v1")

	estimate := api.Group("/estimate", estimateRateLimiter)
	estimate.POST("", estimateHandler.Create)
	estimate.POST("/export", estimateHandler.Export)

	content := api.Group("/content")
	content.GET("/logos", contentHandler.Logos)
	content.GET("/posts", contentHandler.Posts)
	content.GET("/products", contentHandler.Products)
	content.GET("/references", contentHandler.References)

	webhooks := api.Group("/webhooks")
	webhooks.POST("/cms", webhookHandler.HandleCMS)

	eventStream := api.Group("/events")
	eventStream.GET("/stream", eventHandler.Stream)
}
