package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/roi-estimator/backend/internal/cache"
)

type HealthHandler struct {
	Cache cache.Store
}

// NewHealthHandler создает обработчик проверки состояния сервиса.
func NewHealthHandler(store cache.Store) *HealthHandler {
	return &HealthHandler{Cache: store}
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// Health возвращает статус сервиса и его зависимостей.
// Недоступный кэш не роняет сервис, поэтому статус остается 200.
func (h *HealthHandler) Health(c echo.Context) error {
	services := map[string]string{}
	status := "ok"

	if err := h.Cache.Ping(c.Request().Context()); err != nil {
		services["cache"] = "unavailable"
		status = "degraded"
	} else {
		services["cache"] = "ok"
	}

	return c.JSON(http.StatusOK, HealthResponse{Status: status, Services: services})
}
