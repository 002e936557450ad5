package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/roi-estimator/backend/internal/estimator"
)

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": message})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid signature"})
}

func serverError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

func validationFailed(c echo.Context, violations estimator.ValidationErrors) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"error":      "validation failed",
		"violations": violations,
	})
}
