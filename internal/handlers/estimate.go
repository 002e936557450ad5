package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/roi-estimator/backend/internal/estimator"
	"example.com/roi-estimator/backend/internal/events"
)

type EstimateHandler struct {
	Factors  estimator.Factors
	Currency string
	Events   *events.Hub
}

// NewEstimateHandler создает обработчик расчета экономии.
func NewEstimateHandler(factors estimator.Factors, currency string, hub *events.Hub) *EstimateHandler {
	return &EstimateHandler{Factors: factors, Currency: currency, Events: hub}
}

type SpaceRequest struct {
	TotalAreaSqm         float64 `json:"totalAreaSqm"`
	AnnualCostPerSqm     float64 `json:"annualCostPerSqm"`
	UnderutilizedPercent float64 `json:"underutilizedPercent"`
}

type MaintenanceRequest struct {
	StaffCount                float64 `json:"staffCount"`
	AvgAnnualSalary           float64 `json:"avgAnnualSalary"`
	ReactiveTimePercent       float64 `json:"reactiveTimePercent"`
	AnnualExternalServiceCost float64 `json:"annualExternalServiceCost"`
}

type AdministrationRequest struct {
	StaffCount            float64 `json:"staffCount"`
	AvgAnnualSalary       float64 `json:"avgAnnualSalary"`
	ManualWorkTimePercent float64 `json:"manualWorkTimePercent"`
}

type EnergyAssetsRequest struct {
	AnnualEnergyCost float64 `json:"annualEnergyCost"`
	AssetValue       float64 `json:"assetValue"`
}

type EstimateRequest struct {
	Currency       string                 `json:"currency" validate:"omitempty,iso4217"`
	Space          *SpaceRequest          `json:"space"`
	Maintenance    *MaintenanceRequest    `json:"maintenance"`
	Administration *AdministrationRequest `json:"administration"`
	EnergyAssets   *EnergyAssetsRequest   `json:"energyAndAssets"`
}

type SavingsResponse struct {
	Space          float64 `json:"space"`
	Maintenance    float64 `json:"maintenance"`
	Administration float64 `json:"administration"`
	EnergyAssets   float64 `json:"energyAndAssets"`
}

type EstimateResponse struct {
	EstimateID uuid.UUID       `json:"estimateId"`
	Currency   string          `json:"currency"`
	Savings    SavingsResponse `json:"savings"`
	Total      float64         `json:"total"`
}

// Create рассчитывает годовую экономию по заполненным категориям.
func (h *EstimateHandler) Create(c echo.Context) error {
	var req EstimateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

	// Код валюты нормализуется до проверки iso4217.
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := c.Validate(&req); err != nil {
		return badRequest(c, "invalid currency")
	}

	result, err := estimator.Estimate(toEstimatorInput(req), h.Factors)
	if err != nil {
		var violations estimator.ValidationErrors
		if errors.As(err, &violations) {
			return validationFailed(c, violations)
		}
		return serverError(c)
	}

	response := buildEstimateResponse(req, result, h.Currency)
	publishEstimateCreated(h.Events, response)

	return c.JSON(http.StatusOK, response)
}

func toEstimatorInput(req EstimateRequest) estimator.Input {
	var input estimator.Input

	if req.Space != nil {
		input.Space = &estimator.SpaceInput{
			TotalAreaSqm:         req.Space.TotalAreaSqm,
			AnnualCostPerSqm:     req.Space.AnnualCostPerSqm,
			UnderutilizedPercent: req.Space.UnderutilizedPercent,
		}
	}
	if req.Maintenance != nil {
		input.Maintenance = &estimator.MaintenanceInput{
			StaffCount:                req.Maintenance.StaffCount,
			AvgAnnualSalary:           req.Maintenance.AvgAnnualSalary,
			ReactiveTimePercent:       req.Maintenance.ReactiveTimePercent,
			AnnualExternalServiceCost: req.Maintenance.AnnualExternalServiceCost,
		}
	}
	if req.Administration != nil {
		input.Administration = &estimator.AdministrationInput{
			StaffCount:            req.Administration.StaffCount,
			AvgAnnualSalary:       req.Administration.AvgAnnualSalary,
			ManualWorkTimePercent: req.Administration.ManualWorkTimePercent,
		}
	}
	if req.EnergyAssets != nil {
		input.EnergyAssets = &estimator.EnergyAssetsInput{
			AnnualEnergyCost: req.EnergyAssets.AnnualEnergyCost,
			AssetValue:       req.EnergyAssets.AssetValue,
		}
	}

	return input
}

func buildEstimateResponse(req EstimateRequest, result estimator.Result, defaultCurrency string) EstimateResponse {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = strings.ToUpper(defaultCurrency)
	}

	return EstimateResponse{
		EstimateID: uuid.New(),
		Currency:   currency,
		Savings: SavingsResponse{
			Space:          result.Space,
			Maintenance:    result.Maintenance,
			Administration: result.Administration,
			EnergyAssets:   result.EnergyAssets,
		},
		Total: result.Total,
	}
}

func publishEstimateCreated(hub *events.Hub, response EstimateResponse) {
	if hub == nil {
		return
	}

	hub.Publish(events.Event{
		Type: events.TypeEstimateCreated,
		Data: map[string]interface{}{
			"estimateId": response.EstimateID.String(),
			"total":      response.Total,
			"currency":   response.Currency,
		},
	})
}
