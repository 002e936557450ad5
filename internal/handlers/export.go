package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"example.com/roi-estimator/backend/internal/estimator"
)

const (
	exportFormatXLSX = "xlsx"
	exportFormatCSV  = "csv"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type exportRow struct {
	Category string
	Saving   float64
}

// Export выгружает расчет экономии в файл XLSX или CSV.
func (h *EstimateHandler) Export(c echo.Context) error {
	var req EstimateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid payload")
	}

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
	rows := buildExportRows(req, result)

	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if format == "" {
		format = exportFormatXLSX
	}

	switch format {
	case exportFormatCSV:
		payload, err := writeEstimateCSV(rows, response)
		if err != nil {
			return serverError(c)
		}

		filename := "estimate-" + response.EstimateID.String() + ".csv"
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
		return c.Blob(http.StatusOK, "text/csv; charset=utf-8", payload)
	case exportFormatXLSX:
		payload, err := buildEstimateWorkbook(rows, response)
		if err != nil {
			return serverError(c)
		}

		filename := "estimate-" + response.EstimateID.String() + ".xlsx"
		c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
		return c.Blob(http.StatusOK, xlsxContentType, payload)
	default:
		return badRequest(c, "invalid export format")
	}
}

// buildExportRows собирает строки выгрузки только по заполненным категориям.
func buildExportRows(req EstimateRequest, result estimator.Result) []exportRow {
	rows := make([]exportRow, 0, 4)

	if req.Space != nil {
		rows = append(rows, exportRow{Category: string(estimator.CategorySpace), Saving: result.Space})
	}
	if req.Maintenance != nil {
		rows = append(rows, exportRow{Category: string(estimator.CategoryMaintenance), Saving: result.Maintenance})
	}
	if req.Administration != nil {
		rows = append(rows, exportRow{Category: string(estimator.CategoryAdministration), Saving: result.Administration})
	}
	if req.EnergyAssets != nil {
		rows = append(rows, exportRow{Category: string(estimator.CategoryEnergyAssets), Saving: result.EnergyAssets})
	}

	return rows
}

func writeEstimateCSV(rows []exportRow, response EstimateResponse) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"category", "annual_saving", "currency"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			row.Category,
			formatMoney(row.Saving),
			response.Currency,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	total := []string{"Total", formatMoney(response.Total), response.Currency}
	if err := writer.Write(total); err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// roundMoney округляет сумму до двух знаков только при выгрузке.
func roundMoney(value float64) float64 {
	return math.Round(value*100) / 100
}

func formatMoney(value float64) string {
	return strconv.FormatFloat(roundMoney(value), 'f', 2, 64)
}
