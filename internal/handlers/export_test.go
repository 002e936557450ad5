package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"example.com/roi-estimator/backend/internal/estimator"
)

// TestEstimateExportCSV проверяет выгрузку расчета в CSV.
func TestEstimateExportCSV(t *testing.T) {
	body := `{"space":{"totalAreaSqm":1000,"annualCostPerSqm":200,"underutilizedPercent":30}}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/estimate/export?format=csv", body)

	handler := newTestEstimateHandler()
	if err := handler.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), "text/csv") {
		t.Fatalf("unexpected content type: %s", rec.Header().Get(echo.HeaderContentType))
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), ".csv") {
		t.Fatalf("unexpected content disposition: %s", rec.Header().Get("Content-Disposition"))
	}

	records, err := csv.NewReader(bytes.NewReader(rec.Body.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Заголовок, строка Space и строка Total.
	if len(records) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(records))
	}
	if records[1][0] != "Space" || records[1][1] != "9000.00" || records[1][2] != "EUR" {
		t.Fatalf("unexpected space row: %v", records[1])
	}
	if records[2][0] != "Total" || records[2][1] != "9000.00" {
		t.Fatalf("unexpected total row: %v", records[2])
	}
}

// TestEstimateExportXLSX проверяет выгрузку расчета в XLSX.
func TestEstimateExportXLSX(t *testing.T) {
	body := `{"space":{"totalAreaSqm":1000,"annualCostPerSqm":200,"underutilizedPercent":30},"energyAndAssets":{"annualEnergyCost":100000,"assetValue":500000}}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/estimate/export", body)

	handler := newTestEstimateHandler()
	if err := handler.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderContentType) != xlsxContentType {
		t.Fatalf("unexpected content type: %s", rec.Header().Get(echo.HeaderContentType))
	}

	workbook, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer workbook.Close()

	header, err := workbook.GetCellValue(estimateSheetName, "A1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != "Category" {
		t.Fatalf("expected Category header, got %s", header)
	}

	first, err := workbook.GetCellValue(estimateSheetName, "A2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != "Space" {
		t.Fatalf("expected Space row, got %s", first)
	}

	total, err := workbook.GetCellValue(estimateSheetName, "A4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != "Total" {
		t.Fatalf("expected Total row, got %s", total)
	}
}

// TestEstimateExportInvalidFormat проверяет отказ на неизвестном формате.
func TestEstimateExportInvalidFormat(t *testing.T) {
	body := `{"space":{"totalAreaSqm":1000,"annualCostPerSqm":200,"underutilizedPercent":30}}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/estimate/export?format=pdf", body)

	handler := newTestEstimateHandler()
	if err := handler.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

// TestEstimateExportViolations проверяет, что выгрузка тоже валидирует вход.
func TestEstimateExportViolations(t *testing.T) {
	body := `{"maintenance":{"staffCount":2.5,"avgAnnualSalary":45000,"reactiveTimePercent":60,"annualExternalServiceCost":100000}}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/estimate/export?format=csv", body)

	handler := newTestEstimateHandler()
	if err := handler.Export(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "must be a whole number") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

// TestBuildExportRows проверяет строки выгрузки только для заполненных категорий.
func TestBuildExportRows(t *testing.T) {
	req := EstimateRequest{
		Space:        &SpaceRequest{},
		EnergyAssets: &EnergyAssetsRequest{},
	}
	result := estimator.Result{Space: 100, EnergyAssets: 200, Total: 300}

	rows := buildExportRows(req, result)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Category != string(estimator.CategorySpace) || rows[0].Saving != 100 {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Category != string(estimator.CategoryEnergyAssets) || rows[1].Saving != 200 {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

// TestFormatMoney проверяет округление сумм до двух знаков при выгрузке.
func TestFormatMoney(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{9000, "9000.00"},
		{1234.567, "1234.57"},
		{0.005, "0.01"},
		{0, "0.00"},
	}

	for _, tc := range cases {
		if got := formatMoney(tc.value); got != tc.want {
			t.Fatalf("formatMoney(%v): expected %s, got %s", tc.value, tc.want, got)
		}
	}
}
