package handlers

import (
	"bytes"

	"github.com/xuri/excelize/v2"
)

const estimateSheetName = "Savings"

var estimateExportHeader = []string{"Category", "Annual Saving", "Currency"}

// buildEstimateWorkbook собирает XLSX-файл с расчетом экономии.
func buildEstimateWorkbook(rows []exportRow, response EstimateResponse) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(estimateSheetName)
	if err != nil {
		f.Close()
		return nil, err
	}

	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	for col, header := range estimateExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(estimateSheetName, cell, header); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(estimateSheetName, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(estimateSheetName, "A", "A", 22); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(estimateSheetName, "B", "C", 16); err != nil {
		f.Close()
		return nil, err
	}

	line := 2
	for _, row := range rows {
		if err := setEstimateRow(f, line, row.Category, roundMoney(row.Saving), response.Currency); err != nil {
			f.Close()
			return nil, err
		}
		line++
	}

	totalStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := setEstimateRow(f, line, "Total", roundMoney(response.Total), response.Currency); err != nil {
		f.Close()
		return nil, err
	}

	start, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		f.Close()
		return nil, err
	}
	end, err := excelize.CoordinatesToCellName(len(estimateExportHeader), line)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(estimateSheetName, start, end, totalStyle); err != nil {
		f.Close()
		return nil, err
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, err
	}

	if err := f.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func setEstimateRow(f *excelize.File, row int, category string, saving float64, currency string) error {
	values := []interface{}{category, saving, currency}

	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(estimateSheetName, cell, value); err != nil {
			return err
		}
	}

	return nil
}
