package estimator

import (
	"fmt"
	"math"
	"strings"
)

const (
	reasonNegative   = "must not be negative"
	reasonOutOfRange = "out of range [0,100]"
	reasonNotWhole   = "must be a whole number"
	reasonNotFinite  = "must be a finite number"
)

// FieldError описывает одно нарушение: категория, поле и причина.
type FieldError struct {
	Category Category `json:"category"`
	Field    string   `json:"field"`
	Reason   string   `json:"reason"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s.%s: %s", e.Category, e.Field, e.Reason)
}

// ValidationErrors — полный список нарушений одной проверки.
type ValidationErrors []FieldError

func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, violation := range e {
		parts = append(parts, violation.Error())
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// ValidateInput проверяет все включенные категории и возвращает все
// найденные нарушения, не останавливаясь на первом. Выключенные
// категории не проверяются.
func ValidateInput(in Input) ValidationErrors {
	var violations ValidationErrors

	if in.Space != nil {
		violations = appendAmount(violations, CategorySpace, "totalAreaSqm", in.Space.TotalAreaSqm)
		violations = appendAmount(violations, CategorySpace, "annualCostPerSqm", in.Space.AnnualCostPerSqm)
		violations = appendPercent(violations, CategorySpace, "underutilizedPercent", in.Space.UnderutilizedPercent)
	}

	if in.Maintenance != nil {
		violations = appendStaffCount(violations, CategoryMaintenance, in.Maintenance.StaffCount)
		violations = appendAmount(violations, CategoryMaintenance, "avgAnnualSalary", in.Maintenance.AvgAnnualSalary)
		violations = appendPercent(violations, CategoryMaintenance, "reactiveTimePercent", in.Maintenance.ReactiveTimePercent)
		violations = appendAmount(violations, CategoryMaintenance, "annualExternalServiceCost", in.Maintenance.AnnualExternalServiceCost)
	}

	if in.Administration != nil {
		violations = appendStaffCount(violations, CategoryAdministration, in.Administration.StaffCount)
		violations = appendAmount(violations, CategoryAdministration, "avgAnnualSalary", in.Administration.AvgAnnualSalary)
		violations = appendPercent(violations, CategoryAdministration, "manualWorkTimePercent", in.Administration.ManualWorkTimePercent)
	}

	if in.EnergyAssets != nil {
		violations = appendAmount(violations, CategoryEnergyAssets, "annualEnergyCost", in.EnergyAssets.AnnualEnergyCost)
		violations = appendAmount(violations, CategoryEnergyAssets, "assetValue", in.EnergyAssets.AssetValue)
	}

	return violations
}

// ValidateFactors проверяет, что все проценты улучшений лежат в [0,100].
func ValidateFactors(f Factors) ValidationErrors {
	var violations ValidationErrors
	violations = appendPercent(violations, CategoryFactors, "spaceUtilization", f.SpaceUtilization)
	violations = appendPercent(violations, CategoryFactors, "reactiveMaintenanceReduction", f.ReactiveMaintenanceReduction)
	violations = appendPercent(violations, CategoryFactors, "externalMaintenanceOptimization", f.ExternalMaintenanceOptimization)
	violations = appendPercent(violations, CategoryFactors, "manualWorkReduction", f.ManualWorkReduction)
	violations = appendPercent(violations, CategoryFactors, "energySaving", f.EnergySaving)
	violations = appendPercent(violations, CategoryFactors, "assetLossReduction", f.AssetLossReduction)
	return violations
}

func appendAmount(violations ValidationErrors, category Category, field string, value float64) ValidationErrors {
	if !isFinite(value) {
		return append(violations, FieldError{Category: category, Field: field, Reason: reasonNotFinite})
	}
	if value < 0 {
		return append(violations, FieldError{Category: category, Field: field, Reason: reasonNegative})
	}
	return violations
}

func appendPercent(violations ValidationErrors, category Category, field string, value float64) ValidationErrors {
	if !isFinite(value) {
		return append(violations, FieldError{Category: category, Field: field, Reason: reasonNotFinite})
	}
	if value < 0 || value > 100 {
		return append(violations, FieldError{Category: category, Field: field, Reason: reasonOutOfRange})
	}
	return violations
}

func appendStaffCount(violations ValidationErrors, category Category, value float64) ValidationErrors {
	const field = "staffCount"
	if !isFinite(value) {
		return append(violations, FieldError{Category: category, Field: field, Reason: reasonNotFinite})
	}
	if value < 0 {
		return append(violations, FieldError{Category: category, Field: field, Reason: reasonNegative})
	}
	if value != math.Trunc(value) {
		return append(violations, FieldError{Category: category, Field: field, Reason: reasonNotWhole})
	}
	return violations
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
