package estimator

import (
	"math"
	"testing"
)

func closeTo(got, want float64) bool {
	tolerance := 1e-9 * math.Max(1, math.Abs(want))
	return math.Abs(got-want) <= tolerance
}

// TestDefaultFactors проверяет базовый набор допущений.
func TestDefaultFactors(t *testing.T) {
	f := DefaultFactors()

	if f.SpaceUtilization != 15 {
		t.Fatalf("expected space utilization 15, got %v", f.SpaceUtilization)
	}
	if f.ReactiveMaintenanceReduction != 25 {
		t.Fatalf("expected reactive maintenance reduction 25, got %v", f.ReactiveMaintenanceReduction)
	}
	if f.ExternalMaintenanceOptimization != 10 {
		t.Fatalf("expected external maintenance optimization 10, got %v", f.ExternalMaintenanceOptimization)
	}
	if f.ManualWorkReduction != 30 {
		t.Fatalf("expected manual work reduction 30, got %v", f.ManualWorkReduction)
	}
	if f.EnergySaving != 8 {
		t.Fatalf("expected energy saving 8, got %v", f.EnergySaving)
	}
	if f.AssetLossReduction != 3 {
		t.Fatalf("expected asset loss reduction 3, got %v", f.AssetLossReduction)
	}
}

// TestEstimateSpaceOnly проверяет расчет экономии только по площадям.
func TestEstimateSpaceOnly(t *testing.T) {
	in := Input{
		Space: &SpaceInput{
			TotalAreaSqm:         1000,
			AnnualCostPerSqm:     150,
			UnderutilizedPercent: 20,
		},
	}

	result, err := Estimate(in, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// wastedAreaCost = 1000 x 0.20 x 150 = 30000; saving = 30000 x 0.15 = 4500.
	if !closeTo(result.Space, 4500) {
		t.Fatalf("expected space saving 4500, got %v", result.Space)
	}
	if !closeTo(result.Total, 4500) {
		t.Fatalf("expected total 4500, got %v", result.Total)
	}
	if result.Maintenance != 0 || result.Administration != 0 || result.EnergyAssets != 0 {
		t.Fatalf("expected zero savings for disabled categories, got %+v", result)
	}
}

// TestEstimateMaintenanceOnly проверяет обе части экономии на обслуживании.
func TestEstimateMaintenanceOnly(t *testing.T) {
	in := Input{
		Maintenance: &MaintenanceInput{
			StaffCount:                5,
			AvgAnnualSalary:           30000,
			ReactiveTimePercent:       40,
			AnnualExternalServiceCost: 20000,
		},
	}

	result, err := Estimate(in, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// internal: 5 x 30000 x 0.40 x 0.25 = 15000; external: 20000 x 0.10 = 2000.
	if !closeTo(result.Maintenance, 17000) {
		t.Fatalf("expected maintenance saving 17000, got %v", result.Maintenance)
	}
	if !closeTo(result.Total, 17000) {
		t.Fatalf("expected total 17000, got %v", result.Total)
	}
}

// TestEstimateAdministrationOnly проверяет расчет по администрированию.
func TestEstimateAdministrationOnly(t *testing.T) {
	in := Input{
		Administration: &AdministrationInput{
			StaffCount:            3,
			AvgAnnualSalary:       40000,
			ManualWorkTimePercent: 50,
		},
	}

	result, err := Estimate(in, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// manualWorkCost = 3 x 40000 x 0.50 = 60000; saving = 60000 x 0.30 = 18000.
	if !closeTo(result.Administration, 18000) {
		t.Fatalf("expected administration saving 18000, got %v", result.Administration)
	}
}

// TestEstimateEnergyAssetsOnly проверяет обе части экономии на энергии и активах.
func TestEstimateEnergyAssetsOnly(t *testing.T) {
	in := Input{
		EnergyAssets: &EnergyAssetsInput{
			AnnualEnergyCost: 100000,
			AssetValue:       500000,
		},
	}

	result, err := Estimate(in, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// energy: 100000 x 0.08 = 8000; assets: 500000 x 0.03 = 15000.
	if !closeTo(result.EnergyAssets, 23000) {
		t.Fatalf("expected energy and assets saving 23000, got %v", result.EnergyAssets)
	}
}

// TestEstimateAllDisabled проверяет пустой вход: ноль без ошибок.
func TestEstimateAllDisabled(t *testing.T) {
	result, err := Estimate(Input{}, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Total != 0 {
		t.Fatalf("expected zero total, got %v", result.Total)
	}
	if result.Space != 0 || result.Maintenance != 0 || result.Administration != 0 || result.EnergyAssets != 0 {
		t.Fatalf("expected all-zero breakdown, got %+v", result)
	}
}

func fullInput() Input {
	return Input{
		Space: &SpaceInput{
			TotalAreaSqm:         1000,
			AnnualCostPerSqm:     150,
			UnderutilizedPercent: 20,
		},
		Maintenance: &MaintenanceInput{
			StaffCount:                5,
			AvgAnnualSalary:           30000,
			ReactiveTimePercent:       40,
			AnnualExternalServiceCost: 20000,
		},
		Administration: &AdministrationInput{
			StaffCount:            3,
			AvgAnnualSalary:       40000,
			ManualWorkTimePercent: 50,
		},
		EnergyAssets: &EnergyAssetsInput{
			AnnualEnergyCost: 100000,
			AssetValue:       500000,
		},
	}
}

// TestEstimateTotalIsSumOfEnabled проверяет, что итог равен сумме включенных категорий.
func TestEstimateTotalIsSumOfEnabled(t *testing.T) {
	result, err := Estimate(fullInput(), DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	sum := result.Space + result.Maintenance + result.Administration + result.EnergyAssets
	if !closeTo(result.Total, sum) {
		t.Fatalf("expected total %v, got %v", sum, result.Total)
	}
	if !closeTo(result.Total, 4500+17000+18000+23000) {
		t.Fatalf("expected total 62500, got %v", result.Total)
	}
}

// TestEstimateDisablingRemovesExactlyOneContribution проверяет идемпотентность отключения категории.
func TestEstimateDisablingRemovesExactlyOneContribution(t *testing.T) {
	full, err := Estimate(fullInput(), DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	in := fullInput()
	in.Maintenance = nil

	partial, err := Estimate(in, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if partial.Maintenance != 0 {
		t.Fatalf("expected zero maintenance saving, got %v", partial.Maintenance)
	}
	if !closeTo(partial.Total, full.Total-full.Maintenance) {
		t.Fatalf("expected total %v, got %v", full.Total-full.Maintenance, partial.Total)
	}
}

// TestEstimateZeroInputs проверяет нулевую экономию при нулевых затратах.
func TestEstimateZeroInputs(t *testing.T) {
	in := Input{
		Space: &SpaceInput{
			TotalAreaSqm:         0,
			AnnualCostPerSqm:     0,
			UnderutilizedPercent: 80,
		},
		EnergyAssets: &EnergyAssetsInput{},
	}

	result, err := Estimate(in, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Total != 0 {
		t.Fatalf("expected zero total, got %v", result.Total)
	}
}

// TestEstimateBoundaryPercents проверяет, что 0 и 100 принимаются.
func TestEstimateBoundaryPercents(t *testing.T) {
	for _, percent := range []float64{0, 100} {
		in := Input{
			Space: &SpaceInput{
				TotalAreaSqm:         100,
				AnnualCostPerSqm:     10,
				UnderutilizedPercent: percent,
			},
		}

		result, err := Estimate(in, DefaultFactors())
		if err != nil {
			t.Fatalf("expected %v to be accepted, got %v", percent, err)
		}

		want := 100 * (percent / 100) * 10 * 0.15
		if !closeTo(result.Space, want) {
			t.Fatalf("expected saving %v for percent %v, got %v", want, percent, result.Space)
		}
	}
}

// TestEstimateDeterminism проверяет повторяемость результата.
func TestEstimateDeterminism(t *testing.T) {
	first, err := Estimate(fullInput(), DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	second, err := Estimate(fullInput(), DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if first != second {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

// TestEstimateMonotonicity проверяет, что рост любого входа не уменьшает экономию категории.
func TestEstimateMonotonicity(t *testing.T) {
	base := fullInput()
	baseResult, err := Estimate(base, DefaultFactors())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	bumps := []struct {
		name  string
		apply func(in *Input)
		pick  func(r Result) float64
	}{
		{"space area", func(in *Input) { in.Space.TotalAreaSqm += 500 }, func(r Result) float64 { return r.Space }},
		{"space cost", func(in *Input) { in.Space.AnnualCostPerSqm += 50 }, func(r Result) float64 { return r.Space }},
		{"space underutilized", func(in *Input) { in.Space.UnderutilizedPercent += 10 }, func(r Result) float64 { return r.Space }},
		{"maintenance staff", func(in *Input) { in.Maintenance.StaffCount += 2 }, func(r Result) float64 { return r.Maintenance }},
		{"maintenance salary", func(in *Input) { in.Maintenance.AvgAnnualSalary += 5000 }, func(r Result) float64 { return r.Maintenance }},
		{"maintenance reactive", func(in *Input) { in.Maintenance.ReactiveTimePercent += 10 }, func(r Result) float64 { return r.Maintenance }},
		{"maintenance external", func(in *Input) { in.Maintenance.AnnualExternalServiceCost += 1000 }, func(r Result) float64 { return r.Maintenance }},
		{"administration staff", func(in *Input) { in.Administration.StaffCount += 1 }, func(r Result) float64 { return r.Administration }},
		{"administration manual", func(in *Input) { in.Administration.ManualWorkTimePercent += 10 }, func(r Result) float64 { return r.Administration }},
		{"energy cost", func(in *Input) { in.EnergyAssets.AnnualEnergyCost += 10000 }, func(r Result) float64 { return r.EnergyAssets }},
		{"asset value", func(in *Input) { in.EnergyAssets.AssetValue += 10000 }, func(r Result) float64 { return r.EnergyAssets }},
	}

	for _, bump := range bumps {
		in := fullInput()
		bump.apply(&in)

		result, err := Estimate(in, DefaultFactors())
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", bump.name, err)
		}

		if bump.pick(result) < bump.pick(baseResult) {
			t.Fatalf("%s: expected saving not to decrease, got %v -> %v", bump.name, bump.pick(baseResult), bump.pick(result))
		}
	}
}

// TestEstimateNeverNegative проверяет, что экономия неотрицательна на валидном входе.
func TestEstimateNeverNegative(t *testing.T) {
	result, err := Estimate(fullInput(), Factors{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if result.Space < 0 || result.Maintenance < 0 || result.Administration < 0 || result.EnergyAssets < 0 || result.Total < 0 {
		t.Fatalf("expected non-negative savings, got %+v", result)
	}
}

// TestEnabledCategories проверяет список включенных категорий.
func TestEnabledCategories(t *testing.T) {
	in := Input{
		Space:        &SpaceInput{},
		EnergyAssets: &EnergyAssetsInput{},
	}

	got := in.EnabledCategories()
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if got[0] != CategorySpace || got[1] != CategoryEnergyAssets {
		t.Fatalf("unexpected categories: %v", got)
	}

	if len((Input{}).EnabledCategories()) != 0 {
		t.Fatal("expected no categories for empty input")
	}
}
