// Package estimator считает оценку годовой экономии от внедрения системы
// управления объектами: четыре независимые категории затрат, настраиваемые
// проценты улучшений и агрегированный итог. Все вычисления чистые и
// детерминированные, без состояния и побочных эффектов.
package estimator

// Category идентифицирует одну из областей экономии.
type Category string

const (
	CategorySpace          Category = "Space"
	CategoryMaintenance    Category = "Maintenance"
	CategoryAdministration Category = "Administration"
	CategoryEnergyAssets   Category = "EnergyAndAssets"

	// CategoryFactors используется для нарушений в наборе процентов улучшений.
	CategoryFactors Category = "Factors"
)

// SpaceInput — затраты на площади: общая площадь, годовая стоимость
// квадратного метра и доля недоиспользуемой площади.
type SpaceInput struct {
	TotalAreaSqm         float64
	AnnualCostPerSqm     float64
	UnderutilizedPercent float64
}

// MaintenanceInput — затраты на обслуживание: внутренний персонал и
// внешние сервисные контракты.
type MaintenanceInput struct {
	StaffCount                float64
	AvgAnnualSalary           float64
	ReactiveTimePercent       float64
	AnnualExternalServiceCost float64
}

// AdministrationInput — затраты на администрирование: персонал и доля
// ручной работы.
type AdministrationInput struct {
	StaffCount            float64
	AvgAnnualSalary       float64
	ManualWorkTimePercent float64
}

// EnergyAssetsInput — затраты на энергию и стоимость активов.
type EnergyAssetsInput struct {
	AnnualEnergyCost float64
	AssetValue       float64
}

// Input описывает включенные категории. Nil-блок означает, что категория
// выключена: ее входные данные не проверяются и вклад равен нулю.
type Input struct {
	Space          *SpaceInput
	Maintenance    *MaintenanceInput
	Administration *AdministrationInput
	EnergyAssets   *EnergyAssetsInput
}

// EnabledCategories возвращает список включенных категорий в фиксированном порядке.
func (in Input) EnabledCategories() []Category {
	categories := make([]Category, 0, 4)
	if in.Space != nil {
		categories = append(categories, CategorySpace)
	}
	if in.Maintenance != nil {
		categories = append(categories, CategoryMaintenance)
	}
	if in.Administration != nil {
		categories = append(categories, CategoryAdministration)
	}
	if in.EnergyAssets != nil {
		categories = append(categories, CategoryEnergyAssets)
	}
	return categories
}

// Factors — проценты улучшений по категориям. Значения в шкале 0-100.
type Factors struct {
	SpaceUtilization                float64
	ReactiveMaintenanceReduction    float64
	ExternalMaintenanceOptimization float64
	ManualWorkReduction             float64
	EnergySaving                    float64
	AssetLossReduction              float64
}

// DefaultFactors возвращает базовый набор допущений. Это калибруемые
// значения, а не универсальные константы: вызывающая сторона может
// переопределить любое из них.
func DefaultFactors() Factors {
	return Factors{
		SpaceUtilization:                15,
		ReactiveMaintenanceReduction:    25,
		ExternalMaintenanceOptimization: 10,
		ManualWorkReduction:             30,
		EnergySaving:                    8,
		AssetLossReduction:              3,
	}
}

// Result — экономия по каждой категории (ноль для выключенных) и итог.
type Result struct {
	Space          float64
	Maintenance    float64
	Administration float64
	EnergyAssets   float64
	Total          float64
}

// Estimate проверяет вход и считает экономию по включенным категориям.
// Все нарушения собираются и возвращаются разом как ValidationErrors;
// при любом нарушении результат не вычисляется.
func Estimate(in Input, f Factors) (Result, error) {
	violations := ValidateInput(in)
	violations = append(violations, ValidateFactors(f)...)
	if len(violations) > 0 {
		return Result{}, violations
	}

	result := Result{}
	if in.Space != nil {
		result.Space = spaceSaving(*in.Space, f)
	}
	if in.Maintenance != nil {
		result.Maintenance = maintenanceSaving(*in.Maintenance, f)
	}
	if in.Administration != nil {
		result.Administration = administrationSaving(*in.Administration, f)
	}
	if in.EnergyAssets != nil {
		result.EnergyAssets = energyAssetsSaving(*in.EnergyAssets, f)
	}

	result.Total = result.Space + result.Maintenance + result.Administration + result.EnergyAssets
	return result, nil
}

func spaceSaving(in SpaceInput, f Factors) float64 {
	wastedAreaCost := in.TotalAreaSqm * (in.UnderutilizedPercent / 100) * in.AnnualCostPerSqm
	return wastedAreaCost * (f.SpaceUtilization / 100)
}

func maintenanceSaving(in MaintenanceInput, f Factors) float64 {
	internalWasteCost := in.StaffCount * in.AvgAnnualSalary * (in.ReactiveTimePercent / 100)
	internalSaving := internalWasteCost * (f.ReactiveMaintenanceReduction / 100)
	externalSaving := in.AnnualExternalServiceCost * (f.ExternalMaintenanceOptimization / 100)
	return internalSaving + externalSaving
}

func administrationSaving(in AdministrationInput, f Factors) float64 {
	manualWorkCost := in.StaffCount * in.AvgAnnualSalary * (in.ManualWorkTimePercent / 100)
	return manualWorkCost * (f.ManualWorkReduction / 100)
}

func energyAssetsSaving(in EnergyAssetsInput, f Factors) float64 {
	energySaving := in.AnnualEnergyCost * (f.EnergySaving / 100)
	assetSaving := in.AssetValue * (f.AssetLossReduction / 100)
	return energySaving + assetSaving
}
