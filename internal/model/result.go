package model

// HourlyFlow is one hour of simulated energy flows, kept for charting.
// BatteryKWh is positive when discharging, negative when charging.
// GridKWh is net import; negative values are exports.
type HourlyFlow struct {
	Month          int     `json:"month"`
	Day            int     `json:"day"`
	Hour           int     `json:"hour"`
	ConsumptionKWh float64 `json:"consumption_kwh"`
	ProductionKWh  float64 `json:"production_kwh"`
	BatteryKWh     float64 `json:"battery_kwh"`
	GridKWh        float64 `json:"grid_kwh"`
	SOCKWh         float64 `json:"soc_kwh"`
	DemandKW       float64 `json:"demand_kw"`
	ShavedDemandKW float64 `json:"shaved_demand_kw"`
}

// SimulationResult is the output of one 8760-hour dispatch simulation.
type SimulationResult struct {
	ProductionKWh      float64
	SelfConsumptionKWh float64
	ExportedKWh        float64
	GridChargedKWh     float64
	ClippingLossKWh    float64
	PeakBeforeKW       float64
	PeakAfterKW        float64
	Hourly             []HourlyFlow
}

// CashflowEntry is one row of the 31-entry annual series. Year 0 holds
// the single negative equity outflow; years 1..30 hold operations.
type CashflowEntry struct {
	Year       int     `json:"year"`
	Revenue    float64 `json:"revenue"`
	Opex       float64 `json:"opex"`
	EBITDA     float64 `json:"ebitda"`
	Investment float64 `json:"investment"` // negative: equity outlay, replacements
	TaxShield  float64 `json:"tax_shield"`
	Incentive  float64 `json:"incentive"`
	Net        float64 `json:"net"`
	Cumulative float64 `json:"cumulative"`
}

// FinancialBreakdown is the incentive ladder, fully unbundled so the
// report layer can show potential vs. granted amounts per leg.
type FinancialBreakdown struct {
	CapexGross   float64 `json:"capex_gross"`
	CapexSolar   float64 `json:"capex_solar"`
	CapexBattery float64 `json:"capex_battery"`

	RebateCap              float64 `json:"rebate_cap"` // 40% of gross
	RebateSolarPotential   float64 `json:"rebate_solar_potential"`
	RebateSolar            float64 `json:"rebate_solar"`
	RebateBatteryPotential float64 `json:"rebate_battery_potential"`
	RebateBattery          float64 `json:"rebate_battery"`

	FederalCreditBasis float64 `json:"federal_credit_basis"`
	FederalCredit      float64 `json:"federal_credit"`

	DepreciableBasis float64 `json:"depreciable_basis"`
	TaxShield        float64 `json:"tax_shield"`

	NetEquity float64 `json:"net_equity"` // year-0 outlay
	NetCapex  float64 `json:"net_capex"`  // gross minus all incentives
}

// FinancialMetrics bundles the ratio metrics computed from one cashflow
// series. PaybackYears is meaningful only when HasPayback is true.
type FinancialMetrics struct {
	NPV10 float64 `json:"npv_10"`
	NPV20 float64 `json:"npv_20"`
	NPV25 float64 `json:"npv_25"`
	NPV30 float64 `json:"npv_30"`

	IRR float64 `json:"irr"`

	PaybackYears int  `json:"payback_years"`
	HasPayback   bool `json:"has_payback"`

	LCOE25 float64 `json:"lcoe_25"`
	LCOE30 float64 `json:"lcoe_30"`
}

// EnergyKPIs is the headline energy/demand block of a result.
// AnnualConsumptionKWh is the sum of the built profile (what every
// simulation consumes); AnnualizedObservedKWh is the 365/span projection
// of the raw readings, kept as a data-quality cross-check.
type EnergyKPIs struct {
	AnnualConsumptionKWh  float64 `json:"annual_consumption_kwh"`
	AnnualizedObservedKWh float64 `json:"annualized_observed_kwh"`
	HistoricalPeakKW      float64 `json:"historical_peak_kw"`

	ProductionKWh      float64 `json:"production_kwh"`
	SelfConsumptionKWh float64 `json:"self_consumption_kwh"`
	ExportedKWh        float64 `json:"exported_kwh"`
	ClippingLossKWh    float64 `json:"clipping_loss_kwh"`

	PeakAfterKW float64 `json:"peak_after_kw"`

	SelfSufficiencyPct     float64 `json:"self_sufficiency_pct"`
	SelfConsumptionRatePct float64 `json:"self_consumption_rate_pct"`
}

// FrontierPoint is one sizing candidate with its full metric set.
// Every point is produced by the same simulate/finance/metrics path as
// the headline calculation, so frontier and KPIs can never disagree.
type FrontierPoint struct {
	Label  string       `json:"label"`
	Sizing SystemSizing `json:"sizing"`
	Type   ScenarioType `json:"type"`

	ProductionKWh      float64 `json:"production_kwh"`
	SelfConsumptionKWh float64 `json:"self_consumption_kwh"`
	ExportedKWh        float64 `json:"exported_kwh"`
	SelfSufficiencyPct float64 `json:"self_sufficiency_pct"`
	PeakAfterKW        float64 `json:"peak_after_kw"`

	CapexGross float64 `json:"capex_gross"`
	NetEquity  float64 `json:"net_equity"`

	Metrics FinancialMetrics `json:"metrics"`

	IsCurrent                bool `json:"is_current"`
	IsOptimalNPV             bool `json:"is_optimal_npv"`
	IsOptimalIRR             bool `json:"is_optimal_irr"`
	IsOptimalSelfSufficiency bool `json:"is_optimal_self_sufficiency"`
}

// LabelCurrentConfig tags the frontier point that mirrors the headline
// configuration byte for byte.
const LabelCurrentConfig = "current-config"

// OptimalScenario is one multi-objective winner.
type OptimalScenario struct {
	Objective string        `json:"objective"` // "npv", "irr", "self-sufficiency"
	Point     FrontierPoint `json:"point"`
}

// AnalysisResult is the full outbound contract of the engine.
type AnalysisResult struct {
	Sizing SystemSizing `json:"sizing"`

	Energy    EnergyKPIs         `json:"energy"`
	Breakdown FinancialBreakdown `json:"breakdown"`
	Cashflows []CashflowEntry    `json:"cashflows"`
	Metrics   FinancialMetrics   `json:"metrics"`

	Hourly   []HourlyFlow `json:"hourly"`
	PeakWeek []HourlyFlow `json:"peak_week"`

	Frontier []FrontierPoint   `json:"frontier"`
	Optimal  []OptimalScenario `json:"optimal"`

	// InterpolatedMonths flags months (1..12) of the profile that were
	// filled from neighbors; the report layer surfaces this to the user.
	InterpolatedMonths []int `json:"interpolated_months"`
}
