package model

import "time"

// MeterReading is one raw meter sample as delivered by the upstream
// reconciliation layer. KWh and KW are nil when the source row did not
// carry that channel. Readings may be hourly or finer and may span an
// arbitrary, partial date range.
type MeterReading struct {
	Timestamp time.Time `json:"timestamp"`
	KWh       *float64  `json:"kwh"`
	KW        *float64  `json:"kw"`
}

// HourlyPoint is one row of the canonical 8760-point annual profile.
// The calendar is leap-insensitive (365 days). Once built, the slice is
// treated as immutable by every downstream consumer.
type HourlyPoint struct {
	Month          int     `json:"month"` // 1..12
	Day            int     `json:"day"`   // 1..days-in-month
	Hour           int     `json:"hour"`  // 0..23
	ConsumptionKWh float64 `json:"consumption_kwh"`
	PeakKW         float64 `json:"peak_kw"`
}

// SystemSizing is one candidate design point.
// DemandSetpointKW is derived (~90% of the historical peak) whenever a
// battery is present; it is zero for battery-less candidates.
type SystemSizing struct {
	PVSizeKW         float64 `json:"pv_size_kw"`
	BattEnergyKWh    float64 `json:"batt_energy_kwh"`
	BattPowerKW      float64 `json:"batt_power_kw"`
	DemandSetpointKW float64 `json:"demand_setpoint_kw"`
}

// HasBattery reports whether the candidate includes any storage.
func (s SystemSizing) HasBattery() bool { return s.BattEnergyKWh > 0 && s.BattPowerKW > 0 }

// ScenarioType classifies a candidate by which assets it includes.
// Keep these values stable; they are intended for JSON output.
type ScenarioType string

const (
	ScenarioSolar   ScenarioType = "solar"
	ScenarioBattery ScenarioType = "battery"
	ScenarioHybrid  ScenarioType = "hybrid"
)

// ClassifySizing derives the scenario type strictly from the sizing
// itself, never from a pre-assigned label. A zero/zero candidate falls
// into the battery bucket, matching the reporting convention that
// "battery" means "no PV".
func ClassifySizing(s SystemSizing) ScenarioType {
	switch {
	case s.PVSizeKW > 0 && s.BattEnergyKWh > 0:
		return ScenarioHybrid
	case s.PVSizeKW > 0:
		return ScenarioSolar
	default:
		return ScenarioBattery
	}
}

// YieldSource tags where the kWh/kWp yield figure came from. Google and
// manual figures are already weather-adjusted, so the simulator must not
// apply its temperature derate on top of them.
type YieldSource string

const (
	YieldSourceGoogle  YieldSource = "google"
	YieldSourceManual  YieldSource = "manual"
	YieldSourceDefault YieldSource = "default"
)

// Assumptions is the immutable per-analysis configuration record.
// Percentages are fractions (0.02 = 2%) unless the name says otherwise.
// Defaults live in internal/config; overrides merge over them and the
// merged copy is what flows through the engine.
type Assumptions struct {
	// Tariffs
	EnergyRatePerKWh     float64 `json:"energy_rate_per_kwh"`
	DemandRatePerKWMonth float64 `json:"demand_rate_per_kw_month"`
	ExportRatePerKWh     float64 `json:"export_rate_per_kwh"`
	ExportStartYear      int     `json:"export_start_year"`

	// Solar yield
	YieldKWhPerKWp float64     `json:"yield_kwh_per_kwp"`
	YieldSource    YieldSource `json:"yield_source"`

	// System losses
	WiringLoss         float64 `json:"wiring_loss"`
	LIDLoss            float64 `json:"lid_loss"`
	MismatchLoss       float64 `json:"mismatch_loss"`
	StringMismatchLoss float64 `json:"string_mismatch_loss"`
	ModuleQualityGain  float64 `json:"module_quality_gain"`
	InverterLoadRatio  float64 `json:"inverter_load_ratio"`
	SnowLossProfile    string  `json:"snow_loss_profile"`

	// Financial rates
	DegradationRate float64 `json:"degradation_rate"`
	DiscountRate    float64 `json:"discount_rate"`
	InflationRate   float64 `json:"inflation_rate"`
	TaxRate         float64 `json:"tax_rate"`

	// O&M, as fractions of the respective CAPEX per year
	OMSolarRate      float64 `json:"om_solar_rate"`
	OMBatteryRate    float64 `json:"om_battery_rate"`
	OMEscalationRate float64 `json:"om_escalation_rate"`

	// Battery economics
	BatteryCostPerKWh        float64 `json:"battery_cost_per_kwh"`
	BatteryCostPerKW         float64 `json:"battery_cost_per_kw"`
	BatteryReplacementYear   int     `json:"battery_replacement_year"`
	BatteryReplacementFactor float64 `json:"battery_replacement_factor"`
	BatteryPriceDecline      float64 `json:"battery_price_decline"`

	// Incentives. UtilityRebateCap is a fraction of gross CAPEX;
	// DepreciationShare is the depreciable share of the remaining basis.
	UtilityRebatePerKW  float64 `json:"utility_rebate_per_kw"`
	UtilityProgramCapKW float64 `json:"utility_program_cap_kw"`
	UtilityRebateCap    float64 `json:"utility_rebate_cap"`
	FederalCreditRate   float64 `json:"federal_credit_rate"`
	DepreciationShare   float64 `json:"depreciation_share"`

	// Hardware options
	Bifacial            bool    `json:"bifacial"`
	BifacialPremiumPerW float64 `json:"bifacial_premium_per_w"`

	// Roof ceiling
	RoofAreaM2 float64 `json:"roof_area_m2"`
	M2PerKW    float64 `json:"m2_per_kw"`
}
