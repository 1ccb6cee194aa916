package config

import (
	"errors"
	"fmt"
	"os"

	"solar-sizing/internal/model"

	"gopkg.in/yaml.v3"
)

// Defaults returns the built-in assumption set. Callers always receive a
// fresh copy; the engine never mutates a shared instance, so per-request
// overrides cannot leak across requests.
func Defaults() model.Assumptions {
	return model.Assumptions{
		EnergyRatePerKWh:     0.06,
		DemandRatePerKWMonth: 15.0,
		ExportRatePerKWh:     0.04,
		ExportStartYear:      3,

		YieldKWhPerKWp: 1150,
		YieldSource:    model.YieldSourceDefault,

		WiringLoss:         0.02,
		LIDLoss:            0.015,
		MismatchLoss:       0.02,
		StringMismatchLoss: 0.01,
		ModuleQualityGain:  0.01,
		InverterLoadRatio:  1.15,
		SnowLossProfile:    "none",

		DegradationRate: 0.005,
		DiscountRate:    0.06,
		InflationRate:   0.02,
		TaxRate:         0.265,

		OMSolarRate:      0.01,
		OMBatteryRate:    0.015,
		OMEscalationRate: 0.02,

		BatteryCostPerKWh:        350,
		BatteryCostPerKW:         150,
		BatteryReplacementYear:   10,
		BatteryReplacementFactor: 0.60,
		BatteryPriceDecline:      0.04,

		UtilityRebatePerKW:  250,
		UtilityProgramCapKW: 1000,
		UtilityRebateCap:    0.40,
		FederalCreditRate:   0.30,
		DepreciationShare:   0.90,

		Bifacial:            false,
		BifacialPremiumPerW: 0.15,

		RoofAreaM2: 0,
		M2PerKW:    6.5,
	}
}

// Overrides is the caller-facing partial assumption set. Every field is a
// pointer so that an explicit zero (e.g. degradation_rate: 0) is
// distinguishable from "not provided". Shared by the YAML config file and
// the HTTP request body.
type Overrides struct {
	EnergyRatePerKWh     *float64 `yaml:"energy_rate_per_kwh" json:"energy_rate_per_kwh,omitempty"`
	DemandRatePerKWMonth *float64 `yaml:"demand_rate_per_kw_month" json:"demand_rate_per_kw_month,omitempty"`
	ExportRatePerKWh     *float64 `yaml:"export_rate_per_kwh" json:"export_rate_per_kwh,omitempty"`
	ExportStartYear      *int     `yaml:"export_start_year" json:"export_start_year,omitempty"`

	YieldKWhPerKWp *float64 `yaml:"yield_kwh_per_kwp" json:"yield_kwh_per_kwp,omitempty"`
	YieldSource    *string  `yaml:"yield_source" json:"yield_source,omitempty"`

	WiringLoss         *float64 `yaml:"wiring_loss" json:"wiring_loss,omitempty"`
	LIDLoss            *float64 `yaml:"lid_loss" json:"lid_loss,omitempty"`
	MismatchLoss       *float64 `yaml:"mismatch_loss" json:"mismatch_loss,omitempty"`
	StringMismatchLoss *float64 `yaml:"string_mismatch_loss" json:"string_mismatch_loss,omitempty"`
	ModuleQualityGain  *float64 `yaml:"module_quality_gain" json:"module_quality_gain,omitempty"`
	InverterLoadRatio  *float64 `yaml:"inverter_load_ratio" json:"inverter_load_ratio,omitempty"`
	SnowLossProfile    *string  `yaml:"snow_loss_profile" json:"snow_loss_profile,omitempty"`

	DegradationRate *float64 `yaml:"degradation_rate" json:"degradation_rate,omitempty"`
	DiscountRate    *float64 `yaml:"discount_rate" json:"discount_rate,omitempty"`
	InflationRate   *float64 `yaml:"inflation_rate" json:"inflation_rate,omitempty"`
	TaxRate         *float64 `yaml:"tax_rate" json:"tax_rate,omitempty"`

	OMSolarRate      *float64 `yaml:"om_solar_rate" json:"om_solar_rate,omitempty"`
	OMBatteryRate    *float64 `yaml:"om_battery_rate" json:"om_battery_rate,omitempty"`
	OMEscalationRate *float64 `yaml:"om_escalation_rate" json:"om_escalation_rate,omitempty"`

	BatteryCostPerKWh        *float64 `yaml:"battery_cost_per_kwh" json:"battery_cost_per_kwh,omitempty"`
	BatteryCostPerKW         *float64 `yaml:"battery_cost_per_kw" json:"battery_cost_per_kw,omitempty"`
	BatteryReplacementYear   *int     `yaml:"battery_replacement_year" json:"battery_replacement_year,omitempty"`
	BatteryReplacementFactor *float64 `yaml:"battery_replacement_factor" json:"battery_replacement_factor,omitempty"`
	BatteryPriceDecline      *float64 `yaml:"battery_price_decline" json:"battery_price_decline,omitempty"`

	UtilityRebatePerKW  *float64 `yaml:"utility_rebate_per_kw" json:"utility_rebate_per_kw,omitempty"`
	UtilityProgramCapKW *float64 `yaml:"utility_program_cap_kw" json:"utility_program_cap_kw,omitempty"`
	UtilityRebateCap    *float64 `yaml:"utility_rebate_cap" json:"utility_rebate_cap,omitempty"`
	FederalCreditRate   *float64 `yaml:"federal_credit_rate" json:"federal_credit_rate,omitempty"`
	DepreciationShare   *float64 `yaml:"depreciation_share" json:"depreciation_share,omitempty"`

	Bifacial            *bool    `yaml:"bifacial" json:"bifacial,omitempty"`
	BifacialPremiumPerW *float64 `yaml:"bifacial_premium_per_w" json:"bifacial_premium_per_w,omitempty"`

	RoofAreaM2 *float64 `yaml:"roof_area_m2" json:"roof_area_m2,omitempty"`
	M2PerKW    *float64 `yaml:"m2_per_kw" json:"m2_per_kw,omitempty"`
}

// Merge overlays the provided overrides onto base and returns the result.
// base is passed by value and never mutated.
func Merge(base model.Assumptions, o Overrides) model.Assumptions {
	out := base

	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&out.EnergyRatePerKWh, o.EnergyRatePerKWh)
	setF(&out.DemandRatePerKWMonth, o.DemandRatePerKWMonth)
	setF(&out.ExportRatePerKWh, o.ExportRatePerKWh)
	if o.ExportStartYear != nil {
		out.ExportStartYear = *o.ExportStartYear
	}

	setF(&out.YieldKWhPerKWp, o.YieldKWhPerKWp)
	if o.YieldSource != nil {
		out.YieldSource = model.YieldSource(*o.YieldSource)
	}

	setF(&out.WiringLoss, o.WiringLoss)
	setF(&out.LIDLoss, o.LIDLoss)
	setF(&out.MismatchLoss, o.MismatchLoss)
	setF(&out.StringMismatchLoss, o.StringMismatchLoss)
	setF(&out.ModuleQualityGain, o.ModuleQualityGain)
	setF(&out.InverterLoadRatio, o.InverterLoadRatio)
	if o.SnowLossProfile != nil {
		out.SnowLossProfile = *o.SnowLossProfile
	}

	setF(&out.DegradationRate, o.DegradationRate)
	setF(&out.DiscountRate, o.DiscountRate)
	setF(&out.InflationRate, o.InflationRate)
	setF(&out.TaxRate, o.TaxRate)

	setF(&out.OMSolarRate, o.OMSolarRate)
	setF(&out.OMBatteryRate, o.OMBatteryRate)
	setF(&out.OMEscalationRate, o.OMEscalationRate)

	setF(&out.BatteryCostPerKWh, o.BatteryCostPerKWh)
	setF(&out.BatteryCostPerKW, o.BatteryCostPerKW)
	if o.BatteryReplacementYear != nil {
		out.BatteryReplacementYear = *o.BatteryReplacementYear
	}
	setF(&out.BatteryReplacementFactor, o.BatteryReplacementFactor)
	setF(&out.BatteryPriceDecline, o.BatteryPriceDecline)

	setF(&out.UtilityRebatePerKW, o.UtilityRebatePerKW)
	setF(&out.UtilityProgramCapKW, o.UtilityProgramCapKW)
	setF(&out.UtilityRebateCap, o.UtilityRebateCap)
	setF(&out.FederalCreditRate, o.FederalCreditRate)
	setF(&out.DepreciationShare, o.DepreciationShare)

	if o.Bifacial != nil {
		out.Bifacial = *o.Bifacial
	}
	setF(&out.BifacialPremiumPerW, o.BifacialPremiumPerW)

	setF(&out.RoofAreaM2, o.RoofAreaM2)
	setF(&out.M2PerKW, o.M2PerKW)

	return out
}

// File is the on-disk configuration shape (YAML).
type File struct {
	Assumptions Overrides `yaml:"assumptions"`
}

// Load reads a YAML assumptions file, merges it over the defaults and
// validates the result.
func Load(path string) (model.Assumptions, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.Assumptions{}, err
	}
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return model.Assumptions{}, err
	}
	merged := Merge(Defaults(), f.Assumptions)
	if err := Validate(merged); err != nil {
		return model.Assumptions{}, fmt.Errorf("assumptions config invalid: %w", err)
	}
	return merged, nil
}

// Validate rejects assumption sets the engine cannot run with. Numeric
// edge cases inside the valid range degrade to safe defaults downstream;
// this catches the genuinely malformed ones.
func Validate(a model.Assumptions) error {
	if a.YieldKWhPerKWp <= 0 {
		return errors.New("yield_kwh_per_kwp must be > 0")
	}
	switch a.YieldSource {
	case model.YieldSourceGoogle, model.YieldSourceManual, model.YieldSourceDefault:
	default:
		return fmt.Errorf("yield_source must be google|manual|default, got %q", a.YieldSource)
	}
	if a.InverterLoadRatio < 1 {
		return errors.New("inverter_load_ratio must be >= 1")
	}
	if a.DiscountRate <= -1 {
		return errors.New("discount_rate must be > -1")
	}
	if a.UtilityRebateCap < 0 || a.UtilityRebateCap > 1 {
		return errors.New("utility_rebate_cap must be in [0, 1]")
	}
	if a.FederalCreditRate < 0 || a.FederalCreditRate > 1 {
		return errors.New("federal_credit_rate must be in [0, 1]")
	}
	if a.ExportStartYear < 1 || a.ExportStartYear > 30 {
		return errors.New("export_start_year must be in [1, 30]")
	}
	if a.BatteryReplacementYear < 1 || a.BatteryReplacementYear > 30 {
		return errors.New("battery_replacement_year must be in [1, 30]")
	}
	if a.M2PerKW <= 0 {
		return errors.New("m2_per_kw must be > 0")
	}
	return nil
}
