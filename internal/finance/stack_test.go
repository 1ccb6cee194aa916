package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-sizing/internal/config"
	"solar-sizing/internal/model"
)

func TestSolarCapex_Tiers(t *testing.T) {
	a := config.Defaults()
	tests := []struct {
		name    string
		sizeKW  float64
		perWatt float64
	}{
		{"small", 20, 2.75},
		{"mid", 100, 2.40},
		{"large", 250, 2.10},
		{"xl", 500, 1.90},
		{"utility", 800, 1.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.perWatt*tt.sizeKW*1000, SolarCapex(tt.sizeKW, a), 0.01)
		})
	}
}

func TestSolarCapex_BifacialPremium(t *testing.T) {
	a := config.Defaults()
	base := SolarCapex(100, a)
	a.Bifacial = true
	assert.InDelta(t, base+0.15*100*1000, SolarCapex(100, a), 0.01)
}

func TestSolarCapex_ZeroSize(t *testing.T) {
	assert.Zero(t, SolarCapex(0, config.Defaults()))
}

func TestBatteryCapex(t *testing.T) {
	a := config.Defaults()
	assert.InDelta(t, 350*100+150*50, BatteryCapex(100, 50, a), 0.01)
	assert.Zero(t, BatteryCapex(0, 0, a))
}

func TestBuildFinancials_BatteryOnlyGetsNoRebate(t *testing.T) {
	a := config.Defaults()
	sz := model.SystemSizing{BattEnergyKWh: 100, BattPowerKW: 50, DemandSetpointKW: 90}
	sim := model.SimulationResult{PeakAfterKW: 90}

	b, _ := BuildFinancials(sim, 100, sz, a)

	assert.Zero(t, b.RebateSolar)
	assert.Zero(t, b.RebateBattery)
	// The ladder still passes the full cost through to the federal credit.
	assert.InDelta(t, b.CapexGross, b.FederalCreditBasis, 0.01)
	assert.InDelta(t, 0.30*b.CapexGross, b.FederalCredit, 0.01)
}

func TestBuildFinancials_HybridBatteryLegRidesSolarRebate(t *testing.T) {
	a := config.Defaults()
	sz := model.SystemSizing{PVSizeKW: 500, BattEnergyKWh: 100, BattPowerKW: 50, DemandSetpointKW: 180}
	sim := model.SimulationResult{SelfConsumptionKWh: 400000, PeakAfterKW: 180}

	b, _ := BuildFinancials(sim, 200, sz, a)

	assert.InDelta(t, 250*500, b.RebateSolar, 0.01)
	// Plenty of cap room left: the battery leg covers the full battery
	// cost.
	assert.InDelta(t, b.CapexBattery, b.RebateBattery, 0.01)
	assert.LessOrEqual(t, b.RebateSolar+b.RebateBattery, b.RebateCap+1e-6)
}

func TestBuildFinancials_RebateCapBinds(t *testing.T) {
	a := config.Defaults()
	a.UtilityRebatePerKW = 10000
	sz := model.SystemSizing{PVSizeKW: 100}

	b, _ := BuildFinancials(model.SimulationResult{}, 50, sz, a)

	assert.InDelta(t, 0.40*b.CapexGross, b.RebateSolar, 0.01)
	assert.Less(t, b.RebateSolar, b.RebateSolarPotential)
}

func TestBuildFinancials_ProgramCapLimitsRebatedKW(t *testing.T) {
	a := config.Defaults()
	sz := model.SystemSizing{PVSizeKW: 1500}

	b, _ := BuildFinancials(model.SimulationResult{}, 300, sz, a)

	// Only the first 1000 kW earn the per-kW rebate.
	assert.InDelta(t, 250*1000, b.RebateSolarPotential, 0.01)
}

func TestBuildFinancials_IncentiveTiming(t *testing.T) {
	a := config.Defaults()
	sz := model.SystemSizing{PVSizeKW: 300, BattEnergyKWh: 200, BattPowerKW: 100, DemandSetpointKW: 135}
	sim := model.SimulationResult{SelfConsumptionKWh: 250000, ExportedKWh: 50000, PeakAfterKW: 135}

	b, cash := BuildFinancials(sim, 150, sz, a)
	require.Len(t, cash, ProjectionYears+1)

	// Year 0: equity net of the solar rebate and half the battery rebate.
	wantEquity := b.CapexGross - b.RebateSolar - 0.5*b.RebateBattery
	assert.InDelta(t, -wantEquity, cash[0].Investment, 0.01)
	assert.InDelta(t, -wantEquity, cash[0].Cumulative, 0.01)

	// Year 1: depreciation shield plus the second battery-rebate half.
	assert.InDelta(t, b.TaxShield, cash[1].TaxShield, 0.01)
	assert.InDelta(t, 0.5*b.RebateBattery, cash[1].Incentive, 0.01)

	// Year 2: the federal credit monetizes.
	assert.InDelta(t, b.FederalCredit, cash[2].Incentive, 0.01)
	assert.Zero(t, cash[2].TaxShield)
	assert.Zero(t, cash[3].Incentive)
}

func TestBuildFinancials_ExportRevenueStartsAtConfiguredYear(t *testing.T) {
	a := config.Defaults()
	a.InflationRate = 0
	a.DegradationRate = 0
	a.OMEscalationRate = 0
	sz := model.SystemSizing{PVSizeKW: 200}
	sim := model.SimulationResult{SelfConsumptionKWh: 150000, ExportedKWh: 80000}

	_, cash := BuildFinancials(sim, 100, sz, a)

	assert.InDelta(t, cash[1].Revenue, cash[2].Revenue, 0.01)
	assert.InDelta(t, 80000*a.ExportRatePerKWh, cash[3].Revenue-cash[2].Revenue, 0.01)
}

func TestBuildFinancials_ReplacementYears(t *testing.T) {
	a := config.Defaults()
	sz := model.SystemSizing{PVSizeKW: 100, BattEnergyKWh: 100, BattPowerKW: 50, DemandSetpointKW: 90}
	sim := model.SimulationResult{SelfConsumptionKWh: 80000, PeakAfterKW: 90}

	_, cash := BuildFinancials(sim, 100, sz, a)

	for _, y := range []int{10, 20, 30} {
		assert.Negative(t, cash[y].Investment, "year %d", y)
	}
	assert.Zero(t, cash[15].Investment)

	// Solar-only systems have nothing to replace.
	_, solarCash := BuildFinancials(sim, 100, model.SystemSizing{PVSizeKW: 100}, a)
	assert.Zero(t, solarCash[10].Investment)
}

func TestBuildFinancials_ZeroCapexShortCircuits(t *testing.T) {
	b, cash := BuildFinancials(model.SimulationResult{SelfConsumptionKWh: 100000}, 100, model.SystemSizing{}, config.Defaults())

	assert.Equal(t, model.FinancialBreakdown{}, b)
	require.Len(t, cash, ProjectionYears+1)
	for y, e := range cash {
		assert.Equal(t, y, e.Year)
		assert.Zero(t, e.Net)
	}
}

func TestBuildFinancials_DemandSavingsNeverNegative(t *testing.T) {
	a := config.Defaults()
	a.InflationRate = 0
	a.DegradationRate = 0
	sz := model.SystemSizing{PVSizeKW: 100}
	// Post-shave peak above the historical peak must not create a
	// negative revenue component.
	sim := model.SimulationResult{SelfConsumptionKWh: 50000, PeakAfterKW: 120}

	_, cash := BuildFinancials(sim, 100, sz, a)

	assert.InDelta(t, 50000*a.EnergyRatePerKWh, cash[1].Revenue, 0.01)
}

func TestBuildFinancials_CumulativeIsRunningSum(t *testing.T) {
	a := config.Defaults()
	sz := model.SystemSizing{PVSizeKW: 250, BattEnergyKWh: 100, BattPowerKW: 50, DemandSetpointKW: 110}
	sim := model.SimulationResult{SelfConsumptionKWh: 200000, ExportedKWh: 30000, PeakAfterKW: 110}

	_, cash := BuildFinancials(sim, 130, sz, a)

	sum := 0.0
	for _, e := range cash {
		sum += e.Net
		assert.InDelta(t, sum, e.Cumulative, 0.01)
	}
}
