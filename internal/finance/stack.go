package finance

import (
	"math"

	"solar-sizing/internal/model"
)

// ProjectionYears is the operating horizon; the cashflow series carries
// ProjectionYears+1 entries with year 0 holding the equity outlay.
const ProjectionYears = 30

// BuildFinancials converts simulator outputs and assumptions into the
// incentive breakdown and the 31-entry annual cashflow series. This is
// the single financial path: the headline calculation, the optimum
// recalculation and every sensitivity sweep point all go through here.
func BuildFinancials(sim model.SimulationResult, peakKW float64, sz model.SystemSizing, a model.Assumptions) (model.FinancialBreakdown, []model.CashflowEntry) {
	capexSolar := SolarCapex(sz.PVSizeKW, a)
	capexBattery := BatteryCapex(sz.BattEnergyKWh, sz.BattPowerKW, a)
	gross := capexSolar + capexBattery

	// Zero CAPEX short-circuits the whole stack; downstream metrics then
	// see an all-zero series instead of dividing by zero.
	if gross <= 0 {
		return model.FinancialBreakdown{}, zeroCashflows()
	}

	b := model.FinancialBreakdown{
		CapexGross:   gross,
		CapexSolar:   capexSolar,
		CapexBattery: capexBattery,
		RebateCap:    a.UtilityRebateCap * gross,
	}

	// Incentive ladder. Order matters: each step consumes the previous
	// step's leftover room.
	b.RebateSolarPotential = a.UtilityRebatePerKW * math.Min(sz.PVSizeKW, a.UtilityProgramCapKW)
	b.RebateSolar = math.Min(b.RebateSolarPotential, b.RebateCap)

	b.RebateBatteryPotential = capexBattery
	if sz.PVSizeKW > 0 && sz.BattEnergyKWh > 0 {
		room := b.RebateCap - b.RebateSolar
		b.RebateBattery = math.Min(room, capexBattery)
	}
	// Battery-only systems get no utility rebate: the storage program
	// was discontinued as a standalone measure.

	rebates := b.RebateSolar + b.RebateBattery
	b.FederalCreditBasis = gross - rebates
	b.FederalCredit = a.FederalCreditRate * b.FederalCreditBasis

	b.DepreciableBasis = math.Max(0, gross-rebates-b.FederalCredit)
	b.TaxShield = a.DepreciationShare * a.TaxRate * b.DepreciableBasis

	b.NetCapex = gross - rebates - b.FederalCredit - b.TaxShield

	// The solar rebate and half the battery rebate are credited against
	// the initial invoice; the rest lands in later years (see below).
	b.NetEquity = gross - b.RebateSolar - 0.5*b.RebateBattery

	cash := make([]model.CashflowEntry, ProjectionYears+1)
	cash[0] = model.CashflowEntry{
		Year:       0,
		Investment: -b.NetEquity,
		Net:        -b.NetEquity,
		Cumulative: -b.NetEquity,
	}

	energySavings := sim.SelfConsumptionKWh * a.EnergyRatePerKWh
	demandSavings := math.Max(0, peakKW-sim.PeakAfterKW) * a.DemandRatePerKWMonth * 12
	annualOM := capexSolar*a.OMSolarRate + capexBattery*a.OMBatteryRate

	cum := cash[0].Cumulative
	for y := 1; y <= ProjectionYears; y++ {
		deg := math.Pow(1-a.DegradationRate, float64(y-1))
		infl := math.Pow(1+a.InflationRate, float64(y-1))

		revenue := (energySavings + demandSavings) * deg * infl
		// Surplus compensation starts only after the utility's 24-month
		// banking delay, at the export rate, not the retail tariff.
		if y >= a.ExportStartYear {
			revenue += sim.ExportedKWh * a.ExportRatePerKWh * deg
		}

		opex := annualOM * math.Pow(1+a.OMEscalationRate, float64(y-1))
		ebitda := revenue - opex

		var investment float64
		if capexBattery > 0 && isReplacementYear(y, a.BatteryReplacementYear) {
			investment = -capexBattery * a.BatteryReplacementFactor *
				math.Pow(1+a.InflationRate-a.BatteryPriceDecline, float64(y))
		}

		var taxShield, incentive float64
		// Timing is load-bearing for IRR/NPV: the tax shield and the
		// second battery-rebate half arrive in year 1, the federal
		// credit in year 2.
		if y == 1 {
			taxShield = b.TaxShield
			incentive = 0.5 * b.RebateBattery
		}
		if y == 2 {
			incentive = b.FederalCredit
		}

		net := ebitda + investment + taxShield + incentive
		cum += net

		cash[y] = model.CashflowEntry{
			Year:       y,
			Revenue:    revenue,
			Opex:       opex,
			EBITDA:     ebitda,
			Investment: investment,
			TaxShield:  taxShield,
			Incentive:  incentive,
			Net:        net,
			Cumulative: cum,
		}
	}

	return b, cash
}

func isReplacementYear(y, configured int) bool {
	return y == configured || y == 20 || y == 30
}

func zeroCashflows() []model.CashflowEntry {
	cash := make([]model.CashflowEntry, ProjectionYears+1)
	for y := range cash {
		cash[y].Year = y
	}
	return cash
}
