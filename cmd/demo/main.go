package main

import (
	"fmt"
	"math"
	"time"

	"solar-sizing/internal/config"
	"solar-sizing/internal/model"
	"solar-sizing/internal/sizing"
)

// Demo:
// - Generate a year of synthetic commercial load readings
// - Run the full analysis with default assumptions
// - Print the headline result and the optimal scenarios
func main() {
	readings := syntheticYear()

	analyzer := sizing.NewAnalyzer()
	result, err := analyzer.Run(sizing.Request{
		Readings:    readings,
		Assumptions: config.Defaults(),
	})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Auto-sized: PV %.1f kW, battery %.1f kWh / %.1f kW\n",
		result.Sizing.PVSizeKW, result.Sizing.BattEnergyKWh, result.Sizing.BattPowerKW)
	fmt.Printf("Annual consumption %.0f kWh, production %.0f kWh, self-sufficiency %.1f%%\n",
		result.Energy.AnnualConsumptionKWh, result.Energy.ProductionKWh, result.Energy.SelfSufficiencyPct)
	fmt.Printf("CAPEX %.0f, net equity %.0f, NPV25 %.0f, IRR %.1f%%\n",
		result.Breakdown.CapexGross, result.Breakdown.NetEquity,
		result.Metrics.NPV25, result.Metrics.IRR*100)

	fmt.Println("\nCashflow (first 5 years):")
	for _, e := range result.Cashflows[:6] {
		fmt.Printf("  y%-3d revenue %9.0f  opex %8.0f  net %9.0f  cumulative %10.0f\n",
			e.Year, e.Revenue, e.Opex, e.Net, e.Cumulative)
	}

	fmt.Println("\nOptimal scenarios:")
	for _, o := range result.Optimal {
		fmt.Printf("  %-16s %-7s PV %6.1f kW  Batt %6.1f kWh  NPV25 %9.0f\n",
			o.Objective, o.Point.Type, o.Point.Sizing.PVSizeKW, o.Point.Sizing.BattEnergyKWh,
			o.Point.Metrics.NPV25)
	}
}

// syntheticYear builds hourly readings for a daytime-heavy commercial
// load with a winter heating bump, roughly 500 MWh/year peaking near
// 130 kW.
func syntheticYear() []model.MeterReading {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	var readings []model.MeterReading
	for h := 0; h < 8760; h++ {
		ts := start.Add(time.Duration(h) * time.Hour)
		hour := float64(ts.Hour())

		base := 30.0
		daytime := 60.0 * math.Exp(-(hour-14)*(hour-14)/18)
		seasonal := 1.0 + 0.25*math.Cos(2*math.Pi*float64(ts.YearDay())/365)

		kwh := (base + daytime) * seasonal
		kw := kwh * 1.15
		readings = append(readings, model.MeterReading{Timestamp: ts, KWh: &kwh, KW: &kw})
	}
	return readings
}
