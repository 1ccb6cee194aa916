package main

import (
	"encoding/json"
	"fmt"
	"os"

	"solar-sizing/internal/config"
	"solar-sizing/internal/data"
	"solar-sizing/internal/model"
	"solar-sizing/internal/sizing"

	"github.com/spf13/pflag"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "analyze":
		cmdAnalyze(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli analyze --readings meter.csv --config assumptions.yaml --out result.json --cashflow-csv cashflow.csv")
	fmt.Println("  cli sweep --readings meter.csv --config assumptions.yaml --out frontier.csv")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - analyze runs the full sizing analysis and 30-year projection")
	fmt.Println("  - sweep writes only the sensitivity frontier as CSV")
	fmt.Println("  - readings accept .csv (timestamp,kwh,kw) or .json")
}

func cmdAnalyze(args []string) {
	fs := pflag.NewFlagSet("analyze", pflag.ExitOnError)
	readingsPath := fs.String("readings", "", "Path to meter readings (.csv or .json)")
	cfgPath := fs.String("config", "", "Path to YAML assumptions (optional; defaults used otherwise)")
	outPath := fs.String("out", "", "Optional path to write the full result JSON")
	cashflowPath := fs.String("cashflow-csv", "", "Optional path to write the cashflow table CSV")
	pvSize := fs.Float64("pv-size", 0, "Force PV size in kW (0 = auto)")
	battEnergy := fs.Float64("batt-energy", 0, "Force battery energy in kWh (0 = auto)")
	battPower := fs.Float64("batt-power", 0, "Force battery power in kW (0 = derive from energy)")
	roofMax := fs.Float64("roof-max", 0, "Roof ceiling in kW from an external estimate (0 = derive)")
	_ = fs.Parse(args)

	result := run(*readingsPath, *cfgPath, forcedFromFlags(*pvSize, *battEnergy, *battPower), *roofMax)

	printSummary(result)

	if *outPath != "" {
		raw, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fatal(err)
		}
		if err := os.WriteFile(*outPath, raw, 0o644); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", *outPath)
	}
	if *cashflowPath != "" {
		if err := data.WriteCashflowCSV(*cashflowPath, result.Cashflows); err != nil {
			fatal(err)
		}
		fmt.Printf("wrote %s\n", *cashflowPath)
	}
}

func cmdSweep(args []string) {
	fs := pflag.NewFlagSet("sweep", pflag.ExitOnError)
	readingsPath := fs.String("readings", "", "Path to meter readings (.csv or .json)")
	cfgPath := fs.String("config", "", "Path to YAML assumptions (optional)")
	outPath := fs.String("out", "frontier.csv", "Output CSV path")
	roofMax := fs.Float64("roof-max", 0, "Roof ceiling in kW from an external estimate (0 = derive)")
	_ = fs.Parse(args)

	result := run(*readingsPath, *cfgPath, nil, *roofMax)

	if err := data.WriteFrontierCSV(*outPath, result.Frontier); err != nil {
		fatal(err)
	}
	fmt.Printf("wrote %d frontier points to %s\n", len(result.Frontier), *outPath)
}

func run(readingsPath, cfgPath string, forced *sizing.ForcedSizing, roofMax float64) *model.AnalysisResult {
	if readingsPath == "" {
		fmt.Println("--readings is required")
		os.Exit(2)
	}

	readings, err := data.LoadReadings(readingsPath)
	if err != nil {
		fatal(err)
	}

	assumptions := config.Defaults()
	if cfgPath != "" {
		assumptions, err = config.Load(cfgPath)
		if err != nil {
			fatal(err)
		}
	}

	analyzer := sizing.NewAnalyzer()
	result, err := analyzer.Run(sizing.Request{
		Readings:    readings,
		Assumptions: assumptions,
		Forced:      forced,
		RoofMaxKW:   roofMax,
	})
	if err != nil {
		fatal(err)
	}
	return result
}

func forcedFromFlags(pvSize, battEnergy, battPower float64) *sizing.ForcedSizing {
	f := &sizing.ForcedSizing{}
	any := false
	if pvSize > 0 {
		f.PVSizeKW = &pvSize
		any = true
	}
	if battEnergy > 0 {
		f.BattEnergyKWh = &battEnergy
		any = true
	}
	if battPower > 0 {
		f.BattPowerKW = &battPower
		any = true
	}
	if !any {
		return nil
	}
	return f
}

func printSummary(r *model.AnalysisResult) {
	fmt.Println("=== Sizing ===")
	fmt.Printf("PV: %.1f kW  Battery: %.1f kWh / %.1f kW  Setpoint: %.1f kW\n",
		r.Sizing.PVSizeKW, r.Sizing.BattEnergyKWh, r.Sizing.BattPowerKW, r.Sizing.DemandSetpointKW)

	fmt.Println("=== Energy ===")
	fmt.Printf("Consumption: %.0f kWh  Production: %.0f kWh  Self-consumed: %.0f kWh  Exported: %.0f kWh\n",
		r.Energy.AnnualConsumptionKWh, r.Energy.ProductionKWh, r.Energy.SelfConsumptionKWh, r.Energy.ExportedKWh)
	fmt.Printf("Peak: %.1f kW -> %.1f kW  Self-sufficiency: %.1f%%\n",
		r.Energy.HistoricalPeakKW, r.Energy.PeakAfterKW, r.Energy.SelfSufficiencyPct)
	if len(r.InterpolatedMonths) > 0 {
		fmt.Printf("Interpolated months (low data quality): %v\n", r.InterpolatedMonths)
	}

	fmt.Println("=== Financials ===")
	fmt.Printf("CAPEX: %.0f  Rebates: %.0f  Federal credit: %.0f  Net equity: %.0f\n",
		r.Breakdown.CapexGross,
		r.Breakdown.RebateSolar+r.Breakdown.RebateBattery,
		r.Breakdown.FederalCredit,
		r.Breakdown.NetEquity)
	payback := "none within 25y"
	if r.Metrics.HasPayback {
		payback = fmt.Sprintf("%d years", r.Metrics.PaybackYears)
	}
	fmt.Printf("NPV25: %.0f  IRR: %.1f%%  Payback: %s  LCOE25: %.4f $/kWh\n",
		r.Metrics.NPV25, r.Metrics.IRR*100, payback, r.Metrics.LCOE25)

	fmt.Println("=== Optimal scenarios ===")
	for _, o := range r.Optimal {
		fmt.Printf("%-17s PV %.1f kW / Batt %.1f kWh  NPV25 %.0f  IRR %.1f%%  SS %.1f%%\n",
			o.Objective+":", o.Point.Sizing.PVSizeKW, o.Point.Sizing.BattEnergyKWh,
			o.Point.Metrics.NPV25, o.Point.Metrics.IRR*100, o.Point.SelfSufficiencyPct)
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
