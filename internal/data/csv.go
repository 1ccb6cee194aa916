package data

import (
	"encoding/csv"
	"os"
	"strconv"

	"solar-sizing/internal/model"
)

// WriteCashflowCSV writes the 31-row cashflow table.
func WriteCashflowCSV(path string, cash []model.CashflowEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"year",
		"revenue",
		"opex",
		"ebitda",
		"investment",
		"tax_shield",
		"incentive",
		"net",
		"cumulative",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, e := range cash {
		row := []string{
			strconv.Itoa(e.Year),
			fmtFloat(e.Revenue),
			fmtFloat(e.Opex),
			fmtFloat(e.EBITDA),
			fmtFloat(e.Investment),
			fmtFloat(e.TaxShield),
			fmtFloat(e.Incentive),
			fmtFloat(e.Net),
			fmtFloat(e.Cumulative),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteFrontierCSV writes the sensitivity frontier, one candidate per row.
func WriteFrontierCSV(path string, frontier []model.FrontierPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"label",
		"type",
		"pv_size_kw",
		"batt_energy_kwh",
		"batt_power_kw",
		"production_kwh",
		"self_consumption_kwh",
		"exported_kwh",
		"self_sufficiency_pct",
		"peak_after_kw",
		"capex_gross",
		"net_equity",
		"npv_25",
		"irr",
		"payback_years",
		"lcoe_25",
		"is_current",
		"is_optimal_npv",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, p := range frontier {
		payback := ""
		if p.Metrics.HasPayback {
			payback = strconv.Itoa(p.Metrics.PaybackYears)
		}
		row := []string{
			p.Label,
			string(p.Type),
			fmtFloat(p.Sizing.PVSizeKW),
			fmtFloat(p.Sizing.BattEnergyKWh),
			fmtFloat(p.Sizing.BattPowerKW),
			fmtFloat(p.ProductionKWh),
			fmtFloat(p.SelfConsumptionKWh),
			fmtFloat(p.ExportedKWh),
			fmtFloat(p.SelfSufficiencyPct),
			fmtFloat(p.PeakAfterKW),
			fmtFloat(p.CapexGross),
			fmtFloat(p.NetEquity),
			fmtFloat(p.Metrics.NPV25),
			fmtFloat(p.Metrics.IRR),
			payback,
			fmtFloat(p.Metrics.LCOE25),
			strconv.FormatBool(p.IsCurrent),
			strconv.FormatBool(p.IsOptimalNPV),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
