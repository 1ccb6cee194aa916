package sizing

import (
	"errors"

	"solar-sizing/internal/finance"
	"solar-sizing/internal/model"
	"solar-sizing/internal/profile"
	"solar-sizing/internal/simulate"
)

// peakWeekHours is the length of the peak-week chart slice (7 days).
const peakWeekHours = 7 * 24

// Request is the inbound contract of one analysis run. Readings arrive
// deduplicated by hour from the upstream reconciliation layer; the
// engine tolerates gaps and partial years. Assumptions must already be
// merged over the defaults (and validated) by the caller.
type Request struct {
	Readings    []model.MeterReading
	Assumptions model.Assumptions

	// Forced bypasses auto-sizing for pinned fields.
	Forced *ForcedSizing

	// RoofMaxKW, when positive, is a pre-computed ceiling from the
	// roof-geometry service and overrides the roof-area derivation.
	RoofMaxKW float64
}

// Analyzer drives the whole engine: profile build, dispatch simulation,
// financial stack, metrics and the sensitivity frontier. It holds no
// mutable state; one instance can serve any number of requests.
type Analyzer struct{}

func NewAnalyzer() *Analyzer { return &Analyzer{} }

// Run executes a full analysis. Identical requests always yield
// identical results: the pipeline is deterministic end to end.
func (an *Analyzer) Run(req Request) (*model.AnalysisResult, error) {
	a := req.Assumptions
	if a.YieldKWhPerKWp <= 0 {
		return nil, errors.New("assumptions: yield must be > 0")
	}

	prof := profile.Build(req.Readings)
	annualKWh := profile.AnnualConsumptionKWh(prof.Points)
	peakKW := prof.HistoricalPeakKW

	roofMax := RoofCeilingKW(a, req.RoofMaxKW)
	sz := ApplyForced(AutoSize(prof.AnnualizedKWh, peakKW, a, roofMax), req.Forced, peakKW)

	ys := simulate.ResolveYieldStrategy(a)
	sp := simulate.ParamsFromAssumptions(a)

	sim := simulate.Simulate(prof.Points, sz, ys, sp)
	breakdown, cash := finance.BuildFinancials(sim, peakKW, sz, a)
	metrics := finance.ComputeMetrics(breakdown, cash, sim.ProductionKWh, a)

	ev := &evaluator{
		points:    prof.Points,
		annualKWh: annualKWh,
		peakKW:    peakKW,
		ys:        ys,
		sp:        sp,
		a:         a,
	}
	frontier := ev.refineFrontier(sz, roofMax)
	optimal := selectOptima(frontier)

	selfSuff, selfRate := 0.0, 0.0
	if annualKWh > 0 {
		selfSuff = sim.SelfConsumptionKWh / annualKWh * 100
	}
	if sim.ProductionKWh > 0 {
		selfRate = sim.SelfConsumptionKWh / sim.ProductionKWh * 100
	}

	return &model.AnalysisResult{
		Sizing: sz,
		Energy: model.EnergyKPIs{
			AnnualConsumptionKWh:  annualKWh,
			AnnualizedObservedKWh: prof.AnnualizedKWh,
			HistoricalPeakKW:      peakKW,

			ProductionKWh:      sim.ProductionKWh,
			SelfConsumptionKWh: sim.SelfConsumptionKWh,
			ExportedKWh:        sim.ExportedKWh,
			ClippingLossKWh:    sim.ClippingLossKWh,

			PeakAfterKW: sim.PeakAfterKW,

			SelfSufficiencyPct:     selfSuff,
			SelfConsumptionRatePct: selfRate,
		},
		Breakdown: breakdown,
		Cashflows: cash,
		Metrics:   metrics,

		Hourly:   sim.Hourly,
		PeakWeek: peakWeek(sim.Hourly),

		Frontier: frontier,
		Optimal:  optimal,

		InterpolatedMonths: prof.InterpolatedMonths,
	}, nil
}

// peakWeek extracts the 7-day window around the annual post-battery
// peak, aligned to day boundaries with up to three days of lead-in.
func peakWeek(hourly []model.HourlyFlow) []model.HourlyFlow {
	if len(hourly) <= peakWeekHours {
		return hourly
	}
	peakIdx := 0
	for i, h := range hourly {
		if h.ShavedDemandKW > hourly[peakIdx].ShavedDemandKW {
			peakIdx = i
		}
	}
	start := peakIdx - peakIdx%24 - 3*24
	if start < 0 {
		start = 0
	}
	if start+peakWeekHours > len(hourly) {
		start = len(hourly) - peakWeekHours
	}
	return hourly[start : start+peakWeekHours]
}
