package sizing

import (
	"math"

	"solar-sizing/internal/finance"
	"solar-sizing/internal/model"
	"solar-sizing/internal/simulate"
)

const (
	pvSweepSteps   = 20
	battSweepSteps = 12

	// maxRefineIterations bounds the "try the better optimum" loop: if a
	// sweep finds a better point than its own center, the sweep is
	// re-centered there at most this many times.
	maxRefineIterations = 2
)

// battOnlySweepKWh is the sparse battery-only (PV=0) grid.
var battOnlySweepKWh = []float64{25, 50, 100, 200, 400}

// evaluator carries everything needed to price one candidate sizing.
// Every frontier point goes through the same Simulate/BuildFinancials/
// ComputeMetrics path as the headline calculation; there is no shortcut
// approximation anywhere in the sweep.
type evaluator struct {
	points    []model.HourlyPoint
	annualKWh float64
	peakKW    float64
	ys        simulate.YieldStrategy
	sp        simulate.Params
	a         model.Assumptions
}

func (e *evaluator) point(label string, sz model.SystemSizing) model.FrontierPoint {
	sim := simulate.Simulate(e.points, sz, e.ys, e.sp)
	b, cash := finance.BuildFinancials(sim, e.peakKW, sz, e.a)
	m := finance.ComputeMetrics(b, cash, sim.ProductionKWh, e.a)

	selfSuff := 0.0
	if e.annualKWh > 0 {
		selfSuff = sim.SelfConsumptionKWh / e.annualKWh * 100
	}

	return model.FrontierPoint{
		Label:  label,
		Sizing: sz,
		Type:   model.ClassifySizing(sz),

		ProductionKWh:      sim.ProductionKWh,
		SelfConsumptionKWh: sim.SelfConsumptionKWh,
		ExportedKWh:        sim.ExportedKWh,
		SelfSufficiencyPct: selfSuff,
		PeakAfterKW:        sim.PeakAfterKW,

		CapexGross: b.CapexGross,
		NetEquity:  b.NetEquity,

		Metrics: m,
	}
}

// buildFrontier sweeps PV and battery sizes around the given center and
// always includes the configured candidate verbatim, so the headline
// KPIs and the frontier chart can never disagree.
func (e *evaluator) buildFrontier(configured, center model.SystemSizing, roofMaxKW float64) []model.FrontierPoint {
	pts := make([]model.FrontierPoint, 0, 2*pvSweepSteps+battSweepSteps+len(battOnlySweepKWh)+2)

	cur := e.point(model.LabelCurrentConfig, configured)
	cur.IsCurrent = true
	pts = append(pts, cur)

	// PV sweep: hybrid points at the center battery size plus solar-only
	// points, on a shared grid from 0 up.
	pvMax := 1.5 * center.PVSizeKW
	if !math.IsInf(roofMaxKW, 1) && roofMaxKW*1.1 < pvMax {
		pvMax = roofMaxKW * 1.1
	}
	if pvMax <= 0 && e.a.YieldKWhPerKWp > 0 {
		// Battery-only center: still explore adding solar.
		pvMax = e.annualKWh / e.a.YieldKWhPerKWp
		if !math.IsInf(roofMaxKW, 1) && roofMaxKW < pvMax {
			pvMax = roofMaxKW
		}
	}
	for i := 1; i <= pvSweepSteps; i++ {
		pv := pvMax * float64(i) / pvSweepSteps
		if center.HasBattery() {
			hybrid := withSetpoint(model.SystemSizing{
				PVSizeKW:      pv,
				BattEnergyKWh: center.BattEnergyKWh,
				BattPowerKW:   center.BattPowerKW,
			}, e.peakKW)
			pts = append(pts, e.point("pv-sweep", hybrid))
		}
		solarOnly := withSetpoint(model.SystemSizing{PVSizeKW: pv}, e.peakKW)
		pts = append(pts, e.point("pv-sweep-solar", solarOnly))
	}

	// Battery sweep at the center PV size; power tracks the 2h ratio.
	battMax := math.Max(2*center.BattEnergyKWh, 500)
	for i := 0; i <= battSweepSteps; i++ {
		energy := battMax * float64(i) / battSweepSteps
		sz := withSetpoint(model.SystemSizing{
			PVSizeKW:      center.PVSizeKW,
			BattEnergyKWh: energy,
			BattPowerKW:   energy / battEnergyHours,
		}, e.peakKW)
		pts = append(pts, e.point("battery-sweep", sz))
	}

	// Sparse battery-only sweep.
	for _, energy := range battOnlySweepKWh {
		sz := withSetpoint(model.SystemSizing{
			BattEnergyKWh: energy,
			BattPowerKW:   energy / battEnergyHours,
		}, e.peakKW)
		pts = append(pts, e.point("battery-only", sz))
	}

	return pts
}

// refineFrontier runs the bounded fixed-point loop: when the sweep's
// best-NPV point differs from the sweep center, re-center there and keep
// the new frontier only if it actually improved.
func (e *evaluator) refineFrontier(configured model.SystemSizing, roofMaxKW float64) []model.FrontierPoint {
	frontier := e.buildFrontier(configured, configured, roofMaxKW)
	center := configured

	for iter := 0; iter < maxRefineIterations; iter++ {
		best := bestNPVIndex(frontier)
		if best < 0 || sameSizing(frontier[best].Sizing, center) {
			break
		}
		refined := e.buildFrontier(configured, frontier[best].Sizing, roofMaxKW)
		rbest := bestNPVIndex(refined)
		if rbest < 0 || refined[rbest].Metrics.NPV25 <= frontier[best].Metrics.NPV25 {
			break
		}
		center = frontier[best].Sizing
		frontier = refined
	}

	return frontier
}

// selectOptima flags and returns the multi-objective winners.
func selectOptima(frontier []model.FrontierPoint) []model.OptimalScenario {
	bestNPV := bestNPVIndex(frontier)

	bestIRR := -1
	for i, p := range frontier {
		if p.Metrics.NPV25 <= 0 {
			continue
		}
		if bestIRR < 0 || p.Metrics.IRR > frontier[bestIRR].Metrics.IRR {
			bestIRR = i
		}
	}

	bestSS := -1
	for i, p := range frontier {
		if p.Sizing.PVSizeKW <= 0 && p.Sizing.BattEnergyKWh <= 0 {
			continue
		}
		if bestSS < 0 || p.SelfSufficiencyPct > frontier[bestSS].SelfSufficiencyPct {
			bestSS = i
		}
	}

	var out []model.OptimalScenario
	if bestNPV >= 0 {
		frontier[bestNPV].IsOptimalNPV = true
		out = append(out, model.OptimalScenario{Objective: "npv", Point: frontier[bestNPV]})
	}
	if bestIRR >= 0 {
		frontier[bestIRR].IsOptimalIRR = true
		out = append(out, model.OptimalScenario{Objective: "irr", Point: frontier[bestIRR]})
	}
	if bestSS >= 0 {
		frontier[bestSS].IsOptimalSelfSufficiency = true
		out = append(out, model.OptimalScenario{Objective: "self-sufficiency", Point: frontier[bestSS]})
	}
	return out
}

func bestNPVIndex(frontier []model.FrontierPoint) int {
	best := -1
	for i, p := range frontier {
		if best < 0 || p.Metrics.NPV25 > frontier[best].Metrics.NPV25 {
			best = i
		}
	}
	return best
}

func sameSizing(a, b model.SystemSizing) bool {
	const eps = 1e-9
	return math.Abs(a.PVSizeKW-b.PVSizeKW) < eps &&
		math.Abs(a.BattEnergyKWh-b.BattEnergyKWh) < eps &&
		math.Abs(a.BattPowerKW-b.BattPowerKW) < eps
}
