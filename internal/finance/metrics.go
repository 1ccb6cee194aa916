package finance

import (
	"math"

	"solar-sizing/internal/model"
)

// PaybackHorizonYears bounds the simple-payback scan to the standard
// reporting horizon.
const PaybackHorizonYears = 25

// NPV discounts the net cashflow series at the given rate over years
// 0..horizon.
func NPV(cash []model.CashflowEntry, rate float64, horizon int) float64 {
	if horizon >= len(cash) {
		horizon = len(cash) - 1
	}
	total := 0.0
	for y := 0; y <= horizon; y++ {
		total += cash[y].Net / math.Pow(1+rate, float64(y))
	}
	return total
}

// IRR finds the discount rate that zeroes the NPV of the full series.
//
// Newton-Raphson with a bisection fallback on [-0.99, 2.0]. A series
// with no sign change has no root: all-non-negative flows return 1.0
// (unbounded good), all-non-positive return 0. The final answer is
// clamped to [0, 1] for reporting stability even when the raw root lies
// outside that band.
func IRR(cash []model.CashflowEntry) float64 {
	hasPos, hasNeg := false, false
	for _, e := range cash {
		if e.Net > 0 {
			hasPos = true
		}
		if e.Net < 0 {
			hasNeg = true
		}
	}
	if !hasPos {
		return 0
	}
	if !hasNeg {
		return 1.0
	}

	npv := func(r float64) float64 {
		total := 0.0
		for y, e := range cash {
			total += e.Net / math.Pow(1+r, float64(y))
		}
		return total
	}
	dnpv := func(r float64) float64 {
		total := 0.0
		for y, e := range cash {
			if y == 0 {
				continue
			}
			total -= float64(y) * e.Net / math.Pow(1+r, float64(y+1))
		}
		return total
	}

	r := 0.08
	for i := 0; i < 60; i++ {
		f := npv(r)
		if math.Abs(f) < 1e-7 {
			return clampIRR(r)
		}
		d := dnpv(r)
		if math.IsNaN(d) || math.IsInf(d, 0) || math.Abs(d) < 1e-9 {
			break
		}
		next := r - f/d
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			break
		}
		if math.Abs(next-r) < 1e-9 {
			return clampIRR(next)
		}
		r = next
	}

	return clampIRR(bisectIRR(npv))
}

// bisectIRR searches [-0.99, 2.0] for a sign change. A non-bracketing
// interval returns 0 rather than iterating on it.
func bisectIRR(npv func(float64) float64) float64 {
	lo, hi := -0.99, 2.0
	flo, fhi := npv(lo), npv(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) || flo*fhi > 0 {
		return 0
	}
	for i := 0; i < 120; i++ {
		mid := (lo + hi) / 2
		fmid := npv(mid)
		if math.Abs(fmid) < 1e-7 {
			return mid
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo = mid
			flo = fmid
		}
	}
	return (lo + hi) / 2
}

func clampIRR(r float64) float64 {
	if r < 0 {
		return 0
	}
	if r > 1 {
		return 1
	}
	return r
}

// SimplePayback returns the first year index at which the cumulative
// cashflow reaches zero, scanned only within the standard horizon.
func SimplePayback(cash []model.CashflowEntry) (int, bool) {
	limit := PaybackHorizonYears
	if limit >= len(cash) {
		limit = len(cash) - 1
	}
	for y := 0; y <= limit; y++ {
		if cash[y].Cumulative >= 0 {
			return y, true
		}
	}
	return 0, false
}

// LCOE is lifetime cost over lifetime production at the given horizon:
// (net CAPEX + cumulative O&M) / cumulative degraded production.
func LCOE(netCapex float64, cash []model.CashflowEntry, year1ProductionKWh, degradationRate float64, horizon int) float64 {
	if horizon >= len(cash) {
		horizon = len(cash) - 1
	}
	cost := netCapex
	energy := 0.0
	for y := 1; y <= horizon; y++ {
		cost += cash[y].Opex
		energy += year1ProductionKWh * math.Pow(1-degradationRate, float64(y-1))
	}
	if energy <= 0 {
		return 0
	}
	return cost / energy
}

// ComputeMetrics bundles NPV at all reporting horizons, IRR, payback and
// LCOE from one breakdown/cashflow pair.
func ComputeMetrics(b model.FinancialBreakdown, cash []model.CashflowEntry, year1ProductionKWh float64, a model.Assumptions) model.FinancialMetrics {
	payback, ok := SimplePayback(cash)
	return model.FinancialMetrics{
		NPV10: NPV(cash, a.DiscountRate, 10),
		NPV20: NPV(cash, a.DiscountRate, 20),
		NPV25: NPV(cash, a.DiscountRate, 25),
		NPV30: NPV(cash, a.DiscountRate, 30),

		IRR: IRR(cash),

		PaybackYears: payback,
		HasPayback:   ok,

		LCOE25: LCOE(b.NetCapex, cash, year1ProductionKWh, a.DegradationRate, 25),
		LCOE30: LCOE(b.NetCapex, cash, year1ProductionKWh, a.DegradationRate, 30),
	}
}
