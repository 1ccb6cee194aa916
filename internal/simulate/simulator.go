package simulate

import (
	"math"

	"solar-sizing/internal/model"
)

// LossParams bundles the static system-loss chain. All values are
// fractions; QualityGain is applied as a gain (x1.01 for 0.01).
type LossParams struct {
	Wiring         float64
	LID            float64
	Mismatch       float64
	StringMismatch float64
	QualityGain    float64
}

// Params is the simulator's static configuration derived from an
// assumption set.
type Params struct {
	Losses            LossParams
	InverterLoadRatio float64
	Snow              [12]float64
}

// ParamsFromAssumptions extracts simulator parameters.
func ParamsFromAssumptions(a model.Assumptions) Params {
	return Params{
		Losses: LossParams{
			Wiring:         a.WiringLoss,
			LID:            a.LIDLoss,
			Mismatch:       a.MismatchLoss,
			StringMismatch: a.StringMismatchLoss,
			QualityGain:    a.ModuleQualityGain,
		},
		InverterLoadRatio: a.InverterLoadRatio,
		Snow:              SnowProfile(a.SnowLossProfile),
	}
}

const (
	// Diurnal shape: gaussian centered on 13:00, zero outside 05:00-20:00.
	diurnalCenterHour = 13.0
	diurnalWidthHours = 3.5
	sunriseHour       = 5
	sunsetHour        = 20

	// Published kWh/kWp yields already embed typical system losses. The
	// hourly model grosses DC up by this nominal bundle and re-applies
	// the configured loss chain, so non-default loss assumptions move
	// the annual result away from the yield figure as they should.
	nominalSystemLoss = 0.055

	// Look-ahead horizon for secondary-peak discharge decisions.
	lookaheadHours = 6

	// Grid charging is allowed from this hour, topping the battery up
	// overnight so it is ready for the next day's peaks.
	gridChargeHour = 22
)

func diurnal(hour int) float64 {
	if hour < sunriseHour || hour >= sunsetHour {
		return 0
	}
	d := float64(hour) - diurnalCenterHour
	return math.Exp(-d * d / (2 * diurnalWidthHours * diurnalWidthHours))
}

func (l LossParams) chain() float64 {
	return (1 - l.Wiring) * (1 - l.LID) * (1 - l.Mismatch) * (1 - l.StringMismatch) * (1 + l.QualityGain)
}

// Simulate runs the 8760-hour physical/operational simulation for one
// candidate sizing. Pure function: deterministic, no I/O, inputs are
// never mutated.
func Simulate(points []model.HourlyPoint, sz model.SystemSizing, ys YieldStrategy, p Params) model.SimulationResult {
	n := len(points)
	res := model.SimulationResult{Hourly: make([]model.HourlyFlow, n)}
	if n == 0 {
		return res
	}

	production := buildProduction(points, sz.PVSizeKW, ys, p, &res.ClippingLossKWh)
	priority := priorityPeaks(points)

	hasBatt := sz.HasBattery()
	threshold := sz.DemandSetpointKW
	capacity := sz.BattEnergyKWh
	soc := 0.0
	if hasBatt {
		soc = 0.5 * capacity
	}

	var totalProd, totalSelf, totalExport, totalGridCharge float64
	var peakBefore, peakAfter float64

	for i := range points {
		pt := points[i]
		prod := production[i]
		cons := pt.ConsumptionKWh
		demand := pt.PeakKW

		var discharge, solarCharge, gridCharge float64
		if hasBatt && threshold > 0 && demand > threshold {
			excess := demand - threshold
			avail := soc
			if !priority[i] && higherPeakAhead(points, i, demand) {
				// A bigger peak is coming: hold back half the stored
				// energy for it.
				avail = soc / 2
			}
			discharge = math.Min(excess, math.Min(sz.BattPowerKW, avail))
			soc -= discharge
		} else if hasBatt {
			if prod > cons {
				solarCharge = math.Min(prod-cons, math.Min(sz.BattPowerKW, capacity-soc))
				soc += solarCharge
			} else if pt.Hour >= gridChargeHour && soc < capacity && demand < threshold {
				// Charging is billed load like any other: cap it at the
				// setpoint headroom so an overnight top-up never sets a
				// new peak.
				gridCharge = math.Min(threshold-demand, math.Min(sz.BattPowerKW, capacity-soc))
				soc += gridCharge
				totalGridCharge += gridCharge
			}
		}
		soc = clamp(soc, 0, capacity)

		self := math.Min(cons, prod+discharge)
		export := prod - self - solarCharge
		if export < 0 {
			export = 0
		}

		totalProd += prod
		totalSelf += self
		totalExport += export

		shaved := demand + gridCharge - discharge
		if demand > peakBefore {
			peakBefore = demand
		}
		if shaved > peakAfter {
			peakAfter = shaved
		}

		res.Hourly[i] = model.HourlyFlow{
			Month:          pt.Month,
			Day:            pt.Day,
			Hour:           pt.Hour,
			ConsumptionKWh: cons,
			ProductionKWh:  prod,
			BatteryKWh:     discharge - solarCharge - gridCharge,
			GridKWh:        cons - self + gridCharge - export,
			SOCKWh:         soc,
			DemandKW:       demand,
			ShavedDemandKW: shaved,
		}
	}

	// Grid-charged-then-discharged energy must not count as solar
	// self-consumption.
	if totalSelf > totalProd {
		totalSelf = totalProd
	}

	res.ProductionKWh = totalProd
	res.SelfConsumptionKWh = totalSelf
	res.ExportedKWh = totalExport
	res.GridChargedKWh = totalGridCharge
	res.PeakBeforeKW = peakBefore
	res.PeakAfterKW = peakAfter
	return res
}

// buildProduction computes the per-hour AC production series. The annual
// diurnal x seasonal shape is normalized over the calendar actually
// passed in, so the pre-loss DC series integrates to exactly
// yield/(1-nominalSystemLoss) kWh per kWp.
func buildProduction(points []model.HourlyPoint, pvSizeKW float64, ys YieldStrategy, p Params, clipLoss *float64) []float64 {
	production := make([]float64, len(points))
	if pvSizeKW <= 0 || ys.YieldKWhPerKWp <= 0 {
		return production
	}

	shape := make([]float64, len(points))
	shapeSum := 0.0
	for i, pt := range points {
		w := diurnal(pt.Hour) * seasonalFactor[pt.Month-1]
		shape[i] = w
		shapeSum += w
	}
	if shapeSum <= 0 {
		return production
	}

	lossChain := p.Losses.chain()
	acCapKW := pvSizeKW / p.InverterLoadRatio
	perKWp := ys.YieldKWhPerKWp / (1 - nominalSystemLoss) / shapeSum

	for i, pt := range points {
		if shape[i] == 0 {
			continue
		}
		m := pt.Month - 1
		dc := pvSizeKW * shape[i] * perKWp
		if ys.ApplyTempDerate {
			dc *= tempDerate[m]
		}
		dc *= lossChain
		dc *= p.Snow[m]

		ac := dc
		if ac > acCapKW {
			*clipLoss += ac - acCapKW
			ac = acCapKW
		}
		production[i] = ac
	}
	return production
}

// priorityPeaks marks, for each calendar day, the hour holding that
// day's single highest demand peak.
func priorityPeaks(points []model.HourlyPoint) []bool {
	out := make([]bool, len(points))
	dayStart := 0
	for i := 1; i <= len(points); i++ {
		if i == len(points) || points[i].Month != points[dayStart].Month || points[i].Day != points[dayStart].Day {
			best := dayStart
			for j := dayStart + 1; j < i; j++ {
				if points[j].PeakKW > points[best].PeakKW {
					best = j
				}
			}
			out[best] = true
			dayStart = i
		}
	}
	return out
}

// higherPeakAhead reports whether any of the next lookaheadHours hours
// carries a higher demand than the current one.
func higherPeakAhead(points []model.HourlyPoint, i int, demand float64) bool {
	end := i + lookaheadHours
	if end >= len(points) {
		end = len(points) - 1
	}
	for j := i + 1; j <= end; j++ {
		if points[j].PeakKW > demand {
			return true
		}
	}
	return false
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
