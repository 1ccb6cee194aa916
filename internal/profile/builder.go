package profile

import (
	"time"

	"solar-sizing/internal/model"
)

// daysInMonth is the leap-insensitive calendar used for the 8760-row
// expansion (365 days).
var daysInMonth = [12]int{31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// HoursPerYear is the length of the canonical annual profile.
const HoursPerYear = 8760

// Result is the output of Build.
type Result struct {
	// Points holds exactly 8760 entries ordered by (month, day, hour).
	Points []model.HourlyPoint
	// InterpolatedMonths lists months (1..12) that had no readings and
	// were filled from their nearest populated neighbors.
	InterpolatedMonths []int
	// SpanDays is the calendar span of the raw input, computed from the
	// original timestamps before any filtering. Defaults to 365 when the
	// input is empty or spans less than a day.
	SpanDays float64
	// ObservedKWh is the plain sum of all kWh readings.
	ObservedKWh float64
	// AnnualizedKWh projects ObservedKWh to a full year: observed * 365/span.
	AnnualizedKWh float64
	// HistoricalPeakKW is the highest demand seen in any bucket.
	HistoricalPeakKW float64
}

type bucket struct {
	sumKWh float64
	count  int
	maxKW  float64
	hasKW  bool
}

// Build turns an irregular reading list into the canonical annual profile.
//
// Readings are bucketed by (month, hour-of-day): kWh values are averaged
// and kW values max'ed across all days sharing that slot. Months with no
// data at all are filled by averaging the nearest earlier and later
// populated months (wrapping across the year boundary). The 12x24 grid is
// then expanded to 8760 rows by repeating each slot across the days of
// its month. Intra-month variability is lost; downstream consumers need
// annual totals and peak shape, not day-level fidelity.
func Build(readings []model.MeterReading) Result {
	res := Result{SpanDays: 365}

	// Span must come from the raw timestamps before anything is dropped,
	// or partial-year projection silently corrupts.
	if len(readings) > 0 {
		minT, maxT := readings[0].Timestamp, readings[0].Timestamp
		for _, r := range readings[1:] {
			if r.Timestamp.Before(minT) {
				minT = r.Timestamp
			}
			if r.Timestamp.After(maxT) {
				maxT = r.Timestamp
			}
		}
		if span := maxT.Sub(minT); span >= 24*time.Hour {
			res.SpanDays = span.Hours() / 24
		}
	}

	var grid [12][24]bucket
	for _, r := range readings {
		m := int(r.Timestamp.Month()) - 1
		h := r.Timestamp.Hour()
		b := &grid[m][h]
		if r.KWh != nil {
			b.sumKWh += *r.KWh
			b.count++
			res.ObservedKWh += *r.KWh
		}
		if r.KW != nil {
			if !b.hasKW || *r.KW > b.maxKW {
				b.maxKW = *r.KW
			}
			b.hasKW = true
		}
	}
	res.AnnualizedKWh = res.ObservedKWh * 365 / res.SpanDays

	// Collapse buckets to per-slot consumption/demand values.
	var cons, peak [12][24]float64
	var monthHasData [12]bool
	for m := 0; m < 12; m++ {
		for h := 0; h < 24; h++ {
			b := grid[m][h]
			if b.count == 0 && !b.hasKW {
				continue
			}
			monthHasData[m] = true
			if b.count > 0 {
				cons[m][h] = b.sumKWh / float64(b.count)
			}
			if b.hasKW {
				peak[m][h] = b.maxKW
			} else {
				// No kW channel: a 1h energy average doubles as demand.
				peak[m][h] = cons[m][h]
			}
		}
	}

	anyData := false
	for m := 0; m < 12; m++ {
		if monthHasData[m] {
			anyData = true
			break
		}
	}

	if !anyData {
		// Zero-filled profile, every month flagged. Never NaN.
		for m := 1; m <= 12; m++ {
			res.InterpolatedMonths = append(res.InterpolatedMonths, m)
		}
	} else {
		for m := 0; m < 12; m++ {
			if monthHasData[m] {
				continue
			}
			earlier := nearestMonth(monthHasData, m, -1)
			later := nearestMonth(monthHasData, m, +1)
			for h := 0; h < 24; h++ {
				cons[m][h] = (cons[earlier][h] + cons[later][h]) / 2
				peak[m][h] = (peak[earlier][h] + peak[later][h]) / 2
			}
			res.InterpolatedMonths = append(res.InterpolatedMonths, m+1)
		}
	}

	res.Points = make([]model.HourlyPoint, 0, HoursPerYear)
	for m := 0; m < 12; m++ {
		for d := 1; d <= daysInMonth[m]; d++ {
			for h := 0; h < 24; h++ {
				res.Points = append(res.Points, model.HourlyPoint{
					Month:          m + 1,
					Day:            d,
					Hour:           h,
					ConsumptionKWh: cons[m][h],
					PeakKW:         peak[m][h],
				})
			}
		}
	}

	for m := 0; m < 12; m++ {
		for h := 0; h < 24; h++ {
			if peak[m][h] > res.HistoricalPeakKW {
				res.HistoricalPeakKW = peak[m][h]
			}
		}
	}

	return res
}

// AnnualConsumptionKWh sums the built profile. This is the figure every
// simulation consumes; see Result.AnnualizedKWh for the span projection.
func AnnualConsumptionKWh(points []model.HourlyPoint) float64 {
	total := 0.0
	for _, p := range points {
		total += p.ConsumptionKWh
	}
	return total
}

// nearestMonth walks from month m in the given direction (wrapping) and
// returns the first month with data. Callers guarantee at least one
// month has data.
func nearestMonth(hasData [12]bool, m, dir int) int {
	for d := 1; d < 12; d++ {
		idx := ((m+dir*d)%12 + 12) % 12
		if hasData[idx] {
			return idx
		}
	}
	return m
}
