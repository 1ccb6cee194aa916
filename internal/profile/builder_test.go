package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-sizing/internal/model"
)

func fp(v float64) *float64 { return &v }

// fullYearReadings produces one reading per hour with a constant load.
func fullYearReadings(kwh, kw float64) []model.MeterReading {
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]model.MeterReading, 0, 8760)
	for h := 0; h < 8760; h++ {
		out = append(out, model.MeterReading{
			Timestamp: start.Add(time.Duration(h) * time.Hour),
			KWh:       fp(kwh),
			KW:        fp(kw),
		})
	}
	return out
}

func TestBuild_FullYear(t *testing.T) {
	res := Build(fullYearReadings(10, 12))

	require.Len(t, res.Points, HoursPerYear)
	assert.Empty(t, res.InterpolatedMonths)
	assert.InDelta(t, 87600, AnnualConsumptionKWh(res.Points), 0.1)
	assert.InDelta(t, 12, res.HistoricalPeakKW, 0.001)

	// Calendar expansion respects days per month.
	febHours := 0
	for _, p := range res.Points {
		if p.Month == 2 {
			febHours++
		}
	}
	assert.Equal(t, 28*24, febHours)
}

func TestBuild_EmptyInput(t *testing.T) {
	res := Build(nil)

	require.Len(t, res.Points, HoursPerYear)
	assert.InDelta(t, 365, res.SpanDays, 0.001)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, res.InterpolatedMonths)
	assert.Zero(t, AnnualConsumptionKWh(res.Points))
	assert.Zero(t, res.AnnualizedKWh)
	// Never NaN.
	for _, p := range res.Points {
		assert.False(t, p.ConsumptionKWh != p.ConsumptionKWh)
	}
}

func TestBuild_InterpolatesMissingMonth(t *testing.T) {
	var readings []model.MeterReading
	jan := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24; h++ {
		readings = append(readings,
			model.MeterReading{Timestamp: jan.Add(time.Duration(h) * time.Hour), KWh: fp(10)},
			model.MeterReading{Timestamp: mar.Add(time.Duration(h) * time.Hour), KWh: fp(20)},
		)
	}

	res := Build(readings)

	// February has no data and sits between January and March.
	assert.Contains(t, res.InterpolatedMonths, 2)
	for _, p := range res.Points {
		if p.Month == 2 {
			assert.InDelta(t, 15, p.ConsumptionKWh, 0.001)
		}
	}
}

func TestBuild_InterpolationWrapsYearBoundary(t *testing.T) {
	// Only December has data: every other month interpolates from it on
	// both sides.
	var readings []model.MeterReading
	dec := time.Date(2023, 12, 5, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24; h++ {
		readings = append(readings, model.MeterReading{
			Timestamp: dec.Add(time.Duration(h) * time.Hour),
			KWh:       fp(7),
		})
	}

	res := Build(readings)

	assert.Len(t, res.InterpolatedMonths, 11)
	assert.NotContains(t, res.InterpolatedMonths, 12)
	for _, p := range res.Points {
		assert.InDelta(t, 7, p.ConsumptionKWh, 0.001)
	}
}

func TestBuild_AnnualizationUsesRawSpan(t *testing.T) {
	// 73 days of data => factor of exactly 5.
	start := time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)
	var readings []model.MeterReading
	total := 0.0
	for h := 0; h < 73*24; h++ {
		readings = append(readings, model.MeterReading{
			Timestamp: start.Add(time.Duration(h) * time.Hour),
			KWh:       fp(8),
		})
		total += 8
	}

	res := Build(readings)

	// Span covers first..last timestamp, slightly under 73 full days.
	assert.InDelta(t, 73, res.SpanDays, 0.05)
	assert.InDelta(t, total*365/res.SpanDays, res.AnnualizedKWh, 0.001)
}

func TestBuild_PeakFallsBackToConsumption(t *testing.T) {
	// No kW channel at all: demand defaults to the 1h energy average.
	readings := []model.MeterReading{
		{Timestamp: time.Date(2023, 6, 1, 14, 0, 0, 0, time.UTC), KWh: fp(42)},
	}

	res := Build(readings)

	assert.InDelta(t, 42, res.HistoricalPeakKW, 0.001)
}

func TestBuild_BucketsAverageKWhMaxKW(t *testing.T) {
	ts1 := time.Date(2023, 6, 1, 14, 0, 0, 0, time.UTC)
	ts2 := time.Date(2023, 6, 2, 14, 0, 0, 0, time.UTC)
	readings := []model.MeterReading{
		{Timestamp: ts1, KWh: fp(10), KW: fp(15)},
		{Timestamp: ts2, KWh: fp(20), KW: fp(11)},
	}

	res := Build(readings)

	for _, p := range res.Points {
		if p.Month == 6 && p.Hour == 14 {
			assert.InDelta(t, 15, p.ConsumptionKWh, 0.001) // mean
			assert.InDelta(t, 15, p.PeakKW, 0.001)         // max
		}
	}
}
