package finance

import "solar-sizing/internal/model"

// solarTier is one step of the declining $/W price curve.
type solarTier struct {
	maxKW   float64
	perWatt float64
}

// Installed solar cost steps down with system size.
var solarTiers = []solarTier{
	{25, 2.75},
	{100, 2.40},
	{250, 2.10},
	{500, 1.90},
}

const solarPerWattLargest = 1.75

// SolarCapex returns the installed solar cost for a system size.
func SolarCapex(pvSizeKW float64, a model.Assumptions) float64 {
	if pvSizeKW <= 0 {
		return 0
	}
	perWatt := solarPerWattLargest
	for _, t := range solarTiers {
		if pvSizeKW <= t.maxKW {
			perWatt = t.perWatt
			break
		}
	}
	if a.Bifacial {
		perWatt += a.BifacialPremiumPerW
	}
	return pvSizeKW * 1000 * perWatt
}

// BatteryCapex returns the installed battery cost: a capacity term plus
// a power-electronics term.
func BatteryCapex(energyKWh, powerKW float64, a model.Assumptions) float64 {
	if energyKWh <= 0 {
		return 0
	}
	return energyKWh*a.BatteryCostPerKWh + powerKW*a.BatteryCostPerKW
}
