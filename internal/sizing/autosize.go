package sizing

import (
	"math"

	"solar-sizing/internal/model"
)

const (
	// demandSetpointRatio places the shaving threshold just under the
	// historical peak whenever a battery is present.
	demandSetpointRatio = 0.90

	// Battery auto-sizing: power covers this share of the historical
	// peak, energy holds this many hours at that power.
	battPowerPeakRatio = 0.30
	battEnergyHours    = 2.0
)

// RoofCeilingKW returns the maximum PV size the roof supports. An
// explicit ceiling from the roof-geometry service wins; otherwise the
// engine derives one from the configured roof area. With neither, PV is
// unconstrained.
func RoofCeilingKW(a model.Assumptions, overrideKW float64) float64 {
	if overrideKW > 0 {
		return overrideKW
	}
	if a.RoofAreaM2 > 0 {
		return a.RoofAreaM2 / a.M2PerKW
	}
	return math.Inf(1)
}

// AutoSize derives the initial candidate from the consumption profile:
// PV covers the annualized consumption at the assumed yield (clamped to
// the roof), the battery is sized against the historical peak.
func AutoSize(annualizedKWh, peakKW float64, a model.Assumptions, roofMaxKW float64) model.SystemSizing {
	pv := 0.0
	if a.YieldKWhPerKWp > 0 {
		pv = annualizedKWh / a.YieldKWhPerKWp
	}
	if pv > roofMaxKW {
		pv = roofMaxKW
	}

	power := battPowerPeakRatio * peakKW
	sz := model.SystemSizing{
		PVSizeKW:      pv,
		BattEnergyKWh: battEnergyHours * power,
		BattPowerKW:   power,
	}
	return withSetpoint(sz, peakKW)
}

// ForcedSizing bypasses auto-sizing for fields a human pinned while
// constructing an explicit variant. Nil fields keep the auto value.
type ForcedSizing struct {
	PVSizeKW      *float64 `json:"pv_size_kw,omitempty"`
	BattEnergyKWh *float64 `json:"batt_energy_kwh,omitempty"`
	BattPowerKW   *float64 `json:"batt_power_kw,omitempty"`
}

// ApplyForced overlays the pinned fields and re-derives the dependent
// ones (battery power from energy when only energy was pinned, and the
// demand setpoint from whether a battery remains).
func ApplyForced(auto model.SystemSizing, f *ForcedSizing, peakKW float64) model.SystemSizing {
	if f == nil {
		return auto
	}
	sz := auto
	if f.PVSizeKW != nil {
		sz.PVSizeKW = *f.PVSizeKW
	}
	if f.BattEnergyKWh != nil {
		sz.BattEnergyKWh = *f.BattEnergyKWh
		if f.BattPowerKW == nil {
			sz.BattPowerKW = sz.BattEnergyKWh / battEnergyHours
		}
	}
	if f.BattPowerKW != nil {
		sz.BattPowerKW = *f.BattPowerKW
	}
	return withSetpoint(sz, peakKW)
}

func withSetpoint(sz model.SystemSizing, peakKW float64) model.SystemSizing {
	if sz.HasBattery() {
		sz.DemandSetpointKW = demandSetpointRatio * peakKW
	} else {
		sz.DemandSetpointKW = 0
	}
	return sz
}
