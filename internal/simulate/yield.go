package simulate

import "solar-sizing/internal/model"

// YieldStrategy is the pre-resolved yield decision, threaded explicitly
// through every function that needs it. It is a plain value; nothing in
// the engine attaches it to or mutates it on a shared config object.
type YieldStrategy struct {
	Source         model.YieldSource
	YieldKWhPerKWp float64
	// ApplyTempDerate is false for google/manual yields: those figures
	// are already weather-adjusted, and derating them again would
	// double-penalize production.
	ApplyTempDerate bool
}

// ResolveYieldStrategy derives the strategy from an assumption set.
func ResolveYieldStrategy(a model.Assumptions) YieldStrategy {
	return YieldStrategy{
		Source:          a.YieldSource,
		YieldKWhPerKWp:  a.YieldKWhPerKWp,
		ApplyTempDerate: a.YieldSource == model.YieldSourceDefault,
	}
}

// seasonalFactor holds the month-by-month irradiance weighting
// (Jan..Dec) for the diurnal production shape.
var seasonalFactor = [12]float64{
	0.32, 0.48, 0.72, 0.95, 1.12, 1.20, 1.18, 1.08, 0.92, 0.68, 0.42, 0.28,
}

// tempDerate holds monthly temperature multipliers applied only when the
// yield source is "default". Cold months run modules above nameplate,
// hot months below.
var tempDerate = [12]float64{
	1.02, 1.02, 1.01, 1.00, 0.98, 0.96, 0.95, 0.95, 0.97, 1.00, 1.01, 1.02,
}

// snowProfiles maps a profile selector to monthly production multipliers.
var snowProfiles = map[string][12]float64{
	"none": {1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1},
	"moderate": {
		0.70, 0.75, 0.90, 1, 1, 1, 1, 1, 1, 1, 1, 0.85,
	},
	"heavy": {
		0.50, 0.55, 0.80, 1, 1, 1, 1, 1, 1, 1, 1, 0.70,
	},
}

// SnowProfile returns the monthly multipliers for a selector, falling
// back to no snow loss for unknown names.
func SnowProfile(name string) [12]float64 {
	if p, ok := snowProfiles[name]; ok {
		return p
	}
	return snowProfiles["none"]
}

// SnowProfileNames lists the available selectors.
func SnowProfileNames() []string {
	return []string{"none", "moderate", "heavy"}
}
