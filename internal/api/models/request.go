package models

import (
	"solar-sizing/internal/config"
	"solar-sizing/internal/model"
	"solar-sizing/internal/sizing"
)

// AnalysisRequest represents the request body for running an analysis.
// Readings must arrive deduplicated by hour; assumptions are a partial
// override set merged over the server defaults.
type AnalysisRequest struct {
	Readings    []model.MeterReading `json:"readings" binding:"required"`
	Assumptions config.Overrides     `json:"assumptions,omitempty"`

	// ForcedSizing pins sizing fields, bypassing auto-sizing.
	ForcedSizing *sizing.ForcedSizing `json:"forced_sizing,omitempty"`

	// RoofMaxKW is a pre-computed roof ceiling from the roof-geometry
	// service; 0 means "derive from roof area".
	RoofMaxKW float64 `json:"roof_max_kw,omitempty"`

	Options AnalysisOptions `json:"options,omitempty"`
}

// AnalysisOptions contains optional response-shaping parameters.
type AnalysisOptions struct {
	IncludeHourly   bool `json:"include_hourly,omitempty"`   // full 8760-row series; default: peak week only
	IncludeFrontier bool `json:"include_frontier,omitempty"` // full frontier; default: optima only
}
