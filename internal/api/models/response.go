package models

import "solar-sizing/internal/model"

// AnalysisResponse represents the response from an analysis run.
// Result carries the engine's outbound contract verbatim; the hourly and
// frontier slices are trimmed according to the request options.
type AnalysisResponse struct {
	Status string               `json:"status"`
	Result model.AnalysisResult `json:"result"`
}

// AssumptionsResponse lists the server defaults so a UI can render the
// override form.
type AssumptionsResponse struct {
	Defaults         model.Assumptions `json:"defaults"`
	SnowLossProfiles []string          `json:"snow_loss_profiles"`
	YieldSources     []string          `json:"yield_sources"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
