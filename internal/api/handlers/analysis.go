package handlers

import (
	"net/http"

	"solar-sizing/internal/api/models"
	"solar-sizing/internal/config"
	"solar-sizing/internal/model"
	"solar-sizing/internal/simulate"
	"solar-sizing/internal/sizing"

	"github.com/gin-gonic/gin"
)

// AnalysisHandler handles analysis-related requests.
type AnalysisHandler struct {
	analyzer *sizing.Analyzer
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler() *AnalysisHandler {
	return &AnalysisHandler{analyzer: sizing.NewAnalyzer()}
}

// RunAnalysis handles POST /api/v1/analysis.
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_REQUEST",
				Message: err.Error(),
			},
		})
		return
	}

	assumptions := config.Merge(config.Defaults(), req.Assumptions)
	if err := config.Validate(assumptions); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "INVALID_ASSUMPTIONS",
				Message: err.Error(),
			},
		})
		return
	}

	result, err := h.analyzer.Run(sizing.Request{
		Readings:    req.Readings,
		Assumptions: assumptions,
		Forced:      req.ForcedSizing,
		RoofMaxKW:   req.RoofMaxKW,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "ANALYSIS_ERROR",
				Message: err.Error(),
			},
		})
		return
	}

	// Trim the heavy slices unless the caller asked for them; the peak
	// week and the optima always ship.
	if !req.Options.IncludeHourly {
		result.Hourly = nil
	}
	if !req.Options.IncludeFrontier {
		result.Frontier = nil
	}

	c.JSON(http.StatusOK, models.AnalysisResponse{
		Status: "completed",
		Result: *result,
	})
}

// ListAssumptions handles GET /api/v1/assumptions.
func (h *AnalysisHandler) ListAssumptions(c *gin.Context) {
	c.JSON(http.StatusOK, models.AssumptionsResponse{
		Defaults:         config.Defaults(),
		SnowLossProfiles: simulate.SnowProfileNames(),
		YieldSources: []string{
			string(model.YieldSourceGoogle),
			string(model.YieldSourceManual),
			string(model.YieldSourceDefault),
		},
	})
}
