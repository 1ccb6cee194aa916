package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solar-sizing/internal/api/models"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAnalysisHandler()
	r.POST("/api/v1/analysis", h.RunAnalysis)
	r.GET("/api/v1/assumptions", h.ListAssumptions)
	return r
}

// smallReadingsJSON builds a week of hourly readings inline.
func smallReadingsJSON() string {
	var sb strings.Builder
	sb.WriteString("[")
	for d := 1; d <= 7; d++ {
		for h := 0; h < 24; h++ {
			if d > 1 || h > 0 {
				sb.WriteString(",")
			}
			load := 20.0
			if h >= 8 && h <= 18 {
				load = 60
			}
			fmt.Fprintf(&sb, `{"timestamp":"2023-06-%02dT%02d:00:00Z","kwh":%g,"kw":%g}`, d, h, load, load*1.1)
		}
	}
	sb.WriteString("]")
	return sb.String()
}

func postAnalysis(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analysis", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	testRouter().ServeHTTP(w, req)
	return w
}

func TestRunAnalysis_OK(t *testing.T) {
	body := `{"readings":` + smallReadingsJSON() + `}`

	w := postAnalysis(t, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "completed", resp.Status)
	assert.Greater(t, resp.Result.Sizing.PVSizeKW, 0.0)
	// Heavy slices are trimmed by default.
	assert.Empty(t, resp.Result.Hourly)
	assert.Empty(t, resp.Result.Frontier)
	assert.NotEmpty(t, resp.Result.Optimal)
	assert.NotEmpty(t, resp.Result.PeakWeek)
}

func TestRunAnalysis_IncludeOptions(t *testing.T) {
	body := `{"readings":` + smallReadingsJSON() + `,"options":{"include_hourly":true,"include_frontier":true}}`

	w := postAnalysis(t, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Result.Hourly, 8760)
	assert.NotEmpty(t, resp.Result.Frontier)
}

func TestRunAnalysis_AppliesOverrides(t *testing.T) {
	body := `{"readings":` + smallReadingsJSON() + `,"assumptions":{"yield_kwh_per_kwp":2000,"yield_source":"manual"}}`

	w := postAnalysis(t, body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	base := postAnalysis(t, `{"readings":`+smallReadingsJSON()+`}`)
	var baseResp models.AnalysisResponse
	require.NoError(t, json.Unmarshal(base.Body.Bytes(), &baseResp))

	// A higher yield shrinks the auto-sized PV proportionally.
	want := baseResp.Result.Sizing.PVSizeKW * 1150 / 2000
	assert.InDelta(t, want, resp.Result.Sizing.PVSizeKW, 0.5)
}

func TestRunAnalysis_MissingReadings(t *testing.T) {
	w := postAnalysis(t, `{}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
}

func TestRunAnalysis_InvalidAssumptions(t *testing.T) {
	body := `{"readings":` + smallReadingsJSON() + `,"assumptions":{"yield_source":"satellite"}}`

	w := postAnalysis(t, body)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_ASSUMPTIONS", resp.Error.Code)
}

func TestRunAnalysis_MalformedJSON(t *testing.T) {
	w := postAnalysis(t, `{"readings": [`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAssumptions(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/assumptions", nil)
	testRouter().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.AssumptionsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 1150, resp.Defaults.YieldKWhPerKWp, 1e-9)
	assert.Contains(t, resp.SnowLossProfiles, "heavy")
	assert.Contains(t, resp.YieldSources, "google")
}
