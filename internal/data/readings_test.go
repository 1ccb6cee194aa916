package data

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadReadingsCSV(t *testing.T) {
	path := writeTemp(t, "readings.csv", `timestamp,kwh,kw
2023-01-01T00:00:00Z,12.5,14.1
2023-01-01 01:00:00,11.0,
2023-01-01T02:00,,9.8
`)

	readings, err := LoadReadingsCSV(path)
	require.NoError(t, err)
	require.Len(t, readings, 3)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), readings[0].Timestamp)
	require.NotNil(t, readings[0].KWh)
	assert.InDelta(t, 12.5, *readings[0].KWh, 1e-9)
	require.NotNil(t, readings[0].KW)
	assert.InDelta(t, 14.1, *readings[0].KW, 1e-9)

	// Empty cells are absent channels, not zeros.
	assert.Nil(t, readings[1].KW)
	assert.Nil(t, readings[2].KWh)
	require.NotNil(t, readings[2].KW)
	assert.InDelta(t, 9.8, *readings[2].KW, 1e-9)
}

func TestLoadReadingsCSV_NoHeader(t *testing.T) {
	path := writeTemp(t, "readings.csv", "2023-06-01T10:00:00Z,5.5,6.0\n")

	readings, err := LoadReadingsCSV(path)
	require.NoError(t, err)
	require.Len(t, readings, 1)
}

func TestLoadReadingsCSV_TwoColumns(t *testing.T) {
	path := writeTemp(t, "readings.csv", "2023-06-01T10:00:00Z,5.5\n")

	readings, err := LoadReadingsCSV(path)
	require.NoError(t, err)
	require.Len(t, readings, 1)
	assert.Nil(t, readings[0].KW)
}

func TestLoadReadingsCSV_BadTimestamp(t *testing.T) {
	path := writeTemp(t, "readings.csv", "yesterday,5.5,6.0\n")

	_, err := LoadReadingsCSV(path)
	assert.ErrorContains(t, err, "line 1")
}

func TestLoadReadingsCSV_BadNumber(t *testing.T) {
	path := writeTemp(t, "readings.csv", "2023-06-01T10:00:00Z,lots,6.0\n")

	_, err := LoadReadingsCSV(path)
	assert.ErrorContains(t, err, "kwh")
}

func TestLoadReadingsJSON(t *testing.T) {
	path := writeTemp(t, "readings.json", `[
  {"timestamp": "2023-03-01T08:00:00Z", "kwh": 20.5, "kw": 22.0},
  {"timestamp": "2023-03-01T09:00:00Z", "kwh": 18.0, "kw": null}
]`)

	readings, err := LoadReadingsJSON(path)
	require.NoError(t, err)
	require.Len(t, readings, 2)

	require.NotNil(t, readings[0].KWh)
	assert.InDelta(t, 20.5, *readings[0].KWh, 1e-9)
	assert.Nil(t, readings[1].KW)
}

func TestLoadReadings_DispatchesOnExtension(t *testing.T) {
	csvPath := writeTemp(t, "r.csv", "2023-06-01T10:00:00Z,5.5,6.0\n")
	jsonPath := writeTemp(t, "r.json", `[{"timestamp": "2023-06-01T10:00:00Z", "kwh": 5.5, "kw": 6.0}]`)

	_, err := LoadReadings(csvPath)
	assert.NoError(t, err)
	_, err = LoadReadings(jsonPath)
	assert.NoError(t, err)

	_, err = LoadReadings("readings.xml")
	assert.ErrorContains(t, err, "unsupported readings format")
}
