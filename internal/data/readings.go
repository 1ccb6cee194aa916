package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"solar-sizing/internal/model"
)

// readingRow matches the JSON export of the meter-data service.
// kwh/kw are null when the channel was absent for that hour.
type readingRow struct {
	Timestamp time.Time `json:"timestamp"`
	KWh       *float64  `json:"kwh"`
	KW        *float64  `json:"kw"`
}

// LoadReadingsJSON reads a JSON array of meter readings.
func LoadReadingsJSON(path string) ([]model.MeterReading, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []readingRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}
	out := make([]model.MeterReading, len(rows))
	for i, r := range rows {
		out[i] = model.MeterReading{Timestamp: r.Timestamp, KWh: r.KWh, KW: r.KW}
	}
	return out, nil
}

// LoadReadingsCSV reads a timestamp,kwh,kw CSV (header optional).
// Empty cells become nil channels.
func LoadReadingsCSV(path string) ([]model.MeterReading, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out []model.MeterReading
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected at least 2 columns", line)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "timestamp") {
			continue
		}

		ts, err := parseTimestamp(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		reading := model.MeterReading{Timestamp: ts}
		if v, ok, err := parseOptFloat(rec[1]); err != nil {
			return nil, fmt.Errorf("line %d: kwh: %w", line, err)
		} else if ok {
			reading.KWh = &v
		}
		if len(rec) > 2 {
			if v, ok, err := parseOptFloat(rec[2]); err != nil {
				return nil, fmt.Errorf("line %d: kw: %w", line, err)
			} else if ok {
				reading.KW = &v
			}
		}
		out = append(out, reading)
	}
	return out, nil
}

// LoadReadings dispatches on the file extension (.json or .csv).
func LoadReadings(path string) ([]model.MeterReading, error) {
	switch {
	case strings.HasSuffix(path, ".json"):
		return LoadReadingsJSON(path)
	case strings.HasSuffix(path, ".csv"):
		return LoadReadingsCSV(path)
	default:
		return nil, fmt.Errorf("unsupported readings format: %s (want .json or .csv)", path)
	}
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseOptFloat(s string) (float64, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
