package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// WeatherData is the cached weather snapshot the sigmoid engine consults
// (spec.md §3). HasError is derived from the presence of an "error" key in
// the JSON, not from a boolean field, per spec.md §4.5.
type WeatherData struct {
	CloudCover   int
	Forecast     string
	TemperatureF float64
	IsDay        bool
	FetchedAt    time.Time
	HasError     bool
}

// weatherOnDisk mirrors the exact JSON shape spec.md §4.5 specifies.
type weatherOnDisk struct {
	CloudCover   int     `json:"cloud_cover"`
	Forecast     string  `json:"forecast"`
	Temperature  float64 `json:"temperature"`
	IsDay        bool    `json:"is_day"`
	FetchedAt    int64   `json:"fetched_at"`
	Error        string  `json:"error,omitempty"`
}

// Stale reports whether the cache should be refreshed: either it is past
// REFRESH_WINDOW or it already carries an error (spec.md §3).
func (w WeatherData) Stale(now time.Time) bool {
	if w.HasError {
		return true
	}
	return now.Sub(w.FetchedAt) > WeatherRefreshWindow
}

// LoadWeatherCache reads weather_cache.json. Oversized or malformed files,
// and a structurally valid but FetchedAt==0 cache, are all treated as
// erroneous per spec.md §3/§4.5 rather than surfaced as errors.
func LoadWeatherCache(path string) WeatherData {
	data, err := os.ReadFile(path)
	if err != nil {
		return WeatherData{HasError: true}
	}
	if len(data) > WeatherMaxBytes {
		return WeatherData{HasError: true}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return WeatherData{HasError: true}
	}

	var w weatherOnDisk
	if err := json.Unmarshal(data, &w); err != nil {
		return WeatherData{HasError: true}
	}

	_, hasErrorKey := raw["error"]

	result := WeatherData{
		CloudCover:   w.CloudCover,
		Forecast:     w.Forecast,
		TemperatureF: w.Temperature,
		IsDay:        w.IsDay,
		FetchedAt:    time.Unix(w.FetchedAt, 0),
		HasError:     hasErrorKey || w.FetchedAt == 0,
	}
	return result
}

// SaveWeatherCache writes weather_cache.json. When w.HasError is set, an
// "error" key is emitted so a subsequent LoadWeatherCache recognizes it.
func SaveWeatherCache(path string, w WeatherData) error {
	onDisk := weatherOnDisk{
		CloudCover:  w.CloudCover,
		Forecast:    w.Forecast,
		Temperature: w.TemperatureF,
		IsDay:       w.IsDay,
		FetchedAt:   w.FetchedAt.Unix(),
	}
	if w.HasError {
		onDisk.Error = "fetch failed"
	}

	data, err := json.MarshalIndent(onDisk, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshaling weather cache: %v", ErrFilesystem, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrFilesystem, path, err)
	}
	return nil
}
