package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestWeatherCacheRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")
	want := WeatherData{
		CloudCover:   42,
		Forecast:     "Partly Cloudy",
		TemperatureF: 68.5,
		IsDay:        true,
		FetchedAt:    time.Unix(1700000000, 0).UTC(),
		HasError:     false,
	}
	if err := SaveWeatherCache(path, want); err != nil {
		t.Fatalf("SaveWeatherCache: %v", err)
	}
	got := LoadWeatherCache(path)
	if got.CloudCover != want.CloudCover || got.Forecast != want.Forecast ||
		got.TemperatureF != want.TemperatureF || got.IsDay != want.IsDay ||
		!got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestWeatherCacheErrorSentinel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather_cache.json")
	want := WeatherData{HasError: true, FetchedAt: time.Unix(1700000000, 0).UTC()}
	if err := SaveWeatherCache(path, want); err != nil {
		t.Fatalf("SaveWeatherCache: %v", err)
	}
	got := LoadWeatherCache(path)
	if !got.HasError {
		t.Error("expected HasError=true to survive round trip")
	}
}

func TestWeatherCacheMissingFileIsErroneous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	got := LoadWeatherCache(path)
	if !got.HasError {
		t.Error("expected missing cache file to report HasError=true")
	}
}

func TestWeatherDataStale(t *testing.T) {
	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	fresh := WeatherData{FetchedAt: now.Add(-5 * time.Minute), HasError: false}
	if fresh.Stale(now) {
		t.Error("expected 5-minute-old weather to not be stale")
	}
	old := WeatherData{FetchedAt: now.Add(-20 * time.Minute), HasError: false}
	if !old.Stale(now) {
		t.Error("expected 20-minute-old weather to be stale")
	}
	errored := WeatherData{FetchedAt: now, HasError: true}
	if !errored.Stale(now) {
		t.Error("expected errored weather to always be stale")
	}
}
