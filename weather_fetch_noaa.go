//go:build noaa

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Real NOAA fetcher, built only when the noaa tag is set (spec.md §4.6,
// §9: "Non-goals" leaves weather sourcing swappable). Two HTTPS GETs
// against api.weather.gov, each shelled out to an external fetcher binary
// on PATH rather than an in-process HTTP client, mirroring the teacher's
// decoder_spawner.go preference for supervising short-lived child
// processes over embedding a library.
const (
	weatherAPIHost  = "https://api.weather.gov"
	weatherUserAgent = "abraxas-weatherd/" + Version + " (github.com/wllclngn/abraxas)"
)

type pointsResponse struct {
	Properties struct {
		ForecastHourly string `json:"forecastHourly"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Temperature   float64 `json:"temperature"`
			IsDaytime     bool    `json:"isDaytime"`
			ShortForecast string  `json:"shortForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

// runFetcher shells out to curl with the per-request timeout, fixed
// headers, and redirect-following spec.md §4.6 requires.
func runFetcher(ctx context.Context, url string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "curl",
		"-s", "-L",
		"--max-time", "5",
		"-H", "User-Agent: "+weatherUserAgent,
		"-H", "Accept: application/geo+json",
		url,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("%w: fetcher invocation failed: %v", ErrFilesystem, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: empty response body", ErrFilesystem)
	}
	return out, nil
}

// FetchWeatherAsync runs the points->forecast two-step fetch in a goroutine
// and delivers exactly one WeatherData on resultCh, realizing spec.md
// §4.6's IDLE->READING_POINTS->READING_FORECAST->IDLE state machine as
// sequential steps inside one background goroutine rather than as
// non-blocking reads driven by the event loop's select — idiomatic Go
// pushes the blocking work off the main loop instead of polling pipes.
func FetchWeatherAsync(lat, lon float64, resultCh chan<- WeatherData) {
	go func() {
		resultCh <- fetchWeatherSync(lat, lon)
	}()
}

func fetchWeatherSync(lat, lon float64) WeatherData {
	ctx, cancel := context.WithTimeout(context.Background(), WeatherFetchTimeout)
	defer cancel()

	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", weatherAPIHost, lat, lon)
	pointsBody, err := runFetcher(ctx, pointsURL)
	if err != nil {
		return WeatherData{HasError: true, FetchedAt: time.Now()}
	}

	var points pointsResponse
	if err := json.Unmarshal(pointsBody, &points); err != nil || points.Properties.ForecastHourly == "" {
		return WeatherData{HasError: true, FetchedAt: time.Now()}
	}

	ctx2, cancel2 := context.WithTimeout(context.Background(), WeatherFetchTimeout)
	defer cancel2()

	forecastBody, err := runFetcher(ctx2, points.Properties.ForecastHourly)
	if err != nil {
		return WeatherData{HasError: true, FetchedAt: time.Now()}
	}

	var forecast forecastResponse
	if err := json.Unmarshal(forecastBody, &forecast); err != nil || len(forecast.Properties.Periods) == 0 {
		return WeatherData{HasError: true, FetchedAt: time.Now()}
	}

	first := forecast.Properties.Periods[0]
	return WeatherData{
		CloudCover:   CloudCoverFromForecast(first.ShortForecast),
		Forecast:     first.ShortForecast,
		TemperatureF: first.Temperature,
		IsDay:        first.IsDaytime,
		FetchedAt:    time.Now(),
		HasError:     false,
	}
}
