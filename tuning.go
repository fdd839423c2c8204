package main

import "time"

// Tuning constants not part of the on-disk protocol. Grouped the way the
// teacher groups related knobs into one block (config.go's per-section
// structs), but compiled in rather than read from a config file: spec.md's
// persisted surface is deliberately just Location/OverrideState/WeatherData.
const (
	// Sigmoid engine (spec.md §4.2). The spec documents two candidate
	// values for DUSK_DURATION and SIGMOID_STEEPNESS and says to pick one;
	// these match the worked examples in spec.md §8.
	DawnDurationMinutes = 90
	DuskDurationMinutes = 120
	SigmoidSteepness    = 6.0

	TempDayClear    = 6500
	TempDayDark     = 4500
	TempNight       = 2900
	CloudThreshold  = 75
	TempMinKelvin   = 1000
	TempMaxKelvin   = 25000
	DefaultBeta     = 1.0
	DefaultRampSize = 256

	// Persistence (spec.md §3, §4.5).
	WeatherRefreshWindow = 15 * time.Minute
	OverrideMaxBytes     = 4 * 1024
	WeatherMaxBytes      = 8 * 1024
	ConfigDirMode        = 0o755

	// Event loop (spec.md §4.7).
	TickInterval        = 5 * time.Second
	BackendRetryCount   = 60
	BackendRetryDelay   = 500 * time.Millisecond
	WeatherFetchTimeout = 5 * time.Second
	WatchDebounce       = 150 * time.Millisecond

	// CLI (spec.md §6).
	DefaultOverrideDurationMinutes = 3

	// DRM backend (spec.md §4.4).
	DefaultCardNumber = 0

	Version = "0.1.0"
)
