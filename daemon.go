package main

import (
	"fmt"
	"log"
	"os"
	"time"
)

// daemonState holds every piece of mutable state the event loop touches.
// There is exactly one goroutine driving it, so nothing here needs a mutex
// (spec.md §5: "single-threaded cooperative within the daemon").
type daemonState struct {
	paths   Paths
	backend GammaBackend

	location Location
	weather  WeatherData
	override OverrideState

	lastObservedIssuedAt int64
	manualMode           bool
	startTemp            float64
	resumeTime           time.Time

	lastAppliedTemp float64
	haveApplied     bool

	weatherInFlight bool
	weatherResultCh chan WeatherData
}

// RunDaemon implements the setup sequence and steady-state loop of spec.md
// §4.7. It returns only on a clean shutdown or a fatal startup error.
func RunDaemon() error {
	// Step 1: signal source, created before anything that can fail so a
	// user can interrupt startup.
	sigCh := installSignalHandler()

	paths, err := ResolvePaths()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMissingEnv, err)
	}

	// Step 2: probe the gamma dispatcher with retry.
	backend, err := probeBackendWithRetry(sigCh)
	if err != nil {
		return err
	}

	d := &daemonState{paths: paths, backend: backend, weatherResultCh: make(chan WeatherData, 1)}

	// Step 3: PID file.
	if err := WritePIDFile(paths.PIDFile); err != nil {
		backend.Free()
		return fmt.Errorf("%w: write pid file: %v", ErrFilesystem, err)
	}
	defer RemovePIDFile(paths.PIDFile)

	// Step 4: cached weather + startup temperature, applied immediately.
	d.location = LoadLocation(paths.ConfigINI)
	d.weather = LoadWeatherCache(paths.WeatherCache)
	d.startTemp = d.computeSolarTemp(time.Now())
	d.applyTemperature(d.startTemp)

	// Step 5: watch the config directory.
	watcher, err := newConfigWatcher(paths.Dir)
	if err != nil {
		log.Printf("config watch unavailable, hot-reload disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	// Steps 6-8: process hardening, filesystem sandbox, syscall filter.
	// hardenProcess folds all three into the best-effort primitives this
	// module has available (Prctl + Landlock); see DESIGN.md for the gap
	// versus a full seccomp-bpf allow list.
	hardenProcess(paths.Dir)

	// Step 9: recover any persisted override.
	d.recoverOverride(time.Now())

	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	var changedCh chan string
	if watcher != nil {
		changedCh = watcher.Changed
	}

	for {
		var weatherCh chan WeatherData
		if d.weatherInFlight {
			weatherCh = d.weatherResultCh
		}

		select {
		case sig := <-sigCh:
			log.Printf("received signal %v, shutting down", sig)
			d.shutdown()
			return nil

		case path := <-changedCh:
			d.handleFileChanged(path, time.Now())

		case w := <-weatherCh:
			d.weatherInFlight = false
			d.weather = w
			if err := SaveWeatherCache(paths.WeatherCache, w); err != nil {
				log.Printf("failed to persist weather cache: %v", err)
			}

		case now := <-ticker.C:
			d.tick(now)
		}
	}
}

func probeBackendWithRetry(sigCh <-chan os.Signal) (GammaBackend, error) {
	for attempt := 0; attempt < BackendRetryCount; attempt++ {
		backend, err := OpenGammaBackend(DefaultCardNumber)
		if err == nil {
			return backend, nil
		}
		select {
		case <-sigCh:
			return nil, fmt.Errorf("%w: interrupted during backend probe", ErrBackendInit)
		case <-time.After(BackendRetryDelay):
		}
	}
	return nil, fmt.Errorf("%w: exhausted %d attempts", ErrBackendInit, BackendRetryCount)
}

func (d *daemonState) computeSolarTemp(now time.Time) float64 {
	if !d.location.Valid {
		return float64(TempNight)
	}
	pos := SolarPosition(now, d.location.Latitude, d.location.Longitude)
	times := SunriseSunset(now, d.location.Latitude, d.location.Longitude)
	if !times.Valid {
		if pos.ElevationDegrees > 0 {
			return float64(TempDayClear)
		}
		return float64(TempNight)
	}
	sinceSunrise := now.Sub(times.Sunrise).Minutes()
	untilSunset := times.Sunset.Sub(now).Minutes()
	darkMode := d.weather.CloudCover >= CloudThreshold
	return CalculateSolarTemp(sinceSunrise, untilSunset, darkMode)
}

func (d *daemonState) applyTemperature(kelvin float64) {
	if d.haveApplied && kelvin == d.lastAppliedTemp {
		return
	}
	if err := d.backend.SetTemperature(kelvin, DefaultBeta); err != nil {
		log.Printf("apply temperature %.0fK failed: %v", kelvin, err)
		return
	}
	d.lastAppliedTemp = kelvin
	d.haveApplied = true
	log.Printf("applied %.0fK (backend=%s, manual=%v)", kelvin, d.backend.Name(), d.manualMode)
}

func (d *daemonState) recoverOverride(now time.Time) {
	d.override = LoadOverride(d.paths.Override)
	if !d.override.Active {
		return
	}
	elapsed := now.Sub(time.Unix(d.override.IssuedAt, 0)).Minutes()
	if d.override.DurationMinutes > 0 && elapsed >= float64(d.override.DurationMinutes) {
		ClearOverride(d.paths.Override)
		d.override = OverrideState{}
		return
	}
	d.enterManualMode(now, d.override)
}

func (d *daemonState) enterManualMode(now time.Time, o OverrideState) {
	start := o.StartTemp
	if start == 0 {
		if d.haveApplied {
			start = int(d.lastAppliedTemp)
		} else {
			start = int(d.computeSolarTemp(now))
		}
		o.StartTemp = start
		if err := SaveOverride(d.paths.Override, o); err != nil {
			log.Printf("failed to persist start_temp fill-in: %v", err)
		}
	}
	d.override = o
	d.manualMode = true
	d.lastObservedIssuedAt = o.IssuedAt
	if d.location.Valid {
		d.resumeTime = NextTransitionResume(now, d.location.Latitude, d.location.Longitude)
	} else {
		d.resumeTime = now.Add(24 * time.Hour)
	}
}

func (d *daemonState) exitManualMode() {
	d.manualMode = false
}

func (d *daemonState) handleFileChanged(path string, now time.Time) {
	switch path {
	case d.paths.Override:
		o := LoadOverride(d.paths.Override)
		if o.Active {
			if o.IssuedAt != d.lastObservedIssuedAt {
				log.Printf("override changed: target=%dK duration=%dmin", o.TargetTemp, o.DurationMinutes)
				d.enterManualMode(now, o)
			}
		} else if d.manualMode {
			log.Println("override cleared")
			d.exitManualMode()
		}
	case d.paths.ConfigINI:
		if loc := LoadLocation(d.paths.ConfigINI); loc.Valid {
			d.location = loc
		}
		d.weather = LoadWeatherCache(d.paths.WeatherCache)
	case d.paths.WeatherCache:
		d.weather = LoadWeatherCache(d.paths.WeatherCache)
	default:
		// Unrelated file under the config directory; nothing to do.
	}
}

func (d *daemonState) tick(now time.Time) {
	if !d.weatherInFlight && d.weather.Stale(now) && d.location.Valid {
		d.weatherInFlight = true
		FetchWeatherAsync(d.location.Latitude, d.location.Longitude, d.weatherResultCh)
	}

	if d.manualMode {
		elapsed := now.Sub(time.Unix(d.override.IssuedAt, 0))
		pastDuration := d.override.DurationMinutes <= 0 || elapsed >= time.Duration(d.override.DurationMinutes)*time.Minute
		if pastDuration && !now.Before(d.resumeTime) {
			d.exitManualMode()
			ClearOverride(d.paths.Override)
		}
	}

	var target float64
	if d.manualMode {
		target = CalculateManualTemp(d.override.StartTemp, d.override.TargetTemp, time.Unix(d.override.IssuedAt, 0), d.override.DurationMinutes, now)
	} else {
		target = d.computeSolarTemp(now)
	}
	d.applyTemperature(target)
}

func (d *daemonState) shutdown() {
	if d.weatherInFlight {
		// A fetch still in flight is not cancelled or signalled here: its
		// goroutine and any fetcher child it started are left to finish on
		// their own, bounded by the fetcher's per-request timeout.
		d.weatherInFlight = false
	}
	if err := d.backend.Free(); err != nil {
		log.Printf("error restoring gamma on shutdown: %v", err)
	}
}
