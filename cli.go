package main

import (
	"fmt"
	"os"
	"time"
)

// cmdStatus implements `--status` (spec.md §6).
func cmdStatus(paths Paths) error {
	loc := LoadLocation(paths.ConfigINI)
	now := time.Now()

	fmt.Printf("date: %s\n", now.Format("2006-01-02 15:04:05 MST"))
	if !loc.Valid {
		fmt.Println("location: not configured")
	} else {
		fmt.Printf("location: %.6f, %.6f\n", loc.Latitude, loc.Longitude)
		times := SunriseSunset(now, loc.Latitude, loc.Longitude)
		pos := SolarPosition(now, loc.Latitude, loc.Longitude)
		if times.Valid {
			fmt.Printf("sunrise: %s\n", times.Sunrise.Format("15:04:05"))
			fmt.Printf("sunset: %s\n", times.Sunset.Format("15:04:05"))
		} else {
			fmt.Println("sunrise/sunset: not defined (polar day/night)")
		}
		fmt.Printf("sun elevation: %.1f deg\n", pos.ElevationDegrees)
	}

	weather := LoadWeatherCache(paths.WeatherCache)
	if weather.HasError {
		fmt.Println("weather: not available")
	} else {
		fmt.Printf("weather: %s, %.0f%% cloud cover\n", weather.Forecast, float64(weather.CloudCover))
	}

	override := LoadOverride(paths.Override)
	if override.Active {
		fmt.Printf("mode: manual override, target %dK over %d min, issued %s\n",
			override.TargetTemp, override.DurationMinutes, time.Unix(override.IssuedAt, 0).Format("15:04:05"))
	} else {
		darkMode := weather.CloudCover >= CloudThreshold
		target := TempDayClear
		label := "clear"
		if darkMode {
			target = TempDayDark
			label = "dark"
		}
		fmt.Printf("mode: %s, target %dK\n", label, target)
	}

	if !IsDaemonAlive(paths.PIDFile) {
		fmt.Println("daemon: not running")
	} else {
		fmt.Println("daemon: running")
	}
	return nil
}

// cmdSet implements `--set TEMP [MINUTES]`.
func cmdSet(paths Paths, temp, durationMinutes int) error {
	if temp < int(TempMinKelvin) || temp > int(TempMaxKelvin) {
		return fmt.Errorf("%w: temperature %d out of range [%d, %d]", ErrInvalidInput, temp, int(TempMinKelvin), int(TempMaxKelvin))
	}
	o := NewOverrideIssuedNow(temp, durationMinutes)
	if err := SaveOverride(paths.Override, o); err != nil {
		return fmt.Errorf("%w: save override: %v", ErrFilesystem, err)
	}
	warnIfDaemonNotAlive(paths)
	return nil
}

// cmdResume implements `--resume`.
func cmdResume(paths Paths) error {
	if err := ClearOverride(paths.Override); err != nil {
		return fmt.Errorf("%w: clear override: %v", ErrFilesystem, err)
	}
	warnIfDaemonNotAlive(paths)
	return nil
}

// cmdSetLocation implements `--set-location LOC`.
func cmdSetLocation(paths Paths, arg string) error {
	loc, err := resolveLocationArg(paths, arg)
	if err != nil {
		return err
	}
	if err := SaveLocation(paths.ConfigINI, loc); err != nil {
		return fmt.Errorf("%w: save location: %v", ErrFilesystem, err)
	}
	warnIfDaemonNotAlive(paths)
	return nil
}

func resolveLocationArg(paths Paths, arg string) (Location, error) {
	if loc, err := ParseLatLon(arg); err == nil {
		return loc, nil
	}
	if len(arg) == 5 {
		tbl, err := OpenZipTable(paths.ZipDB)
		if err != nil {
			return Location{}, fmt.Errorf("%w: open zip table: %v", ErrFilesystem, err)
		}
		defer tbl.Close()
		lat, lon, err := tbl.Lookup(arg)
		if err != nil {
			return Location{}, err
		}
		return Location{Latitude: lat, Longitude: lon, Valid: true}, nil
	}
	return Location{}, fmt.Errorf("%w: %q is neither lat,lon nor a 5-digit zip", ErrInvalidInput, arg)
}

// cmdRefresh implements `--refresh`: a synchronous weather fetch performed
// by the CLI itself; the daemon observes the rewritten cache file via
// inotify on its next tick.
func cmdRefresh(paths Paths) error {
	loc := LoadLocation(paths.ConfigINI)
	if !loc.Valid {
		return fmt.Errorf("%w: no location configured", ErrMissingEnv)
	}
	resultCh := make(chan WeatherData, 1)
	FetchWeatherAsync(loc.Latitude, loc.Longitude, resultCh)
	w := <-resultCh
	if err := SaveWeatherCache(paths.WeatherCache, w); err != nil {
		return fmt.Errorf("%w: save weather cache: %v", ErrFilesystem, err)
	}
	if w.HasError {
		fmt.Println("weather: fetch failed")
	} else {
		fmt.Printf("weather: %s, %d%% cloud cover\n", w.Forecast, w.CloudCover)
	}
	return nil
}

// cmdReset implements `--reset`: construct a short-lived dispatcher handle,
// restore gamma, release it.
func cmdReset() error {
	backend, err := OpenGammaBackend(DefaultCardNumber)
	if err != nil {
		return err
	}
	defer backend.Free()
	return backend.Restore()
}

func warnIfDaemonNotAlive(paths Paths) {
	if !IsDaemonAlive(paths.PIDFile) {
		fmt.Fprintln(os.Stderr, "warning: daemon not running, change will take effect once it starts")
	}
}
