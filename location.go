package main

import (
	"fmt"
	"strconv"
	"strings"
)

// Location is the (lat, lon) pair the rest of the daemon consumes
// (spec.md §3). Valid is false when the backing file is missing, malformed,
// or the parsed coordinates are out of range.
type Location struct {
	Latitude  float64
	Longitude float64
	Valid     bool
}

func (l Location) inRange() bool {
	return l.Latitude >= -90 && l.Latitude <= 90 && l.Longitude >= -180 && l.Longitude <= 180
}

// LoadLocation reads the [location] section of config.ini. A missing file,
// malformed entries, or out-of-range coordinates all yield Valid=false
// rather than an error — spec.md §7 treats location parse failures as
// "location invalid", never a fatal condition for the daemon.
func LoadLocation(path string) Location {
	values, err := readINISection(path, "location")
	if err != nil {
		return Location{}
	}

	lat, errLat := strconv.ParseFloat(values["latitude"], 64)
	lon, errLon := strconv.ParseFloat(values["longitude"], 64)
	if errLat != nil || errLon != nil {
		return Location{}
	}

	loc := Location{Latitude: lat, Longitude: lon}
	loc.Valid = loc.inRange()
	return loc
}

// SaveLocation writes config.ini in the fixed canonical six-decimal form
// spec.md §4.5 requires.
func SaveLocation(path string, loc Location) error {
	values := map[string]string{
		"latitude":  strconv.FormatFloat(loc.Latitude, 'f', 6, 64),
		"longitude": strconv.FormatFloat(loc.Longitude, 'f', 6, 64),
	}
	if err := writeINISection(path, "location", []string{"latitude", "longitude"}, values); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrFilesystem, path, err)
	}
	return nil
}

// ParseLatLon parses the CLI's "lat,lon" form (spec.md §6 --set-location).
func ParseLatLon(s string) (Location, error) {
	lat, lon, ok := strings.Cut(s, ",")
	if !ok {
		return Location{}, fmt.Errorf("%w: expected lat,lon, got %q", ErrInvalidInput, s)
	}
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: bad latitude %q", ErrInvalidInput, lat)
	}
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Location{}, fmt.Errorf("%w: bad longitude %q", ErrInvalidInput, lon)
	}
	loc := Location{Latitude: latF, Longitude: lonF}
	if !loc.inRange() {
		return Location{}, fmt.Errorf("%w: lat/lon out of range: %s", ErrInvalidInput, s)
	}
	loc.Valid = true
	return loc, nil
}
