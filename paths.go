package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// Paths holds the five absolute filesystem paths derived from
// ${HOME}/.config/abraxas/ (the directory, config.ini, weather_cache.json,
// override.json, daemon.pid) plus the ZIP table path in the same directory
// (spec.md §3, §6).
type Paths struct {
	Dir           string
	ConfigINI     string
	WeatherCache  string
	Override      string
	PIDFile       string
	ZipDB         string
}

// ResolvePaths builds Paths from $HOME and ensures the config directory
// exists. Mirrors spec.md §4.5's "path init": fail if $HOME is unset,
// mkdir the directory idempotently with mode 0755.
func ResolvePaths() (Paths, error) {
	home := os.Getenv("HOME")
	if home == "" {
		return Paths{}, fmt.Errorf("%w: $HOME is not set", ErrMissingEnv)
	}

	dir := filepath.Join(home, ".config", "abraxas")
	p := Paths{
		Dir:          dir,
		ConfigINI:    filepath.Join(dir, "config.ini"),
		WeatherCache: filepath.Join(dir, "weather_cache.json"),
		Override:     filepath.Join(dir, "override.json"),
		PIDFile:      filepath.Join(dir, "daemon.pid"),
		ZipDB:        filepath.Join(dir, "us_zipcodes.bin"),
	}

	if err := os.MkdirAll(p.Dir, ConfigDirMode); err != nil {
		return Paths{}, fmt.Errorf("%w: creating config dir %s: %v", ErrFilesystem, p.Dir, err)
	}
	warnIfWorldWritable(p.Dir)

	return p, nil
}

// warnIfWorldWritable logs (non-fatally) if the config directory is
// group- or world-writable, an extrapolation of spec.md §4.5's "created
// with mode 0755" into a defensive check against a loosened umask or a
// pre-existing directory with looser permissions.
func warnIfWorldWritable(dir string) {
	info, err := os.Stat(dir)
	if err != nil {
		return
	}
	if info.Mode().Perm()&0o022 != 0 {
		log.Printf("warning: config dir %s is group/world-writable (mode %o)", dir, info.Mode().Perm())
	}
}
