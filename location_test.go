package main

import (
	"path/filepath"
	"testing"
)

func TestLocationRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.ini")
	want := Location{Latitude: 41.881832, Longitude: -87.623177, Valid: true}
	if err := SaveLocation(path, want); err != nil {
		t.Fatalf("SaveLocation: %v", err)
	}
	got := LoadLocation(path)
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadLocationMissingFileIsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.ini")
	got := LoadLocation(path)
	if got.Valid {
		t.Errorf("expected invalid location for missing file, got %+v", got)
	}
}

func TestParseLatLon(t *testing.T) {
	cases := []struct {
		in      string
		wantLat float64
		wantLon float64
		wantErr bool
	}{
		{"41.88,-87.63", 41.88, -87.63, false},
		{"0,0", 0, 0, false},
		{"not-a-location", 0, 0, true},
		{"41.88", 0, 0, true},
	}
	for _, c := range cases {
		loc, err := ParseLatLon(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ParseLatLon(%q): expected error, got %+v", c.in, loc)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLatLon(%q): unexpected error %v", c.in, err)
			continue
		}
		if loc.Latitude != c.wantLat || loc.Longitude != c.wantLon || !loc.Valid {
			t.Errorf("ParseLatLon(%q) = %+v, want lat=%v lon=%v", c.in, loc, c.wantLat, c.wantLon)
		}
	}
}
