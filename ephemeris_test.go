package main

import (
	"math"
	"testing"
	"time"
)

func TestSolarPositionElevationInRange(t *testing.T) {
	locations := [][2]float64{
		{41.88, -87.63},
		{-33.87, 151.21},
		{0, 0},
		{64.0, -21.9},
	}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, loc := range locations {
		for day := 0; day < 365; day += 5 {
			instant := base.AddDate(0, 0, day)
			pos := SolarPosition(instant, loc[0], loc[1])
			if pos.ElevationDegrees < -90 || pos.ElevationDegrees > 90 {
				t.Fatalf("lat=%v lon=%v day=%v: elevation %v out of [-90,90]", loc[0], loc[1], day, pos.ElevationDegrees)
			}
		}
	}
}

func TestSunriseSunsetValidForMidLatitudes(t *testing.T) {
	lat, lon := 41.88, -87.63
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 366; day++ {
		instant := base.AddDate(0, 0, day)
		times := SunriseSunset(instant, lat, lon)
		if !times.Valid {
			t.Fatalf("day %d: expected valid sunrise/sunset at non-polar latitude %v", day, lat)
		}
		if !times.Sunrise.Before(times.Sunset) {
			t.Errorf("day %d: sunrise %v not before sunset %v", day, times.Sunrise, times.Sunset)
		}
	}
}

func TestSolarPositionNoonChicagoSummerSolstice(t *testing.T) {
	loc := time.FixedZone("CDT", -5*3600)
	instant := time.Date(2024, 6, 21, 12, 0, 0, 0, loc)
	pos := SolarPosition(instant, 41.88, -87.63)
	if math.Abs(pos.ElevationDegrees-72) > 5 {
		t.Errorf("expected elevation near 72 deg at Chicago noon solstice, got %v", pos.ElevationDegrees)
	}
}

func TestJulianDayMonotonic(t *testing.T) {
	a := julianDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := julianDay(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	if b-a != 1 {
		t.Errorf("julianDay difference over one day = %v, want 1", b-a)
	}
}
