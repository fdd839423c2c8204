package main

import (
	"math"
	"testing"
	"time"
)

func TestNormalizedSigmoidEndpoints(t *testing.T) {
	for _, k := range []float64{0.1, 1, 6, 10, 50} {
		lo := NormalizedSigmoid(-1, k)
		hi := NormalizedSigmoid(1, k)
		if math.Abs(lo-0) > 1e-12 {
			t.Errorf("k=%v: S(-1,k) = %v, want 0", k, lo)
		}
		if math.Abs(hi-1) > 1e-12 {
			t.Errorf("k=%v: S(1,k) = %v, want 1", k, hi)
		}
	}
}

func TestCalculateSolarTempAtSunriseIsMidpoint(t *testing.T) {
	for _, darkMode := range []bool{false, true} {
		day := float64(TempDayClear)
		if darkMode {
			day = float64(TempDayDark)
		}
		mid := (day + float64(TempNight)) / 2

		got := CalculateSolarTemp(0, DuskDurationMinutes, darkMode)
		if math.Abs(got-mid) > 1 {
			t.Errorf("darkMode=%v: at sunrise got %v, want midpoint %v", darkMode, got, mid)
		}
	}
}

func TestCalculateSolarTempAtSunsetIsMidpoint(t *testing.T) {
	day := float64(TempDayClear)
	mid := (day + float64(TempNight)) / 2
	got := CalculateSolarTemp(DawnDurationMinutes, 0, false)
	if math.Abs(got-mid) > 1 {
		t.Errorf("at sunset got %v, want midpoint %v", got, mid)
	}
}

func TestCalculateSolarTempJustOutsideWindows(t *testing.T) {
	dawnHalf := DawnDurationMinutes / 2.0
	duskHalf := DuskDurationMinutes / 2.0

	got := CalculateSolarTemp(dawnHalf, duskHalf, false)
	if got != float64(TempDayClear) {
		t.Errorf("just outside dawn window: got %v, want %v", got, TempDayClear)
	}

	got = CalculateSolarTemp(-dawnHalf-1000, -duskHalf, false)
	if got != float64(TempNight) {
		t.Errorf("just outside dusk window (past sunset): got %v, want %v", got, TempNight)
	}
}

func TestCalculateManualTempBoundaries(t *testing.T) {
	start, target := 6500, 2900
	base := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

	if got := CalculateManualTemp(start, target, base, 0, base); got != float64(target) {
		t.Errorf("duration=0: got %v, want target %v", got, target)
	}
	if got := CalculateManualTemp(start, target, base, 30, base); got != float64(start) {
		t.Errorf("now=start: got %v, want start %v", got, start)
	}
	end := base.Add(30 * time.Minute)
	if got := CalculateManualTemp(start, target, base, 30, end); got != float64(target) {
		t.Errorf("now=start+duration: got %v, want target %v", got, target)
	}
}

func TestCalculateManualTempMonotone(t *testing.T) {
	start, target := 6500, 2900
	base := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	var prev float64 = -1
	for m := 0; m <= 30; m++ {
		now := base.Add(time.Duration(m) * time.Minute)
		got := CalculateManualTemp(start, target, base, 30, now)
		if prev >= 0 && got > prev {
			t.Fatalf("manual temp not monotonically decreasing at minute %d: prev=%v got=%v", m, prev, got)
		}
		prev = got
	}
}

func TestNextTransitionResumeAlwaysFuture(t *testing.T) {
	now := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	resume := NextTransitionResume(now, 41.88, -87.63)
	if !resume.After(now) {
		t.Errorf("NextTransitionResume returned %v, want strictly after %v", resume, now)
	}
}
