package main

import (
	"math"
	"time"
)

// sigmoidBase is s(x, k) = 1 / (1 + e^(-k*x)).
func sigmoidBase(x, k float64) float64 {
	return 1 / (1 + math.Exp(-k*x))
}

// NormalizedSigmoid is S(x, k), normalized so that S(-1, k) = 0 and
// S(1, k) = 1 exactly, with no endpoint drift (spec.md §4.2).
func NormalizedSigmoid(x, k float64) float64 {
	lo := sigmoidBase(-1, k)
	hi := sigmoidBase(1, k)
	return (sigmoidBase(x, k) - lo) / (hi - lo)
}

// CalculateSolarTemp implements spec.md §4.2's solar temperature curve:
// dawn and dusk are the same sigmoid transition with only the sign/axis of
// x differing, full day holds at the clear/dark ceiling, full night holds
// at the floor.
func CalculateSolarTemp(minutesSinceSunrise, minutesUntilSunset float64, darkMode bool) float64 {
	day := TempDayClear
	if darkMode {
		day = TempDayDark
	}
	night := float64(TempNight)

	dawnHalf := DawnDurationMinutes / 2.0
	duskHalf := DuskDurationMinutes / 2.0

	switch {
	case math.Abs(minutesSinceSunrise) < dawnHalf:
		x := minutesSinceSunrise / dawnHalf
		return night + (float64(day)-night)*NormalizedSigmoid(x, SigmoidSteepness)
	case math.Abs(minutesUntilSunset) < duskHalf:
		x := minutesUntilSunset / duskHalf
		return night + (float64(day)-night)*NormalizedSigmoid(x, SigmoidSteepness)
	case minutesSinceSunrise >= dawnHalf && minutesUntilSunset >= duskHalf:
		return float64(day)
	default:
		return night
	}
}

// CalculateManualTemp implements spec.md §4.2's manual-override blend.
// duration<=0 means an instant jump to target.
func CalculateManualTemp(startTemp, targetTemp int, startTime time.Time, durationMinutes int, now time.Time) float64 {
	if durationMinutes <= 0 {
		return float64(targetTemp)
	}
	elapsedMinutes := now.Sub(startTime).Minutes()
	if elapsedMinutes >= float64(durationMinutes) {
		return float64(targetTemp)
	}
	x := 2*elapsedMinutes/float64(durationMinutes) - 1
	return float64(startTemp) + float64(targetTemp-startTemp)*NormalizedSigmoid(x, SigmoidSteepness)
}

// NextTransitionResume implements spec.md §4.2's auto-resume scheduling:
// the earliest of {today's dawn window start, today's dusk window start,
// tomorrow's dawn window start} minus 15 minutes that is strictly in the
// future. Polar-invalid regions resume 24h from now.
func NextTransitionResume(now time.Time, lat, lon float64) time.Time {
	today := SunriseSunset(now, lat, lon)
	if !today.Valid {
		return now.Add(24 * time.Hour)
	}

	dawnHalf := time.Duration(DawnDurationMinutes/2) * time.Minute
	duskHalf := time.Duration(DuskDurationMinutes/2) * time.Minute
	lead := 15 * time.Minute

	todayDawnResume := today.Sunrise.Add(-dawnHalf).Add(-lead)
	todayDuskResume := today.Sunset.Add(-duskHalf).Add(-lead)

	candidates := []time.Time{todayDawnResume, todayDuskResume}

	tomorrow := SunriseSunset(now.AddDate(0, 0, 1), lat, lon)
	if tomorrow.Valid {
		candidates = append(candidates, tomorrow.Sunrise.Add(-dawnHalf).Add(-lead))
	}

	var best time.Time
	found := false
	for _, c := range candidates {
		if c.After(now) && (!found || c.Before(best)) {
			best = c
			found = true
		}
	}
	if !found {
		return now.Add(24 * time.Hour)
	}
	return best
}
