package main

import (
	"math"
	"time"
)

// SunPosition is the sun's elevation at a specific instant (spec.md §3).
type SunPosition struct {
	ElevationDegrees float64
}

// SunTimes is a calendar day's sunrise/sunset (spec.md §3). Valid is false
// iff the location is polar for that day.
type SunTimes struct {
	Sunrise time.Time
	Sunset  time.Time
	Valid   bool
}

const degToRad = math.Pi / 180
const radToDeg = 180 / math.Pi

// julianDay converts a local instant to a Julian day number, folding in the
// timezone offset so the NOAA formulas below operate on UTC consistently
// (spec.md §4.1).
func julianDay(t time.Time) float64 {
	u := t.UTC()
	y, m, d := u.Date()
	if m <= 2 {
		y--
		m += 12
	}
	a := math.Floor(float64(y) / 100)
	b := 2 - a + math.Floor(a/4)
	dayFrac := float64(d) + (float64(u.Hour())+float64(u.Minute())/60+float64(u.Second())/3600)/24
	return math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) + dayFrac + b - 1524.5
}

// julianCentury is T = (JD - 2451545) / 36525 (spec.md §4.1).
func julianCentury(jd float64) float64 {
	return (jd - 2451545) / 36525
}

// solarElements computes the handful of NOAA closed-form solar elements
// shared by both the elevation and sunrise/sunset calculations: geometric
// mean longitude, mean anomaly, eccentricity, equation of center, apparent
// longitude, corrected obliquity, declination, and equation of time
// (spec.md §4.1).
type solarElements struct {
	declination   float64 // radians
	equationOfTime float64 // minutes
}

func computeSolarElements(T float64) solarElements {
	L0 := math.Mod(280.46646+T*(36000.76983+T*0.0003032), 360)
	M := 357.52911 + T*(35999.05029-0.0001537*T)
	Mrad := M * degToRad
	e := 0.016708634 - T*(0.000042037+0.0000001267*T)

	C := math.Sin(Mrad)*(1.914602-T*(0.004817+0.000014*T)) +
		math.Sin(2*Mrad)*(0.019993-0.000101*T) +
		math.Sin(3*Mrad)*0.000289
	trueLong := L0 + C

	omega := 125.04 - 1934.136*T
	appLong := trueLong - 0.00569 - 0.00478*math.Sin(omega*degToRad)

	meanObliq := 23 + (26+((21.448-T*(46.815+T*(0.00059-T*0.001813))))/60)/60
	correctedObliq := meanObliq + 0.00256*math.Cos(omega*degToRad)

	decl := math.Asin(math.Sin(correctedObliq*degToRad) * math.Sin(appLong*degToRad))

	y := math.Tan((correctedObliq/2)*degToRad)
	y *= y
	L0rad := L0 * degToRad
	eot := y*math.Sin(2*L0rad) - 2*e*math.Sin(Mrad) +
		4*e*y*math.Sin(Mrad)*math.Cos(2*L0rad) -
		0.5*y*y*math.Sin(4*L0rad) - 1.25*e*e*math.Sin(2*Mrad)
	eot *= radToDeg * 4 // radians -> degrees -> minutes

	return solarElements{declination: decl, equationOfTime: eot}
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// SolarPosition returns the sun's elevation above the horizon for the given
// instant and location (spec.md §4.1). tzOffsetHours is the local zone's
// offset from UTC in effect at t.
func SolarPosition(t time.Time, lat, lon float64) SunPosition {
	_, tzOffsetSeconds := t.Zone()
	tzOffsetHours := float64(tzOffsetSeconds) / 3600

	T := julianCentury(julianDay(t))
	el := computeSolarElements(T)

	localMinutes := float64(t.Hour()*60+t.Minute()) + float64(t.Second())/60
	trueSolarTime := localMinutes + el.equationOfTime + 4*lon - 60*tzOffsetHours

	H := trueSolarTime/4 - 180
	for H < -180 {
		H += 360
	}
	for H > 180 {
		H -= 360
	}
	Hrad := H * degToRad

	phi := lat * degToRad
	cosZenith := clamp(math.Sin(phi)*math.Sin(el.declination)+math.Cos(phi)*math.Cos(el.declination)*math.Cos(Hrad), -1, 1)
	elevation := 90 - math.Acos(cosZenith)*radToDeg

	return SunPosition{ElevationDegrees: elevation}
}

// SunriseSunset computes the given day's sunrise and sunset for the
// location, using the standard 90.833° zenith (atmospheric refraction plus
// the sun's apparent radius). Valid is false for polar days where the hour
// angle equation has no solution (spec.md §4.1, §3).
func SunriseSunset(day time.Time, lat, lon float64) SunTimes {
	localNoon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, day.Location())
	_, tzOffsetSeconds := localNoon.Zone()
	tzOffsetHours := float64(tzOffsetSeconds) / 3600

	T := julianCentury(julianDay(localNoon))
	el := computeSolarElements(T)

	phi := lat * degToRad
	const zenith = 90.833 * degToRad

	cosH := (math.Cos(zenith) - math.Sin(phi)*math.Sin(el.declination)) / (math.Cos(phi) * math.Cos(el.declination))
	if cosH < -1 || cosH > 1 {
		return SunTimes{Valid: false}
	}
	H := math.Acos(cosH) * radToDeg

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

	sunriseMinutes := 720 - 4*(lon+H) - el.equationOfTime + 60*tzOffsetHours
	sunsetMinutes := 720 - 4*(lon-H) - el.equationOfTime + 60*tzOffsetHours

	return SunTimes{
		Sunrise: midnight.Add(time.Duration(sunriseMinutes * float64(time.Minute))),
		Sunset:  midnight.Add(time.Duration(sunsetMinutes * float64(time.Minute))),
		Valid:   true,
	}
}
