package main

import "math"

// GammaRamp holds three non-aliased per-channel 16-bit lookup tables
// (spec.md §3, §4.3).
type GammaRamp struct {
	R, G, B []uint16
}

// temperatureToMultipliers converts a Kelvin temperature to per-channel
// multipliers in [0, 1] using the Tanner Helland blackbody approximation,
// adapted from the gamma-only 0.3-floor version in
// Escobarq-luz-nocturna/internal/system/gamma.go into a per-channel
// multiplier with no 0.3 floor, clamped only to [0, 1] (spec.md §4.3).
func temperatureToMultipliers(kelvin float64) (r, g, b float64) {
	t := clamp(kelvin, TempMinKelvin, TempMaxKelvin) / 100

	var r255, g255, b255 float64

	if t <= 66 {
		r255 = 255
	} else {
		r255 = 329.698727446 * math.Pow(t-60, -0.1332047592)
	}

	if t <= 66 {
		g255 = 99.4708025861*math.Log(t) - 161.1195681661
	} else {
		g255 = 288.1221695283 * math.Pow(t-60, -0.0755148492)
	}

	if t >= 66 {
		b255 = 255
	} else if t <= 19 {
		b255 = 0
	} else {
		b255 = 138.5177312231*math.Log(t-10) - 305.0447927307
	}

	r = clamp(r255, 0, 255) / 255
	g = clamp(g255, 0, 255) / 255
	b = clamp(b255, 0, 255) / 255
	return r, g, b
}

// BuildGammaRamp generates three ramps of length n for temperature kelvin
// and brightness beta, per spec.md §4.3: channel[i] = clamp(round(i/(n-1) *
// 65535 * mult * beta), 0, 65535). The three slices are freshly allocated
// so they never alias.
func BuildGammaRamp(kelvin float64, beta float64, n int) GammaRamp {
	rMul, gMul, bMul := temperatureToMultipliers(kelvin)
	beta = clamp(beta, 0, 1)

	ramp := GammaRamp{
		R: make([]uint16, n),
		G: make([]uint16, n),
		B: make([]uint16, n),
	}

	denom := float64(n - 1)
	if denom <= 0 {
		denom = 1
	}

	for i := 0; i < n; i++ {
		frac := float64(i) / denom
		ramp.R[i] = scaleChannel(frac, rMul, beta)
		ramp.G[i] = scaleChannel(frac, gMul, beta)
		ramp.B[i] = scaleChannel(frac, bMul, beta)
	}
	return ramp
}

func scaleChannel(frac, mult, beta float64) uint16 {
	v := math.Round(frac * 65535 * mult * beta)
	return uint16(clamp(v, 0, 65535))
}

// LinearGammaRamp builds the identity ramp (channel[i] = i/(n-1) * 65535 on
// all three channels), used to restore a display to an unmodified gamma
// when a backend has no way to read back its previous ramp.
func LinearGammaRamp(n int) GammaRamp {
	ramp := GammaRamp{
		R: make([]uint16, n),
		G: make([]uint16, n),
		B: make([]uint16, n),
	}
	denom := float64(n - 1)
	if denom <= 0 {
		denom = 1
	}
	for i := 0; i < n; i++ {
		v := uint16(clamp(math.Round(float64(i)/denom*65535), 0, 65535))
		ramp.R[i] = v
		ramp.G[i] = v
		ramp.B[i] = v
	}
	return ramp
}
