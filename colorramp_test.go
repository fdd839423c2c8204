package main

import "testing"

func TestBuildGammaRampInvariants(t *testing.T) {
	temps := []float64{1000, 2900, 4500, 6500, 9000, 25000}
	betas := []float64{0, 0.3, 0.6, 1.0}

	for _, temp := range temps {
		for _, beta := range betas {
			ramp := BuildGammaRamp(temp, beta, 256)
			if len(ramp.R) != 256 || len(ramp.G) != 256 || len(ramp.B) != 256 {
				t.Fatalf("temp=%v beta=%v: ramp length mismatch R=%d G=%d B=%d", temp, beta, len(ramp.R), len(ramp.G), len(ramp.B))
			}
			if ramp.R[0] != 0 || ramp.G[0] != 0 || ramp.B[0] != 0 {
				t.Errorf("temp=%v beta=%v: index 0 not zero: R=%d G=%d B=%d", temp, beta, ramp.R[0], ramp.G[0], ramp.B[0])
			}
			for _, ch := range [][]uint16{ramp.R, ramp.G, ramp.B} {
				for i, v := range ch {
					if v > 65535 {
						t.Fatalf("temp=%v beta=%v index=%d: value %d exceeds 65535", temp, beta, i, v)
					}
				}
			}
		}
	}
}

func TestBuildGammaRampNonAliased(t *testing.T) {
	ramp := BuildGammaRamp(6500, 1.0, 16)
	ramp.R[0] = 1234
	if ramp.G[0] == 1234 || ramp.B[0] == 1234 {
		t.Error("R, G, B slices alias each other")
	}
}

func TestTemperatureToMultipliersBounds(t *testing.T) {
	for _, k := range []float64{500, 1000, 6500, 25000, 40000} {
		r, g, b := temperatureToMultipliers(k)
		for name, v := range map[string]float64{"r": r, "g": g, "b": b} {
			if v < 0 || v > 1 {
				t.Errorf("kelvin=%v: %s multiplier %v out of [0,1]", k, name, v)
			}
		}
	}
}

func TestTemperatureToMultipliersWarmerIsRedder(t *testing.T) {
	rWarm, _, bWarm := temperatureToMultipliers(2900)
	rCool, _, bCool := temperatureToMultipliers(6500)
	if rWarm < rCool {
		t.Errorf("expected warm (2900K) red multiplier >= cool (6500K): warm=%v cool=%v", rWarm, rCool)
	}
	if bWarm > bCool {
		t.Errorf("expected warm (2900K) blue multiplier <= cool (6500K): warm=%v cool=%v", bWarm, bCool)
	}
}
