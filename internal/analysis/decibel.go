// SPDX-License-Identifier: MIT
package analysis

import "math"

// Fixed display window in decibels.
const (
	DBMin = -120.0
	DBMax = 0.0
)

const (
	magnitudeFloor = 1e-10
	logFloor       = -10.0
)

// LogMagnitude returns log10(mag), or -10 for magnitudes at or below 1e-10.
func LogMagnitude(mag float64) float64 {
	if mag > magnitudeFloor {
		return math.Log10(mag)
	}
	return logFloor
}

// ToDecibels maps a magnitude to 20*log10(mag) with a -200 dB floor.
func ToDecibels(mag float64) float64 {
	return 20 * LogMagnitude(mag)
}

// DecibelsToIntensity rescales db from [DBMin, DBMax] to [0, 1], clamping
// outside values. Non-finite input maps to 0.
func DecibelsToIntensity(db float64) float64 {
	v := (db - DBMin) / (DBMax - DBMin)
	switch {
	case math.IsNaN(v), math.IsInf(v, 0):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ToIntensity maps a magnitude straight to a normalized intensity.
func ToIntensity(mag float64) float64 {
	return DecibelsToIntensity(ToDecibels(mag))
}
