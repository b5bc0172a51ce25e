// SPDX-License-Identifier: MIT
package audio

// PeakAbs returns the largest absolute value in samples, or 0 when empty.
// The scan is branchless so its cost does not depend on the signal.
func PeakAbs(samples []int) int {
	var peak int
	for _, sample := range samples {
		mask := sample >> 63
		amplitude := (sample ^ mask) - mask
		diff := amplitude - peak
		peak += (diff & (diff >> 63)) ^ diff
	}
	return peak
}

// Silent reports whether no sample exceeds threshold in absolute value.
func Silent(samples []int, threshold int) bool {
	return PeakAbs(samples) <= threshold
}
