// SPDX-License-Identifier: MIT
package analysis

import "gonum.org/v1/gonum/dsp/window"

// HannWindow returns the symmetric Hann window of length n,
// w[i] = 0.5*(1 - cos(2*pi*i/(n-1))), so both endpoints are zero.
func HannWindow(n int) []float64 {
	coeffs := make([]float64, n)
	// window functions scale in place, so start from ones.
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	if n > 1 {
		window.Hann(coeffs)
	}
	return coeffs
}
