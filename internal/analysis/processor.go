// SPDX-License-Identifier: MIT
package analysis

import (
	"fmt"
	"math/cmplx"
	"strings"

	dspfft "github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation an Analyzer uses.
type Backend string

const (
	// BackendGonum uses gonum's FFTPACK port. Sizes are expected to be powers
	// of two.
	BackendGonum Backend = "gonum"
	// BackendGoDSP uses go-dsp, which accepts any size.
	BackendGoDSP Backend = "godsp"
)

// ParseBackend converts a case-insensitive name to a Backend.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(name)); b {
	case BackendGonum, BackendGoDSP:
		return b, nil
	case "":
		return BackendGonum, nil
	default:
		return "", fmt.Errorf("unknown fft backend %q", name)
	}
}

// transform writes the magnitudes of the first len(dst) DFT bins of the real
// input into dst. Implementations own scratch space and are not safe for
// concurrent use.
type transform interface {
	magnitudes(dst []float32, input []float64)
}

var (
	_ transform = (*gonumTransform)(nil)
	_ transform = godspTransform{}
)

type gonumTransform struct {
	fft    *fourier.FFT
	coeffs []complex128 // n/2+1 coefficients for real input.
}

func newGonumTransform(n int) *gonumTransform {
	return &gonumTransform{
		fft:    fourier.NewFFT(n),
		coeffs: make([]complex128, n/2+1),
	}
}

func (t *gonumTransform) magnitudes(dst []float32, input []float64) {
	t.fft.Coefficients(t.coeffs, input)
	for k := range dst {
		dst[k] = float32(cmplx.Abs(t.coeffs[k]))
	}
}

type godspTransform struct{}

func (godspTransform) magnitudes(dst []float32, input []float64) {
	coeffs := dspfft.FFTReal(input)
	for k := range dst {
		dst[k] = float32(cmplx.Abs(coeffs[k]))
	}
}

func newTransform(n int, backend Backend) (transform, error) {
	switch backend {
	case BackendGonum, "":
		return newGonumTransform(n), nil
	case BackendGoDSP:
		return godspTransform{}, nil
	default:
		return nil, fmt.Errorf("unknown fft backend %q", backend)
	}
}
