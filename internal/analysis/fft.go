// SPDX-License-Identifier: MIT
package analysis

import "fmt"

// Spectrum holds fft-size/2 non-negative magnitudes. Bin k sits at
// k*sampleRate/fftSize Hz.
type Spectrum []float32

// analyzerWorkspace holds pre-allocated buffers reused for every frame.
type analyzerWorkspace struct {
	input  []float64 // windowed frame
	window []float64 // Hann coefficients
}

// Analyzer turns frames into magnitude spectra: Hann window, forward DFT,
// magnitude of bins [0, N/2). No normalization is applied. An Analyzer is not
// safe for concurrent use; parallel callers create one each.
type Analyzer struct {
	fftSize   int
	backend   Backend
	transform transform
	workspace analyzerWorkspace
}

// NewAnalyzer creates an Analyzer for frames of fftSize samples.
func NewAnalyzer(fftSize int, backend Backend) (*Analyzer, error) {
	if fftSize <= 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFrameSize, fftSize)
	}
	t, err := newTransform(fftSize, backend)
	if err != nil {
		return nil, err
	}
	if backend == "" {
		backend = BackendGonum
	}

	return &Analyzer{
		fftSize:   fftSize,
		backend:   backend,
		transform: t,
		workspace: analyzerWorkspace{
			input:  make([]float64, fftSize),
			window: HannWindow(fftSize),
		},
	}, nil
}

func (a *Analyzer) FFTSize() int      { return a.fftSize }
func (a *Analyzer) Bins() int         { return a.fftSize / 2 }
func (a *Analyzer) Backend() Backend  { return a.backend }
func (a *Analyzer) Window() []float64 { return a.workspace.window }

// Spectrum analyses a single frame into a newly allocated Spectrum.
func (a *Analyzer) Spectrum(frame Frame) Spectrum {
	dst := make(Spectrum, a.Bins())
	a.SpectrumInto(dst, frame)
	return dst
}

// SpectrumInto analyses frame into dst, which must hold Bins() values. With
// the gonum backend this does not allocate. Frames shorter than the FFT size
// are zero padded.
func (a *Analyzer) SpectrumInto(dst Spectrum, frame Frame) {
	in := a.workspace.input
	w := a.workspace.window
	n := len(frame)
	for i := range a.fftSize {
		if i < n {
			in[i] = float64(frame[i]) * w[i]
		} else {
			in[i] = 0
		}
	}
	a.transform.magnitudes(dst[:a.Bins()], in)
}

// BinFrequency returns the centre frequency in Hz of bin k.
func BinFrequency(k, sampleRate, fftSize int) float64 {
	if fftSize <= 0 {
		return 0
	}
	return float64(k) * float64(sampleRate) / float64(fftSize)
}
