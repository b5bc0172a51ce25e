// SPDX-License-Identifier: MIT
package analysis

import (
	"math"

	applog "spectro/internal/log"

	"golang.org/x/sync/errgroup"
)

// Options controls ComputeSpectra.
type Options struct {
	Backend Backend
	// Workers is the number of frames analysed concurrently. Values below 2
	// select the sequential path.
	Workers int
}

// ComputeSpectra analyses every frame and returns the spectra in frame order.
// With more than one worker the frames are split into contiguous chunks, each
// analysed by its own Analyzer, and every result is written to its frame's
// slot so the output matches the sequential path exactly.
func ComputeSpectra(frames *Frames, opts Options) ([]Spectrum, error) {
	n := frames.Count()
	bins := frames.Size() / 2
	spectra := make([]Spectrum, n)
	backing := make([]float32, n*bins)
	for i := range spectra {
		spectra[i] = Spectrum(backing[i*bins : (i+1)*bins : (i+1)*bins])
	}

	workers := min(max(opts.Workers, 1), max(n, 1))
	if workers == 1 {
		a, err := NewAnalyzer(frames.Size(), opts.Backend)
		if err != nil {
			return nil, err
		}
		for i, frame := range frames.All() {
			a.SpectrumInto(spectra[i], frame)
		}
		return spectra, nil
	}

	applog.Debugf("analysis: %d frames across %d workers", n, workers)

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			a, err := NewAnalyzer(frames.Size(), opts.Backend)
			if err != nil {
				return err
			}
			for i := start; i < end; i++ {
				a.SpectrumInto(spectra[i], frames.At(i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return spectra, nil
}

// Stats summarizes a set of spectra for diagnostics.
type Stats struct {
	Frames     int
	Bins       int
	MinLog     float64 // smallest log10 magnitude
	MaxLog     float64 // largest log10 magnitude
	NonZero    int     // bins above the magnitude floor
	MinDB      float64
	MaxDB      float64
	MeanLevel  float64 // mean normalized intensity
	Normalized bool    // every value within [0, 1]
}

// Summarize computes Stats over spectra. An empty input yields zero Stats.
func Summarize(spectra []Spectrum) Stats {
	var s Stats
	if len(spectra) == 0 {
		return s
	}
	s.Frames = len(spectra)
	s.Bins = len(spectra[0])
	s.MinLog, s.MaxLog = math.Inf(1), math.Inf(-1)
	s.Normalized = true

	var sum float64
	var total int
	for _, spec := range spectra {
		for _, m := range spec {
			mag := float64(m)
			lm := LogMagnitude(mag)
			s.MinLog = min(s.MinLog, lm)
			s.MaxLog = max(s.MaxLog, lm)
			if mag > magnitudeFloor {
				s.NonZero++
			}
			v := ToIntensity(mag)
			if v < 0 || v > 1 {
				s.Normalized = false
			}
			sum += v
			total++
		}
	}
	if total == 0 {
		return Stats{Frames: s.Frames, Bins: s.Bins}
	}
	s.MinDB = 20 * s.MinLog
	s.MaxDB = 20 * s.MaxLog
	s.MeanLevel = sum / float64(total)
	return s
}
