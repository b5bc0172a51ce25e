// SPDX-License-Identifier: MIT
package audio

import "math"

// SampleBuffer is a mono signal with samples in [-1, 1]. It is built once by
// Downmix and only read afterwards.
type SampleBuffer struct {
	Samples    []float32
	SampleRate int
}

// Len returns the number of samples.
func (b SampleBuffer) Len() int {
	return len(b.Samples)
}

// Seconds returns the duration of the buffer.
func (b SampleBuffer) Seconds() float64 {
	if b.SampleRate <= 0 {
		return 0
	}
	return float64(len(b.Samples)) / float64(b.SampleRate)
}

// AbsRange returns the smallest and largest absolute sample values. Both are
// zero for an empty buffer.
func (b SampleBuffer) AbsRange() (lo, hi float32) {
	if len(b.Samples) == 0 {
		return 0, 0
	}
	lo = float32(math.MaxFloat32)
	for _, s := range b.Samples {
		a := float32(math.Abs(float64(s)))
		lo = min(lo, a)
		hi = max(hi, a)
	}
	return lo, hi
}

// Downmix reduces interleaved PCM to a mono SampleBuffer.
//
// Integer samples are divided by the largest absolute sample in the whole
// buffer, so the loudest sample lands on exactly ±1; silent input stays all
// zeros. Float samples pass through untouched. Each output sample is the mean
// of the first min(channels, 2) channels of its frame.
func Downmix(p *PCM) SampleBuffer {
	ch := p.channels()
	used := min(ch, 2)
	frames := p.Frames()
	out := SampleBuffer{
		Samples:    make([]float32, frames),
		SampleRate: p.SampleRate,
	}

	switch p.Format {
	case FormatFloat:
		for f := range frames {
			var sum float32
			for c := range used {
				sum += p.Floats[f*ch+c]
			}
			out.Samples[f] = sum / float32(used)
		}
	default:
		peak := PeakAbs(p.Ints)
		if peak == 0 {
			return out
		}
		scale := 1 / float64(peak)
		for f := range frames {
			var sum float64
			for c := range used {
				sum += float64(p.Ints[f*ch+c]) * scale
			}
			out.Samples[f] = float32(sum / float64(used))
		}
	}

	return out
}
