// SPDX-License-Identifier: MIT
/*
Package analysis implements the short-time Fourier transform used to build a
spectrogram: framing a mono signal, windowing each frame, transforming it to
a magnitude spectrum and mapping magnitudes onto a fixed decibel window.
*/
package analysis

import (
	"errors"
	"iter"
)

var (
	ErrInvalidFrameSize = errors.New("frame size must be greater than 1")
	ErrInvalidHopSize   = errors.New("hop size must be greater than 0")
)

// Frame is a view of fft-size contiguous samples. It aliases the source
// buffer and must not be modified.
type Frame []float32

// Frames splits a sample buffer into overlapping frames. Only frames that fit
// entirely inside the buffer are produced.
type Frames struct {
	samples []float32
	size    int
	hop     int
	count   int
}

// FrameCount returns how many whole frames of size samples, advancing by hop,
// fit into length samples.
func FrameCount(length, size, hop int) int {
	if size <= 0 || hop <= 0 || length < size {
		return 0
	}
	return (length-size)/hop + 1
}

// NewFrames validates the framing parameters. A buffer shorter than one frame
// is not an error; it simply yields no frames.
func NewFrames(samples []float32, size, hop int) (*Frames, error) {
	if size <= 1 {
		return nil, ErrInvalidFrameSize
	}
	if hop <= 0 {
		return nil, ErrInvalidHopSize
	}
	return &Frames{
		samples: samples,
		size:    size,
		hop:     hop,
		count:   FrameCount(len(samples), size, hop),
	}, nil
}

func (f *Frames) Count() int { return f.count }
func (f *Frames) Size() int  { return f.size }
func (f *Frames) Hop() int   { return f.hop }

// At returns frame i. It panics if i is outside [0, Count()).
func (f *Frames) At(i int) Frame {
	if i < 0 || i >= f.count {
		panic("analysis: frame index out of range")
	}
	start := i * f.hop
	end := start + f.size
	return Frame(f.samples[start:end:end])
}

// All yields every frame in temporal order together with its index. The
// sequence can be ranged over any number of times.
func (f *Frames) All() iter.Seq2[int, Frame] {
	return func(yield func(int, Frame) bool) {
		for i := range f.count {
			if !yield(i, f.At(i)) {
				return
			}
		}
	}
}
