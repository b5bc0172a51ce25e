// SPDX-License-Identifier: MIT
/*
Package audio turns an audio file into a mono SampleBuffer.

Decoding is delegated to third-party decoders:
  - WAV: go-audio/wav fast path, retried once through beep on rejection
  - FLAC: mewkiz/flac, yielding integer PCM
  - MP3 and Ogg Vorbis: beep, yielding float PCM

Downmix then reduces the interleaved PCM to normalized mono samples.
*/
package audio

import "time"

// SampleFormat tells whether PCM holds integer or floating point samples.
type SampleFormat int

const (
	FormatInt SampleFormat = iota
	FormatFloat
)

// String returns the string representation of the SampleFormat.
func (f SampleFormat) String() string {
	switch f {
	case FormatInt:
		return "int"
	case FormatFloat:
		return "float"
	default:
		return "unknown"
	}
}

// PCM is decoded, interleaved audio as produced by a decoder. Exactly one of
// Ints or Floats is populated, according to Format.
type PCM struct {
	Ints       []int
	Floats     []float32
	Format     SampleFormat
	Channels   int
	SampleRate int
	BitDepth   int
	Codec      Codec
}

// Frames returns the number of complete sample frames (one sample per
// channel). A trailing partial frame is not counted.
func (p *PCM) Frames() int {
	ch := p.channels()
	if p.Format == FormatFloat {
		return len(p.Floats) / ch
	}
	return len(p.Ints) / ch
}

// Duration returns the playing time of the complete frames.
func (p *PCM) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(p.Frames()) * time.Second / time.Duration(p.SampleRate)
}

func (p *PCM) channels() int {
	if p.Channels < 1 {
		return 1
	}
	return p.Channels
}
