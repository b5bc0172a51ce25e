// Package utils holds signal generators and fixture writers shared by tests
// across the module.
package utils

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// GenerateSineWave returns size samples of a sine at frequency Hz with the
// given peak amplitude.
func GenerateSineWave(size int, sampleRate, frequency, amplitude float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*frequency*t) * amplitude)
	}
	return buffer
}

// GenerateComplexWave returns a 440 Hz fundamental plus two harmonics.
func GenerateComplexWave(size int, sampleRate float64) []float32 {
	buffer := make([]float32, size)
	for i := range buffer {
		tm := float64(i) / sampleRate
		buffer[i] = float32(math.Sin(2*math.Pi*440*tm)*0.5 +
			math.Sin(2*math.Pi*880*tm)*0.3 +
			math.Sin(2*math.Pi*1320*tm)*0.2)
	}
	return buffer
}

// QuantizeInt scales float samples in [-1, 1] to signed integers of the given
// bit depth.
func QuantizeInt(samples []float32, bitDepth int) []int {
	full := float64(audio.IntMaxSignedValue(bitDepth))
	out := make([]int, len(samples))
	for i, s := range samples {
		out[i] = int(math.Round(float64(s) * full))
	}
	return out
}

// Interleave zips equally long per-channel sample slices into one frame
// ordered slice.
func Interleave(channels ...[]int) []int {
	if len(channels) == 0 {
		return nil
	}
	n := len(channels[0])
	out := make([]int, 0, n*len(channels))
	for i := range n {
		for _, ch := range channels {
			out = append(out, ch[i])
		}
	}
	return out
}

// FindPeakBin returns the index of the largest magnitude in
// magnitudes[startBin:endBin+1].
func FindPeakBin(magnitudes []float32, startBin, endBin int) int {
	if len(magnitudes) == 0 {
		return 0
	}

	if startBin < 0 {
		startBin = 0
	}

	if endBin >= len(magnitudes) {
		endBin = len(magnitudes) - 1
	}

	peakBin := startBin
	peakValue := magnitudes[startBin]

	for bin := startBin + 1; bin <= endBin; bin++ {
		if magnitudes[bin] > peakValue {
			peakValue = magnitudes[bin]
			peakBin = bin
		}
	}

	return peakBin
}

// WriteWAV writes interleaved integer PCM to an uncompressed WAV file.
func WriteWAV(path string, data []int, channels, sampleRate, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		f.Close()
		return fmt.Errorf("write wav samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize wav: %w", err)
	}
	return f.Close()
}
