// SPDX-License-Identifier: MIT
/*
Package render composes the spectrogram image: the colour-mapped body,
frequency and time axes with labelled ticks, and a decibel colorbar legend.

Composition runs in a fixed order over a Canvas owned by the caller:
body, axes, frequency ticks, time ticks, legend.
*/
package render

// Fixed layout in pixels.
const (
	MarginLeft   = 160
	MarginRight  = 180 // time ticks at or beyond Width-MarginRight are dropped
	MarginTop    = 60
	MarginBottom = 60

	ColorbarOffset  = 40  // gap between the body and the colorbar
	ColorbarWidth   = 30
	LegendTextWidth = 100 // room for dB labels right of the colorbar

	TickLength = 5
)

// Tick spacing and label sizes.
const (
	FrequencyTickStep = 1000.0 // Hz
	TimeTickStep      = 5.0    // seconds
	DecibelTickStep   = 10.0   // dB

	FrequencyLabelSize = 24.0
	TimeLabelSize      = 24.0
	DecibelLabelSize   = 20.0
)

// Layout is the geometry of one image. The body is Frames columns wide and
// Bins rows tall, with bin 0 on the bottom row.
type Layout struct {
	Frames int
	Bins   int
	Width  int
	Height int
}

// NewLayout computes the image geometry for frames spectra of bins values.
func NewLayout(frames, bins int) Layout {
	return Layout{
		Frames: frames,
		Bins:   bins,
		Width:  MarginLeft + frames + ColorbarOffset + ColorbarWidth + LegendTextWidth,
		Height: MarginTop + bins + MarginBottom,
	}
}

// BodyBottom is the first row below the body.
func (l Layout) BodyBottom() int { return l.Height - MarginBottom }

// BodyRight is the first column right of the body.
func (l Layout) BodyRight() int { return MarginLeft + l.Frames }

// ColorbarX is the left column of the colorbar.
func (l Layout) ColorbarX() int { return l.BodyRight() + ColorbarOffset }

// Pixel maps frame x and bin y to image coordinates.
func (l Layout) Pixel(x, y int) (px, py int) {
	return MarginLeft + x, l.Height - MarginBottom - y - 1
}
