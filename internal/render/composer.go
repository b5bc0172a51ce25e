// SPDX-License-Identifier: MIT
package render

import (
	"fmt"

	"spectro/internal/analysis"
	"spectro/internal/colormap"
	applog "spectro/internal/log"
)

// Input is everything the composer needs to draw one spectrogram.
type Input struct {
	Spectra      []analysis.Spectrum
	FFTSize      int // sets the body height, even with no spectra
	SampleRate   int
	TotalSamples int // length of the mono signal, for the time axis
}

// Composer draws spectrograms with an injected glyph source.
type Composer struct {
	glyphs GlyphRasterizer
	cmap   *colormap.Map
}

// NewComposer returns a Composer using the turbo colormap.
func NewComposer(glyphs GlyphRasterizer) *Composer {
	return &Composer{glyphs: glyphs, cmap: colormap.Turbo}
}

// Compose lays out and draws the whole image. An empty Spectra gives a zero
// width body with axes and legend still drawn.
func (c *Composer) Compose(in Input) (*Canvas, error) {
	if in.FFTSize <= 1 {
		return nil, fmt.Errorf("%w: got %d", analysis.ErrInvalidFrameSize, in.FFTSize)
	}
	bins := in.FFTSize / 2
	for i, s := range in.Spectra {
		if len(s) != bins {
			return nil, fmt.Errorf("spectrum %d has %d bins, want %d", i, len(s), bins)
		}
	}

	l := NewLayout(len(in.Spectra), bins)
	applog.WithFields(applog.Fields{
		"width":  l.Width,
		"height": l.Height,
		"frames": l.Frames,
	}).Debug("render: composing")

	canvas := NewCanvas(l.Width, l.Height)
	c.paintBody(canvas, l, in.Spectra)
	drawAxes(canvas, l)
	drawFrequencyTicks(canvas, l, c.glyphs, in.SampleRate)
	drawTimeTicks(canvas, l, c.glyphs, in.TotalSamples, in.SampleRate)
	drawLegend(canvas, l, c.glyphs, c.cmap)

	return canvas, nil
}

func (c *Composer) paintBody(canvas *Canvas, l Layout, spectra []analysis.Spectrum) {
	for x, spec := range spectra {
		for y, mag := range spec {
			px, py := l.Pixel(x, y)
			canvas.Set(px, py, c.cmap.At(analysis.ToIntensity(float64(mag))))
		}
	}
}
