// SPDX-License-Identifier: MIT
package render

import (
	"fmt"
	"math"
)

// Tick is a labelled position along an axis, in image pixels.
type Tick struct {
	Pos   int
	Label string
}

// FrequencyTicks returns one tick per FrequencyTickStep from 0 Hz up to the
// Nyquist frequency. Pos is the image row. The top-most grid tick always lies
// within one step of Nyquist, so Nyquist never gets a tick of its own unless
// it is on the grid.
func FrequencyTicks(l Layout, sampleRate int) []Tick {
	if sampleRate <= 0 || l.Bins <= 0 {
		return nil
	}
	nyquist := float64(sampleRate) / 2
	n := int(math.Floor(nyquist/FrequencyTickStep)) + 1

	ticks := make([]Tick, 0, n)
	for i := range n {
		freq := float64(i) * FrequencyTickStep
		row := l.BodyBottom() - int(freq/nyquist*float64(l.Bins)) - 1
		ticks = append(ticks, Tick{
			Pos:   max(row, MarginTop),
			Label: fmt.Sprintf("%.1fkHz", freq/1000),
		})
	}
	return ticks
}

// TimeTicks returns one tick per TimeTickStep seconds of audio. Pos is the
// image column, placed linearly across the body. Ticks that would reach into
// the right margin are dropped, as is everything for empty audio.
func TimeTicks(l Layout, totalSamples, sampleRate int) []Tick {
	if sampleRate <= 0 || totalSamples <= 0 {
		return nil
	}
	duration := float64(totalSamples) / float64(sampleRate)
	n := int(math.Ceil(duration / TimeTickStep))

	var ticks []Tick
	for i := 0; i <= n; i++ {
		t := float64(i) * TimeTickStep
		if t > duration {
			break
		}
		x := MarginLeft + int(t/duration*float64(l.Frames))
		if x >= l.Width-MarginRight {
			continue
		}
		secs := int(t)
		ticks = append(ticks, Tick{Pos: x, Label: fmt.Sprintf("%d:%02d", secs/60, secs%60)})
	}
	return ticks
}

// drawAxes draws the frequency axis one column left of the body and the time
// axis one row below it.
func drawAxes(c *Canvas, l Layout) {
	c.VLine(MarginLeft-1, MarginTop, l.BodyBottom(), black)
	c.HLine(MarginLeft-1, l.BodyRight(), l.BodyBottom(), black)
}

func drawFrequencyTicks(c *Canvas, l Layout, g GlyphRasterizer, sampleRate int) {
	face := g.Face(FrequencyLabelSize)
	for _, t := range FrequencyTicks(l, sampleRate) {
		c.Text(face, t.Label, 50, float64(t.Pos-12), black)
		c.HLine(MarginLeft-1-TickLength, MarginLeft-2, t.Pos, black)
	}
}

func drawTimeTicks(c *Canvas, l Layout, g GlyphRasterizer, totalSamples, sampleRate int) {
	face := g.Face(TimeLabelSize)
	for _, t := range TimeTicks(l, totalSamples, sampleRate) {
		c.Text(face, t.Label, float64(t.Pos-30), float64(l.BodyBottom()+20), black)
		c.VLine(t.Pos, l.BodyBottom(), l.BodyBottom()+TickLength-1, black)
	}
}
