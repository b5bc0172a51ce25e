// SPDX-License-Identifier: MIT
package render

import (
	"fmt"

	"spectro/internal/analysis"
	"spectro/internal/colormap"
)

// DecibelTicks returns one tick per DecibelTickStep over the display window,
// from the bottom of the colorbar upwards. Pos is the image row.
func DecibelTicks(l Layout) []Tick {
	var ticks []Tick
	for db := analysis.DBMin; db <= analysis.DBMax; db += DecibelTickStep {
		norm := analysis.DecibelsToIntensity(db)
		row := MarginTop + int((1-norm)*float64(l.Bins))
		ticks = append(ticks, Tick{Pos: row, Label: fmt.Sprintf("%.0fdB", db)})
	}
	return ticks
}

// drawLegend paints the colorbar (top is intensity 1), its border and the
// dB scale.
func drawLegend(c *Canvas, l Layout, g GlyphRasterizer, cmap *colormap.Map) {
	x0 := l.ColorbarX()
	x1 := x0 + ColorbarWidth
	for y := range l.Bins {
		norm := 1 - float64(y)/float64(l.Bins)
		c.FillRow(x0, x1, MarginTop+y, cmap.At(norm))
	}

	bottom := MarginTop + l.Bins
	c.VLine(x0, MarginTop, bottom, black)
	c.VLine(x1, MarginTop, bottom, black)
	c.HLine(x0, x1, MarginTop, black)
	c.HLine(x0, x1, bottom, black)

	face := g.Face(DecibelLabelSize)
	for _, t := range DecibelTicks(l) {
		c.Text(face, t.Label, float64(x1+5), float64(t.Pos-8), black)
		c.HLine(x1, x1+TickLength, t.Pos, black)
	}
}
