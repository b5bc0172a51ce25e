// SPDX-License-Identifier: MIT
// Package colormap maps normalized intensities onto colours.
package colormap

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Size is the number of entries in a lookup table.
const Size = 256

// Map is a fixed lookup table interpolated linearly between entries.
type Map struct {
	name  string
	table [Size]colorful.Color
}

// Turbo runs from dark blue-black through blue, cyan, green and yellow to a
// dark red.
var Turbo = newMap("turbo", turbo)

func newMap(name string, fn func(t float64) (r, g, b float64)) *Map {
	m := &Map{name: name}
	for i := range m.table {
		r, g, b := fn(float64(i) / (Size - 1))
		m.table[i] = colorful.Color{R: channel(r), G: channel(g), B: channel(b)}
	}
	return m
}

func (m *Map) Name() string { return m.name }

// At returns the colour for t, clamped to [0, 1]. At(0) and At(1) are the
// first and last table entries. NaN is treated as 0.
func (m *Map) At(t float64) color.RGBA {
	switch {
	case math.IsNaN(t), t <= 0:
		return toRGBA(m.table[0])
	case t >= 1:
		return toRGBA(m.table[Size-1])
	}

	pos := t * (Size - 1)
	i := int(pos)
	frac := pos - float64(i)
	if frac == 0 {
		return toRGBA(m.table[i])
	}
	return toRGBA(m.table[i].BlendRgb(m.table[i+1], frac))
}

// Entry returns table entry i as an opaque colour.
func (m *Map) Entry(i int) color.RGBA {
	return toRGBA(m.table[min(max(i, 0), Size-1)])
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// channel converts a 0-255 polynomial value to a clamped 0-1 component.
func channel(v float64) float64 {
	return min(max(v, 0), 255) / 255
}

// turbo is the polynomial approximation of Google's Turbo colormap, in
// 0-255 units.
func turbo(t float64) (r, g, b float64) {
	r = 34.61 + t*(1172.33-t*(10793.56-t*(33300.12-t*(38394.49-t*14825.05))))
	g = 23.31 + t*(557.33+t*(1225.33-t*(3574.96-t*(1073.77+t*707.56))))
	b = 27.2 + t*(3211.1-t*(15327.97-t*(27814-t*(22569.18-t*6838.66))))
	return r, g, b
}
