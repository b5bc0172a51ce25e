// SPDX-License-Identifier: MIT
package render

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	applog "spectro/internal/log"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

var (
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
	black = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

// Canvas is an opaque RGBA raster with a drawing context over it. Pixels are
// written directly for the body and colorbar; lines and text go through gg.
type Canvas struct {
	img *image.RGBA
	dc  *gg.Context
}

// NewCanvas returns a white canvas of the given size.
func NewCanvas(width, height int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	c := &Canvas{img: img, dc: gg.NewContextForRGBA(img)}
	c.dc.SetColor(white)
	c.dc.Clear()
	c.dc.SetLineWidth(1)
	c.dc.SetLineCapButt()
	return c
}

func (c *Canvas) Width() int         { return c.img.Rect.Dx() }
func (c *Canvas) Height() int        { return c.img.Rect.Dy() }
func (c *Canvas) Image() *image.RGBA { return c.img }

// Set paints one pixel. Coordinates outside the canvas are ignored.
func (c *Canvas) Set(x, y int, col color.RGBA) {
	c.img.SetRGBA(x, y, col)
}

// FillRow paints columns [x0, x1) of row y.
func (c *Canvas) FillRow(x0, x1, y int, col color.RGBA) {
	for x := x0; x < x1; x++ {
		c.img.SetRGBA(x, y, col)
	}
}

// HLine draws a one pixel line over columns x0..x1 inclusive of row y.
func (c *Canvas) HLine(x0, x1, y int, col color.Color) {
	if x1 < x0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawLine(float64(x0), float64(y)+0.5, float64(x1+1), float64(y)+0.5)
	c.dc.Stroke()
}

// VLine draws a one pixel line over rows y0..y1 inclusive of column x.
func (c *Canvas) VLine(x, y0, y1 int, col color.Color) {
	if y1 < y0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawLine(float64(x)+0.5, float64(y0), float64(x)+0.5, float64(y1+1))
	c.dc.Stroke()
}

// Text draws s with its top-left corner at (x, y).
func (c *Canvas) Text(face font.Face, s string, x, y float64, col color.Color) {
	c.dc.SetFontFace(face)
	c.dc.SetColor(col)
	c.dc.DrawStringAnchored(s, x, y, 0, 1)
}

// EncodePNG writes the canvas as a PNG image.
func (c *Canvas) EncodePNG(w io.Writer) error {
	return c.dc.EncodePNG(w)
}

// SavePNG writes the canvas to path. A partially written file is removed.
func (c *Canvas) SavePNG(path string) error {
	return writeFile(path, c.EncodePNG)
}

func writeFile(path string, encode func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil {
				applog.Warnf("render: could not remove partial output %s: %v", path, rerr)
			}
		}
	}()

	w := bufio.NewWriter(f)
	if err := encode(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
