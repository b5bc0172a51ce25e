// SPDX-License-Identifier: MIT
package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	applog "spectro/internal/log"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

// ErrFontNotFound is returned when an explicitly configured font cannot be
// loaded.
var ErrFontNotFound = errors.New("font not found")

// GlyphRasterizer supplies font faces for labels.
type GlyphRasterizer interface {
	Face(size float64) font.Face
}

// BundledFontName names the font used when no system font is found.
const BundledFontName = "Go Mono"

// Glyphs rasterizes labels from a single TrueType font, caching one face per
// size.
type Glyphs struct {
	name string
	font *truetype.Font

	mu    sync.Mutex
	faces map[float64]font.Face
}

var _ GlyphRasterizer = (*Glyphs)(nil)

// LoadGlyphs parses the TrueType font at path.
func LoadGlyphs(path string) (*Glyphs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseGlyphs(path, data)
}

// BundledGlyphs returns glyphs for the Go Mono font compiled into the binary.
func BundledGlyphs() (*Glyphs, error) {
	return parseGlyphs(BundledFontName, gomono.TTF)
}

func parseGlyphs(name string, data []byte) (*Glyphs, error) {
	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return &Glyphs{name: name, font: f, faces: make(map[float64]font.Face)}, nil
}

// Name returns the font path, or BundledFontName.
func (g *Glyphs) Name() string { return g.name }

// Face returns a face of the given point size at 72 DPI, so one point is one
// pixel.
func (g *Glyphs) Face(size float64) font.Face {
	g.mu.Lock()
	defer g.mu.Unlock()

	if face, ok := g.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(g.font, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	g.faces[size] = face
	return face
}

// FontOptions selects the label font.
type FontOptions struct {
	Path        string   // explicit file; failure to load is an error
	SearchPaths []string // directories scanned for Names
	Names       []string // candidate file names in preference order
}

// ResolveGlyphs loads the explicit font if one is set. Otherwise it takes the
// first loadable candidate from the search paths and falls back to the
// bundled font.
func ResolveGlyphs(opts FontOptions) (*Glyphs, error) {
	if opts.Path != "" {
		g, err := LoadGlyphs(opts.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFontNotFound, opts.Path, err)
		}
		return g, nil
	}

	for _, dir := range opts.SearchPaths {
		for _, name := range opts.Names {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			g, err := LoadGlyphs(path)
			if err != nil {
				applog.Warnf("render: skipping font %s: %v", path, err)
				continue
			}
			applog.Debugf("render: using font %s", path)
			return g, nil
		}
	}

	applog.Debugf("render: no system font found, using %s", BundledFontName)
	return BundledGlyphs()
}
