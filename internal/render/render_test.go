// SPDX-License-Identifier: MIT
package render

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"spectro/internal/analysis"
	"spectro/internal/colormap"
	"spectro/pkg/utils"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
)

// fixedGlyphs hands out the same bitmap face for every size and records the
// sizes asked for.
type fixedGlyphs struct {
	sizes []float64
}

func (g *fixedGlyphs) Face(size float64) font.Face {
	g.sizes = append(g.sizes, size)
	return basicfont.Face7x13
}

func dark(c color.RGBA) bool {
	return c.R < 64 && c.G < 64 && c.B < 64
}

func silentSpectra(t *testing.T, samples, fftSize int) []analysis.Spectrum {
	t.Helper()
	frames, err := analysis.NewFrames(make([]float32, samples), fftSize, fftSize/2)
	if err != nil {
		t.Fatal(err)
	}
	spectra, err := analysis.ComputeSpectra(frames, analysis.Options{})
	if err != nil {
		t.Fatal(err)
	}
	return spectra
}

func TestNewLayout(t *testing.T) {
	tests := []struct {
		frames, bins, width, height int
	}{
		{20, 2048, 350, 2168},
		{0, 2048, 330, 2168},
		{1000, 512, 1330, 632},
	}
	for _, tt := range tests {
		l := NewLayout(tt.frames, tt.bins)
		if l.Width != tt.width || l.Height != tt.height {
			t.Errorf("NewLayout(%d, %d) = %dx%d, want %dx%d", tt.frames, tt.bins, l.Width, l.Height, tt.width, tt.height)
		}
	}

	l := NewLayout(20, 2048)
	if x, y := l.Pixel(0, 0); x != MarginLeft || y != l.Height-MarginBottom-1 {
		t.Errorf("Pixel(0, 0) = (%d, %d)", x, y)
	}
	if _, y := l.Pixel(0, 2047); y != MarginTop {
		t.Errorf("top bin row = %d, want %d", y, MarginTop)
	}
}

func TestComposeSilentSecond(t *testing.T) {
	spectra := silentSpectra(t, 44100, 4096)
	if len(spectra) != 20 {
		t.Fatalf("frames = %d, want 20", len(spectra))
	}

	glyphs := &fixedGlyphs{}
	canvas, err := NewComposer(glyphs).Compose(Input{
		Spectra:      spectra,
		FFTSize:      4096,
		SampleRate:   44100,
		TotalSamples: 44100,
	})
	if err != nil {
		t.Fatal(err)
	}
	if canvas.Width() != 350 || canvas.Height() != 2168 {
		t.Fatalf("canvas = %dx%d, want 350x2168", canvas.Width(), canvas.Height())
	}

	floor := colormap.Turbo.At(0)
	img := canvas.Image()
	for x := MarginLeft; x < MarginLeft+20; x++ {
		for y := MarginTop; y < MarginTop+2048; y++ {
			if got := img.RGBAAt(x, y); got != floor {
				t.Fatalf("body pixel (%d, %d) = %v, want %v", x, y, got, floor)
			}
		}
	}

	if got := img.RGBAAt(0, 0); got != white {
		t.Errorf("background = %v, want white", got)
	}
	if got := img.RGBAAt(MarginLeft-1, MarginTop+100); !dark(got) {
		t.Errorf("frequency axis pixel = %v, want black", got)
	}
	if got := img.RGBAAt(MarginLeft+5, MarginTop+2048); !dark(got) {
		t.Errorf("time axis pixel = %v, want black", got)
	}

	if !slices.Contains(glyphs.sizes, FrequencyLabelSize) || !slices.Contains(glyphs.sizes, DecibelLabelSize) {
		t.Errorf("label sizes requested = %v", glyphs.sizes)
	}
}

func TestComposeEmptyBuffer(t *testing.T) {
	spectra := silentSpectra(t, 0, 4096)

	canvas, err := NewComposer(&fixedGlyphs{}).Compose(Input{
		Spectra:    spectra,
		FFTSize:    4096,
		SampleRate: 44100,
	})
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if canvas.Width() != 330 || canvas.Height() != 2168 {
		t.Errorf("canvas = %dx%d, want 330x2168", canvas.Width(), canvas.Height())
	}

	l := NewLayout(0, 2048)
	top := canvas.Image().RGBAAt(l.ColorbarX()+ColorbarWidth/2, MarginTop+1)
	if top != colormap.Turbo.At(1-1.0/2048) {
		t.Errorf("colorbar top = %v, want %v", top, colormap.Turbo.At(1-1.0/2048))
	}
}

func TestComposeToneBrightensBin(t *testing.T) {
	signal := utils.GenerateSineWave(8192, 44100, 1000, 1)
	frames, _ := analysis.NewFrames(signal, 4096, 2048)
	spectra, _ := analysis.ComputeSpectra(frames, analysis.Options{})

	canvas, err := NewComposer(&fixedGlyphs{}).Compose(Input{
		Spectra: spectra, FFTSize: 4096, SampleRate: 44100, TotalSamples: len(signal),
	})
	if err != nil {
		t.Fatal(err)
	}

	l := NewLayout(len(spectra), 2048)
	want := colormap.Turbo.At(analysis.ToIntensity(float64(spectra[0][93])))
	x, y := l.Pixel(0, 93)
	if got := canvas.Image().RGBAAt(x, y); got != want {
		t.Errorf("tone pixel = %v, want %v", got, want)
	}
	if want == colormap.Turbo.At(0) {
		t.Error("tone bin rendered at the noise floor")
	}
}

func TestComposeRejectsMismatchedSpectra(t *testing.T) {
	_, err := NewComposer(&fixedGlyphs{}).Compose(Input{
		Spectra: []analysis.Spectrum{make(analysis.Spectrum, 10)},
		FFTSize: 64,
	})
	if err == nil {
		t.Error("expected error for spectrum length mismatch")
	}
	if _, err := NewComposer(&fixedGlyphs{}).Compose(Input{FFTSize: 1}); !errors.Is(err, analysis.ErrInvalidFrameSize) {
		t.Errorf("FFTSize 1: error = %v", err)
	}
}

func TestFrequencyTicks(t *testing.T) {
	l := NewLayout(10, 2048)

	ticks := FrequencyTicks(l, 44100)
	if len(ticks) != 23 {
		t.Fatalf("44.1 kHz: %d ticks, want 23 (0..22 kHz)", len(ticks))
	}
	if ticks[0].Label != "0.0kHz" || ticks[0].Pos != l.BodyBottom()-1 {
		t.Errorf("first tick = %+v", ticks[0])
	}
	if last := ticks[len(ticks)-1]; last.Label != "22.0kHz" {
		t.Errorf("last tick = %+v, want 22.0kHz", last)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Pos >= ticks[i-1].Pos {
			t.Fatalf("tick rows not ascending in frequency: %+v then %+v", ticks[i-1], ticks[i])
		}
	}

	on := FrequencyTicks(l, 16000)
	if top := on[len(on)-1]; top.Label != "8.0kHz" || top.Pos != MarginTop {
		t.Errorf("on-grid Nyquist tick = %+v, want 8.0kHz at row %d", top, MarginTop)
	}
	if len(on) != 9 {
		t.Errorf("16 kHz: %d ticks, want 9", len(on))
	}

	if FrequencyTicks(l, 0) != nil {
		t.Error("zero sample rate should give no ticks")
	}
}

func TestTimeTicks(t *testing.T) {
	tests := []struct {
		name       string
		frames     int
		samples    int
		sampleRate int
		want       []string
	}{
		{"one second", 20, 44100, 44100, []string{"0:00"}},
		{"empty", 0, 0, 44100, nil},
		{"twelve seconds", 600, 12 * 8000, 8000, []string{"0:00", "0:05", "0:10"}},
		{"past a minute", 700, 70 * 100, 100, []string{
			"0:00", "0:05", "0:10", "0:15", "0:20", "0:25", "0:30",
			"0:35", "0:40", "0:45", "0:50", "0:55", "1:00", "1:05",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLayout(tt.frames, 64)
			ticks := TimeTicks(l, tt.samples, tt.sampleRate)
			var labels []string
			for _, tk := range ticks {
				labels = append(labels, tk.Label)
				if tk.Pos >= l.Width-MarginRight {
					t.Errorf("tick %+v inside right margin", tk)
				}
			}
			if !slices.Equal(labels, tt.want) {
				t.Errorf("labels = %v, want %v", labels, tt.want)
			}
		})
	}

	// A tick landing in the last columns before the legend is dropped.
	l := NewLayout(15, 64)
	if ticks := TimeTicks(l, 5*100, 100); len(ticks) != 1 {
		t.Errorf("got %d ticks, want only 0:00", len(ticks))
	}
}

func TestDecibelTicks(t *testing.T) {
	l := NewLayout(1, 120)
	ticks := DecibelTicks(l)
	if len(ticks) != 13 {
		t.Fatalf("%d ticks, want 13", len(ticks))
	}
	if ticks[0].Label != "-120dB" || ticks[0].Pos != MarginTop+120 {
		t.Errorf("bottom tick = %+v", ticks[0])
	}
	if ticks[12].Label != "0dB" || ticks[12].Pos != MarginTop {
		t.Errorf("top tick = %+v", ticks[12])
	}
	if ticks[6].Label != "-60dB" || ticks[6].Pos != MarginTop+60 {
		t.Errorf("middle tick = %+v", ticks[6])
	}
}

func TestSavePNGRoundTrip(t *testing.T) {
	canvas, err := NewComposer(&fixedGlyphs{}).Compose(Input{
		Spectra: silentSpectra(t, 2048, 256), FFTSize: 256, SampleRate: 8000, TotalSamples: 2048,
	})
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.png")
	if err := canvas.SavePNG(path); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != canvas.Width() || b.Dy() != canvas.Height() {
		t.Errorf("decoded %dx%d, want %dx%d", b.Dx(), b.Dy(), canvas.Width(), canvas.Height())
	}
}

func TestWriteFileRemovesPartialOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.png")
	boom := errors.New("boom")

	err := writeFile(path, func(w io.Writer) error {
		_, _ = w.Write(bytes.Repeat([]byte{1}, 8192))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("writeFile() error = %v, want boom", err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("partial file still present: %v", err)
	}
}

func TestSavePNGMissingDirectory(t *testing.T) {
	c := NewCanvas(4, 4)
	if err := c.SavePNG(filepath.Join(t.TempDir(), "no", "such", "dir.png")); err == nil {
		t.Error("expected error writing into a missing directory")
	}
}

func TestResolveGlyphs(t *testing.T) {
	t.Run("bundled fallback", func(t *testing.T) {
		g, err := ResolveGlyphs(FontOptions{SearchPaths: []string{t.TempDir()}, Names: []string{"none.ttf"}})
		if err != nil {
			t.Fatal(err)
		}
		if g.Name() != BundledFontName {
			t.Errorf("Name() = %q, want %q", g.Name(), BundledFontName)
		}
		if g.Face(24) != g.Face(24) {
			t.Error("faces are not cached per size")
		}
	})

	t.Run("search path", func(t *testing.T) {
		dir := t.TempDir()
		bad := filepath.Join(dir, "broken.ttf")
		good := filepath.Join(dir, "mono.ttf")
		if err := os.WriteFile(bad, []byte("not a font"), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(good, gomono.TTF, 0644); err != nil {
			t.Fatal(err)
		}

		g, err := ResolveGlyphs(FontOptions{SearchPaths: []string{dir}, Names: []string{"broken.ttf", "mono.ttf"}})
		if err != nil {
			t.Fatal(err)
		}
		if g.Name() != good {
			t.Errorf("Name() = %q, want %q", g.Name(), good)
		}
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, err := ResolveGlyphs(FontOptions{Path: filepath.Join(t.TempDir(), "missing.ttf")})
		if !errors.Is(err, ErrFontNotFound) {
			t.Errorf("error = %v, want ErrFontNotFound", err)
		}
	})

	t.Run("explicit path unparseable", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "junk.ttf")
		if err := os.WriteFile(path, []byte("junk"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ResolveGlyphs(FontOptions{Path: path}); !errors.Is(err, ErrFontNotFound) {
			t.Errorf("error = %v, want ErrFontNotFound", err)
		}
	})
}

func BenchmarkCompose(b *testing.B) {
	signal := utils.GenerateComplexWave(44100*5, 44100)
	frames, _ := analysis.NewFrames(signal, 2048, 1024)
	spectra, _ := analysis.ComputeSpectra(frames, analysis.Options{})
	glyphs, _ := BundledGlyphs()
	composer := NewComposer(glyphs)
	in := Input{Spectra: spectra, FFTSize: 2048, SampleRate: 44100, TotalSamples: len(signal)}

	for b.Loop() {
		if _, err := composer.Compose(in); err != nil {
			b.Fatal(err)
		}
	}
}
