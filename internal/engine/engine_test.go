// SPDX-License-Identifier: MIT
package engine

import (
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"spectro/internal/analysis"
	"spectro/internal/audio"
	"spectro/internal/colormap"
	"spectro/internal/config"
	"spectro/internal/render"
	"spectro/pkg/utils"
)

func testEngine(t *testing.T, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.NewConfig()
	cfg.Render.FontSearchPaths = nil
	if mutate != nil {
		mutate(cfg)
	}
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func writeFixture(t *testing.T, name string, data []int, channels, sampleRate int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := utils.WriteWAV(path, data, channels, sampleRate, 16); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	return path
}

func decodePNG(t *testing.T, path string) *image.RGBA {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		b := img.Bounds()
		rgba = image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
	}
	return rgba
}

func TestRunSilentSecond(t *testing.T) {
	in := writeFixture(t, "silence.wav", make([]int, 44100), 1, 44100)
	out := filepath.Join(t.TempDir(), "silence.png")

	res, err := testEngine(t, nil).Run(in, out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 20 || res.Width != 350 || res.Height != 2168 {
		t.Fatalf("result = %+v, want 20 frames at 350x2168", res)
	}

	img := decodePNG(t, out)
	if b := img.Bounds(); b.Dx() != 350 || b.Dy() != 2168 {
		t.Fatalf("png is %dx%d", b.Dx(), b.Dy())
	}
	floor := colormap.Turbo.At(0)
	for x := render.MarginLeft; x < render.MarginLeft+20; x++ {
		for y := render.MarginTop; y < render.MarginTop+2048; y++ {
			if got := img.RGBAAt(x, y); got != floor {
				t.Fatalf("body pixel (%d, %d) = %v, want %v", x, y, got, floor)
			}
		}
	}
}

func TestRunStereoToneParallel(t *testing.T) {
	tone := utils.QuantizeInt(utils.GenerateSineWave(44100, 44100, 1000, 0.5), 16)
	in := writeFixture(t, "tone.wav", utils.Interleave(tone, tone), 2, 44100)
	out := filepath.Join(t.TempDir(), "tone.png")

	e := testEngine(t, func(c *config.Config) {
		c.Analysis.Workers = 4
		c.Analysis.Backend = config.BackendGoDSP
	})
	res, err := e.Run(in, out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 20 {
		t.Errorf("Frames = %d, want 20", res.Frames)
	}
	if res.Analysis.MaxDB <= 0 || res.Analysis.NonZero == 0 {
		t.Errorf("tone analysis looks silent: %+v", res.Analysis)
	}

	img := decodePNG(t, out)
	l := render.NewLayout(res.Frames, 2048)
	x, y := l.Pixel(10, 93)
	if img.RGBAAt(x, y) == colormap.Turbo.At(0) {
		t.Error("1 kHz bin rendered at the noise floor")
	}
}

func TestRunShortInput(t *testing.T) {
	in := writeFixture(t, "short.wav", make([]int, 100), 1, 8000)
	out := filepath.Join(t.TempDir(), "short.png")

	res, err := testEngine(t, nil).Run(in, out)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Frames != 0 || res.Width != 330 {
		t.Errorf("result = %+v, want zero-width body", res)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("output missing: %v", err)
	}
}

func TestRunDefaultOutput(t *testing.T) {
	in := writeFixture(t, "clip.wav", make([]int, 4096), 1, 8000)
	t.Chdir(t.TempDir())

	res, err := testEngine(t, func(c *config.Config) { c.Analysis.FFTSize = 1024 }).Run(in, "")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Output != "clip.png" {
		t.Errorf("Output = %q, want clip.png", res.Output)
	}
	if _, err := os.Stat("clip.png"); err != nil {
		t.Errorf("default output not written: %v", err)
	}
}

func TestRunErrorsWriteNothing(t *testing.T) {
	dir := t.TempDir()
	junk := filepath.Join(dir, "junk.txt")
	if err := os.WriteFile(junk, []byte("plain text, not audio"), 0644); err != nil {
		t.Fatal(err)
	}
	corrupt := filepath.Join(dir, "corrupt.flac")
	if err := os.WriteFile(corrupt, []byte("fLaC\x00\x00\x00\x00"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
		check func(error) bool
	}{
		{"missing", filepath.Join(dir, "absent.wav"), func(err error) bool { return errors.Is(err, fs.ErrNotExist) }},
		{"unsupported", junk, func(err error) bool { return errors.Is(err, audio.ErrUnsupportedFormat) }},
		{"corrupt", corrupt, func(err error) bool {
			var de *audio.DecodeError
			return errors.As(err, &de)
		}},
	}

	e := testEngine(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, tt.name+".png")
			_, err := e.Run(tt.input, out)
			if !tt.check(err) {
				t.Errorf("Run() error = %v", err)
			}
			if _, err := os.Stat(out); !errors.Is(err, fs.ErrNotExist) {
				t.Errorf("output exists after failure: %v", err)
			}
		})
	}
}

func TestNewEngineRejectsBadConfig(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Analysis.FFTSize = 1000
	if _, err := NewEngine(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("non power of two with gonum: error = %v", err)
	}

	cfg = config.NewConfig()
	cfg.Render.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	if _, err := NewEngine(cfg); !errors.Is(err, render.ErrFontNotFound) {
		t.Errorf("missing font: error = %v", err)
	}
}

func TestInfo(t *testing.T) {
	in := writeFixture(t, "info.wav", make([]int, 2*88200), 2, 44100)

	info, err := testEngine(t, nil).Info(in)
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.SampleRate != 44100 || info.Channels != 2 || info.Samples != 88200 {
		t.Errorf("info = %+v", info)
	}
	if info.Duration != 2*time.Second || info.Format != audio.FormatInt || info.Codec != audio.CodecWAV {
		t.Errorf("info = %+v", info)
	}
	if want := analysis.FrameCount(88200, 4096, 2048); info.Frames != want {
		t.Errorf("Frames = %d, want %d", info.Frames, want)
	}
	if info.String() == "" {
		t.Error("String() is empty")
	}
}
