// SPDX-License-Identifier: MIT
/*
Package engine runs the spectrogram pipeline end to end:

	decode -> downmix -> frames -> spectra -> compose -> PNG

Configuration is validated before any audio is read, and the font is resolved
when the Engine is built so a bad font setting fails before any work is done.
*/
package engine

import (
	"fmt"
	"time"

	"spectro/internal/analysis"
	"spectro/internal/audio"
	"spectro/internal/config"
	applog "spectro/internal/log"
	"spectro/internal/render"
)

type Engine struct {
	config   *config.Config
	backend  analysis.Backend
	glyphs   render.GlyphRasterizer
	composer *render.Composer
}

// NewEngine validates cfg and resolves the label font.
func NewEngine(cfg *config.Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	backend, err := analysis.ParseBackend(cfg.Analysis.Backend)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}

	glyphs, err := render.ResolveGlyphs(render.FontOptions{
		Path:        cfg.Render.FontPath,
		SearchPaths: cfg.Render.FontSearchPaths,
		Names:       cfg.Render.FontNames,
	})
	if err != nil {
		return nil, err
	}
	applog.Debugf("engine: labels use %s", glyphs.Name())

	return newEngine(cfg, backend, glyphs), nil
}

func newEngine(cfg *config.Config, backend analysis.Backend, glyphs render.GlyphRasterizer) *Engine {
	return &Engine{
		config:   cfg,
		backend:  backend,
		glyphs:   glyphs,
		composer: render.NewComposer(glyphs),
	}
}

// Result describes a finished run.
type Result struct {
	Output   string
	Frames   int
	Width    int
	Height   int
	Elapsed  time.Duration
	Analysis analysis.Stats
}

// Run renders the spectrogram of input into output. An empty output selects
// the default path derived from input. Nothing is written on failure.
func (e *Engine) Run(input, output string) (*Result, error) {
	start := time.Now()
	if output == "" {
		output = (&config.Config{Input: input}).OutputPath()
	}

	pcm, err := audio.DecodeFile(input)
	if err != nil {
		return nil, err
	}
	logPCM(pcm)

	buf := audio.Downmix(pcm)
	lo, hi := buf.AbsRange()
	applog.Debugf("engine: normalized samples: %d, abs range [%f, %f]", buf.Len(), lo, hi)

	a := e.config.Analysis
	frames, err := analysis.NewFrames(buf.Samples, a.FFTSize, a.EffectiveHopSize())
	if err != nil {
		return nil, err
	}
	applog.Debugf("engine: frames: %d, bins: %d", frames.Count(), a.FFTSize/2)

	spectra, err := analysis.ComputeSpectra(frames, analysis.Options{
		Backend: e.backend,
		Workers: a.Workers,
	})
	if err != nil {
		return nil, fmt.Errorf("analyse: %w", err)
	}
	stats := analysis.Summarize(spectra)
	logStats(stats)

	canvas, err := e.composer.Compose(render.Input{
		Spectra:      spectra,
		FFTSize:      a.FFTSize,
		SampleRate:   buf.SampleRate,
		TotalSamples: buf.Len(),
	})
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	if err := canvas.SavePNG(output); err != nil {
		return nil, err
	}

	res := &Result{
		Output:   output,
		Frames:   frames.Count(),
		Width:    canvas.Width(),
		Height:   canvas.Height(),
		Elapsed:  time.Since(start),
		Analysis: stats,
	}
	applog.Infof("Spectrogram saved to: %s", output)
	return res, nil
}

// Info describes an input file without rendering it.
type Info struct {
	Path       string
	Codec      audio.Codec
	SampleRate int
	Channels   int
	BitDepth   int
	Format     audio.SampleFormat
	Duration   time.Duration
	Samples    int
	Frames     int // spectrogram columns at the configured sizes
}

// Info decodes input and reports its properties.
func (e *Engine) Info(input string) (*Info, error) {
	pcm, err := audio.DecodeFile(input)
	if err != nil {
		return nil, err
	}
	a := e.config.Analysis
	n := pcm.Frames()
	return &Info{
		Path:       input,
		Codec:      pcm.Codec,
		SampleRate: pcm.SampleRate,
		Channels:   pcm.Channels,
		BitDepth:   pcm.BitDepth,
		Format:     pcm.Format,
		Duration:   pcm.Duration(),
		Samples:    n,
		Frames:     analysis.FrameCount(n, a.FFTSize, a.EffectiveHopSize()),
	}, nil
}

// String formats the info as the info command prints it.
func (i *Info) String() string {
	return fmt.Sprintf("File:        %s\n"+
		"Codec:       %s\n"+
		"Sample rate: %d Hz\n"+
		"Channels:    %d\n"+
		"Format:      %s (%d bit)\n"+
		"Duration:    %s\n"+
		"Samples:     %d\n"+
		"Frames:      %d",
		i.Path, i.Codec, i.SampleRate, i.Channels, i.Format, i.BitDepth,
		i.Duration, i.Samples, i.Frames)
}

func logPCM(pcm *audio.PCM) {
	applog.WithFields(applog.Fields{
		"codec":       pcm.Codec,
		"format":      pcm.Format.String(),
		"bit_depth":   pcm.BitDepth,
		"channels":    pcm.Channels,
		"sample_rate": pcm.SampleRate,
		"frames":      pcm.Frames(),
	}).Debug("engine: decoded input")
}

func logStats(s analysis.Stats) {
	if s.Frames == 0 {
		applog.Debugf("engine: no complete frames, body will be empty")
		return
	}
	applog.Debugf("engine: log spectrum range: min=%f, max=%f", s.MinLog, s.MaxLog)
	applog.Debugf("engine: non-zero bins: %d / %d", s.NonZero, s.Frames*s.Bins)
	applog.Debugf("engine: dB range: %.1f to %.1f (display window %.0f to %.0f)",
		s.MinDB, s.MaxDB, analysis.DBMin, analysis.DBMax)
}
