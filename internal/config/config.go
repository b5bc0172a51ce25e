package config

import (
	"path/filepath"
	"strings"
)

// Core configuration constants that define the defaults and boundaries of a
// spectrogram run.
const (
	DefaultFFTSize    = 4096    // Frame length in samples
	DefaultHopSize    = 0       // 0 selects FFTSize/2
	DefaultBackend    = "gonum" // Transform implementation
	DefaultWorkers    = 1       // Sequential analysis
	DefaultLogLevel   = "info"
	DefaultOutputExt  = ".png"
	DefaultConfigFile = "spectro.yaml"

	BackendGonum = "gonum" // gonum dsp/fourier, power-of-two sizes
	BackendGoDSP = "godsp" // mjibson/go-dsp, any size

	MinFFTSize = 2
	MaxWorkers = 64
)

// Config holds all runtime options for a spectrogram run. It is built from
// defaults, then an optional YAML file, then SPECTRO_* environment variables
// and finally command line flags.
type Config struct {
	Debug    bool           `yaml:"debug"`     // Shorthand for log_level: debug
	LogLevel string         `yaml:"log_level"` // debug, info, warn, error
	Analysis AnalysisConfig `yaml:"analysis"`
	Render   RenderConfig   `yaml:"render"`

	// Per-invocation values, set from the command line only.
	Command string `yaml:"-"` // One-off command ("info") instead of rendering
	Input   string `yaml:"-"` // Audio file to analyse
	Output  string `yaml:"-"` // Image path, derived from Input when empty
}

// AnalysisConfig controls framing and the spectral transform.
type AnalysisConfig struct {
	FFTSize int    `yaml:"fft_size"` // Frame length in samples (> 1).
	HopSize int    `yaml:"hop_size"` // Offset between frames; 0 means FFTSize/2.
	Backend string `yaml:"backend"`  // "gonum" or "godsp".
	Workers int    `yaml:"workers"`  // Concurrent frame analysers (1 = sequential).
}

// RenderConfig controls glyph resolution for axis and legend labels.
type RenderConfig struct {
	FontPath        string   `yaml:"font_path"`         // Explicit TrueType file; must exist when set.
	FontSearchPaths []string `yaml:"font_search_paths"` // Directories scanned for FontNames.
	FontNames       []string `yaml:"font_names"`        // Candidate file names, in preference order.
}

// NewConfig creates a Config populated with default values.
func NewConfig() *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		Analysis: AnalysisConfig{
			FFTSize: DefaultFFTSize,
			HopSize: DefaultHopSize,
			Backend: DefaultBackend,
			Workers: DefaultWorkers,
		},
		Render: RenderConfig{
			FontSearchPaths: []string{
				"/usr/share/fonts/truetype/dejavu",
				"/usr/share/fonts/TTF",
				"/System/Library/Fonts",
				`C:\Windows\Fonts`,
			},
			FontNames: []string{"DejaVuSansMono.ttf", "Monaco.ttf", "consola.ttf"},
		},
	}
}

// EffectiveHopSize returns the configured hop size, or half the FFT size
// when none was given.
func (a AnalysisConfig) EffectiveHopSize() int {
	if a.HopSize > 0 {
		return a.HopSize
	}
	return a.FFTSize / 2
}

// OutputPath returns the configured output path or, when empty, the input's
// base name with a .png extension in the working directory.
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	base := filepath.Base(c.Input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem + DefaultOutputExt
}
