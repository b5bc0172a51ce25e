// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	applog "spectro/internal/log"
	"spectro/pkg/bitint"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// LoadConfig reads configuration with ReadConfig and validates it.
func LoadConfig(path string) (*Config, error) {
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadConfig loads configuration from the YAML file at path without
// validating it, so callers can layer further overrides first. If path is
// empty it looks for DefaultConfigFile in the working directory and falls
// back to built-in defaults when none exists. Environment overrides are
// applied last.
func ReadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	applog.Debugf("configuration: loaded %s", path)

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Validate checks the configuration before any audio is decoded.
func (c *Config) Validate() error {
	a := c.Analysis
	if a.FFTSize < MinFFTSize {
		return fmt.Errorf("%w: fft_size must be > 1, got %d", ErrInvalidConfig, a.FFTSize)
	}
	switch a.Backend {
	case BackendGonum:
		if !bitint.IsPowerOfTwo(a.FFTSize) {
			return fmt.Errorf("%w: fft_size %d is not a power of two (try %d, or backend %q)",
				ErrInvalidConfig, a.FFTSize, bitint.NextPowerOfTwo(a.FFTSize), BackendGoDSP)
		}
	case BackendGoDSP:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, a.Backend)
	}
	if a.HopSize < 0 {
		return fmt.Errorf("%w: hop_size must be > 0, got %d", ErrInvalidConfig, a.HopSize)
	}
	if a.EffectiveHopSize() <= 0 {
		return fmt.Errorf("%w: hop_size resolves to %d", ErrInvalidConfig, a.EffectiveHopSize())
	}
	if a.Workers < 1 || a.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers must be in [1, %d], got %d", ErrInvalidConfig, MaxWorkers, a.Workers)
	}
	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalidConfig, c.LogLevel)
	}
	return nil
}

// Level resolves the effective log level; Debug wins over LogLevel.
func (c *Config) Level() applog.LogLevel {
	if c.Debug {
		return applog.LevelDebug
	}
	level, _ := applog.ParseLevel(c.LogLevel)
	return level
}

// applyEnvOverrides reads SPECTRO_* variables. Unparseable values are
// ignored.
func (c *Config) applyEnvOverrides() {
	// SPECTRO_DEBUG
	if val, ok := os.LookupEnv("SPECTRO_DEBUG"); ok {
		if bVal, err := strconv.ParseBool(val); err == nil {
			c.Debug = bVal
			applog.Debugf("configuration: overriding debug from env: %v", bVal)
		}
	}
	// SPECTRO_LOG_LEVEL
	if val, ok := os.LookupEnv("SPECTRO_LOG_LEVEL"); ok {
		c.LogLevel = val
		applog.Debugf("configuration: overriding log_level from env: %s", val)
	}
	// SPECTRO_FFT_BACKEND
	if val, ok := os.LookupEnv("SPECTRO_FFT_BACKEND"); ok {
		c.Analysis.Backend = val
		applog.Debugf("configuration: overriding analysis.backend from env: %s", val)
	}
	// SPECTRO_WORKERS
	if val, ok := os.LookupEnv("SPECTRO_WORKERS"); ok {
		if n, err := strconv.Atoi(val); err == nil {
			c.Analysis.Workers = n
			applog.Debugf("configuration: overriding analysis.workers from env: %d", n)
		}
	}
	// SPECTRO_FONT_PATH
	if val, ok := os.LookupEnv("SPECTRO_FONT_PATH"); ok {
		c.Render.FontPath = val
		applog.Debugf("configuration: overriding render.font_path from env: %s", val)
	}
}
