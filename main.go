package main

import (
	"errors"
	"fmt"
	"os"

	"spectro/cmd"
	"spectro/internal/config"
	"spectro/internal/engine"
	applog "spectro/internal/log"
	"spectro/pkg/build"
)

// main renders a spectrogram, or describes the input with the info command.
//
// 1. Startup: build information, command line, configuration and font are
// resolved. Any problem here stops the program before audio is read.
//
// 2. Pipeline: the engine decodes, analyses and renders the input.
func main() {
	// ==================== STARTUP ====================

	// Development builds carry no link-time flags; the defaults are fine.
	if err := build.Initialize(); err != nil && !errors.Is(err, build.ErrMissingFlags) {
		applog.Fatalf("%v", err)
	}

	cfg, err := cmd.ParseArgs(os.Args[1:])
	if err != nil {
		applog.Fatalf("%v", err)
	}
	if cfg == nil {
		return // --help or --version
	}
	applog.SetLevel(cfg.Level())
	applog.Debugf("%s %s", build.GetBuildInfo().Name, build.GetBuildInfo())

	e, err := engine.NewEngine(cfg)
	if err != nil {
		applog.Fatalf("%v", err)
	}

	// ==================== PIPELINE ====================

	if cfg.Command != "" {
		if err := executeCommand(e, cfg); err != nil {
			applog.Fatalf("%v", err)
		}
		return
	}

	res, err := e.Run(cfg.Input, cfg.OutputPath())
	if err != nil {
		applog.Fatalf("%v", err)
	}
	applog.WithFields(applog.Fields{
		"frames":  res.Frames,
		"width":   res.Width,
		"height":  res.Height,
		"elapsed": res.Elapsed,
	}).Debug("done")
}

// executeCommand handles one-off commands that do not render an image.
func executeCommand(e *engine.Engine, cfg *config.Config) error {
	switch cfg.Command {
	case cmd.CommandInfo:
		info, err := e.Info(cfg.Input)
		if err != nil {
			return err
		}
		fmt.Println(info)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cfg.Command)
	}
}
