package cmd

import (
	"fmt"

	"spectro/internal/config"
	"spectro/pkg/build"

	"github.com/spf13/cobra"
)

// CommandInfo selects the info command instead of rendering.
const CommandInfo = "info"

// ParseArgs builds the run configuration from defaults, the config file,
// SPECTRO_* environment variables and finally the command line. It returns a
// nil Config when cobra handled the invocation itself (--help, --version).
func ParseArgs(args []string) (*config.Config, error) {
	buildInfo := build.GetBuildInfo()

	var (
		result     *config.Config
		configPath string
		verbose    bool
		input      string
		output     string
	)
	options := config.NewConfig() // flag targets; only changed flags are applied

	resolve := func(cmd *cobra.Command, args []string, command string) error {
		// Validated below, once flags are merged.
		cfg, err := config.ReadConfig(configPath)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		if flags.Changed("fft-size") {
			cfg.Analysis.FFTSize = options.Analysis.FFTSize
		}
		if flags.Changed("hop-size") {
			cfg.Analysis.HopSize = options.Analysis.HopSize
		}
		if flags.Changed("backend") {
			cfg.Analysis.Backend = options.Analysis.Backend
		}
		if flags.Changed("workers") {
			cfg.Analysis.Workers = options.Analysis.Workers
		}
		if flags.Changed("font") {
			cfg.Render.FontPath = options.Render.FontPath
		}
		if verbose {
			cfg.Debug = true
		}

		if input == "" && len(args) > 0 {
			input = args[0]
		}
		if input == "" {
			return fmt.Errorf("%w: an input file is required (--input)", config.ErrInvalidConfig)
		}
		cfg.Input = input
		cfg.Output = output
		cfg.Command = command

		if err := cfg.Validate(); err != nil {
			return err
		}
		result = cfg
		return nil
	}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " [file]",
		Short:         buildInfo.Description,
		Version:       buildInfo.String(),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolve(cmd, args, "")
		},
	}

	// Display help message
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Info command
	infoCmd := &cobra.Command{
		Use:   CommandInfo + " [file]",
		Short: "Print the properties of an audio file without rendering it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return resolve(cmd, args, CommandInfo)
		},
	}
	rootCmd.AddCommand(infoCmd)

	// Input / Output
	rootCmd.PersistentFlags().StringVarP(&input, "input", "i", "",
		"Audio file to analyse (WAV, FLAC, MP3, Ogg Vorbis)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "",
		"Output PNG path. Default is <input name>.png in the working directory")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"YAML configuration file. Default is "+config.DefaultConfigFile+" if present")

	// Analysis Configuration
	rootCmd.PersistentFlags().IntVarP(&options.Analysis.FFTSize, "fft-size", "f", config.DefaultFFTSize,
		"Frame length in samples; a power of two for the gonum backend")
	rootCmd.PersistentFlags().IntVarP(&options.Analysis.HopSize, "hop-size", "p", config.DefaultHopSize,
		"Samples between frame starts. 0 selects half the FFT size")
	rootCmd.PersistentFlags().StringVarP(&options.Analysis.Backend, "backend", "b", config.DefaultBackend,
		"FFT implementation: gonum or godsp")
	rootCmd.PersistentFlags().IntVarP(&options.Analysis.Workers, "workers", "w", config.DefaultWorkers,
		"Frames analysed concurrently (1 = sequential)")

	// Render Configuration
	rootCmd.PersistentFlags().StringVar(&options.Render.FontPath, "font", "",
		"TrueType font for labels. Default searches system fonts, then uses Go Mono")

	// Debug Configuration
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Show verbose output")

	// Execute the CLI. A nil slice would make cobra fall back to os.Args.
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return result, nil
}
