package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jackcat/internal/config"
	"jackcat/pkg/build"
)

// ParseArgs builds the run configuration from the command line. An
// optional YAML config file is applied first so that flags always win.
func ParseArgs() (*config.Config, error) {
	buildInfo := build.GetBuildFlags()
	options := config.NewConfig()

	// The config file seeds the flag defaults, so it has to be located
	// before the flags are defined.
	if err := options.LoadFile(configPathFromArgs(os.Args[1:])); err != nil {
		return nil, err
	}

	var configPath, blockSize, ringSize string

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name,
		Short:         "Stream raw multi-channel audio between the audio graph and a file",
		Version:       buildInfo.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	captureCmd := &cobra.Command{
		Use:   "capture FILE [port...]",
		Short: "Record audio ports into a raw sample file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Mode = config.ModeCapture
			options.FilePath = args[0]
			options.Connect = args[1:]
			return nil
		},
	}
	playCmd := &cobra.Command{
		Use:   "play FILE [port...]",
		Short: "Replay a raw sample file into audio ports",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			options.Mode = config.ModePlayback
			options.FilePath = args[0]
			options.Connect = args[1:]
			return nil
		},
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List available audio devices",
		Run: func(cmd *cobra.Command, args []string) {
			options.Command = "list"
		},
	}
	rootCmd.AddCommand(captureCmd, playCmd, listCmd)

	// Run Definition
	rootCmd.PersistentFlags().IntVarP(&options.Ports, "ports", "n", options.Ports,
		"Number of ports; defaults to the count of named ports to connect")
	rootCmd.PersistentFlags().IntVarP(&options.Duration, "duration", "t", options.Duration,
		"Run duration in seconds (0 = until signaled)")

	// Transfer Tuning
	rootCmd.PersistentFlags().StringVarP(&blockSize, "block-size", "b", "",
		"Max bytes per disk read/write, k/m/g suffixes allowed (default 1m)")
	rootCmd.PersistentFlags().StringVarP(&ringSize, "ring-size", "B", "",
		"Ring buffer capacity in bytes, k/m/g suffixes allowed (default 1m)")

	// Graph Binding
	rootCmd.PersistentFlags().StringVarP(&options.ClientName, "client-name", "N", options.ClientName,
		"Client name presented to the audio graph")
	rootCmd.PersistentFlags().IntVarP(&options.DeviceID, "device", "d", options.DeviceID,
		"Device ID. Use the 'list' command to see available devices")
	rootCmd.PersistentFlags().Float64VarP(&options.SampleRate, "sample-rate", "s", options.SampleRate,
		"Sample rate, measured in Hertz (Hz)")
	rootCmd.PersistentFlags().IntVarP(&options.FramesPerBuffer, "frames-per-buffer", "f", options.FramesPerBuffer,
		"Frames per graph block (0 lets the host choose)")

	// Debug Configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", options.Verbose,
		"Show verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to a YAML config file (default jackcat.yaml if present)")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	if blockSize != "" {
		n, err := config.ParseSize(blockSize)
		if err != nil {
			return nil, err
		}
		options.BlockSize = n
	}
	if ringSize != "" {
		n, err := config.ParseSize(ringSize)
		if err != nil {
			return nil, err
		}
		options.RingSize = n
	}

	// Named ports imply the port count, like the original -n/port-list
	// split.
	if options.Ports == 0 && len(options.Connect) > 0 {
		options.Ports = len(options.Connect)
	}

	if options.Mode != config.ModeNone {
		if err := options.Validate(); err != nil {
			return nil, err
		}
	}

	return options, nil
}

// configPathFromArgs pre-scans the raw arguments for --config so the
// file can seed flag defaults.
func configPathFromArgs(args []string) string {
	for i, a := range args {
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(a, "--config=") {
			return strings.TrimPrefix(a, "--config=")
		}
	}
	return ""
}
