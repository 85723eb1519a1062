// Package cli implements the sobel command-line interface.
package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/gogpu/sobel"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	LogLevel string
}

// NewRootCommand creates the root command for the sobel CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "sobel",
		Short:         "Distributed Sobel edge detection",
		Long:          "Detect edges in a grayscale image by splitting its rows across a group of workers.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(cmd, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output (debug logging)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewDetectCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))

	return cmd
}

// configureLogging installs a text logger on stderr at the requested level.
// Without --verbose or --log-level the library stays silent.
func configureLogging(cmd *cobra.Command, opts *RootOptions) error {
	if !opts.Verbose && opts.LogLevel == "" {
		return nil
	}
	level, err := sobel.ParseLogLevel(opts.LogLevel)
	if err != nil {
		return err
	}
	if opts.Verbose {
		level = slog.LevelDebug
	}
	sobel.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return nil
}
