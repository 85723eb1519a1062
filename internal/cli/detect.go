package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gogpu/sobel"
	"github.com/gogpu/sobel/internal/image"
)

// DetectOptions holds flags for the detect command.
type DetectOptions struct {
	*RootOptions
	ConfigPath  string
	Input       string
	Output      string
	Workers     int
	Coordinator int
}

// NewDetectCommand creates the detect command.
func NewDetectCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DetectOptions{RootOptions: rootOpts}
	defaults := sobel.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run edge detection on an image",
		Long: `Load an image, convert it to grayscale, run Sobel edge detection across
a group of in-process workers and write the gradient magnitude as a PNG.

Flags override values read from --config. The output file is only written
when every worker succeeds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			return runDetect(cmd, cfg)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", defaults.Input, "input image")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", defaults.Output, "output PNG")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", defaults.Workers, "number of workers")
	cmd.Flags().IntVar(&opts.Coordinator, "coordinator", defaults.Coordinator, "coordinator rank (-1 for the last rank)")

	return cmd
}

// resolve merges the config file, if any, with explicitly set flags.
func (o *DetectOptions) resolve(cmd *cobra.Command) (sobel.Config, error) {
	cfg := sobel.DefaultConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = sobel.LoadConfig(o.ConfigPath); err != nil {
			return cfg, err
		}
		if o.LogLevel == "" && !o.Verbose && cfg.LogLevel != "" {
			o.LogLevel = cfg.LogLevel
			if err := configureLogging(cmd, o.RootOptions); err != nil {
				return cfg, err
			}
		}
	}

	flags := cmd.Flags()
	if flags.Changed("input") || o.ConfigPath == "" {
		cfg.Input = o.Input
	}
	if flags.Changed("output") || o.ConfigPath == "" {
		cfg.Output = o.Output
	}
	if flags.Changed("workers") || o.ConfigPath == "" {
		cfg.Workers = o.Workers
	}
	if flags.Changed("coordinator") || o.ConfigPath == "" {
		cfg.Coordinator = o.Coordinator
	}

	return cfg, cfg.Validate()
}

func runDetect(cmd *cobra.Command, cfg sobel.Config) error {
	img, err := image.Load(cfg.Input)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Image Info: imgColumns:%d, imgRows:%d\n", img.Columns(), img.Rows())

	edges, err := sobel.RunLocal(cmd.Context(), img, cfg.Workers, sobel.WithCoordinator(cfg.Coordinator))
	if err != nil {
		return err
	}

	if err := image.Save(cfg.Output, edges); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", cfg.Output)
	return nil
}
