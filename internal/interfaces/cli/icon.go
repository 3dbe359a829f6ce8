package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configinfra "github.com/wdwxedit/plugdeploy/internal/infrastructure/config"
	"github.com/wdwxedit/plugdeploy/internal/infrastructure/icon"
	"github.com/wdwxedit/plugdeploy/internal/infrastructure/logging"
)

// NewIconCommand creates the icon command
func NewIconCommand() *cobra.Command {
	var (
		input  string
		output string
		size   int
	)

	iconCmd := &cobra.Command{
		Use:   "icon",
		Short: "Convert the plugin icon from SVG to PNG",
		Long: `Rasterize an SVG icon into a PNG. When the SVG cannot be rendered a
simplified built-in drawing of the icon is used instead; if that fails too,
manual conversion steps are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := iconLogger(cmd)
			if err != nil {
				return err
			}

			result, err := icon.NewConverter(logger).Convert(cmd.Context(), icon.Request{
				Input:  input,
				Output: output,
				Size:   size,
			})
			if err != nil {
				return err
			}

			logger.LogDebug("icon converted", map[string]interface{}{"tier": result.Tier, "method": result.Method})
			return nil
		},
	}

	iconCmd.Flags().StringVar(&input, "in", "images/fish-symbol-256.svg", "SVG input file")
	iconCmd.Flags().StringVar(&output, "out", "images/fish-symbol.png", "PNG output file")
	iconCmd.Flags().IntVar(&size, "size", icon.DefaultSize, "Output width and height in pixels")

	iconCmd.AddCommand(newIconVariantsCommand())

	return iconCmd
}

func newIconVariantsCommand() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "variants",
		Short: "Write the icon as SVG files in several sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := iconLogger(cmd)
			if err != nil {
				return err
			}

			paths, err := icon.WriteSVGVariants(dir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				logger.LogSuccess(fmt.Sprintf("Created %s", p), nil)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "images", "Directory to write the SVG files into")
	return cmd
}

// iconLogger resolves debug the same way deploy does (flag, env, config file) without
// requiring the deploy settings to be valid.
func iconLogger(cmd *cobra.Command) (*logging.ConsoleLogger, error) {
	opts, err := containerOptions(cmd)
	if err != nil {
		return nil, err
	}

	snap, err := configinfra.NewUnifiedLoader(opts.ConfigPath, opts.Overrides).LoadSnapshot(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg, err := configinfra.Decode(snap)
	if err != nil {
		return nil, err
	}

	return logging.NewConsoleLoggerWithWriters(opts.Out, opts.ErrOut, cfg.Debug), nil
}
