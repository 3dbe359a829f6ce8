package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	configinfra "github.com/wdwxedit/plugdeploy/internal/infrastructure/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand() *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect the resolved configuration",
		Long: `Inspect the configuration plugdeploy would use, including where every
value came from (flag, env, file or default).`,
	}

	configCmd.AddCommand(NewConfigShowCommand())
	configCmd.AddCommand(NewConfigPathCommand())

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration and its sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := containerOptions(cmd)
			if err != nil {
				return err
			}

			loader := configinfra.NewUnifiedLoader(opts.ConfigPath, opts.Overrides)
			snap, err := loader.LoadSnapshot(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			out := cmd.OutOrStdout()
			printSnapshot(out, snap)

			_, _, err = loader.Load(cmd.Context())
			var cfgErr *configdomain.ConfigError
			switch {
			case err == nil:
				fmt.Fprintln(out, "\nConfiguration is valid")
				return nil
			case errors.As(err, &cfgErr):
				fmt.Fprintln(out, "\nConfiguration problems:")
				for _, p := range cfgErr.Problems {
					fmt.Fprintf(out, "  - %s\n", p)
				}
				return err
			default:
				return err
			}
		},
	}
}

func printSnapshot(w io.Writer, snap configdomain.Snapshot) {
	r := lipgloss.NewRenderer(w)
	key := r.NewStyle().Bold(true).Width(20)
	source := r.NewStyle().Faint(true)

	fmt.Fprintln(w, "Current Configuration:")
	for _, k := range snap.Keys() {
		e := snap[k]
		fmt.Fprintf(w, "%s%v %s\n", key.Render(k), e.Value, source.Render(fmt.Sprintf("(%s: %s)", e.Source, e.SourcePath)))
	}
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show which configuration file is used",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}

			loader := configinfra.NewFileLoader(configPath)
			if _, err := loader.Load(cmd.Context()); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if from := loader.LoadedFrom(); from != "" {
				fmt.Fprintf(out, "Configuration file path: %s\n", from)
				return nil
			}
			fmt.Fprintln(out, "No configuration file found. Searched:")
			for _, p := range configinfra.DefaultSearchPaths() {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}
}
