package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	configinfra "github.com/wdwxedit/plugdeploy/internal/infrastructure/config"
	"github.com/wdwxedit/plugdeploy/internal/interfaces/di"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// NewRootCommand creates the plugdeploy command. Running it without a subcommand deploys.
func NewRootCommand() *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "plugdeploy",
		Short: "Build, install and reload a host-application plugin",
		Long: `plugdeploy builds a plugin from its source directory, copies the build
artifacts (main.js, manifest.json, styles.css) into the host application's
plugin directory and restarts the host application so it picks up the new build.

Configuration is read from flags, PLUGDEPLOY_* environment variables and a
plugdeploy.yaml file, in that order of precedence.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(cmd)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file path (default ./plugdeploy.yaml or ~/.config/plugdeploy/config.yaml)")
	flags.String("source", "", "Plugin source directory (default current directory)")
	flags.String("dest", "", "Plugin directory inside the host application")
	flags.String("build-command", "", "Shell command that builds the plugin (default \"npm run build\")")
	flags.Bool("skip-build", false, "Install the existing artifacts without building")
	flags.Bool("no-restart", false, "Do not restart the host application after installing")
	flags.Duration("settle", 0, "Pause between stopping and relaunching the host application (default 2s)")
	flags.Bool("debug", false, "Enable debug output")

	rootCmd.AddCommand(NewDeployCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewIconCommand())

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

// containerOptions turns the flags the user set into container options
func containerOptions(cmd *cobra.Command) (di.Options, error) {
	flags := cmd.Flags()
	configPath, err := flags.GetString("config")
	if err != nil {
		return di.Options{}, err
	}

	// Only flags the user actually set become overrides; unset flags never shadow env or file values.
	overrides := make(map[string]interface{})
	for field, name := range configinfra.FlagNames {
		if !flags.Changed(name) {
			continue
		}
		f := flags.Lookup(name)
		switch f.Value.Type() {
		case "bool":
			v, _ := flags.GetBool(name)
			overrides[field] = v
		case "duration":
			v, _ := flags.GetDuration(name)
			overrides[field] = v
		default:
			overrides[field] = f.Value.String()
		}
	}
	if flags.Changed("no-restart") {
		noRestart, _ := flags.GetBool("no-restart")
		overrides[configdomain.FieldRestart] = !noRestart
	}

	return di.Options{
		ConfigPath: configPath,
		Overrides:  overrides,
		Out:        cmd.OutOrStdout(),
		ErrOut:     cmd.ErrOrStderr(),
	}, nil
}

// Execute runs the root command and exits non-zero on failure
func Execute(ctx context.Context) {
	rootCmd := NewRootCommand()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
