package di

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/wdwxedit/plugdeploy/internal/application/services"
	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	deploydomain "github.com/wdwxedit/plugdeploy/internal/core/domain/deploy"
	deployports "github.com/wdwxedit/plugdeploy/internal/core/ports/deploy"
	configinfra "github.com/wdwxedit/plugdeploy/internal/infrastructure/config"
	"github.com/wdwxedit/plugdeploy/internal/infrastructure/logging"
	plugininfra "github.com/wdwxedit/plugdeploy/internal/infrastructure/plugin"
	"github.com/wdwxedit/plugdeploy/internal/infrastructure/process"
)

// Options control how the container is assembled
type Options struct {
	ConfigPath string
	Overrides  map[string]interface{}
	Out        io.Writer
	ErrOut     io.Writer
}

// Container holds all application dependencies
type Container struct {
	Config   *configdomain.DeployConfig
	Snapshot configdomain.Snapshot

	Logger  *logging.ConsoleLogger
	Profile deploydomain.PlatformProfile

	// Infrastructure
	Launcher  deployports.ProcessLauncher
	Runner    *process.ShellCommandRunner
	Installer *plugininfra.FileSystemInstaller
	Restarter *process.Restarter

	DeployService *services.DeployService
}

// LoadConfig resolves and validates the configuration without building the rest of the graph
func LoadConfig(ctx context.Context, opts Options) (*configdomain.DeployConfig, configdomain.Snapshot, error) {
	return configinfra.NewUnifiedLoader(opts.ConfigPath, opts.Overrides).Load(ctx)
}

// NewContainer loads configuration and wires every component from it
func NewContainer(ctx context.Context, opts Options) (*Container, error) {
	cfg, snap, err := LoadConfig(ctx, opts)
	if err != nil {
		return nil, err
	}

	c := NewContainerFromConfig(cfg, newLogger(opts, cfg.Debug), process.NewExecLauncher())
	c.Snapshot = snap
	return c, nil
}

// NewContainerFromConfig wires components around an already resolved configuration
func NewContainerFromConfig(cfg *configdomain.DeployConfig, logger *logging.ConsoleLogger, launcher deployports.ProcessLauncher) *Container {
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Launcher: launcher,
	}

	c.Profile = process.CurrentProfile(process.ProfileOptions{
		ProcessName:      cfg.ProcessName,
		ExecutablePath:   cfg.ExecutablePath,
		LaunchCommand:    cfg.LaunchCommand,
		TerminateCommand: cfg.TerminateCommand,
	})

	c.Runner = process.NewShellCommandRunner(launcher, logger, c.Profile, cfg.BuildTimeout)
	c.Installer = plugininfra.NewFileSystemInstaller(logger)
	c.Restarter = process.NewRestarter(launcher, logger, process.WithSettleInterval(cfg.SettleInterval))

	c.DeployService = services.NewDeployService(
		c.Runner,
		c.Installer,
		c.Restarter,
		c.Profile,
		logger,
		services.DeployOptions{SkipBuild: cfg.SkipBuild, Restart: cfg.Restart},
	)

	return c
}

// Target returns the build target and install destination described by the configuration
func (c *Container) Target() (deploydomain.BuildTarget, deploydomain.InstallDestination, error) {
	target, err := deploydomain.NewBuildTarget(c.Config.SourceDir, c.Config.BuildCommand, c.Config.Artifacts)
	if err != nil {
		return deploydomain.BuildTarget{}, deploydomain.InstallDestination{}, fmt.Errorf("invalid build target: %w", err)
	}
	dest, err := deploydomain.NewInstallDestination(c.Config.DestDir)
	if err != nil {
		return deploydomain.BuildTarget{}, deploydomain.InstallDestination{}, fmt.Errorf("invalid destination: %w", err)
	}
	return target, dest, nil
}

func newLogger(opts Options, debug bool) *logging.ConsoleLogger {
	out, errOut := opts.Out, opts.ErrOut
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	return logging.NewConsoleLoggerWithWriters(out, errOut, debug)
}
