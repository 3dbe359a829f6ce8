package configinfra

import (
	"context"
	"fmt"
	"time"

	configdomain "github.com/wdwxedit/plugdeploy/internal/core/domain/config"
	configports "github.com/wdwxedit/plugdeploy/internal/core/ports/config"
	plugininfra "github.com/wdwxedit/plugdeploy/internal/infrastructure/plugin"
)

// UnifiedLoader merges every configuration source and produces a validated DeployConfig
type UnifiedLoader struct {
	loaders   []configports.Loader
	validator configports.Validator
}

// NewUnifiedLoader creates a loader over defaults, the config file, the environment and flag overrides
func NewUnifiedLoader(configPath string, overrides map[string]interface{}) *UnifiedLoader {
	return NewUnifiedLoaderWith(NewConfigValidator(),
		NewDefaultsLoader(),
		NewFileLoader(configPath),
		NewEnvLoader(),
		NewOverridesLoader(overrides),
	)
}

// NewUnifiedLoaderWith creates a loader from explicit sources
func NewUnifiedLoaderWith(validator configports.Validator, loaders ...configports.Loader) *UnifiedLoader {
	return &UnifiedLoader{loaders: loaders, validator: validator}
}

// LoadSnapshot merges every source without decoding
func (l *UnifiedLoader) LoadSnapshot(ctx context.Context) (configdomain.Snapshot, error) {
	merged := make(configdomain.Snapshot)
	for _, loader := range l.loaders {
		snap, err := loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s configuration: %w", loader.Name(), err)
		}
		merged.Merge(snap)
	}
	return merged, nil
}

// Load returns the validated configuration and the snapshot it was decoded from
func (l *UnifiedLoader) Load(ctx context.Context) (*configdomain.DeployConfig, configdomain.Snapshot, error) {
	snap, err := l.LoadSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := Decode(snap)
	if err != nil {
		return nil, snap, err
	}

	if l.validator != nil {
		if err := l.validator.Validate(cfg); err != nil {
			return nil, snap, err
		}
	}
	return cfg, snap, nil
}

// Decode converts a snapshot into a DeployConfig. Path fields have ~ expanded.
func Decode(snap configdomain.Snapshot) (*configdomain.DeployConfig, error) {
	cfg := &configdomain.DeployConfig{Restart: true}
	var problems []string

	bad := func(e configdomain.Entry, want string) {
		problems = append(problems, fmt.Sprintf("%s from %s (%s) must be %s, got %v", e.Key, e.Source, e.SourcePath, want, e.Value))
	}

	str := func(field string, dst *string) {
		if e, ok := snap[field]; ok {
			if v, ok := toString(e.Value); ok {
				*dst = v
			} else {
				bad(e, "a string")
			}
		}
	}
	list := func(field string, dst *[]string, conv func(interface{}) ([]string, bool)) {
		if e, ok := snap[field]; ok {
			if v, ok := conv(e.Value); ok {
				*dst = v
			} else {
				bad(e, "a list of strings")
			}
		}
	}
	boolean := func(field string, dst *bool) {
		if e, ok := snap[field]; ok {
			if v, ok := toBool(e.Value); ok {
				*dst = v
			} else {
				bad(e, "a boolean")
			}
		}
	}
	duration := func(field string, dst *time.Duration) {
		if e, ok := snap[field]; ok {
			if v, ok := toDuration(e.Value); ok {
				*dst = v
			} else {
				bad(e, "a duration")
			}
		}
	}

	str(configdomain.FieldSourceDir, &cfg.SourceDir)
	str(configdomain.FieldDestDir, &cfg.DestDir)
	str(configdomain.FieldBuildCommand, &cfg.BuildCommand)
	list(configdomain.FieldArtifacts, &cfg.Artifacts, toStringSlice)
	str(configdomain.FieldProcessName, &cfg.ProcessName)
	str(configdomain.FieldExecutablePath, &cfg.ExecutablePath)
	list(configdomain.FieldLaunchCommand, &cfg.LaunchCommand, toCommand)
	list(configdomain.FieldTerminateCommand, &cfg.TerminateCommand, toCommand)
	duration(configdomain.FieldSettleInterval, &cfg.SettleInterval)
	duration(configdomain.FieldBuildTimeout, &cfg.BuildTimeout)
	boolean(configdomain.FieldRestart, &cfg.Restart)
	boolean(configdomain.FieldSkipBuild, &cfg.SkipBuild)
	boolean(configdomain.FieldDebug, &cfg.Debug)

	if len(problems) > 0 {
		return nil, &configdomain.ConfigError{Problems: problems}
	}

	cfg.SourceDir = plugininfra.ExpandPath(cfg.SourceDir)
	cfg.DestDir = plugininfra.ExpandPath(cfg.DestDir)
	cfg.ExecutablePath = plugininfra.ExpandPath(cfg.ExecutablePath)

	return cfg, nil
}
